package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/valeriaulyamaeva/fintrack/internal/config"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "fintrack",
	Short:         "Personal finance tracker API",
	Long:          "fintrack serves a JSON API for tracking transactions, budgets, investments and todos.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML config file (default $FINTRACK_CONFIG)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fintrack: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration for commands that only need the database.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if cfg.Database.URL == "" {
		return cfg, errors.New("database url is not set, use DATABASE_URL or one of its aliases")
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg config.Config) (*database.Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := database.Connect(connectCtx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	if err := store.Ping(connectCtx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	return store, nil
}
