package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valeriaulyamaeva/fintrack/utils"
)

var (
	seedOpts utils.SeedOptions
	seedRand int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with fake users and data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if _, err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		res, err := utils.NewSeeder(store, seedRand).Seed(cmd.Context(), seedOpts)
		if err != nil {
			return err
		}
		for _, u := range res.Users {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", u.ID, u.Email)
		}
		return nil
	},
}

func init() {
	f := seedCmd.Flags()
	f.IntVar(&seedOpts.Users, "users", 3, "Number of users")
	f.IntVar(&seedOpts.Transactions, "transactions", 50, "Transactions per user")
	f.IntVar(&seedOpts.Budgets, "budgets", 3, "Monthly budgets per user")
	f.IntVar(&seedOpts.Investments, "investments", 5, "Investments per user")
	f.IntVar(&seedOpts.Todos, "todos", 5, "Todos per user")
	f.StringVar(&seedOpts.Password, "password", "password123", "Password given to every generated user")
	f.Int64Var(&seedRand, "seed", 0, "Random seed (0 picks one)")
	rootCmd.AddCommand(seedCmd)
}
