package main

import (
	"log"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
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

		applied, err := store.Migrate(cmd.Context())
		if err != nil {
			return err
		}
		log.Printf("Миграция завершена, применено: %d", applied)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
