package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrator rights",
}

func setAdminCommand(use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			user, err := store.GetUserByEmail(ctx, args[0])
			if err != nil {
				return err
			}
			if _, err := store.SetUserAdmin(ctx, user.ID, isAdmin); err != nil {
				return err
			}
			if !isAdmin {
				if _, err := store.RevokeUserSessions(ctx, user.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: is_admin=%t\n", user.Email, isAdmin)
			return nil
		},
	}
}

func init() {
	adminCmd.AddCommand(
		setAdminCommand("grant", "Give a user administrator rights", true),
		setAdminCommand("revoke", "Remove administrator rights from a user", false),
	)
	rootCmd.AddCommand(adminCmd)
}
