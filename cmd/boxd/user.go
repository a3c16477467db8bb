package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"boxd/internal/auth"
	"boxd/internal/config"
	"boxd/internal/store"
)

func newUserCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserAddCmd(cfg))
	return cmd
}

// newUserAddCmd provisions an account directly against the store, for
// setups where open registration over the API is not wanted.
func newUserAddCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add <email> <password>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := auth.NormalizeEmail(args[0])
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(args[1])
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			existing, err := st.GetUserByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("user %s already exists", email)
			}

			user, err := st.CreateUser(cmd.Context(), email, hash, time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
}
