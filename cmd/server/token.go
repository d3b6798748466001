package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyjia/doc-workflow/internal/auth"
)

var (
	tokenUser string
	tokenRole string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := bootstrap()
		if err != nil {
			return err
		}

		tokens, err := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}
		raw, err := tokens.Issue(auth.Actor{ID: tokenUser, Role: tokenRole})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), raw)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id placed in the token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleEditor, "role claim (admin or editor)")
	_ = tokenCmd.MarkFlagRequired("user")
}
