package main

import (
	"fmt"

	"alfred/internal/config"
	"alfred/internal/pkg/jwt"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a reviewer token signed with JWT_SECRET",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reviewer, _ := cmd.Flags().GetString("reviewer")
		role, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if ttl <= 0 {
			ttl = cfg.JWT.ExpiresIn
		}

		tok, err := jwt.NewHMACService(cfg.JWT.Secret, ttl).GenerateReviewerToken(reviewer, role)
		if err != nil {
			return fmt.Errorf("mint token: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
		return err
	},
}

func init() {
	tokenCmd.Flags().String("reviewer", "", "reviewer id embedded in the token")
	tokenCmd.Flags().String("role", jwt.RoleReviewer, "reviewer or admin")
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (default JWT_EXPIRES_IN)")
	if err := tokenCmd.MarkFlagRequired("reviewer"); err != nil {
		panic(fmt.Sprintf("failed to mark reviewer flag as required: %v", err))
	}

	rootCmd.AddCommand(tokenCmd)
}
