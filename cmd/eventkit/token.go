package main

import (
	"github.com/spf13/cobra"

	"github.com/eventkit/eventkit/internal/config"
	"github.com/eventkit/eventkit/internal/server"
	"github.com/eventkit/eventkit/internal/validation"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for a user",
	Long:  `Generate a signed JWT for calling the protected REST endpoints. Requires JWT_SECRET to be set.`,
	RunE:  runToken,
}

var tokenUserID string

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "User email address the token identifies (required)")
	if err := tokenCmd.MarkFlagRequired("user-id"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	if err := validation.ValidateUserID(tokenUserID); err != nil {
		return err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(tokenUserID)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"token":      token,
		"token_type": "Bearer",
		"user_id":    tokenUserID,
		"expires_in": jwtConfig.ExpirationHours * 3600,
	})
}
