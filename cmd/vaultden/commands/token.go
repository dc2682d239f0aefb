package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultden/vaultden/pkg/api/auth"
	"github.com/vaultden/vaultden/pkg/config"
)

var (
	tokenUserID string
	tokenEmail  string
	tokenRoles  []string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a JWT token pair for a user",
	Long: `Mint an access and refresh token pair signed with the configured JWT secret.

Intended for development and operational tooling; production tokens should be
issued by your identity provider.

Examples:
  # Token for a regular user
  vaultden token --user u-123 --email alice@example.com

  # Token for an admin
  vaultden token --user u-1 --email ops@example.com --role admin`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "User ID to embed in the token (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email to embed in the token")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", nil, "Role to embed in the token (repeatable)")
	_ = tokenCmd.MarkFlagRequired("user")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	secret := cfg.API.GetJWTSecret()
	if len(secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters; run 'vaultden init' or set it in the config")
	}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:               secret,
		AccessTokenDuration:  cfg.API.JWT.AccessTokenDuration,
		RefreshTokenDuration: cfg.API.JWT.RefreshTokenDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}

	pair, err := jwtService.GenerateTokenPair(tokenUserID, tokenEmail, tokenRoles)
	if err != nil {
		return fmt.Errorf("failed to generate token pair: %w", err)
	}

	fmt.Printf("Access token (valid %s):\n%s\n\n", jwtService.GetAccessTokenDuration(), pair.AccessToken)
	fmt.Printf("Refresh token:\n%s\n", pair.RefreshToken)

	return nil
}
