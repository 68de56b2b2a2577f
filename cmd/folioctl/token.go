package main

import (
	"fmt"
	"time"

	"folio/internal/auth"
	"folio/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:         "token <user-id>",
	Short:       "Issue an HS256 bearer token for local use",
	Long:        `Sign a token with JWT_SECRET so the API can be called as the given user. Only meaningful when the server verifies tokens with a shared secret.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipStores: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ttl, _ := cmd.Flags().GetDuration("ttl")
		email, _ := cmd.Flags().GetString("email")

		if cli.cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		issuer, err := auth.NewHMACVerifier([]byte(cli.cfg.JWTSecret), cli.logger)
		if err != nil {
			return err
		}

		now := time.Now()
		token, err := issuer.IssueToken(&models.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   args[0],
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
			Email: email,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	tokenCmd.Flags().String("email", "", "email claim")
	rootCmd.AddCommand(tokenCmd)
}
