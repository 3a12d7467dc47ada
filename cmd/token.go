package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	srv "github.com/Mahesh1735/research-agent-core/internal/server"
)

func tokenCMD(cfgPath *string) *cobra.Command {
	var subject string
	var ttl time.Duration
	var hashPassword string
	var token = &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the /api routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if hashPassword != "" {
				hash, err := srv.HashPassword(hashPassword)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
				return err
			}
			cfg, _, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if cfg.Server.JWTSecret == "" {
				return errors.New("server.jwt_secret is not configured")
			}
			signed, err := srv.SignJWT(subject, []byte(cfg.Server.JWTSecret), ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}
	token.Flags().StringVar(&subject, "subject", "cli", "token subject")
	token.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	token.Flags().StringVar(&hashPassword, "hash-password", "", "print the bcrypt hash for server.password_hash instead of a token")
	return token
}
