package main

import (
	"fmt"
	"time"

	"github.com/quadrant-ai/quadrant/config"
	srv "github.com/quadrant-ai/quadrant/internal/server"
	"github.com/spf13/cobra"
)

func tokenCMD() *cobra.Command {
	var subject string
	var ttl time.Duration
	var cfgPath string

	var token = &cobra.Command{
		Use:   "token",
		Short: "Mint a service JWT for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if cfg.Server.JWTSecret == "" {
				return fmt.Errorf("jwt secret not configured (server.jwt_secret)")
			}
			tok, err := srv.SignJWT(subject, []byte(cfg.Server.JWTSecret), ttl)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	token.Flags().StringVar(&subject, "subject", "service", "token subject")
	token.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	token.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is env only)")

	return token
}
