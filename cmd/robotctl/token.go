package main

import (
	"fmt"
	"time"

	"robot-notifier/config"
	"robot-notifier/pkg/jwt"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with JWT_SECRET_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			mgr, err := jwt.New(jwt.Config{SecretKey: cfg.JWTSecret})
			if err != nil {
				return err
			}
			token, err := mgr.Generate(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Caller name recorded in the token (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime")
	cmd.MarkFlagRequired("subject")
	return cmd
}
