package cli

import (
	"fmt"
	"time"

	"trivia-service/internal/auth"
	"trivia-service/internal/config"

	"github.com/spf13/cobra"
)

// NewTokenCmd prints a development bearer token signed with auth.secret.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		req auth.TokenRequest
		ttl string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			req.Issuer = cfg.Auth.Issuer
			req.Audience = cfg.Auth.Audience
			req.TTL = config.TTLDuration(ttl, time.Hour)
			token, err := auth.Issue(cfg.Auth.Secret, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Subject, "sub", "", "subject (user id)")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&ttl, "ttl", "1h", "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
