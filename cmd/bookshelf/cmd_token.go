package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/burkel24/go-bookshelf"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for write requests",
		Long: `Signs a token with AUTH_SIGNING_SECRET and AUTH_ISSUER from the
environment. Pass it to the clients with --token or BOOKSHELF_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bookshelf.LoadConfig()
			if err != nil {
				return err
			}

			auth, err := bookshelf.NewAuthService(bookshelf.AuthServiceParams{
				Config: cfg,
				Logger: bookshelf.NewLogger(io.Discard, cfg.LogLevel),
			})
			if err != nil {
				return err
			}

			if !auth.AuthService.Enabled() {
				return errors.New("AUTH_SIGNING_SECRET is not set")
			}

			token, err := auth.AuthService.IssueToken(subject, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)

			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "librarian", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
