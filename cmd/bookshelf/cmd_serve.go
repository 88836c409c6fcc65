package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/burkel24/go-bookshelf"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the book API server",
		Long: `Runs the JSON API under /api/books. Settings come from the environment:
ADDR, PORT, DB_DRIVER, DATABASE_URL, QUERY_TIMEOUT, LOG_LEVEL,
AUTH_SIGNING_SECRET and AUTH_ISSUER.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := append(bookshelf.BuildAppOpts(), bookshelf.BuildServerOpts()...)

			app := fx.New(opts...)
			if err := app.Err(); err != nil {
				return err
			}

			app.Run()

			return nil
		},
	}
}
