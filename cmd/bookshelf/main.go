// Command bookshelf runs the book catalog API and its terminal and browser
// clients.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/burkel24/go-bookshelf/internal/api"
	"github.com/burkel24/go-bookshelf/internal/i18n"
)

type clientFlags struct {
	apiURL string
	token  string
	lang   string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.apiURL, "api", envOr("BOOKSHELF_API", api.DefaultBaseURL), "book API base URL")
	cmd.Flags().StringVar(&f.token, "token", os.Getenv("BOOKSHELF_TOKEN"), "bearer token for write requests")
	cmd.Flags().StringVar(&f.lang, "lang", "", "interface language, e.g. zh-Hans or en (defaults to $LANG)")
}

func (f *clientFlags) client() *api.Client {
	var opts []api.Option
	if f.token != "" {
		opts = append(opts, api.WithToken(f.token))
	}

	return api.New(f.apiURL, opts...)
}

func (f *clientFlags) localizer() *i18n.Localizer {
	lang := f.lang
	if lang == "" {
		lang = posixLocale(os.Getenv("LANG"))
	}

	return i18n.For(lang)
}

// posixLocale turns "en_US.UTF-8" into "en-US".
func posixLocale(value string) string {
	value, _, _ = strings.Cut(value, ".")
	value, _, _ = strings.Cut(value, "@")
	if value == "C" || value == "POSIX" {
		return ""
	}

	return strings.ReplaceAll(value, "_", "-")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func stderrLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "Book catalog server and clients",
		Long: `bookshelf manages a catalog of books.

"bookshelf serve" runs the JSON API. "bookshelf ui" and "bookshelf web" are
terminal and browser front-ends that talk to a running API.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newUICmd(),
		newWebCmd(),
		newListCmd(),
		newSearchCmd(),
		newTokenCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
