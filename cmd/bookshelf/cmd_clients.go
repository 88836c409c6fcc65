package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/burkel24/go-bookshelf/internal/api"
	"github.com/burkel24/go-bookshelf/internal/pager"
	"github.com/burkel24/go-bookshelf/internal/tui"
	"github.com/burkel24/go-bookshelf/internal/web"
)

func newUICmd() *cobra.Command {
	var (
		flags   clientFlags
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Browse and edit the catalog in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.DiscardHandler)
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logger = stderrLogger(f)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return tui.Run(ctx, flags.client(), flags.localizer(), logger)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")

	return cmd
}

func newWebCmd() *cobra.Command {
	var (
		flags clientFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the browser front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := stderrLogger(cmd.ErrOrStderr())

			srv := &http.Server{
				Addr:              addr,
				Handler:           web.NewHandler(flags.client(), logger).Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("web front-end listening", slog.String("addr", addr), slog.String("api", flags.apiURL))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8081", "listen address")

	return cmd
}

func newListCmd() *cobra.Command {
	var (
		flags   clientFlags
		page    int
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := flags.client().ListBooks(cmd.Context())
			if err != nil {
				return fmt.Errorf("list books: %w", err)
			}

			pg := pager.New(perPage)
			pg.Goto(page, len(books))

			return printBooks(cmd.OutOrStdout(), flags, pg, books)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page to print, starting at 1")
	cmd.Flags().IntVar(&perPage, "per-page", pager.DefaultPerPage, "books per page")

	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		flags   clientFlags
		query   api.SearchQuery
		page    int
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search the catalog by keyword and price range",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				query.Keyword = args[0]
			}

			result, err := flags.client().SearchBooks(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("search books: %w", err)
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), flags.localizer().T("search.results", result.Keyword, result.Total)); err != nil {
				return err
			}

			pg := pager.New(perPage)
			pg.Goto(page, len(result.Data))

			return printBooks(cmd.OutOrStdout(), flags, pg, result.Data)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&query.SearchBy, "by", "", "field to match: all, title, author, publisher or isbn")
	cmd.Flags().StringVar(&query.MinPrice, "min-price", "", "lowest price to include")
	cmd.Flags().StringVar(&query.MaxPrice, "max-price", "", "highest price to include")
	cmd.Flags().IntVar(&page, "page", 1, "page to print, starting at 1")
	cmd.Flags().IntVar(&perPage, "per-page", pager.DefaultPerPage, "books per page")

	return cmd
}

func printBooks(w io.Writer, flags clientFlags, pg *pager.Pager, books []api.Book) error {
	loc := flags.localizer()

	if len(books) == 0 {
		_, err := fmt.Fprintln(w, loc.T("books.empty"))
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(
			loc.T("field.id"),
			loc.T("field.name"),
			loc.T("field.author"),
			loc.T("field.publisher"),
			loc.T("field.isbn"),
			loc.T("field.interview_times"),
			loc.T("field.price"),
		)

	for _, book := range pager.Window(pg, books) {
		t.Row(
			book.ID,
			book.Name,
			book.Author,
			book.Publisher,
			book.ISBN,
			strconv.Itoa(book.InterviewTimes),
			strconv.FormatFloat(book.Price, 'f', 2, 64),
		)
	}

	_, err := fmt.Fprintf(w, "%s\n%s  %s\n",
		t.Render(),
		loc.T("pagination.status", pg.Page(), pg.TotalPages(len(books))),
		loc.T("books.total", len(books)),
	)

	return err
}
