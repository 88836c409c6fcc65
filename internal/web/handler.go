// Package web serves the browser front-end of the catalog. Pages are rendered
// on the server from the book API; dialogs open through query parameters and
// submit as plain HTML forms.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/burkel24/go-bookshelf/internal/api"
	"github.com/burkel24/go-bookshelf/internal/i18n"
	"github.com/burkel24/go-bookshelf/internal/pager"
)

const requestTimeout = 10 * time.Second

// Books is the part of *api.Client the browser front-end needs.
type Books interface {
	ListBooks(ctx context.Context) ([]api.Book, error)
	SaveBook(ctx context.Context, book api.Book, bookID string) (map[string]any, error)
	DeleteBook(ctx context.Context, bookID string) error
	GetBook(ctx context.Context, bookID string) (api.Book, error)
	SearchBooks(ctx context.Context, query api.SearchQuery) (api.SearchResult, error)
}

var searchParams = []string{"keyword", "search_by", "min_price", "max_price"}

type Handler struct {
	books  Books
	bundle *i18n.Bundle
	logger *slog.Logger
}

func NewHandler(books Books, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Handler{
		books:  books,
		bundle: i18n.Default(),
		logger: logger,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/books", h.save)
	r.Post("/books/{id}/delete", h.delete)

	return r
}

func (h *Handler) localizer(r *http.Request) *i18n.Localizer {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return h.bundle.Localizer(h.bundle.Match(lang))
	}

	return h.bundle.Localizer(h.bundle.Match(r.Header.Get("Accept-Language")))
}

// carriedQuery keeps the params that survive a form post or a dialog change.
func carriedQuery(r *http.Request) url.Values {
	q := url.Values{}
	for _, key := range append([]string{"lang", "page", "per_page"}, searchParams...) {
		if value := strings.TrimSpace(r.URL.Query().Get(key)); value != "" {
			q.Set(key, value)
		}
	}

	return q
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return fallback
	}

	return n
}

// searchQuery reads the search form. It reports false when neither a keyword
// nor a price bound is given, which means the whole catalog.
func searchQuery(r *http.Request) (api.SearchQuery, bool) {
	values := r.URL.Query()

	query := api.SearchQuery{
		Keyword:  strings.TrimSpace(values.Get("keyword")),
		SearchBy: values.Get("search_by"),
		MinPrice: strings.TrimSpace(values.Get("min_price")),
		MaxPrice: strings.TrimSpace(values.Get("max_price")),
	}

	return query, query.Keyword != "" || query.MinPrice != "" || query.MaxPrice != ""
}

// load fetches either the catalog or the search results the request asks for.
func (h *Handler) load(ctx context.Context, r *http.Request, v *PageView) ([]api.Book, error) {
	query, ok := searchQuery(r)
	if !ok {
		return h.books.ListBooks(ctx)
	}

	v.Search = query
	v.Searching = true

	result, err := h.books.SearchBooks(ctx, query)
	if err != nil {
		return nil, err
	}

	return result.Data, nil
}

// view loads the catalog and lays out the requested page. A load failure is
// reported inside the view, not as an error.
func (h *Handler) view(r *http.Request) PageView {
	loc := h.localizer(r)

	v := PageView{
		Loc:   loc,
		Query: carriedQuery(r),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	books, err := h.load(ctx, r, &v)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "load books", slog.Any("err", err))
		v.LoadError = loadErrorText(loc, err)
		v.Page = 1
		return v
	}

	pg := pager.New(queryInt(r, "per_page", pager.DefaultPerPage))
	pg.Goto(queryInt(r, "page", 1), len(books))

	v.Books = pager.Window(pg, books)
	v.Total = len(books)
	v.Page = pg.Page()
	v.TotalPages = pg.TotalPages(len(books))
	v.PerPage = pg.PerPage()

	modal, id := r.URL.Query().Get("modal"), r.URL.Query().Get("id")
	switch modal {
	case modalAdd:
		v.Modal = modalAdd
	case modalEdit, modalDelete:
		if id == "" {
			break
		}

		book, err := h.books.GetBook(ctx, id)
		if err != nil {
			h.logger.WarnContext(r.Context(), "open dialog", slog.String("book_id", id), slog.Any("err", err))
			break
		}

		v.Modal = modal
		if modal == modalEdit {
			v.Form = book
			v.EditingID = book.ID
		} else {
			v.Deleting = book
		}
	}

	return v
}

func loadErrorText(loc *i18n.Localizer, err error) string {
	var respErr *api.ResponseError
	if errors.As(err, &respErr) {
		return loc.T("books.load_error")
	}

	return err.Error()
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, v PageView) {
	templ.Handler(Page(v), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.view(r))
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if encoded := carriedQuery(r).Encode(); encoded != "" {
		target += "?" + encoded
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

var (
	errFormID             = errors.New("validation.id")
	errFormPrice          = errors.New("validation.price")
	errFormInterviewTimes = errors.New("validation.interview_times")
)

// bookFromForm reads the dialog fields. Errors carry a catalog key.
func bookFromForm(r *http.Request) (api.Book, string, error) {
	field := func(name string) string {
		return strings.TrimSpace(r.PostForm.Get(name))
	}

	editingID := field("bookId")
	book := api.Book{
		ID:        field("book_id"),
		Name:      field("book_name"),
		ISBN:      field("book_isbn"),
		Author:    field("book_author"),
		Publisher: field("book_publisher"),
	}
	if book.ID == "" {
		book.ID = editingID
	}

	if book.ID == "" {
		return book, editingID, errFormID
	}

	if raw := field("interview_times"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return book, editingID, errFormInterviewTimes
		}
		book.InterviewTimes = n
	}

	if raw := field("book_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			return book, editingID, errFormPrice
		}
		book.Price = price
	}

	return book, editingID, nil
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, editingID, err := bookFromForm(r)

	formFailed := func(status int, message string) {
		v := h.view(r)
		v.Modal = modalAdd
		if editingID != "" {
			v.Modal = modalEdit
		}
		v.Form = book
		v.EditingID = editingID
		v.FormError = message
		h.render(w, r, status, v)
	}

	if err != nil {
		formFailed(http.StatusUnprocessableEntity, h.localizer(r).T(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := h.books.SaveBook(ctx, book, editingID); err != nil {
		h.logger.ErrorContext(r.Context(), "save book", slog.String("book_id", book.ID), slog.Any("err", err))
		formFailed(statusFor(err), h.localizer(r).T("status.save_failed", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "saved book", slog.String("book_id", book.ID), slog.Bool("update", editingID != ""))
	h.redirectHome(w, r)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.books.DeleteBook(ctx, bookID); err != nil {
		h.logger.ErrorContext(r.Context(), "delete book", slog.String("book_id", bookID), slog.Any("err", err))

		v := h.view(r)
		v.Alert = h.localizer(r).T("status.delete_failed", err.Error())
		h.render(w, r, statusFor(err), v)
		return
	}

	h.logger.InfoContext(r.Context(), "deleted book", slog.String("book_id", bookID))
	h.redirectHome(w, r)
}

// statusFor passes API client errors through and reports anything else as a
// bad gateway.
func statusFor(err error) int {
	var respErr *api.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode >= 400 {
		return respErr.StatusCode
	}

	return http.StatusBadGateway
}
