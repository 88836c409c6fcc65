package web

import (
	"net/url"
	"strconv"

	"github.com/burkel24/go-bookshelf/internal/api"
	"github.com/burkel24/go-bookshelf/internal/i18n"
)

//go:generate templ generate

const (
	modalAdd    = "add"
	modalEdit   = "edit"
	modalDelete = "delete"
)

var searchScopes = []string{"all", "title", "author", "publisher", "isbn"}

// PageView is everything the index page renders.
type PageView struct {
	Loc *i18n.Localizer

	Books      []api.Book
	Total      int
	Page       int
	TotalPages int
	PerPage    int
	LoadError  string
	Alert      string

	Search    api.SearchQuery
	Searching bool

	Modal     string
	Form      api.Book
	EditingID string
	FormError string
	Deleting  api.Book

	// Query holds the lang/page/per_page and search params links carry forward.
	Query url.Values
}

func (v PageView) href(extra ...string) string {
	q := url.Values{}
	for key, values := range v.Query {
		q[key] = append([]string(nil), values...)
	}
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}

	if encoded := q.Encode(); encoded != "" {
		return "/?" + encoded
	}

	return "/"
}

func (v PageView) action(path string) string {
	if encoded := v.Query.Encode(); encoded != "" {
		return path + "?" + encoded
	}

	return path
}

// clearSearchHref drops the search params and the page, keeping language and
// page size.
func (v PageView) clearSearchHref() string {
	q := url.Values{}
	for _, key := range []string{"lang", "per_page"} {
		if value := v.Query.Get(key); value != "" {
			q.Set(key, value)
		}
	}

	if encoded := q.Encode(); encoded != "" {
		return "/?" + encoded
	}

	return "/"
}

type hiddenParam struct {
	name  string
	value string
}

// searchHidden lists the params a search submission keeps. A new search
// always starts on page one.
func (v PageView) searchHidden() []hiddenParam {
	var params []hiddenParam
	for _, key := range []string{"lang", "per_page"} {
		if value := v.Query.Get(key); value != "" {
			params = append(params, hiddenParam{name: key, value: value})
		}
	}

	return params
}

func (v PageView) searchBy() string {
	if v.Search.SearchBy == "" {
		return "all"
	}

	return v.Search.SearchBy
}

func (v PageView) mainClass() string {
	if v.Modal != "" {
		return "container mx-auto px-4 py-8 transition-all blur-background"
	}

	return "container mx-auto px-4 py-8 transition-all"
}

func (v PageView) formOpen() bool {
	return v.Modal == modalAdd || v.Modal == modalEdit
}

func (v PageView) deleteOpen() bool {
	return v.Modal == modalDelete && v.Deleting.ID != ""
}

func (v PageView) formTitle() string {
	if v.EditingID != "" {
		return v.Loc.T("modal.edit_title")
	}

	return v.Loc.T("modal.add_title")
}

func (v PageView) formSubmit() string {
	if v.EditingID != "" {
		return v.Loc.T("modal.update")
	}

	return v.Loc.T("modal.save")
}

type formField struct {
	name     string
	label    string
	kind     string
	value    string
	readonly bool
}

func (v PageView) formFields() []formField {
	open := v.formOpen()

	return []formField{
		{"book_id", "field.id", "text", v.Form.ID, v.EditingID != ""},
		{"book_name", "field.name", "text", v.Form.Name, false},
		{"book_isbn", "field.isbn", "text", v.Form.ISBN, false},
		{"book_author", "field.author", "text", v.Form.Author, false},
		{"book_publisher", "field.publisher", "text", v.Form.Publisher, false},
		{"interview_times", "field.interview_times", "number", formatInt(v.Form.InterviewTimes, open), false},
		{"book_price", "field.price", "number", formatPrice(v.Form.Price, open), false},
	}
}

func modalClass(open bool) string {
	if open {
		return "modal fixed inset-0 flex items-center justify-center transition-opacity opacity-100 visible"
	}

	return "modal fixed inset-0 flex items-center justify-center transition-opacity opacity-0 invisible"
}

func perPageClass(active bool) string {
	if active {
		return "per-page active"
	}

	return "per-page"
}

// Closed dialogs render empty inputs rather than zeroes.
func formatInt(n int, open bool) string {
	if !open {
		return ""
	}

	return strconv.Itoa(n)
}

func formatPrice(p float64, open bool) string {
	if !open {
		return ""
	}

	return strconv.FormatFloat(p, 'f', -1, 64)
}
