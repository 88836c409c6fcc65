// Package tui is the terminal front-end of the catalog. It pages through the
// books of a running API server and edits them in modal dialogs.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/burkel24/go-bookshelf/internal/api"
	"github.com/burkel24/go-bookshelf/internal/i18n"
	"github.com/burkel24/go-bookshelf/internal/pager"
)

const requestTimeout = 10 * time.Second

// Books is the part of *api.Client the terminal client needs.
type Books interface {
	ListBooks(ctx context.Context) ([]api.Book, error)
	SaveBook(ctx context.Context, book api.Book, bookID string) (map[string]any, error)
	DeleteBook(ctx context.Context, bookID string) error
	SearchBooks(ctx context.Context, query api.SearchQuery) (api.SearchResult, error)
}

// searchScopes are the search_by values "tab" cycles through, "all" first.
var searchScopes = []string{"all", "title", "author", "publisher", "isbn"}

type viewState int

const (
	stateLoading viewState = iota
	stateFailed
	stateList
)

type modalKind int

const (
	modalNone modalKind = iota
	modalForm
	modalDelete
)

type (
	booksLoadedMsg struct{ books []api.Book }
	searchedMsg    struct{ result api.SearchResult }
	loadFailedMsg  struct{ err error }
	savedMsg       struct{}
	saveFailedMsg  struct{ err error }
	deletedMsg     struct{ bookID string }
	deleteFailed   struct{ err error }
)

type Model struct {
	client Books
	loc    *i18n.Localizer
	logger *slog.Logger
	styles Styles

	spinner   spinner.Model
	paginator paginator.Model
	pg        pager.Pager

	state    viewState
	loadErr  string
	books    []api.Book
	selected int

	modal    modalKind
	form     bookForm
	deleting api.Book

	searching   bool
	search      textinput.Model
	searchScope int
	query       *api.SearchResult

	status    string
	statusErr bool

	width  int
	height int
}

func New(client Books, loc *i18n.Localizer, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	pag := paginator.New()
	pag.Type = paginator.Dots
	pag.ActiveDot = "●"
	pag.InactiveDot = "○"

	search := textinput.New()
	search.Prompt = ""
	search.CharLimit = 64
	search.Width = 30

	return Model{
		client:    client,
		loc:       loc,
		logger:    logger,
		styles:    DefaultStyles(),
		spinner:   sp,
		paginator: pag,
		pg:        *pager.New(pager.DefaultPerPage),
		state:     stateLoading,
		form:      newBookForm(),
		search:    search,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadBooks())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case booksLoadedMsg:
		m.state = stateList
		m.loadErr = ""
		m.books = msg.books
		m.query = nil
		m.pg.Clamp(len(m.books))
		m.clampSelection()
		return m, nil

	case searchedMsg:
		m.state = stateList
		m.loadErr = ""
		m.books = msg.result.Data
		m.query = &msg.result
		m.pg.Goto(1, len(m.books))
		m.selected = 0
		return m, nil

	case loadFailedMsg:
		m.logger.Error("load books", slog.Any("err", msg.err))
		m.state = stateFailed
		m.loadErr = m.loadErrorText(msg.err)
		return m, nil

	case savedMsg:
		m.modal = modalNone
		m.setStatus(m.loc.T("status.saved"), false)
		return m, m.reload()

	case saveFailedMsg:
		m.logger.Error("save book", slog.Any("err", msg.err))
		m.form.err = m.loc.T("status.save_failed", msg.err.Error())
		return m, nil

	case deletedMsg:
		m.modal = modalNone
		m.setStatus(m.loc.T("status.deleted"), false)
		return m, m.reload()

	case deleteFailed:
		m.logger.Error("delete book", slog.Any("err", msg.err))
		m.modal = modalNone
		m.setStatus(m.loc.T("status.delete_failed", msg.err.Error()), true)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.modal {
		case modalForm:
			return m.updateForm(msg)
		case modalDelete:
			return m.updateDelete(msg)
		}

		if m.searching {
			return m.updateSearch(msg)
		}

		return m.updateList(msg)
	}

	if m.modal == modalForm {
		return m, m.form.update(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(m.books)

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.state = stateLoading
		return m, tea.Batch(m.spinner.Tick, m.loadBooks())
	case "n":
		m.modal = modalForm
		return m, m.form.openAdd()
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "esc":
		if m.query != nil {
			m.state = stateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadBooks())
		}
	}

	if m.state != stateList {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		if m.pg.Previous() {
			m.selected = 0
		}
	case "right", "l":
		if m.pg.Next(total) {
			m.selected = 0
		}
	case "+", "=":
		m.pg.CyclePerPage(1)
		m.selected = 0
	case "-":
		m.pg.CyclePerPage(-1)
		m.selected = 0
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.pageBooks())-1 {
			m.selected++
		}
	case "e", "enter":
		if book, ok := m.selectedBook(); ok {
			m.modal = modalForm
			return m, m.form.openEdit(book)
		}
	case "d":
		if book, ok := m.selectedBook(); ok {
			m.modal = modalDelete
			m.deleting = book
		}
	}

	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "tab", "down":
		return m, m.form.move(1)
	case "shift+tab", "up":
		return m, m.form.move(-1)
	case "enter":
		book, err := m.form.book()
		if err != nil {
			m.form.err = m.loc.T(err.Error())
			return m, nil
		}
		m.form.err = ""
		return m, m.saveBook(book, m.form.editingID)
	}

	return m, m.form.update(msg)
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "tab":
		m.searchScope = (m.searchScope + 1) % len(searchScopes)
		return m, nil
	case "shift+tab":
		m.searchScope = (m.searchScope + len(searchScopes) - 1) % len(searchScopes)
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.state = stateLoading
		return m, tea.Batch(m.spinner.Tick, m.searchBooks(api.SearchQuery{
			Keyword:  m.search.Value(),
			SearchBy: searchScopes[m.searchScope],
		}))
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m Model) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
	case "enter", "y":
		return m, m.deleteBook(m.deleting.ID)
	}

	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// loadErrorText mirrors the browser client: a server that answered with an
// error gets the generic message, a transport failure shows its own.
func (m Model) loadErrorText(err error) string {
	var respErr *api.ResponseError
	if errors.As(err, &respErr) {
		return m.loc.T("books.load_error")
	}

	return err.Error()
}

func (m Model) pageBooks() []api.Book {
	return pager.Window(&m.pg, m.books)
}

func (m Model) selectedBook() (api.Book, bool) {
	books := m.pageBooks()
	if m.selected < 0 || m.selected >= len(books) {
		return api.Book{}, false
	}

	return books[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.pageBooks())
	if m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

func (m Model) loadBooks() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		books, err := client.ListBooks(ctx)
		if err != nil {
			return loadFailedMsg{err: err}
		}

		return booksLoadedMsg{books: books}
	}
}

func (m Model) searchBooks(query api.SearchQuery) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		result, err := client.SearchBooks(ctx, query)
		if err != nil {
			return loadFailedMsg{err: err}
		}

		return searchedMsg{result: result}
	}
}

// reload refreshes the current listing, repeating the active search if there
// is one.
func (m Model) reload() tea.Cmd {
	if m.query == nil {
		return m.loadBooks()
	}

	return m.searchBooks(api.SearchQuery{Keyword: m.query.Keyword, SearchBy: m.query.SearchBy})
}

func (m Model) saveBook(book api.Book, bookID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := client.SaveBook(ctx, book, bookID); err != nil {
			return saveFailedMsg{err: err}
		}

		return savedMsg{}
	}
}

func (m Model) deleteBook(bookID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := client.DeleteBook(ctx, bookID); err != nil {
			return deleteFailed{err: err}
		}

		return deletedMsg{bookID: bookID}
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, client Books, loc *i18n.Localizer, logger *slog.Logger) error {
	p := tea.NewProgram(New(client, loc, logger), tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	return nil
}
