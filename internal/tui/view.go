package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/burkel24/go-bookshelf/internal/api"
)

const (
	cardWidth  = 34
	labelWidth = 12
	cardGap    = 1
)

func (m Model) View() string {
	main := m.mainView()

	if m.modal == modalNone {
		return main
	}

	var dialog string
	switch m.modal {
	case modalForm:
		dialog = m.formView()
	case modalDelete:
		dialog = m.deleteView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.styles.Blurred.Render(main), "", dialog)
}

func (m Model) mainView() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.loc.T("app.title")))
	if m.state == stateList {
		b.WriteString("  ")
		b.WriteString(m.styles.CardMeta.Render(m.loc.T("books.total", len(m.books))))
	}
	b.WriteString("\n\n")

	switch {
	case m.searching:
		b.WriteString(m.searchView())
		b.WriteString("\n\n")
	case m.query != nil && m.state == stateList:
		b.WriteString(m.styles.Status.Render(m.loc.T("search.results", m.query.Keyword, m.query.Total)))
		b.WriteString("  ")
		b.WriteString(m.styles.Help.Render(m.loc.T("search.active_help")))
		b.WriteString("\n\n")
	}

	switch m.state {
	case stateLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.loc.T("books.loading"))
	case stateFailed:
		b.WriteString(m.styles.Error.Render(m.loc.T("books.load_failed", m.loadErr)))
	case stateList:
		b.WriteString(m.listView())
	}

	if m.status != "" {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.Error
		}
		b.WriteString("\n\n")
		b.WriteString(style.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render(m.loc.T("app.help")))

	return b.String()
}

func (m Model) listView() string {
	books := m.pageBooks()
	if len(books) == 0 {
		return m.styles.CardMeta.Render(m.loc.T("books.empty"))
	}

	cols := m.columns()
	var rows []string
	for start := 0; start < len(books); start += cols {
		end := min(start+cols, len(books))

		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.cardView(books[i], i == m.selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n\n" + m.paginationView()
}

func (m Model) columns() int {
	if m.width <= 0 {
		return 2
	}

	return max(m.width/(cardWidth+2+cardGap), 1)
}

func (m Model) cardView(book api.Book, selected bool) string {
	style := m.styles.Card
	if selected {
		style = m.styles.SelectedCard
	}

	lines := []string{
		m.styles.CardTitle.Render(book.Name),
		book.Author,
		m.styles.CardMeta.Render(m.loc.T("card.isbn", book.ISBN)),
		m.styles.CardMeta.Render(m.loc.T("card.publisher", book.Publisher)),
		m.styles.CardMeta.Render(m.loc.T("card.interview_times", book.InterviewTimes)),
		m.styles.Price.Render(m.loc.T("card.price", book.Price)),
	}

	return lipgloss.NewStyle().MarginRight(cardGap).Render(style.Render(strings.Join(lines, "\n")))
}

func (m Model) paginationView() string {
	total := len(m.books)

	dots := m.paginator
	dots.PerPage = m.pg.PerPage()
	dots.SetTotalPages(total)
	dots.Page = m.pg.Page() - 1

	return strings.Join([]string{
		dots.View(),
		m.loc.T("pagination.status", m.pg.Page(), m.pg.TotalPages(total)),
		m.loc.T("pagination.per_page", m.pg.PerPage()),
	}, "  ")
}

func (m Model) searchView() string {
	scope := m.loc.T("search.by_" + searchScopes[m.searchScope])

	return m.styles.Label.Render(m.loc.T("search.prompt")) +
		m.search.View() + "  " +
		m.styles.CardMeta.Render(m.loc.T("search.scope", scope)) + "\n" +
		m.styles.Help.Render(m.loc.T("search.help"))
}

func (m Model) formView() string {
	var b strings.Builder

	b.WriteString(m.styles.ModalTitle.Render(m.loc.T(m.form.titleKey())))
	b.WriteString("\n")

	for i := range m.form.inputs {
		input := m.form.inputs[i].View()
		if m.form.editing() && i == fieldID {
			input = m.styles.CardMeta.Render(m.form.inputs[i].Value())
		}
		b.WriteString(m.styles.Label.Render(m.form.label(m.loc, i)))
		b.WriteString(input)
		b.WriteString("\n")
	}

	if m.form.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.form.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Button.Render(m.loc.T(m.form.submitKey())))
	b.WriteString("  ")
	b.WriteString(m.styles.Help.Render(m.loc.T("modal.help")))

	return m.styles.Modal.Render(b.String())
}

func (m Model) deleteView() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ModalTitle.Render(m.loc.T("delete.title")),
		m.loc.T("delete.prompt", m.deleting.Name),
		"",
		m.styles.DangerButton.Render(m.loc.T("delete.confirm"))+"  "+m.styles.Help.Render(m.loc.T("delete.help")),
	)

	return m.styles.Modal.Render(body)
}
