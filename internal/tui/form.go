package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/burkel24/go-bookshelf/internal/api"
	"github.com/burkel24/go-bookshelf/internal/i18n"
)

const (
	fieldID = iota
	fieldName
	fieldISBN
	fieldAuthor
	fieldPublisher
	fieldInterviewTimes
	fieldPrice
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldID:             "field.id",
	fieldName:           "field.name",
	fieldISBN:           "field.isbn",
	fieldAuthor:         "field.author",
	fieldPublisher:      "field.publisher",
	fieldInterviewTimes: "field.interview_times",
	fieldPrice:          "field.price",
}

// bookForm is the add/edit dialog. editingID is empty when adding.
type bookForm struct {
	inputs    []textinput.Model
	focus     int
	editingID string
	err       string
}

func newBookForm() bookForm {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 128
		in.Width = 36
		inputs[i] = in
	}

	inputs[fieldInterviewTimes].CharLimit = 9
	inputs[fieldPrice].CharLimit = 12

	return bookForm{inputs: inputs}
}

// openAdd resets the form for a new book and focuses the ID field.
func (f *bookForm) openAdd() tea.Cmd {
	*f = newBookForm()
	return f.setFocus(fieldID)
}

// openEdit fills the form from book. The ID stays read-only while editing.
func (f *bookForm) openEdit(book api.Book) tea.Cmd {
	*f = newBookForm()
	f.editingID = book.ID

	f.inputs[fieldID].SetValue(book.ID)
	f.inputs[fieldName].SetValue(book.Name)
	f.inputs[fieldISBN].SetValue(book.ISBN)
	f.inputs[fieldAuthor].SetValue(book.Author)
	f.inputs[fieldPublisher].SetValue(book.Publisher)
	f.inputs[fieldInterviewTimes].SetValue(strconv.Itoa(book.InterviewTimes))
	f.inputs[fieldPrice].SetValue(strconv.FormatFloat(book.Price, 'f', -1, 64))

	return f.setFocus(fieldName)
}

func (f *bookForm) editing() bool {
	return f.editingID != ""
}

func (f *bookForm) titleKey() string {
	if f.editing() {
		return "modal.edit_title"
	}

	return "modal.add_title"
}

func (f *bookForm) submitKey() string {
	if f.editing() {
		return "modal.update"
	}

	return "modal.save"
}

func (f *bookForm) setFocus(idx int) tea.Cmd {
	f.focus = idx
	for i := range f.inputs {
		f.inputs[i].Blur()
	}

	return f.inputs[idx].Focus()
}

// move shifts focus by step, skipping the ID field while editing.
func (f *bookForm) move(step int) tea.Cmd {
	idx := f.focus
	for {
		idx = ((idx+step)%fieldCount + fieldCount) % fieldCount
		if !(f.editing() && idx == fieldID) {
			break
		}
	}

	return f.setFocus(idx)
}

func (f *bookForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	return cmd
}

var (
	errFormID             = errors.New("validation.id")
	errFormPrice          = errors.New("validation.price")
	errFormInterviewTimes = errors.New("validation.interview_times")
)

// book reads the inputs back into a Book. Blank numeric fields are zero.
// Errors carry a catalog key.
func (f *bookForm) book() (api.Book, error) {
	value := func(idx int) string {
		return strings.TrimSpace(f.inputs[idx].Value())
	}

	book := api.Book{
		ID:        value(fieldID),
		Name:      value(fieldName),
		ISBN:      value(fieldISBN),
		Author:    value(fieldAuthor),
		Publisher: value(fieldPublisher),
	}

	if book.ID == "" {
		return api.Book{}, errFormID
	}

	if raw := value(fieldInterviewTimes); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return api.Book{}, errFormInterviewTimes
		}
		book.InterviewTimes = n
	}

	if raw := value(fieldPrice); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			return api.Book{}, errFormPrice
		}
		book.Price = price
	}

	return book, nil
}

func (f *bookForm) label(loc *i18n.Localizer, idx int) string {
	return loc.T(fieldLabels[idx])
}
