package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burkel24/go-bookshelf/internal/api"
	"github.com/burkel24/go-bookshelf/internal/i18n"
)

type savedCall struct {
	book   api.Book
	bookID string
}

type fakeBooks struct {
	books   []api.Book
	listErr error
	saveErr error
	delErr  error

	saved    []savedCall
	deleted  []string
	searched []api.SearchQuery
}

func (f *fakeBooks) ListBooks(context.Context) ([]api.Book, error) {
	return f.books, f.listErr
}

func (f *fakeBooks) SaveBook(_ context.Context, book api.Book, bookID string) (map[string]any, error) {
	f.saved = append(f.saved, savedCall{book: book, bookID: bookID})
	return map[string]any{}, f.saveErr
}

func (f *fakeBooks) DeleteBook(_ context.Context, bookID string) error {
	f.deleted = append(f.deleted, bookID)
	return f.delErr
}

// SearchBooks matches the keyword against titles only.
func (f *fakeBooks) SearchBooks(_ context.Context, query api.SearchQuery) (api.SearchResult, error) {
	f.searched = append(f.searched, query)

	result := api.SearchResult{Data: []api.Book{}, Keyword: query.Keyword, SearchBy: query.SearchBy}
	for _, book := range f.books {
		if strings.Contains(book.Name, query.Keyword) {
			result.Data = append(result.Data, book)
		}
	}
	result.Total = len(result.Data)

	return result, f.listErr
}

func makeBooks(n int) []api.Book {
	books := make([]api.Book, n)
	for i := range books {
		books[i] = api.Book{
			ID:     fmt.Sprintf("%d", i+1),
			Name:   fmt.Sprintf("Book %d", i+1),
			Author: fmt.Sprintf("Author %d", i+1),
			Price:  float64(i) + 0.5,
		}
	}
	return books
}

func newTestModel(client Books) Model {
	return New(client, i18n.Default().Localizer(i18n.DefaultTag), nil)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)

	return model, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded runs the model's load command against client and feeds the result
// back in.
func loaded(t *testing.T, client *fakeBooks) Model {
	t.Helper()

	m := newTestModel(client)
	m, _ = update(t, m, m.loadBooks()())

	return m
}

func TestStartsLoading(t *testing.T) {
	m := newTestModel(&fakeBooks{})

	assert.Equal(t, stateLoading, m.state)
	assert.Contains(t, m.View(), "正在加载图书数据...")
	assert.NotNil(t, m.Init())
}

func TestEmptyCatalog(t *testing.T) {
	m := loaded(t, &fakeBooks{books: []api.Book{}})

	assert.Equal(t, stateList, m.state)
	assert.Contains(t, m.View(), "没有找到图书")
}

func TestServerErrorShowsGenericMessage(t *testing.T) {
	m := loaded(t, &fakeBooks{listErr: &api.ResponseError{StatusCode: 500, Body: `{"error":"db down"}`}})

	assert.Equal(t, stateFailed, m.state)
	assert.Contains(t, m.View(), "加载失败: 无法加载图书数据")
}

func TestTransportErrorShowsItsMessage(t *testing.T) {
	m := loaded(t, &fakeBooks{listErr: errors.New("Network error")})

	assert.Contains(t, m.View(), "加载失败: Network error")
}

func TestRendersCurrentPage(t *testing.T) {
	m := loaded(t, &fakeBooks{books: makeBooks(12)})

	view := m.View()
	assert.Contains(t, view, "Book 1")
	assert.Contains(t, view, "Book 10")
	assert.NotContains(t, view, "Book 11")
	assert.Contains(t, view, "第 1 / 2 页")
	assert.Contains(t, view, "¥0.50")
}

func TestPageNavigation(t *testing.T) {
	m := loaded(t, &fakeBooks{books: makeBooks(25)})

	m, _ = update(t, m, key("left"))
	assert.Equal(t, 1, m.pg.Page())

	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("right"))
	assert.Equal(t, 3, m.pg.Page())

	m, _ = update(t, m, key("right"))
	assert.Equal(t, 3, m.pg.Page())
	assert.Contains(t, m.View(), "Book 25")

	m, _ = update(t, m, key("+"))
	assert.Equal(t, 20, m.pg.PerPage())
	assert.Equal(t, 1, m.pg.Page())

	m, _ = update(t, m, key("-"))
	assert.Equal(t, 10, m.pg.PerPage())
}

func TestSelectionStaysOnPage(t *testing.T) {
	m := loaded(t, &fakeBooks{books: makeBooks(3)})

	m, _ = update(t, m, key("up"))
	assert.Equal(t, 0, m.selected)

	for range 5 {
		m, _ = update(t, m, key("down"))
	}
	assert.Equal(t, 2, m.selected)
}

func TestAddBook(t *testing.T) {
	client := &fakeBooks{books: []api.Book{}}
	m := loaded(t, client)

	m, _ = update(t, m, key("n"))
	require.Equal(t, modalForm, m.modal)
	assert.Contains(t, m.View(), "添加新图书")
	assert.Contains(t, m.View(), "保存")

	m.form.inputs[fieldID].SetValue("42")
	m.form.inputs[fieldName].SetValue("New Book")
	m.form.inputs[fieldPrice].SetValue("19.9")

	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)

	m, reload := update(t, m, cmd())
	assert.Equal(t, modalNone, m.modal)
	assert.NotNil(t, reload)

	require.Len(t, client.saved, 1)
	assert.Equal(t, "", client.saved[0].bookID)
	assert.Equal(t, api.Book{ID: "42", Name: "New Book", Price: 19.9}, client.saved[0].book)
	assert.Contains(t, m.View(), "保存成功")
}

func TestAddBookRequiresID(t *testing.T) {
	client := &fakeBooks{books: []api.Book{}}
	m := loaded(t, client)

	m, _ = update(t, m, key("n"))
	m, cmd := update(t, m, key("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, modalForm, m.modal)
	assert.Contains(t, m.View(), "图书ID不能为空")
	assert.Empty(t, client.saved)
}

func TestFormRejectsBadNumbers(t *testing.T) {
	m := loaded(t, &fakeBooks{books: []api.Book{}})

	m, _ = update(t, m, key("n"))
	m.form.inputs[fieldID].SetValue("1")
	m.form.inputs[fieldPrice].SetValue("cheap")

	m, cmd := update(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, "价格必须是数字", m.form.err)
}

func TestTypingGoesToFocusedField(t *testing.T) {
	m := loaded(t, &fakeBooks{books: []api.Book{}})

	m, _ = update(t, m, key("n"))
	m, _ = update(t, m, key("7"))
	m, _ = update(t, m, key("tab"))
	m, _ = update(t, m, key("Go"))

	assert.Equal(t, "7", m.form.inputs[fieldID].Value())
	assert.Equal(t, "Go", m.form.inputs[fieldName].Value())
}

func TestEditBook(t *testing.T) {
	client := &fakeBooks{books: makeBooks(2)}
	m := loaded(t, client)

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("e"))
	require.Equal(t, modalForm, m.modal)

	view := m.View()
	assert.Contains(t, view, "编辑图书信息")
	assert.Contains(t, view, "更新")
	assert.Equal(t, "Book 2", m.form.inputs[fieldName].Value())
	assert.Equal(t, fieldName, m.form.focus)

	m.form.inputs[fieldName].SetValue("Renamed")
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	update(t, m, cmd())

	require.Len(t, client.saved, 1)
	assert.Equal(t, "2", client.saved[0].bookID)
	assert.Equal(t, "Renamed", client.saved[0].book.Name)
}

func TestEditSkipsIDField(t *testing.T) {
	m := loaded(t, &fakeBooks{books: makeBooks(1)})

	m, _ = update(t, m, key("e"))
	for range fieldCount {
		m, _ = update(t, m, key("tab"))
		assert.NotEqual(t, fieldID, m.form.focus)
	}
}

func TestSaveFailureKeepsModalOpen(t *testing.T) {
	client := &fakeBooks{books: makeBooks(1), saveErr: errors.New("Error saving book")}
	m := loaded(t, client)

	m, _ = update(t, m, key("e"))
	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())

	assert.Equal(t, modalForm, m.modal)
	assert.Contains(t, m.View(), "保存失败: Error saving book")
}

func TestEscClosesModal(t *testing.T) {
	m := loaded(t, &fakeBooks{books: makeBooks(1)})

	m, _ = update(t, m, key("n"))
	m, _ = update(t, m, key("esc"))
	assert.Equal(t, modalNone, m.modal)

	m, _ = update(t, m, key("d"))
	m, _ = update(t, m, key("esc"))
	assert.Equal(t, modalNone, m.modal)
}

func TestDeleteBook(t *testing.T) {
	client := &fakeBooks{books: makeBooks(11)}
	m := loaded(t, client)

	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("d"))
	require.Equal(t, modalDelete, m.modal)
	assert.Contains(t, m.View(), "确定要删除《Book 11》吗")

	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)

	client.books = makeBooks(10)
	m, reload := update(t, m, cmd())
	require.NotNil(t, reload)
	assert.Equal(t, []string{"11"}, client.deleted)

	m, _ = update(t, m, reload())
	assert.Equal(t, 1, m.pg.Page())
	assert.Contains(t, m.View(), "删除成功")
}

func TestDeleteFailureShowsStatus(t *testing.T) {
	client := &fakeBooks{books: makeBooks(1), delErr: errors.New("Delete failed")}
	m := loaded(t, client)

	m, _ = update(t, m, key("d"))
	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())

	assert.Equal(t, modalNone, m.modal)
	assert.Contains(t, m.View(), "删除失败: Delete failed")
}

func TestQuit(t *testing.T) {
	m := loaded(t, &fakeBooks{books: []api.Book{}})

	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEnglishLocale(t *testing.T) {
	m := New(&fakeBooks{}, i18n.For("en-US"), nil)
	m, _ = update(t, m, booksLoadedMsg{books: []api.Book{}})

	assert.Contains(t, m.View(), "No books found")
}

func TestSearch(t *testing.T) {
	client := &fakeBooks{books: makeBooks(12)}
	m := loaded(t, client)
	m, _ = update(t, m, key("right"))
	require.Equal(t, 2, m.pg.Page())

	m, _ = update(t, m, key("/"))
	require.True(t, m.searching)
	assert.Contains(t, m.View(), "搜索: ")

	for _, r := range "Book 1" {
		m, _ = update(t, m, key(string(r)))
	}
	m, _ = update(t, m, key("tab"))
	assert.Contains(t, m.View(), "范围: 书名")

	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.False(t, m.searching)

	m, _ = update(t, m, m.searchBooks(api.SearchQuery{Keyword: "Book 1", SearchBy: "title"})())

	require.Len(t, client.searched, 1)
	assert.Equal(t, api.SearchQuery{Keyword: "Book 1", SearchBy: "title"}, client.searched[0])

	assert.Equal(t, stateList, m.state)
	assert.Equal(t, 1, m.pg.Page())
	require.Len(t, m.books, 4)
	assert.Contains(t, m.View(), "“Book 1” 的搜索结果：4 本")

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, stateLoading, m.state)

	m, _ = update(t, m, m.loadBooks()())
	assert.Nil(t, m.query)
	assert.Len(t, m.books, 12)
	assert.NotContains(t, m.View(), "搜索结果")
}

func TestSearchEscCancels(t *testing.T) {
	client := &fakeBooks{books: makeBooks(3)}
	m := loaded(t, client)

	m, _ = update(t, m, key("/"))
	m, _ = update(t, m, key("x"))
	m, _ = update(t, m, key("esc"))

	assert.False(t, m.searching)
	assert.Empty(t, client.searched)
	assert.Len(t, m.books, 3)
}

func TestSaveRepeatsActiveSearch(t *testing.T) {
	client := &fakeBooks{books: makeBooks(3)}
	m := loaded(t, client)
	m, _ = update(t, m, m.searchBooks(api.SearchQuery{Keyword: "Book 2", SearchBy: "all"})())

	_, cmd := update(t, m, savedMsg{})
	require.NotNil(t, cmd)

	msg := cmd()
	searched, ok := msg.(searchedMsg)
	require.True(t, ok)
	assert.Equal(t, "Book 2", searched.result.Keyword)
	assert.Len(t, client.searched, 2)
}
