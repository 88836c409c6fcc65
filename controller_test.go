package bookshelf_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burkel24/go-bookshelf"
)

type testStack struct {
	router *chi.Mux
	books  bookshelf.BookService
	auth   bookshelf.AuthService
}

func testConfig(t *testing.T) bookshelf.Config {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	return bookshelf.Config{
		DBDriver:     bookshelf.DriverSQLite,
		DatabaseURL:  fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		QueryTimeout: time.Second,
		AuthIssuer:   "bookshelf-test",
	}
}

func newTestStack(t *testing.T, cfg bookshelf.Config) *testStack {
	t.Helper()

	logger := bookshelf.NewLogger(io.Discard, slog.LevelDebug)

	db, err := bookshelf.NewDBService(bookshelf.DBServiceParams{
		Config: cfg,
		Logger: logger,
		Models: bookshelf.ModelList{&bookshelf.Book{}, &bookshelf.Reader{}, &bookshelf.Record{}},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, db.DBService.DropAll(context.Background()))
	})

	bookRepo := bookshelf.NewBookRepository(bookshelf.BookRepositoryParams{DB: db.DBService, Logger: logger})
	books := bookshelf.NewBookService(bookshelf.BookServiceParams{Repository: bookRepo.Repository})

	readerRepo := bookshelf.NewReaderRepository(bookshelf.ReaderRepositoryParams{DB: db.DBService, Logger: logger})
	readers := bookshelf.NewReaderService(bookshelf.ReaderServiceParams{Repository: readerRepo.Repository})

	recordRepo := bookshelf.NewRecordRepository(bookshelf.RecordRepositoryParams{DB: db.DBService, Logger: logger})
	records := bookshelf.NewRecordService(bookshelf.RecordServiceParams{Repository: recordRepo.Repository})

	auth, err := bookshelf.NewAuthService(bookshelf.AuthServiceParams{Config: cfg, Logger: logger})
	require.NoError(t, err)

	bookCtrl := bookshelf.NewBookController(bookshelf.BookControllerParams{
		Auth:   auth.AuthService,
		Logger: logger,
		Books:  books.BookService,
	})
	readerCtrl := bookshelf.NewReaderController(bookshelf.ReaderControllerParams{
		Auth:    auth.AuthService,
		Logger:  logger,
		Readers: readers.ReaderService,
	})
	recordCtrl := bookshelf.NewRecordController(bookshelf.RecordControllerParams{
		Auth:    auth.AuthService,
		Logger:  logger,
		Records: records.RecordService,
	})

	router := bookshelf.NewRouter()
	router.Mount("/api/books", bookCtrl.BookController.GetRouter())
	router.Mount("/api/readers", readerCtrl.ReaderController.GetRouter())
	router.Mount("/api/records", recordCtrl.RecordController.GetRouter())

	return &testStack{router: router, books: books.BookService, auth: auth.AuthService}
}

func (s *testStack) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	return rec
}

func (s *testStack) doRaw(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())

	return out
}

func sampleBook(id, name string) bookshelf.Book {
	return bookshelf.Book{
		ID:        id,
		Name:      name,
		ISBN:      "978-7-111-00000-" + id,
		Author:    "Author " + id,
		Publisher: "Press",
		Price:     42.5,
	}
}

func TestListEmpty(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	rec := stack.do(t, http.MethodGet, "/api/books", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data": []}`, rec.Body.String())
}

func TestCreateListGetUpdateDelete(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	rec := stack.do(t, http.MethodPost, "/api/books", sampleBook("B2", "Second"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]any{
		"message":   "图书添加成功",
		"book_id":   "B2",
		"book_name": "Second",
	}, decode(t, rec))

	rec = stack.do(t, http.MethodPost, "/api/books", sampleBook("B1", "First"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = stack.do(t, http.MethodGet, "/api/books", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Data []bookshelf.Book `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, "B1", list.Data[0].ID)
	assert.Equal(t, "B2", list.Data[1].ID)
	assert.Equal(t, 42.5, list.Data[0].Price)

	update := sampleBook("ignored", "First, revised")
	update.InterviewTimes = 0
	update.Price = 0
	rec = stack.do(t, http.MethodPut, "/api/books/B1", update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "更新成功", decode(t, rec)["message"])

	rec = stack.do(t, http.MethodGet, "/api/books/B1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got bookshelf.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "B1", got.ID)
	assert.Equal(t, "First, revised", got.Name)
	assert.Zero(t, got.Price)

	rec = stack.do(t, http.MethodDelete, "/api/books/B1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Book deleted successfully", decode(t, rec)["message"])

	rec = stack.do(t, http.MethodGet, "/api/books/B1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRejectsMissingID(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	rec := stack.do(t, http.MethodPost, "/api/books", map[string]any{"book_name": "No id"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "图书ID不能为空", decode(t, rec)["error"])
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	rec := stack.do(t, http.MethodPost, "/api/books", sampleBook("DUP", "Original"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = stack.do(t, http.MethodPost, "/api/books", sampleBook("DUP", "Copy"))
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "主键重复", body["error"])
	assert.Equal(t, "DUPLICATE_KEY", body["code"])
	assert.Equal(t, "图书ID 'DUP' 已存在，请使用其他ID", body["message"])
}

func TestWritesToMissingBook(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	rec := stack.do(t, http.MethodPut, "/api/books/nope", sampleBook("nope", "x"))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Book to update not found", decode(t, rec)["error"])

	rec = stack.do(t, http.MethodDelete, "/api/books/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Book to delete not found", decode(t, rec)["error"])
}

func TestUpdateRejectsInvalidBody(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	keep := sampleBook("B1", "Keep me")
	rec := stack.do(t, http.MethodPost, "/api/books", keep)
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, body := range []string{"{not json", "{}", "null", "[]", `{"unknown": 1}`, ""} {
		t.Run(body, func(t *testing.T) {
			rec := stack.doRaw(t, http.MethodPut, "/api/books/B1", body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "Invalid request body", decode(t, rec)["error"])
		})
	}

	rec = stack.do(t, http.MethodGet, "/api/books/B1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got bookshelf.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, keep, got)
}

func TestUpdateValidatesBodyBeforeLookup(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	rec := stack.doRaw(t, http.MethodPut, "/api/books/nope", "{}")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["error"])

	rec = stack.do(t, http.MethodPut, "/api/books/nope", map[string]any{"book_price": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "book_price must not be negative", decode(t, rec)["error"])
}

func TestCreateRejectsEmptyBody(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	for _, body := range []string{"{}", "null"} {
		rec := stack.doRaw(t, http.MethodPost, "/api/books", body)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "图书ID不能为空", decode(t, rec)["error"])
	}
}

func TestSearch(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	golang := sampleBook("G1", "The Go Programming Language")
	golang.Author = "Donovan"
	golang.Price = 80

	rust := sampleBook("R1", "Programming Rust")
	rust.Author = "Blandy"
	rust.Price = 120

	for _, b := range []bookshelf.Book{golang, rust} {
		rec := stack.do(t, http.MethodPost, "/api/books", b)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	tests := []struct {
		name  string
		query string
		ids   []string
	}{
		{name: "keyword across columns", query: "keyword=Programming", ids: []string{"G1", "R1"}},
		{name: "by author", query: "keyword=Blandy&search_by=author", ids: []string{"R1"}},
		{name: "title does not match author", query: "keyword=Blandy&search_by=title", ids: nil},
		{name: "price range", query: "min_price=100", ids: []string{"R1"}},
		{name: "bad price ignored", query: "max_price=cheap", ids: []string{"G1", "R1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := stack.do(t, http.MethodGet, "/api/books/search?"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Data  []bookshelf.Book `json:"data"`
				Total int              `json:"total"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			var ids []string
			for _, b := range resp.Data {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, len(tt.ids), resp.Total)
		})
	}
}

func TestSearchEchoesQuery(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "raw values",
			query: "keyword=%20go%20&search_by=bogus&min_price=1",
			want:  `{"data": [], "total": 0, "keyword": "go", "search_by": "bogus", "min_price": "1", "max_price": null}`,
		},
		{
			name:  "absent search_by",
			query: "keyword=go",
			want:  `{"data": [], "total": 0, "keyword": "go", "search_by": "all", "min_price": null, "max_price": null}`,
		},
		{
			name:  "empty values",
			query: "search_by=&min_price=&max_price=",
			want:  `{"data": [], "total": 0, "keyword": "", "search_by": "", "min_price": "", "max_price": ""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := stack.do(t, http.MethodGet, "/api/books/search?"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	rec := stack.do(t, http.MethodOptions, "/api/books/B1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestWriteRoutesRequireTokenWhenSecretSet(t *testing.T) {
	cfg := testConfig(t)
	cfg.AuthSigningSecret = "s3cret"
	stack := newTestStack(t, cfg)

	rec := stack.do(t, http.MethodPost, "/api/books", sampleBook("A1", "Locked"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := stack.auth.IssueToken("librarian", time.Minute)
	require.NoError(t, err)

	rec = stack.do(t, http.MethodPost, "/api/books", sampleBook("A1", "Locked"), "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = stack.do(t, http.MethodDelete, "/api/books/A1", nil, "Authorization", "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = stack.do(t, http.MethodGet, "/api/books", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthcheck(t *testing.T) {
	stack := newTestStack(t, testConfig(t))

	rec := stack.do(t, http.MethodGet, "/healthcheck", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "okay xD", rec.Body.String())
}
