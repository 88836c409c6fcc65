package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func booksServer(t *testing.T, status int, body string) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv.URL + "/api/books"
}

func TestListPrintsRequestedPage(t *testing.T) {
	apiURL := booksServer(t, http.StatusOK, `{"data":[
		{"book_id":"1","book_name":"First","book_price":1},
		{"book_id":"2","book_name":"Second","book_price":2},
		{"book_id":"3","book_name":"Third","book_price":3.5}
	]}`)

	out, err := execute(t, "list", "--api", apiURL, "--lang", "en", "--per-page", "2", "--page", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Third")
	assert.Contains(t, out, "3.50")
	assert.NotContains(t, out, "First")
	assert.Contains(t, out, "Page 2 of 2")
	assert.Contains(t, out, "3 books in total")
}

func TestListEmpty(t *testing.T) {
	apiURL := booksServer(t, http.StatusOK, `{"data":[]}`)

	out, err := execute(t, "list", "--api", apiURL, "--lang", "zh-Hans")
	require.NoError(t, err)
	assert.Equal(t, "没有找到图书\n", out)
}

func TestListFailure(t *testing.T) {
	apiURL := booksServer(t, http.StatusInternalServerError, `{"error":"Database connection failed"}`)

	_, err := execute(t, "list", "--api", apiURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database connection failed")
}

func TestSearchSendsQuery(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"book_id":"2","book_name":"Learning Go","book_price":30}],"total":1,"keyword":"go","search_by":"title","min_price":null,"max_price":"40"}`))
	}))
	t.Cleanup(srv.Close)

	out, err := execute(t, "search", "go", "--api", srv.URL+"/api/books", "--lang", "en", "--by", "title", "--max-price", "40")
	require.NoError(t, err)

	assert.Equal(t, "/api/books/search?keyword=go&max_price=40&search_by=title", got)
	assert.Contains(t, out, "Results for “go”: 1")
	assert.Contains(t, out, "Learning Go")
	assert.Contains(t, out, "30.00")
}

func TestSearchFailure(t *testing.T) {
	apiURL := booksServer(t, http.StatusInternalServerError, `{"error":"Database search failed"}`)

	_, err := execute(t, "search", "go", "--api", apiURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database search failed")
}

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_SIGNING_SECRET", "")

	_, err := execute(t, "token")
	require.EqualError(t, err, "AUTH_SIGNING_SECRET is not set")
}

func TestTokenIsSigned(t *testing.T) {
	t.Setenv("AUTH_SIGNING_SECRET", "secret")
	t.Setenv("AUTH_ISSUER", "bookshelf")

	out, err := execute(t, "token", "--subject", "alice", "--ttl", "1h")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "bookshelf", claims.Issuer)
}

func TestPosixLocale(t *testing.T) {
	tests := map[string]string{
		"en_US.UTF-8": "en-US",
		"zh_CN.UTF-8": "zh-CN",
		"de_DE@euro":  "de-DE",
		"C":           "",
		"POSIX":       "",
		"":            "",
		"zh-Hans":     "zh-Hans",
	}

	for in, want := range tests {
		assert.Equal(t, want, posixLocale(in), "posixLocale(%q)", in)
	}
}
