// Package api is the HTTP client the terminal and browser front-ends use to
// talk to the book API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is where a locally started `bookshelf serve` listens.
const DefaultBaseURL = "http://127.0.0.1:8080/api/books"

const defaultTimeout = 10 * time.Second

// Book is the wire form of a catalog entry.
type Book struct {
	ID             string  `json:"book_id"`
	Name           string  `json:"book_name"`
	ISBN           string  `json:"book_isbn"`
	Author         string  `json:"book_author"`
	Publisher      string  `json:"book_publisher"`
	InterviewTimes int     `json:"interview_times"`
	Price          float64 `json:"book_price"`
}

type listResponse struct {
	Data []Book `json:"data"`
}

// SearchQuery narrows GET /search. Empty fields are left out of the URL.
type SearchQuery struct {
	Keyword  string
	SearchBy string
	MinPrice string
	MaxPrice string
}

type SearchResult struct {
	Data     []Book  `json:"data"`
	Total    int     `json:"total"`
	Keyword  string  `json:"keyword"`
	SearchBy string  `json:"search_by"`
	MinPrice *string `json:"min_price"`
	MaxPrice *string `json:"max_price"`
}

// ResponseError is returned for any non-2xx response. Its message is the
// response body as the server sent it.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return e.Body
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListBooks fetches the whole catalog. A response without a data field is an
// empty catalog.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var resp listResponse

	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return []Book{}, nil
	}

	return resp.Data, nil
}

// SaveBook updates the book with bookID when one is given and creates book
// otherwise. The decoded server acknowledgement is returned.
func (c *Client) SaveBook(ctx context.Context, book Book, bookID string) (map[string]any, error) {
	method := http.MethodPost
	target := c.baseURL

	if bookID != "" {
		method = http.MethodPut
		target = c.itemURL(bookID)
	}

	var ack map[string]any
	if err := c.do(ctx, method, target, book, &ack); err != nil {
		return nil, err
	}

	return ack, nil
}

func (c *Client) DeleteBook(ctx context.Context, bookID string) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(bookID), nil, nil)
}

func (c *Client) GetBook(ctx context.Context, bookID string) (Book, error) {
	var book Book
	err := c.do(ctx, http.MethodGet, c.itemURL(bookID), nil, &book)

	return book, err
}

func (c *Client) SearchBooks(ctx context.Context, query SearchQuery) (SearchResult, error) {
	params := url.Values{}
	for key, value := range map[string]string{
		"keyword":   query.Keyword,
		"search_by": query.SearchBy,
		"min_price": query.MinPrice,
		"max_price": query.MaxPrice,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}

	target := c.baseURL + "/search"
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var result SearchResult
	err := c.do(ctx, http.MethodGet, target, nil, &result)

	return result, err
}

func (c *Client) itemURL(bookID string) string {
	return c.baseURL + "/" + url.PathEscape(bookID)
}

func (c *Client) do(ctx context.Context, method, target string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ResponseError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
