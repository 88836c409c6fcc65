package bookshelf

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/fx"
)

const (
	SearchByAll       = "all"
	SearchByTitle     = "title"
	SearchByAuthor    = "author"
	SearchByPublisher = "publisher"
	SearchByISBN      = "isbn"
)

var searchColumns = map[string]string{
	SearchByTitle:     "book_name",
	SearchByAuthor:    "book_author",
	SearchByPublisher: "book_publisher",
	SearchByISBN:      "book_isbn",
}

// SearchQuery mirrors the query string of GET /api/books/search. Prices are
// kept as raw strings; values that do not parse as numbers are ignored.
type SearchQuery struct {
	Keyword  string
	SearchBy string
	MinPrice string
	MaxPrice string
}

type BookService interface {
	Service[*Book]
	Search(ctx context.Context, query SearchQuery) ([]*Book, error)
}

type BookRepositoryParams struct {
	fx.In

	DB     DBService
	Logger LoggerService
}

type BookRepositoryResult struct {
	fx.Out

	Repository Repository[*Book]
}

func NewBookRepository(params BookRepositoryParams) BookRepositoryResult {
	repo := NewRepository[*Book](
		params.DB,
		params.Logger,
		WithTableName[*Book](Book{}.TableName()),
		WithKeyColumn[*Book](bookKeyColumn),
	)

	return BookRepositoryResult{Repository: repo}
}

type BookServiceParams struct {
	fx.In

	Repository Repository[*Book]
}

type BookServiceResult struct {
	fx.Out

	BookService BookService
}

type bookService struct {
	Service[*Book]

	repo Repository[*Book]
}

func NewBookService(params BookServiceParams) BookServiceResult {
	svc := &bookService{
		Service: NewService[*Book](params.Repository),
		repo:    params.Repository,
	}

	return BookServiceResult{BookService: svc}
}

func (s *bookService) Search(ctx context.Context, query SearchQuery) ([]*Book, error) {
	filter, args := query.where()

	books, err := s.repo.FindMany(ctx, filter, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}

	return books, nil
}

func (q SearchQuery) where() (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if keyword := strings.TrimSpace(q.Keyword); keyword != "" {
		pattern := "%" + keyword + "%"

		if column, ok := searchColumns[q.SearchBy]; ok {
			clauses = append(clauses, column+" LIKE ?")
			args = append(args, pattern)
		} else {
			clauses = append(clauses, "(book_name LIKE ? OR book_author LIKE ? OR book_isbn LIKE ? OR book_publisher LIKE ?)")
			args = append(args, pattern, pattern, pattern, pattern)
		}
	}

	if price, err := strconv.ParseFloat(strings.TrimSpace(q.MinPrice), 64); err == nil {
		clauses = append(clauses, "book_price >= ?")
		args = append(args, price)
	}

	if price, err := strconv.ParseFloat(strings.TrimSpace(q.MaxPrice), 64); err == nil {
		clauses = append(clauses, "book_price <= ?")
		args = append(args, price)
	}

	return strings.Join(clauses, " AND "), args
}

// NewSearchQuery reads the search parameters out of a query string. A missing
// search_by means SearchByAll; any other value is kept as given.
func NewSearchQuery(values url.Values) SearchQuery {
	query := SearchQuery{
		Keyword:  strings.TrimSpace(values.Get("keyword")),
		SearchBy: SearchByAll,
		MinPrice: values.Get("min_price"),
		MaxPrice: values.Get("max_price"),
	}

	if values.Has("search_by") {
		query.SearchBy = values.Get("search_by")
	}

	return query
}
