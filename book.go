package bookshelf

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

// Book is one row of the catalog. Column and JSON names follow the legacy
// "book" table so existing databases and clients keep working.
type Book struct {
	ID             string  `gorm:"column:book_id;primaryKey;size:64" json:"book_id"`
	Name           string  `gorm:"column:book_name;size:255" json:"book_name"`
	ISBN           string  `gorm:"column:book_isbn;size:32" json:"book_isbn"`
	Author         string  `gorm:"column:book_author;size:255" json:"book_author"`
	Publisher      string  `gorm:"column:book_publisher;size:255" json:"book_publisher"`
	InterviewTimes int     `gorm:"column:interview_times;not null;default:0" json:"interview_times"`
	Price          float64 `gorm:"column:book_price;not null;default:0" json:"book_price"`
}

const bookKeyColumn = "book_id"

func (Book) TableName() string {
	return "book"
}

func (b *Book) GetID() string {
	return b.ID
}

func (b *Book) SetID(id string) {
	b.ID = id
}

func (b *Book) ToDTO() render.Renderer {
	return &BookResponse{Book: b}
}

type BookResponse struct {
	*Book
}

func (resp *BookResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// BookSearchResponse echoes the query next to the matches. Prices absent from
// the query come back as null.
type BookSearchResponse struct {
	Data     []render.Renderer `json:"data"`
	Total    int               `json:"total"`
	Keyword  string            `json:"keyword"`
	SearchBy string            `json:"search_by"`
	MinPrice *string           `json:"min_price"`
	MaxPrice *string           `json:"max_price"`
}

func (resp *BookSearchResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// BookRequest is the body of POST and PUT requests.
type BookRequest struct {
	*Book
}

var errMissingBookID = errors.New("图书ID不能为空")

var bookFields = []string{
	"book_id",
	"book_name",
	"book_isbn",
	"book_author",
	"book_publisher",
	"interview_times",
	"book_price",
}

func (req *BookRequest) Bind(r *http.Request) error {
	if req.Book == nil {
		return errInvalidBody
	}

	req.ID = strings.TrimSpace(req.ID)

	if req.InterviewTimes < 0 {
		return fmt.Errorf("interview_times must not be negative")
	}

	if req.Price < 0 {
		return fmt.Errorf("book_price must not be negative")
	}

	return nil
}

func bindBook(r *http.Request, invalid error) (*Book, error) {
	req := &BookRequest{}

	if err := decodeBody(r, req, invalid, bookFields...); err != nil {
		return nil, err
	}

	if err := req.Bind(r); err != nil {
		return nil, err
	}

	return req.Book, nil
}

func NewCreateBookRequest(r *http.Request) (*Book, error) {
	book, err := bindBook(r, errMissingBookID)
	if err != nil {
		return nil, err
	}

	if book.ID == "" {
		return nil, errMissingBookID
	}

	return book, nil
}

func NewUpdateBookRequest(r *http.Request) (*Book, error) {
	return bindBook(r, errInvalidBody)
}
