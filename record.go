package bookshelf

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/fx"
)

const recordDateLayout = time.DateOnly

// Record is one loan of a book to a reader. A book and a reader share at most
// one record, so the pair is the key.
type Record struct {
	BookID     string  `gorm:"column:book_id;primaryKey;size:64" json:"book_id"`
	ReaderID   string  `gorm:"column:reader_id;primaryKey;size:64" json:"reader_id"`
	BorrowDate *string `gorm:"column:borrow_date;size:10" json:"borrow_date"`
	ReturnDate *string `gorm:"column:return_date;size:10" json:"return_date"`
	Notes      *string `gorm:"column:notes;size:1024" json:"notes"`
}

func (Record) TableName() string {
	return "record"
}

// GetID joins the key as "<book_id>/<reader_id>", or returns "" while either
// half is missing.
func (r *Record) GetID() string {
	if r.BookID == "" || r.ReaderID == "" {
		return ""
	}

	return r.BookID + KeySeparator + r.ReaderID
}

func (r *Record) SetID(id string) {
	bookID, readerID, _ := strings.Cut(id, KeySeparator)

	r.BookID = bookID
	r.ReaderID = readerID
}

func (r *Record) ToDTO() render.Renderer {
	return &RecordResponse{Record: r, RecordID: r.GetID()}
}

type RecordResponse struct {
	*Record

	RecordID string `json:"record_id"`
}

func (resp *RecordResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type RecordRequest struct {
	*Record
}

var (
	errMissingRecordKey = errors.New("Missing book_id or reader_id")
	errInvalidRecord    = errors.New("Invalid data")
)

var recordFields = []string{"book_id", "reader_id", "borrow_date", "return_date", "notes"}

func (req *RecordRequest) Bind(r *http.Request) error {
	if req.Record == nil {
		return errInvalidRecord
	}

	req.BookID = strings.TrimSpace(req.BookID)
	req.ReaderID = strings.TrimSpace(req.ReaderID)

	if strings.Contains(req.BookID, KeySeparator) || strings.Contains(req.ReaderID, KeySeparator) {
		return fmt.Errorf("book_id and reader_id must not contain %q", KeySeparator)
	}

	for name, date := range map[string]**string{
		"borrow_date": &req.BorrowDate,
		"return_date": &req.ReturnDate,
	} {
		if *date == nil {
			continue
		}

		value := strings.TrimSpace(**date)
		if value == "" {
			*date = nil
			continue
		}

		if _, err := time.Parse(recordDateLayout, value); err != nil {
			return fmt.Errorf("%s must be a YYYY-MM-DD date", name)
		}

		*date = &value
	}

	return nil
}

func bindRecord(r *http.Request, invalid error) (*Record, error) {
	req := &RecordRequest{}

	if err := decodeBody(r, req, invalid, recordFields...); err != nil {
		return nil, err
	}

	if err := req.Bind(r); err != nil {
		return nil, err
	}

	return req.Record, nil
}

func NewCreateRecordRequest(r *http.Request) (*Record, error) {
	record, err := bindRecord(r, errMissingRecordKey)
	if err != nil {
		return nil, err
	}

	if record.GetID() == "" {
		return nil, errMissingRecordKey
	}

	return record, nil
}

// NewUpdateRecordRequest binds the loan details. The key always comes from
// the URL.
func NewUpdateRecordRequest(r *http.Request) (*Record, error) {
	return bindRecord(r, errInvalidRecord)
}

type RecordRepositoryParams struct {
	fx.In

	DB     DBService
	Logger LoggerService
}

type RecordRepositoryResult struct {
	fx.Out

	Repository Repository[*Record]
}

func NewRecordRepository(params RecordRepositoryParams) RecordRepositoryResult {
	repo := NewRepository[*Record](
		params.DB,
		params.Logger,
		WithTableName[*Record](Record{}.TableName()),
		WithKeyColumns[*Record]("book_id", "reader_id"),
		WithOrder[*Record]("record.reader_id, record.book_id"),
	)

	return RecordRepositoryResult{Repository: repo}
}

type RecordServiceParams struct {
	fx.In

	Repository Repository[*Record]
}

type RecordServiceResult struct {
	fx.Out

	RecordService Service[*Record]
}

func NewRecordService(params RecordServiceParams) RecordServiceResult {
	return RecordServiceResult{RecordService: NewService[*Record](params.Repository)}
}
