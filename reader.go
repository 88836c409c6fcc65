package bookshelf

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"go.uber.org/fx"
)

// Reader is a library card holder.
type Reader struct {
	ID         string `gorm:"column:reader_id;primaryKey;size:64" json:"reader_id"`
	Name       string `gorm:"column:reader_name;size:255" json:"reader_name"`
	Sex        string `gorm:"column:reader_sex;size:16" json:"reader_sex"`
	Department string `gorm:"column:reader_department;size:255" json:"reader_department"`
}

const readerKeyColumn = "reader_id"

func (Reader) TableName() string {
	return "reader"
}

func (r *Reader) GetID() string {
	return r.ID
}

func (r *Reader) SetID(id string) {
	r.ID = id
}

func (r *Reader) ToDTO() render.Renderer {
	return &ReaderResponse{Reader: r}
}

type ReaderResponse struct {
	*Reader
}

func (resp *ReaderResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ReaderRequest struct {
	*Reader
}

var errMissingReaderID = errors.New("Missing reader_id")

var readerFields = []string{"reader_id", "reader_name", "reader_sex", "reader_department"}

func (req *ReaderRequest) Bind(r *http.Request) error {
	if req.Reader == nil {
		return errInvalidBody
	}

	req.ID = strings.TrimSpace(req.ID)

	return nil
}

func bindReader(r *http.Request, invalid error) (*Reader, error) {
	req := &ReaderRequest{}

	if err := decodeBody(r, req, invalid, readerFields...); err != nil {
		return nil, err
	}

	if err := req.Bind(r); err != nil {
		return nil, err
	}

	return req.Reader, nil
}

func NewCreateReaderRequest(r *http.Request) (*Reader, error) {
	reader, err := bindReader(r, errMissingReaderID)
	if err != nil {
		return nil, err
	}

	if reader.ID == "" {
		return nil, errMissingReaderID
	}

	return reader, nil
}

func NewUpdateReaderRequest(r *http.Request) (*Reader, error) {
	return bindReader(r, errInvalidBody)
}

type ReaderRepositoryParams struct {
	fx.In

	DB     DBService
	Logger LoggerService
}

type ReaderRepositoryResult struct {
	fx.Out

	Repository Repository[*Reader]
}

func NewReaderRepository(params ReaderRepositoryParams) ReaderRepositoryResult {
	repo := NewRepository[*Reader](
		params.DB,
		params.Logger,
		WithTableName[*Reader](Reader{}.TableName()),
		WithKeyColumn[*Reader](readerKeyColumn),
	)

	return ReaderRepositoryResult{Repository: repo}
}

type ReaderServiceParams struct {
	fx.In

	Repository Repository[*Reader]
}

type ReaderServiceResult struct {
	fx.Out

	ReaderService Service[*Reader]
}

func NewReaderService(params ReaderServiceParams) ReaderServiceResult {
	return ReaderServiceResult{ReaderService: NewService[*Reader](params.Repository)}
}
