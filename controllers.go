package bookshelf

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/render"
	"go.uber.org/fx"
)

type BookController interface {
	Controller[*Book]
	Search(w http.ResponseWriter, r *http.Request)
}

type BookControllerParams struct {
	fx.In

	Auth   AuthService
	Logger LoggerService
	Books  BookService
}

type BookControllerResult struct {
	fx.Out

	BookController BookController
}

type bookController struct {
	Controller[*Book]

	books  BookService
	logger LoggerService
}

func NewBookController(params BookControllerParams) BookControllerResult {
	ctrl := &bookController{
		books:  params.Books,
		logger: params.Logger,
	}

	ctrl.Controller = NewController[*Book](
		params.Books,
		params.Logger,
		params.Auth,
		NewCreateBookRequest,
		NewUpdateBookRequest,
		WithContextKey[*Book](bookContextKey),
		WithRoute[*Book](http.MethodGet, "/search", ctrl.Search),
		WithMessages[*Book](Messages{
			Created:       "图书添加成功",
			Updated:       "更新成功",
			Deleted:       "Book deleted successfully",
			MissingID:     errMissingBookID.Error(),
			UpdateMissing: "Book to update not found",
			DeleteMissing: "Book to delete not found",
		}),
		WithCreatedResponse(func(book *Book) render.Renderer {
			return &MessageResponse{
				HTTPStatusCode: http.StatusCreated,
				Message:        "图书添加成功",
				BookID:         book.ID,
				BookName:       book.Name,
			}
		}),
		WithConflictResponse(func(book *Book) render.Renderer {
			return ErrConflict(
				"主键重复",
				fmt.Sprintf("图书ID '%s' 已存在，请使用其他ID", book.ID),
				"DUPLICATE_KEY",
			)
		}),
	)

	return BookControllerResult{BookController: ctrl}
}

func (c *bookController) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values := r.URL.Query()

	query := NewSearchQuery(values)

	books, err := c.books.Search(ctx, query)
	if err != nil {
		c.logger.Error("failed to search books", "error", err)
		render.Render(w, r, ErrUnknown(fmt.Errorf("Database search failed: %w", err)))

		return
	}

	render.Render(w, r, &BookSearchResponse{
		Data:     NewListResponse(books).Data,
		Total:    len(books),
		Keyword:  query.Keyword,
		SearchBy: query.SearchBy,
		MinPrice: queryParam(values, "min_price"),
		MaxPrice: queryParam(values, "max_price"),
	})
}

type ReaderControllerParams struct {
	fx.In

	Auth    AuthService
	Logger  LoggerService
	Readers Service[*Reader]
}

type ReaderControllerResult struct {
	fx.Out

	ReaderController Controller[*Reader]
}

func NewReaderController(params ReaderControllerParams) ReaderControllerResult {
	ctrl := NewController[*Reader](
		params.Readers,
		params.Logger,
		params.Auth,
		NewCreateReaderRequest,
		NewUpdateReaderRequest,
		WithContextKey[*Reader](readerContextKey),
		WithMessages[*Reader](Messages{
			Created:       "Reader added successfully",
			Updated:       "Reader updated successfully",
			Deleted:       "Reader deleted successfully",
			MissingID:     errMissingReaderID.Error(),
			UpdateMissing: "Reader not found",
			DeleteMissing: "Reader not found",
		}),
		WithConflictResponse(func(reader *Reader) render.Renderer {
			return ErrConflict(fmt.Sprintf("Reader with ID %s already exists.", reader.ID), "", "")
		}),
	)

	return ReaderControllerResult{ReaderController: ctrl}
}

type RecordControllerParams struct {
	fx.In

	Auth    AuthService
	Logger  LoggerService
	Records Service[*Record]
}

type RecordControllerResult struct {
	fx.Out

	RecordController Controller[*Record]
}

func NewRecordController(params RecordControllerParams) RecordControllerResult {
	ctrl := NewController[*Record](
		params.Records,
		params.Logger,
		params.Auth,
		NewCreateRecordRequest,
		NewUpdateRecordRequest,
		WithContextKey[*Record](recordContextKey),
		WithDetailPath[*Record]("/{book_id}/{reader_id}", compositeKey("book_id", "reader_id")),
		WithMessages[*Record](Messages{
			Created:       "Record added successfully",
			Updated:       "Record updated successfully",
			Deleted:       "Record deleted successfully",
			MissingID:     errMissingRecordKey.Error(),
			UpdateMissing: "Record not found or data not changed",
			DeleteMissing: "Record not found",
		}),
		WithConflictResponse(func(record *Record) render.Renderer {
			return ErrConflict(fmt.Sprintf(
				"Record with Book ID %s and Reader ID %s already exists.",
				record.BookID,
				record.ReaderID,
			), "", "")
		}),
	)

	return RecordControllerResult{RecordController: ctrl}
}

// queryParam returns nil for an absent parameter and its raw value, empty or
// not, otherwise.
func queryParam(values url.Values, key string) *string {
	if !values.Has(key) {
		return nil
	}

	value := values.Get(key)

	return &value
}
