package bookshelf

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrMissingID      = errors.New("missing id")
)

// ErrResponse is the JSON error body shared by every route.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	ErrorText string `json:"error"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		ErrorText:      err.Error(),
	}
}

func ErrUnauthorized(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		ErrorText:      "Unauthorized.",
	}
}

func ErrUnknown(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		ErrorText:      err.Error(),
	}
}

// ErrDatabase reports a failed insert.
func ErrDatabase(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		ErrorText:      "数据库错误",
		Message:        err.Error(),
		Code:           "DATABASE_ERROR",
	}
}

func ErrMissing(text string) render.Renderer {
	return &ErrResponse{
		Err:            ErrRecordNotFound,
		HTTPStatusCode: http.StatusNotFound,
		ErrorText:      text,
	}
}

func ErrConflict(text, message, code string) render.Renderer {
	return &ErrResponse{
		Err:            ErrDuplicateKey,
		HTTPStatusCode: http.StatusConflict,
		ErrorText:      text,
		Message:        message,
		Code:           code,
	}
}

var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, ErrorText: "Resource not found."}
