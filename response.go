package bookshelf

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// ListResponse is the {"data": [...]} envelope returned by list routes.
type ListResponse struct {
	Data []render.Renderer `json:"data"`
}

func NewListResponse[M Resource](items []M) *ListResponse {
	data := make([]render.Renderer, 0, len(items))
	for _, item := range items {
		data = append(data, item.ToDTO())
	}

	return &ListResponse{Data: data}
}

func (resp *ListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	HTTPStatusCode int `json:"-"`

	Message  string `json:"message"`
	BookID   string `json:"book_id,omitempty"`
	BookName string `json:"book_name,omitempty"`
}

func (resp *MessageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if resp.HTTPStatusCode != 0 {
		render.Status(r, resp.HTTPStatusCode)
	}

	return nil
}

var errInvalidBody = errors.New("Invalid request body")

// decodeBody decodes a JSON object into dst. Anything but an object naming at
// least one of fields fails with invalid, so null and {} never reach a write.
func decodeBody(r *http.Request, dst interface{}, invalid error, fields ...string) error {
	var raw json.RawMessage
	if err := render.DecodeJSON(r.Body, &raw); err != nil {
		return invalid
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return invalid
	}

	known := false
	for _, field := range fields {
		if _, ok := object[field]; ok {
			known = true
			break
		}
	}

	if !known {
		return invalid
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return invalid
	}

	return nil
}
