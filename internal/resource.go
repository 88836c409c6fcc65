package internal

import (
	"github.com/go-chi/render"

	"github.com/burkel24/go-bookshelf/interfaces"
)

// Resource is a Model that can be written to an HTTP response.
type Resource interface {
	interfaces.Model
	ToDTO() render.Renderer
}
