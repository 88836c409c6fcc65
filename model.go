package bookshelf

import (
	"github.com/burkel24/go-bookshelf/interfaces"
	"github.com/burkel24/go-bookshelf/internal"
)

type Model = interfaces.Model

type Resource = internal.Resource
