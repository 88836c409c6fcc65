package bookshelf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ResourceContextKey int

const (
	bookContextKey ResourceContextKey = iota
	readerContextKey
	recordContextKey
)

type updateContextKey struct{}

type ResourceRequestConstructor[M Resource] func(*http.Request) (M, error)

// ItemKeyFunc reads an item id out of the URL parameters of a detail route.
type ItemKeyFunc func(*http.Request) string

type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

type Controller[M Resource] interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	ItemFromContext(ctx context.Context) (M, error)
	ItemContextMiddleware(next http.Handler) http.Handler
	UpdateRequestMiddleware(next http.Handler) http.Handler

	GetRouter() *chi.Mux
}

// Messages are the bodies a controller answers writes with.
type Messages struct {
	Created       string
	Updated       string
	Deleted       string
	MissingID     string
	UpdateMissing string
	DeleteMissing string
}

type controller[M Resource] struct {
	additionalRoutes []Route
	contextKey       ResourceContextKey
	detailPath       string
	itemKey          ItemKeyFunc
	messages         Messages

	auth   AuthService
	logger LoggerService
	svc    Service[M]
	Router *chi.Mux

	createdResponse  func(M) render.Renderer
	conflictResponse func(M) render.Renderer

	createRequestConstructor ResourceRequestConstructor[M]
	updateRequestConstructor ResourceRequestConstructor[M]
}

type ControllerOption[M Resource] func(*controller[M])

func NewController[M Resource](
	svc Service[M],
	logger LoggerService,
	authSvc AuthService,
	createRequestConstructor ResourceRequestConstructor[M],
	updateRequestConstructor ResourceRequestConstructor[M],
	opts ...ControllerOption[M],
) Controller[M] {
	ctrl := &controller[M]{
		additionalRoutes: make([]Route, 0),
		detailPath:       "/{id}",
		itemKey:          urlParamKey("id"),
		messages: Messages{
			Created:       "Created",
			Updated:       "Updated",
			Deleted:       "Deleted",
			MissingID:     "Missing id",
			UpdateMissing: "Resource not found.",
			DeleteMissing: "Resource not found.",
		},

		auth:   authSvc,
		logger: logger,
		svc:    svc,

		createRequestConstructor: createRequestConstructor,
		updateRequestConstructor: updateRequestConstructor,
	}

	for _, opt := range opts {
		opt(ctrl)
	}

	if ctrl.createdResponse == nil {
		ctrl.createdResponse = func(M) render.Renderer {
			return &MessageResponse{HTTPStatusCode: http.StatusCreated, Message: ctrl.messages.Created}
		}
	}

	if ctrl.conflictResponse == nil {
		ctrl.conflictResponse = func(item M) render.Renderer {
			return ErrConflict(fmt.Sprintf("%s already exists.", item.GetID()), "", "")
		}
	}

	ctrl.Router = chi.NewRouter()

	ctrl.Router.Get("/", ctrl.List)
	ctrl.Router.With(ctrl.auth.WriteRequired()).Post("/", ctrl.Create)

	for _, route := range ctrl.additionalRoutes {
		ctrl.Router.Method(route.Method, route.Path, route.Handler)
	}

	ctrl.Router.Route(ctrl.detailPath, func(r chi.Router) {
		r.With(ctrl.ItemContextMiddleware).Get("/", ctrl.Get)

		r.Group(func(r chi.Router) {
			r.Use(ctrl.auth.WriteRequired())

			r.With(ctrl.UpdateRequestMiddleware, ctrl.ItemContextMiddleware).Put("/", ctrl.Update)
			r.With(ctrl.ItemContextMiddleware).Delete("/", ctrl.Delete)
		})
	})

	return ctrl
}

func (c *controller[M]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := c.svc.List(ctx)
	if err != nil {
		c.logger.Error("failed to list items", "error", err)
		render.Render(w, r, ErrUnknown(fmt.Errorf("Database query failed: %w", err)))

		return
	}

	c.logger.Info("Found items", "count", len(items))

	render.Render(w, r, NewListResponse(items))
}

func (c *controller[M]) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	newItem, err := c.createRequestConstructor(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	item, err := c.svc.CreateOne(ctx, newItem)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateKey):
			render.Render(w, r, c.conflictResponse(newItem))
		case errors.Is(err, ErrMissingID):
			render.Render(w, r, ErrInvalidRequest(errors.New(c.messages.MissingID)))
		default:
			c.logger.Error("failed to create item", "error", err)
			render.Render(w, r, ErrDatabase(err))
		}

		return
	}

	c.logger.Info("Item created", "item", item.GetID())

	render.Render(w, r, c.createdResponse(item))
}

func (c *controller[M]) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, err := c.ItemFromContext(ctx)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	render.Render(w, r, item.ToDTO())
}

func (c *controller[M]) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, err := c.ItemFromContext(ctx)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	update, ok := ctx.Value(updateContextKey{}).(M)
	if !ok {
		render.Render(w, r, ErrInvalidRequest(fmt.Errorf("failed to get update from context")))
		return
	}

	_, err = c.svc.UpdateOne(ctx, item.GetID(), update)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			render.Render(w, r, ErrMissing(c.messages.UpdateMissing))
			return
		}

		c.logger.Error("failed to update item", "error", err)
		render.Render(w, r, ErrUnknown(fmt.Errorf("Database update failed: %w", err)))

		return
	}

	c.logger.Info("Item updated", "item", item.GetID())

	render.Render(w, r, &MessageResponse{Message: c.messages.Updated})
}

func (c *controller[M]) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, err := c.ItemFromContext(ctx)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	err = c.svc.DeleteOne(ctx, item.GetID())
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			render.Render(w, r, ErrMissing(c.messages.DeleteMissing))
			return
		}

		c.logger.Error("failed to delete item", "error", err)
		render.Render(w, r, ErrUnknown(fmt.Errorf("Database delete failed: %w", err)))

		return
	}

	c.logger.Info("Item deleted", "item", item.GetID())

	render.Render(w, r, &MessageResponse{Message: c.messages.Deleted})
}

func (c *controller[M]) ItemFromContext(ctx context.Context) (M, error) {
	var item M

	item, ok := ctx.Value(c.contextKey).(M)
	if !ok {
		return item, fmt.Errorf("failed to get item from context")
	}

	return item, nil
}

// ItemContextMiddleware loads the item named by the detail route. The 404
// body depends on the method so clients can tell which write missed.
func (c *controller[M]) ItemContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		itemID := c.itemKey(r)
		if itemID == "" {
			render.Render(w, r, ErrNotFound)
			return
		}

		item, err := c.svc.GetOne(ctx, itemID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				render.Render(w, r, c.missingError(r.Method))
			} else {
				c.logger.Error("failed to look up item", "error", err)
				render.Render(w, r, ErrUnknown(err))
			}

			return
		}

		ctxWithItem := context.WithValue(ctx, c.contextKey, item)

		next.ServeHTTP(w, r.WithContext(ctxWithItem))
	})
}

// UpdateRequestMiddleware binds the request body ahead of the item lookup, so
// a bad body is a 400 whether or not the item exists.
func (c *controller[M]) UpdateRequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		update, err := c.updateRequestConstructor(r)
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}

		ctxWithUpdate := context.WithValue(r.Context(), updateContextKey{}, update)

		next.ServeHTTP(w, r.WithContext(ctxWithUpdate))
	})
}

func (c *controller[M]) GetRouter() *chi.Mux {
	return c.Router
}

func (c *controller[M]) missingError(method string) render.Renderer {
	switch method {
	case http.MethodPut:
		return ErrMissing(c.messages.UpdateMissing)
	case http.MethodDelete:
		return ErrMissing(c.messages.DeleteMissing)
	default:
		return ErrNotFound
	}
}

func urlParamKey(name string) ItemKeyFunc {
	return func(r *http.Request) string {
		return strings.TrimSpace(chi.URLParam(r, name))
	}
}

// compositeKey joins several URL parameters into one composite item id. Any
// empty part yields an empty id.
func compositeKey(names ...string) ItemKeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = strings.TrimSpace(chi.URLParam(r, name))
			if parts[i] == "" {
				return ""
			}
		}

		return strings.Join(parts, KeySeparator)
	}
}

func WithRoute[M Resource](method, path string, handler http.HandlerFunc) ControllerOption[M] {
	return func(c *controller[M]) {
		c.additionalRoutes = append(c.additionalRoutes, Route{
			Method:  method,
			Path:    path,
			Handler: handler,
		})
	}
}

// WithDetailPath mounts the detail routes under path and reads item ids with
// key.
func WithDetailPath[M Resource](path string, key ItemKeyFunc) ControllerOption[M] {
	return func(c *controller[M]) {
		c.detailPath = path
		c.itemKey = key
	}
}

func WithContextKey[M Resource](key ResourceContextKey) ControllerOption[M] {
	return func(c *controller[M]) {
		c.contextKey = key
	}
}

func WithMessages[M Resource](messages Messages) ControllerOption[M] {
	return func(c *controller[M]) {
		c.messages = messages
	}
}

func WithCreatedResponse[M Resource](fn func(M) render.Renderer) ControllerOption[M] {
	return func(c *controller[M]) {
		c.createdResponse = fn
	}
}

func WithConflictResponse[M Resource](fn func(M) render.Renderer) ControllerOption[M] {
	return func(c *controller[M]) {
		c.conflictResponse = fn
	}
}
