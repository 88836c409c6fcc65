package bookshelf

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

func NewRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.DefaultLogger)
	router.Use(middleware.Recoverer)
	router.Use(CORS)
	router.Use(middleware.AllowContentType("application/json"))
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("okay xD"))
	})

	return router
}

// CORS lets the browser front-end call the API from any origin. Preflight
// requests are answered here and never reach the routes.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
		w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type ServerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Router    *chi.Mux
	Logger    LoggerService
	Books     BookController
	Readers   Controller[*Reader]
	Records   Controller[*Record]
}

func NewServer(params ServerParams) *http.Server {
	params.Router.Mount("/api/books", params.Books.GetRouter())
	params.Router.Mount("/api/readers", params.Readers.GetRouter())
	params.Router.Mount("/api/records", params.Records.GetRouter())

	srv := &http.Server{Addr: params.Config.ListenAddr(), Handler: params.Router}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}

			params.Logger.Info("Starting HTTP server", "addr", srv.Addr)
			go srv.Serve(ln)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Shutting down HTTP server")

			return srv.Shutdown(ctx)
		},
	})

	return srv
}

func NewFxLogger(logger LoggerService) fxevent.Logger {
	fxLogger := fxevent.SlogLogger{Logger: logger.Logger()}

	fxLogger.UseLogLevel(slog.LevelDebug)
	fxLogger.UseErrorLevel(slog.LevelError)

	return &fxLogger
}

// BuildServerOpts wires the catalog API on top of BuildAppOpts.
func BuildServerOpts() []fx.Option {
	return []fx.Option{
		fx.Supply(ModelList{&Book{}, &Reader{}, &Record{}}),
		fx.Provide(NewDBService),
		fx.Provide(NewBookRepository),
		fx.Provide(NewBookService),
		fx.Provide(NewReaderRepository),
		fx.Provide(NewReaderService),
		fx.Provide(NewRecordRepository),
		fx.Provide(NewRecordService),
		fx.Provide(NewAuthService),
		fx.Provide(NewBookController),
		fx.Provide(NewReaderController),
		fx.Provide(NewRecordController),
		fx.Provide(NewRouter),
		fx.Provide(NewServer),
		fx.Invoke(func(*http.Server) {}),
	}
}

func BuildAppOpts() []fx.Option {
	return []fx.Option{
		fx.WithLogger(NewFxLogger),
		fx.Provide(NewConfig),
		fx.Provide(NewLoggerService),
	}
}
