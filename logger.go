package bookshelf

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/fx"
)

type LoggerService interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Logger() *slog.Logger
}

type LoggerServiceParams struct {
	fx.In

	Config Config
}

type LoggerServiceResult struct {
	fx.Out

	LoggerService LoggerService
}

type loggerService struct {
	logger *slog.Logger
}

func NewLoggerService(params LoggerServiceParams) (LoggerServiceResult, error) {
	srv := NewLogger(os.Stderr, params.Config.LogLevel)

	return LoggerServiceResult{LoggerService: srv}, nil
}

// NewLogger builds a JSON LoggerService outside of fx, for tests and the
// client commands.
func NewLogger(w io.Writer, level slog.Level) LoggerService {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return &loggerService{logger: slog.New(handler)}
}

func (srv *loggerService) Debug(msg string, args ...any) {
	srv.logger.Debug(msg, args...)
}

func (srv *loggerService) Info(msg string, args ...any) {
	srv.logger.Info(msg, args...)
}

func (srv *loggerService) Warn(msg string, args ...any) {
	srv.logger.Warn(msg, args...)
}

func (srv *loggerService) Error(msg string, args ...any) {
	srv.logger.Error(msg, args...)
}

func (srv *loggerService) Logger() *slog.Logger {
	return srv.logger
}
