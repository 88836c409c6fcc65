package bookshelf

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is read from the environment once at startup.
type Config struct {
	Addr string `env:"ADDR" envDefault:"127.0.0.1:8080"`
	// Port overrides the port of Addr when set, for platforms that only hand
	// out a port number.
	Port string `env:"PORT"`

	DBDriver     string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseURL  string        `env:"DATABASE_URL" envDefault:"file:bookshelf.db"`
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"1s"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	AuthSigningSecret string `env:"AUTH_SIGNING_SECRET"`
	AuthIssuer        string `env:"AUTH_ISSUER" envDefault:"bookshelf"`
}

type ConfigParams struct {
	fx.In
}

type ConfigResult struct {
	fx.Out

	Config Config
}

func NewConfig(params ConfigParams) (ConfigResult, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return ConfigResult{}, err
	}

	return ConfigResult{Config: cfg}, nil
}

// LoadConfig parses and validates the environment.
func LoadConfig() (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (cfg Config) Validate() error {
	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive, got %s", cfg.QueryTimeout)
	}

	return nil
}

func (cfg Config) ListenAddr() string {
	if cfg.Port == "" {
		return cfg.Addr
	}

	host, _, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		host = cfg.Addr
	}

	return net.JoinHostPort(host, cfg.Port)
}
