package bookshelf

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestAppGraphIsComplete(t *testing.T) {
	opts := []fx.Option{
		fx.Provide(NewConfig),
		fx.Provide(NewLoggerService),
	}
	opts = append(opts, BuildServerOpts()...)

	require.NoError(t, fx.ValidateApp(opts...))
}
