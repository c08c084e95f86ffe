package bootstrap

import (
	"context"
	"os"

	"ui-harness/internal/config"
	"ui-harness/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(lc fx.Lifecycle, config *config.Config) *zap.Logger {
	logger := logg.Init(config.Logging(), zapcore.Lock(os.Stdout))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			logg.Sync()

			return nil
		},
	})

	return logger
}
