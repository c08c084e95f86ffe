package bootstrap

import (
	"context"

	"ui-harness/internal/config"
	"ui-harness/internal/console"
	"ui-harness/internal/ports"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// runConsole launches the browser, then either runs HARNESS_SCENARIOS and
// exits with their outcome or hands control to the interactive console.
func runConsole(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	config *config.Config,
	consoleInterface *console.Interface,
	browser ports.Session,
	logger *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting UI harness...")

			logger.Info("Launching browser...")

			if err := browser.Launch(ctx); err != nil {
				logger.Error("Failed to launch browser", zap.Error(err))

				return err
			}

			logger.Info("Browser launched successfully")

			go func() {
				code := console.ExitOK

				if selectors := config.HarnessConfig.Scenarios; len(selectors) > 0 {
					code = consoleInterface.RunBatch(selectors)
				} else if err := consoleInterface.Start(); err != nil {
					logger.Error("Console interface error", zap.Error(err))

					code = console.ExitFailed
				}

				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Error("Failed to request shutdown", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down UI harness...")

			consoleInterface.Stop()

			if err := browser.Close(ctx); err != nil {
				logger.Error("Failed to close browser", zap.Error(err))
			}

			return nil
		},
	})
}
