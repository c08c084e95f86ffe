package bootstrap

import (
	"time"

	"ui-harness/internal/alert"
	"ui-harness/internal/assertion"
	"ui-harness/internal/browser"
	"ui-harness/internal/config"
	"ui-harness/internal/console"
	"ui-harness/internal/dropdown"
	"ui-harness/internal/element"
	"ui-harness/internal/frame"
	"ui-harness/internal/page"
	"ui-harness/internal/pages/demoqa"
	"ui-harness/internal/ports"
	"ui-harness/internal/usecase"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func NewApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.GetConfig,
			newLogger,

			(*config.Config).WaitPolicy,
			(*config.Config).RetryPolicy,

			fx.Annotate(browser.NewManager, fx.As(new(ports.Driver), new(ports.Session))),

			element.NewInteractor,
			dropdown.NewSelector,
			frame.NewNavigator,
			alert.NewHandler,
			assertion.NewRetrier,
			page.NewBase,

			fx.Annotate(demoqa.Scenarios, fx.ResultTags(`group:"scenarios,flatten"`)),

			usecase.NewUsecase,

			console.NewInterface,
		),

		tracingModule,

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),

		fx.Invoke(
			runConsole,
		),

		fx.StartTimeout(2*time.Minute),
	)
}
