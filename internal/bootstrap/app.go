package bootstrap

import (
	"time"

	"webtest-pilot/internal/ai"
	"webtest-pilot/internal/browser"
	"webtest-pilot/internal/config"
	"webtest-pilot/internal/console"
	"webtest-pilot/internal/ports"
	"webtest-pilot/internal/usecase"

	"go.uber.org/fx"
)

func NewApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.GetConfig,
			newLogger,
			newTraceProvider,

			fx.Annotate(browser.NewFactory, fx.As(new(ports.SessionFactory))),
			fx.Annotate(ai.NewClient, fx.As(new(ports.TestGenerator))),

			usecase.NewUsecase,

			console.NewInterface,
		),

		fx.Invoke(
			runConsole,
		),

		fx.StartTimeout(10*time.Second),
	)
}
