package bootstrap

import (
	"context"

	"webtest-pilot/internal/console"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sessions are launched per pipeline phase, so startup only brings the
// console up; the browser comes later, on demand.
func runConsole(lc fx.Lifecycle, consoleInterface *console.Interface, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting UI Test Pilot console...")

			go func() {
				if err := consoleInterface.Start(); err != nil {
					logger.Error("Console interface error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down UI Test Pilot...")

			if err := consoleInterface.Stop(); err != nil {
				logger.Error("Failed to stop console", zap.Error(err))
			}

			return nil
		},
	})
}
