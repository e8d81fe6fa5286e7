package usecase

import (
	"context"
	"fmt"
	"time"

	"webtest-pilot/internal/config"
	"webtest-pilot/internal/entity"
	"webtest-pilot/internal/ports"
	"webtest-pilot/pkg/apperr"
	"webtest-pilot/pkg/logg"
	"webtest-pilot/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	executorServiceName = "ExecutorService"
	executorTracer      = "usecase.executor"

	successMessage = "Test executed successfully"

	// locator strategy the wire contract pins down
	locatorXPath = "xpath"
)

// ExecutorService replays a generated test case in a fresh headful session.
// Step failures are reported in the result, not raised; only environment
// failures (launching the browser) come back as errors.
type ExecutorService struct {
	config   *config.Config
	logger   *zap.Logger
	sessions ports.SessionFactory
	tracer   trace.Tracer
}

type ExecutorServiceParams struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	Sessions ports.SessionFactory
}

func NewExecutorService(params ExecutorServiceParams) *ExecutorService {
	return &ExecutorService{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, executorServiceName)),
		sessions: params.Sessions,
		tracer:   otel.Tracer(executorTracer),
	}
}

func (s *ExecutorService) Execute(ctx context.Context, url string, testCase *entity.TestCase) (result *entity.ExecutionResult, err error) {
	const op = "Execute"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("url", url),
		attribute.Int("steps", len(testCase.Steps)))
	defer func() {
		step.End(err)
	}()

	session := s.sessions.NewSession(false)

	if err = session.Launch(ctx); err != nil {
		return nil, apperr.WrapWithReason(op, apperr.CodeBrowserNotReady, err, "executor_launch_failed")
	}

	defer func() {
		s.holdOpen(ctx, logger)

		if closeErr := session.Close(ctx); closeErr != nil {
			logger.Warn("Failed to close execution session", zap.Error(closeErr))
		}
	}()

	logger.Info("Starting test execution")

	result = s.replay(ctx, session, url, testCase, logger, step)

	return result, nil
}

func (s *ExecutorService) replay(ctx context.Context, session ports.BrowserSession, url string, testCase *entity.TestCase, logger *zap.Logger, step *tracing.Span) *entity.ExecutionResult {
	fail := func(executed int, cause error) *entity.ExecutionResult {
		logger.Warn("Test execution failed", zap.Error(cause), zap.Int("steps_executed", executed))

		return &entity.ExecutionResult{
			Success:       false,
			Message:       fmt.Sprintf("Test execution failed: %v", cause),
			StepsExecuted: executed,
		}
	}

	if err := session.Navigate(ctx, url); err != nil {
		return fail(0, err)
	}

	timeout := float64(s.config.BrowserConfig.WaitTimeout)

	for i, testStep := range testCase.Steps {
		stepLogger := logger.With(
			zap.Int(logg.StepIndex, i),
			zap.String(logg.StepType, string(testStep.StepType)),
			zap.String(logg.XPath, testStep.Value),
		)

		step.AddEvent(fmt.Sprintf("step %d: %s", i, testStep.StepType))

		// Untrusted payload: locator strategy and step type are validated
		// here, at dispatch, never silently skipped.
		if testStep.By != locatorXPath {
			return fail(i, fmt.Errorf("step %d: unsupported locator strategy %q", i, testStep.By))
		}

		if err := session.WaitForXPath(ctx, testStep.Value, timeout); err != nil {
			return fail(i, err)
		}

		switch testStep.StepType {
		case entity.StepTypeInput:
			if err := session.Fill(ctx, testStep.Value, testStep.InputValue); err != nil {
				return fail(i, err)
			}

			stepLogger.Info("Entered value into element", zap.String("input_value", testStep.InputValue))
		case entity.StepTypeClick:
			if err := session.Click(ctx, testStep.Value); err != nil {
				return fail(i, err)
			}

			stepLogger.Info("Clicked element")
		case entity.StepTypeSelect:
			if err := session.SelectByLabel(ctx, testStep.Value, testStep.InputValue); err != nil {
				return fail(i, err)
			}

			stepLogger.Info("Selected option", zap.String("input_value", testStep.InputValue))
		case entity.StepTypeScroll:
			if err := session.ScrollIntoView(ctx, testStep.Value); err != nil {
				return fail(i, err)
			}

			stepLogger.Info("Scrolled to element")
		default:
			return fail(i, fmt.Errorf("step %d: unrecognized step type %q", i, testStep.StepType))
		}
	}

	logger.Info("Test execution completed", zap.Int("steps_executed", len(testCase.Steps)))

	return &entity.ExecutionResult{
		Success:       true,
		Message:       successMessage,
		StepsExecuted: len(testCase.Steps),
	}
}

// holdOpen keeps the browser on screen after a run so a human can inspect
// the final page state. Disabled by default.
func (s *ExecutorService) holdOpen(ctx context.Context, logger *zap.Logger) {
	duration := s.config.BrowserConfig.HoldOpen
	if duration <= 0 {
		return
	}

	logger.Info("Holding browser open for inspection", zap.Duration("duration", duration))

	select {
	case <-time.After(duration):
	case <-ctx.Done():
	}
}
