package usecase

import (
	"context"

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
	detectorServiceName = "DetectorService"
	detectorTracer      = "usecase.detector"
)

// DetectorService crawls a page in a headless session and builds the
// interactive-element inventory the generator prompts with.
type DetectorService struct {
	config   *config.Config
	logger   *zap.Logger
	sessions ports.SessionFactory
	tracer   trace.Tracer
}

type DetectorServiceParams struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	Sessions ports.SessionFactory
}

func NewDetectorService(params DetectorServiceParams) *DetectorService {
	return &DetectorService{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, detectorServiceName)),
		sessions: params.Sessions,
		tracer:   otel.Tracer(detectorTracer),
	}
}

// Detect opens the page, waits for the body (best-effort), captures a
// screenshot and enumerates the four interactive element types in a fixed
// order. The session is always closed before returning.
func (s *DetectorService) Detect(ctx context.Context, url string) (result *entity.DetectionResult, err error) {
	const op = "Detect"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	session := s.sessions.NewSession(s.config.BrowserConfig.DetectHeadless)

	if err = session.Launch(ctx); err != nil {
		return nil, apperr.WrapWithReason(op, apperr.CodeBrowserNotReady, err, "detector_launch_failed")
	}

	defer func() {
		if closeErr := session.Close(ctx); closeErr != nil {
			logger.Warn("Failed to close detection session", zap.Error(closeErr))
		}
	}()

	logger.Info("Navigating to URL for detection")
	step.AddEvent("navigating")

	if err = session.Navigate(ctx, url); err != nil {
		return nil, err
	}

	if waitErr := session.WaitForBody(ctx, float64(s.config.BrowserConfig.WaitTimeout)); waitErr != nil {
		// Detection stays best-effort on a slow page.
		logger.Warn("Page load timeout, continuing with element detection", zap.Error(waitErr))
		step.AddEvent("body wait timed out")
	}

	screenshotPath := s.config.BrowserConfig.ScreenshotPath
	if shotErr := session.Screenshot(ctx, screenshotPath); shotErr != nil {
		logger.Warn("Screenshot capture failed", zap.Error(shotErr))
		screenshotPath = ""
	} else {
		logger.Info("Screenshot saved", zap.String("path", screenshotPath))
	}

	inventory := entity.NewInventory()

	for _, elementType := range entity.ElementTypes {
		logger.Info("Looking for elements", zap.String(logg.Element, string(elementType)))
		step.AddEvent("collecting " + string(elementType))

		records, collectErr := session.CollectElements(ctx, elementType)
		if collectErr != nil {
			err = collectErr

			return nil, err
		}

		for _, record := range records {
			inventory.Add(record)
		}

		logger.Info("Collected elements",
			zap.String(logg.Element, string(elementType)),
			zap.Int("count", len(records)))
	}

	step.AddEvent("detection completed")

	return &entity.DetectionResult{
		Inventory:      inventory,
		ScreenshotPath: screenshotPath,
	}, nil
}
