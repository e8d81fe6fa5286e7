package usecase

import (
	"context"
	"errors"
	"time"

	"webtest-pilot/internal/config"
	"webtest-pilot/internal/entity"
	"webtest-pilot/internal/ports"
	"webtest-pilot/internal/usecase/adapters"
	"webtest-pilot/pkg/apperr"
	"webtest-pilot/pkg/logg"
	"webtest-pilot/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	pipelineServiceName = "PipelineService"
	pipelineTracer      = "usecase.pipeline"

	phaseDetection  = "detection"
	phaseGeneration = "generation"
	phaseExecution  = "execution"
)

// PipelineService drives one run end to end: detect, generate, execute.
// Strictly sequential, no feedback loop from execution back to generation.
type PipelineService struct {
	config    *config.Config
	logger    *zap.Logger
	detector  adapters.DetectorService
	generator ports.TestGenerator
	executor  adapters.ExecutorService
	tracer    trace.Tracer
}

type PipelineServiceParams struct {
	Config    *config.Config
	Logger    *zap.Logger
	Detector  adapters.DetectorService
	Generator ports.TestGenerator
	Executor  adapters.ExecutorService
}

func NewPipelineService(params PipelineServiceParams) *PipelineService {
	return &PipelineService{
		config:    params.Config,
		logger:    params.Logger.With(zap.String(logg.Layer, pipelineServiceName)),
		detector:  params.Detector,
		generator: params.Generator,
		executor:  params.Executor,
		tracer:    otel.Tracer(pipelineTracer),
	}
}

func (s *PipelineService) Run(ctx context.Context, url, intent string) (run *entity.TestRun, err error) {
	const op = "Run"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	if url == "" {
		return nil, apperr.InvalidReqError(op, "url", errors.New("target URL cannot be empty"))
	}

	if intent == "" {
		return nil, apperr.InvalidReqError(op, "intent", errors.New("scenario description cannot be empty"))
	}

	run = &entity.TestRun{
		ID:        uuid.New(),
		URL:       url,
		Intent:    intent,
		Status:    entity.RunStatusInProgress,
		CreatedAt: time.Now(),
		Log:       make([]entity.PhaseLog, 0, 3),
	}

	logger = logger.With(zap.String(logg.RunID, run.ID.String()))
	step.AddEvent("run created")

	logger.Info("Starting element detection")

	detection, err := s.detector.Detect(ctx, url)
	if err != nil {
		s.fail(run, phaseDetection, err)

		return run, err
	}

	s.logPhase(run, phaseDetection, true, "elements detected")
	logger.Info("Detection completed", zap.Int("elements", detection.Inventory.Len()))
	step.AddEvent("detection completed")

	logger.Info("Generating test case")

	testCase, err := s.generator.Generate(ctx, detection.Inventory, intent, detection.ScreenshotPath)
	if err != nil {
		s.fail(run, phaseGeneration, err)

		return run, err
	}

	s.logPhase(run, phaseGeneration, true, "test case generated")
	logger.Info("Generation completed", zap.Int("steps", len(testCase.Steps)))
	step.AddEvent("generation completed")

	logger.Info("Starting test execution")

	result, err := s.executor.Execute(ctx, url, testCase)
	if err != nil {
		s.fail(run, phaseExecution, err)

		return run, err
	}

	s.logPhase(run, phaseExecution, result.Success, result.Message)

	now := time.Now()
	run.CompletedAt = &now
	run.Result = result.Message

	if result.Success {
		run.Status = entity.RunStatusCompleted
	} else {
		run.Status = entity.RunStatusFailed
		run.Error = result.Message
	}

	step.AddEvent("run finished")

	return run, nil
}

func (s *PipelineService) fail(run *entity.TestRun, phase string, err error) {
	s.logPhase(run, phase, false, err.Error())

	now := time.Now()
	run.CompletedAt = &now
	run.Status = entity.RunStatusFailed
	run.Error = err.Error()
}

func (s *PipelineService) logPhase(run *entity.TestRun, phase string, success bool, detail string) {
	run.Log = append(run.Log, entity.PhaseLog{
		Phase:     phase,
		Timestamp: time.Now(),
		Success:   success,
		Detail:    detail,
	})
}
