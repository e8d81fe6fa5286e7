package usecase

import (
	"webtest-pilot/internal/config"
	"webtest-pilot/internal/ports"
	"webtest-pilot/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Pipeline  adapters.PipelineService
	Detector  adapters.DetectorService
	Generator adapters.GeneratorService
	Executor  adapters.ExecutorService
}

type Params struct {
	fx.In

	Logger    *zap.Logger
	Config    *config.Config
	Sessions  ports.SessionFactory
	Generator ports.TestGenerator
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	detector := factory.CreateDetectorService()
	executor := factory.CreateExecutorService()

	return &Service{
		Pipeline:  factory.CreatePipelineService(detector, executor),
		Detector:  detector,
		Generator: params.Generator,
		Executor:  executor,
	}
}
