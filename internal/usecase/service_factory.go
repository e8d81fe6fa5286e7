package usecase

import (
	"webtest-pilot/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateDetectorService() adapters.DetectorService {
	return NewDetectorService(DetectorServiceParams{
		Config:   f.deps.Config,
		Logger:   f.deps.Logger,
		Sessions: f.deps.Sessions,
	})
}

func (f *serviceFactory) CreateExecutorService() adapters.ExecutorService {
	return NewExecutorService(ExecutorServiceParams{
		Config:   f.deps.Config,
		Logger:   f.deps.Logger,
		Sessions: f.deps.Sessions,
	})
}

func (f *serviceFactory) CreatePipelineService(detector adapters.DetectorService, executor adapters.ExecutorService) adapters.PipelineService {
	return NewPipelineService(PipelineServiceParams{
		Config:    f.deps.Config,
		Logger:    f.deps.Logger,
		Detector:  detector,
		Generator: f.deps.Generator,
		Executor:  executor,
	})
}
