package adapters

import (
	"context"

	"webtest-pilot/internal/entity"
)

type DetectorService interface {
	Detect(ctx context.Context, url string) (*entity.DetectionResult, error)
}

type GeneratorService interface {
	Generate(ctx context.Context, inventory *entity.Inventory, intent, screenshotPath string) (*entity.TestCase, error)
}

type ExecutorService interface {
	Execute(ctx context.Context, url string, testCase *entity.TestCase) (*entity.ExecutionResult, error)
}

type PipelineService interface {
	Run(ctx context.Context, url, intent string) (*entity.TestRun, error)
}
