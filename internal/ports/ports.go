package ports

import (
	"context"

	"webtest-pilot/internal/entity"
)

// BrowserSession is one exclusively-owned browser page. Detector and
// Executor each hold their own session; sessions are never shared.
type BrowserSession interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	WaitForBody(ctx context.Context, timeoutMs float64) error
	CollectElements(ctx context.Context, elementType entity.ElementType) ([]entity.ElementRecord, error)
	Screenshot(ctx context.Context, path string) error
	WaitForXPath(ctx context.Context, xpath string, timeoutMs float64) error
	Fill(ctx context.Context, xpath, value string) error
	Click(ctx context.Context, xpath string) error
	SelectByLabel(ctx context.Context, xpath, label string) error
	ScrollIntoView(ctx context.Context, xpath string) error
	IsReady() bool
}

// SessionFactory hands out independent browser sessions.
type SessionFactory interface {
	NewSession(headless bool) BrowserSession
}

type TestGenerator interface {
	Generate(ctx context.Context, inventory *entity.Inventory, intent, screenshotPath string) (*entity.TestCase, error)
}
