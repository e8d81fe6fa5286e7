package usecase

import (
	"context"
	"fmt"

	"webtest-pilot/internal/config"
	"webtest-pilot/internal/entity"
	"webtest-pilot/internal/ports"
)

// fakeSession records every browser interaction in order so tests can
// assert on call sequences without a real browser.
type fakeSession struct {
	actions []string
	closed  bool
	ready   bool

	launchErr     error
	navigateErr   error
	waitBodyErr   error
	screenshotErr error
	collectErr    error
	waitXPathErr  map[string]error
	fillErr       map[string]error
	clickErr      map[string]error
	selectErr     map[string]error
	scrollErr     map[string]error

	elements map[entity.ElementType][]entity.ElementRecord
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		waitXPathErr: map[string]error{},
		fillErr:      map[string]error{},
		clickErr:     map[string]error{},
		selectErr:    map[string]error{},
		scrollErr:    map[string]error{},
		elements:     map[entity.ElementType][]entity.ElementRecord{},
	}
}

func (f *fakeSession) record(format string, args ...any) {
	f.actions = append(f.actions, fmt.Sprintf(format, args...))
}

func (f *fakeSession) Launch(ctx context.Context) error {
	if f.launchErr != nil {
		return f.launchErr
	}

	f.ready = true
	f.record("launch")

	return nil
}

func (f *fakeSession) Close(ctx context.Context) error {
	f.closed = true
	f.ready = false
	f.record("close")

	return nil
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	if f.navigateErr != nil {
		return f.navigateErr
	}

	f.record("navigate %s", url)

	return nil
}

func (f *fakeSession) WaitForBody(ctx context.Context, timeoutMs float64) error {
	if f.waitBodyErr != nil {
		return f.waitBodyErr
	}

	f.record("wait body")

	return nil
}

func (f *fakeSession) CollectElements(ctx context.Context, elementType entity.ElementType) ([]entity.ElementRecord, error) {
	if f.collectErr != nil {
		return nil, f.collectErr
	}

	f.record("collect %s", elementType)

	return f.elements[elementType], nil
}

func (f *fakeSession) Screenshot(ctx context.Context, path string) error {
	if f.screenshotErr != nil {
		return f.screenshotErr
	}

	f.record("screenshot %s", path)

	return nil
}

func (f *fakeSession) WaitForXPath(ctx context.Context, xpath string, timeoutMs float64) error {
	if err := f.waitXPathErr[xpath]; err != nil {
		return err
	}

	f.record("wait %s", xpath)

	return nil
}

func (f *fakeSession) Fill(ctx context.Context, xpath, value string) error {
	if err := f.fillErr[xpath]; err != nil {
		return err
	}

	f.record("fill %s %s", xpath, value)

	return nil
}

func (f *fakeSession) Click(ctx context.Context, xpath string) error {
	if err := f.clickErr[xpath]; err != nil {
		return err
	}

	f.record("click %s", xpath)

	return nil
}

func (f *fakeSession) SelectByLabel(ctx context.Context, xpath, label string) error {
	if err := f.selectErr[xpath]; err != nil {
		return err
	}

	f.record("select %s %s", xpath, label)

	return nil
}

func (f *fakeSession) ScrollIntoView(ctx context.Context, xpath string) error {
	if err := f.scrollErr[xpath]; err != nil {
		return err
	}

	f.record("scroll %s", xpath)

	return nil
}

func (f *fakeSession) IsReady() bool {
	return f.ready
}

type fakeFactory struct {
	session  *fakeSession
	headless []bool
}

func (f *fakeFactory) NewSession(headless bool) ports.BrowserSession {
	f.headless = append(f.headless, headless)

	return f.session
}

func testConfig() *config.Config {
	return &config.Config{
		AppConfig: &config.AppConfig{},
		LLMConfig: &config.LLMConfig{},
		BrowserConfig: &config.BrowserConfig{
			DetectHeadless: true,
			WaitTimeout:    10000,
			NavTimeout:     30000,
			ScreenshotPath: "page_screenshot.png",
		},
	}
}
