package browser

import (
	"context"
	"fmt"

	"webtest-pilot/internal/config"
	"webtest-pilot/internal/entity"
	"webtest-pilot/internal/ports"
	"webtest-pilot/pkg/apperr"
	"webtest-pilot/pkg/logg"
	"webtest-pilot/pkg/tracing"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sessionName   = "BrowserSession"
	browserTracer = "browser.session"
)

// Session owns one Playwright browser instance and one page. Detection and
// execution each launch their own Session; the two never share state.
type Session struct {
	config     *config.Config
	logger     *zap.Logger
	tracer     trace.Tracer
	headless   bool
	playwright *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
	page       playwright.Page
	ready      bool
}

type Factory struct {
	config *config.Config
	logger *zap.Logger
}

type FactoryParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewFactory(params FactoryParams) *Factory {
	return &Factory{
		config: params.Config,
		logger: params.Logger,
	}
}

func (f *Factory) NewSession(headless bool) ports.BrowserSession {
	return &Session{
		config:   f.config,
		logger:   f.logger.With(zap.String(logg.Layer, sessionName)),
		tracer:   otel.Tracer(browserTracer),
		headless: headless,
		ready:    false,
	}
}

func (s *Session) Launch(ctx context.Context) (err error) {
	const op = "Launch"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.Bool("headless", s.headless))
	defer func() {
		step.End(err)
	}()

	logger.Info("Launching browser...", zap.Bool("headless", s.headless))
	step.AddEvent("installing playwright")

	err = playwright.Install()
	if err != nil {
		logger.Error("Playwright install failed; run 'npx playwright install chromium' or let the driver download finish", zap.Error(err))

		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_install_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	step.AddEvent("starting playwright")

	pw, err := playwright.Run()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_start_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	s.playwright = pw

	browserOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.headless),
		SlowMo:   playwright.Float(float64(s.config.BrowserConfig.SlowMo)),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
		},
	}

	browser, err := s.playwright.Chromium.Launch(browserOptions)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "browser_launch_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	s.browser = browser

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  s.config.BrowserConfig.ViewportWidth,
			Height: s.config.BrowserConfig.ViewportHeight,
		},
		JavaScriptEnabled: playwright.Bool(true),
	}

	browserCtx, err := browser.NewContext(contextOptions)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "context_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	s.browserCtx = browserCtx

	page, err := browserCtx.NewPage()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	s.page = page

	s.ready = true
	logger.Info("Browser launched successfully")

	return nil
}

func (s *Session) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Closing browser session...")

	if s.browserCtx != nil {
		if err := s.browserCtx.Close(); err != nil {
			logger.Warn("Failed to close context", zap.Error(err))
		}
	}

	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			logger.Warn("Failed to close browser", zap.Error(err))
		}
	}

	if s.playwright != nil {
		if err := s.playwright.Stop(); err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "playwright_stop_failed",
			})
		}
	}

	s.ready = false
	logger.Info("Browser closed")

	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) (err error) {
	const op = "Navigate"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	if !s.ready {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	step.AddEvent("navigating to URL")

	_, err = s.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(s.config.BrowserConfig.NavTimeout)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})

	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "goto_failed",
			apperr.MetaStage:  apperr.StageNavigation,
			apperr.MetaURL:    url,
		})
	}

	step.AddEvent("navigation completed")

	return nil
}

// WaitForBody blocks until the document body is present or the timeout
// elapses. Callers may treat a timeout as non-fatal.
func (s *Session) WaitForBody(ctx context.Context, timeoutMs float64) (err error) {
	const op = "WaitForBody"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if !s.ready {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	_, err = s.page.WaitForSelector("body", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(timeoutMs),
	})

	if err != nil {
		return apperr.Wrap(op, apperr.CodeTimeout, err, map[string]any{
			apperr.MetaReason: "body_wait_timeout",
			apperr.MetaStage:  apperr.StageNavigation,
		})
	}

	return nil
}

// CollectElements enumerates all nodes of one element type on the current
// page, in document order, and synthesizes an XPath locator per node. A node
// whose ancestor chain could not be captured keeps its record with an empty
// locator.
func (s *Session) CollectElements(ctx context.Context, elementType entity.ElementType) (records []entity.ElementRecord, err error) {
	const op = "CollectElements"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Element, string(elementType)))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("element_type", string(elementType)))
	defer func() {
		step.End(err)
	}()

	if !s.ready {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	tag, ok := elementTypeTags[elementType]
	if !ok {
		return nil, apperr.InvalidReqError(op, "element_type", fmt.Errorf("unknown element type: %s", elementType))
	}

	step.AddEvent("evaluating collect script")

	result, err := s.page.Evaluate(collectScript(tag))
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "evaluate_failed",
			apperr.MetaStage:  apperr.StageDetection,
		})
	}

	items, ok := result.([]interface{})
	if !ok {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeInternal, "unexpected_result_type")
	}

	records = make([]entity.ElementRecord, 0, len(items))

	for _, item := range items {
		capture, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		record := entity.ElementRecord{
			Type:  elementType,
			ID:    getString(capture, "id"),
			Name:  getString(capture, "name"),
			Class: getString(capture, "class"),
			Text:  getString(capture, "text"),
		}

		if getBool(capture, "pathOk") {
			record.XPath = SynthesizeXPath(record.ID, getString(capture, "anchor"), getSegments(capture))
		}

		records = append(records, record)
	}

	step.AddEvent(fmt.Sprintf("collected %d elements", len(records)))

	return records, nil
}

func (s *Session) Screenshot(ctx context.Context, path string) (err error) {
	const op = "Screenshot"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if !s.ready {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	_, err = s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})

	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "screenshot_failed",
			apperr.MetaStage:  apperr.StageScreenshot,
		})
	}

	return nil
}

func (s *Session) WaitForXPath(ctx context.Context, xpath string, timeoutMs float64) (err error) {
	const op = "WaitForXPath"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.XPath, xpath))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("xpath", xpath))
	defer func() {
		step.End(err)
	}()

	if !s.ready {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	_, err = s.page.WaitForSelector(xpath, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(timeoutMs),
	})

	if err != nil {
		return apperr.Wrap(op, apperr.CodeTimeout, err, map[string]any{
			apperr.MetaReason: "wait_xpath_timeout",
			apperr.MetaXPath:  xpath,
		})
	}

	return nil
}

func (s *Session) Fill(ctx context.Context, xpath, value string) (err error) {
	const op = "Fill"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.XPath, xpath))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("xpath", xpath))
	defer func() {
		step.End(err)
	}()

	if !s.ready {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	step.AddEvent("filling field")

	err = s.page.Fill(xpath, value, playwright.PageFillOptions{
		Timeout: playwright.Float(float64(s.config.BrowserConfig.WaitTimeout)),
	})

	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "fill_failed",
			apperr.MetaStage:  apperr.StageExecution,
			apperr.MetaXPath:  xpath,
		})
	}

	return nil
}

func (s *Session) Click(ctx context.Context, xpath string) (err error) {
	const op = "Click"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.XPath, xpath))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("xpath", xpath))
	defer func() {
		step.End(err)
	}()

	if !s.ready {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	step.AddEvent("clicking element")

	err = s.page.Click(xpath, playwright.PageClickOptions{
		Timeout: playwright.Float(float64(s.config.BrowserConfig.WaitTimeout)),
	})

	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "click_failed",
			apperr.MetaStage:  apperr.StageExecution,
			apperr.MetaXPath:  xpath,
		})
	}

	return nil
}

func (s *Session) SelectByLabel(ctx context.Context, xpath, label string) (err error) {
	const op = "SelectByLabel"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.XPath, xpath))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("xpath", xpath),
		attribute.String("label", label))
	defer func() {
		step.End(err)
	}()

	if !s.ready {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	step.AddEvent("selecting option by label")

	_, err = s.page.SelectOption(xpath, playwright.SelectOptionValues{
		Labels: playwright.StringSlice(label),
	}, playwright.PageSelectOptionOptions{
		Timeout: playwright.Float(float64(s.config.BrowserConfig.WaitTimeout)),
	})

	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "select_failed",
			apperr.MetaStage:  apperr.StageExecution,
			apperr.MetaXPath:  xpath,
		})
	}

	return nil
}

// ScrollIntoView smooth-scrolls the target into the viewport and applies a
// red border so a human watching the run can spot it.
func (s *Session) ScrollIntoView(ctx context.Context, xpath string) (err error) {
	const op = "ScrollIntoView"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.XPath, xpath))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("xpath", xpath))
	defer func() {
		step.End(err)
	}()

	if !s.ready {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	script := fmt.Sprintf(`(() => {
		const node = document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!node) {
			return false;
		}
		node.scrollIntoView({behavior: 'smooth', block: 'center'});
		node.style.border = '3px solid red';
		return true;
	})()`, xpath)

	result, err := s.page.Evaluate(script)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "scroll_failed",
			apperr.MetaStage:  apperr.StageExecution,
			apperr.MetaXPath:  xpath,
		})
	}

	if found, ok := result.(bool); ok && !found {
		return apperr.Wrap(op, apperr.CodeNotFound, fmt.Errorf("no node for xpath: %s", xpath), map[string]any{
			apperr.MetaReason: "element_not_found",
			apperr.MetaXPath:  xpath,
		})
	}

	return nil
}

func (s *Session) IsReady() bool {
	return s.ready
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}

	return ""
}

func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}

	return false
}

func getSegments(m map[string]interface{}) []PathSegment {
	raw, ok := m["path"].([]interface{})
	if !ok {
		return nil
	}

	segments := make([]PathSegment, 0, len(raw))

	for _, item := range raw {
		seg, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		index := 0
		switch v := seg["index"].(type) {
		case float64:
			index = int(v)
		case int:
			index = v
		}

		segments = append(segments, PathSegment{
			Tag:   getString(seg, "tag"),
			Index: index,
		})
	}

	return segments
}
