package ai

import (
	"context"
	"net/http"

	"webtest-pilot/internal/config"
	"webtest-pilot/internal/entity"
	"webtest-pilot/pkg/apperr"
	"webtest-pilot/pkg/logg"
	"webtest-pilot/pkg/tracing"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	generatorName = "TestGenerator"
	aiTracer      = "ai.client"
)

// Client synthesizes a test case from an element inventory and a user intent
// via the OpenRouter chat-completions API. OpenRouter speaks the OpenAI wire
// protocol, so the call goes through go-openai with a custom base URL.
type Client struct {
	config *config.Config
	logger *zap.Logger
	tracer trace.Tracer
	api    *openai.Client
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewClient(params Params) *Client {
	llm := params.Config.LLMConfig

	apiConfig := openai.DefaultConfig(llm.APIKey)
	apiConfig.BaseURL = llm.BaseURL
	apiConfig.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			siteURL:  llm.SiteURL,
			siteName: llm.SiteName,
		},
	}

	return &Client{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, generatorName)),
		tracer: otel.Tracer(aiTracer),
		api:    openai.NewClientWithConfig(apiConfig),
	}
}

// attributionTransport sets the OpenRouter attribution headers on every
// request; go-openai has no hook for extra headers.
type attributionTransport struct {
	base     http.RoundTripper
	siteURL  string
	siteName string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL != "" {
		req.Header.Set("HTTP-Referer", t.siteURL)
	}

	if t.siteName != "" {
		req.Header.Set("X-Title", t.siteName)
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(req)
}

func (c *Client) Generate(ctx context.Context, inventory *entity.Inventory, intent, screenshotPath string) (testCase *entity.TestCase, err error) {
	const op = "Generate"
	logger := c.logger.With(zap.String(logg.Operation, op), zap.String(logg.Model, c.config.LLMConfig.Model))

	ctx, step := tracing.StartSpan(ctx, c.tracer, logger, op,
		attribute.String("model", c.config.LLMConfig.Model),
		attribute.Int("elements_count", inventory.Len()))
	defer func() {
		step.End(err)
	}()

	prompt := buildPrompt(inventory, intent, screenshotPath)

	logger.Debug("Sending generation prompt", zap.Int("prompt_len", len(prompt)))
	step.AddEvent("sending chat completion request")

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.LLMConfig.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeGenerationFailed, err, map[string]any{
			apperr.MetaReason: "chat_completion_failed",
			apperr.MetaStage:  apperr.StageGeneration,
		})
	}

	if len(resp.Choices) == 0 {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeGenerationFailed, "empty_choices")
	}

	content := resp.Choices[0].Message.Content

	step.AddEvent("parsing model response")

	testCase, err = parseTestCase(content)
	if err != nil {
		logger.Warn("Model returned an unusable test case", zap.String("content", content))

		return nil, err
	}

	step.AddEvent("test case validated")
	logger.Info("Generated test case", zap.Int("steps", len(testCase.Steps)))

	return testCase, nil
}
