package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig     *AppConfig
	LLMConfig     *LLMConfig
	BrowserConfig *BrowserConfig
}

type AppConfig struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	Debug     bool   `envconfig:"DEBUG" default:"false"`
	TargetURL string `envconfig:"TARGET_URL" default:""`
}

type LLMConfig struct {
	APIKey   string `envconfig:"OPENROUTER_API_KEY" required:"true"`
	BaseURL  string `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	Model    string `envconfig:"LLM_MODEL" default:"deepseek/deepseek-r1-distill-llama-70b"`
	SiteURL  string `envconfig:"SITE_URL" default:""`
	SiteName string `envconfig:"SITE_NAME" default:""`
}

type BrowserConfig struct {
	DetectHeadless bool          `envconfig:"BROWSER_DETECT_HEADLESS" default:"true"`
	SlowMo         int           `envconfig:"BROWSER_SLOW_MO" default:"0"`
	NavTimeout     int           `envconfig:"BROWSER_NAV_TIMEOUT" default:"30000"`
	WaitTimeout    int           `envconfig:"BROWSER_WAIT_TIMEOUT" default:"10000"`
	ViewportWidth  int           `envconfig:"BROWSER_VIEWPORT_WIDTH" default:"1280"`
	ViewportHeight int           `envconfig:"BROWSER_VIEWPORT_HEIGHT" default:"720"`
	ScreenshotPath string        `envconfig:"SCREENSHOT_PATH" default:"page_screenshot.png"`
	HoldOpen       time.Duration `envconfig:"BROWSER_HOLD_OPEN" default:"0s"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	return &conf, nil
}
