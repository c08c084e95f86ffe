package config

import (
	"fmt"
	"time"

	"ui-harness/internal/entity"
	"ui-harness/pkg/logg"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const serviceName = "ui-harness"

type Config struct {
	AppConfig     *AppConfig     `envconfig:"APP"`
	LogConfig     *LogConfig     `envconfig:"LOG"`
	BrowserConfig *BrowserConfig `envconfig:"BROWSER"`
	WaitConfig    *WaitConfig    `envconfig:"WAIT"`
	AssertConfig  *AssertConfig  `envconfig:"ASSERT"`
	HarnessConfig *HarnessConfig `envconfig:"HARNESS"`
}

type AppConfig struct {
	Debug bool `envconfig:"DEBUG" default:"false"`
}

type LogConfig struct {
	Level     string `envconfig:"LEVEL" default:"info"`
	Format    string `envconfig:"FORMAT" default:"console"`
	File      string `envconfig:"FILE"`
	MaxSizeMB int    `envconfig:"MAX_SIZE_MB" default:"50"`
}

type BrowserConfig struct {
	Headless      bool          `envconfig:"HEADLESS" default:"true"`
	SlowMo        time.Duration `envconfig:"SLOW_MO" default:"0s"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"30s"`
	UserDataDir   string        `envconfig:"USER_DATA_DIR"`
	ScreenshotDir string        `envconfig:"SCREENSHOT_DIR" default:"./screenshots"`
}

type WaitConfig struct {
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"10s"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"100ms"`
}

type AssertConfig struct {
	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"2"`
	Delay       time.Duration `envconfig:"DELAY" default:"500ms"`
}

type HarnessConfig struct {
	BaseURL   string   `envconfig:"BASE_URL" default:"https://demoqa.com"`
	Scenarios []string `envconfig:"SCENARIOS"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	return &conf, nil
}

func (c *Config) WaitPolicy() entity.WaitPolicy {
	return entity.WaitPolicy{
		Timeout:      c.WaitConfig.Timeout,
		PollInterval: c.WaitConfig.PollInterval,
	}.Normalize()
}

func (c *Config) RetryPolicy() entity.RetryPolicy {
	return entity.RetryPolicy{
		MaxAttempts: c.AssertConfig.MaxAttempts,
		Delay:       c.AssertConfig.Delay,
	}
}

func (c *Config) Logging() logg.Config {
	level := c.LogConfig.Level
	if c.AppConfig.Debug {
		level = "debug"
	}

	return logg.Config{
		Level:       level,
		Format:      c.LogConfig.Format,
		File:        c.LogConfig.File,
		MaxSizeMB:   c.LogConfig.MaxSizeMB,
		MaxBackups:  3,
		ServiceName: serviceName,
	}
}

func (c *Config) ServiceName() string {
	return serviceName
}
