package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDefaults(t *testing.T) {
	conf, err := GetConfig()
	require.NoError(t, err)

	assert.False(t, conf.AppConfig.Debug)
	assert.Equal(t, "info", conf.LogConfig.Level)
	assert.True(t, conf.BrowserConfig.Headless)
	assert.Equal(t, 30*time.Second, conf.BrowserConfig.Timeout)
	assert.Equal(t, "https://demoqa.com", conf.HarnessConfig.BaseURL)
	assert.Empty(t, conf.HarnessConfig.Scenarios)

	policy := conf.WaitPolicy()
	assert.Equal(t, 10*time.Second, policy.Timeout)
	assert.Equal(t, 100*time.Millisecond, policy.PollInterval)

	retry := conf.RetryPolicy()
	assert.Equal(t, 2, retry.Attempts())
	assert.Equal(t, 500*time.Millisecond, retry.Delay)
}

func TestGetConfigFromEnv(t *testing.T) {
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FILE", "/tmp/harness.log")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("BROWSER_SLOW_MO", "250ms")
	t.Setenv("WAIT_TIMEOUT", "3s")
	t.Setenv("WAIT_POLL_INTERVAL", "50ms")
	t.Setenv("ASSERT_MAX_ATTEMPTS", "4")
	t.Setenv("HARNESS_SCENARIOS", "radio-button,smoke")

	conf, err := GetConfig()
	require.NoError(t, err)

	assert.False(t, conf.BrowserConfig.Headless)
	assert.Equal(t, 250*time.Millisecond, conf.BrowserConfig.SlowMo)
	assert.Equal(t, 3*time.Second, conf.WaitPolicy().Timeout)
	assert.Equal(t, 50*time.Millisecond, conf.WaitPolicy().PollInterval)
	assert.Equal(t, 4, conf.RetryPolicy().Attempts())
	assert.Equal(t, []string{"radio-button", "smoke"}, conf.HarnessConfig.Scenarios)

	logging := conf.Logging()
	assert.Equal(t, "debug", logging.Level)
	assert.Equal(t, "/tmp/harness.log", logging.File)
	assert.Equal(t, "ui-harness", logging.ServiceName)
}

func TestGetConfigRejectsMalformedValues(t *testing.T) {
	t.Setenv("WAIT_TIMEOUT", "soon")

	_, err := GetConfig()

	assert.Error(t, err)
}
