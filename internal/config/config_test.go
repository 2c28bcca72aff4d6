package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/DanielPopoola/razorpay-integration/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	env := map[string]string{
		"GATEWAY_PRIMARY__ENV":                   "test",
		"GATEWAY_SERVER__PORT":                   "8080",
		"GATEWAY_SERVER__READ_TIMEOUT":           "10s",
		"GATEWAY_SERVER__WRITE_TIMEOUT":          "10s",
		"GATEWAY_SERVER__IDLE_TIMEOUT":           "60s",
		"GATEWAY_SERVER__ADMIN_TOKEN":            "0123456789abcdef",
		"GATEWAY_DATABASE__HOST":                 "localhost",
		"GATEWAY_DATABASE__PORT":                 "5432",
		"GATEWAY_DATABASE__USER":                 "razorpay",
		"GATEWAY_DATABASE__PASSWORD":             "p@ss word",
		"GATEWAY_DATABASE__NAME":                 "integrations",
		"GATEWAY_DATABASE__SSL_MODE":             "disable",
		"GATEWAY_DATABASE__MAX_OPEN_CONNS":       "10",
		"GATEWAY_DATABASE__MAX_IDLE_CONNS":       "2",
		"GATEWAY_DATABASE__CONN_MAX_LIFETIME":    "1h",
		"GATEWAY_DATABASE__CONN_MAX_IDLE_TIME":   "30m",
		"GATEWAY_REDIS__ADDR":                    "localhost:6379",
		"GATEWAY_REDIS__MESSAGE_TTL":             "1h",
		"GATEWAY_WORKER__INTERVAL":               "5m",
		"GATEWAY_WORKER__BATCH_SIZE":             "50",
		"GATEWAY_LOGGER__LEVEL":                  "debug",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, time.Hour, cfg.Redis.MessageTTL)
	assert.Equal(t, 5*time.Minute, cfg.Worker.Interval)
	assert.Equal(t, 50, cfg.Worker.BatchSize)
	assert.Equal(t, config.DefaultBrandImage, cfg.Razorpay.BrandImage)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GATEWAY_SERVER__ADMIN_TOKEN", "")

	_, err := config.LoadConfig()
	require.Error(t, err)
}

func TestDatabaseConfig_ConnStringEscapesCredentials(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", Port: 5432, User: "razorpay", Password: "p@ss word",
		Name: "integrations", SSLMode: "disable",
	}

	assert.Equal(t, "postgres://razorpay:p%40ss%20word@db:5432/integrations?sslmode=disable", cfg.ConnString())

	pgxCfg, err := cfg.PgxConfig()
	require.NoError(t, err)
	assert.Equal(t, "p@ss word", pgxCfg.ConnConfig.Password)
}

func TestLoggerConfig_Level(t *testing.T) {
	logger := config.LoggerConfig{Level: "warn"}.NewLogger()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))
}

func TestLoadConfig_Callback(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GATEWAY_CALLBACK__URL", "https://erp.example.com/api/payments/authorized")
	t.Setenv("GATEWAY_CALLBACK__TIMEOUT", "3s")
	t.Setenv("GATEWAY_RAZORPAY__BRAND_IMAGE", "/files/logo.png")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://erp.example.com/api/payments/authorized", cfg.Callback.URL)
	assert.Equal(t, 3*time.Second, cfg.Callback.Timeout)
	assert.Equal(t, "/files/logo.png", cfg.Razorpay.BrandImage)

	t.Setenv("GATEWAY_CALLBACK__URL", "not a url")
	_, err = config.LoadConfig()
	require.Error(t, err)
}

func TestConfig_PaymentTimeout(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCallbackTimeout, cfg.Callback.Timeout)
	assert.Equal(t, config.DefaultCallbackTimeout+config.GatewayCallAllowance, cfg.PaymentTimeout())
	assert.Greater(t, cfg.PaymentTimeout(), cfg.Server.ReadTimeout)

	t.Setenv("GATEWAY_CALLBACK__TIMEOUT", "45s")
	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second+config.GatewayCallAllowance, cfg.PaymentTimeout())

	t.Setenv("GATEWAY_SERVER__PAYMENT_TIMEOUT", "2m")
	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.PaymentTimeout())

	cfg.Server.ReadTimeout = 5 * time.Minute
	assert.Equal(t, 5*time.Minute, cfg.PaymentTimeout())
}
