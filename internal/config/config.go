package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "GATEWAY_"

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Razorpay RazorpayConfig `koanf:"razorpay"`
	Callback CallbackConfig `koanf:"callback"`
	Logger   LoggerConfig   `koanf:"logger"`
	Worker   WorkerConfig   `koanf:"worker"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
	AdminToken   string        `koanf:"admin_token" validate:"required,min=16"`

	// PaymentTimeout bounds make_payment, which waits on Razorpay and then on
	// the callback. Config.PaymentTimeout gives the effective value.
	PaymentTimeout time.Duration `koanf:"payment_timeout"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type RedisConfig struct {
	Addr       string        `koanf:"addr" validate:"required"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	MessageTTL time.Duration `koanf:"message_ttl" validate:"required"`
}

// RazorpayConfig holds the checkout page settings. Credentials are not read
// from the environment: they are entered through the enable endpoint and
// persisted with the integration service.
type RazorpayConfig struct {
	BrandImage string `koanf:"brand_image"`
}

// CallbackConfig points at the system that owns the referenced documents.
// With no URL, authorized payments are not reported anywhere.
type CallbackConfig struct {
	URL     string        `koanf:"url" validate:"omitempty,url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
}

type WorkerConfig struct {
	Interval  time.Duration `koanf:"interval" validate:"required"`
	BatchSize int           `koanf:"batch_size" validate:"required"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=json text"`
}

const (
	DefaultBrandImage      = "./assets/erpnext/images/erp-icon.svg"
	DefaultCallbackTimeout = 10 * time.Second

	// GatewayCallAllowance is the time make_payment budgets for fetching the
	// payment from Razorpay before the callback runs.
	GatewayCallAllowance = 15 * time.Second
)

// PaymentTimeout is the deadline for make_payment. It is never shorter than
// the gateway fetch plus the callback, nor than the general read timeout.
func (c *Config) PaymentTimeout() time.Duration {
	timeout := c.Callback.Timeout + GatewayCallAllowance
	if c.Server.PaymentTimeout > timeout {
		timeout = c.Server.PaymentTimeout
	}
	if c.Server.ReadTimeout > timeout {
		timeout = c.Server.ReadTimeout
	}
	return timeout
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if mainConfig.Razorpay.BrandImage == "" {
		mainConfig.Razorpay.BrandImage = DefaultBrandImage
	}
	if mainConfig.Callback.Timeout <= 0 {
		mainConfig.Callback.Timeout = DefaultCallbackTimeout
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
