package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "copilot"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv          = "COPILOT_APP_ENV"
	EnvPort            = "COPILOT_APP_PORT"
	EnvCommerceBaseURL = "COPILOT_COMMERCE_BASE_URL"
	EnvRedisURL        = "COPILOT_REDIS_URL"
	EnvSessionSecret   = "COPILOT_SESSION_SECRET"
)

type Config struct {
	App      AppConfig
	Commerce CommerceConfig
	Redis    RedisConfig
	Session  SessionConfig
	Dispatch DispatchConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COPILOT_APP_ENV" required:"true"`
	Port         string `envconfig:"COPILOT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"COPILOT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COPILOT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CommerceConfig points the gateway client at the platform's GraphQL endpoint.
type CommerceConfig struct {
	BaseURL        string        `envconfig:"COPILOT_COMMERCE_BASE_URL" required:"true"`
	APIToken       string        `envconfig:"COPILOT_COMMERCE_API_TOKEN"`
	RequestTimeout time.Duration `envconfig:"COPILOT_COMMERCE_REQUEST_TIMEOUT" default:"10s"`
	CountryISOCode string        `envconfig:"COPILOT_COMMERCE_COUNTRY_ISO_CODE" default:"IN"`
}

type RedisConfig struct {
	URL          string        `envconfig:"COPILOT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"COPILOT_REDIS_ADDR"`
	Password     string        `envconfig:"COPILOT_REDIS_PASSWORD"`
	DB           int           `envconfig:"COPILOT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COPILOT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COPILOT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COPILOT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COPILOT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"COPILOT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig verifies the storefront session tokens minted by the host
// platform; the copilot never issues tokens itself.
type SessionConfig struct {
	Secret string `envconfig:"COPILOT_SESSION_SECRET" required:"true"`
	Issuer string `envconfig:"COPILOT_SESSION_ISSUER" default:"storefront"`
}

// DispatchConfig bounds a single action invocation.
type DispatchConfig struct {
	ActionTimeout time.Duration `envconfig:"COPILOT_ACTION_TIMEOUT" default:"20s"`
	MaxBatchSize  int           `envconfig:"COPILOT_MAX_BATCH_SIZE" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"COPILOT_CORS_ALLOWED_ORIGINS" default:"*"`
}
