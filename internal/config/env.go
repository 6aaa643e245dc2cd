package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., GENERATION_API_BASE_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.curator
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/curator.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of keys accepted on write endpoints.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// CORSOrigins is a comma-separated list of allowed origins.
	// Env: CORS_ORIGINS (default: *)
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`

	// Generation configures the remote generation API.
	Generation GenerationEnv `envconfig:"GENERATION"`

	// TextEndpoint configures the text generation provider.
	TextEndpoint EndpointEnv `envconfig:"TEXT_ENDPOINT"`

	// Redis configures the shared invalidation channel.
	Redis RedisEnv `envconfig:"REDIS"`

	// Platforms is a comma-separated list of platform names.
	// Env: PLATFORMS (default: facebook,instagram,linkedin,twitter)
	Platforms string `envconfig:"PLATFORMS" default:"facebook,instagram,linkedin,twitter"`

	// PlatformsFile is a YAML file with per-platform prompts. It overrides
	// PLATFORMS when set.
	// Env: PLATFORMS_FILE
	PlatformsFile string `envconfig:"PLATFORMS_FILE"`

	// ProgressLogInterval is the batch progress logging interval in seconds.
	// Env: PROGRESS_LOG_INTERVAL (default: 5)
	ProgressLogInterval float64 `envconfig:"PROGRESS_LOG_INTERVAL" default:"5"`
}

// GenerationEnv holds environment configuration for the generation API.
type GenerationEnv struct {
	// APIBaseURL is the base URL of the generation API.
	// Env: GENERATION_API_BASE_URL
	APIBaseURL string `envconfig:"API_BASE_URL"`

	// APIKey is sent as X-API-KEY and as a bearer token.
	// Env: GENERATION_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// APITimeout is the request timeout in seconds.
	// Env: GENERATION_API_TIMEOUT (default: 30)
	APITimeout float64 `envconfig:"API_TIMEOUT" default:"30"`

	// MaxRetries is how often a rate-limited call is retried.
	// Env: GENERATION_MAX_RETRIES (default: 2)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"2"`

	// InitialDelay is the first retry delay in seconds.
	// Env: GENERATION_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry delay multiplier.
	// Env: GENERATION_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// EndpointEnv holds environment configuration for an AI endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier.
	// Env: *_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: *_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: *_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`
}

// RedisEnv holds environment configuration for Redis.
type RedisEnv struct {
	// Addr is the Redis address (host:port).
	// Env: REDIS_ADDR
	Addr string `envconfig:"ADDR"`

	// Channel is the pub/sub channel for invalidations.
	// Env: REDIS_CHANNEL (default: curator:invalidate)
	Channel string `envconfig:"CHANNEL" default:"curator:invalidate"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "CURATOR" would require CURATOR_DATA_DIR instead of DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig. The platforms file is not
// read here; see LoadConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		cfg = applyOption(cfg, WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}
	cfg = applyOption(cfg, WithCORSOrigins(splitList(e.CORSOrigins)))

	cfg = applyOption(cfg, WithGenerationAPI(e.Generation.ToGenerationAPI()))

	if e.TextEndpoint.IsConfigured() {
		cfg = applyOption(cfg, WithTextEndpoint(e.TextEndpoint.ToEndpoint()))
	}

	cfg = applyOption(cfg, WithRedis(NewRedis(e.Redis.Addr, e.Redis.Channel)))
	cfg = applyOption(cfg, WithPlatforms(ParsePlatforms(e.Platforms)))
	cfg = applyOption(cfg, WithProgressLogInterval(seconds(e.ProgressLogInterval)))

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// ToGenerationAPI converts GenerationEnv to GenerationAPI.
func (g GenerationEnv) ToGenerationAPI() GenerationAPI {
	return NewGenerationAPIWithOptions(
		WithGenerationBaseURL(g.APIBaseURL),
		WithGenerationAPIKey(g.APIKey),
		WithGenerationTimeout(seconds(g.APITimeout)),
		WithGenerationRetries(g.MaxRetries, seconds(g.InitialDelay), g.BackoffFactor),
	)
}

// IsConfigured returns true if the endpoint has a key or a base URL.
func (e EndpointEnv) IsConfigured() bool {
	return e.APIKey != "" || e.BaseURL != ""
}

// ToEndpoint converts EndpointEnv to Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	opts := []EndpointOption{
		WithTimeout(seconds(e.Timeout)),
		WithMaxRetries(e.MaxRetries),
	}
	if e.BaseURL != "" {
		opts = append(opts, WithBaseURL(e.BaseURL))
	}
	if e.Model != "" {
		opts = append(opts, WithModel(e.Model))
	}
	if e.APIKey != "" {
		opts = append(opts, WithAPIKey(e.APIKey))
	}
	return NewEndpointWithOptions(opts...)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
