// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                    = "0.0.0.0"
	DefaultPort                    = 8080
	DefaultLogLevel                = "INFO"
	DefaultCORSOrigins             = "*"
	DefaultGenerationTimeout       = 30 * time.Second
	DefaultGenerationMaxRetries    = 2
	DefaultGenerationInitialDelay  = 2 * time.Second
	DefaultGenerationBackoffFactor = 2.0
	DefaultEndpointTimeout         = 60 * time.Second
	DefaultEndpointMaxRetries      = 3
	DefaultRedisChannel            = "curator:invalidate"
	DefaultProgressLogInterval     = 5 * time.Second
	DefaultPlatforms               = "facebook,instagram,linkedin,twitter"
	databaseFile                   = "curator.db"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// GenerationAPI configures the remote content generation service and how
// rate-limited calls to it are retried.
type GenerationAPI struct {
	baseURL       string
	apiKey        string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewGenerationAPI creates a GenerationAPI with defaults.
func NewGenerationAPI() GenerationAPI {
	return GenerationAPI{
		timeout:       DefaultGenerationTimeout,
		maxRetries:    DefaultGenerationMaxRetries,
		initialDelay:  DefaultGenerationInitialDelay,
		backoffFactor: DefaultGenerationBackoffFactor,
	}
}

// BaseURL returns the API base URL. Empty means this process serves the
// generation endpoints itself.
func (g GenerationAPI) BaseURL() string { return g.baseURL }

// APIKey returns the API key.
func (g GenerationAPI) APIKey() string { return g.apiKey }

// Timeout returns the per-request timeout.
func (g GenerationAPI) Timeout() time.Duration { return g.timeout }

// MaxRetries returns how many times a rate-limited call is retried.
func (g GenerationAPI) MaxRetries() int { return g.maxRetries }

// InitialDelay returns the wait before the first retry.
func (g GenerationAPI) InitialDelay() time.Duration { return g.initialDelay }

// BackoffFactor returns the delay multiplier between retries.
func (g GenerationAPI) BackoffFactor() float64 { return g.backoffFactor }

// IsConfigured returns true if a remote base URL is set.
func (g GenerationAPI) IsConfigured() bool { return g.baseURL != "" }

// GenerationAPIOption is a functional option for GenerationAPI.
type GenerationAPIOption func(*GenerationAPI)

// WithGenerationBaseURL sets the base URL.
func WithGenerationBaseURL(url string) GenerationAPIOption {
	return func(g *GenerationAPI) { g.baseURL = strings.TrimRight(url, "/") }
}

// WithGenerationAPIKey sets the API key.
func WithGenerationAPIKey(key string) GenerationAPIOption {
	return func(g *GenerationAPI) { g.apiKey = key }
}

// WithGenerationTimeout sets the request timeout.
func WithGenerationTimeout(d time.Duration) GenerationAPIOption {
	return func(g *GenerationAPI) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithGenerationRetries sets the retry schedule.
func WithGenerationRetries(maxRetries int, initialDelay time.Duration, backoffFactor float64) GenerationAPIOption {
	return func(g *GenerationAPI) {
		if maxRetries >= 0 {
			g.maxRetries = maxRetries
		}
		if initialDelay > 0 {
			g.initialDelay = initialDelay
		}
		if backoffFactor >= 1 {
			g.backoffFactor = backoffFactor
		}
	}
}

// NewGenerationAPIWithOptions creates a GenerationAPI with options.
func NewGenerationAPIWithOptions(opts ...GenerationAPIOption) GenerationAPI {
	g := NewGenerationAPI()
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// Endpoint configures an OpenAI-compatible text generation endpoint.
type Endpoint struct {
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
	maxRetries int
}

// NewEndpoint creates a new Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		timeout:    DefaultEndpointTimeout,
		maxRetries: DefaultEndpointMaxRetries,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// IsConfigured returns true if the endpoint can be called.
func (e Endpoint) IsConfigured() bool {
	return e.apiKey != "" || e.baseURL != ""
}

// EndpointOption is a functional option for Endpoint.
type EndpointOption func(*Endpoint)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithModel sets the model.
func WithModel(model string) EndpointOption {
	return func(e *Endpoint) { e.model = model }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.timeout = d }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) EndpointOption {
	return func(e *Endpoint) { e.maxRetries = n }
}

// NewEndpointWithOptions creates an Endpoint with functional options.
func NewEndpointWithOptions(opts ...EndpointOption) Endpoint {
	e := NewEndpoint()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Redis configures the shared invalidation channel.
type Redis struct {
	addr    string
	channel string
}

// NewRedis creates a Redis config for addr. An empty channel selects the
// default one.
func NewRedis(addr, channel string) Redis {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return Redis{addr: addr, channel: channel}
}

// Addr returns the server address.
func (r Redis) Addr() string { return r.addr }

// Channel returns the pub/sub channel.
func (r Redis) Channel() string { return r.channel }

// IsConfigured returns true if an address is set.
func (r Redis) IsConfigured() bool { return r.addr != "" }

// AppConfig holds the main application configuration.
type AppConfig struct {
	host                string
	port                int
	dataDir             string
	dbURL               string
	logLevel            string
	logFormat           LogFormat
	apiKeys             []string
	corsOrigins         []string
	generationAPI       GenerationAPI
	textEndpoint        *Endpoint
	redis               Redis
	platforms           []Platform
	progressLogInterval time.Duration
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".curator"
	}
	return filepath.Join(home, ".curator")
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:                DefaultHost,
		port:                DefaultPort,
		dataDir:             dataDir,
		dbURL:               "sqlite:///" + filepath.Join(dataDir, databaseFile),
		logLevel:            DefaultLogLevel,
		logFormat:           LogFormatPretty,
		apiKeys:             []string{},
		corsOrigins:         []string{DefaultCORSOrigins},
		generationAPI:       NewGenerationAPI(),
		redis:               NewRedis("", ""),
		platforms:           ParsePlatforms(DefaultPlatforms),
		progressLogInterval: DefaultProgressLogInterval,
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the keys accepted on write endpoints.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// CORSOrigins returns the allowed CORS origins.
func (c AppConfig) CORSOrigins() []string {
	origins := make([]string, len(c.corsOrigins))
	copy(origins, c.corsOrigins)
	return origins
}

// GenerationAPI returns the generation API config.
func (c AppConfig) GenerationAPI() GenerationAPI { return c.generationAPI }

// TextEndpoint returns the text generation endpoint, or nil if unset.
func (c AppConfig) TextEndpoint() *Endpoint { return c.textEndpoint }

// Redis returns the Redis config.
func (c AppConfig) Redis() Redis { return c.redis }

// Platforms returns the platforms content is generated for.
func (c AppConfig) Platforms() []Platform {
	platforms := make([]Platform, len(c.platforms))
	copy(platforms, c.platforms)
	return platforms
}

// ProgressLogInterval returns how often batch progress is logged.
func (c AppConfig) ProgressLogInterval() time.Duration { return c.progressLogInterval }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		// Keep the default database inside the data directory.
		if c.dbURL == "" || strings.HasSuffix(c.dbURL, databaseFile) {
			c.dbURL = "sqlite:///" + filepath.Join(dir, databaseFile)
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins []string) AppConfigOption {
	return func(c *AppConfig) {
		if len(origins) > 0 {
			c.corsOrigins = append([]string(nil), origins...)
		}
	}
}

// WithGenerationAPI sets the generation API config.
func WithGenerationAPI(g GenerationAPI) AppConfigOption {
	return func(c *AppConfig) { c.generationAPI = g }
}

// WithTextEndpoint sets the text generation endpoint.
func WithTextEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.textEndpoint = &e }
}

// WithRedis sets the Redis config.
func WithRedis(r Redis) AppConfigOption {
	return func(c *AppConfig) { c.redis = r }
}

// WithPlatforms sets the platform list. An empty list keeps the current one.
func WithPlatforms(platforms []Platform) AppConfigOption {
	return func(c *AppConfig) {
		if len(platforms) > 0 {
			c.platforms = append([]Platform(nil), platforms...)
		}
	}
}

// WithProgressLogInterval sets how often batch progress is logged.
func WithProgressLogInterval(d time.Duration) AppConfigOption {
	return func(c *AppConfig) {
		if d > 0 {
			c.progressLogInterval = d
		}
	}
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Secrets are shown as counts or masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("data_dir", c.dataDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("generation_api", c.generationAPIURL()),
		slog.String("text_model", c.textModel()),
		slog.Bool("redis", c.redis.IsConfigured()),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.Int("platforms", len(c.platforms)),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

func (c AppConfig) generationAPIURL() string {
	if !c.generationAPI.IsConfigured() {
		return "(local)"
	}
	return c.generationAPI.BaseURL()
}

func (c AppConfig) textModel() string {
	if c.textEndpoint == nil {
		return "(not configured)"
	}
	return c.textEndpoint.Model()
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	return splitList(s)
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
