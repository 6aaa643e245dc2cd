package curator

import (
	"io"
	"log/slog"
	"time"

	"github.com/helixml/curator/application/service"
	"github.com/helixml/curator/domain/notify"
	"github.com/helixml/curator/infrastructure/generationapi"
	"github.com/helixml/curator/infrastructure/provider"
	"github.com/helixml/curator/infrastructure/tracking"
	"github.com/helixml/curator/internal/config"
)

// databaseType identifies the database.
type databaseType int

const (
	databaseUnset databaseType = iota
	databaseSQLite
	databasePostgres
	databaseURL
)

// defaultNotificationLimit bounds the in-memory notification history.
const defaultNotificationLimit = 100

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	database            databaseType
	dbPath              string
	dbDSN               string
	dataDir             string
	logger              *slog.Logger
	apiKeys             []string
	textProvider        provider.TextGenerator
	platforms           []service.PlatformPrompt
	generationURL       string
	generationOptions   []generationapi.Option
	generationAPI       service.GenerationAPI
	retryPolicy         service.RetryPolicy
	redisAddr           string
	redisChannel        string
	notifiers           []notify.Notifier
	notificationLimit   int
	reporters           []tracking.Reporter
	progressLogInterval time.Duration
	closers             []io.Closer
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:             config.DefaultDataDir(),
		retryPolicy:         service.DefaultRetryPolicy(),
		redisChannel:        config.DefaultRedisChannel,
		notificationLimit:   defaultNotificationLimit,
		progressLogInterval: config.DefaultProgressLogInterval,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.database = databaseSQLite
		c.dbPath = path
	}
}

// WithPostgres configures PostgreSQL as the database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.database = databasePostgres
		c.dbDSN = dsn
	}
}

// WithDatabaseURL configures the database from a URL such as
// sqlite:///path/to.db or postgres://user@host/db.
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		if url == "" {
			return
		}
		c.database = databaseURL
		c.dbDSN = url
	}
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithAPIKeys sets the API keys for HTTP API authentication.
func WithAPIKeys(keys ...string) Option {
	return func(c *clientConfig) {
		c.apiKeys = keys
	}
}

// WithOpenAI sets OpenAI as the text provider for server-side generation.
func WithOpenAI(apiKey string) Option {
	return WithOpenAIConfig(provider.OpenAIConfig{APIKey: apiKey})
}

// WithOpenAIConfig sets an OpenAI-compatible text provider with custom configuration.
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) {
		c.textProvider = provider.NewOpenAIProviderFromConfig(cfg)
	}
}

// WithTextProvider sets a custom text generation provider.
func WithTextProvider(p provider.TextGenerator) Option {
	return func(c *clientConfig) {
		c.textProvider = p
	}
}

// WithPlatforms sets the platforms drafted by server-side generation.
// Defaults to service.DefaultPlatformPrompts.
func WithPlatforms(platforms ...service.PlatformPrompt) Option {
	return func(c *clientConfig) {
		c.platforms = platforms
	}
}

// WithGenerationAPI reads approved topics from, and requests generation
// at, a remote API. Without it the client serves both from its own
// database and text provider.
func WithGenerationAPI(baseURL string, opts ...generationapi.Option) Option {
	return func(c *clientConfig) {
		c.generationURL = baseURL
		c.generationOptions = opts
	}
}

// WithGenerationClient sets a custom GenerationAPI implementation. It takes
// precedence over WithGenerationAPI.
func WithGenerationClient(api service.GenerationAPI) Option {
	return func(c *clientConfig) {
		c.generationAPI = api
	}
}

// WithRetryPolicy sets how rate-limited generation calls are retried.
func WithRetryPolicy(p service.RetryPolicy) Option {
	return func(c *clientConfig) {
		c.retryPolicy = p
	}
}

// WithRedis shares cache invalidations with other instances over Redis
// pub/sub. An empty channel keeps the default.
func WithRedis(addr, channel string) Option {
	return func(c *clientConfig) {
		c.redisAddr = addr
		if channel != "" {
			c.redisChannel = channel
		}
	}
}

// WithNotifier adds a sink for user-facing notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(c *clientConfig) {
		c.notifiers = append(c.notifiers, n)
	}
}

// WithNotificationLimit sets how many notifications the client keeps.
// Values <= 0 are ignored.
func WithNotificationLimit(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.notificationLimit = n
		}
	}
}

// WithReporters adds reporters that receive the progress of every batch.
func WithReporters(reporters ...tracking.Reporter) Option {
	return func(c *clientConfig) {
		c.reporters = append(c.reporters, reporters...)
	}
}

// WithProgressLogInterval sets how often an in-flight batch is logged.
// Values <= 0 are ignored.
func WithProgressLogInterval(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.progressLogInterval = d
		}
	}
}

// WithCloser registers a resource to be closed when the Client shuts down.
func WithCloser(c io.Closer) Option {
	return func(cfg *clientConfig) {
		cfg.closers = append(cfg.closers, c)
	}
}
