// Package curator provides a library for approving generated social media
// content and archiving it in a file manager.
//
// Curator moves drafted content to approved, lazily creating the file
// manager folders (topic, platform) and image files that archive it. It
// also reads approved topics from a generation API and asks it to draft
// new content, retrying rate-limited calls with exponential backoff.
//
// Basic usage:
//
//	client, err := curator.New(
//	    curator.WithSQLite(".curator/curator.db"),
//	    curator.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Approve a batch of drafts
//	progress, err := client.Approvals.ApproveByIDs(ctx, []string{"c1", "c2"})
//
//	// Draft content for an approved topic
//	result, err := client.ApprovedTopics.GenerateContentFromTopic(ctx, topicID)
package curator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/helixml/curator/application/service"
	"github.com/helixml/curator/domain/approval"
	domaininvalidation "github.com/helixml/curator/domain/invalidation"
	domainnotify "github.com/helixml/curator/domain/notify"
	"github.com/helixml/curator/infrastructure/generationapi"
	"github.com/helixml/curator/infrastructure/invalidation"
	"github.com/helixml/curator/infrastructure/notify"
	"github.com/helixml/curator/infrastructure/persistence"
	"github.com/helixml/curator/infrastructure/tracking"
	"github.com/helixml/curator/internal/config"
	"github.com/helixml/curator/internal/database"
)

// Client is the main entry point for the curator library.
//
// Access services via struct fields:
//
//	client.Approvals.ApproveByIDs(ctx, ids)
//	client.Approvals.Find(ctx, content.WithStatus(content.StatusDraft))
//	client.ApprovedTopics.Fetch(ctx)
//	client.Catalog.FileTopics(ctx)
type Client struct {
	Approvals      *service.Approval
	ApprovedTopics *service.ApprovedTopics
	Catalog        *service.Catalog
	Resolver       *service.Resolver

	// Generator drafts content with the configured text provider. It is
	// nil when no text provider is configured.
	Generator *service.Generator

	db        database.Database
	bus       domaininvalidation.Bus
	redis     *invalidation.Redis
	latest    *tracking.Latest
	recorder  *notify.Recorder
	platforms []string
	closers   []io.Closer

	logger  *slog.Logger
	dataDir string
	apiKeys []string
	closed  atomic.Bool
	mu      sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.database == databaseUnset {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	dataDir, err := config.PrepareDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	dbURL, err := buildDatabaseURL(cfg, dataDir)
	if err != nil {
		return nil, fmt.Errorf("build database url: %w", err)
	}

	db, err := database.NewDatabase(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	if err := persistence.ValidateSchema(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("validate schema: %w", err), errClose)
	}

	// Invalidation bus, shared across instances when Redis is configured
	var bus domaininvalidation.Bus = invalidation.NewMemory()
	var redisBus *invalidation.Redis
	if cfg.redisAddr != "" {
		redisBus, err = invalidation.NewRedis(ctx, cfg.redisAddr, cfg.redisChannel, logger)
		if err != nil {
			errClose := db.Close()
			return nil, errors.Join(fmt.Errorf("connect redis: %w", err), errClose)
		}
		bus = redisBus
		cfg.closers = append(cfg.closers, redisBus)
	}

	// Create stores
	contentStore := persistence.NewContentStore(db)
	topicStore := persistence.NewTopicStore(db)
	fileTopicStore := persistence.NewFileTopicStore(db)
	platformStore := persistence.NewPlatformStore(db)
	fileStore := persistence.NewFileStore(db)

	// Notifications go to the log and to an in-memory history
	recorder := notify.NewRecorder(cfg.notificationLimit)
	notifiers := notify.Fanout{notify.NewLog(logger), recorder}
	notifiers = append(notifiers, cfg.notifiers...)

	// Batch progress: the latest snapshot backs the progress endpoint, the
	// logging reporter is throttled so large batches stay readable.
	latest := tracking.NewLatest()
	logCooldown := tracking.NewCooldown(tracking.NewLoggingReporter(logger), cfg.progressLogInterval)
	reporters := append([]tracking.Reporter{latest, logCooldown}, cfg.reporters...)
	cfg.closers = append(cfg.closers, logCooldown)

	resolver := service.NewResolver(fileTopicStore, platformStore, fileStore, logger)
	approvals := service.NewApproval(contentStore, topicStore, resolver, bus, notifiers, logger, reporters...)

	var generator *service.Generator
	if cfg.textProvider != nil {
		generator = service.NewGenerator(topicStore, contentStore, cfg.textProvider, cfg.platforms, bus, logger)
	}

	api := cfg.generationAPI
	switch {
	case api != nil:
	case cfg.generationURL != "":
		api = generationapi.NewClient(cfg.generationURL, cfg.generationOptions...)
	default:
		api = service.NewLocalGeneration(topicStore, generator)
	}
	approvedTopics := service.NewApprovedTopics(api, bus, notifiers, logger, cfg.retryPolicy)

	var platforms []string
	if generator != nil {
		platforms = generator.Platforms()
	}

	client := &Client{
		Approvals:      approvals,
		ApprovedTopics: approvedTopics,
		Catalog:        service.NewCatalog(topicStore, fileTopicStore, platformStore, fileStore),
		Resolver:       resolver,
		Generator:      generator,
		db:             db,
		bus:            bus,
		redis:          redisBus,
		latest:         latest,
		recorder:       recorder,
		platforms:      platforms,
		closers:        cfg.closers,
		logger:         logger,
		dataDir:        dataDir,
		apiKeys:        cfg.apiKeys,
	}

	return client, nil
}

// Close releases all resources.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ApprovedTopics.Close()

	// Close registered resources (cooldown reporters flush pending snapshots)
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("curator client closed")
	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Progress returns the latest batch snapshot, whether any batch has run,
// and whether a batch is running now.
func (c *Client) Progress() (progress approval.Progress, seen bool, processing bool) {
	progress, seen = c.latest.Progress()
	return progress, seen, c.Approvals.Processing()
}

// Notifications returns the recent user-facing notifications, oldest first.
func (c *Client) Notifications() []domainnotify.Notification {
	return c.recorder.All()
}

// Bus returns the cache invalidation bus.
func (c *Client) Bus() domaininvalidation.Bus {
	return c.bus
}

// ForwardInvalidations delivers invalidations published by other instances
// until ctx is done. Without Redis it just waits for ctx.
func (c *Client) ForwardInvalidations(ctx context.Context) error {
	if c.redis == nil {
		<-ctx.Done()
		return nil
	}
	return c.redis.Forward(ctx)
}

// Platforms returns the platforms drafted by server-side generation.
func (c *Client) Platforms() []string {
	return append([]string(nil), c.platforms...)
}

// APIKeys returns the keys accepted by the HTTP API's write endpoints.
func (c *Client) APIKeys() []string {
	return append([]string(nil), c.apiKeys...)
}

// DataDir returns the prepared data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// buildDatabaseURL constructs the database URL from configuration.
// An empty SQLite path selects curator.db in the data directory.
func buildDatabaseURL(cfg *clientConfig, dataDir string) (string, error) {
	switch cfg.database {
	case databaseSQLite:
		path := cfg.dbPath
		if path == "" {
			path = filepath.Join(dataDir, "curator.db")
		}
		return "sqlite:///" + path, nil
	case databasePostgres, databaseURL:
		return cfg.dbDSN, nil
	default:
		return "", ErrNoDatabase
	}
}
