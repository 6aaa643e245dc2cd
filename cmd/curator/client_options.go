package main

import (
	"fmt"
	"log/slog"

	"github.com/helixml/curator"
	"github.com/helixml/curator/application/service"
	"github.com/helixml/curator/infrastructure/generationapi"
	"github.com/helixml/curator/infrastructure/provider"
	"github.com/helixml/curator/internal/config"
	"github.com/helixml/curator/internal/log"
)

// clientOptions returns the curator.Option slice derived from AppConfig.
// Callers append entrypoint-specific options before passing the slice to
// curator.New.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) []curator.Option {
	opts := []curator.Option{
		curator.WithDataDir(cfg.DataDir()),
		curator.WithLogger(logger),
		curator.WithProgressLogInterval(cfg.ProgressLogInterval()),
	}

	opts = append(opts, storageOptions(cfg)...)
	opts = append(opts, textOptions(cfg)...)
	opts = append(opts, generationOptions(cfg)...)

	if r := cfg.Redis(); r.IsConfigured() {
		opts = append(opts, curator.WithRedis(r.Addr(), r.Channel()))
	}
	if keys := cfg.APIKeys(); len(keys) > 0 {
		opts = append(opts, curator.WithAPIKeys(keys...))
	}
	if platforms := platformPrompts(cfg.Platforms()); len(platforms) > 0 {
		opts = append(opts, curator.WithPlatforms(platforms...))
	}

	return opts
}

// storageOptions returns the curator.Option for the configured database.
// Without DB_URL the client uses SQLite in the data directory.
func storageOptions(cfg config.AppConfig) []curator.Option {
	if dbURL := cfg.DBURL(); dbURL != "" {
		return []curator.Option{curator.WithDatabaseURL(dbURL)}
	}
	return []curator.Option{curator.WithSQLite("")}
}

// textOptions returns the text provider option when the text endpoint is
// configured, or an empty slice otherwise.
func textOptions(cfg config.AppConfig) []curator.Option {
	endpoint := cfg.TextEndpoint()
	if endpoint == nil || !endpoint.IsConfigured() {
		return nil
	}

	return []curator.Option{curator.WithOpenAIConfig(provider.OpenAIConfig{
		APIKey:     endpoint.APIKey(),
		BaseURL:    endpoint.BaseURL(),
		ChatModel:  endpoint.Model(),
		Timeout:    endpoint.Timeout(),
		MaxRetries: endpoint.MaxRetries(),
	})}
}

// generationOptions points the approved-topics reader at a remote
// generation API and applies its retry policy.
func generationOptions(cfg config.AppConfig) []curator.Option {
	g := cfg.GenerationAPI()
	opts := []curator.Option{curator.WithRetryPolicy(service.RetryPolicy{
		MaxRetries:    g.MaxRetries(),
		InitialDelay:  g.InitialDelay(),
		BackoffFactor: g.BackoffFactor(),
	})}
	if !g.IsConfigured() {
		return opts
	}

	var clientOpts []generationapi.Option
	if g.APIKey() != "" {
		clientOpts = append(clientOpts, generationapi.WithAPIKey(g.APIKey()))
	}
	if g.Timeout() > 0 {
		clientOpts = append(clientOpts, generationapi.WithTimeout(g.Timeout()))
	}
	return append(opts, curator.WithGenerationAPI(g.BaseURL(), clientOpts...))
}

// platformPrompts converts configured platforms. Platforms without
// instructions use the built-in prompt of the same name, or a generic one.
func platformPrompts(platforms []config.Platform) []service.PlatformPrompt {
	defaults := make(map[string]service.PlatformPrompt)
	for _, p := range service.DefaultPlatformPrompts() {
		defaults[p.Name] = p
	}

	prompts := make([]service.PlatformPrompt, 0, len(platforms))
	for _, p := range platforms {
		prompt := service.PlatformPrompt{
			Name:         p.Name,
			Instructions: p.Instructions,
			MaxTokens:    p.MaxTokens,
		}
		if prompt.Instructions == "" {
			if def, ok := defaults[p.Name]; ok {
				prompt.Instructions = def.Instructions
			} else {
				prompt.Instructions = fmt.Sprintf("Write a post suited to %s.", p.Name)
			}
		}
		prompts = append(prompts, prompt)
	}
	return prompts
}

// newClient loads configuration and opens a client for one-shot commands.
func newClient(envFile string) (*curator.Client, *slog.Logger, error) {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}

	slogger := log.Configure(cfg).Slog()
	client, err := curator.New(clientOptions(cfg, slogger)...)
	if err != nil {
		return nil, nil, fmt.Errorf("create curator client: %w", err)
	}
	return client, slogger, nil
}
