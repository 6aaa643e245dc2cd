package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, DefaultDataDir(), cfg.DataDir())
	assert.Equal(t, "sqlite:///"+filepath.Join(cfg.DataDir(), "curator.db"), cfg.DBURL())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
	assert.Empty(t, cfg.APIKeys())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins())
	assert.False(t, cfg.GenerationAPI().IsConfigured())
	assert.Equal(t, 2, cfg.GenerationAPI().MaxRetries())
	assert.Equal(t, 2*time.Second, cfg.GenerationAPI().InitialDelay())
	assert.Nil(t, cfg.TextEndpoint())
	assert.False(t, cfg.Redis().IsConfigured())
	assert.Len(t, cfg.Platforms(), 4)
}

func TestWithDataDir_MovesDefaultDatabase(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithDataDir("/srv/curator"))
	assert.Equal(t, "sqlite:////srv/curator/curator.db", cfg.DBURL())

	custom := NewAppConfigWithOptions(WithDBURL("postgres://u:p@db/curator"), WithDataDir("/srv/curator"))
	assert.Equal(t, "postgres://u:p@db/curator", custom.DBURL())
}

func TestAppConfig_AccessorsCopy(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithAPIKeys([]string{"a"}))
	keys := cfg.APIKeys()
	keys[0] = "changed"
	assert.Equal(t, []string{"a"}, cfg.APIKeys())

	platforms := cfg.Platforms()
	platforms[0].Name = "changed"
	assert.NotEqual(t, "changed", cfg.Platforms()[0].Name)
}

func TestAppConfig_ApplyKeepsOriginal(t *testing.T) {
	base := NewAppConfig()
	changed := base.Apply(WithPort(1), WithPlatforms(nil), WithProgressLogInterval(0))

	assert.Equal(t, DefaultPort, base.Port())
	assert.Equal(t, 1, changed.Port())
	assert.Equal(t, base.Platforms(), changed.Platforms(), "empty platform list is ignored")
	assert.Equal(t, DefaultProgressLogInterval, changed.ProgressLogInterval())
}

func TestGenerationRetries_IgnoresInvalid(t *testing.T) {
	g := NewGenerationAPIWithOptions(WithGenerationRetries(-1, 0, 0.5))
	assert.Equal(t, DefaultGenerationMaxRetries, g.MaxRetries())
	assert.Equal(t, DefaultGenerationInitialDelay, g.InitialDelay())
	assert.Equal(t, DefaultGenerationBackoffFactor, g.BackoffFactor())

	disabled := NewGenerationAPIWithOptions(WithGenerationRetries(0, time.Second, 1))
	assert.Equal(t, 0, disabled.MaxRetries())
}

func TestLogAttrs_MasksSecrets(t *testing.T) {
	cfg := NewAppConfigWithOptions(
		WithDBURL("postgres://user:hunter2@db/curator"),
		WithAPIKeys([]string{"k1", "k2"}),
	)

	values := map[string]string{}
	for _, attr := range cfg.LogAttrs() {
		values[attr.Key] = attr.Value.String()
	}
	assert.Equal(t, "postgres://***@***", values["db_url"])
	assert.Equal(t, "2", values["api_keys_count"])
	assert.Equal(t, "(local)", values["generation_api"])
	for _, v := range values {
		assert.NotContains(t, v, "hunter2")
	}
}

func TestParseAPIKeys(t *testing.T) {
	assert.Equal(t, []string{}, ParseAPIKeys(""))
	assert.Equal(t, []string{"a", "b"}, ParseAPIKeys(" a ,, b "))
}

func TestParsePlatformsYAML(t *testing.T) {
	platforms, err := ParsePlatformsYAML([]byte(`
platforms:
  - name: LinkedIn
    instructions: "  Lead with an insight.  "
    max_tokens: 400
  - name: twitter
`))
	require.NoError(t, err)
	assert.Equal(t, []Platform{
		{Name: "linkedin", Instructions: "Lead with an insight.", MaxTokens: 400},
		{Name: "twitter"},
	}, platforms)
}

func TestParsePlatformsYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: "platforms: []"},
		{name: "missing name", body: "platforms:\n  - instructions: x"},
		{name: "duplicate", body: "platforms:\n  - name: a\n  - name: A"},
		{name: "negative tokens", body: "platforms:\n  - name: a\n    max_tokens: -1"},
		{name: "not yaml", body: "platforms: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlatformsYAML([]byte(tt.body))
			assert.Error(t, err)
		})
	}

	_, err := ParsePlatformsYAML([]byte("platforms: []"))
	assert.ErrorIs(t, err, ErrNoPlatforms)
}

func TestPrepareDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	got, err := PrepareDataDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
