package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8000, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, "Asia/Seoul", config.Calendar.Timezone)
	assert.Equal(t, 6, config.Calendar.MacroMonths)
	assert.Equal(t, 9, config.Chat.HistoryLimit)
	assert.Equal(t, 5, config.News.PerQuery)
	assert.Equal(t, 10, config.News.TopN)
	assert.NotEmpty(t, config.News.Queries)
	require.NoError(t, config.Validate())
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finmate.toml")
	content := `
[server]
port = 9100

[calendar]
timezone = "UTC"
macro_months = 12

[llm]
default_provider = "claude"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, config.Server.Port)
	assert.Equal(t, "UTC", config.Calendar.Timezone)
	assert.Equal(t, 12, config.Calendar.MacroMonths)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	// Untouched sections keep defaults
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 9, config.Chat.HistoryLimit)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "base.toml")
	second := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(first, []byte("[server]\nport = 9100\nhost = \"0.0.0.0\"\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("[server]\nport = 9200\n"), 0644))

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, 9200, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/finmate.toml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FINMATE_SERVER_PORT", "9300")
	t.Setenv("FINMATE_ECOS_API_KEY", "test-ecos-key")
	t.Setenv("FINMATE_LLM_PROVIDER", "Claude")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9300, config.Server.Port)
	assert.Equal(t, "test-ecos-key", config.Ecos.APIKey)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
}

func TestEnvOverrides_LegacyKeys(t *testing.T) {
	t.Setenv("ECOS_AUTH_KEY", "legacy-ecos")
	t.Setenv("NAVER_CLIENT_ID", "legacy-id")
	t.Setenv("NAVER_CLIENT_SECRET", "legacy-secret")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "legacy-ecos", config.Ecos.APIKey)
	assert.Equal(t, "legacy-id", config.Naver.ClientID)
	assert.Equal(t, "legacy-secret", config.Naver.ClientSecret)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 9400, "0.0.0.0")
	assert.Equal(t, 9400, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 9400, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = -1 }, true},
		{"bad provider", func(c *Config) { c.LLM.DefaultProvider = "openai" }, true},
		{"bad macro months", func(c *Config) { c.Calendar.MacroMonths = 0 }, true},
		{"bad top n", func(c *Config) { c.News.TopN = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
