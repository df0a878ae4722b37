package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmpick/internal/config"
)

func TestSetConfigField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		value   string
		check   func(t *testing.T, cfg config.Config)
		wantErr string
	}{
		{
			name:  "enabled providers",
			key:   "enabledProviders",
			value: "Groq, ollama,,",
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, []string{"groq", "ollama"}, cfg.EnabledProviders)
			},
		},
		{
			name:    "unknown provider",
			key:     "enabledProviders",
			value:   "openai,nope",
			wantErr: "unknown provider",
		},
		{
			name:  "selection",
			key:   "selectedModel",
			value: "gpt-4o",
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, "gpt-4o", cfg.SelectedModel)
			},
		},
		{
			name:  "ttl",
			key:   "catalogTtlSeconds",
			value: " 120 ",
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, 120, cfg.CatalogTTLSeconds)
			},
		},
		{
			name:    "ttl not a number",
			key:     "catalogTtlSeconds",
			value:   "soon",
			wantErr: "catalogTtlSeconds",
		},
		{
			name:    "unknown key",
			key:     "theme",
			value:   "dark",
			wantErr: "unknown key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			err := setConfigField(&cfg, tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestGetConfigField(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.SelectedProvider = "openai"
	cfg.CatalogTTLSeconds = 30

	for key, want := range map[string]string{
		"enabledProviders":  "openai,anthropic,ollama",
		"selectedProvider":  "openai",
		"selectedModel":     "",
		"catalogTtlSeconds": "30",
		"logLevel":          "info",
	} {
		got, err := getConfigField(cfg, key)
		require.NoError(t, err, key)
		assert.Equal(t, want, got, key)
	}

	_, err := getConfigField(cfg, "nope")
	assert.Error(t, err)
}

func TestConfigSetCommand_RejectsInvalidValue(t *testing.T) {
	root := t.TempDir()

	_, _, err := runRoot(t, root, "config", "set", "logLevel", "loud")
	require.Error(t, err)

	cfg, err := config.LoadOrCreate(root)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfigResetSelection(t *testing.T) {
	root := t.TempDir()

	_, _, err := runRoot(t, root, "config", "set", "selectedProvider", "openai")
	require.NoError(t, err)

	out, _, err := runRoot(t, root, "config", "reset", "selection")
	require.NoError(t, err)
	assert.Contains(t, out, "reset to default values")

	cfg, err := config.LoadOrCreate(root)
	require.NoError(t, err)
	assert.Empty(t, cfg.SelectedProvider)
}

func TestConfigShow_MasksEnv(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Env = map[string]string{"OPENAI_API_KEY": "sk-secret"}
	require.NoError(t, config.Save(root, cfg))

	out, _, err := runRoot(t, root, "config", "show")
	require.NoError(t, err)
	assert.False(t, strings.Contains(out, "sk-secret"))
	assert.Contains(t, out, "********")
}

func TestGetEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", getEditor())

	t.Setenv("VISUAL", "code -w")
	assert.Equal(t, "code -w", getEditor())

	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", getEditor())
}
