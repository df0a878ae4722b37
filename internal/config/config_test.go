package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestLoadOrCreate_CreatesDefaultConfigWhenFileDoesNotExist(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	cfg, err := LoadOrCreate(tmpDir)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}

	if _, err := os.Stat(Path(tmpDir)); os.IsNotExist(err) {
		t.Fatal("expected config file to be created")
	}

	want := []string{"openai", "anthropic", "ollama"}
	if !reflect.DeepEqual(cfg.EnabledProviders, want) {
		t.Fatalf("expected enabled providers %v, got %v", want, cfg.EnabledProviders)
	}
}

func TestLoadOrCreate_LoadsExistingConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	existing := Config{
		EnabledProviders:  []string{"groq"},
		SelectedProvider:  "groq",
		SelectedModel:     "llama-3.3-70b-versatile",
		CatalogTTLSeconds: 60,
	}
	data, _ := json.MarshalIndent(existing, "", "  ")
	if err := os.WriteFile(Path(tmpDir), data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(tmpDir)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.SelectedModel != "llama-3.3-70b-versatile" {
		t.Fatalf("expected SelectedModel to round-trip, got %q", cfg.SelectedModel)
	}
	if cfg.CatalogTTL() != time.Minute {
		t.Fatalf("expected 1m TTL, got %s", cfg.CatalogTTL())
	}
}

func TestLoadOrCreate_HandlesInvalidJSON(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.WriteFile(Path(tmpDir), []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadOrCreate(tmpDir)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadOrCreate_NormalizesProviders(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	raw := `{"enabledProviders":[" OpenAI","ollama","openai",""],"selectedProvider":"OpenAI"}`
	if err := os.WriteFile(Path(tmpDir), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(tmpDir)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	want := []string{"openai", "ollama"}
	if !reflect.DeepEqual(cfg.EnabledProviders, want) {
		t.Fatalf("expected %v, got %v", want, cfg.EnabledProviders)
	}
	if cfg.SelectedProvider != "openai" {
		t.Fatalf("expected selected provider lowercased, got %q", cfg.SelectedProvider)
	}
	if cfg.BaseURLs == nil || cfg.Env == nil {
		t.Fatal("expected nil maps to be initialized")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"negative ttl", func(c *Config) { c.CatalogTTLSeconds = -1 }, "CatalogTTLSeconds"},
		{"bad base url", func(c *Config) { c.BaseURLs = map[string]string{"ollama": "not a url"} }, "BaseURLs"},
		{"good base url", func(c *Config) { c.BaseURLs = map[string]string{"ollama": "http://gpu-box:11434"} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSave_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	cfg := Default()
	cfg.LogLevel = "verbose"
	if err := Save(tmpDir, cfg); err == nil {
		t.Fatal("expected Save to reject invalid log level")
	}
	if _, err := os.Stat(Path(tmpDir)); !os.IsNotExist(err) {
		t.Fatal("expected no config file to be written")
	}
}

func TestSave_KeepsFilePrivate(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	tmpDir := filepath.Join(t.TempDir(), "llmpick")
	cfg := Default()
	cfg.Env = map[string]string{"OPENAI_API_KEY": "sk-secret"}
	if err := Save(tmpDir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(Path(tmpDir))
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Fatalf("expected config mode 0600, got %v", mode)
	}
	dirInfo, err := os.Stat(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if mode := dirInfo.Mode().Perm(); mode&0o077 != 0 {
		t.Fatalf("expected private config dir, got %v", mode)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only config.json after Save, found %d entries", len(entries))
	}
}

func TestSave_OmitsEmptySelection(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := Save(tmpDir, Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(Path(tmpDir))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("selectedModel")) {
		t.Fatalf("expected selectedModel to be omitted, got %s", data)
	}
	if _, err := os.Stat(Path(tmpDir) + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("expected temp file to be renamed away")
	}
}

func TestEnableDisable(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Enable("OpenAI") {
		t.Fatal("expected enabling an enabled provider to be a no-op")
	}
	if !cfg.Enable("groq") {
		t.Fatal("expected groq to be enabled")
	}
	if got := cfg.EnabledProviders[len(cfg.EnabledProviders)-1]; got != "groq" {
		t.Fatalf("expected groq appended, got %q", got)
	}
	if !cfg.Disable("anthropic") {
		t.Fatal("expected anthropic to be disabled")
	}
	if cfg.Disable("anthropic") {
		t.Fatal("expected second disable to be a no-op")
	}
	want := []string{"openai", "ollama", "groq"}
	if !reflect.DeepEqual(cfg.EnabledProviders, want) {
		t.Fatalf("expected %v, got %v", want, cfg.EnabledProviders)
	}
}

func TestEnvironment_ProcessEnvWins(t *testing.T) {
	t.Parallel()

	cfg := Config{Env: map[string]string{"OPENAI_API_KEY": "from-config", "GROQ_API_KEY": "groq"}}
	env := cfg.Environment([]string{"OPENAI_API_KEY=from-env", "GROQ_API_KEY=", "BROKEN"})

	if env["OPENAI_API_KEY"] != "from-env" {
		t.Fatalf("expected process env to win, got %q", env["OPENAI_API_KEY"])
	}
	if env["GROQ_API_KEY"] != "groq" {
		t.Fatalf("expected empty env value to fall back to config, got %q", env["GROQ_API_KEY"])
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	dir := "/some/config/dir"
	got := Path(dir)
	want := filepath.Join(dir, "config.json")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.SelectedProvider != "" || cfg.SelectedModel != "" {
		t.Fatal("expected no default selection")
	}
	if cfg.BaseURLs == nil {
		t.Fatal("expected BaseURLs to be initialized")
	}
	if cfg.CatalogTTL() != 0 {
		t.Fatalf("expected zero TTL to defer to the loader, got %s", cfg.CatalogTTL())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate: %v", err)
	}
}
