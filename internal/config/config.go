package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// EnabledProviders lists provider names in the order the picker shows them.
	EnabledProviders []string `json:"enabledProviders" validate:"dive,required,lowercase"`
	SelectedProvider string   `json:"selectedProvider,omitempty"`
	SelectedModel    string   `json:"selectedModel,omitempty"`
	// BaseURLs overrides provider endpoints, keyed by provider name.
	BaseURLs map[string]string `json:"baseUrls,omitempty" validate:"dive,keys,required,endkeys,http_url"`
	// Env supplies API keys when the process environment lacks them.
	Env map[string]string `json:"env,omitempty"`
	// CatalogTTLSeconds is how long fetched model lists are cached. Zero uses
	// the built-in default.
	CatalogTTLSeconds int    `json:"catalogTtlSeconds" validate:"gte=0"`
	LogLevel          string `json:"logLevel" validate:"omitempty,oneof=debug info warn error"`
}

func Default() Config {
	return Config{
		EnabledProviders: []string{"openai", "anthropic", "ollama"},
		BaseURLs:         map[string]string{},
		Env:              map[string]string{},
		LogLevel:         "info",
	}
}

func Path(dir string) string { return filepath.Join(dir, "config.json") }

func LoadOrCreate(configDir string) (Config, error) {
	p := Path(configDir)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := os.MkdirAll(configDir, 0o700); err != nil {
				return Config{}, err
			}
			if err := Save(configDir, cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", p, err)
	}
	return cfg, nil
}

func Save(configDir string, cfg Config) error {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Write through a temp file so the watcher never sees a half-written config.
	// CreateTemp makes the file 0600; it may hold API keys.
	f, err := os.CreateTemp(configDir, "config.json.*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, Path(configDir)); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports each failing field.
func (cfg Config) Validate() error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// normalize lowercases and de-duplicates provider names and fills nil maps.
func (cfg *Config) normalize() {
	seen := map[string]bool{}
	enabled := make([]string, 0, len(cfg.EnabledProviders))
	for _, name := range cfg.EnabledProviders {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		enabled = append(enabled, name)
	}
	cfg.EnabledProviders = enabled
	cfg.SelectedProvider = strings.ToLower(strings.TrimSpace(cfg.SelectedProvider))
	cfg.LogLevel = strings.ToLower(defaultIfEmpty(cfg.LogLevel, "info"))
	if cfg.BaseURLs == nil {
		cfg.BaseURLs = map[string]string{}
	}
	if cfg.Env == nil {
		cfg.Env = map[string]string{}
	}
}

// Enabled reports whether the named provider is enabled.
func (cfg Config) Enabled(name string) bool {
	return slices.Contains(cfg.EnabledProviders, name)
}

// Enable appends name to the enabled providers. It reports whether anything
// changed.
func (cfg *Config) Enable(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || cfg.Enabled(name) {
		return false
	}
	cfg.EnabledProviders = append(cfg.EnabledProviders, name)
	return true
}

// Disable removes name from the enabled providers. The stored selection is
// left alone; the picker corrects it on next start.
func (cfg *Config) Disable(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	i := slices.Index(cfg.EnabledProviders, name)
	if i < 0 {
		return false
	}
	cfg.EnabledProviders = slices.Delete(cfg.EnabledProviders, i, i+1)
	return true
}

// CatalogTTL returns the cache lifetime, or 0 to use the loader's default.
func (cfg Config) CatalogTTL() time.Duration {
	return time.Duration(cfg.CatalogTTLSeconds) * time.Second
}

// Environment merges the config's Env under the process environment: values
// already set in environ win.
func (cfg Config) Environment(environ []string) map[string]string {
	out := make(map[string]string, len(cfg.Env)+len(environ))
	for k, v := range cfg.Env {
		out[k] = v
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func defaultIfEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
