package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"llmpick/internal/ai"
)

const (
	cacheFileName = "catalog.json"
	// DefaultTTL is how long a fetched model list is reused from the cache.
	DefaultTTL     = 6 * time.Hour
	defaultTimeout = 15 * time.Second
	fetchLimit     = 4
)

// CatalogOptions controls LoadCatalog.
type CatalogOptions struct {
	// Env holds API keys and NAME_BASE_URL overrides.
	Env map[string]string
	// CacheDir is where catalog.json lives. Empty disables caching.
	CacheDir string
	// TTL defaults to DefaultTTL. Negative values disable cache reads.
	TTL        time.Duration
	HTTPClient *http.Client
	// Only restricts and orders the providers. Nil means every built-in.
	Only []string
	// BaseURLs overrides provider endpoints by name.
	BaseURLs map[string]string
	// Extra models are appended to their provider's entry.
	Extra []ai.ModelInfo
	// Refresh ignores cached entries.
	Refresh bool
	Logger  *slog.Logger
}

type cacheFile struct {
	Entries map[string]ai.ProviderEntry `json:"entries"`
}

// LoadCatalog builds the catalog for the selected providers. Providers are
// fetched concurrently; a provider that fails or has no credentials falls back
// to its static models and records the reason on its entry. The returned error
// is only non-nil when ctx is done.
func LoadCatalog(ctx context.Context, opts CatalogOptions) (ai.ProviderCatalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	env := mergeBaseURLs(opts.Env, opts.BaseURLs)

	selected := selectConnectors(opts.Only, logger)
	cache := readCache(opts.CacheDir, logger)

	entries := make([]ai.ProviderEntry, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for i, c := range selected {
		g.Go(func() error {
			if cached, ok := cache.Entries[c.id()]; ok && !opts.Refresh && fresh(cached, c.hasCredentials(env), ttl) {
				logger.Debug("catalog cache hit", "provider", c.id())
				cached.Provider = c.info()
				entries[i] = cached
				return nil
			}
			entries[i] = loadEntry(gctx, c, client, env, logger)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return ai.ProviderCatalog{}, err
	}

	catalog := ai.ProviderCatalog{Entries: entries}
	writeCache(opts.CacheDir, catalog, logger)
	return WithExtraModels(catalog, opts.Extra), nil
}

// RefreshProvider fetches a single provider, bypassing and updating the cache.
func RefreshProvider(ctx context.Context, name string, opts CatalogOptions) (ai.ProviderEntry, error) {
	opts.Only = []string{name}
	opts.Refresh = true
	catalog, err := LoadCatalog(ctx, opts)
	if err != nil {
		return ai.ProviderEntry{}, err
	}
	entry, ok := catalog.Entry(name)
	if !ok {
		return ai.ProviderEntry{}, fmt.Errorf("unknown provider %q", name)
	}
	return entry, nil
}

func loadEntry(ctx context.Context, c connector, client *http.Client, env map[string]string, logger *slog.Logger) ai.ProviderEntry {
	info := c.info()
	entry := ai.ProviderEntry{
		Provider:       info,
		HasCredentials: c.hasCredentials(env),
	}
	if !entry.HasCredentials {
		entry.Models = info.StaticModels
		entry.Error = errMissingAPIKey.Error()
		return entry
	}

	models, updated, err := c.fetch(ctx, client, env)
	if err != nil {
		logger.Warn("fetch models failed", "provider", c.id(), "err", err)
		entry.Models = info.StaticModels
		entry.Error = err.Error()
		return entry
	}
	if len(models) == 0 && len(info.StaticModels) > 0 {
		models = info.StaticModels
	}
	entry.Models = models
	entry.LastUpdated = updated
	logger.Debug("fetched models", "provider", c.id(), "count", len(models))
	return entry
}

func fresh(entry ai.ProviderEntry, hasCredentials bool, ttl time.Duration) bool {
	if ttl < 0 || entry.Error != "" || entry.LastUpdated.IsZero() {
		return false
	}
	if entry.HasCredentials != hasCredentials {
		return false
	}
	return time.Since(entry.LastUpdated) < ttl
}

func selectConnectors(only []string, logger *slog.Logger) []connector {
	if only == nil {
		return connectors()
	}
	out := make([]connector, 0, len(only))
	seen := map[string]bool{}
	for _, name := range only {
		if seen[name] {
			continue
		}
		seen[name] = true
		c, ok := findConnector(name)
		if !ok {
			logger.Warn("unknown provider", "provider", name)
			continue
		}
		out = append(out, c)
	}
	return out
}

func mergeBaseURLs(env map[string]string, baseURLs map[string]string) map[string]string {
	out := make(map[string]string, len(env)+len(baseURLs))
	maps.Copy(out, env)
	for name, u := range baseURLs {
		if u != "" {
			out[BaseURLEnvKey(name)] = u
		}
	}
	return out
}

// WithExtraModels appends user-defined models to their providers' entries.
// A model whose name already exists for that provider replaces its label.
func WithExtraModels(catalog ai.ProviderCatalog, extra []ai.ModelInfo) ai.ProviderCatalog {
	if len(extra) == 0 {
		return catalog
	}
	out := ai.ProviderCatalog{Entries: make([]ai.ProviderEntry, len(catalog.Entries))}
	for i, entry := range catalog.Entries {
		entry.Models = append([]ai.ModelInfo(nil), entry.Models...)
		for _, m := range extra {
			if m.Provider != entry.Provider.Name || m.Name == "" {
				continue
			}
			if m.Label == "" {
				m.Label = m.Name
			}
			replaced := false
			for j := range entry.Models {
				if entry.Models[j].Name == m.Name {
					entry.Models[j] = m
					replaced = true
					break
				}
			}
			if !replaced {
				entry.Models = append(entry.Models, m)
			}
		}
		out.Entries[i] = entry
	}
	return out
}

func cachePath(dir string) string {
	return filepath.Join(dir, cacheFileName)
}

func readCache(dir string, logger *slog.Logger) cacheFile {
	if dir == "" {
		return cacheFile{}
	}
	b, err := os.ReadFile(cachePath(dir))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("read catalog cache", "err", err)
		}
		return cacheFile{}
	}
	var cf cacheFile
	if err := json.Unmarshal(b, &cf); err != nil {
		logger.Warn("corrupt catalog cache, ignoring", "err", err)
		return cacheFile{}
	}
	return cf
}

// writeCache merges successful entries into the cache file so a partial load
// does not evict other providers.
func writeCache(dir string, catalog ai.ProviderCatalog, logger *slog.Logger) {
	if dir == "" {
		return
	}
	cf := readCache(dir, logger)
	if cf.Entries == nil {
		cf.Entries = map[string]ai.ProviderEntry{}
	}
	changed := false
	for _, entry := range catalog.Entries {
		if entry.Error != "" || entry.LastUpdated.IsZero() {
			continue
		}
		cf.Entries[entry.Provider.Name] = entry
		changed = true
	}
	if !changed {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("create cache dir", "err", err)
		return
	}
	b, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		logger.Warn("encode catalog cache", "err", err)
		return
	}
	tmp := cachePath(dir) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		logger.Warn("write catalog cache", "err", err)
		return
	}
	if err := os.Rename(tmp, cachePath(dir)); err != nil {
		logger.Warn("replace catalog cache", "err", err)
	}
}

// ClearCache removes the cached catalog.
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.Remove(cachePath(dir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
