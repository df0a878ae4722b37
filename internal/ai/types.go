package ai

import (
	"time"
)

// ProviderInfo describes a named source of models.
type ProviderInfo struct {
	Name         string      `json:"name"`
	Title        string      `json:"title"`
	EnvKeys      []string    `json:"env_keys,omitempty"`
	APIKeyURL    string      `json:"api_key_url,omitempty"`
	BaseURL      string      `json:"base_url,omitempty"`
	Local        bool        `json:"local,omitempty"`
	StaticModels []ModelInfo `json:"static_models,omitempty"`
}

// ModelInfo is a selectable model belonging to exactly one provider.
type ModelInfo struct {
	Name      string `json:"name" yaml:"name"`
	Label     string `json:"label" yaml:"label"`
	Provider  string `json:"provider" yaml:"provider"`
	MaxTokens int    `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// ProviderEntry aggregates the models fetched for a single provider.
type ProviderEntry struct {
	Provider       ProviderInfo `json:"provider"`
	HasCredentials bool         `json:"has_credentials"`
	LastUpdated    time.Time    `json:"last_updated"`
	Error          string       `json:"error,omitempty"`
	Models         []ModelInfo  `json:"models"`
}

// ProviderCatalog is the combined output from all connectors.
type ProviderCatalog struct {
	Entries []ProviderEntry `json:"entries"`
}

// Providers returns the providers of the catalog in entry order.
func (c ProviderCatalog) Providers() []ProviderInfo {
	out := make([]ProviderInfo, 0, len(c.Entries))
	for _, entry := range c.Entries {
		out = append(out, entry.Provider)
	}
	return out
}

// Models flattens every entry's models, keeping entry order.
func (c ProviderCatalog) Models() []ModelInfo {
	var out []ModelInfo
	for _, entry := range c.Entries {
		out = append(out, entry.Models...)
	}
	return out
}

// Entry returns the entry for the named provider.
func (c ProviderCatalog) Entry(name string) (ProviderEntry, bool) {
	for _, entry := range c.Entries {
		if entry.Provider.Name == name {
			return entry, true
		}
	}
	return ProviderEntry{}, false
}

// Replace swaps the entry with the same provider name, appending when absent.
func (c *ProviderCatalog) Replace(entry ProviderEntry) {
	for i := range c.Entries {
		if c.Entries[i].Provider.Name == entry.Provider.Name {
			c.Entries[i] = entry
			return
		}
	}
	c.Entries = append(c.Entries, entry)
}

// FindProvider looks a provider up by name.
func FindProvider(providers []ProviderInfo, name string) (ProviderInfo, bool) {
	for _, p := range providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderInfo{}, false
}

// FirstModelFor returns the first model, in list order, that belongs to provider.
func FirstModelFor(models []ModelInfo, provider string) (ModelInfo, bool) {
	for _, m := range models {
		if m.Provider == provider {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// ProviderNames returns the names of providers in order.
func ProviderNames(providers []ProviderInfo) []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name)
	}
	return names
}
