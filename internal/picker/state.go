// Package picker implements the provider/model selection widget used by the
// chat screen: a plain provider selector next to a searchable model dropdown.
//
// The widget never owns the selection. Callers pass the current provider and
// model in through Props and receive changes through the Props setters. The
// only state kept here is transient: the search text and whether the dropdown
// is open.
package picker

import (
	"strings"

	"llmpick/internal/ai"
)

// LoadingAll marks every provider's model list as loading.
const LoadingAll = "all"

const (
	placeholderSelectModel = "Select model"
	placeholderLoading     = "Loading..."
	placeholderNoModels    = "No models found"
	placeholderSearch      = "Search models..."
	emptyProvidersMessage  = "No providers are currently enabled. Please enable at least one provider in the settings to start using the chat."
)

// Props is the externally owned input of the widget.
type Props struct {
	Provider    *ai.ProviderInfo
	SetProvider func(ai.ProviderInfo)
	Model       string
	SetModel    func(string)
	Models      []ai.ModelInfo
	Providers   []ai.ProviderInfo
	// Loading is "all", a provider name, or empty.
	Loading string
}

// State is the widget's own transient UI state.
type State struct {
	Query string
	Open  bool
}

// Empty reports whether no providers are available. The widget then only
// shows an informational message and runs no selection logic.
func (p Props) Empty() bool {
	return len(p.Providers) == 0
}

// IsLoading reports whether the option area should show the loading
// placeholder for the current provider.
func (p Props) IsLoading() bool {
	if p.Loading == "" {
		return false
	}
	if p.Loading == LoadingAll {
		return true
	}
	return p.Provider != nil && p.Loading == p.Provider.Name
}

// ProviderName returns the current provider's name or "".
func (p Props) ProviderName() string {
	if p.Provider == nil {
		return ""
	}
	return p.Provider.Name
}

func (p Props) setProvider(provider ai.ProviderInfo) {
	if p.SetProvider != nil {
		p.SetProvider(provider)
	}
}

func (p Props) setModel(name string) {
	if p.SetModel != nil {
		p.SetModel(name)
	}
}

// Reconcile replaces a stale provider selection. When the provider list is
// non-empty and the current provider is set but not in it, the first provider
// is selected, followed by that provider's first model if it has one.
// It reports whether a correction was requested.
func Reconcile(p Props) bool {
	if p.Empty() || p.Provider == nil {
		return false
	}
	if _, ok := ai.FindProvider(p.Providers, p.Provider.Name); ok {
		return false
	}
	first := p.Providers[0]
	p.setProvider(first)
	if model, ok := ai.FirstModelFor(p.Models, first.Name); ok {
		p.setModel(model.Name)
	}
	return true
}

// SelectProvider handles an explicit provider choice from the selector.
//
// The model lookup uses the raw name, not the resolved provider, so a model is
// still chosen when name is missing from the provider list.
func SelectProvider(p Props, name string) {
	if provider, ok := ai.FindProvider(p.Providers, name); ok {
		p.setProvider(provider)
	}
	if model, ok := ai.FirstModelFor(p.Models, name); ok {
		p.setModel(model.Name)
	}
}

// SelectOption picks a model from the dropdown, then closes it and clears
// the search text.
func SelectOption(p Props, s *State, name string) {
	p.setModel(name)
	s.Open = false
	s.Query = ""
}

// Toggle flips the dropdown and reports whether it is now open.
func (s *State) Toggle() bool {
	s.Open = !s.Open
	return s.Open
}

// FilterModels returns the models of provider whose label or name contains
// query, ignoring case. Models with an empty name are skipped and input order
// is kept. A nil provider matches nothing.
func FilterModels(models []ai.ModelInfo, provider *ai.ProviderInfo, query string) []ai.ModelInfo {
	if provider == nil {
		return nil
	}
	q := strings.ToLower(query)
	var out []ai.ModelInfo
	for _, m := range models {
		if m.Provider != provider.Name || m.Name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(m.Label), q) || strings.Contains(strings.ToLower(m.Name), q) {
			out = append(out, m)
		}
	}
	return out
}

// ModelLabel returns the display label of the named model, or the
// "Select model" placeholder when it is unknown or has no label.
func ModelLabel(models []ai.ModelInfo, name string) string {
	if name == "" {
		return placeholderSelectModel
	}
	for _, m := range models {
		if m.Name == name {
			if m.Label == "" {
				break
			}
			return m.Label
		}
	}
	return placeholderSelectModel
}
