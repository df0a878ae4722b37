package picker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmpick/internal/ai"
)

type recorder struct {
	providers []string
	models    []string
}

func (r *recorder) bind(p Props) Props {
	p.SetProvider = func(provider ai.ProviderInfo) { r.providers = append(r.providers, provider.Name) }
	p.SetModel = func(name string) { r.models = append(r.models, name) }
	return p
}

func testModels() []ai.ModelInfo {
	return []ai.ModelInfo{
		{Name: "gpt-4", Label: "GPT-4", Provider: "openai"},
		{Name: "gpt-4o-mini", Label: "GPT-4o Mini", Provider: "openai"},
		{Name: "", Label: "Broken", Provider: "openai"},
		{Name: "claude-sonnet", Label: "Claude Sonnet", Provider: "anthropic"},
		{Name: "claude-haiku", Label: "Claude Haiku", Provider: "anthropic"},
		{Name: "llama3", Label: "Llama 3", Provider: "ollama"},
	}
}

func testProviders(names ...string) []ai.ProviderInfo {
	out := make([]ai.ProviderInfo, 0, len(names))
	for _, name := range names {
		out = append(out, ai.ProviderInfo{Name: name})
	}
	return out
}

func TestFilterModels_MatchesDefinition(t *testing.T) {
	t.Parallel()

	models := testModels()
	queries := []string{"", "gpt", "GPT", "mini", "4O", "claude", "son", "zzz", " "}
	for _, providerName := range []string{"openai", "anthropic", "ollama", "missing"} {
		provider := &ai.ProviderInfo{Name: providerName}
		for _, q := range queries {
			var want []ai.ModelInfo
			for _, m := range models {
				if m.Provider != providerName || m.Name == "" {
					continue
				}
				ql := strings.ToLower(q)
				if strings.Contains(strings.ToLower(m.Label), ql) || strings.Contains(strings.ToLower(m.Name), ql) {
					want = append(want, m)
				}
			}
			got := FilterModels(models, provider, q)
			assert.Equal(t, want, got, "provider=%s query=%q", providerName, q)
		}
	}
}

func TestFilterModels_Scenario(t *testing.T) {
	t.Parallel()

	provider := &ai.ProviderInfo{Name: "openai"}
	models := []ai.ModelInfo{{Name: "gpt-4", Label: "GPT-4", Provider: "openai"}}

	got := FilterModels(models, provider, "gpt")
	require.Len(t, got, 1)
	assert.Equal(t, "gpt-4", got[0].Name)

	assert.Empty(t, FilterModels(models, provider, "claude"))
}

func TestFilterModels_NoProviderMatchesNothing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FilterModels(testModels(), nil, ""))
}

func TestFilterModels_KeepsInputOrder(t *testing.T) {
	t.Parallel()

	models := []ai.ModelInfo{
		{Name: "z-model", Label: "Zed", Provider: "p"},
		{Name: "a-model", Label: "Alpha", Provider: "p"},
		{Name: "m-model", Label: "Mid", Provider: "p"},
	}
	got := FilterModels(models, &ai.ProviderInfo{Name: "p"}, "model")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"z-model", "a-model", "m-model"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestReconcile_StaleProviderSelectsFirst(t *testing.T) {
	t.Parallel()

	var rec recorder
	p := rec.bind(Props{
		Provider:  &ai.ProviderInfo{Name: "gone"},
		Models:    testModels(),
		Providers: testProviders("anthropic", "openai"),
	})

	require.True(t, Reconcile(p))
	assert.Equal(t, []string{"anthropic"}, rec.providers)
	assert.Equal(t, []string{"claude-sonnet"}, rec.models)
}

func TestReconcile_NoModelForFirstProvider(t *testing.T) {
	t.Parallel()

	var rec recorder
	p := rec.bind(Props{
		Provider:  &ai.ProviderInfo{Name: "gone"},
		Models:    testModels(),
		Providers: testProviders("groq"),
	})

	require.True(t, Reconcile(p))
	assert.Equal(t, []string{"groq"}, rec.providers)
	assert.Empty(t, rec.models)
}

func TestReconcile_NoOpCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		props Props
	}{
		{
			name:  "empty provider list",
			props: Props{Provider: &ai.ProviderInfo{Name: "gone"}, Models: testModels()},
		},
		{
			name:  "no current provider",
			props: Props{Providers: testProviders("openai"), Models: testModels()},
		},
		{
			name:  "current provider still listed",
			props: Props{Provider: &ai.ProviderInfo{Name: "openai"}, Providers: testProviders("anthropic", "openai"), Models: testModels()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorder
			assert.False(t, Reconcile(rec.bind(tt.props)))
			assert.Empty(t, rec.providers)
			assert.Empty(t, rec.models)
		})
	}
}

func TestReconcile_NilSettersDoNotPanic(t *testing.T) {
	t.Parallel()

	p := Props{
		Provider:  &ai.ProviderInfo{Name: "gone"},
		Models:    testModels(),
		Providers: testProviders("openai"),
	}
	assert.NotPanics(t, func() { Reconcile(p) })
}

func TestSelectProvider_FoundProvider(t *testing.T) {
	t.Parallel()

	var rec recorder
	SelectProvider(rec.bind(Props{Models: testModels(), Providers: testProviders("openai", "anthropic")}), "anthropic")

	assert.Equal(t, []string{"anthropic"}, rec.providers)
	assert.Equal(t, []string{"claude-sonnet"}, rec.models)
}

func TestSelectProvider_UnknownProviderStillPicksModel(t *testing.T) {
	t.Parallel()

	var rec recorder
	SelectProvider(rec.bind(Props{Models: testModels(), Providers: testProviders("openai")}), "ollama")

	assert.Empty(t, rec.providers)
	assert.Equal(t, []string{"llama3"}, rec.models)
}

func TestSelectProvider_ProviderWithoutModels(t *testing.T) {
	t.Parallel()

	var rec recorder
	SelectProvider(rec.bind(Props{Models: testModels(), Providers: testProviders("openai", "groq")}), "groq")

	assert.Equal(t, []string{"groq"}, rec.providers)
	assert.Empty(t, rec.models)
}

func TestSelectOption_ClosesAndClears(t *testing.T) {
	t.Parallel()

	var rec recorder
	s := State{Query: "gpt", Open: true}
	SelectOption(rec.bind(Props{}), &s, "gpt-4")

	assert.Equal(t, []string{"gpt-4"}, rec.models)
	assert.Equal(t, State{}, s)
}

func TestStateToggle(t *testing.T) {
	t.Parallel()

	s := State{Query: "keep"}
	assert.True(t, s.Toggle())
	assert.Equal(t, "keep", s.Query)
	assert.False(t, s.Toggle())
	assert.Equal(t, "keep", s.Query)
}

func TestIsLoading(t *testing.T) {
	t.Parallel()

	openai := &ai.ProviderInfo{Name: "openai"}
	tests := []struct {
		name    string
		props   Props
		loading bool
	}{
		{"unset", Props{Provider: openai}, false},
		{"all", Props{Provider: openai, Loading: LoadingAll}, true},
		{"all without provider", Props{Loading: LoadingAll}, true},
		{"current provider", Props{Provider: openai, Loading: "openai"}, true},
		{"other provider", Props{Provider: openai, Loading: "anthropic"}, false},
		{"provider name without provider", Props{Loading: "openai"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.loading, tt.props.IsLoading())
		})
	}
}

func TestModelLabel(t *testing.T) {
	t.Parallel()

	models := append(testModels(), ai.ModelInfo{Name: "nolabel", Provider: "openai"})
	assert.Equal(t, "GPT-4", ModelLabel(models, "gpt-4"))
	assert.Equal(t, "Select model", ModelLabel(models, ""))
	assert.Equal(t, "Select model", ModelLabel(models, "unknown"))
	assert.Equal(t, "Select model", ModelLabel(models, "nolabel"))
}
