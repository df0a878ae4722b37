package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"llmpick/internal/ai"
)

var errMissingAPIKey = errors.New("missing API key")

// connector knows how to describe a provider and list its models.
type connector interface {
	id() string
	title() string
	envKeys() []string
	hasCredentials(env map[string]string) bool
	fetch(ctx context.Context, client *http.Client, env map[string]string) ([]ai.ModelInfo, time.Time, error)
	info() ai.ProviderInfo
}

// meta carries the static description shared by every connector.
type meta struct {
	name        string
	displayName string
	keys        []string
	keyURL      string
	defaultBase string
	local       bool
	static      []staticModel
}

type staticModel struct {
	name      string
	label     string
	maxTokens int
}

func (m meta) id() string        { return m.name }
func (m meta) title() string     { return m.displayName }
func (m meta) envKeys() []string { return m.keys }

func (m meta) hasCredentials(env map[string]string) bool {
	if m.local {
		return true
	}
	return envValue(env, m.keys...) != ""
}

// baseURL prefers NAME_BASE_URL from env over the built-in endpoint.
func (m meta) baseURL(env map[string]string) string {
	if v := envValue(env, BaseURLEnvKey(m.name)); v != "" {
		return strings.TrimRight(v, "/")
	}
	return m.defaultBase
}

func (m meta) staticModels() []ai.ModelInfo {
	out := make([]ai.ModelInfo, 0, len(m.static))
	for _, s := range m.static {
		out = append(out, ai.ModelInfo{
			Name:      s.name,
			Label:     s.label,
			Provider:  m.name,
			MaxTokens: s.maxTokens,
		})
	}
	return out
}

func (m meta) info() ai.ProviderInfo {
	return ai.ProviderInfo{
		Name:         m.name,
		Title:        m.displayName,
		EnvKeys:      m.keys,
		APIKeyURL:    m.keyURL,
		BaseURL:      m.defaultBase,
		Local:        m.local,
		StaticModels: m.staticModels(),
	}
}

// BaseURLEnvKey is the environment variable that overrides a provider's
// endpoint, e.g. OLLAMA_BASE_URL.
func BaseURLEnvKey(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_BASE_URL"
}

func connectors() []connector {
	return []connector{
		newOpenAICompatible(openAIMeta),
		&anthropicConnector{meta: anthropicMeta},
		&googleConnector{meta: googleMeta},
		newOpenAICompatible(groqMeta),
		newOpenAICompatible(mistralMeta),
		newOpenAICompatible(deepseekMeta),
		newOpenAICompatible(openRouterMeta),
		&ollamaConnector{meta: ollamaMeta},
		newOpenAICompatible(lmStudioMeta),
		&bedrockConnector{meta: bedrockMeta},
	}
}

// Registry returns every built-in provider in display order.
func Registry() []ai.ProviderInfo {
	cs := connectors()
	out := make([]ai.ProviderInfo, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.info())
	}
	return out
}

// Lookup returns the built-in provider with the given name.
func Lookup(name string) (ai.ProviderInfo, bool) {
	return ai.FindProvider(Registry(), name)
}

func findConnector(name string) (connector, bool) {
	for _, c := range connectors() {
		if c.id() == name {
			return c, true
		}
	}
	return nil, false
}

func envValue(env map[string]string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(env[key]); val != "" {
			return val
		}
	}
	return ""
}

// getJSON issues a GET and decodes a JSON body into out.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: %s: %s", url, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
