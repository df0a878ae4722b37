package providers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"llmpick/internal/ai"
)

var openAIMeta = meta{
	name:        "openai",
	displayName: "OpenAI",
	keys:        []string{"OPENAI_API_KEY"},
	keyURL:      "https://platform.openai.com/api-keys",
	defaultBase: "https://api.openai.com/v1",
	static: []staticModel{
		{"gpt-4o", "GPT-4o", 128000},
		{"gpt-4o-mini", "GPT-4o Mini", 128000},
		{"gpt-4.1", "GPT-4.1", 1047576},
		{"o3-mini", "o3 Mini", 200000},
	},
}

var groqMeta = meta{
	name:        "groq",
	displayName: "Groq",
	keys:        []string{"GROQ_API_KEY"},
	keyURL:      "https://console.groq.com/keys",
	defaultBase: "https://api.groq.com/openai/v1",
	static: []staticModel{
		{"llama-3.3-70b-versatile", "Llama 3.3 70B", 131072},
		{"llama-3.1-8b-instant", "Llama 3.1 8B Instant", 131072},
	},
}

var mistralMeta = meta{
	name:        "mistral",
	displayName: "Mistral",
	keys:        []string{"MISTRAL_API_KEY"},
	keyURL:      "https://console.mistral.ai/api-keys/",
	defaultBase: "https://api.mistral.ai/v1",
	static: []staticModel{
		{"mistral-large-latest", "Mistral Large", 131072},
		{"mistral-small-latest", "Mistral Small", 32768},
		{"codestral-latest", "Codestral", 256000},
	},
}

var deepseekMeta = meta{
	name:        "deepseek",
	displayName: "Deepseek",
	keys:        []string{"DEEPSEEK_API_KEY"},
	keyURL:      "https://platform.deepseek.com/apiKeys",
	defaultBase: "https://api.deepseek.com",
	static: []staticModel{
		{"deepseek-chat", "Deepseek Chat", 65536},
		{"deepseek-reasoner", "Deepseek Reasoner", 65536},
	},
}

var openRouterMeta = meta{
	name:        "openrouter",
	displayName: "OpenRouter",
	keys:        []string{"OPENROUTER_API_KEY", "OPENROUTER_KEY"},
	keyURL:      "https://openrouter.ai/settings/keys",
	defaultBase: "https://openrouter.ai/api/v1",
	static: []staticModel{
		{"anthropic/claude-sonnet-4", "Claude Sonnet 4 (OpenRouter)", 200000},
		{"openai/gpt-4o", "GPT-4o (OpenRouter)", 128000},
	},
}

var lmStudioMeta = meta{
	name:        "lmstudio",
	displayName: "LM Studio",
	defaultBase: "http://localhost:1234/v1",
	local:       true,
}

// openAICompatible lists models from any endpoint that implements the
// OpenAI GET /models shape.
type openAICompatible struct {
	meta
}

func newOpenAICompatible(m meta) *openAICompatible {
	return &openAICompatible{meta: m}
}

type openAIModelList struct {
	Data []struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		ContextLength int    `json:"context_length"`
	} `json:"data"`
}

func (c *openAICompatible) fetch(ctx context.Context, client *http.Client, env map[string]string) ([]ai.ModelInfo, time.Time, error) {
	headers := map[string]string{}
	if !c.local {
		key := envValue(env, c.keys...)
		if key == "" {
			return nil, time.Time{}, errMissingAPIKey
		}
		headers["Authorization"] = "Bearer " + key
	}

	var list openAIModelList
	if err := getJSON(ctx, client, c.baseURL(env)+"/models", headers, &list); err != nil {
		return nil, time.Time{}, err
	}

	known := map[string]ai.ModelInfo{}
	for _, m := range c.staticModels() {
		known[m.Name] = m
	}

	models := make([]ai.ModelInfo, 0, len(list.Data))
	for _, item := range list.Data {
		if item.ID == "" || !c.chatModel(item.ID) {
			continue
		}
		model := ai.ModelInfo{
			Name:      item.ID,
			Label:     item.Name,
			Provider:  c.name,
			MaxTokens: item.ContextLength,
		}
		if s, ok := known[item.ID]; ok {
			model.Label = s.Label
			if model.MaxTokens == 0 {
				model.MaxTokens = s.MaxTokens
			}
		}
		if model.Label == "" {
			model.Label = item.ID
		}
		models = append(models, model)
	}
	sort.SliceStable(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models, time.Now(), nil
}

// chatModel drops embeddings, audio and moderation entries that OpenAI lists
// alongside chat models.
func (c *openAICompatible) chatModel(id string) bool {
	if c.name != "openai" {
		return true
	}
	lower := strings.ToLower(id)
	for _, skip := range []string{"embedding", "whisper", "tts", "dall-e", "moderation", "davinci", "babbage", "audio", "transcribe", "image"} {
		if strings.Contains(lower, skip) {
			return false
		}
	}
	return true
}
