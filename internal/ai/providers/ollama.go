package providers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"llmpick/internal/ai"
)

var ollamaMeta = meta{
	name:        "ollama",
	displayName: "Ollama",
	defaultBase: "http://localhost:11434",
	local:       true,
}

type ollamaConnector struct {
	meta
}

type ollamaTags struct {
	Models []struct {
		Name    string `json:"name"`
		Model   string `json:"model"`
		Details struct {
			ParameterSize string `json:"parameter_size"`
		} `json:"details"`
	} `json:"models"`
}

func (c *ollamaConnector) fetch(ctx context.Context, client *http.Client, env map[string]string) ([]ai.ModelInfo, time.Time, error) {
	var tags ollamaTags
	if err := getJSON(ctx, client, c.baseURL(env)+"/api/tags", nil, &tags); err != nil {
		return nil, time.Time{}, err
	}

	models := make([]ai.ModelInfo, 0, len(tags.Models))
	for _, item := range tags.Models {
		name := item.Name
		if name == "" {
			name = item.Model
		}
		if name == "" {
			continue
		}
		label := strings.TrimSuffix(name, ":latest")
		if size := item.Details.ParameterSize; size != "" {
			label += " (" + size + ")"
		}
		models = append(models, ai.ModelInfo{
			Name:     name,
			Label:    label,
			Provider: c.name,
		})
	}
	return models, time.Now(), nil
}
