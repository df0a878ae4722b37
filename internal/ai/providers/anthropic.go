package providers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"llmpick/internal/ai"
)

var anthropicMeta = meta{
	name:        "anthropic",
	displayName: "Anthropic",
	keys:        []string{"ANTHROPIC_API_KEY"},
	keyURL:      "https://console.anthropic.com/settings/keys",
	defaultBase: "https://api.anthropic.com/v1",
	static: []staticModel{
		{"claude-sonnet-4-5", "Claude Sonnet 4.5", 200000},
		{"claude-opus-4-1", "Claude Opus 4.1", 200000},
		{"claude-haiku-4-5", "Claude Haiku 4.5", 200000},
	},
}

const (
	anthropicVersion = "2023-06-01"
	// Guards against an API that keeps reporting has_more.
	anthropicMaxPages = 20
)

type anthropicConnector struct {
	meta
}

type anthropicModelList struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"data"`
	HasMore bool   `json:"has_more"`
	LastID  string `json:"last_id"`
}

func (c *anthropicConnector) fetch(ctx context.Context, client *http.Client, env map[string]string) ([]ai.ModelInfo, time.Time, error) {
	key := envValue(env, c.keys...)
	if key == "" {
		return nil, time.Time{}, errMissingAPIKey
	}

	headers := map[string]string{
		"x-api-key":         key,
		"anthropic-version": anthropicVersion,
	}
	var models []ai.ModelInfo
	afterID := ""
	for page := 0; page < anthropicMaxPages; page++ {
		endpoint := c.baseURL(env) + "/models?limit=100"
		if afterID != "" {
			endpoint += "&after_id=" + url.QueryEscape(afterID)
		}
		var list anthropicModelList
		if err := getJSON(ctx, client, endpoint, headers, &list); err != nil {
			return nil, time.Time{}, err
		}
		for _, item := range list.Data {
			if item.ID == "" {
				continue
			}
			label := item.DisplayName
			if label == "" {
				label = item.ID
			}
			models = append(models, ai.ModelInfo{
				Name:      item.ID,
				Label:     label,
				Provider:  c.name,
				MaxTokens: 200000,
			})
		}
		if !list.HasMore || list.LastID == "" || list.LastID == afterID {
			break
		}
		afterID = list.LastID
	}
	return models, time.Now(), nil
}
