package providers

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"llmpick/internal/ai"
)

var googleMeta = meta{
	name:        "google",
	displayName: "Google",
	keys:        []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY"},
	keyURL:      "https://aistudio.google.com/app/apikey",
	defaultBase: "https://generativelanguage.googleapis.com/v1beta",
	static: []staticModel{
		{"gemini-2.5-pro", "Gemini 2.5 Pro", 1048576},
		{"gemini-2.5-flash", "Gemini 2.5 Flash", 1048576},
		{"gemini-2.0-flash", "Gemini 2.0 Flash", 1048576},
	},
}

type googleConnector struct {
	meta
}

type googleModelList struct {
	Models []struct {
		Name                       string   `json:"name"`
		DisplayName                string   `json:"displayName"`
		InputTokenLimit            int      `json:"inputTokenLimit"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

func (c *googleConnector) fetch(ctx context.Context, client *http.Client, env map[string]string) ([]ai.ModelInfo, time.Time, error) {
	key := envValue(env, c.keys...)
	if key == "" {
		return nil, time.Time{}, errMissingAPIKey
	}

	var list googleModelList
	endpoint := c.baseURL(env) + "/models?pageSize=1000&key=" + url.QueryEscape(key)
	if err := getJSON(ctx, client, endpoint, nil, &list); err != nil {
		// The key is part of the URL; keep it out of the recorded error.
		return nil, time.Time{}, redact(err, key)
	}

	models := make([]ai.ModelInfo, 0, len(list.Models))
	for _, item := range list.Models {
		if !slices.Contains(item.SupportedGenerationMethods, "generateContent") {
			continue
		}
		name := strings.TrimPrefix(item.Name, "models/")
		if name == "" {
			continue
		}
		label := item.DisplayName
		if label == "" {
			label = name
		}
		models = append(models, ai.ModelInfo{
			Name:      name,
			Label:     label,
			Provider:  c.name,
			MaxTokens: item.InputTokenLimit,
		})
	}
	return models, time.Now(), nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, secret string) error {
	if err == nil || secret == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(secret), "REDACTED")
	msg = strings.ReplaceAll(msg, secret, "REDACTED")
	return &redactedError{msg: msg, err: err}
}
