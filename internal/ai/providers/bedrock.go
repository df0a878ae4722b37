package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"llmpick/internal/ai"
)

// Bedrock has no public listing endpoint usable with plain keys, so the model
// list is fixed.
var bedrockModelIDs = []string{
	"us.anthropic.claude-opus-4-6-v1",
	"us.anthropic.claude-sonnet-4-6",
	"us.anthropic.claude-sonnet-4-5-20250929-v1:0",
	"us.anthropic.claude-haiku-4-5-20251001-v1:0",
}

var bedrockMeta = meta{
	name:        "bedrock",
	displayName: "AWS Bedrock",
	keys:        []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"},
	keyURL:      "https://console.aws.amazon.com/iam/home#/security_credentials",
	static:      bedrockStatic(),
}

func bedrockStatic() []staticModel {
	out := make([]staticModel, 0, len(bedrockModelIDs))
	for _, id := range bedrockModelIDs {
		out = append(out, staticModel{name: id, label: formatBedrockModelName(id), maxTokens: 200000})
	}
	return out
}

type bedrockConnector struct {
	meta
}

func (c *bedrockConnector) hasCredentials(env map[string]string) bool {
	accessKey := envValue(env, "AWS_ACCESS_KEY_ID")
	secretKey := envValue(env, "AWS_SECRET_ACCESS_KEY")
	return accessKey != "" && secretKey != ""
}

func (c *bedrockConnector) fetch(ctx context.Context, client *http.Client, env map[string]string) ([]ai.ModelInfo, time.Time, error) {
	if !c.hasCredentials(env) {
		return nil, time.Time{}, errMissingAPIKey
	}

	region := envValue(env, "AWS_REGION", "AWS_DEFAULT_REGION")
	if region == "" {
		region = "us-west-2"
	}

	models := c.staticModels()
	for i := range models {
		models[i].Label = fmt.Sprintf("%s (%s)", models[i].Label, region)
	}
	return models, time.Now(), nil
}

func formatBedrockModelName(modelID string) string {
	// "us.anthropic.claude-sonnet-4-5-20250929-v1:0" -> "Claude Sonnet 4.5"
	parts := strings.Split(modelID, ".")
	if len(parts) < 3 {
		return modelID
	}

	modelPart := parts[len(parts)-1]
	modelPart = strings.Split(modelPart, ":")[0]
	modelPart = strings.TrimSuffix(modelPart, "-v1")

	nameParts := strings.Split(modelPart, "-")
	if len(nameParts) < 3 || nameParts[0] != "claude" {
		return modelID
	}

	result := []string{"Claude", capitalize(nameParts[1])}
	if len(nameParts) >= 4 && len(nameParts[3]) <= 2 {
		result = append(result, fmt.Sprintf("%s.%s", nameParts[2], nameParts[3]))
	} else {
		result = append(result, nameParts[2])
	}
	return strings.Join(result, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
