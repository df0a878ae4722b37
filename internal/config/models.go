package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"llmpick/internal/ai"
)

// ModelsPath is the optional file of user-defined models.
func ModelsPath(dir string) string { return filepath.Join(dir, "models.yaml") }

// modelsFile is the models.yaml layout:
//
//	models:
//	  ollama:
//	    - name: qwen2.5-coder:32b
//	      label: Qwen Coder 32B
//	  openai:
//	    - name: ft:gpt-4o-mini:acme
type modelsFile struct {
	Models map[string][]ai.ModelInfo `yaml:"models"`
}

// LoadCustomModels reads models.yaml. A missing file yields no models.
// The provider key of each group overrides any provider set on its entries.
func LoadCustomModels(configDir string) ([]ai.ModelInfo, error) {
	data, err := os.ReadFile(ModelsPath(configDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var f modelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ModelsPath(configDir), err)
	}

	providers := make([]string, 0, len(f.Models))
	for name := range f.Models {
		providers = append(providers, name)
	}
	slices.Sort(providers)

	var out []ai.ModelInfo
	for _, provider := range providers {
		for i, m := range f.Models[provider] {
			m.Name = strings.TrimSpace(m.Name)
			if m.Name == "" {
				return nil, fmt.Errorf("models.%s[%d]: name is required", provider, i)
			}
			m.Provider = strings.ToLower(provider)
			out = append(out, m)
		}
	}
	return out, nil
}
