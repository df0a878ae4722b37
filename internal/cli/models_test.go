package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmpick/internal/ai"
)

func TestFilterCatalog(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()

	all := filterCatalog(catalog, "")
	assert.Len(t, all, 3)

	mini := filterCatalog(catalog, "MINI")
	require.Len(t, mini, 1)
	assert.Equal(t, "gpt-4o-mini", mini[0].Name)

	sonnet := filterCatalog(catalog, "sonnet")
	require.Len(t, sonnet, 1)
	assert.Equal(t, "anthropic", sonnet[0].Provider)

	assert.Empty(t, filterCatalog(catalog, "zzz"))
}

func TestPrintModels(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	var buf bytes.Buffer
	printModels(&buf, catalog, filterCatalog(catalog, ""), "openai", "gpt-4o-mini")
	out := buf.String()

	assert.Contains(t, out, "# anthropic: missing API key (showing built-in models)")
	assert.Contains(t, out, "* openai/gpt-4o-mini")
	assert.Contains(t, out, "  openai/gpt-4o ")
	assert.Contains(t, out, "Claude Sonnet 4.5")
}

func TestPrintModels_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printModels(&buf, ai.ProviderCatalog{}, nil, "", "")
	assert.Equal(t, "(no models found)\n", buf.String())
}

func TestModelsCommand_JSON(t *testing.T) {
	client := &fakeCatalogClient{catalog: testCatalog()}
	applyCLISeams(t, cliSeamOverrides{client: client})

	out, _, err := runRoot(t, t.TempDir(), "models", "--json", "--search", "gpt")
	require.NoError(t, err)

	var rows []ai.ModelInfo
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "gpt-4o", rows[0].Name)

	require.Len(t, client.loads, 1)
	assert.Equal(t, []string{"openai", "anthropic", "ollama"}, client.loads[0].Only)
	assert.False(t, strings.Contains(out, "claude"))
}
