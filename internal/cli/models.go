package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"llmpick/internal/ai"
	"llmpick/internal/picker"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models of enabled providers",
	Long: `List the models of enabled providers, fetching them from each provider's API
when a key is available and falling back to the built-in list otherwise.

--search matches the model name or label, ignoring case.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		providerName, _ := cmd.Flags().GetString("provider")
		query, _ := cmd.Flags().GetString("search")
		refresh, _ := cmd.Flags().GetBool("refresh")
		asJSON, _ := cmd.Flags().GetBool("json")

		opts := app.catalogOptions()
		opts.Refresh = refresh
		if providerName != "" {
			p, err := requireKnownProvider(providerName)
			if err != nil {
				return err
			}
			opts.Only = []string{p.Name}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		catalog, err := catalogClient(app.logger).LoadCatalog(ctx, opts)
		if err != nil {
			return err
		}

		rows := filterCatalog(catalog, query)
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		printModels(cmd.OutOrStdout(), catalog, rows, app.cfg.SelectedProvider, app.cfg.SelectedModel)
		return nil
	},
}

func init() {
	modelsCmd.Flags().StringP("provider", "p", "", "Only list this provider's models")
	modelsCmd.Flags().StringP("search", "s", "", "Filter models by name or label")
	modelsCmd.Flags().Bool("refresh", false, "Ignore the cached catalog")
	modelsCmd.Flags().Bool("json", false, "Print JSON")
	_ = modelsCmd.RegisterFlagCompletionFunc("provider", completeProviderNames)
}

// filterCatalog applies the picker's search to every provider in turn.
func filterCatalog(catalog ai.ProviderCatalog, query string) []ai.ModelInfo {
	var out []ai.ModelInfo
	models := catalog.Models()
	for _, entry := range catalog.Entries {
		provider := entry.Provider
		out = append(out, picker.FilterModels(models, &provider, query)...)
	}
	return out
}

func printModels(w io.Writer, catalog ai.ProviderCatalog, rows []ai.ModelInfo, selectedProvider, selectedModel string) {
	for _, entry := range catalog.Entries {
		if entry.Error != "" {
			fmt.Fprintf(w, "# %s: %s (showing built-in models)\n", entry.Provider.Name, entry.Error)
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no models found)")
		return
	}
	width := 0
	for _, m := range rows {
		width = max(width, len(m.Provider)+1+len(m.Name))
	}
	for _, m := range rows {
		mark := " "
		if m.Provider == selectedProvider && m.Name == selectedModel {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-*s %s\n", mark, width, m.Provider+"/"+m.Name, m.Label)
	}
}
