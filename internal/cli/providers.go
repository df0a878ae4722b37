package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"llmpick/internal/ai"
	"llmpick/internal/ai/providers"
	"llmpick/internal/config"
)

var providersCmd = &cobra.Command{
	Use:     "providers",
	Aliases: []string{"ls"},
	Short:   "List known providers and whether they are enabled",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		printProviders(cmd.OutOrStdout(), providers.Registry(), app.cfg, app.env)
		return nil
	},
}

var enableCmd = &cobra.Command{
	Use:               "enable NAME...",
	Short:             "Enable providers in the picker",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeProviderNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateEnabled(cmd, args, true)
	},
}

var disableCmd = &cobra.Command{
	Use:               "disable NAME...",
	Short:             "Disable providers in the picker",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeProviderNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateEnabled(cmd, args, false)
	},
}

func updateEnabled(cmd *cobra.Command, names []string, enable bool) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	changed := false
	for _, name := range names {
		p, err := requireKnownProvider(name)
		if err != nil {
			return err
		}
		var did bool
		if enable {
			did = app.cfg.Enable(p.Name)
		} else {
			did = app.cfg.Disable(p.Name)
		}
		switch {
		case did && enable:
			fmt.Fprintf(cmd.OutOrStdout(), "Enabled %s\n", p.Name)
		case did:
			fmt.Fprintf(cmd.OutOrStdout(), "Disabled %s\n", p.Name)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s unchanged\n", p.Name)
		}
		changed = changed || did
	}
	if !changed {
		return nil
	}
	if len(app.cfg.EnabledProviders) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: no providers are enabled; the picker will be empty.")
	}
	return config.Save(app.configDir, app.cfg)
}

// printProviders writes one line per provider in ls -l style: a "*" marks the
// selected provider, then name, enabled state, key state and title.
func printProviders(w io.Writer, list []ai.ProviderInfo, cfg config.Config, env map[string]string) {
	width := 0
	for _, p := range list {
		width = max(width, len(p.Name))
	}
	fmt.Fprintf(w, "total %d\n", len(list))
	for _, p := range list {
		mark := " "
		if p.Name == cfg.SelectedProvider {
			mark = "*"
		}
		enabled := "disabled"
		if cfg.Enabled(p.Name) {
			enabled = "enabled"
		}
		fmt.Fprintf(w, "%s %-*s %-8s %-11s %s\n", mark, width, p.Name, enabled, keyStatus(p, env), p.Title)
	}
	if cfg.SelectedProvider != "" {
		fmt.Fprintf(w, "\nSelected: %s/%s\n", cfg.SelectedProvider, cfg.SelectedModel)
	} else {
		fmt.Fprintln(w, "\nSelected: (none)")
	}
}

func keyStatus(p ai.ProviderInfo, env map[string]string) string {
	if p.Local {
		return "local"
	}
	for _, key := range p.EnvKeys {
		if env[key] != "" {
			return "key set"
		}
	}
	return "key missing"
}
