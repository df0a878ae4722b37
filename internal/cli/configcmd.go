package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"llmpick/internal/ai/providers"
	"llmpick/internal/config"
	"llmpick/internal/xdg"
)

var configKeys = []string{
	"enabledProviders", "selectedProvider", "selectedModel",
	"catalogTtlSeconds", "logLevel",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage llmpick configuration",
}

var configGetCmd = &cobra.Command{
	Use:       "get KEY",
	Short:     "Get a config value",
	Args:      cobra.ExactArgs(1),
	ValidArgs: configKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := xdg.ConfigDir()
		if err != nil {
			return err
		}
		cfg, err := config.LoadOrCreate(configDir)
		if err != nil {
			return err
		}
		val, err := getConfigField(cfg, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set KEY VALUE",
	Short:     "Set a config value",
	Args:      cobra.ExactArgs(2),
	ValidArgs: configKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := xdg.ConfigDir()
		if err != nil {
			return err
		}
		cfg, err := config.LoadOrCreate(configDir)
		if err != nil {
			return err
		}
		if err := setConfigField(&cfg, args[0], args[1]); err != nil {
			return err
		}
		return config.Save(configDir, cfg)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show full config JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := xdg.ConfigDir()
		if err != nil {
			return err
		}
		cfg, err := config.LoadOrCreate(configDir)
		if err != nil {
			return err
		}
		for k := range cfg.Env {
			cfg.Env[k] = "********"
		}
		b, _ := json.MarshalIndent(cfg, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := xdg.ConfigDir()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Path(configDir))
		fmt.Fprintln(cmd.OutOrStdout(), config.ModelsPath(configDir))
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit config file in your editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := xdg.ConfigDir()
		if err != nil {
			return err
		}
		// Ensure config exists
		_, err = config.LoadOrCreate(configDir)
		if err != nil {
			return err
		}

		editorCmd := exec.Command(getEditor(), config.Path(configDir))
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr
		if err := editorCmd.Run(); err != nil {
			return err
		}

		// Surface mistakes now rather than on the next run.
		_, err = config.LoadOrCreate(configDir)
		return err
	},
}

var configResetCmd = &cobra.Command{
	Use:       "reset [KEY]",
	Short:     "Reset config (or a specific key) to default values",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"enabledProviders", "selection", "cache"},
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := xdg.ConfigDir()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if err := config.Save(configDir, config.Default()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Config reset to default values")
			return nil
		}

		key := args[0]
		if key == "cache" {
			cacheDir, err := xdg.CacheDir()
			if err != nil {
				return err
			}
			if err := providers.ClearCache(cacheDir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Model catalog cache cleared")
			return nil
		}

		cfg, err := config.LoadOrCreate(configDir)
		if err != nil {
			return err
		}
		switch key {
		case "enabledProviders":
			cfg.EnabledProviders = config.Default().EnabledProviders
		case "selection":
			cfg.SelectedProvider = ""
			cfg.SelectedModel = ""
		default:
			return fmt.Errorf("resetting key %q is not supported (try 'llmpick config reset' for everything)", key)
		}
		if err := config.Save(configDir, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config key '%s' reset to default values\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

func getConfigField(cfg config.Config, key string) (string, error) {
	switch key {
	case "enabledProviders":
		return strings.Join(cfg.EnabledProviders, ","), nil
	case "selectedProvider":
		return cfg.SelectedProvider, nil
	case "selectedModel":
		return cfg.SelectedModel, nil
	case "catalogTtlSeconds":
		return strconv.Itoa(cfg.CatalogTTLSeconds), nil
	case "logLevel":
		return cfg.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

func setConfigField(cfg *config.Config, key, val string) error {
	switch key {
	case "enabledProviders":
		var names []string
		for _, name := range strings.Split(val, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			p, err := requireKnownProvider(name)
			if err != nil {
				return err
			}
			names = append(names, p.Name)
		}
		cfg.EnabledProviders = names
	case "selectedProvider":
		cfg.SelectedProvider = val
	case "selectedModel":
		cfg.SelectedModel = val
	case "catalogTtlSeconds":
		v, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("catalogTtlSeconds: %w", err)
		}
		cfg.CatalogTTLSeconds = v
	case "logLevel":
		cfg.LogLevel = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// getEditor returns the user's preferred editor based on environment variables
// or a sensible default for the platform.
func getEditor() string {
	// Check VISUAL first (for full-screen editors)
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	// Fall back to EDITOR
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	// Default to vi (available on virtually all Unix systems)
	return "vi"
}
