package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"llmpick/internal/ai"
	"llmpick/internal/ai/providers"
	"llmpick/internal/config"
	"llmpick/internal/xdg"
)

var (
	// Test seams – swapped in tests (non-parallel only unless synchronized).
	seamsMu sync.RWMutex

	newCatalogClient = func(logger *slog.Logger) providers.CatalogClient {
		return providers.NewClient(logger)
	}
	stdoutIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
)

func catalogClient(logger *slog.Logger) providers.CatalogClient {
	seamsMu.RLock()
	defer seamsMu.RUnlock()
	return newCatalogClient(logger)
}

func isTerminal() bool {
	seamsMu.RLock()
	defer seamsMu.RUnlock()
	return stdoutIsTerminal()
}

// isTruthyEnv returns true for truthy environment variable values.
func isTruthyEnv(key string) bool {
	val := strings.TrimSpace(os.Getenv(key))
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// appContext bundles what every command loads before doing work.
type appContext struct {
	configDir string
	cacheDir  string
	stateDir  string
	cfg       config.Config
	extra     []ai.ModelInfo
	env       map[string]string
	verbose   bool
	logger    *slog.Logger
}

func loadApp(cmd *cobra.Command) (appContext, error) {
	configDir, err := xdg.ConfigDir()
	if err != nil {
		return appContext{}, err
	}
	cacheDir, err := xdg.CacheDir()
	if err != nil {
		return appContext{}, err
	}
	stateDir, err := xdg.StateDir()
	if err != nil {
		return appContext{}, err
	}
	cfg, err := config.LoadOrCreate(configDir)
	if err != nil {
		return appContext{}, err
	}
	extra, err := config.LoadCustomModels(configDir)
	if err != nil {
		return appContext{}, err
	}
	verbose := isTruthyEnv(verboseEnv)
	return appContext{
		configDir: configDir,
		cacheDir:  cacheDir,
		stateDir:  stateDir,
		cfg:       cfg,
		extra:     extra,
		env:       cfg.Environment(os.Environ()),
		verbose:   verbose,
		logger:    newCLILogger(cmd.ErrOrStderr(), cfg.LogLevel, verbose),
	}, nil
}

// catalogOptions builds loader options for the enabled providers.
func (a appContext) catalogOptions() providers.CatalogOptions {
	return catalogOptionsFor(a.cfg, a.extra, a.env, a.cacheDir, a.logger)
}

func catalogOptionsFor(cfg config.Config, extra []ai.ModelInfo, env map[string]string, cacheDir string, logger *slog.Logger) providers.CatalogOptions {
	return providers.CatalogOptions{
		Env:      env,
		CacheDir: cacheDir,
		TTL:      cfg.CatalogTTL(),
		Only:     append([]string{}, cfg.EnabledProviders...),
		BaseURLs: cfg.BaseURLs,
		Extra:    extra,
		Logger:   logger,
	}
}

// enabledProviders returns registry metadata for the enabled providers in
// config order. Unknown names are skipped.
func enabledProviders(cfg config.Config) []ai.ProviderInfo {
	out := make([]ai.ProviderInfo, 0, len(cfg.EnabledProviders))
	for _, name := range cfg.EnabledProviders {
		if p, ok := providers.Lookup(name); ok {
			out = append(out, p)
		}
	}
	return out
}

// staticModels lists the built-in and custom models of providers without
// touching the network.
func staticModels(list []ai.ProviderInfo, extra []ai.ModelInfo) []ai.ModelInfo {
	catalog := ai.ProviderCatalog{}
	for _, p := range list {
		catalog.Entries = append(catalog.Entries, ai.ProviderEntry{Provider: p, Models: p.StaticModels})
	}
	return providers.WithExtraModels(catalog, extra).Models()
}

func requireKnownProvider(name string) (ai.ProviderInfo, error) {
	p, ok := providers.Lookup(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return ai.ProviderInfo{}, fmt.Errorf("unknown provider %q (known: %s)", name, strings.Join(ai.ProviderNames(providers.Registry()), ", "))
	}
	return p, nil
}

// completeProviderNames suggests built-in provider names.
func completeProviderNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := strings.ToLower(strings.TrimSpace(toComplete))
	var suggestions []string
	for _, p := range providers.Registry() {
		if strings.HasPrefix(p.Name, prefix) {
			suggestions = append(suggestions, p.Name)
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}
