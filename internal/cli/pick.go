package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"llmpick/internal/config"
)

var errNotTerminal = errors.New("the interactive picker needs a terminal; use 'llmpick models' in scripts")

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose a provider and model interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPick(cmd)
	},
}

func runPick(cmd *cobra.Command) error {
	if !isTerminal() {
		return errNotTerminal
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}

	logger, closer := newTUILogger(app.stateDir, app.cfg.LogLevel, app.verbose)
	defer closer.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, err := config.Watch(ctx, app.configDir, config.DefaultDebounce)
	if err != nil {
		// Live reload is a convenience; the picker works without it.
		logger.Warn("config watch unavailable", "err", err)
		changes = nil
	}

	m := newPickModel(pickOptions{
		ctx:       ctx,
		client:    catalogClient(logger),
		configDir: app.configDir,
		cacheDir:  app.cacheDir,
		cfg:       app.cfg,
		extra:     app.extra,
		environ:   os.Environ(),
		changes:   changes,
		logger:    logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	pm, ok := final.(pickModel)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}
	if pm.canceled {
		return nil
	}
	provider, model := pm.Selection()
	printSelection(cmd.OutOrStdout(), cmd.ErrOrStderr(), provider, model)
	return nil
}

// printSelection writes "provider/model" to out. An incomplete selection is
// reported on errOut instead, so out only ever carries a usable pair.
func printSelection(out, errOut io.Writer, provider, model string) {
	switch {
	case provider == "":
		fmt.Fprintln(errOut, "No provider selected.")
	case model == "":
		fmt.Fprintf(errOut, "No model selected for %s.\n", provider)
	default:
		fmt.Fprintf(out, "%s/%s\n", provider, model)
	}
}
