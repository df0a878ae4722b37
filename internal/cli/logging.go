package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// newCLILogger writes colored logs to stderr for non-interactive commands.
func newCLILogger(w io.Writer, level string, verbose bool) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:   logLevel(level, verbose),
		NoColor: noColor,
	}))
}

// newTUILogger writes JSON logs to a file under stateDir so they do not
// interfere with the full-screen program. The returned closer must be called
// on exit.
func newTUILogger(stateDir, level string, verbose bool) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: logLevel(level, verbose)}
	if stateDir == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), nopCloser{}
	}
	file, err := os.OpenFile(filepath.Join(stateDir, "llmpick.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), nopCloser{}
	}
	return slog.New(slog.NewJSONHandler(file, opts)), file
}

func logLevel(level string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
