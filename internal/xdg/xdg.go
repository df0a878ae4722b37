// Package xdg resolves the directories llmpick reads and writes.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "llmpick"

// ConfigDirEnv overrides every directory below with a single root, which is
// handy for tests and portable installs.
const ConfigDirEnv = "LLMPICK_CONFIG_DIR"

// ConfigDir holds config.json and models.yaml.
func ConfigDir() (string, error) {
	return ensure(resolve(xdg.ConfigHome, ""))
}

// CacheDir holds the fetched model catalog.
func CacheDir() (string, error) {
	return ensure(resolve(xdg.CacheHome, "cache"))
}

// StateDir holds log files.
func StateDir() (string, error) {
	return ensure(resolve(xdg.StateHome, "state"))
}

func resolve(base, sub string) string {
	if root := os.Getenv(ConfigDirEnv); root != "" {
		return filepath.Join(root, sub)
	}
	return filepath.Join(base, appName)
}

func ensure(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
