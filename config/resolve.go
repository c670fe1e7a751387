package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/claudestat/errors"
)

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// ResolveDataRoot expands and checks the configured data root.
// Every failure wraps errors.ErrDataDirNotFound.
func ResolveDataRoot(cfg *Config) (string, error) {
	root := cfg.Data.Root
	if root == "" {
		root = DefaultConfig().Data.Root
	}

	expanded, err := ExpandHome(os.ExpandEnv(root))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrDataDirNotFound, err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", errors.ErrDataDirNotFound, expanded, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errors.ErrDataDirNotFound, abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", errors.ErrDataDirNotFound, abs)
	}

	return abs, nil
}
