// Package config loads the marquill client configuration from
// ~/.config/marquill/config.toml, falling back to defaults when the file is
// absent.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields marquill needs to reach its backend and the
// stock photo API.
type Config struct {
	APIBase           string
	UnsplashAccessKey string
	RefreshInterval   time.Duration
}

const (
	defaultConfigPath     = "~/.config/marquill/config.toml"
	defaultAPIBase        = "http://localhost:3500/api/v1"
	defaultRefreshSeconds = 30
	minRefreshSeconds     = 5
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBase:         defaultAPIBase,
		RefreshInterval: defaultRefreshSeconds * time.Second,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.UnsplashAccessKey = envUnsplashKey()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase           string `toml:"api_base"`
		UnsplashAccessKey string `toml:"unsplash_access_key"`
		RefreshSeconds    int    `toml:"refresh_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if base := strings.TrimSpace(raw.APIBase); base != "" {
		cfg.APIBase = base
	}

	cfg.UnsplashAccessKey = strings.TrimSpace(raw.UnsplashAccessKey)
	if cfg.UnsplashAccessKey == "" {
		cfg.UnsplashAccessKey = envUnsplashKey()
	}

	if raw.RefreshSeconds > 0 {
		seconds := raw.RefreshSeconds
		if seconds < minRefreshSeconds {
			seconds = minRefreshSeconds
		}
		cfg.RefreshInterval = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// envUnsplashKey lets the access key come from the environment so it stays
// out of config files committed to dotfile repos.
func envUnsplashKey() string {
	return strings.TrimSpace(os.Getenv("MARQUILL_UNSPLASH_ACCESS_KEY"))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
