package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "cropframe"

// Loader locates and reads the configuration file.
type Loader struct {
	Version      string // "dev" enables ./.cropframerc
	OverridePath string // set at build time or by -config
	// Home replaces os.UserHomeDir when non-empty.
	Home string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load reads and validates the configuration, or returns defaults when no
// file exists.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (l *Loader) home() string {
	if l.Home != "" {
		return l.Home
	}
	home, _ := os.UserHomeDir()
	return home
}

// DefaultPath is where Save writes when no file exists yet.
func (l *Loader) DefaultPath() string {
	return filepath.Join(l.home(), ".config", appName, "config.rc")
}

// GetConfigPath returns the first existing configuration file, or "".
func (l *Loader) GetConfigPath() string {
	var candidates []string
	if l.OverridePath != "" {
		candidates = append(candidates, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(wd, "."+appName+"rc"))
		}
	}
	candidates = append(candidates,
		l.DefaultPath(),
		filepath.Join(l.home(), ".config", appName, appName+".rc"),
	)
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Save writes cfg to the existing config file or DefaultPath and returns
// the path used.
func (l *Loader) Save(cfg *Config) (string, error) {
	path := l.GetConfigPath()
	if path == "" {
		path = l.DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return path, nil
}
