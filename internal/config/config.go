// Package config handles workspace and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents workspace configuration stored in .kgx/config.json.
type Config struct {
	ServiceURL string `json:"service_url,omitempty"` // Generation service base URL
	Model      string `json:"model,omitempty"`       // Preferred model for this workspace
}

const (
	KgxDir          = ".kgx"
	ConfigFile      = "config.json"
	GraphsFile      = "graphs.jsonl"
	PreferencesFile = "preferences.json"
	ModelFile       = "model.json"
	CursorFile      = "cursor.json"
	CacheDir        = "cache"
	IndexFile       = "index.db"
)

// KgxPath returns the path to the .kgx directory from a root path.
func KgxPath(root string) string {
	return filepath.Join(root, KgxDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, KgxDir, ConfigFile)
}

// GraphsPath returns the path to graphs.jsonl from a root path.
func GraphsPath(root string) string {
	return filepath.Join(root, KgxDir, GraphsFile)
}

// PreferencesPath returns the path to preferences.json from a root path.
func PreferencesPath(root string) string {
	return filepath.Join(root, KgxDir, PreferencesFile)
}

// ModelPath returns the path to model.json from a root path.
func ModelPath(root string) string {
	return filepath.Join(root, KgxDir, ModelFile)
}

// CursorPath returns the path to cursor.json from a root path.
func CursorPath(root string) string {
	return filepath.Join(root, KgxDir, CursorFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, KgxDir, CacheDir)
}

// IndexPath returns the path to the SQLite search index from a root path.
func IndexPath(root string) string {
	return filepath.Join(root, KgxDir, CacheDir, IndexFile)
}

// IsWorkspace checks if the given path contains a kgx workspace.
func IsWorkspace(root string) bool {
	info, err := os.Stat(KgxPath(root))
	return err == nil && info.IsDir()
}

// FindWorkspace walks up from the given path to find a kgx workspace.
// Returns the workspace root path or an error if not found.
func FindWorkspace(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsWorkspace(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a kgx workspace (no .kgx directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the workspace at the given root. A missing
// config file yields an empty config, not an error.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the workspace at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
