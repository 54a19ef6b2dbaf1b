package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/kgx/config.yml.
type GlobalConfig struct {
	ServiceURL        string `yaml:"service_url,omitempty"`
	VerificationToken string `yaml:"verification_token,omitempty"`
	DefaultModel      string `yaml:"default_model,omitempty"`
	AvailableModels   string `yaml:"available_models,omitempty"` // Comma-separated filter
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "kgx"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// Environment variable overrides. A .env file in the working directory
	// is loaded once before these are read.
	EnvServiceURL      = "KGX_SERVICE_URL"
	EnvToken           = "KGX_SERVICE_TOKEN"
	EnvAvailableModels = "KGX_AVAILABLE_MODELS"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// dotenvLoaded guards the one-time .env load.
var dotenvLoaded bool

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/kgx/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file, applying .env and
// environment overrides. Returns an empty config (not an error) if the file
// doesn't exist or cannot be parsed.
func LoadGlobalConfig() *GlobalConfig {
	if globalConfigCache != nil {
		return globalConfigCache
	}

	if !dotenvLoaded {
		godotenv.Load()
		dotenvLoaded = true
	}

	cfg := &GlobalConfig{}
	if path := GlobalConfigPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			// Malformed YAML falls back to the empty config.
			yaml.Unmarshal(data, cfg)
		}
	}

	if v := os.Getenv(EnvServiceURL); v != "" {
		cfg.ServiceURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.VerificationToken = v
	}
	if v := os.Getenv(EnvAvailableModels); v != "" {
		cfg.AvailableModels = v
	}

	globalConfigCache = cfg
	return cfg
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetServiceURL returns the generation service base URL, preferring the
// workspace config over the global one.
func GetServiceURL(workspace *Config) string {
	if workspace != nil && workspace.ServiceURL != "" {
		return workspace.ServiceURL
	}
	return LoadGlobalConfig().ServiceURL
}

// GetVerificationToken returns the bot-verification token, or "".
func GetVerificationToken() string {
	return LoadGlobalConfig().VerificationToken
}

// AvailableModelFilter returns the configured available-model names, or nil
// when no filter is set.
func AvailableModelFilter() []string {
	raw := LoadGlobalConfig().AvailableModels
	if raw == "" {
		return nil
	}
	var models []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}
