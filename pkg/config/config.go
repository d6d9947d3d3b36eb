package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Logging   LoggingConfig `mapstructure:"logging"`
	ShowSteps bool          `mapstructure:"show_steps"`
	Agent     AgentConfig   `mapstructure:"agent"`
	League    LeagueConfig  `mapstructure:"league"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// AgentConfig holds the streaming agent endpoint configuration
type AgentConfig struct {
	URL     string        `mapstructure:"url"`
	UserID  string        `mapstructure:"user_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LeagueConfig holds the static-data REST endpoint configuration
type LeagueConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

var (
	global *Config
	mu     sync.RWMutex
)

// SetDefaults registers default values on viper. Called from cmd init
// before any config file or environment variables are read.
func SetDefaults() {
	viper.SetDefault("show_steps", true)

	viper.SetDefault("agent.url", "http://localhost:8000")
	viper.SetDefault("agent.user_id", "")
	viper.SetDefault("agent.timeout", 0) // no stream timeout; cancellation is explicit

	viper.SetDefault("league.url", "http://localhost:8001")
	viper.SetDefault("league.timeout", 30*time.Second)

	viper.SetDefault("logging.log_file", "./.courtside/system.log")
	viper.SetDefault("logging.preserve", true)
	viper.SetDefault("logging.level", "info")
}

// Load unmarshals the current viper state into the global config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	mu.Lock()
	global = cfg
	mu.Unlock()
	return cfg, nil
}

// Get returns the global configuration, loading defaults if necessary
func Get() *Config {
	mu.RLock()
	cfg := global
	mu.RUnlock()
	if cfg != nil {
		return cfg
	}

	SetDefaults()
	loaded, err := Load()
	if err != nil {
		// Defaults are always unmarshalable; an error here means a
		// malformed config file, fall back to an empty config.
		return &Config{}
	}
	return loaded
}

// BuildSettingsPath resolves a filename relative to the settings directory
func BuildSettingsPath(filename string) string {
	dir := filepath.Dir(viper.ConfigFileUsed())
	if dir == "" || dir == "." {
		dir = "./.courtside"
	}
	return filepath.Join(dir, filename)
}

// EnsureSettingsDir creates the settings directory if it does not exist
func EnsureSettingsDir() error {
	dir := filepath.Dir(viper.ConfigFileUsed())
	if dir == "" || dir == "." {
		dir = "./.courtside"
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
