// Package config loads scimwatch configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Level   string `mapstructure:"level"`
	Verbose bool   `mapstructure:"verbose"`

	// Server settings
	Server ServerConfig `mapstructure:"server"`

	// Default values for commands
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// ServerConfig holds serve command settings
type ServerConfig struct {
	Listen           string `mapstructure:"listen"`
	BufferSize       int    `mapstructure:"buffer_size"`
	SubscriberBuffer int    `mapstructure:"subscriber_buffer"`
}

// DefaultsConfig holds default values for client commands
type DefaultsConfig struct {
	ServerURL string `mapstructure:"server_url"`
	Limit     int    `mapstructure:"limit"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format: "auto",
		Level:  "INFO",
		Server: ServerConfig{
			Listen:           ":8092",
			BufferSize:       1000,
			SubscriberBuffer: 64,
		},
		Defaults: DefaultsConfig{
			ServerURL: "http://localhost:8092",
			Limit:     100,
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.scimwatch.yaml or ./.scimwatch.yml
// 2. ~/.scimwatch.yaml or ~/.scimwatch.yml
// 3. $XDG_CONFIG_HOME/scimwatch/config.yaml
// 4. /etc/scimwatch/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".scimwatch.yaml", ".scimwatch.yml", "scimwatch.yaml", "scimwatch.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "scimwatch"))
	}
	searchPaths = append(searchPaths, "/etc/scimwatch")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCIMWATCH_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("SCIMWATCH_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("SCIMWATCH_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("SCIMWATCH_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("SCIMWATCH_SERVER_URL"); v != "" {
		cfg.Defaults.ServerURL = v
	}
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
