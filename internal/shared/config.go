package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Service  ServiceConfig  `toml:"service"`
	Database DatabaseConfig `toml:"database"`
	Share    ShareConfig    `toml:"share"`
}

// ServiceConfig contains vault service connection settings.
type ServiceConfig struct {
	BaseURL         string  `toml:"base_url"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
	SearchRateLimit float64 `toml:"search_rate_limit"`
}

// DatabaseConfig contains settings for the local offline-cache database.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ShareConfig contains settings for share links and the local preview server.
type ShareConfig struct {
	PublicBaseURL string `toml:"public_base_url"`
	PreviewHost   string `toml:"preview_host"`
	PreviewPort   int    `toml:"preview_port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// The SNIPVAULT_API_URL environment variable, when set, overrides the
// configured service base URL (godotenv loads .env before this runs).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&config)
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	applyEnvOverrides(&config)
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func applyEnvOverrides(config *Config) {
	if url := os.Getenv("SNIPVAULT_API_URL"); url != "" {
		config.Service.BaseURL = url
	}
}
