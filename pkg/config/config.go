package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultWorkers is the number of concurrent user scans when nothing else is set.
	DefaultWorkers = 5

	// DefaultLogLevel keeps diagnostics off the report unless asked for.
	DefaultLogLevel = "warn"
)

// Config represents the shaihulud configuration
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Scan      ScanConfig      `yaml:"scan"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// GitHubConfig holds API access settings
type GitHubConfig struct {
	Token  string `yaml:"token,omitempty"`
	APIURL string `yaml:"api_url,omitempty"`
}

// ScanConfig controls scan concurrency and pacing
type ScanConfig struct {
	// Workers is nil when unset. Zero and negative counts are kept as given
	// and clamped to one by the scanner.
	Workers *int `yaml:"workers,omitempty"`
	// RequestsPerSecond paces outgoing requests; zero disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
}

// TelemetryConfig configures trace export
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
	Insecure     bool   `yaml:"insecure,omitempty"`
}

// LogConfig configures diagnostic logging
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold a token.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".shaihulud", "config.yaml"), nil
}

// WorkerCount returns the requested pool size, or DefaultWorkers when unset
func (s ScanConfig) WorkerCount() int {
	if s.Workers == nil {
		return DefaultWorkers
	}
	return *s.Workers
}

// ApplyDefaults fills unset fields with their defaults
func (c *Config) ApplyDefaults() {
	if c.Scan.Workers == nil {
		workers := DefaultWorkers
		c.Scan.Workers = &workers
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scan.RequestsPerSecond < 0 {
		return fmt.Errorf("scan.requests_per_second must not be negative, got %g", c.Scan.RequestsPerSecond)
	}

	if c.GitHub.APIURL != "" {
		u, err := url.Parse(c.GitHub.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("github.api_url %q is not an absolute URL", c.GitHub.APIURL)
		}
	}

	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}
