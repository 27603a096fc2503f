package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the ReadNote client configuration.
type Config struct {
	// Backend settings
	BackendURL            string `json:"backend_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`

	// UI preferences
	Theme string `json:"theme"`

	// Where queue and auth state live. Empty means the manager's own directory.
	DataDir string `json:"data_dir"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:            "http://localhost:8002",
		RequestTimeoutSeconds: 60,
		Theme:                 "paper",
	}
}

// Manager handles configuration loading and saving.
type Manager struct {
	dataDir    string
	configPath string
	config     *Config
}

// NewManager creates a configuration manager rooted at the given data directory.
func NewManager(dataDir string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		configPath: filepath.Join(dataDir, "config.json"),
		config:     DefaultConfig(),
	}
}

// DefaultDataDir resolves the per-user data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".readnote"
	}
	return filepath.Join(home, ".readnote")
}

// Load reads the configuration from disk, creating defaults if needed.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		// First run, write defaults.
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if config.BackendURL == "" {
		config.BackendURL = DefaultConfig().BackendURL
	}
	if config.RequestTimeoutSeconds <= 0 {
		config.RequestTimeoutSeconds = DefaultConfig().RequestTimeoutSeconds
	}

	m.config = &config
	return nil
}

// Save writes the current configuration to disk.
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// DataDir returns the resolved data directory for state files.
func (m *Manager) DataDir() string {
	if m.config.DataDir != "" {
		return m.config.DataDir
	}
	return m.dataDir
}

// Set updates a configuration value and saves.
func (m *Manager) Set(key, value string) error {
	switch key {
	case "backend_url":
		m.config.BackendURL = value
	case "request_timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("request_timeout_seconds must be a positive integer, got %q", value)
		}
		m.config.RequestTimeoutSeconds = n
	case "theme":
		m.config.Theme = value
	case "data_dir":
		m.config.DataDir = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return m.Save()
}

// Value returns a configuration value by key.
func (m *Manager) Value(key string) (string, error) {
	switch key {
	case "backend_url":
		return m.config.BackendURL, nil
	case "request_timeout_seconds":
		return strconv.Itoa(m.config.RequestTimeoutSeconds), nil
	case "theme":
		return m.config.Theme, nil
	case "data_dir":
		return m.config.DataDir, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}
