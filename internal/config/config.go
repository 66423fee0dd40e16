// Package config loads the onprty configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/livefir/onprty/internal/kits"
)

const (
	// ConfigFileName is the name of the config file
	ConfigFileName = "config.yaml"

	// DefaultConfigDir is relative to the user's home directory.
	DefaultConfigDir = ".config/onprty"

	DefaultTemplate    = "monospace"
	DefaultPreviewAddr = ":8080"
	DefaultDebounceMS  = 500
	DefaultTTLMinutes  = 60
	DefaultLogLevel    = "info"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Config represents the onprty configuration
type Config struct {
	// DefaultTemplate is used when a site does not name one.
	DefaultTemplate string `yaml:"default_template,omitempty"`

	// TemplatePaths are extra kit directories loaded after the built-in kits.
	TemplatePaths []string `yaml:"template_paths,omitempty"`

	DatabasePath  string `yaml:"database_path,omitempty"`
	PublishDir    string `yaml:"publish_dir,omitempty"`
	PublicBaseURL string `yaml:"public_base_url,omitempty"`
	PreviewAddr   string `yaml:"preview_addr,omitempty"`

	// DebounceMS is the save debounce window of edit sessions.
	DebounceMS int `yaml:"debounce_ms,omitempty"`

	// SessionTTLMinutes is how long an idle edit session is kept open.
	SessionTTLMinutes int `yaml:"session_ttl_minutes,omitempty"`

	Minify      bool   `yaml:"minify,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
	Development bool   `yaml:"development,omitempty"`

	// Defaults overrides the built-in item defaults for every template.
	Defaults *kits.Defaults `yaml:"defaults,omitempty"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	c := &Config{TemplatePaths: []string{}}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.DefaultTemplate == "" {
		c.DefaultTemplate = DefaultTemplate
	}
	if c.DatabasePath == "" {
		c.DatabasePath = dataPath("sites.db")
	}
	if c.PublishDir == "" {
		c.PublishDir = dataPath("public")
	}
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = "http://localhost:8081"
	}
	if c.PreviewAddr == "" {
		c.PreviewAddr = DefaultPreviewAddr
	}
	if c.DebounceMS == 0 {
		c.DebounceMS = DefaultDebounceMS
	}
	if c.SessionTTLMinutes == 0 {
		c.SessionTTLMinutes = DefaultTTLMinutes
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func dataPath(name string) string {
	dir, err := GetConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// GetConfigDir returns the directory containing the config file
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultConfigDir), nil
}

// LoadConfig loads the configuration from path, or from the default location
// when path is empty. A missing file yields the default config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

// SaveConfig writes the configuration to path, creating its directory.
func SaveConfig(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// AddTemplatePath adds a kit directory to the config
func (c *Config) AddTemplatePath(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	for _, p := range c.TemplatePaths {
		if p == absPath {
			return fmt.Errorf("path already exists in config: %s", absPath)
		}
	}
	c.TemplatePaths = append(c.TemplatePaths, absPath)
	return nil
}

// RemoveTemplatePath removes a kit directory from the config
func (c *Config) RemoveTemplatePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	kept := c.TemplatePaths[:0:0]
	for _, p := range c.TemplatePaths {
		if p != absPath {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(c.TemplatePaths) {
		return fmt.Errorf("path not found in config: %s", path)
	}
	c.TemplatePaths = kept
	return nil
}

// Debounce returns the save debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// SessionTTL returns the idle session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DebounceMS <= 0 {
		return fmt.Errorf("debounce_ms must be positive, got %d", c.DebounceMS)
	}
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("session_ttl_minutes must be positive, got %d", c.SessionTTLMinutes)
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	for _, path := range c.TemplatePaths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("template path does not exist: %s", path)
		}
	}
	return nil
}
