package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.DefaultTemplate != "monospace" {
		t.Errorf("Expected default template 'monospace', got '%s'", config.DefaultTemplate)
	}
	if config.PreviewAddr != ":8080" {
		t.Errorf("Expected preview addr ':8080', got '%s'", config.PreviewAddr)
	}
	if config.Debounce() != 500*time.Millisecond {
		t.Errorf("Expected 500ms debounce, got %v", config.Debounce())
	}
	if config.SessionTTL() != time.Hour {
		t.Errorf("Expected 1h session TTL, got %v", config.SessionTTL())
	}
	if config.TemplatePaths == nil {
		t.Error("Expected template paths to be initialized")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.DefaultTemplate != DefaultTemplate {
		t.Errorf("Expected default template, got '%s'", config.DefaultTemplate)
	}
}

func TestLoadConfigFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	data := []byte(`
default_template: terminal
debounce_ms: 250
minify: true
defaults:
  cta_text: Start now
  icons: ["A", "B"]
  new_items:
    features.items:
      heading: Fresh
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.DefaultTemplate != "terminal" {
		t.Errorf("Expected template 'terminal', got '%s'", config.DefaultTemplate)
	}
	if config.Debounce() != 250*time.Millisecond {
		t.Errorf("Expected 250ms debounce, got %v", config.Debounce())
	}
	if !config.Minify {
		t.Error("Expected minify to be enabled")
	}
	if config.SessionTTLMinutes != DefaultTTLMinutes {
		t.Errorf("Expected TTL default %d, got %d", DefaultTTLMinutes, config.SessionTTLMinutes)
	}
	if config.Defaults == nil {
		t.Fatal("Expected defaults to be parsed")
	}
	if config.Defaults.CTAText != "Start now" {
		t.Errorf("Expected cta_text 'Start now', got '%s'", config.Defaults.CTAText)
	}
	if len(config.Defaults.Icons) != 2 {
		t.Errorf("Expected 2 icons, got %v", config.Defaults.Icons)
	}
	if got := config.Defaults.NewItems["features.items"]["heading"]; got != "Fresh" {
		t.Errorf("Expected new feature heading 'Fresh', got %v", got)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("debounce_ms: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)
	config := DefaultConfig()
	config.DefaultTemplate = "swiss"

	if err := SaveConfig(path, config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.DefaultTemplate != "swiss" {
		t.Errorf("Expected 'swiss', got '%s'", loaded.DefaultTemplate)
	}
}

func TestTemplatePaths(t *testing.T) {
	tmpDir := t.TempDir()
	config := DefaultConfig()

	if err := config.AddTemplatePath(tmpDir); err != nil {
		t.Fatalf("Failed to add template path: %v", err)
	}
	if !filepath.IsAbs(config.TemplatePaths[0]) {
		t.Error("Expected absolute path")
	}
	if err := config.AddTemplatePath(tmpDir); err == nil {
		t.Error("Expected error for duplicate path")
	}
	if err := config.AddTemplatePath("/non/existent/path"); err == nil {
		t.Error("Expected error for non-existent path")
	}
	if err := config.RemoveTemplatePath(tmpDir); err != nil {
		t.Fatalf("Failed to remove template path: %v", err)
	}
	if len(config.TemplatePaths) != 0 {
		t.Errorf("Expected 0 template paths, got %d", len(config.TemplatePaths))
	}
	if err := config.RemoveTemplatePath(tmpDir); err == nil {
		t.Error("Expected error removing unknown path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero debounce", func(c *Config) { c.DebounceMS = -1 }},
		{"zero ttl", func(c *Config) { c.SessionTTLMinutes = -5 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"missing template path", func(c *Config) { c.TemplatePaths = []string{"/non/existent/kits"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			if err := config.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
