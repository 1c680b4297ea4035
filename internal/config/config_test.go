package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Fetch.PageURLTemplate != DefaultPageURLTemplate {
		t.Errorf("Unexpected page template %s", cfg.Fetch.PageURLTemplate)
	}
	if cfg.Fetch.Timeout != DefaultFetchTimeout {
		t.Errorf("Unexpected timeout %s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxParallel != DefaultMaxParallel {
		t.Errorf("Unexpected max parallel %d", cfg.Fetch.MaxParallel)
	}
	if !strings.HasSuffix(cfg.Cache.Path, "icons.db") {
		t.Errorf("Unexpected cache path %s", cfg.Cache.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
fetch:
  timeout: 5s
  max_parallel: 2
  icon_classes: [icon, big]
cache:
  disabled: true
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxParallel != 2 {
		t.Errorf("Expected max parallel 2, got %d", cfg.Fetch.MaxParallel)
	}
	if len(cfg.Fetch.IconClasses) != 2 || cfg.Fetch.IconClasses[1] != "big" {
		t.Errorf("Unexpected icon classes %v", cfg.Fetch.IconClasses)
	}
	if !cfg.Cache.Disabled {
		t.Error("Expected cache to be disabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults
	if cfg.Fetch.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %s", cfg.Fetch.UserAgent)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "fetch:\n  max_parallel: 2\n")
	t.Setenv("APPORG_FETCH_MAX_PARALLEL", "7")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Fetch.MaxParallel != 7 {
		t.Errorf("Expected env override 7, got %d", cfg.Fetch.MaxParallel)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "fetch:\n  page_url_template: https://example.com/app\n")
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("Expected validation error for template without %%s")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unlimited parallel", func(c *Config) { c.Fetch.MaxParallel = 0 }, false},
		{"negative parallel", func(c *Config) { c.Fetch.MaxParallel = -1 }, true},
		{"zero timeout", func(c *Config) { c.Fetch.Timeout = 0 }, true},
		{"no classes", func(c *Config) { c.Fetch.IconClasses = nil }, true},
		{"zero body limit", func(c *Config) { c.Fetch.MaxBodyBytes = 0 }, true},
		{"two placeholders", func(c *Config) { c.Fetch.PageURLTemplate = "%s/%s" }, true},
	}

	for _, test := range tests {
		cfg := DefaultConfig()
		test.mutate(cfg)
		err := cfg.Validate()
		if (err != nil) != test.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", test.name, err, test.wantErr)
		}
	}
}
