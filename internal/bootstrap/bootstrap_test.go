package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestOpen_PersistentStore(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "cache:\n  path: "+filepath.Join(dir, "icons.db")+"\nlogging:\n  file: \"\"\n  console: false\n")

	s, err := Open(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if s.Store.Path() != filepath.Join(dir, "icons.db") {
		t.Errorf("Expected store at configured path, got %q", s.Store.Path())
	}
	if s.Fetcher == nil || s.Source == nil {
		t.Error("Expected fetcher and source to be built")
	}
	if _, err := os.Stat(filepath.Join(dir, "icons.db")); err != nil {
		t.Errorf("Expected database file to exist: %v", err)
	}
}

func TestOpen_NoCache(t *testing.T) {
	path := writeConfig(t, "logging:\n  file: \"\"\n  console: false\n")

	s, err := Open(Options{ConfigPath: path, NoCache: true, LogLevel: "debug"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if s.Store.Path() != "" {
		t.Errorf("Expected memory-only store, got %q", s.Store.Path())
	}
	if s.Config.Logging.Level != "debug" {
		t.Errorf("Expected log level override, got %q", s.Config.Logging.Level)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "fetch:\n  timeout: -1s\n")
	if _, err := Open(Options{ConfigPath: path}); err == nil {
		t.Error("Expected validation error")
	}

	if _, err := Open(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestClose_Idempotent(t *testing.T) {
	path := writeConfig(t, "cache:\n  disabled: true\nlogging:\n  file: \"\"\n  console: false\n")
	s, err := Open(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got %v", err)
	}
}
