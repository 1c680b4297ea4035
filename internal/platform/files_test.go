package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestEnsureParentDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "apps.json")

	if err := EnsureParentDir(target); err != nil {
		t.Fatalf("EnsureParentDir failed: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(target)); err != nil || !info.IsDir() {
		t.Errorf("Expected parent directory to exist, got %v", err)
	}

	if err := EnsureParentDir("apps.json"); err != nil {
		t.Errorf("Expected no error for bare file name, got %v", err)
	}
}

func TestGetHomeDir(t *testing.T) {
	if IsAndroid() {
		t.Skip("desktop only")
	}

	home, err := GetHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home directory: %v", err)
	}
	if home == "" {
		t.Fatal("Home directory is empty")
	}
}

func TestOpenURL_Empty(t *testing.T) {
	if err := OpenURL(""); err == nil {
		t.Error("Expected error for empty url")
	}
}
