package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	dir, err := CacheDir("reddish")
	if err != nil {
		t.Skipf("no user cache dir in this environment: %v", err)
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)+"reddish") {
		t.Errorf("CacheDir() = %q, expected a path ending in /reddish", dir)
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache")

	if err := CreateDirectoryIfNotExists(path); err != nil {
		t.Fatalf("CreateDirectoryIfNotExists() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.IsDir() {
		t.Errorf("expected %q to be a directory", path)
	}

	// Creating an existing directory is a no-op.
	if err := CreateDirectoryIfNotExists(path); err != nil {
		t.Errorf("CreateDirectoryIfNotExists() on existing dir error = %v", err)
	}
}
