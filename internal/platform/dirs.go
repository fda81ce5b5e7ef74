// Package platform holds the small amount of OS-specific path handling the
// app needs.
package platform

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
)

// CacheDir returns the per-user cache directory for the app, e.g.
// ~/.cache/<appName> on Linux.
func CacheDir(appName string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to resolve user cache directory")
	}
	return filepath.Join(base, appName), nil
}

// CreateDirectoryIfNotExists creates the directory and any missing parents.
func CreateDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return pkgerrors.Wrapf(err, "failed to create directory %s", path)
		}
	}
	return nil
}
