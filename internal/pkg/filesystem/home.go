package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the current user's home directory, or "." when unknown.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// ExpandPath resolves a leading "~/" against the home directory and cleans
// the result. Absolute paths are returned unchanged.
func ExpandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if path == "~" {
		return UserHomeDir()
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(UserHomeDir(), rest)
	}
	return filepath.Clean(path)
}
