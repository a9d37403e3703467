package config

import (
	"os"
	"path"
	"path/filepath"
)

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}

// resolveAgainst expands ~ and joins relative paths onto base.
func resolveAgainst(base, path string) string {
	if expanded, err := ExpandPath(path); err == nil {
		path = expanded
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// SubPath cleans p to slash form and reports whether it names an entry
// strictly below its base directory. "", "." and paths that climb out of
// the base are rejected.
func SubPath(p string) (string, bool) {
	rel := path.Clean(filepath.ToSlash(p))
	if p == "" || rel == "." || !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", false
	}
	return rel, true
}
