// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ConfigFile is the config file name WriteConfig creates.
const ConfigFile = ".config.yaml"

// TempDir creates a temporary directory for tests and returns a cleanup function.
func TempDir(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "stencil-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("warning: failed to remove temp dir %s: %v", dir, err)
		}
	}
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteConfig writes a scaffold config into dir and returns its path.
func WriteConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return WriteFile(t, dir, ConfigFile, content)
}

// Project creates a temporary project directory holding files, keyed by
// slash-separated path, and returns the directory. It is removed when
// the test ends.
func Project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir, cleanup := TempDir(t)
	t.Cleanup(cleanup)
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}

// ReadFile returns the content of dir/name, failing the test if it
// cannot be read.
func ReadFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// Exists reports whether dir/name exists.
func Exists(t *testing.T, dir, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
	return err == nil
}
