package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"relative/path", "relative/path"},
		{"/abs/path", "/abs/path"},
		{"~", home},
		{"~/templates", filepath.Join(home, "templates")},
		{"~other/templates", "~other/templates"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAgainst(t *testing.T) {
	assert.Equal(t, "/base/tpl", resolveAgainst("/base", "tpl"))
	assert.Equal(t, "/other/tpl", resolveAgainst("/base", "/other/tpl"))
	assert.Equal(t, "/tpl", resolveAgainst("/base", "../tpl"))
}

func TestSubPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"logo.png", "logo.png", true},
		{"htdocs/./assets/", "htdocs/assets", true},
		{"", "", false},
		{".", "", false},
		{"htdocs/..", "", false},
		{"../up", "", false},
		{"/abs", "", false},
	}
	for _, tt := range tests {
		got, ok := SubPath(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
