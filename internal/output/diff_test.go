package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDiff_Identical(t *testing.T) {
	diff, err := FileDiff("Makefile", []byte("all:\n"), []byte("all:\n"), false)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestFileDiff_TextUnified(t *testing.T) {
	current := []byte("line one\nline two\nline three\n")
	next := []byte("line one\nline 2\nline three\n")

	diff, err := FileDiff("notes.txt", current, next, false)
	require.NoError(t, err)

	assert.Contains(t, diff, "--- a/notes.txt")
	assert.Contains(t, diff, "+++ b/notes.txt")
	assert.Contains(t, diff, "-line two")
	assert.Contains(t, diff, "+line 2")
}

func TestFileDiff_YAMLStructural(t *testing.T) {
	current := []byte("services:\n  web:\n    image: nginx:1.25\n")
	next := []byte("services:\n  web:\n    image: nginx:1.27\n")

	diff, err := FileDiff("docker-compose.yaml", current, next, false)
	require.NoError(t, err)

	assert.Contains(t, diff, "services.web.image")
	assert.Contains(t, diff, "nginx:1.27")
}

func TestFileDiff_InvalidYAMLFallsBackToText(t *testing.T) {
	current := []byte("key: [unclosed\n")
	next := []byte("key: value\n")

	diff, err := FileDiff("broken.yml", current, next, false)
	require.NoError(t, err)
	assert.Contains(t, diff, "+key: value")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "+ a\n+ b\n", Preview([]byte("a\nb\n"), false))
	assert.Equal(t, "+ a\n+ b\n", Preview([]byte("a\nb"), false))
}

func TestIndentDiff(t *testing.T) {
	assert.Equal(t, "  a\n  b\n", IndentDiff("a\n\nb", "  "))
	assert.Empty(t, IndentDiff("", "  "))
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "No changes", FormatSummary(Count{"created", 0}))
	assert.Equal(t, "2 created, 1 unchanged",
		FormatSummary(Count{"created", 2}, Count{"updated", 0}, Count{"unchanged", 1}))
}
