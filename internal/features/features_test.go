package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "  ,  , ", nil},
		{"single", "draft", []string{"draft"}},
		{"mixed case and spaces", "Hidden, Draft", []string{"hidden", "draft"}},
		{"duplicates", "draft,DRAFT, hidden ,draft", []string{"draft", "hidden"}},
		{"order kept", "b,a,c", []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if tt.want == nil {
				assert.Empty(t, got.Names())
				assert.True(t, got.Empty())
				return
			}
			assert.Equal(t, tt.want, got.Names())
		})
	}
}

func TestProjection(t *testing.T) {
	fs := Parse("Hidden, Draft")

	assert.Equal(t, []string{"hidden", "draft"}, fs.Names())
	assert.Equal(t, "-hidden-draft", fs.Suffix())
	assert.Equal(t, "Document-hidden-draft", fs.OutputName("Document"))
	assert.Equal(t, []string{"include-hidden=true", "include-draft=true"}, fs.MetadataFlags())
	assert.Equal(t, "hidden,draft", fs.String())
}

func TestProjection_Empty(t *testing.T) {
	fs := Parse("")

	assert.Equal(t, "", fs.Suffix())
	assert.Equal(t, "Document", fs.OutputName("Document"))
	assert.Empty(t, fs.MetadataFlags())
}

func TestParse_Stable(t *testing.T) {
	a := Parse("Solutions,hidden")
	b := Parse(a.String())
	assert.Equal(t, a.Names(), b.Names())
	assert.Equal(t, a.OutputName("x"), b.OutputName("x"))
}
