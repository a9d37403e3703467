package output

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestRenderPackageTable(t *testing.T) {
	out := ansi.Strip(RenderPackageTable([]PackageRow{
		{ID: "hs6", Name: "Homework 6", Type: "zip", Dir: "hs6", Services: "web, mysql"},
		{ID: "notes", Name: "Notes", Type: "doc", Dir: "notes"},
	}))

	for _, want := range []string{"ID", "SERVICES", "hs6", "Homework 6", "web, mysql", "notes", "doc"} {
		assert.Contains(t, out, want)
	}
}
