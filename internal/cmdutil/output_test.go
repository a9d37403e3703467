package cmdutil

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/generate"
	"github.com/grimwm/stencil/internal/output"
)

func TestConfigDetail(t *testing.T) {
	ce := &config.ConfigError{
		PackageID: "lab1",
		Field:     "deps_script",
		Line:      12,
		Message:   `unknown OS key "Linux"`,
		Hint:      "valid keys: linux, darwin",
	}

	detail := ConfigDetail(".config.yaml", ce)
	assert.Equal(t, ".config.yaml:12", detail.Location)
	assert.Equal(t, "deps_script", detail.Field)
	assert.Equal(t, map[string]string{"Package": "lab1"}, detail.Context)

	msg := detail.Error()
	assert.Contains(t, msg, "Error: invalid config")
	assert.Contains(t, msg, "Package: lab1")
	assert.Contains(t, msg, "Hint: valid keys")
	assert.ErrorIs(t, detail, oerrors.ErrConfig)
}

func TestExitErrorFor(t *testing.T) {
	collision := &generate.DestinationCollisionError{PackageID: "a", Dest: "Makefile", Sources: []string{"x", "y"}}
	render := &generate.RenderError{PackageID: "b", Template: "t", Err: errors.New("boom")}
	cfgErr := &config.ConfigError{PackageID: "c", Message: "bad"}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"render only", render, oerrors.ExitRenderError},
		{"collision beats render", errors.Join(render, collision), oerrors.ExitCollision},
		{"config beats collision", errors.Join(collision, cfgErr), oerrors.ExitConfigError},
		{"wrapped", fmt.Errorf("gen: %w", render), oerrors.ExitRenderError},
		{"unknown", errors.New("other"), oerrors.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExitErrorFor(tt.err)
			var exitErr *oerrors.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.want, exitErr.Code)
			assert.True(t, exitErr.Printed)
		})
	}

	assert.NoError(t, ExitErrorFor(nil))

	existing := &oerrors.ExitError{Code: 3, Err: errors.New("x")}
	assert.Same(t, existing, ExitErrorFor(existing))
}

func TestPackageSummary(t *testing.T) {
	res := &generate.PackageResult{Files: []generate.FileResult{
		{Path: "Makefile", Status: output.StatusCreated},
		{Path: "Dockerfile", Status: output.StatusCreated},
		{Path: "README.md", Status: output.StatusUnchanged},
	}}
	assert.Equal(t, "2 created, 1 unchanged", PackageSummary(res))
	assert.Equal(t, "No changes", PackageSummary(&generate.PackageResult{}))
}

func TestPrintPackageResult(t *testing.T) {
	res := &generate.PackageResult{
		PackageID: "lab1",
		Dir:       "out/lab1",
		Files: []generate.FileResult{
			{Path: "Makefile", Status: output.StatusCreated},
			{Path: "scripts/apt.sh", Status: output.StatusCopied},
		},
	}

	var buf strings.Builder
	PrintPackageResult(&buf, res)

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "out/lab1/")
	assert.Contains(t, out, "Makefile")
	assert.Contains(t, out, "apt.sh")
	assert.Contains(t, out, "copied")
}
