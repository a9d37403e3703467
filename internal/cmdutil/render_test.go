package cmdutil

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/testutil"
	"github.com/grimwm/stencil/internal/templates"
)

const projectConfig = `
templates_dir: tpl
output_dir: out
templates:
  - src: Makefile.tmpl
packages:
  lab1:
    package_type: zip
    package_name: lab1
  lab2:
    package_type: none
`

func loadProject(t *testing.T, body string) *config.Config {
	t.Helper()
	dir := testutil.Project(t, map[string]string{
		".config.yaml":      body,
		"tpl/Makefile.tmpl": "all: {{ .package_id }}\n",
	})
	c, err := LoadConfig(&config.GlobalConfig{ConfigPath: filepath.Join(dir, ".config.yaml")})
	require.NoError(t, err)
	return c
}

func TestLoadConfig_NilConfig(t *testing.T) {
	_, err := LoadConfig(nil)
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitGeneralError, exitErr.Code)
}

func TestLoadConfig_Missing(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	_, err := LoadConfig(&config.GlobalConfig{ConfigPath: filepath.Join(dir, "missing.yaml")})
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitConfigError, exitErr.Code)
	assert.True(t, exitErr.Printed)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestSelectPackages(t *testing.T) {
	c := loadProject(t, projectConfig)

	ids, err := SelectPackages(c, nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"lab1", "lab2"}, ids)

	ids, err = SelectPackages(c, []string{"lab2"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"lab2"}, ids)

	_, err = SelectPackages(c, []string{"lab9"}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrConfig)
	assert.Contains(t, err.Error(), "known packages: lab1, lab2")
}

func TestDeriveContexts_AllBeforeRender(t *testing.T) {
	c := loadProject(t, `
templates:
  - src: Makefile.tmpl
packages:
  good:
    package_type: none
  bad1:
    package_type: zip
  bad2:
    package_type: none
    template_env:
      services: clash
`)

	ctxs, err := DeriveContexts(c, c.Packages.IDs(), config.OSLinux)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrConfig)
	assert.Contains(t, err.Error(), `package "bad1"`)
	assert.Contains(t, err.Error(), `package "bad2"`)
	require.Len(t, ctxs, 1)
	assert.Equal(t, "good", ctxs[0].PackageID)
	assert.Equal(t, config.OSLinux, ctxs[0].OS)
}

func TestSearchPath_UserRootsFirst(t *testing.T) {
	c := loadProject(t, projectConfig)

	names := SearchPath(c).Names()
	require.Len(t, names, 2)
	assert.Equal(t, filepath.Join(c.Dir(), "tpl"), names[0])
	assert.Equal(t, templates.BundledRootName, names[1])
}

func TestNewGenerator_DryRunWritesNothing(t *testing.T) {
	c := loadProject(t, projectConfig)
	t.Chdir(c.Dir())

	var buf bytes.Buffer
	gen, err := NewGenerator(c, GeneratorOpts{DryRun: true, Out: &buf})
	require.NoError(t, err)

	ctxs, err := DeriveContexts(c, []string{"lab1"}, config.OSLinux)
	require.NoError(t, err)

	res, err := gen.Generate(t.Context(), ctxs[0])
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Contains(t, buf.String(), "Makefile")
	assert.False(t, testutil.Exists(t, c.Dir(), "out/lab1/Makefile"))
}
