package generate

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimwm/stencil/internal/config"
)

func TestDestFor(t *testing.T) {
	tests := []struct {
		def  config.TemplateDef
		want string
	}{
		{config.TemplateDef{Src: "Makefile.tmpl"}, "Makefile"},
		{config.TemplateDef{Src: "Makefile"}, "Makefile"},
		{config.TemplateDef{Src: "conf/app.yaml.tmpl"}, "conf/app.yaml"},
		{config.TemplateDef{Src: "x.tmpl", Dest: "./out//y.txt"}, "out/y.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DestFor(tt.def), tt.def.Src)
	}
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, fs.FileMode(0o755), ModeFor("deps.sh"))
	assert.Equal(t, fs.FileMode(0o755), ModeFor("bin/setup.sh"))
	assert.Equal(t, fs.FileMode(0o644), ModeFor("Makefile"))
	assert.Equal(t, fs.FileMode(0o644), ModeFor("notes.sh.txt"))
}

func TestBuildPlan(t *testing.T) {
	rc := derive(t, "lab", config.PackageConfig{Dir: "labs/one", Services: config.StringList{"web"}})
	defs := []config.TemplateDef{
		{Src: "Makefile.tmpl"},
		{Src: "compose.yaml.tmpl", When: config.When{"has_services"}},
		{Src: "schema.sql.tmpl", When: config.When{"has_web", "has_mysql"}},
	}

	plan, err := BuildPlan(rc, defs, "/out")
	require.NoError(t, err)
	assert.Equal(t, "/out/labs/one", plan.Dir)
	assert.Equal(t, []string{"Makefile", "compose.yaml"}, plan.Destinations())
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, SkippedTemplate{Src: "schema.sql.tmpl", Falsy: []string{"has_mysql"}}, plan.Skipped[0])
}

func TestBuildPlan_CollisionAfterCleaning(t *testing.T) {
	rc := derive(t, "lab", config.PackageConfig{})
	defs := []config.TemplateDef{
		{Src: "a.tmpl", Dest: "conf/app.conf"},
		{Src: "b.tmpl", Dest: "conf/../conf/./app.conf"},
	}
	_, err := BuildPlan(rc, defs, "/out")
	var ce *DestinationCollisionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "conf/app.conf", ce.Dest)
	assert.Equal(t, "lab", ce.PackageID)
}
