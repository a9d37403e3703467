package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlans() []PlanInfo {
	return []PlanInfo{
		{
			PackageID: "lab1",
			Dir:       "out/lab1",
			Templates: []TemplatePlanInfo{
				{Src: "Makefile.tmpl", Dest: "Makefile", Source: "templates/Makefile.tmpl"},
				{Src: "missing.tmpl", Dest: "missing", ResolveErr: errors.New(`template "missing.tmpl" not found`)},
			},
			Skipped: []SkipInfo{
				{Src: "docker-compose.yaml.tmpl", Falsy: []string{"has_services"}},
			},
		},
	}
}

func TestWriteVerbosePlan_Human(t *testing.T) {
	var buf bytes.Buffer
	err := WriteVerbosePlan([]string{"templates", "<bundled>"}, samplePlans(), VerboseOptions{Writer: &buf})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Search path:\n  1. templates\n  2. <bundled>\n")
	assert.Contains(t, out, "Package lab1 (out/lab1):")
	assert.Contains(t, out, "  ✓ Makefile.tmpl -> Makefile\n      from templates/Makefile.tmpl\n")
	assert.Contains(t, out, "  ✗ missing.tmpl -> missing\n")
	assert.Contains(t, out, "  - docker-compose.yaml.tmpl skipped (false: has_services)")
}

func TestWriteVerbosePlan_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteVerbosePlan([]string{"<bundled>"}, samplePlans(), VerboseOptions{JSON: true, Writer: &buf})
	require.NoError(t, err)

	var got verboseResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Packages, 1)

	pkg := got.Packages[0]
	assert.Equal(t, "lab1", pkg.ID)
	require.Len(t, pkg.Templates, 2)
	assert.Equal(t, "templates/Makefile.tmpl", pkg.Templates[0].Source)
	assert.Contains(t, pkg.Templates[1].Error, "not found")
	assert.Equal(t, []verboseSkip{{Src: "docker-compose.yaml.tmpl", Falsy: []string{"has_services"}}}, pkg.Skipped)
}
