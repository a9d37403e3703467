package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleVars mirrors the namespace a derived package context produces.
func sampleVars() map[string]any {
	return map[string]any{
		"package_id":      "lab1",
		"name":            "Lab 1",
		"package_name":    "lab1-starter",
		"package_dir":     "lab1",
		"package_type":    "zip",
		"package_folder":  "htdocs",
		"docs":            []string{"handout.md"},
		"pdfs":            []string{"handout.md"},
		"has_docs":        true,
		"has_pdfs":        true,
		"services":        []string{"web", "mysql"},
		"has_web":         true,
		"has_mysql":       true,
		"has_services":    true,
		"sql_imports":     []map[string]any{{"file": "db/seed.sql"}},
		"sql_import":      []map[string]any{{"file": "db/seed.sql"}},
		"has_sql_imports": true,
		"deps_script":     []string{"apt.sh"},
		"deps_scripts":    map[string][]string{"linux": {"apt.sh"}},
		"has_deps_script": true,
		"copy_files":      []map[string]string{},
		"has_copy_files":  false,
		"os":              "linux",
		"template_env":    map[string]any{},
	}
}

func TestRenderer_MissingKeyIsError(t *testing.T) {
	r := NewRenderer(nil)

	out, err := r.RenderString("t", "{{ .name }}", map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", out)

	_, err = r.RenderString("t", "{{ .nope }}", map[string]any{"name": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestRenderer_SyntaxError(t *testing.T) {
	_, err := NewRenderer(nil).RenderString("t", "{{ if }}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing template")
}

func TestRenderer_Include(t *testing.T) {
	sp := SearchPath{
		mapRoot("user", map[string]string{
			"page.tmpl":        `<h1>{{ include "partials/hi.tmpl" . }}</h1>`,
			"partials/hi.tmpl": `hi {{ .name }}`,
			"loop.tmpl":        `{{ include "loop.tmpl" . }}`,
		}),
	}
	r := NewRenderer(sp)

	m, err := sp.Resolve("page.tmpl")
	require.NoError(t, err)
	out, err := r.Render(m, map[string]any{"name": "ada"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi ada</h1>", string(out))

	m, err = sp.Resolve("loop.tmpl")
	require.NoError(t, err)
	_, err = r.Render(m, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include depth exceeded")

	_, err = r.RenderString("t", `{{ include "absent.tmpl" . }}`, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `template "absent.tmpl" not found`)
}

func TestRenderer_Deterministic(t *testing.T) {
	r := NewRenderer(NewSearchPath())
	names, err := ListBundled()
	require.NoError(t, err)

	for _, name := range names {
		if strings.HasPrefix(name, "partials/") {
			continue
		}
		m, err := r.search.Resolve(name)
		require.NoError(t, err)
		first, err := r.Render(m, sampleVars())
		require.NoError(t, err, name)
		second, err := r.Render(m, sampleVars())
		require.NoError(t, err, name)
		assert.Equal(t, first, second, name)
	}
}

func TestBundled_Makefile(t *testing.T) {
	r := NewRenderer(NewSearchPath())
	m, err := r.search.Resolve("Makefile.tmpl")
	require.NoError(t, err)

	out, err := r.Render(m, sampleVars())
	require.NoError(t, err)

	got := string(out)
	assert.True(t, strings.HasPrefix(got, "# Generated by stencil for package lab1."))
	assert.Contains(t, got, "PACKAGE := lab1-starter.zip")
	assert.Contains(t, got, "\tcd htdocs && zip -r ../$@ .")
	assert.Contains(t, got, "up:\n\tdocker compose up -d")
	assert.Contains(t, got, "deps:\n\t./deps.sh")
	assert.Contains(t, got, "docs:\n\tstencil doc lab1 --with \"$(or $(WITH),$(with))\"",
		"either spelling of the feature variable reaches doc")
}

func TestBundled_ComposeWithoutMySQL(t *testing.T) {
	vars := sampleVars()
	vars["services"] = []string{"web"}
	vars["has_mysql"] = false

	r := NewRenderer(NewSearchPath())
	m, err := r.search.Resolve("docker-compose.yaml.tmpl")
	require.NoError(t, err)
	out, err := r.Render(m, vars)
	require.NoError(t, err)

	assert.Contains(t, string(out), "  web:\n")
	assert.NotContains(t, string(out), "mysql")
}
