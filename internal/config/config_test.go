package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	oerrors "github.com/grimwm/stencil/internal/errors"
)

const fullConfig = `
templates_dir: [custom, shared]
output_dir: out
templates:
  - src: Makefile.tmpl
  - src: docker-compose.yaml.tmpl
    when: has_services
  - src: schema.sql.tmpl
    dest: db/schema.sql
    when: [has_mysql, has_sql_imports]
packages:
  lab1:
    package_type: zip
    package_name: lab1-starter
    services: [web, mysql, web]
    deps_script:
      linux: [apt.sh]
      default: brew.sh
    sql_import:
      file: seed.sql
      database: app
    copy_files:
      - logo.png
      - src: base.css
        dest: htdocs/style.css
  handout:
    package_type: pdf
    pdfs: handout.md
    template_env:
      course: CS101
`

func parse(t *testing.T, src string) *Config {
	t.Helper()
	cfg, err := Parse(filepath.Join("/project", ".config.yaml"), []byte(src))
	require.NoError(t, err)
	return cfg
}

func TestParse_FullConfig(t *testing.T) {
	cfg := parse(t, fullConfig)

	assert.Equal(t, StringList{"custom", "shared"}, cfg.TemplatesDir)
	assert.Equal(t, "out", cfg.OutputDir)
	require.Len(t, cfg.Templates, 3)
	assert.Nil(t, cfg.Templates[0].When)
	assert.Equal(t, When{"has_services"}, cfg.Templates[1].When)
	assert.Equal(t, When{"has_mysql", "has_sql_imports"}, cfg.Templates[2].When)
	assert.Equal(t, "db/schema.sql", cfg.Templates[2].Dest)
	assert.Equal(t, "pandoc", cfg.Document.Engine)

	assert.Equal(t, []string{"lab1", "handout"}, cfg.Packages.IDs())

	lab, ok := cfg.Packages.Get("lab1")
	require.True(t, ok)
	assert.Equal(t, PackageZip, lab.Type)
	assert.Equal(t, "lab1-starter", lab.PackageName)
	assert.Equal(t, StringList{"web", "mysql"}, lab.Services, "services are a set")
	assert.Equal(t, []string{"apt.sh"}, lab.DepsScript[OSLinux])
	assert.Equal(t, []string{"brew.sh"}, lab.DepsScript[OSDefault])
	assert.Equal(t, SQLImports{{"file": "seed.sql", "database": "app"}}, lab.SQLImport)
	assert.Equal(t, []CopyFile{
		{Src: "logo.png", Dest: "logo.png"},
		{Src: "base.css", Dest: "htdocs/style.css"},
	}, lab.CopyFiles)
	assert.Empty(t, lab.Deprecated)

	handout, ok := cfg.Packages.Get("handout")
	require.True(t, ok)
	assert.Equal(t, PackageDoc, handout.Type, "pdf is an alias of doc")
	assert.Equal(t, StringList{"handout.md"}, handout.Docs)
	assert.Equal(t, map[string]any{"course": "CS101"}, handout.TemplateEnv)
	assert.Len(t, handout.Deprecated, 2)
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg := parse(t, "")
	assert.Equal(t, 0, cfg.Packages.Len())
	assert.Error(t, cfg.RequirePackages())
	assert.Error(t, cfg.RequireTemplates())
}

func TestParse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown top-level key", "bogus: 1\n"},
		{"unknown package key", "packages:\n  a:\n    package_type: zip\n    colour: red\n"},
		{"missing package_type", "packages:\n  a:\n    name: A\n"},
		{"bad package_type", "packages:\n  a:\n    package_type: tarball\n"},
		{"unknown os key", "packages:\n  a:\n    package_type: none\n    deps_script:\n      solaris: x.sh\n"},
		{"empty template src", "templates:\n  - src: \"\"\n"},
		{"templates not a list", "templates: Makefile\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("/project/.config.yaml", []byte(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrConfig), "got %T: %v", err, err)
			assert.Equal(t, oerrors.ExitConfigError, oerrors.ExitCodeFromError(err))
		})
	}
}

func TestPackageConfig_DecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"docs and pdfs", "package_type: doc\ndocs: a.md\npdfs: b.md\n", "docs"},
		{"unknown os key", "package_type: none\ndeps_script:\n  Linux: a.sh\n", "deps_script"},
		{"unknown key", "package_type: none\nfoo: bar\n", "foo"},
		{"services mapping", "package_type: none\nservices: {web: true}\n", "services"},
		{"sql_import scalar", "package_type: none\nsql_import: seed.sql\n", "sql_import"},
		{"copy_files without src", "package_type: none\ncopy_files:\n  - dest: x\n", "copy_files"},
		{"name not a string", "package_type: none\nname: [a]\n", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pkg PackageConfig
			err := yaml.Unmarshal([]byte(tt.src), &pkg)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Positive(t, ce.Line)
		})
	}
}

func TestPackages_ErrorNamesPackage(t *testing.T) {
	var pkgs Packages
	err := yaml.Unmarshal([]byte("web:\n  package_type: none\n  deps_script:\n    plan9: x.sh\n"), &pkgs)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "web", ce.PackageID)
	assert.Equal(t, "deps_script", ce.Field)
	assert.Contains(t, ce.Error(), `package "web"`)
}

func TestStringList_Shapes(t *testing.T) {
	tests := []struct {
		src  string
		want StringList
	}{
		{"v: a\n", StringList{"a"}},
		{"v: [a, b]\n", StringList{"a", "b"}},
		{"v:\n", nil},
		{"v: []\n", StringList{}},
	}
	for _, tt := range tests {
		var doc struct {
			V StringList `yaml:"v"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(tt.src), &doc), tt.src)
		assert.Equal(t, tt.want, doc.V, tt.src)
	}
}

func TestSQLImports_ShapeEquivalence(t *testing.T) {
	inputs := []map[string]any{
		{"file": "seed.sql"},
		{"file": "seed.sql", "database": "app", "user": "root"},
		{},
	}

	for _, m := range inputs {
		single, err := yaml.Marshal(map[string]any{"sql_import": m})
		require.NoError(t, err)
		list, err := yaml.Marshal(map[string]any{"sql_import": []any{m}})
		require.NoError(t, err)

		var a, b struct {
			SQLImport SQLImports `yaml:"sql_import"`
		}
		require.NoError(t, yaml.Unmarshal(single, &a))
		require.NoError(t, yaml.Unmarshal(list, &b))
		assert.Equal(t, a.SQLImport, b.SQLImport)
		assert.Len(t, a.SQLImport, 1)
	}
}

func TestDepsScript_ResolveIsTotal(t *testing.T) {
	maps := []DepsScript{
		nil,
		{},
		{OSDefault: {"default.sh"}},
		{OSLinux: {"linux.sh"}},
		{OSLinux: {"linux.sh"}, OSDefault: {"default.sh"}},
		{OSDarwin: {}, OSDefault: {"default.sh"}},
	}

	for _, d := range maps {
		for _, os := range append(OSKeys(), "plan9", "Linux") {
			got := d.Resolve(os)
			require.NotNil(t, got)
			switch {
			case d[os] != nil:
				assert.Equal(t, d[os], got)
			case d[OSDefault] != nil:
				assert.Equal(t, d[OSDefault], got)
			default:
				assert.Empty(t, got)
			}
		}
	}
}

func TestDepsScript_All(t *testing.T) {
	d := DepsScript{
		OSDefault: {"common.sh"},
		OSLinux:   {"apt.sh", "common.sh"},
		OSDarwin:  {"brew.sh"},
	}
	assert.Equal(t, []string{"apt.sh", "common.sh", "brew.sh"}, d.All())
}

func TestParseOSKey(t *testing.T) {
	k, ok := ParseOSKey("darwin")
	assert.True(t, ok)
	assert.Equal(t, OSDarwin, k)

	_, ok = ParseOSKey("Darwin")
	assert.False(t, ok, "matching is case-sensitive")
}

func TestConfig_Paths(t *testing.T) {
	cfg := parse(t, "templates_dir: [custom, /abs/tpl]\nfiles_dir: assets\n")

	assert.Equal(t, []string{"/project/custom", "/abs/tpl"}, cfg.TemplateRoots())
	assert.Equal(t, "/project/assets", cfg.FilesRoot())
	assert.Equal(t, "/project/scripts", cfg.ScriptsRoot())

	base, err := cfg.OutputBase()
	require.NoError(t, err)
	cwd, err := filepath.Abs(".")
	require.NoError(t, err)
	assert.Equal(t, cwd, base, "output_dir defaults to the working directory")
}

func TestConfig_Package(t *testing.T) {
	cfg := parse(t, fullConfig)

	_, err := cfg.Package("lab1")
	require.NoError(t, err)

	_, err = cfg.Package("nope")
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "nope", ce.PackageID)
	assert.Contains(t, ce.Hint, "lab1, handout")
}
