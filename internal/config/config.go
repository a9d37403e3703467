// Package config provides the stencil configuration model: the scaffold
// config file (templates and packages), its schema validation, and the
// resolution of CLI-level settings from flags and the environment.
package config

import (
	"path/filepath"
	"runtime"
)

// DefaultConfigFile is the config file used when neither --config nor
// STENCIL_CONFIG is set.
const DefaultConfigFile = ".config.yaml"

// Defaults applied when the config leaves a path unset.
const (
	DefaultFilesDir      = "files"
	DefaultScriptsDir    = "scripts"
	DefaultPackageFolder = "htdocs"
)

// Config is the parsed scaffold config file.
type Config struct {
	// TemplatesDir lists user template roots, searched before the bundled
	// templates. Relative entries are resolved against the config file.
	TemplatesDir StringList `yaml:"templates_dir"`

	// OutputDir is the base directory packages are generated into.
	// Relative paths are resolved against the working directory.
	OutputDir string `yaml:"output_dir"`

	// FilesDir holds static files referenced by copy_files.
	FilesDir string `yaml:"files_dir"`

	// ScriptsDir holds dependency scripts referenced by deps_script.
	ScriptsDir string `yaml:"scripts_dir"`

	// Templates is the ordered list of templates rendered for every package.
	Templates []TemplateDef `yaml:"templates"`

	// Packages maps package ids to their config, in file order.
	Packages Packages `yaml:"packages"`

	// Document configures the document compiler used by `stencil doc`.
	Document DocumentConfig `yaml:"document"`

	// Path is the file the config was loaded from.
	Path string `yaml:"-"`
}

// DocumentConfig configures document compilation.
type DocumentConfig struct {
	// Engine is "pandoc" (default) or "html".
	Engine string `yaml:"engine"`

	// Pandoc is the pandoc executable. Defaults to "pandoc" on PATH.
	Pandoc string `yaml:"pandoc"`

	// Args are extra arguments appended to every pandoc invocation.
	Args []string `yaml:"args"`
}

// TemplateDef describes one file rendered for every package.
type TemplateDef struct {
	// Src is the template name looked up on the search path.
	Src string `yaml:"src"`

	// Dest is the output path relative to the package directory.
	// Empty means Src without the template suffix.
	Dest string `yaml:"dest"`

	// When gates rendering on context values.
	When When `yaml:"when"`
}

// PackageType is the kind of artifact a package produces.
type PackageType string

const (
	// PackageZip packages the output folder as an archive; package_name is required.
	PackageZip PackageType = "zip"

	// PackageDoc compiles the package docs into documents.
	PackageDoc PackageType = "doc"

	// PackageNone produces no artifact beyond the scaffolded files.
	PackageNone PackageType = "none"
)

// legacyPackageTypes maps names from older configs onto PackageType.
var legacyPackageTypes = map[string]PackageType{
	"pdf": PackageDoc,
}

// PackageConfig is one entry of the packages mapping, as written in the
// config file. Defaults are applied when the render context is derived.
type PackageConfig struct {
	Type          PackageType
	PackageName   string
	Name          string
	Dir           string
	Docs          StringList
	Services      StringList
	PackageFolder string
	CopyFiles     []CopyFile
	DepsScript    DepsScript
	SQLImport     SQLImports
	TemplateEnv   map[string]any

	// Deprecated records legacy spellings seen while decoding, e.g.
	// "package_type: pdf" or "pdfs".
	Deprecated []string
}

// CopyFile is a static file or directory copied into the package output.
type CopyFile struct {
	Src  string `yaml:"src" json:"src"`
	Dest string `yaml:"dest" json:"dest"`
}

// OSKey identifies the operating system a dependency script applies to.
type OSKey string

// Known OS keys. OSDefault is the fallback used when the host has no entry.
const (
	OSLinux   OSKey = "linux"
	OSDarwin  OSKey = "darwin"
	OSWindows OSKey = "windows"
	OSFreeBSD OSKey = "freebsd"
	OSOpenBSD OSKey = "openbsd"
	OSNetBSD  OSKey = "netbsd"
	OSDefault OSKey = "default"
)

// OSKeys returns every accepted deps_script key.
func OSKeys() []OSKey {
	return []OSKey{OSLinux, OSDarwin, OSWindows, OSFreeBSD, OSOpenBSD, OSNetBSD, OSDefault}
}

// ParseOSKey validates a deps_script key. Matching is case-sensitive.
func ParseOSKey(s string) (OSKey, bool) {
	for _, k := range OSKeys() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// HostOS returns the key for the running operating system.
func HostOS() OSKey {
	return OSKey(runtime.GOOS)
}

// DepsScript maps OS keys to ordered script lists.
type DepsScript map[OSKey][]string

// Resolve returns the scripts for os, falling back to the default entry,
// and to an empty list when neither exists. It never fails.
func (d DepsScript) Resolve(os OSKey) []string {
	if scripts, ok := d[os]; ok {
		return scripts
	}
	if scripts, ok := d[OSDefault]; ok {
		return scripts
	}
	return []string{}
}

// All returns every script named under any key, de-duplicated, in OSKeys
// order.
func (d DepsScript) All() []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range OSKeys() {
		for _, s := range d[k] {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// TemplateRoots returns the user template directories resolved against
// the config file directory, in declared order.
func (c *Config) TemplateRoots() []string {
	roots := make([]string, 0, len(c.TemplatesDir))
	for _, d := range c.TemplatesDir {
		roots = append(roots, resolveAgainst(c.Dir(), d))
	}
	return roots
}

// OutputBase returns the directory packages are generated into.
func (c *Config) OutputBase() (string, error) {
	if c.OutputDir == "" {
		return filepath.Abs(".")
	}
	expanded, err := ExpandPath(c.OutputDir)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

// FilesRoot returns the directory copy_files sources are read from.
func (c *Config) FilesRoot() string {
	if c.FilesDir == "" {
		return resolveAgainst(c.Dir(), DefaultFilesDir)
	}
	return resolveAgainst(c.Dir(), c.FilesDir)
}

// ScriptsRoot returns the directory deps_script sources are read from.
func (c *Config) ScriptsRoot() string {
	if c.ScriptsDir == "" {
		return resolveAgainst(c.Dir(), DefaultScriptsDir)
	}
	return resolveAgainst(c.Dir(), c.ScriptsDir)
}

// Package returns the config of the package with the given id, or a
// ConfigError naming the known ids.
func (c *Config) Package(id string) (PackageConfig, error) {
	pkg, ok := c.Packages.Get(id)
	if !ok {
		return PackageConfig{}, &ConfigError{
			PackageID: id,
			Message:   "unknown package",
			Hint:      knownPackagesHint(c.Packages.IDs()),
		}
	}
	return pkg, nil
}

// RequirePackages fails when the config defines no packages.
func (c *Config) RequirePackages() error {
	if c.Packages.Len() == 0 {
		return &ConfigError{Field: "packages", Message: "is required and must define at least one package"}
	}
	return nil
}

// RequireTemplates fails when the config defines no templates.
func (c *Config) RequireTemplates() error {
	if len(c.Templates) == 0 {
		return &ConfigError{Field: "templates", Message: "no templates defined"}
	}
	return nil
}
