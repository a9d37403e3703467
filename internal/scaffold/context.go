package scaffold

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/grimwm/stencil/internal/config"
)

// Context keys shared by every package. template_env entries may not
// reuse them.
const (
	KeyPackageID     = "package_id"
	KeyName          = "name"
	KeyPackageName   = "package_name"
	KeyPackageDir    = "package_dir"
	KeyPackageType   = "package_type"
	KeyPackageFolder = "package_folder"
	KeyDocs          = "docs"
	KeyPDFs          = "pdfs"
	KeyHasDocs       = "has_docs"
	KeyHasPDFs       = "has_pdfs"
	KeyServices      = "services"
	KeyHasWeb        = "has_web"
	KeyHasMySQL      = "has_mysql"
	KeyHasServices   = "has_services"
	KeySQLImports    = "sql_imports"
	KeySQLImport     = "sql_import"
	KeyHasSQLImports = "has_sql_imports"
	KeyDepsScript    = "deps_script"
	KeyDepsScripts   = "deps_scripts"
	KeyHasDepsScript = "has_deps_script"
	KeyCopyFiles     = "copy_files"
	KeyHasCopyFiles  = "has_copy_files"
	KeyOS            = "os"
	KeyTemplateEnv   = "template_env"
)

var builtinKeys = []string{
	KeyPackageID, KeyName, KeyPackageName, KeyPackageDir, KeyPackageType,
	KeyPackageFolder, KeyDocs, KeyPDFs, KeyHasDocs, KeyHasPDFs, KeyServices,
	KeyHasWeb, KeyHasMySQL, KeyHasServices, KeySQLImports, KeySQLImport,
	KeyHasSQLImports, KeyDepsScript, KeyDepsScripts, KeyHasDepsScript,
	KeyCopyFiles, KeyHasCopyFiles, KeyOS, KeyTemplateEnv,
}

// IsBuiltinKey reports whether key is reserved by the context.
func IsBuiltinKey(key string) bool {
	return slices.Contains(builtinKeys, key)
}

// RenderContext is the derived, read-only view of one package.
type RenderContext struct {
	PackageID     string
	Name          string
	PackageName   string
	PackageDir    string
	PackageType   config.PackageType
	PackageFolder string

	// Docs lists document sources relative to the package directory.
	Docs []string

	// Services is an ordered set.
	Services []string

	// SQLImports is always a list, whichever shape the config used.
	SQLImports []map[string]any

	// DepsScript is the script list resolved for OS.
	DepsScript []string

	// DepsScripts is the unresolved per-OS map.
	DepsScripts config.DepsScript

	CopyFiles []config.CopyFile

	// OS is the key DepsScript was resolved against.
	OS config.OSKey

	// TemplateEnv holds user-defined values, also exposed at top level.
	TemplateEnv map[string]any
}

// DeriveOptions controls context derivation.
type DeriveOptions struct {
	// OS overrides the host OS used to resolve deps_script.
	OS config.OSKey
}

// Derive builds the render context for package id. Each field defaults
// independently. Malformed input fails with a *config.ConfigError naming
// the package and field.
func Derive(id string, pkg config.PackageConfig, opts DeriveOptions) (*RenderContext, error) {
	if err := validate(id, pkg); err != nil {
		return nil, err
	}

	os := opts.OS
	if os == "" {
		os = config.HostOS()
	}

	ctx := &RenderContext{
		PackageID:     id,
		Name:          orDefault(pkg.Name, id),
		PackageName:   pkg.PackageName,
		PackageDir:    orDefault(pkg.Dir, id),
		PackageType:   pkg.Type,
		PackageFolder: orDefault(pkg.PackageFolder, config.DefaultPackageFolder),
		Docs:          cloneList(pkg.Docs),
		Services:      cloneList(pkg.Services),
		SQLImports:    cloneSQLImports(pkg.SQLImport),
		DepsScript:    slices.Clone(pkg.DepsScript.Resolve(os)),
		DepsScripts:   cloneDepsScript(pkg.DepsScript),
		CopyFiles:     slices.Clone(pkg.CopyFiles),
		OS:            os,
		TemplateEnv:   maps.Clone(pkg.TemplateEnv),
	}
	if ctx.CopyFiles == nil {
		ctx.CopyFiles = []config.CopyFile{}
	}
	if ctx.TemplateEnv == nil {
		ctx.TemplateEnv = map[string]any{}
	}

	return ctx, nil
}

// DeriveAll derives the packages named by ids, or every package of cfg
// in file order when ids is empty. All packages are checked; the
// returned error joins every failure, unknown ids included.
func DeriveAll(cfg *config.Config, ids []string, opts DeriveOptions) ([]*RenderContext, error) {
	if len(ids) == 0 {
		ids = cfg.Packages.IDs()
	}

	var (
		ctxs []*RenderContext
		errs []error
	)
	for _, id := range ids {
		pkg, err := cfg.Package(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ctx, err := Derive(id, pkg, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ctxs = append(ctxs, ctx)
	}
	return ctxs, errors.Join(errs...)
}

func validate(id string, pkg config.PackageConfig) error {
	if pkg.Type == "" {
		return &config.ConfigError{PackageID: id, Field: "package_type", Message: "is required"}
	}
	if pkg.Type == config.PackageZip && pkg.PackageName == "" {
		return &config.ConfigError{
			PackageID: id,
			Field:     "package_name",
			Message:   "is required when package_type is zip",
		}
	}
	for _, cf := range pkg.CopyFiles {
		if _, ok := config.SubPath(cf.Dest); !ok {
			return &config.ConfigError{
				PackageID: id,
				Field:     "copy_files",
				Message:   fmt.Sprintf("destination %q must name a path inside the package directory", cf.Dest),
			}
		}
	}
	for _, script := range pkg.DepsScript.All() {
		if _, ok := config.SubPath(script); !ok {
			return &config.ConfigError{
				PackageID: id,
				Field:     "deps_script",
				Message:   fmt.Sprintf("script %q must name a file inside the scripts directory", script),
			}
		}
	}
	for _, key := range slices.Sorted(maps.Keys(pkg.TemplateEnv)) {
		if IsBuiltinKey(key) {
			return &config.ConfigError{
				PackageID: id,
				Field:     "template_env." + key,
				Message:   fmt.Sprintf("%q collides with a built-in context key", key),
				Hint:      "rename the template_env entry",
			}
		}
	}
	return nil
}

// HasWeb reports whether the package runs a web service.
func (c *RenderContext) HasWeb() bool { return slices.Contains(c.Services, "web") }

// HasMySQL reports whether the package runs a MySQL service.
func (c *RenderContext) HasMySQL() bool { return slices.Contains(c.Services, "mysql") }

func (c *RenderContext) HasServices() bool   { return len(c.Services) > 0 }
func (c *RenderContext) HasDocs() bool       { return len(c.Docs) > 0 }
func (c *RenderContext) HasSQLImports() bool { return len(c.SQLImports) > 0 }
func (c *RenderContext) HasDepsScript() bool { return len(c.DepsScripts) > 0 }
func (c *RenderContext) HasCopyFiles() bool  { return len(c.CopyFiles) > 0 }

// Vars projects the context into the namespace handed to templates:
// every built-in key, then each template_env entry at top level.
func (c *RenderContext) Vars() map[string]any {
	deps := make(map[string][]string, len(c.DepsScripts))
	for k, v := range c.DepsScripts {
		deps[string(k)] = slices.Clone(v)
	}

	copies := make([]map[string]string, len(c.CopyFiles))
	for i, cf := range c.CopyFiles {
		copies[i] = map[string]string{"src": cf.Src, "dest": cf.Dest}
	}

	vars := map[string]any{
		KeyPackageID:     c.PackageID,
		KeyName:          c.Name,
		KeyPackageName:   c.PackageName,
		KeyPackageDir:    c.PackageDir,
		KeyPackageType:   string(c.PackageType),
		KeyPackageFolder: c.PackageFolder,
		KeyDocs:          slices.Clone(c.Docs),
		KeyPDFs:          slices.Clone(c.Docs),
		KeyHasDocs:       c.HasDocs(),
		KeyHasPDFs:       c.HasDocs(),
		KeyServices:      slices.Clone(c.Services),
		KeyHasWeb:        c.HasWeb(),
		KeyHasMySQL:      c.HasMySQL(),
		KeyHasServices:   c.HasServices(),
		KeySQLImports:    cloneSQLImports(c.SQLImports),
		KeySQLImport:     cloneSQLImports(c.SQLImports),
		KeyHasSQLImports: c.HasSQLImports(),
		KeyDepsScript:    slices.Clone(c.DepsScript),
		KeyDepsScripts:   deps,
		KeyHasDepsScript: c.HasDepsScript(),
		KeyCopyFiles:     copies,
		KeyHasCopyFiles:  c.HasCopyFiles(),
		KeyOS:            string(c.OS),
		KeyTemplateEnv:   maps.Clone(c.TemplateEnv),
	}
	for k, v := range c.TemplateEnv {
		vars[k] = v
	}
	return vars
}

// Lookup returns the value of a context key.
func (c *RenderContext) Lookup(name string) (any, bool) {
	v, ok := c.Vars()[name]
	return v, ok
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func cloneList(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

func cloneSQLImports(in []map[string]any) []map[string]any {
	out := make([]map[string]any, len(in))
	for i, m := range in {
		out[i] = maps.Clone(m)
	}
	return out
}

func cloneDepsScript(in config.DepsScript) config.DepsScript {
	out := make(config.DepsScript, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}
