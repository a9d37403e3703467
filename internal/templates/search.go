package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/output"
)

// Root is one entry of a search path.
type Root struct {
	// Name identifies the root in messages; a directory path for user
	// roots and BundledRootName for the embedded templates.
	Name string

	// FS is the filesystem searched for templates.
	FS fs.FS
}

// DirRoot returns a root backed by a directory on disk.
func DirRoot(dir string) Root {
	return Root{Name: dir, FS: os.DirFS(dir)}
}

// BundledRoot returns the root backed by the embedded templates.
func BundledRoot() Root {
	return Root{Name: BundledRootName, FS: Bundled()}
}

// SearchPath is an ordered list of roots. Earlier roots override later
// ones.
type SearchPath []Root

// NewSearchPath builds a search path from user directories followed by
// the bundled templates.
func NewSearchPath(dirs ...string) SearchPath {
	sp := make(SearchPath, 0, len(dirs)+1)
	seen := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		clean := filepath.Clean(d)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		sp = append(sp, DirRoot(clean))
	}
	return sp.WithBundled()
}

// WithBundled appends the bundled root unless the path already ends
// with it.
func (sp SearchPath) WithBundled() SearchPath {
	for _, r := range sp {
		if r.Name == BundledRootName {
			return sp
		}
	}
	return append(sp, BundledRoot())
}

// Names returns the root names in search order.
func (sp SearchPath) Names() []string {
	names := make([]string, len(sp))
	for i, r := range sp {
		names[i] = r.Name
	}
	return names
}

// Match is a resolved template.
type Match struct {
	// Name is the template name that was looked up.
	Name string

	// Root is the root the template was found in.
	Root Root
}

// Path returns a display path for the match: the file path for
// directory roots, "<bundled>/name" otherwise.
func (m Match) Path() string {
	if m.Root.Name == BundledRootName {
		return path.Join(m.Root.Name, m.Name)
	}
	return filepath.Join(m.Root.Name, filepath.FromSlash(m.Name))
}

// ReadFile returns the template source.
func (m Match) ReadFile() ([]byte, error) {
	return fs.ReadFile(m.Root.FS, m.Name)
}

// Resolve returns the first root containing name as a regular file.
// Lookups are not cached; every call rechecks each root.
func (sp SearchPath) Resolve(name string) (Match, error) {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	if !fs.ValidPath(name) || name == "." {
		return Match{}, &NotFoundError{Name: name, Roots: sp.Names(), Reason: "invalid template name"}
	}

	for _, root := range sp {
		info, err := fs.Stat(root.FS, name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				output.Debug("skipping template root", "root", root.Name, "template", name, "err", err)
			}
			continue
		}
		if info.Mode().IsRegular() {
			return Match{Name: name, Root: root}, nil
		}
	}

	return Match{}, &NotFoundError{Name: name, Roots: sp.Names()}
}

// NotFoundError reports a template missing from every root.
type NotFoundError struct {
	Name   string
	Roots  []string
	Reason string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("template %q not found", e.Name)
	if e.Reason != "" {
		msg = fmt.Sprintf("template %q: %s", e.Name, e.Reason)
	}
	if len(e.Roots) == 0 {
		return msg
	}
	return msg + " (searched: " + strings.Join(e.Roots, ", ") + ")"
}

// Is matches oerrors.ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == oerrors.ErrNotFound
}
