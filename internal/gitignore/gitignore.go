// Package gitignore maintains the stencil-managed section of a
// .gitignore file.
package gitignore

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/grimwm/stencil/internal/config"
	"github.com/grimwm/stencil/internal/document"
	"github.com/grimwm/stencil/internal/generate"
)

// Section markers. Everything between them is owned by stencil.
const (
	StartMarker = "# >>> stencil >>>"
	EndMarker   = "# <<< stencil <<<"
)

var sectionPattern = regexp.MustCompile(
	`(?ms)^` + regexp.QuoteMeta(StartMarker) + `$.*?^` + regexp.QuoteMeta(EndMarker) + `$\n?`,
)

// Action describes how Apply changed the file.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionAppended Action = "appended"
)

// Entries returns every path stencil generates, relative to a package
// directory: template destinations in config order, then copy_files
// destinations and compiled document names sorted, then scripts/ when
// any package has deps_script.
func Entries(cfg *config.Config) []string {
	var entries []string
	for _, def := range cfg.Templates {
		dest := generate.DestFor(def)
		if !slices.Contains(entries, dest) {
			entries = append(entries, dest)
		}
	}

	var generated []string
	hasScripts := false
	for _, id := range cfg.Packages.IDs() {
		pkg, _ := cfg.Packages.Get(id)
		for _, cf := range pkg.CopyFiles {
			generated = append(generated, path.Clean(cf.Dest))
		}
		for _, doc := range pkg.Docs {
			if document.IsMarkdown(doc) {
				generated = append(generated, strings.TrimSuffix(doc, path.Ext(doc))+".pdf")
			}
		}
		if len(pkg.DepsScript) > 0 {
			hasScripts = true
		}
	}
	slices.Sort(generated)
	entries = append(entries, slices.Compact(generated)...)

	if hasScripts {
		entries = append(entries, generate.ScriptsDir+"/")
	}
	return entries
}

// Section renders the marker-delimited block for entries.
func Section(entries []string) string {
	var sb strings.Builder
	sb.WriteString(StartMarker + "\n")
	for _, e := range entries {
		sb.WriteString(e + "\n")
	}
	sb.WriteString(EndMarker + "\n")
	return sb.String()
}

// Apply returns content with section installed. An existing section is
// replaced in place; otherwise the section is appended after a blank
// line.
func Apply(content []byte, exists bool, section string) ([]byte, Action) {
	if !exists {
		return []byte(section), ActionCreated
	}
	if sectionPattern.Match(content) {
		return sectionPattern.ReplaceAllLiteral(content, []byte(section)), ActionUpdated
	}

	var buf bytes.Buffer
	buf.Write(content)
	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n\n")) {
		if !bytes.HasSuffix(content, []byte("\n")) {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(section)
	return buf.Bytes(), ActionAppended
}

// Plan reads the file at path and returns the updated content.
func Plan(path string, entries []string) ([]byte, Action, error) {
	content, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", err
	}
	next, action := Apply(content, exists, Section(entries))
	return next, action, nil
}

// Install writes the stencil section into the file at path.
func Install(path string, entries []string) (Action, error) {
	next, action, err := Plan(path, entries)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, next, 0o644); err != nil {
		return "", err
	}
	return action, nil
}
