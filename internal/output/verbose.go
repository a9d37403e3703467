package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// VerboseOptions controls verbose output.
type VerboseOptions struct {
	// JSON outputs structured JSON instead of human-readable text
	JSON bool
	// Writer is the output destination
	Writer io.Writer
}

// verboseResult is the structured verbose output.
type verboseResult struct {
	SearchPath []string         `json:"searchPath"`
	Packages   []verbosePackage `json:"packages"`
}

// verbosePackage contains the plan of one package.
type verbosePackage struct {
	ID        string            `json:"id"`
	Dir       string            `json:"dir"`
	Templates []verboseTemplate `json:"templates"`
	Skipped   []verboseSkip     `json:"skipped,omitempty"`
	Errors    []string          `json:"errors,omitempty"`
}

// verboseTemplate describes a planned template and where it resolved.
type verboseTemplate struct {
	Src    string `json:"src"`
	Dest   string `json:"dest"`
	Source string `json:"source,omitempty"`
	Error  string `json:"error,omitempty"`
}

// verboseSkip describes a template whose when predicate was false.
type verboseSkip struct {
	Src   string   `json:"src"`
	Falsy []string `json:"falsy"`
}

// PlanInfo provides plan data without importing generate.
type PlanInfo struct {
	PackageID string
	Dir       string
	Templates []TemplatePlanInfo
	Skipped   []SkipInfo
	Err       error
}

// TemplatePlanInfo is one planned template. Source is the resolved path
// on the search path; ResolveErr is set when resolution failed.
type TemplatePlanInfo struct {
	Src        string
	Dest       string
	Source     string
	ResolveErr error
}

// SkipInfo is one template skipped by its predicate.
type SkipInfo struct {
	Src   string
	Falsy []string
}

// WriteVerbosePlan writes the per-package template plan: which templates
// render, where each resolves on the search path, and why the others
// are skipped.
func WriteVerbosePlan(searchPath []string, plans []PlanInfo, opts VerboseOptions) error {
	vr := buildVerboseResult(searchPath, plans)

	if opts.JSON {
		return writeVerboseJSON(vr, opts.Writer)
	}
	return writeVerboseHuman(vr, opts.Writer)
}

func buildVerboseResult(searchPath []string, plans []PlanInfo) *verboseResult {
	vr := &verboseResult{
		SearchPath: searchPath,
		Packages:   make([]verbosePackage, 0, len(plans)),
	}

	for _, p := range plans {
		vp := verbosePackage{
			ID:        p.PackageID,
			Dir:       p.Dir,
			Templates: make([]verboseTemplate, 0, len(p.Templates)),
		}
		for _, t := range p.Templates {
			vt := verboseTemplate{Src: t.Src, Dest: t.Dest, Source: t.Source}
			if t.ResolveErr != nil {
				vt.Error = t.ResolveErr.Error()
			}
			vp.Templates = append(vp.Templates, vt)
		}
		for _, s := range p.Skipped {
			vp.Skipped = append(vp.Skipped, verboseSkip(s))
		}
		if p.Err != nil {
			vp.Errors = append(vp.Errors, p.Err.Error())
		}
		vr.Packages = append(vr.Packages, vp)
	}

	return vr
}

// writeVerboseJSON writes verbose output as JSON.
func writeVerboseJSON(result *verboseResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeVerboseHuman writes verbose output in human-readable format.
func writeVerboseHuman(result *verboseResult, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("Search path:\n")
	for i, root := range result.SearchPath {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, root))
	}
	sb.WriteString("\n")

	for _, pkg := range result.Packages {
		sb.WriteString(fmt.Sprintf("Package %s (%s):\n", pkg.ID, pkg.Dir))

		for _, t := range pkg.Templates {
			if t.Error != "" {
				sb.WriteString(fmt.Sprintf("  ✗ %s -> %s\n", t.Src, t.Dest))
				sb.WriteString(fmt.Sprintf("      %s\n", t.Error))
				continue
			}
			sb.WriteString(fmt.Sprintf("  ✓ %s -> %s\n", t.Src, t.Dest))
			if t.Source != "" {
				sb.WriteString(fmt.Sprintf("      from %s\n", t.Source))
			}
		}

		for _, s := range pkg.Skipped {
			sb.WriteString(fmt.Sprintf("  - %s skipped (false: %s)\n", s.Src, strings.Join(s.Falsy, ", ")))
		}

		for _, e := range pkg.Errors {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", e))
		}
		sb.WriteString("\n")
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}
