package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
	"github.com/grimwm/stencil/internal/generate"
	"github.com/grimwm/stencil/internal/output"
)

// ConfigDetail converts a ConfigError into a DetailError for display.
// path is the config file; the error's line, if known, is appended.
func ConfigDetail(path string, ce *config.ConfigError) *oerrors.DetailError {
	location := path
	if ce.Line > 0 {
		location = fmt.Sprintf("%s:%d", path, ce.Line)
	}

	detail := &oerrors.DetailError{
		Type:     "invalid config",
		Message:  ce.Message,
		Location: location,
		Field:    ce.Field,
		Hint:     ce.Hint,
		Cause:    ce,
	}
	if ce.PackageID != "" {
		detail.Context = map[string]string{"Package": ce.PackageID}
	}
	return detail
}

// PrintConfigError prints a config load or derivation error. Each
// ConfigError in err is printed as its own detail block; schema
// violations are listed under one summary line.
func PrintConfigError(path string, err error) {
	var verrs config.ValidationErrors
	if errors.As(err, &verrs) {
		output.Error("config does not match schema", "path", path)
		for _, v := range verrs {
			output.Details("  " + v.Error())
		}
		return
	}

	printed := false
	for _, e := range flatten(err) {
		var ce *config.ConfigError
		if errors.As(e, &ce) {
			output.Details(ConfigDetail(path, ce).Error())
			printed = true
			continue
		}
		output.Error(e.Error())
		printed = true
	}
	if !printed {
		output.Error("config error", "error", err)
	}
}

// flatten splits errors.Join trees into their leaves.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// PrintPackageResult writes the file tree of a package result to w and
// logs its errors.
func PrintPackageResult(w io.Writer, res *generate.PackageResult) {
	log := output.PackageLogger(res.PackageID)

	entries := make([]output.FileEntry, 0, len(res.Files))
	for _, f := range res.Files {
		entries = append(entries, output.FileEntry{Path: f.Path, Status: f.Status})
	}
	if tree := output.RenderFileTree(displayDir(res.Dir), entries); tree != "" {
		fmt.Fprint(w, tree)
	}

	for _, s := range res.Skipped {
		log.Debug("template skipped", "template", s.Src, "falsy", strings.Join(s.Falsy, ","))
	}
	for _, e := range res.Errors {
		log.Error(e.Error())
	}
}

// PackageSummary returns the one-line summary of a package result.
func PackageSummary(res *generate.PackageResult) string {
	return output.FormatSummary(
		output.Count{Label: output.StatusCreated, N: res.Count(output.StatusCreated)},
		output.Count{Label: output.StatusUpdated, N: res.Count(output.StatusUpdated)},
		output.Count{Label: output.StatusCopied, N: res.Count(output.StatusCopied)},
		output.Count{Label: output.StatusRemoved, N: res.Count(output.StatusRemoved)},
		output.Count{Label: output.StatusUnchanged, N: res.Count(output.StatusUnchanged)},
		output.Count{Label: output.StatusFailed, N: res.Count(output.StatusFailed)},
	)
}

// ExitErrorFor wraps err with the exit code of its most severe sentinel.
// The error is marked printed; callers log it first.
func ExitErrorFor(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &oerrors.ExitError{Code: mostSevere(err), Err: err, Printed: true}
}

// severity orders exit codes when a run failed in several ways. A
// config problem outranks a collision, which outranks a missing
// template, which outranks render and write failures.
var severity = []int{
	oerrors.ExitConfigError,
	oerrors.ExitCollision,
	oerrors.ExitNotFound,
	oerrors.ExitRenderError,
}

func mostSevere(err error) int {
	codes := make(map[int]bool)
	for _, e := range flatten(err) {
		codes[oerrors.ExitCodeFromError(e)] = true
	}
	for _, code := range severity {
		if codes[code] {
			return code
		}
	}
	return oerrors.ExitCodeFromError(err)
}

func displayDir(dir string) string {
	if rel, err := filepath.Rel(".", dir); err == nil && filepath.IsLocal(rel) {
		return filepath.ToSlash(rel)
	}
	if abs, err := filepath.Abs("."); err == nil {
		if rel, err := filepath.Rel(abs, dir); err == nil && filepath.IsLocal(rel) {
			return filepath.ToSlash(rel)
		}
	}
	return dir
}
