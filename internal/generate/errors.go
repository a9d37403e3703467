package generate

import (
	"fmt"
	"strings"

	oerrors "github.com/grimwm/stencil/internal/errors"
)

// DestinationCollisionError reports two templates of one package writing
// the same file. It is raised before anything is written.
type DestinationCollisionError struct {
	PackageID string
	Dest      string
	Sources   []string
}

func (e *DestinationCollisionError) Error() string {
	return fmt.Sprintf("package %q: templates %s all write %s",
		e.PackageID, strings.Join(e.Sources, ", "), e.Dest)
}

// Is matches oerrors.ErrCollision.
func (e *DestinationCollisionError) Is(target error) bool {
	return target == oerrors.ErrCollision
}

// RenderError reports a template that failed to parse or execute.
type RenderError struct {
	PackageID string
	Template  string
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("package %q: rendering %s: %v", e.PackageID, e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Is matches oerrors.ErrRender.
func (e *RenderError) Is(target error) bool {
	return target == oerrors.ErrRender
}

// WriteError reports a filesystem failure for one output path. Earlier
// writes are not rolled back.
type WriteError struct {
	PackageID string
	Path      string
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("package %q: writing %s: %v", e.PackageID, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is matches oerrors.ErrWrite.
func (e *WriteError) Is(target error) bool {
	return target == oerrors.ErrWrite
}

// TemplateNotFoundError ties a resolver miss to the package being
// generated. It unwraps to the resolver's error.
type TemplateNotFoundError struct {
	PackageID string
	Err       error
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("package %q: %v", e.PackageID, e.Err)
}

func (e *TemplateNotFoundError) Unwrap() error { return e.Err }
