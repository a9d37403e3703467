package errors

import "errors"

// Exit codes returned by the stencil binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitConfigError indicates the scaffold config is malformed or an
	// unknown package id was requested.
	ExitConfigError = 2

	// ExitNotFound indicates a template could not be resolved.
	ExitNotFound = 5

	// ExitRenderError indicates a template failed to render or write.
	ExitRenderError = 6

	// ExitCollision indicates two templates of a package share a destination.
	ExitCollision = 7
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed is set when the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ExitCodeName(e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitConfigError:
		return "Config Error"
	case ExitNotFound:
		return "Not Found"
	case ExitRenderError:
		return "Render Error"
	case ExitCollision:
		return "Destination Collision"
	default:
		return "Unknown"
	}
}

// ExitCodeFromError determines the exit code for an error.
// An ExitError anywhere in the chain wins; otherwise sentinels decide.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrCollision):
		return ExitCollision
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrRender), errors.Is(err, ErrWrite), errors.Is(err, ErrCompile):
		return ExitRenderError
	default:
		return ExitGeneralError
	}
}
