package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrConfig indicates a malformed or contradictory scaffold configuration.
	ErrConfig = errors.New("config error")

	// ErrNotFound indicates a template, package, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrCollision indicates two templates of one package share a destination.
	ErrCollision = errors.New("destination collision")

	// ErrRender indicates the template engine failed on a template.
	ErrRender = errors.New("render error")

	// ErrWrite indicates a filesystem failure while writing outputs.
	ErrWrite = errors.New("write error")

	// ErrCompile indicates the external document compiler failed.
	ErrCompile = errors.New("compile error")
)
