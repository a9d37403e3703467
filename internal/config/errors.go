package config

import (
	"fmt"
	"strings"

	oerrors "github.com/grimwm/stencil/internal/errors"
)

// ConfigError reports malformed or contradictory configuration. It is
// always fatal before rendering starts.
type ConfigError struct {
	// PackageID is the package the error belongs to, if any.
	PackageID string

	// Field is the offending config key, e.g. "deps_script".
	Field string

	// Line is the 1-based line in the config file, when known.
	Line int

	// Message describes the problem.
	Message string

	// Hint is an optional suggestion printed after the message.
	Hint string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.PackageID != "" {
		fmt.Fprintf(&b, "package %q: ", e.PackageID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%s: ", e.Field)
	}
	b.WriteString(e.Message)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", e.Hint)
	}
	return b.String()
}

// Is matches oerrors.ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == oerrors.ErrConfig
}

// withPackage fills in the package id on ConfigErrors raised while
// decoding a package body.
func withPackage(err error, id string) error {
	if ce, ok := err.(*ConfigError); ok && ce.PackageID == "" {
		ce.PackageID = id
	}
	return err
}

func knownPackagesHint(ids []string) string {
	if len(ids) == 0 {
		return "no packages are defined"
	}
	return "known packages: " + strings.Join(ids, ", ")
}
