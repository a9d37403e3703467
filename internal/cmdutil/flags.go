// Package cmdutil provides shared command utilities for the stencil
// subcommands. It centralizes flag groups, config loading, package
// selection and result reporting.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grimwm/stencil/internal/config"
	oerrors "github.com/grimwm/stencil/internal/errors"
)

// TargetFlags holds flags for commands that act on one package or on
// all of them (gen, clean).
type TargetFlags struct {
	All    bool
	DryRun bool
}

// AddTo registers the target flags on the given cobra command.
func (f *TargetFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.All, "all", "a", false,
		"Act on every package in the config")
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false,
		"Report what would change without touching the filesystem")
}

// Validate checks that exactly one of a package id or --all is given.
func (f *TargetFlags) Validate(args []string) error {
	if f.All && len(args) > 0 {
		return oerrors.Wrap(oerrors.ErrConfig, "a package id and --all are mutually exclusive")
	}
	if !f.All && len(args) == 0 {
		return oerrors.Wrap(oerrors.ErrConfig, "a package id or --all is required")
	}
	return nil
}

// OSFlag overrides the host OS used to resolve deps_script.
type OSFlag struct {
	OS string
}

// AddTo registers the --os flag on the given cobra command.
func (f *OSFlag) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.OS, "os", "",
		fmt.Sprintf("OS key for deps_script resolution (%s; default: host)", osKeyList()))
}

// Resolve returns the OS key to derive contexts with. An empty flag
// means the host OS.
func (f *OSFlag) Resolve() (config.OSKey, error) {
	if f.OS == "" {
		return config.HostOS(), nil
	}
	key, ok := config.ParseOSKey(f.OS)
	if !ok {
		return "", &config.ConfigError{
			Field:   "--os",
			Message: fmt.Sprintf("unknown OS key %q", f.OS),
			Hint:    "valid keys: " + osKeyList(),
		}
	}
	return key, nil
}

func osKeyList() string {
	keys := config.OSKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
