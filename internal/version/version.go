// Package version provides version information for the stencil CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// cueModule is the module path of the CUE SDK used for config schema
// validation.
const cueModule = "cuelang.org/go"

// fallbackCUESDKVersion is reported when build info is unavailable,
// e.g. in tests.
const fallbackCUESDKVersion = "v0.15.4"

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// CUESDKVersion is the CUE SDK version validating config files.
	CUESDKVersion string `json:"cueSDKVersion"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		CUESDKVersion: cueSDKVersion(),
	}
}

func cueSDKVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return fallbackCUESDKVersion
	}
	return depVersion(bi, cueModule, fallbackCUESDKVersion)
}

func depVersion(bi *debug.BuildInfo, module, fallback string) string {
	for _, dep := range bi.Deps {
		if dep.Path != module {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return fallback
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("stencil %s\n  Commit:  %s\n  Built:   %s\n  Go:      %s\n  CUE SDK: %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.CUESDKVersion)
}
