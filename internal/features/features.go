// Package features turns a WITH feature list into document output names
// and compiler metadata flags.
package features

import (
	"slices"
	"strings"
)

// MetadataPrefix is prepended to each feature to form a metadata key.
const MetadataPrefix = "include-"

// FeatureSet is an ordered set of lower-case feature names.
type FeatureSet struct {
	names []string
}

// Parse splits raw on commas, trims and lower-cases each token, and
// drops empty tokens and duplicates. Input order is kept.
func Parse(raw string) FeatureSet {
	var fs FeatureSet
	for _, tok := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(tok))
		if name == "" || slices.Contains(fs.names, name) {
			continue
		}
		fs.names = append(fs.names, name)
	}
	return fs
}

// Names returns the features in input order.
func (f FeatureSet) Names() []string {
	return slices.Clone(f.names)
}

// Empty reports whether the set has no features.
func (f FeatureSet) Empty() bool {
	return len(f.names) == 0
}

// Suffix returns "-f1-f2" for the set, or "" when empty.
func (f FeatureSet) Suffix() string {
	if f.Empty() {
		return ""
	}
	return "-" + strings.Join(f.names, "-")
}

// OutputName appends the suffix to base, e.g. "Document-hidden-draft".
func (f FeatureSet) OutputName(base string) string {
	return base + f.Suffix()
}

// MetadataFlags returns one include-<feature>=true entry per feature, in
// input order. Absent features are omitted rather than set to false.
func (f FeatureSet) MetadataFlags() []string {
	flags := make([]string, 0, len(f.names))
	for _, name := range f.names {
		flags = append(flags, MetadataPrefix+name+"=true")
	}
	return flags
}

// String returns the canonical comma-separated form.
func (f FeatureSet) String() string {
	return strings.Join(f.names, ",")
}
