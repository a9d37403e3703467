package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"
)

// OutputFormat specifies the output format of listing commands.
type OutputFormat string

const (
	// FormatYAML outputs in YAML format.
	FormatYAML OutputFormat = "yaml"

	// FormatJSON outputs in JSON format.
	FormatJSON OutputFormat = "json"

	// FormatTable outputs in table format.
	FormatTable OutputFormat = "table"
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTable:
		return true
	default:
		return false
	}
}

// ParseOutputFormat parses a string into an OutputFormat.
// Unknown values are returned as-is so IsValid can reject them.
func ParseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML
	case "json":
		return FormatJSON
	case "table", "":
		return FormatTable
	default:
		return OutputFormat(s)
	}
}

// ValidFormats returns the formats accepted by list.
func ValidFormats() []string {
	return []string{"table", "yaml", "json"}
}

// ValidDataFormats returns the formats accepted by commands that print
// structured data only.
func ValidDataFormats() []string {
	return []string{"yaml", "json"}
}

// WriteData encodes v as YAML or JSON to w. Map keys are sorted by both
// encoders, so output is stable across runs.
func WriteData(w io.Writer, format OutputFormat, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported data format %q; valid formats: %s",
			format, strings.Join(ValidDataFormats(), ", "))
	}
}
