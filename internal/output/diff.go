package output

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"github.com/pmezard/go-difflib/difflib"
)

// diffContextLines is the number of unchanged lines shown around a hunk.
const diffContextLines = 3

// FileDiff renders the change from current to next for the file at path.
// It returns "" when the contents are identical. YAML files get a
// structural diff; if either side fails to parse, a unified text diff is
// used instead.
func FileDiff(path string, current, next []byte, useColor bool) (string, error) {
	if bytes.Equal(current, next) {
		return "", nil
	}

	if isYAML(path) && len(bytes.TrimSpace(current)) > 0 && len(bytes.TrimSpace(next)) > 0 {
		diff, err := diffYAML(current, next, useColor)
		if err == nil && diff != "" {
			return diff, nil
		}
		Debug("falling back to text diff", "path", path, "error", err)
	}

	return diffText(path, current, next, useColor)
}

// Preview renders full content for a file that does not exist yet, one
// "+ " prefixed line per source line.
func Preview(content []byte, useColor bool) string {
	styles := NoColorStyles()
	if useColor {
		styles = GetStyles()
	}

	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(string(content), "\n"), "\n") {
		sb.WriteString(styles.Success.Render("+ " + line))
		sb.WriteString("\n")
	}
	return sb.String()
}

// IndentDiff indents every non-empty line of diff.
func IndentDiff(diff string, indent string) string {
	if diff == "" {
		return ""
	}

	var sb strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatSummary returns e.g. "2 created, 1 unchanged" for the non-zero
// counts, in the order given. Zero counts are omitted.
func FormatSummary(counts ...Count) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.N > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.N, c.Label))
		}
	}
	if len(parts) == 0 {
		return "No changes"
	}
	return strings.Join(parts, ", ")
}

// Count is a labelled counter for FormatSummary.
type Count struct {
	Label string
	N     int
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func diffText(path string, current, next []byte, useColor bool) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(next)),
		FromFile: "a/" + filepath.ToSlash(path),
		ToFile:   "b/" + filepath.ToSlash(path),
		Context:  diffContextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", path, err)
	}
	if !useColor {
		return text, nil
	}

	styles := GetStyles()
	var sb strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			body = styles.Bold.Render(body)
		case strings.HasPrefix(body, "@@"):
			body = styles.Muted.Render(body)
		case strings.HasPrefix(body, "+"):
			body = styles.Success.Render(body)
		case strings.HasPrefix(body, "-"):
			body = styles.Error.Render(body)
		}
		sb.WriteString(body)
		if strings.HasSuffix(line, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// diffYAML computes a structural YAML diff using dyff.
func diffYAML(current, next []byte, useColor bool) (string, error) {
	from, err := parseYAMLInput("current", current)
	if err != nil {
		return "", fmt.Errorf("parsing current YAML: %w", err)
	}
	to, err := parseYAMLInput("rendered", next)
	if err != nil {
		return "", fmt.Errorf("parsing rendered YAML: %w", err)
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}
	if len(report.Diffs) == 0 {
		// Same structure, different formatting or comments.
		return "", nil
	}

	var buf bytes.Buffer
	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := writer.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func parseYAMLInput(name string, data []byte) (ytbx.InputFile, error) {
	docs, err := ytbx.LoadYAMLDocuments(bytes.TrimSpace(data))
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}
