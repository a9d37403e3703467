package config

import (
	"bytes"
	"embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaFS embed.FS

// ValidationError is a single schema violation.
type ValidationError struct {
	Field   string
	Message string
	Line    int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", e.Field, e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString("  ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Is matches the config sentinel so schema failures map to the config
// exit code.
func (e ValidationErrors) Is(target error) bool {
	return (&ConfigError{}).Is(target)
}

// Validator checks raw config documents against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaData, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaData, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if def.Err() != nil {
		return nil, fmt.Errorf("looking up #Config: %w", def.Err())
	}

	return &Validator{ctx: ctx, schema: def}, nil
}

// Validate checks a YAML document. filename is used in positions only.
func (v *Validator) Validate(filename string, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return &ConfigError{Message: fmt.Sprintf("parsing %s: %v", filename, err)}
	}

	doc := v.ctx.BuildFile(file)
	if doc.Err() != nil {
		return &ConfigError{Message: fmt.Sprintf("building %s: %v", filename, doc.Err())}
	}

	unified := v.schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func toValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Field:   strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		if ve.Field == "" {
			ve.Field = "(root)"
		}
		for _, pos := range e.InputPositions() {
			if pos.Filename() != "schema.cue" && pos.Line() > 0 {
				ve.Line = pos.Line()
				break
			}
		}
		key := ve.Error()
		if seen[key] {
			continue
		}
		seen[key] = true
		errs = append(errs, ve)
	}
	return errs
}
