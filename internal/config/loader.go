package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/grimwm/stencil/internal/output"
)

// Load reads, validates and decodes the config file at path.
// The returned Config records the absolute path it was loaded from so
// relative directories resolve against the config file.
func Load(path string) (*Config, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{
				Message: fmt.Sprintf("config file not found: %s", path),
				Hint:    "pass --config or set STENCIL_CONFIG",
			}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(abs, data)
	if err != nil {
		return nil, err
	}

	output.Debug("loaded config", "path", abs, "packages", cfg.Packages.Len(), "templates", len(cfg.Templates))
	return cfg, nil
}

// Parse validates and decodes a config document. filename is recorded as
// the config path.
func Parse(filename string, data []byte) (*Config, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(filename, data); err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, decodeError(err)
	}
	cfg.Path = filename

	for i, t := range cfg.Templates {
		if t.Src == "" {
			return nil, &ConfigError{Field: fmt.Sprintf("templates[%d].src", i), Message: "must not be empty"}
		}
	}

	if cfg.Document.Engine == "" {
		cfg.Document.Engine = "pandoc"
	}

	for _, id := range cfg.Packages.IDs() {
		pkg, _ := cfg.Packages.Get(id)
		for _, d := range pkg.Deprecated {
			output.Warn("deprecated config", "package", id, "field", d)
		}
	}

	return &cfg, nil
}

func decodeError(err error) error {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce
	}
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		return &ConfigError{Message: te.Errors[0]}
	}
	return &ConfigError{Message: err.Error()}
}
