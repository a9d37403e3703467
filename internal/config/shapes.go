package config

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// StringList decodes from a single string or a list of strings.
// A null value decodes to an empty list.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	list, err := decodeStringList(node)
	if err != nil {
		return err
	}
	*s = list
	return nil
}

func decodeStringList(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if isNull(node) {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || isNull(item) {
				return nil, &ConfigError{Line: item.Line, Message: "list entries must be strings"}
			}
			out = append(out, item.Value)
		}
		return out, nil
	default:
		return nil, &ConfigError{Line: node.Line, Message: "must be a string or a list of strings"}
	}
}

// When is a render predicate: a list of context names that must all be
// truthy. A single string decodes to a one-element list; absent decodes
// to nil, which always renders.
type When []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *When) UnmarshalYAML(node *yaml.Node) error {
	list, err := decodeStringList(node)
	if err != nil {
		err.(*ConfigError).Field = "when"
		return err
	}
	*w = list
	return nil
}

// ParsePackageType validates a package type name. legacy reports whether
// the name was a deprecated alias.
func ParsePackageType(s string) (t PackageType, legacy bool, err error) {
	switch PackageType(s) {
	case PackageZip, PackageDoc, PackageNone:
		return PackageType(s), false, nil
	}
	if mapped, ok := legacyPackageTypes[s]; ok {
		return mapped, true, nil
	}
	return "", false, &ConfigError{
		Field:   "package_type",
		Message: fmt.Sprintf("unknown package type %q", s),
		Hint:    "use one of zip, doc, none",
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. A bare string copies the
// file to the same relative path; a mapping names src and dest.
func (c *CopyFile) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if isNull(node) || node.Value == "" {
			return &ConfigError{Field: "copy_files", Line: node.Line, Message: "entry must not be empty"}
		}
		*c = CopyFile{Src: node.Value, Dest: node.Value}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Src  string `yaml:"src"`
			Dest string `yaml:"dest"`
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			switch key := node.Content[i].Value; key {
			case "src", "dest":
			default:
				return &ConfigError{Field: "copy_files", Line: node.Content[i].Line, Message: fmt.Sprintf("unknown key %q", key)}
			}
		}
		if err := node.Decode(&raw); err != nil {
			return &ConfigError{Field: "copy_files", Line: node.Line, Message: err.Error()}
		}
		if raw.Src == "" {
			return &ConfigError{Field: "copy_files", Line: node.Line, Message: "src is required"}
		}
		if raw.Dest == "" {
			raw.Dest = raw.Src
		}
		*c = CopyFile{Src: raw.Src, Dest: raw.Dest}
		return nil
	default:
		return &ConfigError{Field: "copy_files", Line: node.Line, Message: "entry must be a string or {src, dest}"}
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. Keys must be known OS keys;
// values are a command or a list of commands.
func (d *DepsScript) UnmarshalYAML(node *yaml.Node) error {
	if isNull(node) {
		*d = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return &ConfigError{Field: "deps_script", Line: node.Line, Message: "must be a mapping of OS key to scripts"}
	}
	out := make(DepsScript, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		key, ok := ParseOSKey(k.Value)
		if !ok {
			return &ConfigError{
				Field:   "deps_script",
				Line:    k.Line,
				Message: fmt.Sprintf("unknown OS key %q", k.Value),
				Hint:    fmt.Sprintf("valid keys: %v", OSKeys()),
			}
		}
		if _, dup := out[key]; dup {
			return &ConfigError{Field: "deps_script", Line: k.Line, Message: fmt.Sprintf("duplicate OS key %q", k.Value)}
		}
		scripts, err := decodeStringList(v)
		if err != nil {
			ce := err.(*ConfigError)
			ce.Field = "deps_script." + k.Value
			return ce
		}
		if scripts == nil {
			scripts = []string{}
		}
		out[key] = scripts
	}
	*d = out
	return nil
}

// SQLImports is the normalized sql_import list. A single mapping decodes
// to a one-element list so both shapes iterate the same way.
type SQLImports []map[string]any

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *SQLImports) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case isNull(node):
		*s = SQLImports{}
		return nil
	case node.Kind == yaml.MappingNode:
		m, err := decodeMapping(node, "sql_import")
		if err != nil {
			return err
		}
		*s = SQLImports{m}
		return nil
	case node.Kind == yaml.SequenceNode:
		out := make(SQLImports, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.MappingNode {
				return &ConfigError{Field: "sql_import", Line: item.Line, Message: "list entries must be mappings"}
			}
			m, err := decodeMapping(item, "sql_import")
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		*s = out
		return nil
	default:
		return &ConfigError{Field: "sql_import", Line: node.Line, Message: "must be a mapping or a list of mappings"}
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. Each key is decoded on its
// own so errors name the offending field.
func (p *PackageConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &ConfigError{Line: node.Line, Message: "package must be a mapping"}
	}

	var out PackageConfig
	var sawDocs, sawPDFs bool
	seen := make(map[string]bool, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		key := k.Value
		if seen[key] {
			return &ConfigError{Field: key, Line: k.Line, Message: "duplicate key"}
		}
		seen[key] = true

		var err error
		switch key {
		case "package_type":
			if v.Kind != yaml.ScalarNode || isNull(v) {
				err = &ConfigError{Message: "must be one of zip, doc, none"}
				break
			}
			var legacy bool
			out.Type, legacy, err = ParsePackageType(v.Value)
			if legacy {
				out.Deprecated = append(out.Deprecated, fmt.Sprintf("package_type: %s (use %s)", v.Value, out.Type))
			}
		case "package_name":
			out.PackageName, err = decodeString(v)
		case "name":
			out.Name, err = decodeString(v)
		case "dir":
			out.Dir, err = decodeString(v)
		case "package_folder":
			out.PackageFolder, err = decodeString(v)
		case "docs":
			sawDocs = true
			out.Docs, err = decodeStringList(v)
		case "pdfs":
			sawPDFs = true
			out.Docs, err = decodeStringList(v)
			out.Deprecated = append(out.Deprecated, "pdfs (use docs)")
		case "services":
			var list []string
			list, err = decodeStringList(v)
			out.Services = dedupe(list)
		case "copy_files":
			if isNull(v) {
				break
			}
			if v.Kind != yaml.SequenceNode {
				err = &ConfigError{Message: "must be a list"}
				break
			}
			err = v.Decode(&out.CopyFiles)
		case "deps_script":
			err = v.Decode(&out.DepsScript)
		case "sql_import":
			err = v.Decode(&out.SQLImport)
		case "template_env":
			if isNull(v) {
				break
			}
			if v.Kind != yaml.MappingNode {
				err = &ConfigError{Message: "must be a mapping"}
				break
			}
			out.TemplateEnv, err = decodeMapping(v, key)
		default:
			return &ConfigError{Field: key, Line: k.Line, Message: "unknown key"}
		}
		if err != nil {
			return fieldError(err, key, v.Line)
		}
	}

	if sawDocs && sawPDFs {
		return &ConfigError{Field: "docs", Line: node.Line, Message: "docs and pdfs are aliases; set only one"}
	}

	*p = out
	return nil
}

// Packages is the packages mapping with file order preserved.
type Packages struct {
	ids  []string
	byID map[string]PackageConfig
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Packages) UnmarshalYAML(node *yaml.Node) error {
	if isNull(node) {
		*p = Packages{}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return &ConfigError{Field: "packages", Line: node.Line, Message: "must be a mapping of package id to package"}
	}
	var out Packages
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		id := k.Value
		if id == "" {
			return &ConfigError{Field: "packages", Line: k.Line, Message: "package id must not be empty"}
		}
		if _, dup := out.Get(id); dup {
			return &ConfigError{PackageID: id, Line: k.Line, Message: "duplicate package id"}
		}
		var pkg PackageConfig
		if err := v.Decode(&pkg); err != nil {
			return withPackage(err, id)
		}
		out.Add(id, pkg)
	}
	*p = out
	return nil
}

// Add appends a package, replacing any existing entry with the same id.
func (p *Packages) Add(id string, pkg PackageConfig) {
	if p.byID == nil {
		p.byID = make(map[string]PackageConfig)
	}
	if _, ok := p.byID[id]; !ok {
		p.ids = append(p.ids, id)
	}
	p.byID[id] = pkg
}

// Get returns the package with the given id.
func (p Packages) Get(id string) (PackageConfig, bool) {
	pkg, ok := p.byID[id]
	return pkg, ok
}

// IDs returns package ids in file order.
func (p Packages) IDs() []string {
	return slices.Clone(p.ids)
}

// Len returns the number of packages.
func (p Packages) Len() int {
	return len(p.ids)
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func decodeString(node *yaml.Node) (string, error) {
	if isNull(node) {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", &ConfigError{Line: node.Line, Message: "must be a string"}
	}
	return node.Value, nil
}

func decodeMapping(node *yaml.Node, field string) (map[string]any, error) {
	m := make(map[string]any)
	if err := node.Decode(&m); err != nil {
		return nil, &ConfigError{Field: field, Line: node.Line, Message: err.Error()}
	}
	return m, nil
}

// fieldError attaches the field and line to errors raised by a nested
// decoder, keeping a more specific field when one is already set.
func fieldError(err error, field string, line int) error {
	ce, ok := err.(*ConfigError)
	if !ok {
		return &ConfigError{Field: field, Line: line, Message: err.Error()}
	}
	if ce.Field == "" {
		ce.Field = field
	}
	if ce.Line == 0 {
		ce.Line = line
	}
	return ce
}

func dedupe(in []string) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
