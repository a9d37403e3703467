// Package templates resolves template names through an ordered search
// path and renders them with text/template.
//
// User template directories come first and override the bundled
// templates compiled into the binary, which are always searched last.
package templates

import (
	"embed"
	"io/fs"
	"strings"
)

// Suffix marks a file as a template. It is stripped to derive the
// default destination name.
const Suffix = ".tmpl"

// BundledRootName is the display name of the embedded template root.
const BundledRootName = "<bundled>"

//go:embed all:bundled
var bundledFS embed.FS

// Bundled returns the templates compiled into the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundledFS, "bundled")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// ListBundled returns the names of every bundled template, in lexical
// order.
func ListBundled() ([]string, error) {
	var names []string
	err := fs.WalkDir(Bundled(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, Suffix) {
			names = append(names, path)
		}
		return nil
	})
	return names, err
}

// DestFromSrc returns the default destination for a template source:
// src without the template suffix. Names without the suffix map to
// themselves.
func DestFromSrc(src string) string {
	return strings.TrimSuffix(src, Suffix)
}
