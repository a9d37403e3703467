package generate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/grimwm/stencil/internal/output"
)

// File is one rendered output.
type File struct {
	// Source is a display path for where the content came from.
	Source string

	// Path is the absolute destination.
	Path string

	Content []byte
	Mode    fs.FileMode
}

// Writer applies outputs to the filesystem, or reports what would
// change. Every method returns one of the output.Status* values.
type Writer interface {
	Write(f File) (string, error)
	Copy(src, dest string) (string, error)
	Remove(path string) (string, error)
}

// FileWriter writes to disk. Existing files are overwritten
// unconditionally; identical content is reported as unchanged.
type FileWriter struct{}

// NewFileWriter returns a writer that mutates the filesystem.
func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

// Write creates parent directories and writes f.
func (w *FileWriter) Write(f File) (string, error) {
	status, err := statusFor(f.Path, f.Content)
	if err != nil {
		return output.StatusFailed, err
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return output.StatusFailed, fmt.Errorf("creating directories: %w", err)
	}
	if err := os.WriteFile(f.Path, f.Content, f.Mode); err != nil {
		return output.StatusFailed, err
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(f.Path, f.Mode); err != nil {
		return output.StatusFailed, err
	}
	return status, nil
}

// Copy copies a file or directory tree. An existing destination
// directory is replaced.
func (w *FileWriter) Copy(src, dest string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return output.StatusFailed, err
	}

	if info.IsDir() {
		if err := os.RemoveAll(dest); err != nil {
			return output.StatusFailed, err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return output.StatusFailed, err
		}
		if err := os.CopyFS(dest, os.DirFS(src)); err != nil {
			return output.StatusFailed, err
		}
		return output.StatusCopied, nil
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return output.StatusFailed, err
	}
	return w.Write(File{Source: src, Path: dest, Content: content, Mode: info.Mode().Perm()})
}

// Remove deletes a file or directory tree. Missing paths are skipped.
func (w *FileWriter) Remove(path string) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return output.StatusSkipped, nil
		}
		return output.StatusFailed, err
	}
	if err := os.RemoveAll(path); err != nil {
		return output.StatusFailed, err
	}
	return output.StatusRemoved, nil
}

// DryRunWriter reports what FileWriter would do without touching the
// filesystem.
type DryRunWriter struct {
	out      io.Writer
	base     string
	useColor bool
}

// NewDryRunWriter reports to out. Paths are shown relative to base.
func NewDryRunWriter(out io.Writer, base string, useColor bool) *DryRunWriter {
	return &DryRunWriter{out: out, base: base, useColor: useColor}
}

// Write reports the source, destination and a diff or preview.
func (w *DryRunWriter) Write(f File) (string, error) {
	current, err := os.ReadFile(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return output.StatusFailed, err
	}
	exists := err == nil

	status := output.StatusCreated
	var body string
	switch {
	case !exists:
		body = output.Preview(f.Content, w.useColor)
	case bytes.Equal(current, f.Content):
		status = output.StatusUnchanged
	default:
		status = output.StatusUpdated
		body, err = output.FileDiff(w.rel(f.Path), current, f.Content, w.useColor)
		if err != nil {
			return output.StatusFailed, err
		}
	}

	fmt.Fprintln(w.out, output.FormatFileLine(w.rel(f.Path), status))
	if f.Source != "" {
		fmt.Fprintln(w.out, output.StyleDim.Render("    from "+f.Source))
	}
	if body != "" {
		fmt.Fprint(w.out, output.IndentDiff(body, "    "))
	}
	return status, nil
}

// Copy reports the copy.
func (w *DryRunWriter) Copy(src, dest string) (string, error) {
	if _, err := os.Stat(src); err != nil {
		return output.StatusFailed, err
	}
	fmt.Fprintln(w.out, output.FormatFileLine(w.rel(dest), output.StatusCopied))
	fmt.Fprintln(w.out, output.StyleDim.Render("    from "+src))
	return output.StatusCopied, nil
}

// Remove reports the removal.
func (w *DryRunWriter) Remove(path string) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return output.StatusSkipped, nil
		}
		return output.StatusFailed, err
	}
	fmt.Fprintln(w.out, output.FormatFileLine(w.rel(path), output.StatusRemoved))
	return output.StatusRemoved, nil
}

func (w *DryRunWriter) rel(path string) string {
	if w.base == "" {
		return path
	}
	if rel, err := filepath.Rel(w.base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func statusFor(path string, content []byte) (string, error) {
	current, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return output.StatusCreated, nil
		}
		return "", err
	}
	if bytes.Equal(current, content) {
		return output.StatusUnchanged, nil
	}
	return output.StatusUpdated, nil
}
