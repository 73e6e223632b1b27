// Package fs provides file-based storage for mirrored pages and assets.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/mdmirror"
)

// EnsureDir creates dir and its parents if they do not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return mdmirror.Errorf(mdmirror.EINVALID, "cannot create directory %q: %v", dir, err)
	}
	return nil
}

// Ensure Writer implements mdmirror.PageWriter at compile time.
var _ mdmirror.PageWriter = (*Writer)(nil)

// Writer writes Markdown pages into an output directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WritePage writes content to relPath under the base directory, creating
// parent directories. Paths escaping the base directory fail with EPATH.
func (w *Writer) WritePage(ctx context.Context, relPath string, content string) error {
	fullPath, err := w.resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// resolve joins relPath to the base directory and rejects escapes.
func (w *Writer) resolve(relPath string) (string, error) {
	fullPath := filepath.Join(w.baseDir, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(w.baseDir, fullPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", mdmirror.Errorf(mdmirror.EPATH, "path %q escapes output directory", relPath)
	}
	return fullPath, nil
}
