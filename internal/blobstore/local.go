// Package blobstore persists raw blob payloads on local disk.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is the byte-storage abstraction used by the entry service and the
// thumbnail workers.
type Store interface {
	// Write persists a new blob under a generated name and returns its path.
	Write(ctx context.Context, data []byte) (string, error)
	// WriteAt persists data at an exact path previously derived from a
	// stored blob path. Existing content is overwritten.
	WriteAt(ctx context.Context, path string, data []byte) error
	// Open returns a reader for a stored blob.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Exists reports whether a blob is present at path.
	Exists(ctx context.Context, path string) bool
}

// Local stores blobs as flat files under a root directory, one file per
// blob, named by a random uuid. The root is created on demand.
type Local struct {
	root string
}

// NewLocal creates a local blob store rooted at root.
func NewLocal(root string) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string { return l.root }

func (l *Local) Write(ctx context.Context, data []byte) (string, error) {
	if l == nil {
		return "", fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(l.root, uuid.NewString())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (l *Local) WriteAt(ctx context.Context, path string, data []byte) error {
	if l == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.checkPath(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if l == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.checkPath(path); err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (l *Local) Exists(ctx context.Context, path string) bool {
	if l == nil || ctx.Err() != nil || l.checkPath(path) != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// checkPath rejects paths outside the store root.
func (l *Local) checkPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if abs != l.root && !strings.HasPrefix(abs, l.root+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes blob root", path)
	}
	return nil
}

// RenditionPath derives the storage path of a fixed-width rendition from
// the original blob's path: same directory, same base name, suffixed with
// the width and a jpg extension. ServeBlob and the thumbnail workers must
// agree on this convention for renditions to be discoverable.
func RenditionPath(blobPath string, width int) string {
	dir := filepath.Dir(blobPath)
	base := filepath.Base(blobPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%d.jpg", base, width))
}
