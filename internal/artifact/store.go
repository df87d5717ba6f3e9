// Package artifact stores uploaded room photos and generated renderings.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a named artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Store persists image blobs under flat, caller-chosen names.
type Store interface {
	Save(ctx context.Context, name, contentType string, content []byte) error
	Open(ctx context.Context, name string) ([]byte, string, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// cleanName validates an artifact name: non-empty, no path traversal.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("artifact name is required")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	return name, nil
}

// typeByName infers a content type from the artifact's extension.
func typeByName(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
