package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DiskStore writes artifacts to a flat directory, the way the original
// uploads folder worked.
type DiskStore struct {
	root     string
	initOnce sync.Once
	initErr  error
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) ensureRoot() error {
	s.initOnce.Do(func() {
		s.initErr = os.MkdirAll(s.root, 0o755)
	})
	return s.initErr
}

func (s *DiskStore) Save(_ context.Context, name, contentType string, content []byte) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	// Content type is carried by the file extension on disk.
	_ = contentType
	if err := s.ensureRoot(); err != nil {
		return fmt.Errorf("ensure artifact dir: %w", err)
	}
	return os.WriteFile(filepath.Join(s.root, name), content, 0o644)
}

func (s *DiskStore) Open(_ context.Context, name string) ([]byte, string, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return data, typeByName(name), nil
}

func (s *DiskStore) Delete(_ context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *DiskStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}
