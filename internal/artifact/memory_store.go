package artifact

import (
	"context"
	"sort"
	"sync"
)

type memoryObject struct {
	contentType string
	data        []byte
}

// MemoryStore keeps artifacts in process memory. Used in tests and as a
// throwaway backend.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryObject),
	}
}

func (s *MemoryStore) Save(_ context.Context, name, contentType string, content []byte) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = typeByName(name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = memoryObject{
		contentType: contentType,
		data:        append([]byte(nil), content...),
	}
	return nil
}

func (s *MemoryStore) Open(_ context.Context, name string) ([]byte, string, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.data[name]
	if !ok {
		return nil, "", ErrNotFound
	}
	return append([]byte(nil), obj.data...), obj.contentType, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		return ErrNotFound
	}
	delete(s.data, name)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for name := range s.data {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
