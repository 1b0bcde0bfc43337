// Package storefront is the shopper-side session: cart, favorites, currency choice,
// checkout and the REST client they share. Every piece is built once per session and
// handed around by reference.
package storefront

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"storefront-backend/internal/domain"

	"github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
)

// Keys of the independently persisted client state.
const (
	KeyCart      = "cart"
	KeyFavorites = "favorites"
	KeyCurrency  = "currency"
)

// LocalStore is durable key/value storage on the shopper's device.
type LocalStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// MemoryStore keeps state for the lifetime of the process.
type MemoryStore struct {
	c *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.c.Set(key, append([]byte(nil), value...), gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.c.Delete(key)
	return nil
}

// FileStore keeps every key in one JSON document on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	doc := map[string]json.RawMessage{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// write replaces the document through a temp file so a crash never leaves it half written.
func (s *FileStore) write(doc map[string]json.RawMessage) error {
	if len(doc) == 0 {
		err := os.Remove(s.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(value)
	return s.write(doc)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.write(doc)
}

// Repository persists one value of type T under a fixed key.
type Repository[T any] struct {
	store LocalStore
	key   string
}

func NewRepository[T any](store LocalStore, key string) *Repository[T] {
	return &Repository[T]{store: store, key: key}
}

// Load reports false when nothing is stored. A corrupt entry is an upstream failure.
func (r *Repository[T]) Load() (T, bool, error) {
	var v T
	data, ok, err := r.store.Get(r.key)
	if err != nil {
		return v, false, domain.UpstreamError("load "+r.key, err)
	}
	if !ok {
		return v, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, domain.UpstreamError("load "+r.key, err)
	}
	return v, true, nil
}

func (r *Repository[T]) Save(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return domain.UpstreamError("save "+r.key, err)
	}
	if err := r.store.Set(r.key, data); err != nil {
		return domain.UpstreamError("save "+r.key, err)
	}
	return nil
}

func (r *Repository[T]) Clear() error {
	if err := r.store.Delete(r.key); err != nil {
		return domain.UpstreamError("clear "+r.key, err)
	}
	return nil
}
