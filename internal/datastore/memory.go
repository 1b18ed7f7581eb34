package datastore

import (
	"slices"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries in process memory. Contents are lost on exit;
// it backs tests and the "memory" storage type.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore returns an empty, open MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryStore) Open() error {
	if m.cache == nil {
		m.cache = cache.New(cache.NoExpiration, 0)
	}
	return nil
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	if m.cache == nil {
		return nil, false, errNotOpen("memory")
	}
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v.([]byte)), true, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	if m.cache == nil {
		return errNotOpen("memory")
	}
	if value == nil {
		value = []byte{}
	}
	m.cache.Set(key, slices.Clone(value), cache.NoExpiration)
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	if m.cache == nil {
		return errNotOpen("memory")
	}
	m.cache.Delete(key)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	if m.cache == nil {
		return nil, errNotOpen("memory")
	}
	items := m.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (m *MemoryStore) Close() error {
	m.cache = nil
	return nil
}
