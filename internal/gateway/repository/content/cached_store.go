package content

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore fronts another Store with an LRU of raw documents. Saves
// and deletes write through and refresh the cache so reads after a save
// never serve a stale body.
type CachedStore struct {
	inner Store
	cache *lru.Cache[string, []byte]
}

func NewCachedStore(inner Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{inner: inner, cache: cache}, nil
}

func (s *CachedStore) Get(ctx context.Context, tenantID, filename string) ([]byte, error) {
	key, err := documentKey(tenantID, filename)
	if err != nil {
		return nil, err
	}
	if raw, ok := s.cache.Get(key); ok {
		return append([]byte(nil), raw...), nil
	}
	raw, err := s.inner.Get(ctx, tenantID, filename)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, append([]byte(nil), raw...))
	return raw, nil
}

func (s *CachedStore) Save(ctx context.Context, tenantID, filename string, data []byte) error {
	key, err := documentKey(tenantID, filename)
	if err != nil {
		return err
	}
	if err := s.inner.Save(ctx, tenantID, filename, data); err != nil {
		return err
	}
	s.cache.Add(key, append([]byte(nil), data...))
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, tenantID, filename string) error {
	key, err := documentKey(tenantID, filename)
	if err != nil {
		return err
	}
	if err := s.inner.Delete(ctx, tenantID, filename); err != nil {
		return err
	}
	s.cache.Remove(key)
	return nil
}
