package content

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "acme", "content.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get before save: err = %v, want ErrNotFound", err)
	}

	doc := []byte(`{"hero":{"title":"Hi"}}`)
	if err := s.Save(ctx, "acme", "content.json", doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(ctx, "acme", "content.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(doc) {
		t.Fatalf("got %q, want %q", got, doc)
	}

	keys := s.Keys()
	if len(keys) != 1 || keys[0] != "clients/acme/data/content.json" {
		t.Fatalf("keys = %v", keys)
	}

	if err := s.Delete(ctx, "acme", "content.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "acme", "content.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreTenantIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Save(ctx, "acme", "config.json", []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Get(ctx, "other", "config.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant get: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreRejectsEmptyArgs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Save(ctx, "", "content.json", nil); err == nil {
		t.Fatalf("save with empty tenant succeeded")
	}
	if err := s.Save(ctx, "acme", "", nil); err == nil {
		t.Fatalf("save with empty filename succeeded")
	}
}

// countingStore records Get hits so cache behavior is observable.
type countingStore struct {
	*MemoryStore
	gets int
}

func (c *countingStore) Get(ctx context.Context, tenantID, filename string) ([]byte, error) {
	c.gets++
	return c.MemoryStore.Get(ctx, tenantID, filename)
}

func TestCachedStoreServesFromCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	s, err := NewCachedStore(inner, 8)
	if err != nil {
		t.Fatalf("NewCachedStore: %v", err)
	}

	if err := s.Save(ctx, "acme", "content.json", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Save primed the cache, so reads skip the inner store entirely.
	for i := 0; i < 3; i++ {
		if _, err := s.Get(ctx, "acme", "content.json"); err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
	}
	if inner.gets != 0 {
		t.Fatalf("inner gets = %d, want 0", inner.gets)
	}
}

func TestCachedStoreRefreshOnSave(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	s, err := NewCachedStore(inner, 8)
	if err != nil {
		t.Fatalf("NewCachedStore: %v", err)
	}

	if err := s.Save(ctx, "acme", "content.json", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	if err := s.Save(ctx, "acme", "content.json", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("save 2: %v", err)
	}

	got, err := s.Get(ctx, "acme", "content.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Fatalf("got %q after second save", got)
	}
}

func TestCachedStoreDeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	s, err := NewCachedStore(inner, 8)
	if err != nil {
		t.Fatalf("NewCachedStore: %v", err)
	}

	if err := s.Save(ctx, "acme", "content.json", []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(ctx, "acme", "content.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "acme", "content.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}
}
