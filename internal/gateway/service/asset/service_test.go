package asset

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	repo "sitegate/internal/gateway/repository/asset"
)

func newTestService(t *testing.T) (*Service, *repo.MemoryStore) {
	t.Helper()
	store := repo.NewMemoryStore()
	svc := New(store, "https://admin.example.com")
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, store
}

func TestUploadAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.Upload(ctx, "acme", "images/hero/", "banner.png", "image/png", []byte("png"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.FileName != "images/hero/1700000000000-banner.png" {
		t.Fatalf("fileName = %q", res.FileName)
	}
	if res.URL != "https://admin.example.com/images/clients/acme/images/hero/1700000000000-banner.png" {
		t.Fatalf("url = %q", res.URL)
	}

	items, err := svc.List(ctx, "acme", "images/hero/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Type != "file" || items[0].URL != res.URL {
		t.Fatalf("items = %+v", items)
	}
}

func TestUploadRejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	cases := []struct {
		name        string
		fileName    string
		contentType string
		data        []byte
	}{
		{"empty body", "a.png", "image/png", nil},
		{"non-image type", "a.pdf", "application/pdf", []byte("x")},
		{"oversized", "a.png", "image/png", make([]byte, 10*1024*1024+1)},
		{"traversal name", "../a.png", "image/png", []byte("x")},
		{"separator name", "b/a.png", "image/png", []byte("x")},
	}
	for _, tc := range cases {
		_, err := svc.Upload(ctx, "acme", "", tc.fileName, tc.contentType, tc.data)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: err = %v, want ValidationError", tc.name, err)
		}
	}
}

func TestListFiltersNonImages(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := store.Upload(ctx, "acme", "images/notes.txt", "text/plain", []byte("x")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.Upload(ctx, "acme", "images/logo.svg", "image/svg+xml", []byte("x")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	items, err := svc.List(ctx, "acme", "images/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || !strings.HasSuffix(items[0].Key, "logo.svg") {
		t.Fatalf("items = %+v", items)
	}
}

func TestListHidesBareImagesFolder(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := store.EnsureFolders(ctx, "acme", []string{"hero"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Listing the tenant root shows images/ content, not the marker.
	items, err := svc.List(ctx, "acme", "images/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, item := range items {
		if item.Key == "clients/acme/images/" {
			t.Fatalf("bare images/ folder leaked: %+v", items)
		}
	}
}

func TestListCachesUntilWrite(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := svc.List(ctx, "acme", "images/"); err != nil {
		t.Fatalf("list: %v", err)
	}

	// A direct store write is invisible while the cache entry lives.
	if _, err := store.Upload(ctx, "acme", "images/sneaky.png", "image/png", []byte("x")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	items, _ := svc.List(ctx, "acme", "images/")
	if len(items) != 0 {
		t.Fatalf("cached list = %+v, want empty", items)
	}

	// An upload through the service invalidates it.
	if _, err := svc.Upload(ctx, "acme", "images/", "seen.png", "image/png", []byte("x")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	items, _ = svc.List(ctx, "acme", "images/")
	if len(items) != 2 {
		t.Fatalf("refreshed list = %+v, want 2 files", items)
	}
}

func TestDeleteEnforcesTenantNamespace(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	key, err := store.Upload(ctx, "other", "images/a.png", "image/png", []byte("x"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	err = svc.Delete(ctx, "acme", key)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("cross-tenant delete: err = %v, want ValidationError", err)
	}

	if err := svc.Delete(ctx, "other", key); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestDeleteRejectsOutsideClients(t *testing.T) {
	svc, _ := newTestService(t)
	for _, key := range []string{"", "etc/passwd", "clients/acme/../other/x.png"} {
		err := svc.Delete(context.Background(), "acme", key)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("key %q: err = %v, want ValidationError", key, err)
		}
	}
}

func TestInitFolders(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.InitFolders(ctx, "acme")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(created) != len(repo.DefaultFolders) {
		t.Fatalf("created = %v", created)
	}
}

func TestFetchRefusesDocuments(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := store.Upload(ctx, "acme", "data/content.json", "application/json", []byte("{}")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for _, key := range []string{
		"clients/acme/data/content.json",
		"clients/acme/images/fake.json",
	} {
		_, _, err := svc.Fetch(ctx, key)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("key %q: err = %v, want ValidationError", key, err)
		}
	}
}

func TestFetchServesImages(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	key, err := store.Upload(ctx, "acme", "images/a.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	data, contentType, err := svc.Fetch(ctx, key)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != "png-bytes" || contentType != "image/png" {
		t.Fatalf("fetch = %q %q", data, contentType)
	}
}

func TestListerFeedsEditor(t *testing.T) {
	ctx := context.Background()
	_, store := newTestService(t)

	if _, err := store.Upload(ctx, "acme", "images/hero/a.png", "image/png", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	keys, err := NewLister(store, "acme").List(ctx, "images/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 || keys[0] != "clients/acme/images/hero/a.png" {
		t.Fatalf("keys = %v", keys)
	}
}
