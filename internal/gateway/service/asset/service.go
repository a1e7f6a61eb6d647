// Package asset implements the image-library operations behind the
// /api/files upload, list, delete, and folder routes.
package asset

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"sitegate/internal/cache/memory"
	"sitegate/internal/gateway/repository/asset"
	"sitegate/internal/validation"
)

const maxUploadMB = 10

var imageExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg)$`)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Item is one listing entry as returned to the admin UI.
type Item struct {
	Key          string    `json:"key"`
	URL          string    `json:"url,omitempty"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	Type         string    `json:"type"`
}

type Service struct {
	store asset.Store

	// publicBaseURL prefixes proxied image URLs, e.g. https://admin.example.com.
	publicBaseURL string

	listCache *memory.LRUTTL[string, []Item]

	now func() time.Time
}

func New(store asset.Store, publicBaseURL string) *Service {
	return &Service{
		store:         store,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		listCache:     memory.NewLRUTTL[string, []Item](256, 30*time.Second),
		now:           time.Now,
	}
}

// List returns folders and image files directly under the prefix.
// Non-image files and the bare images/ marker are hidden.
func (s *Service) List(ctx context.Context, tenantID, prefix string) ([]Item, error) {
	if !validation.Prefix(prefix) {
		return nil, &ValidationError{Message: "invalid prefix"}
	}

	cacheKey := tenantID + "|" + prefix
	if items, ok := s.listCache.Get(cacheKey); ok {
		return items, nil
	}

	objs, err := s.store.List(ctx, tenantID, prefix)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	clientPrefix := "clients/" + tenantID + "/"
	items := make([]Item, 0, len(objs))
	for _, obj := range objs {
		if obj.IsFolder {
			if strings.TrimPrefix(obj.Key, clientPrefix) == "images/" {
				continue
			}
			items = append(items, Item{
				Key:          obj.Key,
				Size:         0,
				LastModified: obj.LastModified,
				Type:         "folder",
			})
			continue
		}
		if !imageExtRe.MatchString(obj.Key) {
			continue
		}
		items = append(items, Item{
			Key:          obj.Key,
			URL:          s.publicURL(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
			Type:         "file",
		})
	}

	s.listCache.Set(cacheKey, items)
	return items, nil
}

// UploadResult reports where an upload landed.
type UploadResult struct {
	FileName string `json:"fileName"`
	Key      string `json:"key"`
	URL      string `json:"url"`
}

// Upload validates and stores an image. The stored name is prefixed
// with the upload timestamp so repeat uploads never collide.
func (s *Service) Upload(ctx context.Context, tenantID, prefix, fileName, contentType string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Message: "no file provided"}
	}
	if !validation.ImageType(contentType) {
		return nil, &ValidationError{Message: "only image files are allowed"}
	}
	if !validation.FileSize(int64(len(data)), maxUploadMB) {
		return nil, &ValidationError{Message: fmt.Sprintf("file size must be less than %dMB", maxUploadMB)}
	}
	if !validation.Prefix(prefix) {
		return nil, &ValidationError{Message: "invalid prefix"}
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || strings.Contains(fileName, "..") || strings.ContainsAny(fileName, `/\`) {
		return nil, &ValidationError{Message: "invalid file name"}
	}

	stamped := fmt.Sprintf("%s%d-%s", prefix, s.now().UnixMilli(), fileName)
	key, err := s.store.Upload(ctx, tenantID, stamped, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("upload asset: %w", err)
	}

	s.invalidateTenant(tenantID)
	return &UploadResult{
		FileName: stamped,
		Key:      key,
		URL:      s.publicURL(key),
	}, nil
}

// Delete removes an object. The key must stay inside the calling
// tenant's namespace.
func (s *Service) Delete(ctx context.Context, tenantID, key string) error {
	if !validation.ObjectKey(key) {
		return &ValidationError{Message: "invalid file key"}
	}
	if !strings.HasPrefix(key, "clients/"+tenantID+"/") {
		return &ValidationError{Message: "key belongs to another tenant"}
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	s.invalidateTenant(tenantID)
	return nil
}

// CreateFolder adds a folder under images/<category>/.
func (s *Service) CreateFolder(ctx context.Context, tenantID, category, name string) (string, error) {
	if !folderName(category) || !folderName(name) {
		return "", &ValidationError{Message: "folder name and category are required"}
	}
	key, err := s.store.CreateFolder(ctx, tenantID, category, name)
	if err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	s.invalidateTenant(tenantID)
	return key, nil
}

// InitFolders seeds the standard image folders for a tenant.
func (s *Service) InitFolders(ctx context.Context, tenantID string) ([]string, error) {
	created, err := s.store.EnsureFolders(ctx, tenantID, asset.DefaultFolders)
	if err != nil {
		return nil, fmt.Errorf("init folders: %w", err)
	}
	if len(created) > 0 {
		s.invalidateTenant(tenantID)
	}
	return created, nil
}

// Fetch reads an image for the public proxy route. JSON documents and
// anything under data/ are refused.
func (s *Service) Fetch(ctx context.Context, key string) ([]byte, string, error) {
	if strings.Contains(key, "data/") || strings.HasSuffix(key, ".json") {
		return nil, "", &ValidationError{Message: "forbidden"}
	}
	if !validation.ObjectKey(key) {
		return nil, "", &ValidationError{Message: "invalid key"}
	}
	return s.store.Fetch(ctx, key)
}

func (s *Service) publicURL(key string) string {
	return s.publicBaseURL + "/images/" + key
}

func (s *Service) invalidateTenant(tenantID string) {
	// Entries are short-lived, dropping everything is simpler than
	// tracking per-tenant keys.
	s.listCache.Clear()
}

func folderName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return false
	}
	return validation.Prefix(name) && !strings.Contains(name, "/")
}

// Lister exposes the tenant's image keys to the section editor's asset
// loader.
type Lister struct {
	store    asset.Store
	tenantID string
}

func NewLister(store asset.Store, tenantID string) *Lister {
	return &Lister{store: store, tenantID: tenantID}
}

func (l *Lister) List(ctx context.Context, prefix string) ([]string, error) {
	return l.store.ListAll(ctx, l.tenantID, prefix)
}
