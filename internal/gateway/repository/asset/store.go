// Package asset persists tenant image files and their folder layout
// under clients/<tenant>/images/.
package asset

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Object is a single listing entry. Folder entries carry a trailing
// slash in Key and a zero Size.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
	IsFolder     bool
}

// Store defines operations for tenant image assets.
type Store interface {
	// List returns objects and folder entries directly under
	// clients/<tenant>/<prefix>.
	List(ctx context.Context, tenantID, prefix string) ([]Object, error)
	// ListAll returns every object key under clients/<tenant>/<prefix>,
	// recursively, without folder entries.
	ListAll(ctx context.Context, tenantID, prefix string) ([]string, error)
	// Upload stores data under clients/<tenant>/<fileName> and returns
	// the full object key.
	Upload(ctx context.Context, tenantID, fileName, contentType string, data []byte) (string, error)
	// Delete removes the object at the given full key.
	Delete(ctx context.Context, key string) error
	// CreateFolder creates an empty folder marker object.
	CreateFolder(ctx context.Context, tenantID, category, name string) (string, error)
	// EnsureFolders creates the given image folders, skipping ones that
	// already exist, and reports which were created.
	EnsureFolders(ctx context.Context, tenantID string, folders []string) ([]string, error)
	// Fetch reads the object at the given full key for proxying.
	Fetch(ctx context.Context, key string) ([]byte, string, error)
}

var ErrNotFound = errors.New("asset not found")

// DefaultFolders are seeded for every new tenant.
var DefaultFolders = []string{"logos", "hero", "about", "services", "gallery", "general"}

func tenantPrefix(tenantID string) string {
	return "clients/" + strings.TrimSpace(tenantID) + "/"
}

func folderKey(tenantID, category, name string) string {
	key := tenantPrefix(tenantID) + "images/" + strings.Trim(category, "/")
	if name = strings.Trim(name, "/"); name != "" {
		key += "/" + name
	}
	return key + "/"
}
