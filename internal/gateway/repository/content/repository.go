// Package content persists per-tenant JSON documents (content.json,
// config.json, admin.config.json) under clients/<tenant>/data/.
package content

import (
	"context"
	"errors"
)

// Store defines operations for persisting tenant JSON documents.
type Store interface {
	Get(ctx context.Context, tenantID, filename string) ([]byte, error)
	Save(ctx context.Context, tenantID, filename string, data []byte) error
	Delete(ctx context.Context, tenantID, filename string) error
}

var ErrNotFound = errors.New("document not found")
