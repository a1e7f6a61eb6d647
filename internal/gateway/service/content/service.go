// Package content implements the document operations behind the
// /api/files JSON routes.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sitegate/internal/gateway/repository/content"
	"sitegate/internal/schema"
	"sitegate/internal/util/jsonutil"
	"sitegate/internal/validation"
)

// ValidationError marks client errors so handlers can answer 400 instead
// of 500.
type ValidationError struct {
	Message string
	Details []validation.ConfigError
}

func (e *ValidationError) Error() string { return e.Message }

type Service struct {
	store content.Store

	// onSave runs after a successful content.json save, used to kick a
	// site rebuild. Optional.
	onSave func(ctx context.Context, tenantID string)
}

func New(store content.Store, onSave func(ctx context.Context, tenantID string)) *Service {
	return &Service{store: store, onSave: onSave}
}

// Load returns the raw document body.
func (s *Service) Load(ctx context.Context, tenantID, filename string) (json.RawMessage, error) {
	if !validation.FileName(filename) {
		return nil, &ValidationError{Message: "invalid filename"}
	}
	raw, err := s.store.Get(ctx, tenantID, filename)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// Save validates and persists a document. config.json additionally goes
// through the site-config structural check.
func (s *Service) Save(ctx context.Context, tenantID, filename string, doc map[string]any) error {
	if !validation.FileName(filename) {
		return &ValidationError{Message: "invalid filename"}
	}
	if doc == nil {
		return &ValidationError{Message: "data is required"}
	}
	if err := validation.Document(doc); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if filename == "config.json" {
		if errs := validation.SiteConfig(doc); len(errs) > 0 {
			return &ValidationError{Message: "validation failed", Details: errs}
		}
	}

	raw, err := jsonutil.MarshalNoEscapeIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.store.Save(ctx, tenantID, filename, raw); err != nil {
		return err
	}

	if filename == "content.json" && s.onSave != nil {
		s.onSave(ctx, tenantID)
	}
	return nil
}

var defaultSiteConfig = map[string]any{
	"site": map[string]any{
		"title":       "New Site",
		"description": "",
	},
	"theme": map[string]any{
		"primaryColor":   "#1A73E8",
		"secondaryColor": "#F5F5F5",
	},
	"pages": []any{},
}

var defaultContent = map[string]any{
	"hero": map[string]any{
		"title":    "Welcome",
		"subtitle": "Edit this text to get started",
	},
}

// InitConfig seeds config.json and content.json for a new tenant.
// Existing documents are left untouched.
func (s *Service) InitConfig(ctx context.Context, tenantID string) ([]string, error) {
	seeds := []struct {
		filename string
		doc      map[string]any
	}{
		{"config.json", defaultSiteConfig},
		{"content.json", defaultContent},
	}
	seeded := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		filename, doc := seed.filename, seed.doc
		if _, err := s.store.Get(ctx, tenantID, filename); err == nil {
			continue
		} else if !errors.Is(err, content.ErrNotFound) {
			return nil, err
		}
		raw, err := jsonutil.MarshalNoEscapeIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", filename, err)
		}
		if err := s.store.Save(ctx, tenantID, filename, raw); err != nil {
			return nil, err
		}
		seeded = append(seeded, filename)
	}
	return seeded, nil
}

// SchemaResult is the inferred editor schema for a document plus the
// data key each top-level field writes to.
type SchemaResult struct {
	Fields []schema.FieldSchema `json:"fields"`
	Keys   map[string]string    `json:"keys"`
}

// InferSchema infers a section schema from a raw JSON object,
// preserving its key order, and resolves storage keys through
// automapping.
func (s *Service) InferSchema(raw json.RawMessage, overrides map[string]string) (*SchemaResult, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Message: "data must be a JSON object"}
	}
	keys, err := jsonutil.TopLevelKeys(raw)
	if err != nil {
		return nil, &ValidationError{Message: "data must be a JSON object"}
	}

	inf := schema.NewInferencer(nil)
	fields := inf.InferOrdered(keys, doc)

	mapping := schema.NewMapping()
	mapping.SetAll(overrides)
	mapping.AutoMap(fields, doc)

	resolved := make(map[string]string, len(fields))
	for _, f := range fields {
		resolved[f.Label] = mapping.ResolveKey(f)
	}
	return &SchemaResult{Fields: fields, Keys: resolved}, nil
}

// SchemaFor loads a stored document and infers its schema.
func (s *Service) SchemaFor(ctx context.Context, tenantID, filename string, overrides map[string]string) (*SchemaResult, error) {
	raw, err := s.Load(ctx, tenantID, filename)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, &ValidationError{Message: filename + " is not a JSON object"}
	}
	return s.InferSchema(raw, overrides)
}
