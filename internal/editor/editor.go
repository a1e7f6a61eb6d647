package editor

import (
	"strings"
	"sync"

	"sitegate/internal/schema"
)

// Config wires an Editor to its collaborators. Data is the single source of
// truth for the current render; the editor never keeps its own copy.
type Config struct {
	Schema  []schema.FieldSchema
	Data    map[string]any
	Mapping *schema.Mapping
	// OnChange receives a freshly built data object after every edit. The
	// caller decides if and when to persist and must thread the new object
	// back in via SetData for the next render.
	OnChange func(map[string]any)
	// Assets, when set, backs the image picker library.
	Assets AssetLister
	// ScopePrefix narrows the asset listing (e.g. "images/").
	ScopePrefix string
	// AssetBaseURL is the public base used for thumbnail previews.
	AssetBaseURL string
}

// Editor renders (schema, data) as a widget tree and emits updated data
// objects through OnChange. All operations besides the one-time asset fetch
// are synchronous pure computation.
type Editor struct {
	schemaFields []schema.FieldSchema
	data         map[string]any
	mapping      *schema.Mapping
	onChange     func(map[string]any)

	assets       AssetLister
	scopePrefix  string
	assetBaseURL string

	loadOnce sync.Once
	mu       sync.RWMutex
	library  []Asset
}

func New(cfg Config) *Editor {
	mapping := cfg.Mapping
	if mapping == nil {
		mapping = schema.NewMapping()
	}
	e := &Editor{
		schemaFields: cfg.Schema,
		data:         cfg.Data,
		mapping:      mapping,
		onChange:     cfg.OnChange,
		assets:       cfg.Assets,
		scopePrefix:  cfg.ScopePrefix,
		assetBaseURL: strings.TrimRight(cfg.AssetBaseURL, "/"),
	}
	if e.data == nil {
		e.data = map[string]any{}
	}
	return e
}

// SetData threads an updated data object back in as the current render
// source (unidirectional data flow).
func (e *Editor) SetData(data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	e.data = data
}

// Data returns the object currently backing the render.
func (e *Editor) Data() map[string]any {
	return e.data
}

// Value reads the current value at a field path.
func (e *Editor) Value(path string) any {
	return ValueAt(e.data, path)
}

// SetField writes value at path into a new data object and emits it. The
// object passed in at construction (or via SetData) is left untouched.
func (e *Editor) SetField(path string, value any) map[string]any {
	next := SetPath(e.data, path, value)
	if e.onChange != nil {
		e.onChange(next)
	}
	return next
}

// SetFieldFor is SetField with top-level key resolution: a path without
// separators is replaced by the field's resolved data key.
func (e *Editor) SetFieldFor(field schema.FieldSchema, path string, value any) map[string]any {
	return e.SetField(e.fieldPath(field, path), value)
}

// AppendItem adds a structurally-default element to the array at path.
func (e *Editor) AppendItem(path string, itemSchema schema.FieldSchema) map[string]any {
	current, _ := e.Value(path).([]any)
	next := make([]any, len(current), len(current)+1)
	copy(next, current)
	next = append(next, DefaultValue(itemSchema))
	return e.SetField(path, next)
}

// RemoveItem drops the element at index from the array at path. An index
// out of range leaves the array as-is (but still emits).
func (e *Editor) RemoveItem(path string, index int) map[string]any {
	current, _ := e.Value(path).([]any)
	next := make([]any, 0, len(current))
	for i, item := range current {
		if i != index {
			next = append(next, item)
		}
	}
	return e.SetField(path, next)
}

// SelectAsset writes an asset's library path into the bound image field.
func (e *Editor) SelectAsset(field schema.FieldSchema, path string, a Asset) map[string]any {
	return e.SetFieldFor(field, path, a.Category+"/"+a.RelativePath)
}

// ClearAsset empties the bound image field.
func (e *Editor) ClearAsset(field schema.FieldSchema, path string) map[string]any {
	return e.SetFieldFor(field, path, "")
}

func (e *Editor) fieldPath(field schema.FieldSchema, path string) string {
	if strings.Contains(path, ".") {
		return path
	}
	return e.mapping.ResolveKey(field)
}
