package schema

import (
	"strings"
	"sync"
)

// Mapping is an explicit label→key override table. Labels are stored
// lower-cased. A Mapping is injected into resolution and auto-mapping calls
// rather than living as process-wide state, so unrelated editors never share
// overrides by accident.
type Mapping struct {
	mu        sync.RWMutex
	overrides map[string]string
}

func NewMapping() *Mapping {
	return &Mapping{overrides: make(map[string]string)}
}

// Set registers key as the override for label.
func (m *Mapping) Set(label, key string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.overrides[strings.ToLower(label)] = key
	m.mu.Unlock()
}

// SetAll registers every label→key pair in mappings.
func (m *Mapping) SetAll(mappings map[string]string) {
	for label, key := range mappings {
		m.Set(label, key)
	}
}

// Get returns the override for label, if one exists.
func (m *Mapping) Get(label string) (string, bool) {
	if m == nil {
		return "", false
	}
	m.mu.RLock()
	key, ok := m.overrides[strings.ToLower(label)]
	m.mu.RUnlock()
	return key, ok
}

// Remove deletes the override for label and reports whether one existed.
func (m *Mapping) Remove(label string) bool {
	if m == nil {
		return false
	}
	lower := strings.ToLower(label)
	m.mu.Lock()
	_, ok := m.overrides[lower]
	delete(m.overrides, lower)
	m.mu.Unlock()
	return ok
}

// Clear drops every override.
func (m *Mapping) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.overrides = make(map[string]string)
	m.mu.Unlock()
}

// Snapshot returns a copy of the current override table.
func (m *Mapping) Snapshot() map[string]string {
	if m == nil {
		return map[string]string{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.overrides))
	for label, key := range m.overrides {
		out[label] = key
	}
	return out
}

// ResolveKey maps a field to the data key edits must write back to: the
// override for its label when one exists, the camelCase transform of the
// label otherwise. Pure function of (label, table state).
func (m *Mapping) ResolveKey(field FieldSchema) string {
	if key, ok := m.Get(field.Label); ok {
		return key
	}
	return ToCamelCase(field.Label)
}
