package editor

import (
	"strings"

	"sitegate/internal/schema"
)

// DefaultValue synthesizes the structurally-default value for a schema
// subtree: empty strings for leaves, an empty array for arrays, and for
// objects a map with every declared child defaulted recursively.
func DefaultValue(field schema.FieldSchema) any {
	switch field.Kind {
	case schema.KindArray:
		return []any{}
	case schema.KindObject:
		obj := make(map[string]any, len(field.Children))
		for _, child := range field.Children {
			obj[defaultKey(child.Label)] = DefaultValue(child)
		}
		return obj
	default:
		return ""
	}
}

// defaultKey turns a child label into the key used for freshly synthesized
// objects: lower-cased, whitespace runs collapsed to underscores.
func defaultKey(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}
