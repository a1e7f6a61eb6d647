// Package schema infers editable field schemas from arbitrary tenant JSON
// documents and resolves human-readable field labels back to data keys.
//
// Inference is best-effort and total: any JSON-compatible value classifies
// to some field kind, falling back to plain text. Nothing in this package
// performs I/O.
package schema

// Kind identifies the widget a field renders as.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindEmail    Kind = "email"
	KindTel      Kind = "tel"
	KindURL      Kind = "url"
	KindImage    Kind = "image"
	KindArray    Kind = "array"
	KindObject   Kind = "object"
)

// FieldSchema describes one key of a section data object. Exactly one of
// Children (object) or ItemSchema (array) is populated for container kinds;
// leaf kinds carry neither.
type FieldSchema struct {
	Kind          Kind          `json:"type"`
	Label         string        `json:"label"`
	Placeholder   string        `json:"placeholder,omitempty"`
	Required      bool          `json:"required,omitempty"`
	Rows          int           `json:"rows,omitempty"`
	Children      []FieldSchema `json:"fields,omitempty"`
	ItemSchema    *FieldSchema  `json:"itemSchema,omitempty"`
	ImageCategory string        `json:"imageCategory,omitempty"`
}

// IsLeaf reports whether the field has no substructure.
func (f FieldSchema) IsLeaf() bool {
	return f.Kind != KindArray && f.Kind != KindObject
}
