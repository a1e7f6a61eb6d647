package schema

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// Inferencer derives field schemas from section data. The zero value is not
// usable; construct with NewInferencer.
type Inferencer struct {
	classifier Classifier
}

// NewInferencer builds an Inferencer. A nil classifier selects the default
// precedence chain.
func NewInferencer(c Classifier) *Inferencer {
	if c == nil {
		c = DefaultClassifier()
	}
	return &Inferencer{classifier: c}
}

// Infer produces one FieldSchema per top-level key of data, with keys in
// sorted order for determinism. Callers that decoded JSON with key order
// preserved should use InferOrdered instead.
func (inf *Inferencer) Infer(data map[string]any) []FieldSchema {
	return inf.InferOrdered(sortedKeys(data), data)
}

// InferOrdered is Infer with an explicit top-level key order. Keys absent
// from data are skipped; keys of data absent from the order are appended in
// sorted order so no field is silently dropped.
func (inf *Inferencer) InferOrdered(keys []string, data map[string]any) []FieldSchema {
	fields := make([]FieldSchema, 0, len(data))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		value, ok := data[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		fields = append(fields, inf.inferValue(key, value))
	}
	for _, key := range sortedKeys(data) {
		if !seen[key] {
			fields = append(fields, inf.inferValue(key, data[key]))
		}
	}
	return fields
}

func (inf *Inferencer) inferValue(key string, value any) FieldSchema {
	label := TitleLabel(key)
	switch v := value.(type) {
	case string:
		return inf.stringField(key, label, v)
	case float64, int, int64, bool:
		return FieldSchema{Kind: KindText, Label: label, Placeholder: "Enter " + key}
	case []any:
		return inf.arrayField(label, v)
	case map[string]any:
		return FieldSchema{
			Kind:     KindObject,
			Label:    label,
			Children: inf.inferChildren(v),
		}
	default:
		// nil and anything unrecognized edits as empty text.
		return FieldSchema{Kind: KindText, Label: label, Placeholder: "Enter " + key}
	}
}

func (inf *Inferencer) stringField(key, label, value string) FieldSchema {
	kind := inf.classifier.Classify(value)
	switch kind {
	case KindImage:
		return FieldSchema{Kind: KindImage, Label: label, ImageCategory: "general"}
	case KindTextarea:
		return FieldSchema{Kind: KindTextarea, Label: label, Placeholder: "Enter " + key, Rows: 3}
	default:
		return FieldSchema{Kind: kind, Label: label, Placeholder: "Enter " + key}
	}
}

// arrayField samples only the first element; heterogeneous arrays take the
// first element's shape.
func (inf *Inferencer) arrayField(label string, values []any) FieldSchema {
	if len(values) > 0 {
		if first, ok := values[0].(map[string]any); ok {
			return FieldSchema{
				Kind:  KindArray,
				Label: label,
				ItemSchema: &FieldSchema{
					Kind:     KindObject,
					Label:    "Item",
					Children: inf.inferChildren(first),
				},
			}
		}
	}
	return FieldSchema{
		Kind:  KindArray,
		Label: label,
		ItemSchema: &FieldSchema{
			Kind:        KindText,
			Label:       "Item",
			Placeholder: "Enter item",
		},
	}
}

func (inf *Inferencer) inferChildren(obj map[string]any) []FieldSchema {
	children := make([]FieldSchema, 0, len(obj))
	for _, key := range sortedKeys(obj) {
		children = append(children, inf.inferValue(key, obj[key]))
	}
	return children
}

// TitleLabel uppercases the first rune of a data key, leaving the rest
// unchanged. It is the round-trip anchor for key resolution.
func TitleLabel(key string) string {
	if key == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
