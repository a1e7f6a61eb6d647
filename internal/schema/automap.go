package schema

import (
	"sort"
	"strings"
)

// AutoMap reconciles an inferred schema against the data object it came
// from, registering an override for every leaf label so that edits write
// back to the key the data actually uses instead of a fresh camelCase guess
// that might not match (snake_case keys, abbreviations, legacy names).
// Existing overrides are left alone. Neither schema nor data is mutated.
func (m *Mapping) AutoMap(fields []FieldSchema, data map[string]any) {
	if m == nil || data == nil {
		return
	}
	for _, field := range fields {
		switch field.Kind {
		case KindObject:
			if sub, ok := containerValue(field, data).(map[string]any); ok {
				m.AutoMap(field.Children, sub)
			}
		case KindArray:
			// Mirror the inferencer's single-sample policy: only the first
			// element shapes item mappings.
			arr, ok := containerValue(field, data).([]any)
			if !ok || len(arr) == 0 || field.ItemSchema == nil || len(field.ItemSchema.Children) == 0 {
				continue
			}
			if first, ok := arr[0].(map[string]any); ok {
				m.AutoMap(field.ItemSchema.Children, first)
			}
		default:
			if _, ok := m.Get(field.Label); ok {
				continue
			}
			if key, ok := findMatchingKey(field.Label, data); ok {
				m.Set(field.Label, key)
			} else {
				m.Set(field.Label, ToCamelCase(field.Label))
			}
		}
	}
}

// containerValue locates the data subtree backing a container field without
// registering an override for it.
func containerValue(field FieldSchema, data map[string]any) any {
	if key, ok := findMatchingKey(field.Label, data); ok {
		return data[key]
	}
	return data[ToCamelCase(field.Label)]
}

// findMatchingKey searches data's own keys for the one a label most likely
// came from. The passes run in precedence order; the last two overlap by
// history and are kept as a fallback chain.
func findMatchingKey(label string, data map[string]any) (string, bool) {
	labelLower := strings.ToLower(label)
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// 1. Exact match, case-insensitive.
	for _, key := range keys {
		if strings.ToLower(key) == labelLower {
			return key, true
		}
	}

	// 2. Word containment either way. Key segments (split on _ - . /) also
	// match label words by prefix so abbreviated keys like bg_img line up
	// with "Background Image".
	words := strings.Fields(labelLower)
	for _, key := range keys {
		keyLower := strings.ToLower(key)
		for _, word := range words {
			if strings.Contains(keyLower, word) || strings.Contains(word, keyLower) {
				return key, true
			}
			for _, seg := range splitKeySegments(keyLower) {
				if abbreviates(seg, word) || abbreviates(word, seg) {
					return key, true
				}
			}
		}
	}

	// 3. Whole-label substring either way.
	for _, key := range keys {
		keyLower := strings.ToLower(key)
		if strings.Contains(keyLower, labelLower) || strings.Contains(labelLower, keyLower) {
			return key, true
		}
	}

	// 4. Keyword pass.
	for _, key := range keys {
		keyLower := strings.ToLower(key)
		for _, word := range words {
			if strings.Contains(keyLower, word) {
				return key, true
			}
		}
	}

	return "", false
}

// abbreviates reports whether short could be an abbreviation of word: it
// must share word's first letter and the rest of its runes must appear in
// word in order. "bg" abbreviates "background", "img" abbreviates "image".
func abbreviates(short, word string) bool {
	if short == "" || word == "" || short[0] != word[0] {
		return false
	}
	rest := word[1:]
	for _, r := range short[1:] {
		i := strings.IndexRune(rest, r)
		if i < 0 {
			return false
		}
		rest = rest[i+1:]
	}
	return true
}

func splitKeySegments(key string) []string {
	return strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == '/'
	})
}
