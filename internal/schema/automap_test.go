package schema

import (
	"reflect"
	"testing"
)

func TestResolveKeyOverridePrecedence(t *testing.T) {
	m := NewMapping()
	field := FieldSchema{Kind: KindImage, Label: "Background Image"}

	if got := m.ResolveKey(field); got != "backgroundImage" {
		t.Fatalf("ResolveKey without override = %q, want %q", got, "backgroundImage")
	}

	m.Set("Background Image", "bg_img")
	if got := m.ResolveKey(field); got != "bg_img" {
		t.Fatalf("ResolveKey with override = %q, want %q", got, "bg_img")
	}

	if !m.Remove("background image") {
		t.Fatalf("Remove() = false, want true (labels are case-insensitive)")
	}
	if got := m.ResolveKey(field); got != "backgroundImage" {
		t.Fatalf("ResolveKey after Remove = %q, want %q", got, "backgroundImage")
	}
}

func TestAutoMapRecoversAbbreviatedKey(t *testing.T) {
	m := NewMapping()
	data := map[string]any{"bg_img": "images/hero.png"}
	schema := []FieldSchema{{Kind: KindImage, Label: "Background Image"}}

	m.AutoMap(schema, data)

	if got := m.ResolveKey(schema[0]); got != "bg_img" {
		t.Fatalf("ResolveKey = %q, want %q", got, "bg_img")
	}
}

func TestFindMatchingKeyAbbreviatedSegments(t *testing.T) {
	data := map[string]any{"bg_img": "images/hero.png"}
	key, ok := findMatchingKey("Background Image", data)
	if !ok || key != "bg_img" {
		t.Fatalf("findMatchingKey = (%q, %v), want (%q, true)", key, ok, "bg_img")
	}
}

func TestAbbreviates(t *testing.T) {
	cases := []struct {
		short, word string
		want        bool
	}{
		{"bg", "background", true},
		{"img", "image", true},
		{"btn", "button", true},
		{"nav", "navigation", true},
		{"bg", "image", false},
		{"img", "background", false},
		{"", "image", false},
		{"image", "img", false},
	}
	for _, tc := range cases {
		if got := abbreviates(tc.short, tc.word); got != tc.want {
			t.Errorf("abbreviates(%q, %q) = %v, want %v", tc.short, tc.word, got, tc.want)
		}
	}
}

func TestAutoMapRoundTripKeyStability(t *testing.T) {
	inf := NewInferencer(nil)
	data := map[string]any{
		"hero_title":  "Welcome",
		"Subtitle":    "hello there",
		"contact_tel": "+1234567890",
	}
	fields := inf.Infer(data)
	m := NewMapping()
	m.AutoMap(fields, data)

	for _, field := range fields {
		key := m.ResolveKey(field)
		if _, ok := data[key]; !ok {
			t.Fatalf("ResolveKey(%q) = %q, which is not a key of the original data", field.Label, key)
		}
	}
}

func TestAutoMapKeepsExistingOverride(t *testing.T) {
	m := NewMapping()
	m.Set("Title", "legacy_title")
	data := map[string]any{"title": "Hello"}

	m.AutoMap([]FieldSchema{{Kind: KindText, Label: "Title"}}, data)

	if got, _ := m.Get("Title"); got != "legacy_title" {
		t.Fatalf("override clobbered: got %q, want %q", got, "legacy_title")
	}
}

func TestAutoMapWalksNestedContainers(t *testing.T) {
	inf := NewInferencer(nil)
	data := map[string]any{
		"cta": map[string]any{
			"btn_text": "Go",
		},
		"social": []any{
			map[string]any{"link_url": "/x"},
			map[string]any{"other": "shape"},
		},
	}
	fields := inf.Infer(data)
	m := NewMapping()
	m.AutoMap(fields, data)

	if got, ok := m.Get("Btn_text"); !ok || got != "btn_text" {
		t.Fatalf("nested object mapping = %q (%v), want btn_text", got, ok)
	}
	if got, ok := m.Get("Link_url"); !ok || got != "link_url" {
		t.Fatalf("array item mapping = %q (%v), want link_url", got, ok)
	}
	// Second element never sampled.
	if _, ok := m.Get("Other"); ok {
		t.Fatalf("mapping registered from non-first array element")
	}
}

func TestAutoMapCamelCaseFallback(t *testing.T) {
	m := NewMapping()
	m.AutoMap([]FieldSchema{{Kind: KindText, Label: "Brand New Field"}}, map[string]any{})

	if got, ok := m.Get("Brand New Field"); !ok || got != "brandNewField" {
		t.Fatalf("fallback mapping = %q (%v), want brandNewField", got, ok)
	}
}

func TestAutoMapDoesNotMutateInputs(t *testing.T) {
	data := map[string]any{
		"title": "Hello",
		"cta":   map[string]any{"text": "Go"},
	}
	inf := NewInferencer(nil)
	fields := inf.Infer(data)

	before := map[string]any{
		"title": "Hello",
		"cta":   map[string]any{"text": "Go"},
	}

	NewMapping().AutoMap(fields, data)

	if !reflect.DeepEqual(data, before) {
		t.Fatalf("AutoMap mutated data: %+v", data)
	}
}

func TestMappingSnapshotAndClear(t *testing.T) {
	m := NewMapping()
	m.SetAll(map[string]string{"One": "one_key", "Two": "two_key"})

	snap := m.Snapshot()
	if len(snap) != 2 || snap["one"] != "one_key" || snap["two"] != "two_key" {
		t.Fatalf("Snapshot = %+v", snap)
	}

	m.Clear()
	if len(m.Snapshot()) != 0 {
		t.Fatalf("Snapshot after Clear is not empty")
	}
}
