package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyPrecedence(t *testing.T) {
	c := DefaultClassifier()

	cases := []struct {
		name  string
		value string
		want  Kind
	}{
		{"email", "a@b.com", KindEmail},
		{"email beats image ext", "team.photo@studio.png", KindEmail},
		{"http url", "https://example.com", KindURL},
		{"relative url", "/contact", KindURL},
		{"www url", "www.example.com", KindURL},
		{"phone", "+1 (555) 123-4567", KindTel},
		{"image extension", "banner.png", KindImage},
		{"image path", "images/hero/banner", KindImage},
		{"logo marker", "company-logo-dark", KindImage},
		{"newline textarea", "line one\nline two", KindTextarea},
		{"word count textarea", "one two three four five six seven eight nine ten eleven", KindTextarea},
		{"short text", "Hello", KindText},
		{"digits too short for tel", "12345", KindText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, c.Classify(tc.value))
		})
	}
}

func TestClassifyLongString(t *testing.T) {
	c := DefaultClassifier()
	long := ""
	for i := 0; i < 101; i++ {
		long += "x"
	}
	if got := c.Classify(long); got != KindTextarea {
		t.Fatalf("Classify(101 chars) = %q, want %q", got, KindTextarea)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := DefaultClassifier()
	for _, s := range []string{"a@b.com", "/path", "hello world", "images/x.png", "+1234567"} {
		first := c.Classify(s)
		second := c.Classify(s)
		if first != second {
			t.Fatalf("Classify(%q) unstable: %q then %q", s, first, second)
		}
	}
}

func TestInferTopLevelKinds(t *testing.T) {
	inf := NewInferencer(nil)
	data := map[string]any{
		"title":        "Hello",
		"contactEmail": "a@b.com",
		"heroImage":    "images/hero/banner.png",
	}
	fields := inf.InferOrdered([]string{"title", "contactEmail", "heroImage"}, data)
	if len(fields) != 3 {
		t.Fatalf("len(fields) = %d, want 3", len(fields))
	}
	wantKinds := []Kind{KindText, KindEmail, KindImage}
	wantLabels := []string{"Title", "ContactEmail", "HeroImage"}
	for i, field := range fields {
		if field.Kind != wantKinds[i] {
			t.Fatalf("fields[%d].Kind = %q, want %q", i, field.Kind, wantKinds[i])
		}
		if field.Label != wantLabels[i] {
			t.Fatalf("fields[%d].Label = %q, want %q", i, field.Label, wantLabels[i])
		}
	}
}

func TestInferTextarea(t *testing.T) {
	inf := NewInferencer(nil)
	fields := inf.Infer(map[string]any{
		"bio": "This is a very long paragraph describing the company in great detail across many many words exceeding one hundred characters easily.",
	})
	if len(fields) != 1 || fields[0].Kind != KindTextarea {
		t.Fatalf("fields = %+v, want one textarea", fields)
	}
	if fields[0].Rows != 3 {
		t.Fatalf("Rows = %d, want 3", fields[0].Rows)
	}
}

func TestInferEmptyArray(t *testing.T) {
	inf := NewInferencer(nil)
	fields := inf.Infer(map[string]any{"items": []any{}})
	if len(fields) != 1 {
		t.Fatalf("len(fields) = %d, want 1", len(fields))
	}
	field := fields[0]
	if field.Kind != KindArray {
		t.Fatalf("Kind = %q, want array", field.Kind)
	}
	if field.ItemSchema == nil || field.ItemSchema.Kind != KindText {
		t.Fatalf("ItemSchema = %+v, want generic text leaf", field.ItemSchema)
	}
}

func TestInferArraySamplesFirstElementOnly(t *testing.T) {
	inf := NewInferencer(nil)
	fields := inf.Infer(map[string]any{
		"cards": []any{
			map[string]any{"title": "One", "url": "/one"},
			map[string]any{"icon": "star", "weight": float64(2)},
			map[string]any{"entirely": "different", "shape": "here", "extra": "field"},
		},
	})
	item := fields[0].ItemSchema
	if item == nil || item.Kind != KindObject {
		t.Fatalf("ItemSchema = %+v, want object", item)
	}
	if len(item.Children) != 2 {
		t.Fatalf("len(ItemSchema.Children) = %d, want 2 (first element only)", len(item.Children))
	}
	for _, child := range item.Children {
		if child.Label != "Title" && child.Label != "Url" {
			t.Fatalf("unexpected child label %q from non-first element", child.Label)
		}
	}
}

func TestInferNestedObject(t *testing.T) {
	inf := NewInferencer(nil)
	fields := inf.Infer(map[string]any{
		"cta": map[string]any{
			"text": "Get started",
			"href": "/contact",
		},
	})
	field := fields[0]
	if field.Kind != KindObject {
		t.Fatalf("Kind = %q, want object", field.Kind)
	}
	if len(field.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(field.Children))
	}
	if field.ItemSchema != nil {
		t.Fatalf("object field carries ItemSchema: %+v", field.ItemSchema)
	}
}

func TestInferTotalOverOddValues(t *testing.T) {
	inf := NewInferencer(nil)
	fields := inf.Infer(map[string]any{
		"missing": nil,
		"count":   float64(42),
		"active":  true,
	})
	for _, field := range fields {
		if field.Kind != KindText {
			t.Fatalf("field %q Kind = %q, want text", field.Label, field.Kind)
		}
	}
}

func TestTitleLabel(t *testing.T) {
	cases := map[string]string{
		"title":      "Title",
		"ctaButton":  "CtaButton",
		"Background": "Background",
		"":           "",
		"bg_img":     "Bg_img",
	}
	for in, want := range cases {
		if got := TitleLabel(in); got != want {
			t.Fatalf("TitleLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
