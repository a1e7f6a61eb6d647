package editor

import (
	"strconv"

	"sitegate/internal/schema"
)

// WidgetType identifies the control a widget renders as.
type WidgetType string

const (
	WidgetInput    WidgetType = "input"
	WidgetTextarea WidgetType = "textarea"
	WidgetImage    WidgetType = "image"
	WidgetArray    WidgetType = "array"
	WidgetObject   WidgetType = "object"
)

// Widget is one node of the rendered editor tree. Exactly one state pointer
// matching Type is populated.
type Widget struct {
	Type     WidgetType     `json:"type"`
	Label    string         `json:"label"`
	Path     string         `json:"path"`
	Level    int            `json:"level"`
	Required bool           `json:"required,omitempty"`
	Input    *InputState    `json:"input,omitempty"`
	Textarea *TextareaState `json:"textarea,omitempty"`
	Image    *ImageState    `json:"image,omitempty"`
	Array    *ArrayState    `json:"array,omitempty"`
	Object   *ObjectState   `json:"object,omitempty"`
}

// InputState backs single-line inputs; InputType mirrors the field kind
// (text, email, tel, url).
type InputState struct {
	InputType   string `json:"inputType"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder,omitempty"`
}

type TextareaState struct {
	Value       string `json:"value"`
	Rows        int    `json:"rows"`
	Placeholder string `json:"placeholder,omitempty"`
}

// ImageState carries the bound value, a preview URL probed against the
// asset base, and the grouped pick-from library.
type ImageState struct {
	Value      string       `json:"value"`
	PreviewURL string       `json:"previewUrl,omitempty"`
	Category   string       `json:"category,omitempty"`
	Library    []AssetGroup `json:"library"`
}

type ArrayState struct {
	Items      []Widget           `json:"items"`
	ItemSchema schema.FieldSchema `json:"itemSchema"`
}

type ObjectState struct {
	Children []Widget `json:"children"`
}

// Render walks the schema against the current data and returns the widget
// tree. Top-level paths are the fields' resolved data keys; nested paths are
// parent + "." + resolved child key.
func (e *Editor) Render() []Widget {
	widgets := make([]Widget, 0, len(e.schemaFields))
	for _, field := range e.schemaFields {
		path := e.mapping.ResolveKey(field)
		widgets = append(widgets, e.renderField(field, path, 0))
	}
	return widgets
}

func (e *Editor) renderField(field schema.FieldSchema, path string, level int) Widget {
	w := Widget{
		Label:    field.Label,
		Path:     path,
		Level:    level,
		Required: field.Required,
	}
	value := e.Value(path)

	switch field.Kind {
	case schema.KindTextarea:
		rows := field.Rows
		if rows <= 0 {
			rows = 3
		}
		w.Type = WidgetTextarea
		w.Textarea = &TextareaState{
			Value:       stringValue(value),
			Rows:        rows,
			Placeholder: field.Placeholder,
		}

	case schema.KindImage:
		state := &ImageState{
			Value:    stringValue(value),
			Category: field.ImageCategory,
			Library:  groupByCategory(e.Library()),
		}
		if state.Value != "" && e.assetBaseURL != "" {
			state.PreviewURL = e.assetBaseURL + "/" + state.Value
		}
		w.Type = WidgetImage
		w.Image = state

	case schema.KindArray:
		items, _ := value.([]any)
		state := &ArrayState{Items: make([]Widget, 0, len(items))}
		if field.ItemSchema != nil {
			state.ItemSchema = *field.ItemSchema
			for i := range items {
				itemPath := path + "." + strconv.Itoa(i)
				state.Items = append(state.Items, e.renderField(*field.ItemSchema, itemPath, level+1))
			}
		}
		w.Type = WidgetArray
		w.Array = state

	case schema.KindObject:
		state := &ObjectState{Children: make([]Widget, 0, len(field.Children))}
		for _, child := range field.Children {
			childPath := path + "." + e.mapping.ResolveKey(child)
			state.Children = append(state.Children, e.renderField(child, childPath, level+1))
		}
		w.Type = WidgetObject
		w.Object = state

	default:
		w.Type = WidgetInput
		w.Input = &InputState{
			InputType:   string(field.Kind),
			Value:       stringValue(value),
			Placeholder: field.Placeholder,
		}
	}
	return w
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
