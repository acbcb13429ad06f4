package field

import (
	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// DefaultCheckedValue is submitted by a checked CheckboxField.
const DefaultCheckedValue = "1"

// CheckboxField is a single checkbox whose label is rendered inline.
type CheckboxField struct {
	Base
	// CheckedValue is the value attribute of the input.
	CheckedValue string
	// WrapperClass is the class of the enclosing <div>. Empty renders no
	// wrapper.
	WrapperClass string
}

// NewCheckboxField returns a checkbox named name.
func NewCheckboxField(name, label string) *CheckboxField {
	return &CheckboxField{
		Base:         Base{Name: name, Label: label},
		CheckedValue: DefaultCheckedValue,
		WrapperClass: "checkbox",
	}
}

// CheckedInput implements Checkable.
func (f *CheckboxField) CheckedInput() string {
	if f.CheckedValue == "" {
		return DefaultCheckedValue
	}
	return f.CheckedValue
}

// Value reports whether the checkbox was checked.
func (f *CheckboxField) Value(m *input.Model) bool {
	return m.String(f.Name) == f.CheckedInput()
}

// SetValue checks or unchecks the checkbox.
func (f *CheckboxField) SetValue(m *input.Model, checked bool) {
	if !checked {
		m.Set(f.Name, nil)
		return
	}
	m.Set(f.Name, f.CheckedInput())
}

// RenderInput implements Renderable.
func (f *CheckboxField) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	html := markup.Tag("input", markup.Merge(markup.Attrs{
		"name":    r.Name(f),
		"type":    "checkbox",
		"value":   f.CheckedInput(),
		"checked": f.Value(m),
	}, attrs))

	if label := r.LabelText(f); label != "" {
		html = markup.Element("label", nil, html+r.SoftEncode(label))
	}
	if f.WrapperClass != "" {
		html = markup.Element("div", markup.Attrs{"class": f.WrapperClass}, html)
	}
	return html, nil
}
