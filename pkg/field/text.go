package field

import (
	"strconv"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// TextField is a single line text input.
type TextField struct {
	Base
	Placeholder string
	MinLength   int
	MaxLength   int
	// Attrs are default attributes applied before caller attributes.
	Attrs markup.Attrs

	inputType string
}

// NewTextField returns a text field named name.
func NewTextField(name, label string) *TextField {
	return &TextField{Base: Base{Name: name, Label: label}, inputType: "text"}
}

// NewEmailField returns a text field rendered with type="email".
func NewEmailField(name, label string) *TextField {
	return &TextField{Base: Base{Name: name, Label: label}, inputType: "email"}
}

// Value returns the submitted text, or "" when absent.
func (f *TextField) Value(m *input.Model) string {
	return m.String(f.Name)
}

// SetValue stores value as the field input.
func (f *TextField) SetValue(m *input.Model, value string) {
	m.Set(f.Name, value)
}

// LengthBounds implements HasLengthBounds.
func (f *TextField) LengthBounds() (int, int) {
	return f.MinLength, f.MaxLength
}

// InputType returns the HTML input type.
func (f *TextField) InputType() string {
	if f.inputType == "" {
		return "text"
	}
	return f.inputType
}

// RenderInput implements Renderable.
func (f *TextField) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	return r.Input(f, f.InputType(), lookup(m, f), f.defaults(), f.Attrs, attrs), nil
}

func (f *TextField) defaults() markup.Attrs {
	attrs := markup.Attrs{}
	if f.Placeholder != "" {
		attrs["placeholder"] = f.Placeholder
	}
	if f.MaxLength > 0 {
		attrs["maxlength"] = strconv.Itoa(f.MaxLength)
	}
	return attrs
}

// PasswordField is a text field that never echoes its input.
type PasswordField struct {
	TextField
}

// NewPasswordField returns a password field named name.
func NewPasswordField(name, label string) *PasswordField {
	return &PasswordField{TextField: TextField{Base: Base{Name: name, Label: label}, inputType: "password"}}
}

// RenderInput implements Renderable. The value attribute is always empty.
func (f *PasswordField) RenderInput(r Renderer, _ *input.Model, attrs markup.Attrs) (string, error) {
	empty := ""
	return r.Input(f, "password", &empty, f.defaults(), f.Attrs, attrs), nil
}

// HiddenField is an <input type="hidden"> without id or styling.
type HiddenField struct {
	Base
}

// NewHiddenField returns a hidden field named name.
func NewHiddenField(name string) *HiddenField {
	return &HiddenField{Base: Base{Name: name}}
}

// HiddenInput implements Hidden.
func (f *HiddenField) HiddenInput() bool { return true }

// Value returns the submitted value.
func (f *HiddenField) Value(m *input.Model) string {
	return m.String(f.Name)
}

// SetValue stores value as the field input.
func (f *HiddenField) SetValue(m *input.Model, value string) {
	m.Set(f.Name, value)
}

// RenderInput implements Renderable.
func (f *HiddenField) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	return hidden(r.Name(f), lookup(m, f), attrs), nil
}

func hidden(name string, value *string, attrs markup.Attrs) string {
	return markup.Tag("input", markup.Merge(markup.Attrs{
		"name":  name,
		"type":  "hidden",
		"value": value,
	}, attrs))
}

// TextArea is a multi-line text input.
type TextArea struct {
	Base
	Placeholder string
	MinLength   int
	MaxLength   int
	Rows        int
	Attrs       markup.Attrs
}

// NewTextArea returns a text area named name.
func NewTextArea(name, label string) *TextArea {
	return &TextArea{Base: Base{Name: name, Label: label}}
}

// Value returns the submitted text.
func (f *TextArea) Value(m *input.Model) string {
	return m.String(f.Name)
}

// SetValue stores value as the field input.
func (f *TextArea) SetValue(m *input.Model, value string) {
	m.Set(f.Name, value)
}

// LengthBounds implements HasLengthBounds.
func (f *TextArea) LengthBounds() (int, int) {
	return f.MinLength, f.MaxLength
}

// RenderInput implements Renderable.
func (f *TextArea) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	defaults := markup.Attrs{
		"name":  r.Name(f),
		"class": r.InputClass(),
	}
	if id := r.ID(f); id != "" {
		defaults["id"] = id
	}
	if f.Placeholder != "" {
		defaults["placeholder"] = f.Placeholder
	}
	if f.MaxLength > 0 {
		defaults["maxlength"] = strconv.Itoa(f.MaxLength)
	}
	if f.Rows > 0 {
		defaults["rows"] = strconv.Itoa(f.Rows)
	}
	return markup.Element("textarea", markup.Merge(defaults, f.Attrs, attrs), markup.Encode(m.String(f.Name))), nil
}
