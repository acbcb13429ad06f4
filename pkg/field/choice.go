package field

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// SelectField is a drop-down restricted to Choices.
type SelectField struct {
	Base
	Choices []Option
	// Prompt, when set, renders a disabled first option that is selected
	// while no valid choice is made.
	Prompt string
	Attrs  markup.Attrs
}

// NewSelectField returns a select named name offering options in order.
func NewSelectField(name, label string, options ...Option) *SelectField {
	return &SelectField{Base: Base{Name: name, Label: label}, Choices: options}
}

// Options implements HasOptions.
func (f *SelectField) Options() []Option {
	return append([]Option(nil), f.Choices...)
}

// Value returns the selected value, or "" when the input is not one of the
// options.
func (f *SelectField) Value(m *input.Model) string {
	return selected(f.Choices, m.String(f.Name))
}

// SetValue stores value as the selection.
func (f *SelectField) SetValue(m *input.Model, value string) {
	m.Set(f.Name, value)
}

// RenderInput implements Renderable.
func (f *SelectField) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	return renderSelect(r, f, f.Choices, f.Prompt, f.Value(m), f.Attrs, attrs), nil
}

// RadioGroup renders one radio button per option, each in its own wrapper.
type RadioGroup struct {
	Base
	Choices []Option
	// WrapperClass is the class of the <div> around each button.
	WrapperClass string
}

// NewRadioGroup returns a radio group named name.
func NewRadioGroup(name, label string, options ...Option) *RadioGroup {
	return &RadioGroup{Base: Base{Name: name, Label: label}, Choices: options, WrapperClass: "radio"}
}

// Options implements HasOptions.
func (f *RadioGroup) Options() []Option {
	return append([]Option(nil), f.Choices...)
}

// Value returns the selected value, or "" when the input is not one of the
// options.
func (f *RadioGroup) Value(m *input.Model) string {
	return selected(f.Choices, m.String(f.Name))
}

// SetValue stores value as the selection.
func (f *RadioGroup) SetValue(m *input.Model, value string) {
	m.Set(f.Name, value)
}

// RenderInput implements Renderable. Caller attributes apply to every input.
func (f *RadioGroup) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	var b strings.Builder
	for _, button := range radios(r, f, f.Choices, f.Value(m), attrs) {
		b.WriteString(markup.Element("div", markup.Attrs{"class": f.WrapperClass}, markup.Element("label", nil, button)))
	}
	return b.String(), nil
}

// InlineRadioGroup renders radio buttons side by side.
type InlineRadioGroup struct {
	RadioGroup
	// LabelClass is the class of the <label> around each button.
	LabelClass string
}

// NewInlineRadioGroup returns an inline radio group named name.
func NewInlineRadioGroup(name, label string, options ...Option) *InlineRadioGroup {
	return &InlineRadioGroup{
		RadioGroup: RadioGroup{Base: Base{Name: name, Label: label}, Choices: options},
		LabelClass: "radio-inline",
	}
}

// RenderInput implements Renderable. Caller attributes apply to every input.
func (f *InlineRadioGroup) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	var b strings.Builder
	for _, button := range radios(r, f, f.Choices, f.Value(m), attrs) {
		b.WriteString(markup.Element("label", markup.Attrs{"class": f.LabelClass}, button))
	}
	return b.String(), nil
}

func radios(r Renderer, f Field, options []Option, current string, attrs markup.Attrs) []string {
	name := r.Name(f)
	out := make([]string, 0, len(options))
	for _, option := range options {
		button := markup.Tag("input", markup.Merge(markup.Attrs{
			"name":    name,
			"type":    "radio",
			"value":   option.Value,
			"checked": current != "" && option.Value == current,
		}, attrs))
		out = append(out, button+" "+r.SoftEncode(option.Label))
	}
	return out
}

func selected(options []Option, value string) string {
	if value == "" {
		return ""
	}
	for _, option := range options {
		if option.Value == value {
			return value
		}
	}
	return ""
}

func renderSelect(r Renderer, f Field, options []Option, prompt, current string, attrs ...markup.Attrs) string {
	defaults := markup.Attrs{
		"name":  r.Name(f),
		"class": r.InputClass(),
	}
	if id := r.ID(f); id != "" {
		defaults["id"] = id
	}
	return markup.Element("select", markup.Merge(defaults, attrs...), optionTags(options, prompt, current))
}

func optionTags(options []Option, prompt, current string) string {
	var b strings.Builder
	if prompt != "" {
		b.WriteString(markup.Element("option", markup.Attrs{
			"disabled": true,
			"selected": current == "",
		}, markup.Encode(prompt)))
	}
	for _, option := range options {
		b.WriteString(markup.Element("option", markup.Attrs{
			"value":    option.Value,
			"selected": current != "" && option.Value == current,
		}, markup.Encode(option.Label)))
	}
	return b.String()
}
