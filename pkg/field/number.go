package field

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// IntField is a whole number input.
type IntField struct {
	Base
	Placeholder string
	MinValue    *int
	MaxValue    *int
	Attrs       markup.Attrs
}

// NewIntField returns an integer field named name.
func NewIntField(name, label string) *IntField {
	return &IntField{Base: Base{Name: name, Label: label}}
}

// Value converts the input. Absent or empty input yields nil.
func (f *IntField) Value(m *input.Model) (*int, error) {
	raw := strings.TrimSpace(m.String(f.Name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalid(f)
	}
	return &value, nil
}

// SetValue stores value, or clears the input when value is nil.
func (f *IntField) SetValue(m *input.Model, value *int) {
	if value == nil {
		m.Set(f.Name, nil)
		return
	}
	m.Set(f.Name, *value)
}

// WholeNumber implements Integral.
func (f *IntField) WholeNumber() bool {
	return true
}

// ValueBounds implements HasValueBounds.
func (f *IntField) ValueBounds() (*float64, *float64) {
	return intBound(f.MinValue), intBound(f.MaxValue)
}

// RenderInput implements Renderable.
func (f *IntField) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	defaults := markup.Attrs{}
	if f.Placeholder != "" {
		defaults["placeholder"] = f.Placeholder
	}
	if f.MinValue != nil {
		defaults["min"] = *f.MinValue
	}
	if f.MaxValue != nil {
		defaults["max"] = *f.MaxValue
	}
	return r.Input(f, "number", lookup(m, f), defaults, f.Attrs, attrs), nil
}

func intBound(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// FloatField is a decimal number input.
type FloatField struct {
	Base
	Placeholder string
	MinValue    *float64
	MaxValue    *float64
	// Decimals fixes the number of decimals written by SetValue. Negative
	// means the shortest representation.
	Decimals int
	Attrs    markup.Attrs
}

// NewFloatField returns a decimal field named name.
func NewFloatField(name, label string) *FloatField {
	return &FloatField{Base: Base{Name: name, Label: label}, Decimals: -1}
}

// Value converts the input. Absent or empty input yields nil.
func (f *FloatField) Value(m *input.Model) (*float64, error) {
	raw := strings.TrimSpace(m.String(f.Name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalid(f)
	}
	return &value, nil
}

// SetValue stores value, or clears the input when value is nil.
func (f *FloatField) SetValue(m *input.Model, value *float64) {
	if value == nil {
		m.Set(f.Name, nil)
		return
	}
	m.Set(f.Name, strconv.FormatFloat(*value, 'f', f.Decimals, 64))
}

// ValueBounds implements HasValueBounds.
func (f *FloatField) ValueBounds() (*float64, *float64) {
	return f.MinValue, f.MaxValue
}

// RenderInput implements Renderable.
func (f *FloatField) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	defaults := markup.Attrs{"step": "any"}
	if f.Placeholder != "" {
		defaults["placeholder"] = f.Placeholder
	}
	if f.MinValue != nil {
		defaults["min"] = *f.MinValue
	}
	if f.MaxValue != nil {
		defaults["max"] = *f.MaxValue
	}
	return r.Input(f, "number", lookup(m, f), defaults, f.Attrs, attrs), nil
}
