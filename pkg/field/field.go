// Package field describes form fields: their names, constraints and rendering
// hints, and how each kind converts between the raw strings held in an
// input.Model and a typed Go value.
//
// Behaviour shared across kinds is expressed through small capability
// interfaces (HasOptions, HasLengthBounds, HasValueBounds, Checkable, HasTime,
// TokenChecker) so that renderers and validators ask a field what it can do
// instead of switching on its concrete type.
package field

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// ErrInvalidInput is returned by typed Value accessors when the raw input
// cannot be converted.
var ErrInvalidInput = errors.New("field: invalid input")

// Base carries the identity and common configuration of every field kind.
type Base struct {
	// Name is the field path within the form, e.g. "email" or "user[email]".
	Name string
	// Label is the display name used for labels and validation messages.
	Label string
	// Required marks the field as mandatory.
	Required bool
}

// Descriptor returns the shared field configuration.
func (b *Base) Descriptor() *Base {
	return b
}

// Field is implemented by every field kind.
type Field interface {
	Descriptor() *Base
}

// Renderer is the rendering context a field draws on to produce its markup.
// The render package supplies the implementation.
type Renderer interface {
	// Name returns the HTML name attribute for f, including any form prefix.
	Name(f Field) string
	// ID returns the HTML id for f, or "" when ids are disabled.
	ID(f Field) string
	// LabelText returns the label for f after caller overrides.
	LabelText(f Field) string
	// InputClass returns the class applied to form controls.
	InputClass() string
	// Input builds an <input> of the given type with the standard name, id,
	// class and value attributes merged with attrs. A nil value omits the
	// value attribute.
	Input(f Field, inputType string, value *string, attrs ...markup.Attrs) string
	// SoftEncode encodes label text while keeping a small set of inline tags.
	SoftEncode(text string) string
}

// Renderable fields produce their own input markup.
type Renderable interface {
	Field
	RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error)
}

// Option is a single value/label pair of a field with a fixed choice set.
type Option struct {
	Value string
	Label string
}

// HasOptions is implemented by fields restricted to a set of choices.
type HasOptions interface {
	Field
	Options() []Option
}

// HasLengthBounds is implemented by fields with character length limits.
// Zero means unbounded.
type HasLengthBounds interface {
	Field
	LengthBounds() (min, max int)
}

// HasValueBounds is implemented by numeric fields. Nil means unbounded.
type HasValueBounds interface {
	Field
	ValueBounds() (min, max *float64)
}

// Integral is implemented by numeric fields that only accept whole numbers.
type Integral interface {
	Field
	WholeNumber() bool
}

// Checkable is implemented by fields that are either checked or not.
type Checkable interface {
	Field
	// CheckedInput is the raw value submitted when the field is checked.
	CheckedInput() string
}

// HasTime is implemented by fields whose input denotes a point in time.
type HasTime interface {
	Field
	Value(m *input.Model) (*time.Time, error)
}

// TokenChecker is implemented by fields carrying a form token.
type TokenChecker interface {
	Field
	CheckToken(token string) bool
}

// TokenIssuer is implemented by fields that mint their own form token.
type TokenIssuer interface {
	Field
	CreateToken() (string, error)
}

// Hidden is implemented by fields rendered as bare hidden inputs, without
// a label, group or message.
type Hidden interface {
	Field
	HiddenInput() bool
}

// Pairs builds an option list from alternating values and labels.
func Pairs(valueLabel ...string) []Option {
	if len(valueLabel)%2 != 0 {
		panic("field: Pairs requires value/label pairs")
	}
	out := make([]Option, 0, len(valueLabel)/2)
	for i := 0; i < len(valueLabel); i += 2 {
		out = append(out, Option{Value: valueLabel[i], Label: valueLabel[i+1]})
	}
	return out
}

// Ptr returns a pointer to v, handy for optional bounds and typed values.
func Ptr[T any](v T) *T {
	return &v
}

func invalid(f Field) error {
	return fmt.Errorf("field %q: %w", f.Descriptor().Name, ErrInvalidInput)
}

func lookup(m *input.Model, f Field) *string {
	if value, ok := m.Lookup(f.Descriptor().Name); ok {
		return &value
	}
	return nil
}
