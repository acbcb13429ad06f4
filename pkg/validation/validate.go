package validation

import (
	"github.com/goliatone/go-formkit/pkg/field"
)

// Validate applies the built-in rules each field declares through its
// configuration. Token fields only check their token. Optional fields without
// input are skipped entirely; a required checkbox must be checked, and other
// required fields must be filled before their remaining constraints are
// checked.
func (v *Validator) Validate(fields ...field.Field) *Validator {
	for _, f := range fields {
		v.validate(f)
	}
	return v
}

func (v *Validator) validate(f field.Field) {
	if token, ok := f.(field.TokenChecker); ok {
		v.Token(token)
		return
	}

	base := f.Descriptor()
	if !base.Required && !filled(v.Model.Get(base.Name)) {
		return
	}

	if base.Required {
		if checkable, ok := f.(field.Checkable); ok {
			v.Checked(checkable)
		} else {
			v.Required(f)
		}
	}

	if typed, ok := f.(interface{ InputType() string }); ok && typed.InputType() == "email" {
		v.Email(f)
	}

	if integral, ok := f.(field.Integral); ok && integral.WholeNumber() {
		v.Int(f)
	}

	if options, ok := f.(field.HasOptions); ok {
		v.Selected(options)
	}

	if bounded, ok := f.(field.HasValueBounds); ok {
		lo, hi := bounded.ValueBounds()
		switch {
		case lo != nil && hi != nil:
			v.RangeBetween(f, *lo, *hi)
		case lo != nil:
			v.MinValue(f, *lo)
		case hi != nil:
			v.MaxValue(f, *hi)
		default:
			v.Numeric(f)
		}
	}

	if bounded, ok := f.(field.HasLengthBounds); ok {
		lo, hi := bounded.LengthBounds()
		switch {
		case lo > 0 && hi > 0:
			v.LengthBetween(f, lo, hi)
		case lo > 0:
			v.MinLength(f, lo)
		case hi > 0:
			v.MaxLength(f, hi)
		}
	}

	if timed, ok := f.(field.HasTime); ok {
		v.DateTime(timed)
	}
}
