package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/goliatone/go-formkit/pkg/field"
)

var (
	intPattern     = regexp.MustCompile(`^-?\d+$`)
	numericPattern = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?$`)
)

// Required checks that f has input. Composite fields count as filled when
// any part is.
func (v *Validator) Required(f field.Field, msg ...string) *Validator {
	if !filled(v.Model.Get(f.Descriptor().Name)) {
		v.Error(f, v.message(MsgRequired, msg), nil)
	}
	return v
}

// Confirm checks that confirm repeats the input of f. The message is
// recorded on confirm, with {confirm_field} naming f.
func (v *Validator) Confirm(f, confirm field.Field, msg ...string) *Validator {
	if v.value(f) != v.value(confirm) {
		v.Error(confirm, v.message(MsgConfirm, msg), map[string]string{
			"confirm_field": v.title(f),
		})
	}
	return v
}

// Int checks for a whole number.
func (v *Validator) Int(f field.Field, msg ...string) *Validator {
	if !intPattern.MatchString(v.value(f)) {
		v.Error(f, v.message(MsgInt, msg), nil)
	}
	return v
}

// Numeric checks for a decimal number, exponent notation included.
func (v *Validator) Numeric(f field.Field, msg ...string) *Validator {
	if !numericPattern.MatchString(v.value(f)) {
		v.Error(f, v.message(MsgNumeric, msg), nil)
	}
	return v
}

// Email checks for a single bare e-mail address.
func (v *Validator) Email(f field.Field, msg ...string) *Validator {
	if !validEmail(v.value(f)) {
		v.Error(f, v.message(MsgEmail, msg), nil)
	}
	return v
}

// Length checks the input length against the bounds declared by f, which
// must declare both.
func (v *Validator) Length(f field.HasLengthBounds, msg ...string) *Validator {
	lo, hi := f.LengthBounds()
	if lo <= 0 || hi <= 0 {
		panic(fmt.Sprintf("validation: field %q declares no length bounds", f.Descriptor().Name))
	}
	return v.LengthBetween(f, lo, hi, msg...)
}

// LengthBetween checks that the input is between lo and hi characters long,
// inclusive.
func (v *Validator) LengthBetween(f field.Field, lo, hi int, msg ...string) *Validator {
	if n := length(v.value(f)); n < lo || n > hi {
		v.Error(f, v.message(MsgLength, msg), map[string]string{
			"min": strconv.Itoa(lo),
			"max": strconv.Itoa(hi),
		})
	}
	return v
}

// MinLength checks that the input is at least lo characters long.
func (v *Validator) MinLength(f field.Field, lo int, msg ...string) *Validator {
	if length(v.value(f)) < lo {
		v.Error(f, v.message(MsgMinLength, msg), map[string]string{"min": strconv.Itoa(lo)})
	}
	return v
}

// MaxLength checks that the input is at most hi characters long.
func (v *Validator) MaxLength(f field.Field, hi int, msg ...string) *Validator {
	if length(v.value(f)) > hi {
		v.Error(f, v.message(MsgMaxLength, msg), map[string]string{"max": strconv.Itoa(hi)})
	}
	return v
}

// Range checks the input against the value bounds declared by f, which must
// declare both.
func (v *Validator) Range(f field.HasValueBounds, msg ...string) *Validator {
	lo, hi := f.ValueBounds()
	if lo == nil || hi == nil {
		panic(fmt.Sprintf("validation: field %q declares no value range", f.Descriptor().Name))
	}
	return v.RangeBetween(f, *lo, *hi, msg...)
}

// RangeBetween checks for a number between lo and hi, inclusive.
func (v *Validator) RangeBetween(f field.Field, lo, hi float64, msg ...string) *Validator {
	n, ok := v.number(f)
	if ok && (n < lo || n > hi) {
		v.Error(f, v.message(MsgRange, msg), map[string]string{
			"min": formatNumber(lo),
			"max": formatNumber(hi),
		})
	}
	return v
}

// MinValue checks for a number of at least lo.
func (v *Validator) MinValue(f field.Field, lo float64, msg ...string) *Validator {
	if n, ok := v.number(f); ok && n < lo {
		v.Error(f, v.message(MsgMinValue, msg), map[string]string{"min": formatNumber(lo)})
	}
	return v
}

// MaxValue checks for a number of at most hi.
func (v *Validator) MaxValue(f field.Field, hi float64, msg ...string) *Validator {
	if n, ok := v.number(f); ok && n > hi {
		v.Error(f, v.message(MsgMaxValue, msg), map[string]string{"max": formatNumber(hi)})
	}
	return v
}

// Match checks the input against a regexp2 pattern. The message is required
// and may use placeholders from values.
func (v *Validator) Match(f field.Field, pattern, template string, values map[string]string) *Validator {
	ok, err := v.compile(pattern).MatchString(v.value(f))
	if err != nil || !ok {
		v.Error(f, template, values)
	}
	return v
}

// Password checks the input against PasswordPattern.
func (v *Validator) Password(f field.Field, msg ...string) *Validator {
	return v.Match(f, v.PasswordPattern, v.message(MsgPassword, msg), nil)
}

// Checked checks that a checkbox was ticked.
func (v *Validator) Checked(f field.Checkable, msg ...string) *Validator {
	if v.value(f) != f.CheckedInput() {
		v.Error(f, v.message(MsgChecked, msg), nil)
	}
	return v
}

// Selected checks that the input is one of the options of f.
func (v *Validator) Selected(f field.HasOptions, msg ...string) *Validator {
	options := f.Options()
	values := make([]string, 0, len(options))
	for _, option := range options {
		values = append(values, option.Value)
	}
	return v.SelectedFrom(f, values, msg...)
}

// SelectedFrom checks that the input is one of values, which must not be
// nil.
func (v *Validator) SelectedFrom(f field.Field, values []string, msg ...string) *Validator {
	if values == nil {
		panic(fmt.Sprintf("validation: no allowed values for field %q", f.Descriptor().Name))
	}
	current := v.value(f)
	for _, value := range values {
		if value == current {
			return v
		}
	}
	v.Error(f, v.message(MsgSelected, msg), nil)
	return v
}

// DateTime checks that non-empty input converts to a time.
func (v *Validator) DateTime(f field.HasTime, msg ...string) *Validator {
	if _, err := f.Value(v.Model); err != nil {
		v.Error(f, v.message(MsgDateTime, msg), nil)
	}
	return v
}

// Token checks the submitted form token.
func (v *Validator) Token(f field.TokenChecker, msg ...string) *Validator {
	if !f.CheckToken(v.value(f)) {
		v.Error(f, v.message(MsgToken, msg), nil)
	}
	return v
}

// number runs Numeric and reports the parsed input when f has no message.
func (v *Validator) number(f field.Field) (float64, bool) {
	v.Numeric(f)
	if v.Model.HasError(f.Descriptor().Name) {
		return 0, false
	}
	n, err := strconv.ParseFloat(v.value(f), 64)
	return n, err == nil
}

func length(value string) int {
	return utf8.RuneCountInString(norm.NFC.String(value))
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func validEmail(value string) bool {
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value && addr.Name == ""
}

func filled(value any) bool {
	switch v := value.(type) {
	case string:
		return v != ""
	case map[string]any:
		for _, item := range v {
			if filled(item) {
				return true
			}
		}
	}
	return false
}
