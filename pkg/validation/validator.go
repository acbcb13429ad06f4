// Package validation checks an input model against field descriptors.
//
// Every rule reads the current input, and on failure records a message on
// the model under the field name. Only the first message per field is kept,
// so rules should be applied in order of importance. Rules return the
// Validator to allow chaining:
//
//	v := validation.New(model)
//	v.Required(email).Email(email).Confirm(email, confirmEmail)
//	if v.Invalid() { ... }
//
// Calling a rule with a field that lacks the bounds or options it needs is a
// programmer error and panics.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/input"
)

// Message keys of the default language table.
const (
	MsgRequired  = "required"
	MsgConfirm   = "confirm"
	MsgInt       = "int"
	MsgNumeric   = "numeric"
	MsgEmail     = "email"
	MsgLength    = "length"
	MsgMinLength = "minLength"
	MsgMaxLength = "maxLength"
	MsgRange     = "range"
	MsgMinValue  = "minValue"
	MsgMaxValue  = "maxValue"
	MsgPassword  = "password"
	MsgChecked   = "checked"
	MsgSelected  = "selected"
	MsgDateTime  = "datetime"
	MsgToken     = "token"
)

// DefaultLang holds the English message templates.
var DefaultLang = map[string]string{
	MsgRequired:  "{field} is required",
	MsgConfirm:   "{field} must match {confirm_field}",
	MsgInt:       "{field} should be a whole number",
	MsgNumeric:   "{field} should be a number",
	MsgEmail:     "{field} must be a valid e-mail address",
	MsgLength:    "{field} must be between {min} and {max} characters long",
	MsgMinLength: "{field} must be at least {min} characters long",
	MsgMaxLength: "{field} must be no more than {max} characters long",
	MsgRange:     "{field} must be between {min} and {max}",
	MsgMinValue:  "{field} must be at least {min}",
	MsgMaxValue:  "{field} must be no more than {max}",
	MsgPassword:  "This password is not secure",
	MsgChecked:   "Please confirm by ticking the {field} checkbox",
	MsgSelected:  "Please select {field} from the list of available options",
	MsgDateTime:  "{field} must be a valid date",
	MsgToken:     "This form has expired, please submit it again",
}

// DefaultPasswordPattern requires a lowercase letter and an uppercase letter
// or digit.
const DefaultPasswordPattern = `^(?=.*[a-z])(?=.*[A-Z0-9]).*$`

// Option configures a Validator.
type Option func(*Validator)

// WithLang overrides message templates by key.
func WithLang(lang map[string]string) Option {
	return func(v *Validator) {
		for key, template := range lang {
			v.lang[key] = template
		}
	}
}

// WithPasswordPattern replaces DefaultPasswordPattern. The pattern uses
// regexp2 syntax, so look-arounds are allowed.
func WithPasswordPattern(pattern string) Option {
	return func(v *Validator) {
		v.PasswordPattern = pattern
	}
}

// Validator applies rules to a model. It is not safe for concurrent use.
type Validator struct {
	Model           *input.Model
	PasswordPattern string

	lang     map[string]string
	titles   map[string]string
	patterns map[string]*regexp2.Regexp
}

// New returns a validator recording its messages on m.
func New(m *input.Model, opts ...Option) *Validator {
	if m == nil {
		m = input.New()
	}
	v := &Validator{
		Model:           m,
		PasswordPattern: DefaultPasswordPattern,
		lang:            make(map[string]string, len(DefaultLang)),
		titles:          make(map[string]string),
		patterns:        make(map[string]*regexp2.Regexp),
	}
	for key, template := range DefaultLang {
		v.lang[key] = template
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Title overrides the name used for f in messages.
func (v *Validator) Title(f field.Field, title string) *Validator {
	v.titles[input.Canonical(f.Descriptor().Name)] = title
	return v
}

// Clear drops the message recorded for f.
func (v *Validator) Clear(f field.Field) *Validator {
	v.Model.ClearError(f.Descriptor().Name)
	return v
}

// Reset drops every recorded message.
func (v *Validator) Reset() *Validator {
	v.Model.ClearErrors()
	return v
}

// Valid reports whether no message has been recorded.
func (v *Validator) Valid() bool {
	return !v.Model.HasErrors()
}

// Invalid reports whether any message has been recorded.
func (v *Validator) Invalid() bool {
	return v.Model.HasErrors()
}

// Errors returns the recorded messages keyed by dotted field path.
func (v *Validator) Errors() map[string]string {
	return v.Model.Errors()
}

// Error records template for f unless f already has a message. Placeholders
// are filled from values; {field} defaults to the field title.
func (v *Validator) Error(f field.Field, template string, values map[string]string) *Validator {
	name := f.Descriptor().Name
	if v.Model.HasError(name) {
		return v
	}
	merged := map[string]string{"field": v.title(f)}
	for key, value := range values {
		merged[key] = value
	}
	v.Model.SetError(name, Format(template, merged))
	return v
}

// Issue is one recorded message.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result summarises the validator state for serialisation.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Result returns the recorded messages ordered by field path.
func (v *Validator) Result() Result {
	errs := v.Model.Errors()
	result := Result{Valid: len(errs) == 0}
	for path, message := range errs {
		result.Issues = append(result.Issues, Issue{Field: path, Message: message})
	}
	sort.Slice(result.Issues, func(i, j int) bool {
		return result.Issues[i].Field < result.Issues[j].Field
	})
	return result
}

var placeholder = regexp.MustCompile(`\{([^{]{1,100}?)\}`)

// Format substitutes {name} placeholders from values. Unknown placeholders
// are left as they are.
func Format(template string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		if value, ok := values[match[1:len(match)-1]]; ok {
			return value
		}
		return match
	})
}

func (v *Validator) title(f field.Field) string {
	if title, ok := v.titles[input.Canonical(f.Descriptor().Name)]; ok {
		return title
	}
	if label := f.Descriptor().Label; label != "" {
		return label
	}
	return f.Descriptor().Name
}

func (v *Validator) message(key string, override []string) string {
	for _, msg := range override {
		if strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return v.lang[key]
}

func (v *Validator) value(f field.Field) string {
	return v.Model.String(f.Descriptor().Name)
}

func (v *Validator) compile(pattern string) *regexp2.Regexp {
	if re, ok := v.patterns[pattern]; ok {
		return re
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		panic(fmt.Sprintf("validation: invalid pattern %q: %v", pattern, err))
	}
	v.patterns[pattern] = re
	return re
}
