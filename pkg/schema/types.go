// Package schema builds forms from declarative JSON or YAML definitions.
//
// A definition file holds one or more forms keyed by id:
//
//	forms:
//	  signup:
//	    title: Sign up
//	    namePrefix: form
//	    fields:
//	      - name: email
//	        kind: email
//	        label: Email
//	        required: true
//	      - name: token
//	        kind: token
//
// Each field's kind selects a Builder from a Registry, which turns the
// definition into a field descriptor.
package schema

import (
	"github.com/goliatone/go-formkit/pkg/field"
)

// FieldSpec is the declarative definition of one field.
type FieldSpec struct {
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"kind" yaml:"kind"`
	Label       string `json:"label" yaml:"label"`
	Required    bool   `json:"required" yaml:"required"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`

	MinLength int      `json:"minLength" yaml:"minLength"`
	MaxLength int      `json:"maxLength" yaml:"maxLength"`
	Min       *float64 `json:"min" yaml:"min"`
	Max       *float64 `json:"max" yaml:"max"`
	Rows      int      `json:"rows" yaml:"rows"`

	Options []OptionSpec `json:"options" yaml:"options"`
	Prompt  string       `json:"prompt" yaml:"prompt"`
	Zones   []string     `json:"zones" yaml:"zones"`

	TimeZone string `json:"timeZone" yaml:"timeZone"`
	Layout   string `json:"layout" yaml:"layout"`
	YearMin  int    `json:"yearMin" yaml:"yearMin"`
	YearMax  int    `json:"yearMax" yaml:"yearMax"`

	CheckedValue string `json:"checkedValue" yaml:"checkedValue"`

	Attrs map[string]string `json:"attrs" yaml:"attrs"`
}

// OptionSpec is one choice of a select or radio field.
type OptionSpec struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FormSpec is the declarative definition of one form.
type FormSpec struct {
	Title      string      `json:"title" yaml:"title"`
	NamePrefix string      `json:"namePrefix" yaml:"namePrefix"`
	IDPrefix   string      `json:"idPrefix" yaml:"idPrefix"`
	Fields     []FieldSpec `json:"fields" yaml:"fields"`
}

// Form is a built form definition.
type Form struct {
	ID         string
	Title      string
	NamePrefix string
	IDPrefix   string
	// Source is the file the form was loaded from.
	Source string
	Fields []field.Field
}

// Field returns the field named name.
func (f Form) Field(name string) (field.Field, bool) {
	for _, candidate := range f.Fields {
		if candidate.Descriptor().Name == name {
			return candidate, true
		}
	}
	return nil, false
}

func (s FieldSpec) options() []field.Option {
	out := make([]field.Option, 0, len(s.Options))
	for _, option := range s.Options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		out = append(out, field.Option{Value: option.Value, Label: label})
	}
	return out
}
