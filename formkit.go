// Package formkit bundles the pieces needed to handle one form submission:
// the submitted input model, a renderer and a validator sharing it, and the
// field descriptors of the form.
//
//	email := field.NewEmailField("email", "Email")
//	email.Required = true
//	form := formkit.New(submitted, []field.Field{email}, formkit.WithNamePrefix("form"))
//	if !form.Validate() {
//		html, _ := form.HTML()
//		// re-render with messages
//	}
package formkit

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

type options struct {
	namePrefix     string
	idPrefix       string
	renderOpts     []render.Option
	validationOpts []validation.Option
}

// Option configures a Form.
type Option func(*options)

// WithNamePrefix scopes the form under prefix: inputs are named
// prefix[field] and submitted values are read from the same scope.
func WithNamePrefix(prefix string) Option {
	return func(o *options) {
		o.namePrefix = strings.TrimSpace(prefix)
	}
}

// WithIDPrefix enables element ids of the form prefix-field.
func WithIDPrefix(prefix string) Option {
	return func(o *options) {
		o.idPrefix = strings.TrimSpace(prefix)
	}
}

// WithTheme applies go-theme class tokens to the renderer.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(o *options) {
		o.renderOpts = append(o.renderOpts, render.WithTheme(cfg))
	}
}

// WithRenderOptions passes options through to render.New.
func WithRenderOptions(opts ...render.Option) Option {
	return func(o *options) {
		o.renderOpts = append(o.renderOpts, opts...)
	}
}

// WithValidatorOptions passes options through to validation.New.
func WithValidatorOptions(opts ...validation.Option) Option {
	return func(o *options) {
		o.validationOpts = append(o.validationOpts, opts...)
	}
}

// Form is a set of fields bound to one submission.
type Form struct {
	Fields    []field.Field
	Model     *input.Model
	Renderer  *render.InputRenderer
	Validator *validation.Validator
}

// New binds fields to the submitted values.
func New(values url.Values, fields []field.Field, opts ...Option) *Form {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	m := input.FromValues(values)
	if cfg.namePrefix != "" {
		m = m.Child(cfg.namePrefix)
	}

	renderOpts := append([]render.Option{
		render.WithNamePrefix(cfg.namePrefix),
		render.WithIDPrefix(cfg.idPrefix),
	}, cfg.renderOpts...)

	return &Form{
		Fields:    append([]field.Field(nil), fields...),
		Model:     m,
		Renderer:  render.New(m, renderOpts...),
		Validator: validation.New(m, cfg.validationOpts...),
	}
}

// FromSchema binds a loaded form definition to the submitted values. Its
// prefixes apply before opts.
func FromSchema(def schema.Form, values url.Values, opts ...Option) *Form {
	base := []Option{WithNamePrefix(def.NamePrefix), WithIDPrefix(def.IDPrefix)}
	return New(values, def.Fields, append(base, opts...)...)
}

// Field returns the field named name.
func (f *Form) Field(name string) (field.Field, bool) {
	for _, candidate := range f.Fields {
		if candidate.Descriptor().Name == name {
			return candidate, true
		}
	}
	return nil, false
}

// Validate runs the built-in rules of every field and reports whether the
// submission is valid.
func (f *Form) Validate() bool {
	return f.Validator.Validate(f.Fields...).Valid()
}

// Result returns the validation outcome.
func (f *Form) Result() validation.Result {
	return f.Validator.Result()
}

// ApplyErrors records messages reported for this submission by another
// layer, such as a backend API, on the matching fields. Messages for paths
// that match no field are returned as form-level messages.
func (f *Form) ApplyErrors(payload map[string][]string) []string {
	return render.MapErrors(f.Fields, payload).Apply(f.Model)
}

// HTML renders every field inside its group with label and message. Hidden
// and token fields are emitted bare.
func (f *Form) HTML() (string, error) {
	var b strings.Builder
	for _, fd := range f.Fields {
		renderable, ok := fd.(field.Renderable)
		if !ok {
			return "", fmt.Errorf("formkit: field %q cannot be rendered", fd.Descriptor().Name)
		}
		html, err := f.Renderer.Render(renderable)
		if err != nil {
			return "", err
		}
		if bare(fd) {
			b.WriteString(html)
			b.WriteString("\n")
			continue
		}

		b.WriteString(f.Renderer.Group(fd))
		if _, checkbox := fd.(field.Checkable); !checkbox {
			label, err := f.Renderer.Label(fd)
			if err != nil && !errors.Is(err, render.ErrNoID) {
				return "", err
			}
			b.WriteString(label)
		}
		b.WriteString(html)
		if msg := f.Renderer.Error(fd); msg != "" {
			b.WriteString(markup.Element("span", markup.Attrs{"class": "help-block"}, msg))
		}
		b.WriteString(f.Renderer.EndGroup())
		b.WriteString("\n")
	}
	return b.String(), nil
}

func bare(fd field.Field) bool {
	hidden, ok := fd.(field.Hidden)
	return ok && hidden.HiddenInput()
}
