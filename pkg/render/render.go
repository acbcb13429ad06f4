// Package render turns field descriptors and an input model into HTML form
// controls, labels and Bootstrap-style form groups.
package render

import (
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// ErrNoID is returned by Label when the renderer has no id prefix, since a
// label without a target id cannot be associated with its input.
var ErrNoID = errors.New("render: label requires an id prefix")

// Theme token keys read by WithTheme.
const (
	TokenInputClass    = "formkit.input"
	TokenGroupClass    = "formkit.group"
	TokenRequiredClass = "formkit.required"
	TokenErrorClass    = "formkit.error"
	TokenLabelClass    = "formkit.label"
)

// Option configures an InputRenderer.
type Option func(*InputRenderer)

// WithNamePrefix nests every input name under prefix, e.g. "form[email]".
func WithNamePrefix(prefix string) Option {
	return func(r *InputRenderer) {
		r.NamePrefix = prefix
	}
}

// WithIDPrefix enables id attributes of the form "<prefix>-<name>".
func WithIDPrefix(prefix string) Option {
	return func(r *InputRenderer) {
		r.IDPrefix = prefix
	}
}

// WithTheme overrides the CSS classes from theme tokens. Missing tokens keep
// their defaults.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *InputRenderer) {
		if cfg == nil {
			return
		}
		for key, target := range map[string]*string{
			TokenInputClass:    &r.InputClassName,
			TokenGroupClass:    &r.GroupClass,
			TokenRequiredClass: &r.RequiredClass,
			TokenErrorClass:    &r.ErrorClass,
			TokenLabelClass:    &r.LabelClass,
		} {
			if value, ok := cfg.Tokens[key]; ok {
				*target = strings.TrimSpace(value)
			}
		}
	}
}

// InputRenderer renders fields against an input model. It is cheap to create
// and meant to live for one request.
type InputRenderer struct {
	Model      *input.Model
	NamePrefix string
	IDPrefix   string

	InputClassName string
	GroupClass     string
	RequiredClass  string
	ErrorClass     string
	LabelClass     string

	labels map[field.Field]string
}

// New returns a renderer over m with Bootstrap 3 class names.
func New(m *input.Model, opts ...Option) *InputRenderer {
	if m == nil {
		m = input.New()
	}
	r := &InputRenderer{
		Model:          m,
		InputClassName: "form-control",
		GroupClass:     "form-group",
		RequiredClass:  "is-required",
		ErrorClass:     "has-error",
		LabelClass:     "control-label",
		labels:         make(map[field.Field]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name implements field.Renderer.
func (r *InputRenderer) Name(f field.Field) string {
	name := f.Descriptor().Name
	if r.NamePrefix == "" {
		return name
	}
	return input.BracketName(append([]string{r.NamePrefix}, input.Segments(name)...)...)
}

// ID implements field.Renderer.
func (r *InputRenderer) ID(f field.Field) string {
	if r.IDPrefix == "" {
		return ""
	}
	return r.IDPrefix + "-" + strings.Join(input.Segments(f.Descriptor().Name), "-")
}

// LabelText implements field.Renderer.
func (r *InputRenderer) LabelText(f field.Field) string {
	if label, ok := r.labels[f]; ok {
		return label
	}
	return f.Descriptor().Label
}

// SetLabel overrides the label text of f for this renderer. An empty label
// suppresses it.
func (r *InputRenderer) SetLabel(f field.Field, label string) {
	r.labels[f] = label
}

// InputClass implements field.Renderer.
func (r *InputRenderer) InputClass() string {
	return r.InputClassName
}

// Input implements field.Renderer.
func (r *InputRenderer) Input(f field.Field, inputType string, value *string, attrs ...markup.Attrs) string {
	defaults := markup.Attrs{
		"name":  r.Name(f),
		"class": r.InputClassName,
		"type":  inputType,
		"value": value,
	}
	if id := r.ID(f); id != "" {
		defaults["id"] = id
	}
	return markup.Tag("input", markup.Merge(defaults, attrs...))
}

// Render returns the input markup of f. Attribute maps are merged in order
// over the field defaults.
func (r *InputRenderer) Render(f field.Renderable, attrs ...markup.Attrs) (string, error) {
	html, err := f.RenderInput(r, r.Model, markup.Merge(nil, attrs...))
	if err != nil {
		return "", fmt.Errorf("render: field %q: %w", f.Descriptor().Name, err)
	}
	return html, nil
}

// Group opens the <div> that wraps a field, flagged as required or invalid.
func (r *InputRenderer) Group(f field.Field, attrs ...markup.Attrs) string {
	classes := []string{r.GroupClass}
	if f.Descriptor().Required {
		classes = append(classes, r.RequiredClass)
	}
	if r.Model.HasError(f.Descriptor().Name) {
		classes = append(classes, r.ErrorClass)
	}
	return markup.Open("div", markup.Merge(markup.Attrs{"class": classes}, attrs...))
}

// EndGroup closes a Group.
func (r *InputRenderer) EndGroup() string {
	return "</div>"
}

// Label renders the <label> of f, or "" when f has no label.
func (r *InputRenderer) Label(f field.Field, attrs ...markup.Attrs) (string, error) {
	id := r.ID(f)
	if id == "" {
		return "", ErrNoID
	}
	text := r.LabelText(f)
	if text == "" {
		return "", nil
	}
	defaults := markup.Attrs{
		"class": r.LabelClass,
		"for":   id,
	}
	return markup.Element("label", markup.Merge(defaults, attrs...), markup.Encode(text)), nil
}

// Error returns the encoded validation message recorded for f, if any.
func (r *InputRenderer) Error(f field.Field) string {
	return markup.Encode(r.Model.Error(f.Descriptor().Name))
}
