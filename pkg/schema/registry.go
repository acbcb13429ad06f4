package schema

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/markup"
	"github.com/goliatone/go-formkit/pkg/token"
)

// Built-in field kinds.
const (
	KindText        = "text"
	KindEmail       = "email"
	KindPassword    = "password"
	KindHidden      = "hidden"
	KindTextArea    = "textarea"
	KindInt         = "int"
	KindFloat       = "float"
	KindCheckbox    = "checkbox"
	KindSelect      = "select"
	KindRadio       = "radio"
	KindRadioInline = "radio-inline"
	KindDateTime    = "datetime"
	KindDate        = "date"
	KindDateSelect  = "date-select"
	KindTimeZone    = "timezone"
	KindToken       = "token"
)

// ErrNoSecret is returned when a token field is defined but the loader has no
// secret to sign tokens with.
var ErrNoSecret = errors.New("schema: token field requires a secret")

// Env carries host configuration builders may need.
type Env struct {
	Secret   []byte
	Window   token.Window
	Location *time.Location
	Now      func() time.Time
}

// Builder turns a field definition into a field descriptor.
type Builder func(spec FieldSpec, env Env) (field.Field, error)

// Registry maps kinds to builders. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with the built-in kinds registered.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.registerBuiltins()
	return r
}

// Register adds the builder for kind. Kinds that are already registered,
// built-ins included, are rejected; use Replace to override one.
func (r *Registry) Register(kind string, builder Builder) error {
	kind, err := checkBuilder(kind, builder)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builders[kind]; exists {
		return fmt.Errorf("schema: register %q: already registered", kind)
	}
	r.builders[kind] = builder
	return nil
}

// Replace swaps the builder of a registered kind.
func (r *Registry) Replace(kind string, builder Builder) error {
	kind, err := checkBuilder(kind, builder)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builders[kind]; !exists {
		return fmt.Errorf("schema: replace %q: unknown kind", kind)
	}
	r.builders[kind] = builder
	return nil
}

func checkBuilder(kind string, builder Builder) (string, error) {
	kind = normaliseKind(kind)
	if kind == "" {
		return "", fmt.Errorf("schema: register: empty kind")
	}
	if builder == nil {
		return "", fmt.Errorf("schema: register %q: nil builder", kind)
	}
	return kind, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind string, builder Builder) {
	if err := r.Register(kind, builder); err != nil {
		panic(err)
	}
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.builders))
	for kind := range r.builders {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// Build creates the field described by spec. An empty kind means text.
func (r *Registry) Build(spec FieldSpec, env Env) (field.Field, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("schema: field without a name")
	}
	kind := normaliseKind(spec.Kind)
	if kind == "" {
		kind = KindText
	}

	r.mu.RLock()
	builder, ok := r.builders[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("schema: field %q: unknown kind %q", spec.Name, kind)
	}

	f, err := builder(spec, env)
	if err != nil {
		return nil, fmt.Errorf("schema: field %q: %w", spec.Name, err)
	}
	return f, nil
}

func normaliseKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

func (r *Registry) registerBuiltins() {
	r.builders[KindText] = buildText
	r.builders[KindEmail] = buildText
	r.builders[KindPassword] = buildText
	r.builders[KindHidden] = func(spec FieldSpec, _ Env) (field.Field, error) {
		f := field.NewHiddenField(spec.Name)
		f.Label, f.Required = spec.Label, spec.Required
		return f, nil
	}
	r.builders[KindTextArea] = func(spec FieldSpec, _ Env) (field.Field, error) {
		f := field.NewTextArea(spec.Name, spec.Label)
		f.Required = spec.Required
		f.Placeholder = spec.Placeholder
		f.MinLength, f.MaxLength, f.Rows = spec.MinLength, spec.MaxLength, spec.Rows
		f.Attrs = attrs(spec.Attrs)
		return f, nil
	}
	r.builders[KindInt] = buildInt
	r.builders[KindFloat] = func(spec FieldSpec, _ Env) (field.Field, error) {
		f := field.NewFloatField(spec.Name, spec.Label)
		f.Required = spec.Required
		f.Placeholder = spec.Placeholder
		f.MinValue, f.MaxValue = spec.Min, spec.Max
		f.Attrs = attrs(spec.Attrs)
		return f, nil
	}
	r.builders[KindCheckbox] = func(spec FieldSpec, _ Env) (field.Field, error) {
		f := field.NewCheckboxField(spec.Name, spec.Label)
		f.Required = spec.Required
		if spec.CheckedValue != "" {
			f.CheckedValue = spec.CheckedValue
		}
		return f, nil
	}
	r.builders[KindSelect] = func(spec FieldSpec, _ Env) (field.Field, error) {
		if len(spec.Options) == 0 {
			return nil, fmt.Errorf("select requires options")
		}
		f := field.NewSelectField(spec.Name, spec.Label, spec.options()...)
		f.Required = spec.Required
		f.Prompt = spec.Prompt
		f.Attrs = attrs(spec.Attrs)
		return f, nil
	}
	r.builders[KindRadio] = func(spec FieldSpec, _ Env) (field.Field, error) {
		if len(spec.Options) == 0 {
			return nil, fmt.Errorf("radio requires options")
		}
		f := field.NewRadioGroup(spec.Name, spec.Label, spec.options()...)
		f.Required = spec.Required
		return f, nil
	}
	r.builders[KindRadioInline] = func(spec FieldSpec, _ Env) (field.Field, error) {
		if len(spec.Options) == 0 {
			return nil, fmt.Errorf("radio requires options")
		}
		f := field.NewInlineRadioGroup(spec.Name, spec.Label, spec.options()...)
		f.Required = spec.Required
		return f, nil
	}
	r.builders[KindDateTime] = buildDateTime
	r.builders[KindDate] = buildDateTime
	r.builders[KindDateSelect] = func(spec FieldSpec, env Env) (field.Field, error) {
		f := field.NewDateSelectField(spec.Name, spec.Label, env.Location)
		f.Required = spec.Required
		f.YearMin, f.YearMax = spec.YearMin, spec.YearMax
		f.Now = env.Now
		if err := zone(&f.TimeZoneAware, spec.TimeZone); err != nil {
			return nil, err
		}
		return f, nil
	}
	r.builders[KindTimeZone] = func(spec FieldSpec, _ Env) (field.Field, error) {
		f, err := field.NewTimeZoneField(spec.Name, spec.Label, spec.Zones)
		if err != nil {
			return nil, err
		}
		f.Required = spec.Required
		f.Prompt = spec.Prompt
		f.Attrs = attrs(spec.Attrs)
		return f, nil
	}
	r.builders[KindToken] = func(spec FieldSpec, env Env) (field.Field, error) {
		if len(env.Secret) == 0 {
			return nil, ErrNoSecret
		}
		f := field.NewTokenField(spec.Name, env.Secret)
		f.Label = spec.Label
		if env.Window != (token.Window{}) {
			f.Window = env.Window
		}
		f.Now = env.Now
		return f, nil
	}
}

func buildText(spec FieldSpec, _ Env) (field.Field, error) {
	var f *field.TextField
	switch normaliseKind(spec.Kind) {
	case KindEmail:
		f = field.NewEmailField(spec.Name, spec.Label)
	case KindPassword:
		p := field.NewPasswordField(spec.Name, spec.Label)
		configureText(&p.TextField, spec)
		return p, nil
	default:
		f = field.NewTextField(spec.Name, spec.Label)
	}
	configureText(f, spec)
	return f, nil
}

func configureText(f *field.TextField, spec FieldSpec) {
	f.Required = spec.Required
	f.Placeholder = spec.Placeholder
	f.MinLength, f.MaxLength = spec.MinLength, spec.MaxLength
	f.Attrs = attrs(spec.Attrs)
}

func buildInt(spec FieldSpec, _ Env) (field.Field, error) {
	f := field.NewIntField(spec.Name, spec.Label)
	f.Required = spec.Required
	f.Placeholder = spec.Placeholder
	f.Attrs = attrs(spec.Attrs)
	var err error
	if f.MinValue, err = wholeBound("min", spec.Min); err != nil {
		return nil, err
	}
	if f.MaxValue, err = wholeBound("max", spec.Max); err != nil {
		return nil, err
	}
	return f, nil
}

func wholeBound(name string, value *float64) (*int, error) {
	if value == nil {
		return nil, nil
	}
	if *value != math.Trunc(*value) {
		return nil, fmt.Errorf("%s must be a whole number, got %v", name, *value)
	}
	return field.Ptr(int(*value)), nil
}

func buildDateTime(spec FieldSpec, env Env) (field.Field, error) {
	var f *field.DateTimeField
	if normaliseKind(spec.Kind) == KindDate {
		f = field.NewDateField(spec.Name, spec.Label, env.Location)
	} else {
		f = field.NewDateTimeField(spec.Name, spec.Label, env.Location)
	}
	f.Required = spec.Required
	f.Placeholder = spec.Placeholder
	f.Attrs = markup.Merge(f.Attrs, attrs(spec.Attrs))
	if spec.Layout != "" {
		f.Layout = spec.Layout
	}
	if err := zone(&f.TimeZoneAware, spec.TimeZone); err != nil {
		return nil, err
	}
	return f, nil
}

func zone(z *field.TimeZoneAware, name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return z.SetTimeZone(name)
}

func attrs(in map[string]string) markup.Attrs {
	if len(in) == 0 {
		return nil
	}
	out := make(markup.Attrs, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
