package field

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// Layouts used by DateTimeField.
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)

// TimeZoneAware holds the location in which a field interprets its input.
type TimeZoneAware struct {
	// Location defaults to time.Local when nil.
	Location *time.Location
}

// TimeZone returns the effective location.
func (z *TimeZoneAware) TimeZone() *time.Location {
	if z.Location == nil {
		return time.Local
	}
	return z.Location
}

// SetTimeZone loads an IANA zone by name. An empty name selects time.Local.
func (z *TimeZoneAware) SetTimeZone(name string) error {
	if strings.TrimSpace(name) == "" {
		z.Location = nil
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("field: time zone %q: %w", name, err)
	}
	z.Location = loc
	return nil
}

// DateTimeField is a text input holding a date and time in Layout.
type DateTimeField struct {
	Base
	TimeZoneAware
	// Layout is a time.Parse layout. Input must round-trip through it.
	Layout      string
	Placeholder string
	Attrs       markup.Attrs
}

// NewDateTimeField returns a date-time field using DateTimeLayout. The input
// is readonly and tagged data-ui="datetimepicker" for a picker widget; set
// "readonly" to false in Attrs to allow typing.
func NewDateTimeField(name, label string, loc *time.Location) *DateTimeField {
	return &DateTimeField{
		Base:          Base{Name: name, Label: label},
		TimeZoneAware: TimeZoneAware{Location: loc},
		Layout:        DateTimeLayout,
		Attrs:         markup.Attrs{"readonly": true, "data-ui": "datetimepicker"},
	}
}

// NewDateField returns a date-time field using DateLayout, tagged
// data-ui="datepicker".
func NewDateField(name, label string, loc *time.Location) *DateTimeField {
	f := NewDateTimeField(name, label, loc)
	f.Layout = DateLayout
	f.Attrs["data-ui"] = "datepicker"
	return f
}

func (f *DateTimeField) layout() string {
	if f.Layout == "" {
		return DateTimeLayout
	}
	return f.Layout
}

// Parse interprets text in the field's layout and location. Text that does
// not format back to itself is rejected, so "2014-02-30" does not roll over.
func (f *DateTimeField) Parse(text string) (time.Time, bool) {
	layout := f.layout()
	t, err := time.ParseInLocation(layout, text, f.TimeZone())
	if err != nil || t.Format(layout) != text {
		return time.Time{}, false
	}
	return t, true
}

// Value implements HasTime. Absent or empty input yields nil.
func (f *DateTimeField) Value(m *input.Model) (*time.Time, error) {
	raw := strings.TrimSpace(m.String(f.Name))
	if raw == "" {
		return nil, nil
	}
	t, ok := f.Parse(raw)
	if !ok {
		return nil, invalid(f)
	}
	return &t, nil
}

// SetValue stores t formatted in the field's location, or clears the input
// when t is nil.
func (f *DateTimeField) SetValue(m *input.Model, t *time.Time) {
	if t == nil {
		m.Set(f.Name, nil)
		return
	}
	m.Set(f.Name, t.In(f.TimeZone()).Format(f.layout()))
}

// RenderInput implements Renderable.
func (f *DateTimeField) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	defaults := markup.Attrs{}
	if f.Placeholder != "" {
		defaults["placeholder"] = f.Placeholder
	}
	return r.Input(f, "text", lookup(m, f), defaults, f.Attrs, attrs), nil
}
