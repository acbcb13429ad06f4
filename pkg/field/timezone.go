package field

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

//go:embed data/zones.txt
var zonesFS embed.FS

const zonesPath = "data/zones.txt"

var (
	defaultZonesOnce sync.Once
	defaultZones     []string
	defaultZonesErr  error
)

// DefaultZones returns the bundled list of zone names, sorted.
func DefaultZones() ([]string, error) {
	defaultZonesOnce.Do(func() {
		f, err := zonesFS.Open(zonesPath)
		if err != nil {
			defaultZonesErr = err
			return
		}
		defer func() { _ = f.Close() }()
		defaultZones, defaultZonesErr = LoadZones(f)
	})
	if defaultZonesErr != nil {
		return nil, defaultZonesErr
	}
	return append([]string{}, defaultZones...), nil
}

// LoadZones reads one zone name per line, skipping blanks, comments and
// duplicates. The result is sorted.
func LoadZones(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("field: missing zone reader")
	}

	scanner := bufio.NewScanner(r)
	zones := make([]string, 0, 64)
	seen := map[string]struct{}{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		zones = append(zones, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Strings(zones)
	return zones, nil
}

// TimeZoneField selects an IANA time zone.
type TimeZoneField struct {
	Base
	Zones  []string
	Prompt string
	Attrs  markup.Attrs
}

// NewTimeZoneField returns a zone select named name. A nil zones slice uses
// DefaultZones.
func NewTimeZoneField(name, label string, zones []string) (*TimeZoneField, error) {
	if zones == nil {
		var err error
		if zones, err = DefaultZones(); err != nil {
			return nil, err
		}
	}
	return &TimeZoneField{Base: Base{Name: name, Label: label}, Zones: zones}, nil
}

// Options implements HasOptions.
func (f *TimeZoneField) Options() []Option {
	out := make([]Option, 0, len(f.Zones))
	for _, zone := range f.Zones {
		out = append(out, Option{Value: zone, Label: strings.ReplaceAll(zone, "_", " ")})
	}
	return out
}

// Value loads the selected zone. No selection yields nil.
func (f *TimeZoneField) Value(m *input.Model) (*time.Location, error) {
	name := selected(f.Options(), m.String(f.Name))
	if name == "" {
		if m.String(f.Name) != "" {
			return nil, invalid(f)
		}
		return nil, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	return loc, nil
}

// SetValue selects loc, or clears the input when loc is nil.
func (f *TimeZoneField) SetValue(m *input.Model, loc *time.Location) {
	if loc == nil {
		m.Set(f.Name, nil)
		return
	}
	m.Set(f.Name, loc.String())
}

// RenderInput implements Renderable.
func (f *TimeZoneField) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	options := f.Options()
	return renderSelect(r, f, options, f.Prompt, selected(options, m.String(f.Name)), f.Attrs, attrs), nil
}
