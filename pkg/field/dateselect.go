package field

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// Keys of the composite value held by a DateSelectField.
const (
	KeyYear  = "year"
	KeyMonth = "month"
	KeyDay   = "day"
)

// EnglishMonths are the default month option labels.
var EnglishMonths = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DateSelectField picks a date with three selects. Its input is a map with
// the keys KeyYear, KeyMonth and KeyDay.
type DateSelectField struct {
	Base
	TimeZoneAware
	// YearMin and YearMax bound the year options. Zero YearMax means the
	// current year and zero YearMin means a hundred years before YearMax.
	YearMin int
	YearMax int
	// MonthNames label the month options, January first.
	MonthNames []string
	// Order lists the keys in render order.
	Order []string
	// Placeholders label the disabled first option of each select when the
	// field is optional.
	Placeholders map[string]string
	// Now is the clock used for the default year range.
	Now func() time.Time
}

// NewDateSelectField returns a date select field named name.
func NewDateSelectField(name, label string, loc *time.Location) *DateSelectField {
	return &DateSelectField{
		Base:          Base{Name: name, Label: label},
		TimeZoneAware: TimeZoneAware{Location: loc},
		MonthNames:    EnglishMonths,
		Order:         []string{KeyDay, KeyMonth, KeyYear},
		Placeholders: map[string]string{
			KeyDay:   "Day",
			KeyMonth: "Month",
			KeyYear:  "Year",
		},
	}
}

// YearRange returns the inclusive year option bounds.
func (f *DateSelectField) YearRange() (int, int) {
	last := f.YearMax
	if last == 0 {
		now := time.Now
		if f.Now != nil {
			now = f.Now
		}
		last = now().In(f.TimeZone()).Year()
	}
	first := f.YearMin
	if first == 0 {
		first = last - 100
	}
	return first, last
}

// Value implements HasTime. An entirely empty selection yields nil; a partial
// or impossible one is invalid, as is a year outside YearRange.
func (f *DateSelectField) Value(m *input.Model) (*time.Time, error) {
	parts := map[string]string{}
	empty := 0
	for _, key := range []string{KeyYear, KeyMonth, KeyDay} {
		parts[key] = strings.TrimSpace(m.String(f.part(key)))
		if parts[key] == "" {
			empty++
		}
	}
	switch empty {
	case 3:
		return nil, nil
	case 0:
	default:
		return nil, invalid(f)
	}

	year, errY := strconv.Atoi(parts[KeyYear])
	month, errM := strconv.Atoi(parts[KeyMonth])
	day, errD := strconv.Atoi(parts[KeyDay])
	if errY != nil || errM != nil || errD != nil {
		return nil, invalid(f)
	}
	if first, last := f.YearRange(); year < first || year > last {
		return nil, invalid(f)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, f.TimeZone())
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil, invalid(f)
	}
	return &t, nil
}

// SetValue stores the calendar date of t in the field's location, or clears
// the input when t is nil.
func (f *DateSelectField) SetValue(m *input.Model, t *time.Time) {
	if t == nil {
		m.Set(f.Name, nil)
		return
	}
	local := t.In(f.TimeZone())
	m.Set(f.Name, map[string]string{
		KeyYear:  strconv.Itoa(local.Year()),
		KeyMonth: strconv.Itoa(int(local.Month())),
		KeyDay:   strconv.Itoa(local.Day()),
	})
}

// RenderInput implements Renderable. Caller attributes apply to every select.
func (f *DateSelectField) RenderInput(r Renderer, m *input.Model, attrs markup.Attrs) (string, error) {
	name := r.Name(f)
	id := r.ID(f)

	var b strings.Builder
	for _, key := range f.order() {
		options := f.options(key)
		defaults := markup.Attrs{
			"name":  name + "[" + key + "]",
			"class": []string{r.InputClass(), key},
		}
		if id != "" {
			defaults["id"] = id + "-" + key
		}
		prompt := ""
		if !f.Required {
			prompt = f.Placeholders[key]
		}
		current := selected(options, m.String(f.part(key)))
		b.WriteString(markup.Element("select", markup.Merge(defaults, attrs), optionTags(options, prompt, current)))
	}
	return b.String(), nil
}

func (f *DateSelectField) order() []string {
	if len(f.Order) == 0 {
		return []string{KeyDay, KeyMonth, KeyYear}
	}
	return f.Order
}

func (f *DateSelectField) part(key string) string {
	return f.Name + "[" + key + "]"
}

func (f *DateSelectField) options(key string) []Option {
	var out []Option
	switch key {
	case KeyDay:
		for day := 1; day <= 31; day++ {
			value := strconv.Itoa(day)
			out = append(out, Option{Value: value, Label: value})
		}
	case KeyMonth:
		for month := 1; month <= 12; month++ {
			label := strconv.Itoa(month)
			if month <= len(f.MonthNames) {
				label = f.MonthNames[month-1]
			}
			out = append(out, Option{Value: strconv.Itoa(month), Label: label})
		}
	case KeyYear:
		first, last := f.YearRange()
		for year := first; year <= last; year++ {
			value := strconv.Itoa(year)
			out = append(out, Option{Value: value, Label: value})
		}
	}
	return out
}
