package field

import (
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
)

type stubRenderer struct{}

func (stubRenderer) Name(f Field) string      { return f.Descriptor().Name }
func (stubRenderer) ID(Field) string          { return "" }
func (stubRenderer) LabelText(f Field) string { return f.Descriptor().Label }
func (stubRenderer) InputClass() string       { return "form-control" }
func (stubRenderer) SoftEncode(s string) string {
	return markup.Encode(s)
}

func (r stubRenderer) Input(f Field, typ string, value *string, attrs ...markup.Attrs) string {
	defaults := markup.Attrs{
		"name":  r.Name(f),
		"class": r.InputClass(),
		"type":  typ,
		"value": value,
	}
	return markup.Tag("input", markup.Merge(defaults, attrs...))
}

func render(t *testing.T, f Renderable, m *input.Model, attrs markup.Attrs) string {
	t.Helper()
	html, err := f.RenderInput(stubRenderer{}, m, attrs)
	if err != nil {
		t.Fatalf("render %s: %v", f.Descriptor().Name, err)
	}
	return html
}

func TestTextFieldRendering(t *testing.T) {
	f := NewTextField("value", "Value")
	m := input.New()

	if got := render(t, f, m, nil); got != `<input class="form-control" name="value" type="text"/>` {
		t.Fatalf("unexpected empty input %s", got)
	}

	f.MaxLength = 50
	f.SetValue(m, "this & that")
	want := `<input class="form-control foo" maxlength="50" name="value" type="text" value="this &amp; that"/>`
	if got := render(t, f, m, markup.Attrs{"class": "foo"}); got != want {
		t.Fatalf("unexpected input\nwant: %s\n got: %s", want, got)
	}
}

func TestPasswordFieldNeverEchoes(t *testing.T) {
	f := NewPasswordField("value", "Password")
	m := input.FromMap(map[string]any{"value": "secret"})

	want := `<input class="form-control" name="value" type="password" value=""/>`
	if got := render(t, f, m, nil); got != want {
		t.Fatalf("unexpected input\nwant: %s\n got: %s", want, got)
	}
}

func TestHiddenAndEmailFields(t *testing.T) {
	m := input.FromMap(map[string]any{"value": "this & that"})

	if got := render(t, NewHiddenField("value"), m, nil); got != `<input name="value" type="hidden" value="this &amp; that"/>` {
		t.Fatalf("unexpected hidden input %s", got)
	}
	if got := render(t, NewEmailField("value", "Email"), input.New(), nil); got != `<input class="form-control" name="value" type="email"/>` {
		t.Fatalf("unexpected email input %s", got)
	}
}

func TestHiddenCapability(t *testing.T) {
	for _, f := range []Field{NewHiddenField("ref"), NewTokenField("token", []byte("secret"))} {
		hidden, ok := f.(Hidden)
		if !ok || !hidden.HiddenInput() {
			t.Fatalf("expected %T to be hidden", f)
		}
	}
	if _, ok := Field(NewTextField("name", "Name")).(Hidden); ok {
		t.Fatalf("expected text field to be visible")
	}
	if _, ok := Field(NewTokenField("token", []byte("secret"))).(TokenIssuer); !ok {
		t.Fatalf("expected token field to issue tokens")
	}
}

func TestTextAreaEncodesContent(t *testing.T) {
	f := NewTextArea("value", "Text")
	m := input.FromMap(map[string]any{"value": "<b>hi</b>"})

	want := `<textarea class="form-control" name="value">&lt;b&gt;hi&lt;/b&gt;</textarea>`
	if got := render(t, f, m, nil); got != want {
		t.Fatalf("unexpected textarea\nwant: %s\n got: %s", want, got)
	}
}

func TestIntFieldValue(t *testing.T) {
	f := NewIntField("value", "Number")
	m := input.New()

	if v, err := f.Value(m); v != nil || err != nil {
		t.Fatalf("expected nil for absent input, got %v, %v", v, err)
	}

	f.SetValue(m, Ptr(123))
	v, err := f.Value(m)
	if err != nil || v == nil || *v != 123 {
		t.Fatalf("expected 123, got %v, %v", v, err)
	}

	m.Set("value", "12.5")
	if _, err := f.Value(m); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	f.SetValue(m, nil)
	if m.Has("value") {
		t.Fatalf("expected nil to clear the input")
	}

	f.MinValue, f.MaxValue = Ptr(1), Ptr(10)
	want := `<input class="form-control" max="10" min="1" name="value" type="number"/>`
	if got := render(t, f, m, nil); got != want {
		t.Fatalf("unexpected number input\nwant: %s\n got: %s", want, got)
	}
	lo, hi := f.ValueBounds()
	if *lo != 1 || *hi != 10 {
		t.Fatalf("unexpected bounds %v %v", *lo, *hi)
	}
}

func TestFloatFieldValue(t *testing.T) {
	f := NewFloatField("value", "Ratio")
	m := input.New()

	f.SetValue(m, Ptr(1.25))
	if got := m.String("value"); got != "1.25" {
		t.Fatalf("unexpected stored value %q", got)
	}
	f.Decimals = 3
	f.SetValue(m, Ptr(1.25))
	if got := m.String("value"); got != "1.250" {
		t.Fatalf("unexpected stored value %q", got)
	}

	m.Set("value", "abc")
	if _, err := f.Value(m); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCheckboxField(t *testing.T) {
	f := NewCheckboxField("form[bool]", "I agree")
	m := input.New()

	want := `<div class="checkbox"><label><input name="form[bool]" type="checkbox" value="1"/>I agree</label></div>`
	if got := render(t, f, m, nil); got != want {
		t.Fatalf("unexpected checkbox\nwant: %s\n got: %s", want, got)
	}

	f.SetValue(m, true)
	if !f.Value(m) {
		t.Fatalf("expected checkbox to be checked")
	}
	want = `<div class="checkbox"><label><input checked name="form[bool]" type="checkbox" value="1"/>I agree</label></div>`
	if got := render(t, f, m, nil); got != want {
		t.Fatalf("unexpected checkbox\nwant: %s\n got: %s", want, got)
	}

	f.WrapperClass = ""
	f.Label = ""
	if got := render(t, f, m, nil); got != `<input checked name="form[bool]" type="checkbox" value="1"/>` {
		t.Fatalf("unexpected bare checkbox %s", got)
	}

	f.SetValue(m, false)
	if f.Value(m) || m.Has("form[bool]") {
		t.Fatalf("expected checkbox to be cleared")
	}
}

func TestSelectField(t *testing.T) {
	f := NewSelectField("value", "Pick", Pairs("1", "Option One", "2", "Option Two")...)
	m := input.FromMap(map[string]any{"value": "1"})

	want := `<select class="form-control" name="value"><option selected value="1">Option One</option><option value="2">Option Two</option></select>`
	if got := render(t, f, m, nil); got != want {
		t.Fatalf("unexpected select\nwant: %s\n got: %s", want, got)
	}

	f.Prompt = "Please select"
	m.Set("value", "3")
	if f.Value(m) != "" {
		t.Fatalf("expected unknown value to be treated as no selection")
	}
	want = `<select class="form-control" name="value"><option disabled selected>Please select</option><option value="1">Option One</option><option value="2">Option Two</option></select>`
	if got := render(t, f, m, nil); got != want {
		t.Fatalf("unexpected select\nwant: %s\n got: %s", want, got)
	}
}

func TestRadioGroups(t *testing.T) {
	options := Pairs("1", "Option One", "2", "Option Two")
	m := input.FromMap(map[string]any{"value": "2"})

	stacked := NewRadioGroup("value", "Pick", options...)
	want := `<div class="radio"><label><input class="foo" name="value" type="radio" value="1"/> Option One</label></div>` +
		`<div class="radio"><label><input checked class="foo" name="value" type="radio" value="2"/> Option Two</label></div>`
	if got := render(t, stacked, m, markup.Attrs{"class": "foo"}); got != want {
		t.Fatalf("unexpected radio group\nwant: %s\n got: %s", want, got)
	}

	inline := NewInlineRadioGroup("value", "Pick", options...)
	want = `<label class="radio-inline"><input name="value" type="radio" value="1"/> Option One</label>` +
		`<label class="radio-inline"><input checked name="value" type="radio" value="2"/> Option Two</label>`
	if got := render(t, inline, m, nil); got != want {
		t.Fatalf("unexpected inline radio group\nwant: %s\n got: %s", want, got)
	}
}

func TestDateTimeField(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	f := NewDateTimeField("value", "When", loc)
	f.Attrs = markup.Attrs{"readonly": true}
	m := input.New()

	issued := time.Unix(173919600, 0)
	f.SetValue(m, &issued)
	want := `<input class="form-control" name="value" readonly type="text" value="1975-07-07 00:00:00"/>`
	if got := render(t, f, m, nil); got != want {
		t.Fatalf("unexpected datetime input\nwant: %s\n got: %s", want, got)
	}

	v, err := f.Value(m)
	if err != nil || v == nil || !v.Equal(issued) {
		t.Fatalf("expected round trip to %v, got %v, %v", issued, v, err)
	}

	for _, bad := range []string{"1975-02-30 00:00:00", "1975-07-07", "yesterday"} {
		m.Set("value", bad)
		if _, err := f.Value(m); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected %q to be invalid, got %v", bad, err)
		}
	}

	date := NewDateField("value", "Day", loc)
	if _, ok := date.Parse("1975-07-07"); !ok {
		t.Fatalf("expected date layout to parse")
	}
	m.Set("value", "1975-07-07")
	want = `<input class="form-control" data-ui="datepicker" name="value" readonly type="text" value="1975-07-07"/>`
	if got := render(t, date, m, nil); got != want {
		t.Fatalf("unexpected date input\nwant: %s\n got: %s", want, got)
	}
}

func TestSetTimeZone(t *testing.T) {
	f := NewDateTimeField("value", "When", nil)
	if f.TimeZone() != time.Local {
		t.Fatalf("expected local zone by default")
	}
	if err := f.SetTimeZone("Europe/Copenhagen"); err != nil {
		t.Fatalf("set zone: %v", err)
	}
	if got := f.TimeZone().String(); got != "Europe/Copenhagen" {
		t.Fatalf("unexpected zone %s", got)
	}
	if err := f.SetTimeZone("Mars/Olympus_Mons"); err == nil {
		t.Fatalf("expected unknown zone to fail")
	}
}

func TestDateSelectField(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	f := NewDateSelectField("value", "Birthday", loc)
	f.YearMin, f.YearMax = 1974, 1976
	m := input.New()

	issued := time.Unix(173919600, 0)
	f.SetValue(m, &issued)
	want := map[string]any{"year": "1975", "month": "7", "day": "7"}
	if diff := cmp.Diff(want, m.Get("value")); diff != "" {
		t.Fatalf("stored date mismatch (-want +got):\n%s", diff)
	}

	v, err := f.Value(m)
	if err != nil || v == nil || !v.Equal(issued) {
		t.Fatalf("expected %v, got %v, %v", issued, v, err)
	}

	html := render(t, f, m, nil)
	for _, fragment := range []string{
		`<select class="form-control day" name="value[day]"><option disabled>Day</option>`,
		`<option selected value="7">July</option>`,
		`<option value="1974">1974</option><option selected value="1975">1975</option><option value="1976">1976</option></select>`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %s in\n%s", fragment, html)
		}
	}
	if strings.Index(html, `name="value[day]"`) > strings.Index(html, `name="value[month]"`) {
		t.Fatalf("expected day before month")
	}

	f.Required = true
	if strings.Contains(render(t, f, m, nil), "disabled") {
		t.Fatalf("expected no placeholders on required field")
	}

	m.Set("value[day]", "31")
	m.Set("value[month]", "2")
	if _, err := f.Value(m); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected impossible date to be invalid, got %v", err)
	}

	for _, year := range []string{"1", "1973", "1977"} {
		m.Set("value", map[string]string{"year": year, "month": "2", "day": "3"})
		if _, err := f.Value(m); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected year %s outside the options to be invalid, got %v", year, err)
		}
	}
	m.Set("value", map[string]string{"year": "1976", "month": "2", "day": "3"})
	if _, err := f.Value(m); err != nil {
		t.Fatalf("expected last offered year to be valid, got %v", err)
	}

	m.Set("value[day]", nil)
	if _, err := f.Value(m); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected partial date to be invalid, got %v", err)
	}

	f.SetValue(m, nil)
	if v, err := f.Value(m); v != nil || err != nil {
		t.Fatalf("expected empty selection, got %v, %v", v, err)
	}
}

func TestLoadZones(t *testing.T) {
	zones, err := LoadZones(strings.NewReader("# comment\nEurope/Paris\n\nAsia/Tokyo\nEurope/Paris\n"))
	if err != nil {
		t.Fatalf("load zones: %v", err)
	}
	if diff := cmp.Diff([]string{"Asia/Tokyo", "Europe/Paris"}, zones); diff != "" {
		t.Fatalf("zones mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadZones(nil); err == nil {
		t.Fatalf("expected missing reader to fail")
	}

	defaults, err := DefaultZones()
	if err != nil || len(defaults) == 0 {
		t.Fatalf("expected bundled zones, got %d, %v", len(defaults), err)
	}
}

func TestTimeZoneField(t *testing.T) {
	f, err := NewTimeZoneField("zone", "Zone", []string{"Europe/Copenhagen", "America/New_York"})
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	m := input.New()

	loc, _ := time.LoadLocation("America/New_York")
	f.SetValue(m, loc)
	got, err := f.Value(m)
	if err != nil || got.String() != "America/New_York" {
		t.Fatalf("unexpected zone %v, %v", got, err)
	}
	if html := render(t, f, m, nil); !strings.Contains(html, `<option selected value="America/New_York">America/New York</option>`) {
		t.Fatalf("unexpected zone select %s", html)
	}

	m.Set("zone", "Mars/Base")
	if _, err := f.Value(m); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown zone to be invalid, got %v", err)
	}
}

func TestTokenField(t *testing.T) {
	now := time.Unix(1000, 0)
	f := NewTokenField("token", []byte("secret"))
	f.Now = func() time.Time { return now }

	html := render(t, f, input.New(), nil)
	const prefix = `<input name="token" type="hidden" value="`
	if !strings.HasPrefix(html, prefix) || !strings.HasSuffix(html, `"/>`) {
		t.Fatalf("unexpected token input %s", html)
	}
	value := strings.TrimSuffix(strings.TrimPrefix(html, prefix), `"/>`)

	if f.CheckToken(value) {
		t.Fatalf("expected token to be rejected before the window opens")
	}
	now = now.Add(10 * time.Second)
	if !f.CheckToken(value) {
		t.Fatalf("expected token to be accepted inside the window")
	}
	now = now.Add(time.Hour)
	if f.CheckToken(value) {
		t.Fatalf("expected token to expire")
	}
}
