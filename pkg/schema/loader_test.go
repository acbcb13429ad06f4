package schema_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/token"
)

const signupYAML = `
forms:
  signup:
    title: Sign up
    namePrefix: form
    idPrefix: form
    fields:
      - name: email
        kind: email
        label: Email
        required: true
        maxLength: 100
      - name: password
        kind: password
        label: Password
        minLength: 8
      - name: donation
        kind: int
        label: Donation
        min: 100
        max: 1000
      - name: cause
        kind: select
        label: Cause
        prompt: Please select
        options:
          - value: p
            label: Starving Programmers
          - value: a
            label: Starving Artists
      - name: birthday
        kind: date-select
        label: Birthday
        timeZone: Europe/Copenhagen
        yearMin: 1900
        yearMax: 2000
      - name: agree
        kind: checkbox
        label: I agree
        required: true
      - name: token
        kind: token
`

const contactJSON = `{
  "forms": {
    "contact": {
      "fields": [
        {"name": "message", "kind": "textarea", "label": "Message", "rows": 4},
        {"name": "when", "kind": "date", "label": "When", "attrs": {"data-picker": "date"}}
      ]
    }
  }
}`

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/signup.yaml":  {Data: []byte(signupYAML)},
		"forms/contact.json": {Data: []byte(contactJSON)},
		"forms/README.md":    {Data: []byte("ignored")},
	}

	loader := schema.NewLoader(
		schema.WithSecret([]byte("secret")),
		schema.WithTokenWindow(token.Window{From: time.Second, To: time.Minute}),
	)
	store, err := loader.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"contact", "signup"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	signup, ok := store.Form("signup")
	if !ok {
		t.Fatalf("expected signup form")
	}
	if signup.Title != "Sign up" || signup.NamePrefix != "form" || signup.Source != "forms/signup.yaml" {
		t.Fatalf("unexpected form metadata %+v", signup)
	}

	var kinds []string
	for _, f := range signup.Fields {
		kinds = append(kinds, strings.TrimPrefix(fmt.Sprintf("%T", f), "*field."))
	}
	want := []string{"TextField", "PasswordField", "IntField", "SelectField", "DateSelectField", "CheckboxField", "TokenField"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	email, _ := signup.Field("email")
	if text := email.(*field.TextField); text.InputType() != "email" || text.MaxLength != 100 || !text.Required {
		t.Fatalf("unexpected email field %+v", text)
	}

	donation, _ := signup.Field("donation")
	if d := donation.(*field.IntField); *d.MinValue != 100 || *d.MaxValue != 1000 {
		t.Fatalf("unexpected donation bounds %v %v", *d.MinValue, *d.MaxValue)
	}

	cause, _ := signup.Field("cause")
	wantOptions := field.Pairs("p", "Starving Programmers", "a", "Starving Artists")
	if diff := cmp.Diff(wantOptions, cause.(field.HasOptions).Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	birthday, _ := signup.Field("birthday")
	if b := birthday.(*field.DateSelectField); b.TimeZone().String() != "Europe/Copenhagen" || b.YearMin != 1900 {
		t.Fatalf("unexpected birthday field %+v", b)
	}

	tokenField, _ := signup.Field("token")
	if tf := tokenField.(*field.TokenField); tf.Window.To != time.Minute || string(tf.Secret) != "secret" {
		t.Fatalf("unexpected token field %+v", tf)
	}

	contact, _ := store.Form("contact")
	when, _ := contact.Field("when")
	if w := when.(*field.DateTimeField); w.Layout != field.DateLayout || w.Attrs["data-picker"] != "date" || w.Attrs["data-ui"] != "datepicker" {
		t.Fatalf("unexpected date field %+v", w)
	}
}

func TestLoadFSNil(t *testing.T) {
	store, err := schema.NewLoader().LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("expected empty store, got %v, %v", store.IDs(), err)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		files fstest.MapFS
		want  string
	}{
		"empty file": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("  ")}},
			want:  "is empty",
		},
		"invalid yaml": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("forms: [")}},
			want:  "parse a.yaml",
		},
		"no forms": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("other: 1")}},
			want:  "defines no forms",
		},
		"unknown kind": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: x\n        kind: rocket\n")}},
			want:  `unknown kind "rocket"`,
		},
		"duplicate field": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: a[b]\n      - name: a.b\n")}},
			want:  "duplicate field",
		},
		"duplicate form": {
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: x\n")},
				"b.json": {Data: []byte(`{"forms": {"f": {"fields": [{"name": "y"}]}}}`)},
			},
			want: `duplicate form "f"`,
		},
		"fractional int bound": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: n\n        kind: int\n        min: 1.5\n")}},
			want:  "whole number",
		},
		"select without options": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: s\n        kind: select\n")}},
			want:  "requires options",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := schema.NewLoader().LoadFS(tc.files)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestTokenFieldRequiresSecret(t *testing.T) {
	_, err := schema.NewLoader().Parse([]byte("forms:\n  f:\n    fields:\n      - name: token\n        kind: token\n"), "inline.yaml")
	if !errors.Is(err, schema.ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestRegistryCustomKind(t *testing.T) {
	registry := schema.NewRegistry()
	if err := registry.Register("", nil); err == nil {
		t.Fatalf("expected empty kind to be rejected")
	}
	registry.MustRegister("Slug", func(spec schema.FieldSpec, _ schema.Env) (field.Field, error) {
		f := field.NewTextField(spec.Name, spec.Label)
		f.Attrs = map[string]any{"pattern": "[a-z-]+"}
		return f, nil
	})

	forms, err := schema.NewLoader(schema.WithRegistry(registry)).Parse(
		[]byte(`{"forms": {"post": {"fields": [{"name": "slug", "kind": "slug"}]}}}`), "post.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	slug, ok := forms["post"].Field("slug")
	if !ok || slug.(*field.TextField).Attrs["pattern"] != "[a-z-]+" {
		t.Fatalf("expected custom builder to run")
	}

	kinds := registry.Kinds()
	if !contains(kinds, "slug") || !contains(kinds, schema.KindDateSelect) {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}

func TestRegistryRejectsDuplicateKind(t *testing.T) {
	registry := schema.NewRegistry()
	hidden := func(spec schema.FieldSpec, _ schema.Env) (field.Field, error) {
		return field.NewHiddenField(spec.Name), nil
	}

	err := registry.Register(" Text ", hidden)
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate kind to be rejected, got %v", err)
	}
	built, err := registry.Build(schema.FieldSpec{Name: "title", Kind: schema.KindText}, schema.Env{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := built.(*field.TextField); !ok {
		t.Fatalf("expected built-in text builder to survive, got %T", built)
	}

	if err := registry.Replace("missing", hidden); err == nil {
		t.Fatalf("expected replacing an unknown kind to fail")
	}
	if err := registry.Replace(schema.KindText, hidden); err != nil {
		t.Fatalf("replace: %v", err)
	}
	built, err = registry.Build(schema.FieldSpec{Name: "title", Kind: schema.KindText}, schema.Env{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := built.(*field.HiddenField); !ok {
		t.Fatalf("expected replaced builder to run, got %T", built)
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
