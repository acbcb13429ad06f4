package openapi

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/schema"
)

const donationsAPI = `
openapi: 3.0.3
info:
  title: Donations
  version: 1.0.0
paths:
  /donations:
    post:
      operationId: createDonation
      summary: Make a donation
      requestBody:
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              required: [email, amount]
              properties:
                email:
                  type: string
                  format: email
                  maxLength: 100
                amount:
                  type: integer
                  minimum: 100
                  maximum: 1000
                  x-formkit:
                    order: -1
                    label: Donation
                cause:
                  type: string
                  enum: [p, a]
                  x-formkit:
                    labels:
                      p: Starving Programmers
                      a: Starving Artists
                first_name:
                  type: string
                  minLength: 2
                id:
                  type: string
                  readOnly: true
                address:
                  type: object
                  properties:
                    street:
                      type: string
                    zip:
                      type: string
                      pattern: "^[0-9]{4}$"
                subscribe:
                  type: boolean
                notes:
                  type: string
                  x-formkit:
                    kind: textarea
                    rows: 4
    get:
      summary: List donations
      responses:
        "200":
          description: ok
`

func TestOperations(t *testing.T) {
	ops, err := NewParser().Operations(context.Background(), []byte(donationsAPI))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}

	list, ok := ops["get:/donations"]
	if !ok || list.Method != "GET" || len(list.Fields) != 0 {
		t.Fatalf("unexpected list operation %+v", list)
	}

	create := ops["createDonation"]
	var names []string
	for _, spec := range create.Fields {
		names = append(names, spec.Name+":"+spec.Kind)
	}
	want := []string{
		"amount:int",
		"address.street:text",
		"address.zip:text",
		"cause:select",
		"email:email",
		"first_name:text",
		"notes:textarea",
		"subscribe:checkbox",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	byName := make(map[string]schema.FieldSpec)
	for _, spec := range create.Fields {
		byName[spec.Name] = spec
	}
	if amount := byName["amount"]; !amount.Required || amount.Label != "Donation" || *amount.Min != 100 || *amount.Max != 1000 {
		t.Fatalf("unexpected amount spec %+v", amount)
	}
	if email := byName["email"]; !email.Required || email.MaxLength != 100 {
		t.Fatalf("unexpected email spec %+v", email)
	}
	if first := byName["first_name"]; first.Label != "First name" || first.MinLength != 2 || first.Required {
		t.Fatalf("unexpected first_name spec %+v", first)
	}
	if zip := byName["address.zip"]; zip.Attrs["pattern"] != "^[0-9]{4}$" {
		t.Fatalf("unexpected zip spec %+v", zip)
	}
	wantOptions := []schema.OptionSpec{{Value: "p", Label: "Starving Programmers"}, {Value: "a", Label: "Starving Artists"}}
	if diff := cmp.Diff(wantOptions, byName["cause"].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if byName["notes"].Rows != 4 {
		t.Fatalf("expected rows hint to apply")
	}
}

func TestForms(t *testing.T) {
	forms, err := NewParser().Forms(context.Background(), []byte(donationsAPI), "donations.yaml", nil)
	if err != nil {
		t.Fatalf("forms: %v", err)
	}
	if _, ok := forms["get:/donations"]; ok {
		t.Fatalf("operations without a body should not produce forms")
	}

	form, ok := forms["createDonation"]
	if !ok {
		t.Fatalf("expected createDonation form")
	}
	if form.Title != "Make a donation" || form.Source != "donations.yaml" {
		t.Fatalf("unexpected form metadata %+v", form)
	}
	amount, _ := form.Field("amount")
	if f, ok := amount.(*field.IntField); !ok || *f.MinValue != 100 {
		t.Fatalf("expected int field, got %T", amount)
	}
	street, _ := form.Field("address.street")
	if _, ok := street.(*field.TextField); !ok {
		t.Fatalf("expected text field, got %T", street)
	}
}

func TestRecursiveReferences(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": {"title": "Cycle", "version": "1.0.0"},
  "paths": {
    "/nodes": {
      "post": {
        "operationId": "createNode",
        "requestBody": {
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/Node"}}
          }
        }
      }
    }
  },
  "components": {
    "schemas": {
      "Node": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "parent": {"$ref": "#/components/schemas/Node"}
        }
      }
    }
  }
}`

	ops, err := NewParser().Operations(context.Background(), []byte(document))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	var names []string
	for _, spec := range ops["createNode"].Fields {
		names = append(names, spec.Name)
	}
	if diff := cmp.Diff([]string{"name"}, names); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestOperationsErrors(t *testing.T) {
	if _, err := NewParser().Operations(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}

	empty := []byte(`{"openapi": "3.0.0", "info": {"title": "x", "version": "1"}, "paths": {}}`)
	if _, err := NewParser().Operations(context.Background(), empty); !errors.Is(err, ErrNoPaths) {
		t.Fatalf("expected ErrNoPaths, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewParser().Operations(ctx, []byte(donationsAPI)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"email":       "Email",
		"first_name":  "First name",
		"dateOfBirth": "Date of birth",
		"zip-code":    "Zip code",
		"":            "",
	}
	for in, want := range cases {
		if got := humanize(in); got != want {
			t.Fatalf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
