package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderSortsAndEncodes(t *testing.T) {
	got := Render(Attrs{
		"type":     "text",
		"name":     "value",
		"value":    `this & "that"`,
		"readonly": true,
		"disabled": false,
		"id":       nil,
		"size":     10,
	})
	want := ` name="value" readonly size="10" type="text" value="this &amp; &#34;that&#34;"`
	if got != want {
		t.Fatalf("unexpected attributes\nwant: %s\n got: %s", want, got)
	}
}

func TestRenderOmitsEmptyClass(t *testing.T) {
	if got := Render(Attrs{"class": "", "name": "x"}); got != ` name="x"` {
		t.Fatalf("expected empty class to be omitted, got %q", got)
	}
	if got := Render(Attrs{"class": []string{}, "name": "x"}); got != ` name="x"` {
		t.Fatalf("expected empty class list to be omitted, got %q", got)
	}
}

func TestMergeUnionsClasses(t *testing.T) {
	merged := Merge(
		Attrs{"class": "form-control", "name": "text", "placeholder": "hello"},
		Attrs{"class": []string{"foo", "bar", "form-control"}, "placeholder": "override"},
	)

	want := Attrs{
		"class":       []string{"form-control", "foo", "bar"},
		"name":        "text",
		"placeholder": "override",
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeDoesNotMutateDefaults(t *testing.T) {
	defaults := Attrs{"class": "a"}
	Merge(defaults, Attrs{"class": "b", "x": "y"})
	if diff := cmp.Diff(Attrs{"class": "a"}, defaults); diff != "" {
		t.Fatalf("defaults mutated (-want +got):\n%s", diff)
	}
}

func TestMergeClasses(t *testing.T) {
	got := MergeClasses("form-group is-required", nil, []string{"has-error", "form-group"}, "foo  bar")
	want := []string{"form-group", "is-required", "has-error", "foo", "bar"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestTags(t *testing.T) {
	if got := Tag("input", Attrs{"type": "text", "name": "a"}); got != `<input name="a" type="text"/>` {
		t.Fatalf("unexpected tag %s", got)
	}
	if got := Element("label", nil, "I agree"); got != `<label>I agree</label>` {
		t.Fatalf("unexpected element %s", got)
	}
	if got := Element("textarea", Attrs{"name": "t"}, ""); got != `<textarea name="t"></textarea>` {
		t.Fatalf("unexpected element %s", got)
	}
	if got := Open("div", Attrs{"class": []string{"form-group"}}); got != `<div class="form-group">` {
		t.Fatalf("unexpected open tag %s", got)
	}
}
