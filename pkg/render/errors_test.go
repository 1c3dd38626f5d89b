package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
)

func TestMapErrors_NormalisesPaths(t *testing.T) {
	t.Parallel()

	form := model.FormModel{
		Fields: []model.FieldModel{
			&model.Input{Base: model.Base{ID: "name"}},
			&model.Group{Base: model.Base{ID: "owner"}, Group: []model.FieldModel{
				&model.Input{Base: model.Base{ID: "email"}},
				&model.Input{Base: model.Base{ID: "phone"}},
			}},
			&model.Array{Base: model.Base{ID: "phones"}, Group: []model.FieldModel{
				&model.Input{Base: model.Base{ID: "number"}},
			}},
		},
	}

	payload := map[string][]string{
		"/body/name":                 {"Name is required", " Name is required "},
		"body.owner.email":           {"Email invalid"},
		"$.body.phones[0].number":    {"Number malformed"},
		"request.payload.owner":      {"Owner missing"},
		"non_field_errors":           {"Form level error"},
		"body/owner/phone/~1number":  {"Phone malformed"},
		"request/body/unknown-field": {"Should fall back to form errors"},
		"":                           {"Unscoped form error"},
		"owner.email":                {"   "},
	}

	mapped := render.MapErrors(form, payload)

	wantFields := map[string][]string{
		"name":          {"Name is required"},
		"owner.email":   {"Email invalid"},
		"phones.number": {"Number malformed"},
		"owner":         {"Owner missing"},
		"owner.phone":   {"Phone malformed"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	t.Parallel()

	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
