package uischema

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

func signupForm() model.FormModel {
	return model.FormModel{
		ID: "signup",
		Fields: []model.FieldModel{
			&model.Input{Base: model.Base{ID: "name"}},
			&model.Input{Base: model.Base{ID: "email"}},
			&model.Group{Base: model.Base{ID: "address"}, Group: []model.FieldModel{
				&model.Input{Base: model.Base{ID: "street"}},
				&model.Input{Base: model.Base{ID: "zip"}},
			}},
			&model.Switch{Base: model.Base{ID: "newsletter"}},
		},
	}
}

func ids(fields []model.FieldModel) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Common().ID)
	}
	return out
}

func mustStore(t *testing.T, files fstest.MapFS) *Store {
	t.Helper()
	store, err := LoadFS(files)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return store
}

func TestDecorator_AppliesOverlay(t *testing.T) {
	t.Parallel()

	store := mustStore(t, fstest.MapFS{
		"signup.yaml": {Data: []byte(`
forms:
  signup:
    title: Create your account
    metadata:
      layout: compact
    fields:
      email:
        order: 1
        label: Work email
        widget: AutoComplete
      newsletter:
        order: 2
        disabled: true
      address.zip:
        order: 1
        placeholder: "10115"
        uiHints:
          mask: "00000"
`)},
	})

	form := signupForm()
	if err := NewDecorator(store).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	if form.Title != "Create your account" || form.Metadata["layout"] != "compact" {
		t.Fatalf("form overlay missing: %q %v", form.Title, form.Metadata)
	}
	if diff := cmp.Diff([]string{"email", "newsletter", "name", "address"}, ids(form.Fields)); diff != "" {
		t.Fatalf("root order mismatch (-want +got):\n%s", diff)
	}
	address := form.Fields[3].(*model.Group)
	if diff := cmp.Diff([]string{"zip", "street"}, ids(address.Group)); diff != "" {
		t.Fatalf("group order mismatch (-want +got):\n%s", diff)
	}

	email := form.Fields[0].(*model.Input)
	if email.Label != "Work email" || email.UIHint(widgets.HintKey) != "autocomplete" {
		t.Fatalf("email overlay missing: %+v", email.Base)
	}
	if !form.Fields[1].Common().Disabled {
		t.Fatalf("newsletter should be disabled")
	}
	zip := address.Group[0].(*model.Input)
	if zip.Placeholder != "10115" || zip.UIHint("mask") != "00000" {
		t.Fatalf("zip overlay missing: %+v", zip)
	}
}

func TestDecorator_IgnoresOtherForms(t *testing.T) {
	t.Parallel()

	store := mustStore(t, fstest.MapFS{
		"other.json": {Data: []byte(`{"forms":{"other":{"title":"Other"}}}`)},
	})
	form := signupForm()
	if err := NewDecorator(store).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if form.Title != "" {
		t.Fatalf("unrelated overlay applied")
	}
	if err := NewDecorator(nil).Decorate(&form); err != nil {
		t.Fatalf("nil store should be a no-op: %v", err)
	}
}

func TestDecorator_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		overlay string
		substr  string
	}{
		{name: "unknown field", overlay: `{"forms":{"signup":{"fields":{"phone":{"label":"x"}}}}}`, substr: `field "phone" not found`},
		{name: "unknown widget", overlay: `{"forms":{"signup":{"fields":{"name":{"widget":"stars"}}}}}`, substr: `unknown widget "stars"`},
		{name: "placeholder on switch", overlay: `{"forms":{"signup":{"fields":{"newsletter":{"placeholder":"x"}}}}}`, substr: "SWITCH fields have no placeholder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := mustStore(t, fstest.MapFS{"overlay.json": {Data: []byte(tt.overlay)}})
			form := signupForm()
			err := NewDecorator(store).Decorate(&form)
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Fatalf("expected error containing %q, got %v", tt.substr, err)
			}
		})
	}
}
