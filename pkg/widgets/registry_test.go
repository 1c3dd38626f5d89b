package widgets

import (
	"testing"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

func TestRegistry_ExplicitHintWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(WidgetSwitch, 100, func(model.FieldModel) bool { return true })

	field := &model.Checkbox{Base: model.Base{
		ID:      "agree",
		UIHints: map[string]string{HintKey: "Switch"},
	}}

	if got, ok := reg.Resolve(field); !ok || got != WidgetSwitch {
		t.Fatalf("expected explicit widget, got %q (ok=%v)", got, ok)
	}

	field.UIHints[HintKey] = "slider"
	if got, ok := reg.Resolve(field); !ok || got != WidgetSlider {
		t.Fatalf("hint should beat matcher, got %q (ok=%v)", got, ok)
	}
}

func TestRegistry_UnknownHintFallsThrough(t *testing.T) {
	reg := NewRegistry()
	field := &model.Checkbox{Base: model.Base{UIHints: map[string]string{HintKey: "color-wheel"}}}

	if got, ok := reg.Resolve(field); !ok || got != WidgetCheckbox {
		t.Fatalf("unknown hint should fall back to builtin, got %q (ok=%v)", got, ok)
	}
}

func TestRegistry_PriorityOrder(t *testing.T) {
	reg := NewRegistry()
	isInput := func(field model.FieldModel) bool { return field.Kind() == model.KindInput }
	reg.Register(WidgetTextArea, 10, isInput)
	reg.Register(WidgetAutoComplete, 50, isInput)
	reg.Register(WidgetDateInput, 50, isInput)

	got, ok := reg.Resolve(&model.Input{})
	if !ok || got != WidgetAutoComplete {
		t.Fatalf("highest priority, earliest registration should win, got %q", got)
	}
}

func TestRegistry_MatcherCanSuppress(t *testing.T) {
	reg := NewRegistry()
	reg.Register(WidgetNone, 1, func(field model.FieldModel) bool { return field.Kind() == model.KindUpload })

	if got, ok := reg.Resolve(&model.Upload{}); ok || got != WidgetNone {
		t.Fatalf("expected suppressed upload, got %q (ok=%v)", got, ok)
	}
}

func TestRegistry_FallsBackToResolve(t *testing.T) {
	var reg *Registry
	if got, ok := reg.Resolve(&model.Select{Multiple: true}); !ok || got != WidgetMultiSelect {
		t.Fatalf("nil registry should use builtin table, got %q", got)
	}
	if _, ok := NewRegistry().Resolve(&model.Editor{}); ok {
		t.Fatalf("editor should not resolve")
	}
	if _, ok := NewRegistry().Resolve(nil); ok {
		t.Fatalf("nil field should not resolve")
	}
}

func TestDecorator_AppliesWidgetHints(t *testing.T) {
	reg := NewRegistry()

	form := model.FormModel{
		Fields: []model.FieldModel{
			&model.Select{Base: model.Base{ID: "country"}},
			&model.Editor{Base: model.Base{ID: "body"}},
			&model.Group{Base: model.Base{ID: "address"}, Group: []model.FieldModel{
				&model.Input{Base: model.Base{ID: "zip"}, InputType: model.InputTypeNumber},
			}},
			&model.Input{Base: model.Base{ID: "custom", UIHints: map[string]string{HintKey: "textarea"}}},
		},
	}

	if err := reg.Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	expect := map[string]string{
		"country":     string(WidgetDropDownList),
		"body":        "",
		"address":     string(WidgetGroup),
		"address.zip": string(WidgetNumericTextBox),
		"custom":      "textarea",
	}
	for path, want := range expect {
		field, ok := form.Find(path)
		if !ok {
			t.Fatalf("field %q not found", path)
		}
		if got := field.Common().UIHint(HintKey); got != want {
			t.Fatalf("%s widget hint: want %q, got %q", path, want, got)
		}
	}
}

func TestRegistry_TypedNilFields(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(WidgetSwitch, 100, func(field model.FieldModel) bool {
		return field.Common().ID == "never"
	})

	if got, ok := reg.Resolve((*model.Input)(nil)); !ok || got != WidgetInput {
		t.Fatalf("expected Input for nil *Input, got %q (ok=%v)", got, ok)
	}
	if got, ok := reg.Resolve((*model.Editor)(nil)); ok || got != WidgetNone {
		t.Fatalf("expected None for nil *Editor, got %q (ok=%v)", got, ok)
	}

	kept := &model.Select{Base: model.Base{ID: "plan"}}
	form := &model.FormModel{Fields: []model.FieldModel{
		(*model.Input)(nil),
		&model.Group{Base: model.Base{ID: "g"}, Group: []model.FieldModel{(*model.Switch)(nil), kept}},
		nil,
	}}
	if err := reg.Decorate(form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if got := kept.UIHint(HintKey); got != string(WidgetDropDownList) {
		t.Fatalf("expected nested select to be decorated, got %q", got)
	}
}
