package plan_test

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	"github.com/goliatone/go-formgen-kendo/pkg/renderers/plan"
	"github.com/goliatone/go-formgen-kendo/pkg/testsupport"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

func sampleForm() model.FormModel {
	return model.FormModel{
		ID: "profile",
		Fields: []model.FieldModel{
			&model.Input{Base: model.Base{ID: "name"}},
			&model.Input{Base: model.Base{ID: "card"}, Mask: "0000", List: []string{"a"}},
			&model.Editor{Base: model.Base{ID: "notes"}},
			&model.Group{Base: model.Base{ID: "address"}, Group: []model.FieldModel{
				&model.DatePicker{Base: model.Base{ID: "since"}, Inline: true},
			}},
			&model.Select{Base: model.Base{ID: "tags"}, Multiple: true},
		},
	}
}

func TestBuild_ResolvesEveryField(t *testing.T) {
	t.Parallel()

	want := []plan.Entry{
		{Path: "name", Kind: model.KindInput, Widget: "input"},
		{Path: "card", Kind: model.KindInput, Widget: "autocomplete"},
		{Path: "notes", Kind: model.KindEditor, Widget: "none"},
		{Path: "address", Kind: model.KindGroup, Widget: "group"},
		{Path: "address.since", Kind: model.KindDatePicker, Widget: "calendar"},
		{Path: "tags", Kind: model.KindSelect, Widget: "multiselect"},
	}
	if diff := cmp.Diff(want, plan.Build(sampleForm(), nil)); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
	if got := plan.Build(model.FormModel{}, nil); got == nil || len(got) != 0 {
		t.Fatalf("empty form should produce an empty, non-nil plan: %#v", got)
	}
}

func TestRenderer_RendersJSON(t *testing.T) {
	t.Parallel()

	registry := widgets.NewRegistry()
	registry.Register(widgets.WidgetTextArea, 1, func(field model.FieldModel) bool {
		return field.Common().ID == "name"
	})
	r := plan.New(plan.WithWidgetRegistry(registry), plan.WithIndent())
	if r.Name() != "plan" || r.ContentType() != "application/json" {
		t.Fatalf("unexpected metadata")
	}

	out, err := r.Render(context.Background(), sampleForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var entries []plan.Entry
	if err := json.Unmarshal(out, &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entries[0].Widget != "textarea" || entries[0].Kind != model.KindInput {
		t.Fatalf("registry override not applied: %+v", entries[0])
	}

	compact, err := plan.New().Render(context.Background(), model.FormModel{Fields: []model.FieldModel{
		&model.Switch{Base: model.Base{ID: "on"}},
	}}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(compact) != `[{"path":"on","kind":"SWITCH","widget":"switch"}]` {
		t.Fatalf("unexpected output %s", compact)
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := plan.New().Render(ctx, sampleForm(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestBuild_ProfileGolden(t *testing.T) {
	t.Parallel()

	form := testsupport.MustParseForm(t, "../../model/testdata/profile.json")
	testsupport.AssertGolden(t, "testdata/profile_plan.golden.json", plan.Build(form, nil))
}

func TestBuild_YAMLMatchesJSONGolden(t *testing.T) {
	t.Parallel()

	form := testsupport.MustParseForm(t, "../../model/testdata/profile.yaml")
	want := testsupport.MustLoadGolden[[]plan.Entry](t, "testdata/profile_plan.golden.json")
	if diff := testsupport.CompareGolden(want, plan.Build(form, nil)); diff != "" {
		t.Fatalf("yaml plan mismatch (-want +got):\n%s", diff)
	}
}
