package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	prompts      []string
	defaults     []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	passPos      int
}

func (s *stubDriver) Ask(_ context.Context, prompt Prompt) (Answer, error) {
	s.prompts = append(s.prompts, prompt.Message)
	switch prompt.Kind {
	case PromptText:
		s.defaults = append(s.defaults, prompt.Default)
		text, err := next(s.inputs, &s.inputPos, "input")
		return Answer{Text: text}, err
	case PromptSecret:
		text, err := next(s.passwords, &s.passPos, "password")
		return Answer{Text: text}, err
	case PromptMultiline:
		text, err := next(s.textAreas, &s.textPos, "textarea")
		return Answer{Text: text}, err
	case PromptConfirm:
		yes, err := next(s.confirm, &s.confirmPos, "confirm")
		return Answer{Yes: yes}, err
	case PromptChoice:
		idx, err := next(s.selectIdx, &s.selectPos, "select")
		return Answer{Selected: []int{idx}}, err
	case PromptChoices:
		indices, err := next(s.multiIdx, &s.multiPos, "multiselect")
		return Answer{Selected: indices}, err
	}
	return Answer{}, fmt.Errorf("unexpected prompt kind %d", prompt.Kind)
}

func (s *stubDriver) Notify(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func next[T any](script []T, pos *int, kind string) (T, error) {
	var zero T
	if *pos >= len(script) {
		return zero, fmt.Errorf("no %s scripted", kind)
	}
	val := script[*pos]
	*pos++
	return val, nil
}

func decode(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output %s: %v", out, err)
	}
	return got
}

func TestRender_PromptsEveryWidget(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:    []string{"Ada", "42", "/tmp/a.png, /tmp/b.png"},
		selectIdx: []int{1},
		multiIdx:  [][]int{{0, 2}, {1}},
		confirm:   []bool{true, false},
		textAreas: []string{"Hello"},
		passwords: []string{"s3cret"},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := model.FormModel{
		ID: "profile",
		Fields: []model.FieldModel{
			&model.Input{Base: model.Base{ID: "name", Label: "Name"}},
			&model.Input{Base: model.Base{ID: "age"}, InputType: model.InputTypeNumber},
			&model.Select{Base: model.Base{ID: "country"}, Options: []model.Option{{Label: "Germany", Value: "de"}, {Label: "France", Value: "fr"}}},
			&model.Select{Base: model.Base{ID: "tags"}, Multiple: true, Options: []model.Option{{Value: "go"}, {Value: "js"}, {Value: "rust"}}},
			&model.Checkbox{Base: model.Base{ID: "terms"}},
			&model.Switch{Base: model.Base{ID: "newsletter"}},
			&model.TextArea{Base: model.Base{ID: "bio"}},
			&model.Editor{Base: model.Base{ID: "notes", Value: "kept"}},
			&model.Input{Base: model.Base{ID: "token", UIHints: map[string]string{"input": "password"}}},
			&model.Upload{Base: model.Base{ID: "files"}, Multiple: true},
			&model.CheckboxGroup{Base: model.Base{ID: "days"}, Group: []*model.Checkbox{
				{Base: model.Base{ID: "mon"}},
				{Base: model.Base{ID: "tue"}},
			}},
		},
	}

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"name":       "Ada",
		"age":        float64(42),
		"country":    "fr",
		"tags":       []any{"go", "rust"},
		"terms":      true,
		"newsletter": false,
		"bio":        "Hello",
		"notes":      "kept",
		"token":      "s3cret",
		"files":      []any{"/tmp/a.png", "/tmp/b.png"},
		"days":       map[string]any{"mon": false, "tue": true},
	}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if form.Fields[0].Common().Value != nil {
		t.Fatalf("render must not mutate the caller's form")
	}
	for _, prompt := range driver.prompts {
		if prompt == "notes" {
			t.Fatalf("editor fields have no widget and must not be prompted")
		}
	}
}

func TestRender_RepromptsUntilValid(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"", "abc", "-1", "10"}}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := model.FormModel{Fields: []model.FieldModel{
		&model.Input{
			Base: model.Base{
				ID:            "count",
				Label:         "Count",
				Validators:    map[string]any{model.ValidatorRequired: true, model.ValidatorMin: 0},
				ErrorMessages: map[string]string{model.ValidatorRequired: "Count is required"},
			},
			InputType: model.InputTypeNumber,
		},
	}}

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := decode(t, out)["count"]; got != float64(10) {
		t.Fatalf("expected 10, got %v", got)
	}

	want := []string{
		"! Count: Count is required",
		`! Count: "abc" is not a number`,
		"! Count: fails min validation",
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_TooManyAttempts(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"", ""}}
	r, _ := New(WithPromptDriver(driver), WithMaxAttempts(2))
	form := model.FormModel{Fields: []model.FieldModel{
		&model.Input{Base: model.Base{ID: "name", Validators: map[string]any{model.ValidatorRequired: true}}},
	}}

	_, err := r.Render(context.Background(), form, render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestRender_ArraysAndGroups(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:  []string{"Main St", "555-1", "555-2"},
		confirm: []bool{true, false},
	}
	r, _ := New(WithPromptDriver(driver), WithTheme(Theme{InfoPrefix: "# "}))

	form := model.FormModel{
		Title: "Contact",
		Fields: []model.FieldModel{
			&model.Group{Base: model.Base{ID: "address", Label: "Address"}, Group: []model.FieldModel{
				&model.Input{Base: model.Base{ID: "street"}},
			}},
			&model.Array{Base: model.Base{ID: "phones", Label: "Phones"}, InitialCount: 1, Group: []model.FieldModel{
				&model.Input{Base: model.Base{ID: "number"}},
			}},
		},
	}

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := map[string]any{
		"address": map[string]any{"street": "Main St"},
		"phones":  []any{map[string]any{"number": "555-1"}, map[string]any{"number": "555-2"}},
	}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"# Contact", "# Address", "# Phones #1"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_PrefillAndServerErrors(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"Grace", "555-9"}, confirm: []bool{false}}
	r, _ := New(WithPromptDriver(driver))

	form := model.FormModel{Fields: []model.FieldModel{
		&model.Input{Base: model.Base{ID: "name", Label: "Name"}},
		&model.Array{Base: model.Base{ID: "phones"}, Group: []model.FieldModel{
			&model.Input{Base: model.Base{ID: "number"}},
		}},
	}}

	_, err := r.Render(context.Background(), form, render.RenderOptions{
		Values: map[string]any{
			"name":   "Ada",
			"phones": []any{map[string]any{"number": "555-0"}},
		},
		Errors:     map[string][]string{"name": {"already taken"}},
		FormErrors: []string{"Please fix the errors below"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"Ada", "555-0"}, driver.defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{"Please fix the errors below", "Name: already taken", "phones #1"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_WidgetRegistrySuppressesFields(t *testing.T) {
	t.Parallel()

	registry := widgets.NewRegistry()
	registry.Register(widgets.WidgetNone, 1, func(field model.FieldModel) bool {
		return field.Common().ID == "internal"
	})
	driver := &stubDriver{inputs: []string{"visible"}}
	r, _ := New(WithPromptDriver(driver), WithWidgetRegistry(registry))

	form := model.FormModel{Fields: []model.FieldModel{
		&model.Input{Base: model.Base{ID: "internal"}},
		&model.Input{Base: model.Base{ID: "shown"}},
	}}
	if _, err := r.Render(context.Background(), form, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"shown"}, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_OutputFormats(t *testing.T) {
	t.Parallel()

	form := model.FormModel{Fields: []model.FieldModel{
		&model.Input{Base: model.Base{ID: "name"}},
		&model.Group{Base: model.Base{ID: "address"}, Group: []model.FieldModel{
			&model.Input{Base: model.Base{ID: "city"}},
		}},
	}}

	cases := []struct {
		format      OutputFormat
		contentType string
		want        string
	}{
		{OutputFormatFormURLEncoded, "application/x-www-form-urlencoded", "address.city=Paris&name=Ada"},
		{OutputFormatPrettyText, "text/plain; charset=utf-8", "address.city=Paris\nname=Ada\n"},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			t.Parallel()
			driver := &stubDriver{inputs: []string{"Ada", "Paris"}}
			r, _ := New(WithPromptDriver(driver), WithOutputFormat(tc.format))
			if r.ContentType() != tc.contentType {
				t.Fatalf("content type %q", r.ContentType())
			}
			out, err := r.Render(context.Background(), form, render.RenderOptions{})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if string(out) != tc.want {
				t.Fatalf("output %q, want %q", out, tc.want)
			}
		})
	}
}

func TestRender_SubmitTransformer(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{" Ada "}}
	r, _ := New(WithPromptDriver(driver), WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
		values["name"] = strings.TrimSpace(values["name"].(string))
		return values, nil
	}))
	form := model.FormModel{Fields: []model.FieldModel{&model.Input{Base: model.Base{ID: "name"}}}}

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != `{"name":"Ada"}` {
		t.Fatalf("unexpected output %s", out)
	}

	failing, _ := New(WithPromptDriver(&stubDriver{inputs: []string{"x"}}), WithSubmitTransformer(func(map[string]any) (map[string]any, error) {
		return nil, errors.New("boom")
	}))
	if _, err := failing.Render(context.Background(), form, render.RenderOptions{}); err == nil {
		t.Fatalf("expected transformer error")
	}
}

func TestRender_ContextAndDriverErrors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, _ := New(WithPromptDriver(&stubDriver{}))
	if _, err := r.Render(ctx, model.FormModel{}, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	form := model.FormModel{Fields: []model.FieldModel{&model.Input{Base: model.Base{ID: "name"}}}}
	if _, err := r.Render(context.Background(), form, render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error to surface")
	}
}

func TestSurveyDriver_InfoWritesToOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, _ := New(WithOutput(&buf))
	if err := r.driver.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("info: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if r.Name() != "tui" || r.ContentType() != "application/json" {
		t.Fatalf("unexpected metadata %s %s", r.Name(), r.ContentType())
	}
}

func TestSurveyDriver_ChoiceMapping(t *testing.T) {
	t.Parallel()

	options := []string{"Free", "Pro", "Team"}
	if diff := cmp.Diff([]string{"Team", "Free"}, pick(options, []int{2, -1, 0, 7})); diff != "" {
		t.Fatalf("pick mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2}, positions(options, []string{"Team", "Free", "Gold"})); diff != "" {
		t.Fatalf("positions mismatch (-want +got):\n%s", diff)
	}

	driver := NewSurveyDriver(&bytes.Buffer{})
	if _, err := driver.Ask(context.Background(), Prompt{Kind: PromptKind(99)}); err == nil {
		t.Fatalf("expected unsupported prompt kind error")
	}
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.Ask(cancelled, Prompt{Kind: PromptText}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
