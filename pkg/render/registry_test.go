package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string      { return string(n) }
func (namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("plan"))
	reg.MustRegister(namedRenderer("kendo"))

	if err := reg.Register(namedRenderer("kendo")); !errors.Is(err, render.ErrDuplicateRenderer) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if err := reg.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}
	if _, err := reg.Get("vue"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, ok := reg.Lookup("plan"); !ok {
		t.Fatalf("expected plan to be registered")
	}
	if _, ok := reg.Lookup("vue"); ok {
		t.Fatalf("expected vue to be unknown")
	}
	if diff := cmp.Diff([]string{"kendo", "plan"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if first, ok := reg.First(); !ok || first.Name() != "plan" {
		t.Fatalf("expected first registered renderer to be plan, got %v (ok=%v)", first, ok)
	}
}

func TestRegistry_NamesAreCaseInsensitive(t *testing.T) {
	t.Parallel()

	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("Kendo"))

	renderer, err := reg.Get("  KENDO ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if renderer.Name() != "Kendo" {
		t.Fatalf("unexpected renderer %q", renderer.Name())
	}
	if err := reg.Register(namedRenderer("kendo")); !errors.Is(err, render.ErrDuplicateRenderer) {
		t.Fatalf("expected duplicate error for differently cased name, got %v", err)
	}
	if diff := cmp.Diff([]string{"kendo"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if _, ok := render.NewRegistry().First(); ok {
		t.Fatalf("expected empty registry to have no first renderer")
	}
}

func TestRenderOptions_Value(t *testing.T) {
	t.Parallel()

	opts := render.RenderOptions{Values: map[string]any{"address.city": "Paris"}}
	if got := opts.Value("address.city", "Berlin"); got != "Paris" {
		t.Fatalf("expected prefill, got %v", got)
	}
	if got := opts.Value("name", "Ada"); got != "Ada" {
		t.Fatalf("expected fallback, got %v", got)
	}
	if hidden := render.Hidden(" _csrf ", 42); hidden.Name != "_csrf" || hidden.Value != "42" {
		t.Fatalf("unexpected hidden field: %+v", hidden)
	}
}
