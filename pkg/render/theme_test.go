package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formgen-kendo/pkg/render"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":       "#123456",
			"font.family": "Inter",
		},
		Templates: map[string]string{
			"forms.form": "themes/acme/form.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"kendo.stylesheet": "theme.css",
				"kendo.cdn":        "https://cdn.example.com/kendo.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"brand": "#654321"},
				Templates: map[string]string{
					"forms.field": "themes/acme/dark/field.tmpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{"kendo.stylesheet": "theme.dark.css"},
				},
			},
		},
	}
}

func TestThemeConfigFromSelection(t *testing.T) {
	t.Parallel()

	selector, err := render.NewManifestSelector(acmeManifest())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	selection, err := selector.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	cfg := render.ThemeConfigFromSelection(selection, render.DefaultPartials())
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme identity: %s/%s", cfg.Theme, cfg.Variant)
	}

	wantVars := map[string]string{"--brand": "#654321", "--font-family": "Inter"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	wantPartials := map[string]string{
		render.PartialForm:  "themes/acme/form.tmpl",
		render.PartialField: "themes/acme/dark/field.tmpl",
	}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("kendo.stylesheet"); got != "/assets/themes/acme/theme.dark.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("kendo.cdn"); got != "https://cdn.example.com/kendo.css" {
		t.Fatalf("absolute asset should pass through, got %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("missing asset should be empty, got %q", got)
	}
	if style := render.CSSVarsStyle(cfg.CSSVars); style != "--brand: #654321; --font-family: Inter;" {
		t.Fatalf("unexpected style %q", style)
	}
	if render.ThemeConfigFromSelection(nil, nil) != nil {
		t.Fatalf("nil selection should produce nil config")
	}
}

func TestManifestSelector(t *testing.T) {
	t.Parallel()

	selector, err := render.NewManifestSelector(acmeManifest())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	selector.WithDefaults("acme", "dark")

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("default select: %v", err)
	}
	if selection.Theme != "acme" || selection.Variant != "dark" {
		t.Fatalf("defaults not applied: %+v", selection)
	}
	if _, err := selector.Select("acme", "sepia"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if _, err := selector.Select("zen", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
	if err := selector.Add(acmeManifest()); err == nil {
		t.Fatalf("expected duplicate manifest error")
	}
}
