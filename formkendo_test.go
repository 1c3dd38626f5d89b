package formkendo_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	formkendo "github.com/goliatone/go-formgen-kendo"
	"github.com/goliatone/go-formgen-kendo/pkg/model"
	pkgopenapi "github.com/goliatone/go-formgen-kendo/pkg/openapi"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

func TestResolveWidget(t *testing.T) {
	t.Parallel()

	if got := formkendo.ResolveWidget(&model.Slider{}); got != widgets.WidgetSlider {
		t.Fatalf("want slider, got %s", got)
	}
	if got := formkendo.ResolveWidget(&model.Editor{}); got != widgets.WidgetNone {
		t.Fatalf("want none, got %s", got)
	}
}

func TestGenerateHTMLFromDocument(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"id":"contact","fields":[{"type":"TEXTAREA","id":"message","rows":4}]}`)
	out, err := formkendo.GenerateHTMLFromDocument(context.Background(), doc, "", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `<kendo-textarea`) {
		t.Fatalf("expected textarea widget:\n%s", out)
	}
}

func TestGenerateHTML_FromOpenAPISource(t *testing.T) {
	t.Parallel()

	src := pkgopenapi.SourceFromFile("pkg/openapi/testdata/profiles.json")
	out, err := formkendo.GenerateHTML(context.Background(), src, "createProfile", "plan")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `"widget":"maskedtextbox"`) {
		t.Fatalf("expected masked card field in plan: %s", out)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	t.Parallel()

	if _, err := fs.ReadFile(formkendo.EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("read form template: %v", err)
	}
	if formkendo.NewLoader() == nil || formkendo.NewOpenAPIBuilder() == nil {
		t.Fatalf("constructors returned nil")
	}
}
