// Package formkendo maps declarative form models onto Kendo UI for Angular
// widgets. The root package re-exports the common entry points; the pkg/
// tree holds the resolver, binding layer, builders and renderers.
package formkendo

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	pkgopenapi "github.com/goliatone/go-formgen-kendo/pkg/openapi"
	"github.com/goliatone/go-formgen-kendo/pkg/orchestrator"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// WidgetType aliases widgets.WidgetType.
type WidgetType = widgets.WidgetType

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// ResolveWidget returns the Kendo widget for field using the built-in table.
func ResolveWidget(field model.FieldModel) WidgetType {
	return widgets.Resolve(field)
}

// GenerateHTML loads the source, builds a form model (from the named OpenAPI
// operation, or from a form document when operationID is empty) and renders
// it with the named renderer.
func GenerateHTML(ctx context.Context, source pkgopenapi.Source, operationID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:      source,
		OperationID: operationID,
		Renderer:    rendererName,
	})
}

// GenerateHTMLFromDocument renders a form from raw document bytes, bypassing
// the loader stage.
func GenerateHTMLFromDocument(ctx context.Context, document []byte, operationID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document:    document,
		OperationID: operationID,
		Renderer:    rendererName,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}

// WithWidgetRegistry forwards a widget registry to the orchestrator.
func WithWidgetRegistry(registry *widgets.Registry) orchestrator.Option {
	return orchestrator.WithWidgetRegistry(registry)
}
