package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"maps"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	pkgopenapi "github.com/goliatone/go-formgen-kendo/pkg/openapi"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	"github.com/goliatone/go-formgen-kendo/pkg/renderers/kendo"
	"github.com/goliatone/go-formgen-kendo/pkg/renderers/plan"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

const defaultRendererName = kendo.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects the loader used for Request.Source.
func WithLoader(loader *pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithOpenAPIBuilder injects the builder used when a request names an
// operation.
func WithOpenAPIBuilder(builder *pkgopenapi.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithWidgetRegistry resolves widgets through registry. The default
// renderers share it and every generated form is decorated with the
// resolved widget hints.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
	}
}

// WithSchemaTransformer registers a Transformer that can mutate form models
// after building but before decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that should run against the generated
// form model before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithThemeSelector resolves Request.ThemeName and ThemeVariant into the
// renderer's theme config.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks sets the partials used when a theme does not declare
// them. Defaults to render.DefaultPartials.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// Orchestrator coordinates the pipeline from a form document or OpenAPI
// operation to rendered output. It applies sensible defaults (kendo and
// plan renderers, embedded templates) while remaining open to dependency
// injection for advanced callers.
type Orchestrator struct {
	loader          *pkgopenapi.Loader
	builder         *pkgopenapi.Builder
	registry        *render.Registry
	widgets         *widgets.Registry
	defaultRenderer string
	decorators      []model.Decorator
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a form.
type Request struct {
	// Form is a prebuilt model. It takes precedence over Document and Source
	// and is cloned before decorators run.
	Form *model.FormModel

	// Document holds a raw form document (JSON or YAML), or an OpenAPI
	// document when OperationID is set.
	Document []byte

	// Source is loaded when Form and Document are empty.
	Source pkgopenapi.Source

	// OperationID selects which OpenAPI operation to render into a form.
	OperationID string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries prefilled values, server-side errors and hidden
	// fields renderers can surface.
	RenderOptions render.RenderOptions

	// ThemeName and ThemeVariant are passed to the theme selector.
	ThemeName    string
	ThemeVariant string
}

// Generate resolves the form, runs transformers and decorators, selects the
// theme and renderer, and returns the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.BuildForm(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, form, req)
}

// Render renders an already built form with the request's renderer, render
// options and theme. The form's source fields on req are ignored.
func (o *Orchestrator) Render(ctx context.Context, form model.FormModel, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Theme == nil {
		cfg, err := o.themeConfig(req)
		if err != nil {
			return nil, err
		}
		options.Theme = cfg
	}

	output, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// BuildForm resolves the request's form model and applies the transformer
// and decorators without rendering.
func (o *Orchestrator) BuildForm(ctx context.Context, req Request) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.FormModel{}, err
	}

	form, err := o.resolveForm(ctx, req)
	if err != nil {
		return model.FormModel{}, err
	}
	if err := o.applyTransformer(ctx, &form); err != nil {
		return model.FormModel{}, err
	}
	if err := o.applyDecorators(&form); err != nil {
		return model.FormModel{}, err
	}
	return form, nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Widgets exposes the widget registry, or nil when the built-in table is
// used.
func (o *Orchestrator) Widgets() *widgets.Registry {
	return o.widgets
}

func (o *Orchestrator) resolveForm(ctx context.Context, req Request) (model.FormModel, error) {
	if req.Form != nil {
		form := *req.Form
		form.Fields = model.CloneAll(req.Form.Fields)
		form.Metadata = maps.Clone(req.Form.Metadata)
		return form, nil
	}

	data := req.Document
	if len(data) == 0 {
		if req.Source == nil {
			return model.FormModel{}, errors.New("orchestrator: form, document or source is required")
		}
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: load document: %w", err)
		}
		data = loaded
	}

	if req.OperationID != "" {
		form, err := o.builder.Build(ctx, data, req.OperationID)
		if err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
		}
		return form, nil
	}

	form, err := model.Parse(data)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: parse form document: %w", err)
	}
	return form, nil
}

// Renderer returns the renderer registered under name. An empty name selects
// the default renderer, falling back to the first registered one.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, ok := o.registry.First()
	if !ok {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return renderer, nil
}

func (o *Orchestrator) themeConfig(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return render.ThemeConfigFromSelection(selection, o.themeFallbacks), nil
}

func (o *Orchestrator) applyDecorators(form *model.FormModel) error {
	if form == nil {
		return nil
	}
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	if o.widgets != nil {
		if err := o.widgets.Decorate(form); err != nil {
			return fmt.Errorf("orchestrator: decorate widgets: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.FormModel) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = pkgopenapi.NewLoader()
	}
	if o.builder == nil {
		o.builder = pkgopenapi.NewBuilder()
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = render.DefaultPartials()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := kendo.New(kendo.WithWidgetRegistry(o.widgets))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(plan.New(plan.WithWidgetRegistry(o.widgets)))
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
