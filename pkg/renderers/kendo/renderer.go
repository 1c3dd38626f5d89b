package kendo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	rendertemplate "github.com/goliatone/go-formgen-kendo/pkg/render/template"
	"github.com/goliatone/go-formgen-kendo/pkg/render/template/pongo"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

// Name is the registry name of the Kendo renderer.
const Name = "kendo"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *widgets.Registry
	groupName        string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithWidgetRegistry resolves widgets through registry instead of the
// built-in table.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

// WithFormGroupName sets the component property bound to [formGroup].
// Defaults to "form".
func WithFormGroupName(name string) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.groupName = name
		}
	}
}

// Renderer emits Angular reactive form markup built from Kendo UI
// components.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *widgets.Registry
	groupName string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the Kendo renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), groupName: "form"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
			pongo.WithSetName(Name),
		)
		if err != nil {
			return nil, fmt.Errorf("kendo renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, registry: cfg.registry, groupName: cfg.groupName}, nil
}

// stateEscaper keeps serialised state inert inside the script element: no
// closing tag and no interpolation opener. `{{` never occurs structurally in
// JSON, so the result stays valid.
var stateEscaper = strings.NewReplacer("</", `<\/`, "{{", `\u007b\u007b`)

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits one Kendo form field per resolvable field. Fields resolving to
// no widget, such as editors, are skipped along with their prefill values.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("kendo renderer: template renderer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	b := &builder{
		renderer: r,
		ctx:      ctx,
		form:     form,
		options:  options,
		partials: render.DefaultPartials(),
		values:   map[string]any{},
	}
	if options.Theme != nil {
		for key, value := range options.Theme.Partials {
			b.partials[key] = value
		}
	}

	fields, err := b.renderFields(form.Fields, scope{expr: r.groupName})
	if err != nil {
		return nil, err
	}

	state, err := json.Marshal(map[string]any{
		"values":     b.values,
		"errors":     nonNil(options.Errors),
		"formErrors": nonNilSlice(options.FormErrors),
	})
	if err != nil {
		return nil, fmt.Errorf("kendo renderer: encode state: %w", err)
	}

	hidden := make([]any, 0, len(options.Hidden))
	for _, field := range options.Hidden {
		if field.Name == "" {
			continue
		}
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	data := map[string]any{
		"form": map[string]any{
			"id":          form.ID,
			"domId":       domID(form.ID, ""),
			"group":       r.groupName,
			"title":       plainText(form.Title),
			"description": plainText(form.Description),
		},
		"fields":     fields,
		"hidden":     hidden,
		"formErrors": toAnySlice(options.FormErrors),
		"state":      stateEscaper.Replace(string(state)),
	}
	if cfg := options.Theme; cfg != nil {
		data["theme"] = cfg.Theme
		data["variant"] = cfg.Variant
		data["style"] = render.CSSVarsStyle(cfg.CSSVars)
		if cfg.AssetURL != nil {
			data["stylesheet"] = cfg.AssetURL(StylesheetAsset)
		}
	}

	out, err := r.templates.RenderTemplate(b.partial(render.PartialForm, "templates/form.tmpl"), data)
	if err != nil {
		return nil, fmt.Errorf("kendo renderer: render form: %w", err)
	}
	return []byte(out), nil
}

func nonNil(in map[string][]string) map[string][]string {
	if in == nil {
		return map[string][]string{}
	}
	return in
}

func nonNilSlice(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func toAnySlice(in []string) []any {
	out := make([]any, 0, len(in))
	for _, item := range in {
		out = append(out, item)
	}
	return out
}
