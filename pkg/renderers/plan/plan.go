// Package plan renders the widget resolution of a form as JSON. It is the
// cheapest way to see which Kendo control every field maps to.
package plan

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

// Name is the registry name of the plan renderer.
const Name = "plan"

// Entry is the resolution of one field. Widget is "none" for fields no
// widget renders.
type Entry struct {
	Path   string     `json:"path"`
	Kind   model.Kind `json:"kind"`
	Widget string     `json:"widget"`
}

type Option func(*Renderer)

// WithWidgetRegistry resolves widgets through registry instead of the
// built-in table.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(r *Renderer) {
		r.registry = registry
	}
}

// WithIndent pretty-prints the output with two-space indentation.
func WithIndent() Option {
	return func(r *Renderer) {
		r.indent = true
	}
}

// Renderer serialises Build output.
type Renderer struct {
	registry *widgets.Registry
	indent   bool
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string { return "application/json" }

// Render emits the plan as a JSON array. Render options do not affect the
// plan.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("plan: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := Build(form, r.registry)

	var (
		out []byte
		err error
	)
	if r.indent {
		out, err = json.MarshalIndent(entries, "", "  ")
	} else {
		out, err = json.Marshal(entries)
	}
	if err != nil {
		return nil, fmt.Errorf("plan: encode: %w", err)
	}
	return out, nil
}

// Build resolves every field of form depth-first. A nil registry uses
// widgets.Resolve. The result is never nil.
func Build(form model.FormModel, registry *widgets.Registry) []Entry {
	entries := []Entry{}
	model.Walk(form.Fields, func(path string, field model.FieldModel) bool {
		widget := widgets.Resolve(field)
		if registry != nil {
			widget, _ = registry.Resolve(field)
		}
		entries = append(entries, Entry{Path: path, Kind: field.Kind(), Widget: widget.String()})
		return true
	})
	return entries
}
