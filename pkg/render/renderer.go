package render

import (
	"context"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

// Renderer turns a FormModel into bytes (Kendo markup, JSON, terminal
// transcripts).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
