package render

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data renderers use without mutating the
// form model.
type RenderOptions struct {
	// Values pre-populates controls keyed by dotted field path. They take
	// precedence over the field's own Value.
	Values map[string]any
	// Errors surfaces server-side validation messages keyed by dotted field
	// path. See MapErrors for normalising external payloads.
	Errors map[string][]string
	// FormErrors are messages that belong to no single field.
	FormErrors []string
	// Hidden fields are emitted alongside the visible controls.
	Hidden []HiddenField
	// Theme is the resolved theme, or nil for unthemed output.
	Theme *theme.RendererConfig
}

// Value returns the prefill for path, falling back to fallback.
func (o RenderOptions) Value(path string, fallback any) any {
	if value, ok := o.Values[path]; ok {
		return value
	}
	return fallback
}

// HiddenField is a name/value pair rendered as a hidden input.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden builds a HiddenField, stringifying value.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}
