package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

// Transformer mutates a FormModel before decorators run. Implementations can
// rename fields, relabel them, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Fields are addressed by dotted path:
//
//	{
//	  "title": "Edit profile",
//	  "metadata": {"source": "preset"},
//	  "fields": {
//	    "contact.email": {"label": "Work email", "validators": {"required": true}},
//	    "tags": {"uiHints": {"widget": "multiselect"}}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Metadata    map[string]string         `json:"metadata"`
	Fields      map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label         string            `json:"label"`
	Hint          string            `json:"hint"`
	Placeholder   string            `json:"placeholder"`
	Rename        string            `json:"rename"`
	Disabled      *bool             `json:"disabled"`
	Value         any               `json:"value"`
	Validators    map[string]any    `json:"validators"`
	ErrorMessages map[string]string `json:"errorMessages"`
	UIHints       map[string]string `json:"uiHints"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied form. Every
// path is resolved before any patch is applied so a rename cannot hide a
// sibling patch.
func (t *JSONPresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("json preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		form.Title = t.document.Title
	}
	if t.document.Description != "" {
		form.Description = t.document.Description
	}
	if len(t.document.Metadata) > 0 {
		form.Metadata = mergeStringMap(form.Metadata, t.document.Metadata)
	}

	targets := make(map[string]model.FieldModel, len(t.document.Fields))
	for path := range t.document.Fields {
		field, ok := form.Find(strings.TrimSpace(path))
		if !ok {
			return fmt.Errorf("json preset transformer: field %q not found", path)
		}
		targets[path] = field
	}
	for path, patch := range t.document.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		applyFieldPatch(targets[path], patch)
	}
	return nil
}

// JavaScriptRunner defines the contract for executing user-supplied JavaScript
// against a form model. Implementations may embed an interpreter (otto, goja)
// or delegate to an external process.
type JavaScriptRunner interface {
	Run(ctx context.Context, form *model.FormModel) error
}

// JavaScriptTransformer bridges the Transformer interface with a JavaScript
// execution environment supplied by callers.
type JavaScriptTransformer struct {
	runner JavaScriptRunner
}

// NewJavaScriptTransformer wraps the provided runner.
func NewJavaScriptTransformer(runner JavaScriptRunner) *JavaScriptTransformer {
	return &JavaScriptTransformer{runner: runner}
}

// Transform delegates to the configured JavaScript runner.
func (t *JavaScriptTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if t == nil || t.runner == nil {
		return errors.New("javascript transformer: runner is nil")
	}
	if form == nil {
		return errors.New("javascript transformer: form model is nil")
	}
	return t.runner.Run(ctx, form)
}

func applyFieldPatch(field model.FieldModel, patch jsonFieldPatch) {
	if model.IsNil(field) {
		return
	}
	base := field.Common()
	if patch.Label != "" {
		base.Label = patch.Label
	}
	if patch.Hint != "" {
		base.Hint = patch.Hint
	}
	if patch.Disabled != nil {
		base.Disabled = *patch.Disabled
	}
	if patch.Value != nil {
		base.Value = patch.Value
	}
	if len(patch.Validators) > 0 {
		if base.Validators == nil {
			base.Validators = make(map[string]any, len(patch.Validators))
		}
		for key, value := range patch.Validators {
			if value == nil {
				delete(base.Validators, key)
				continue
			}
			base.Validators[key] = value
		}
	}
	if len(patch.ErrorMessages) > 0 {
		base.ErrorMessages = mergeStringMap(base.ErrorMessages, patch.ErrorMessages)
	}
	if len(patch.UIHints) > 0 {
		base.UIHints = mergeStringMap(base.UIHints, patch.UIHints)
	}
	if patch.Placeholder != "" {
		model.SetPlaceholder(field, patch.Placeholder)
	}
	if rename := strings.TrimSpace(patch.Rename); rename != "" {
		base.ID = rename
	}
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
