package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

var (
	// ErrOperationNotFound is returned when the requested operation id does
	// not exist in the document.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrEmptyDocument is returned for empty payloads.
	ErrEmptyDocument = errors.New("openapi: document payload is empty")
)

var defaultMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithValidation toggles kin-openapi document validation before mapping.
// Enabled by default.
func WithValidation(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.validate = enabled
	}
}

// WithMediaTypes sets the request body media types checked, in order. The
// first media type present on the operation wins; when none match the first
// declared content entry is used.
func WithMediaTypes(mediaTypes ...string) BuilderOption {
	return func(b *Builder) {
		if len(mediaTypes) > 0 {
			b.mediaTypes = append([]string(nil), mediaTypes...)
		}
	}
}

// WithExternalRefs allows $ref pointers to other documents.
func WithExternalRefs(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.externalRefs = enabled
	}
}

// Builder maps OpenAPI operations to form models.
type Builder struct {
	validate     bool
	externalRefs bool
	mediaTypes   []string
}

// NewBuilder constructs a Builder.
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{
		validate:   true,
		mediaTypes: defaultMediaTypes,
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// OperationInfo summarises an operation for listings.
type OperationInfo struct {
	ID      string `json:"id"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
}

// Operations lists every operation in the document sorted by id. Operations
// without an operationId are keyed as `method:path`.
func (b *Builder) Operations(ctx context.Context, data []byte) ([]OperationInfo, error) {
	spec, err := b.load(ctx, data)
	if err != nil {
		return nil, err
	}
	var out []OperationInfo
	eachOperation(spec, func(id, method, path string, op *openapi3.Operation) {
		out = append(out, OperationInfo{ID: id, Method: method, Path: path, Summary: op.Summary})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Build maps the request body of operationID to a form model.
func (b *Builder) Build(ctx context.Context, data []byte, operationID string) (model.FormModel, error) {
	spec, err := b.load(ctx, data)
	if err != nil {
		return model.FormModel{}, err
	}

	var (
		found  *openapi3.Operation
		method string
		path   string
	)
	eachOperation(spec, func(id, m, p string, op *openapi3.Operation) {
		if found == nil && (id == operationID || operationKey(m, p) == operationID) {
			found, method, path = op, m, p
		}
	})
	if found == nil {
		return model.FormModel{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	form := model.FormModel{
		ID:          operationID,
		Title:       found.Summary,
		Description: found.Description,
		Metadata: map[string]string{
			"method": method,
			"path":   path,
		},
	}

	body := b.requestSchema(found.RequestBody)
	if body == nil {
		return form, nil
	}
	m := &mapper{visiting: map[*openapi3.Schema]bool{}}
	form.Fields = m.properties(body)
	return form, nil
}

func (b *Builder) load(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: b.externalRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if b.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return spec, nil
}

func (b *Builder) requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil || len(body.Value.Content) == 0 {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range b.mediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

var methodOrder = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodHead,
	http.MethodOptions,
	http.MethodTrace,
}

func eachOperation(spec *openapi3.T, fn func(id, method, path string, op *openapi3.Operation)) {
	if spec == nil || spec.Paths == nil {
		return
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, method := range methodOrder {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = operationKey(method, path)
			}
			fn(id, method, path, op)
		}
	}
}

func operationKey(method, path string) string {
	return strings.ToLower(method) + ":" + path
}
