package formkendo

import (
	pkgopenapi "github.com/goliatone/go-formgen-kendo/pkg/openapi"
)

// NewLoader constructs a document loader.
func NewLoader(options ...pkgopenapi.LoaderOption) *pkgopenapi.Loader {
	return pkgopenapi.NewLoader(options...)
}

// NewOpenAPIBuilder constructs the builder mapping OpenAPI operations to form
// models.
func NewOpenAPIBuilder(options ...pkgopenapi.BuilderOption) *pkgopenapi.Builder {
	return pkgopenapi.NewBuilder(options...)
}
