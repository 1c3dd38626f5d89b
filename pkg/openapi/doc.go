// Package openapi builds model.FormModel values from OpenAPI 3 operations.
//
// Documents are fetched through a Loader (file, fs.FS or HTTP sources) and
// parsed with kin-openapi. The request body schema of the selected operation
// is mapped property by property onto field model variants; `x-formgen-*`
// extensions refine the choice (widget overrides, masks, suggestion lists,
// ordering, labels).
package openapi
