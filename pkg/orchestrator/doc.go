// Package orchestrator wires the loader, form builder, decorators, theme
// selection and renderer registry into a single Generate call. Requests carry
// a prebuilt form model, a form document, or an OpenAPI document plus an
// operation id.
package orchestrator
