// Package template defines the template engine seam renderers depend on.
// The pongo subpackage provides the pongo2-backed implementation.
package template
