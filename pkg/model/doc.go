// Package model defines the typed form model consumed by the widget resolver,
// the binding layer and renderers. A form is a tree of FieldModel values; each
// FieldModel is one of a closed set of variants (Input, Select, DatePicker,
// ...) mirroring the dynamic form models a form builder produces. Variants
// share a Base carrying identity, label, value and validation metadata, while
// variant-specific attributes (Input.Mask, Select.Multiple, DatePicker.Inline)
// drive widget selection downstream.
//
// Form documents can be authored as JSON or YAML and decoded with Parse or
// LoadFS. The `type` key selects the variant using the dynamic forms constants
// (`INPUT`, `SELECT`, `DATEPICKER`, ...).
package model
