package uischema

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

// Decorator applies overlays to a form model.
type Decorator struct {
	store *Store
}

var _ model.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator backed by the provided store. When store is
// nil or empty, the decorator becomes a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate applies the overlay registered for form.ID. Forms without an
// overlay are left untouched; an overlay naming an unknown field or widget is
// an error.
func (d *Decorator) Decorate(form *model.FormModel) error {
	if d == nil || d.store.Empty() || form == nil {
		return nil
	}
	overlay, ok := d.store.Form(form.ID)
	if !ok {
		return nil
	}

	if overlay.Title != "" {
		form.Title = overlay.Title
	}
	if overlay.Description != "" {
		form.Description = overlay.Description
	}
	if len(overlay.Metadata) > 0 {
		if form.Metadata == nil {
			form.Metadata = make(map[string]string, len(overlay.Metadata))
		}
		for key, value := range overlay.Metadata {
			form.Metadata[key] = value
		}
	}

	paths := make([]string, 0, len(overlay.Fields))
	for path := range overlay.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		field, ok := form.Find(path)
		if !ok {
			return fmt.Errorf("uischema: form %q (file %s) field %q not found", overlay.ID, overlay.Source, path)
		}
		if err := applyField(field, overlay.Fields[path]); err != nil {
			return fmt.Errorf("uischema: form %q field %q: %w", overlay.ID, path, err)
		}
	}

	form.Fields = reorder(form.Fields, "", overlay.Fields)
	return nil
}

func applyField(field model.FieldModel, cfg FieldConfig) error {
	base := field.Common()
	if cfg.Label != "" {
		base.Label = cfg.Label
	}
	if cfg.Hint != "" {
		base.Hint = cfg.Hint
	}
	if cfg.Disabled != nil {
		base.Disabled = *cfg.Disabled
	}
	for key, value := range cfg.UIHints {
		base.SetUIHint(key, value)
	}
	if cfg.Widget != "" {
		widget, ok := widgets.ParseWidgetType(cfg.Widget)
		if !ok {
			return fmt.Errorf("unknown widget %q", cfg.Widget)
		}
		base.SetUIHint(widgets.HintKey, string(widget))
	}
	if cfg.Placeholder != "" && !model.SetPlaceholder(field, cfg.Placeholder) {
		return fmt.Errorf("%s fields have no placeholder", field.Kind())
	}
	return nil
}

// reorder stable-sorts siblings: fields with an order come first, ascending,
// followed by the rest in document order. Group and Array children are
// reordered in place.
func reorder(fields []model.FieldModel, prefix string, configs map[string]FieldConfig) []model.FieldModel {
	type ranked struct {
		field model.FieldModel
		order *int
	}
	items := make([]ranked, 0, len(fields))
	for _, field := range fields {
		if model.IsNil(field) {
			continue
		}
		path := model.JoinPath(prefix, field.Common().ID)
		switch f := field.(type) {
		case *model.Group:
			f.Group = reorder(f.Group, path, configs)
		case *model.Array:
			f.Group = reorder(f.Group, path, configs)
		}
		items = append(items, ranked{field: field, order: configs[path].Order})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].order, items[j].order
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})

	out := make([]model.FieldModel, len(items))
	for idx, item := range items {
		out[idx] = item.field
	}
	return out
}
