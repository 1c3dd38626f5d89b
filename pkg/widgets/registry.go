package widgets

import (
	"sort"
	"sync"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

// HintKey is the UIHints entry carrying an explicit or resolved widget.
const HintKey = "widget"

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.FieldModel) bool

type rule struct {
	widget   WidgetType
	priority int
	match    Matcher
	order    int
}

// Registry layers explicit hints and custom matchers over Resolve. Higher
// priority matchers win; ties fall back to registration order. When nothing
// matches the built-in resolution table decides.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs an empty registry. Without matchers it behaves like
// Resolve apart from honouring explicit widget hints.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a matcher selecting widget. WidgetNone is a valid target and
// suppresses rendering of matching fields.
func (r *Registry) Register(widget WidgetType, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		widget:   widget,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget for a field. The boolean is false when the field
// resolves to WidgetNone.
func (r *Registry) Resolve(field model.FieldModel) (WidgetType, bool) {
	if field == nil {
		return WidgetNone, false
	}
	if explicit, ok := explicitWidget(field); ok {
		return explicit, true
	}
	if r != nil && !model.IsNil(field) {
		if widget, ok := r.match(field); ok {
			return widget, widget != WidgetNone
		}
	}
	widget := Resolve(field)
	return widget, widget != WidgetNone
}

func (r *Registry) match(field model.FieldModel) (WidgetType, bool) {
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return WidgetNone, false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.widget, true
		}
	}
	return WidgetNone, false
}

// Decorate implements model.Decorator, recording the resolved widget in each
// field's UIHints. Existing hints are preserved and fields resolving to
// WidgetNone are left untouched.
func (r *Registry) Decorate(form *model.FormModel) error {
	if form == nil {
		return nil
	}
	model.Walk(form.Fields, func(_ string, field model.FieldModel) bool {
		base := field.Common()
		if base.UIHint(HintKey) != "" {
			return true
		}
		if widget, ok := r.Resolve(field); ok {
			base.SetUIHint(HintKey, string(widget))
		}
		return true
	})
	return nil
}

func explicitWidget(field model.FieldModel) (WidgetType, bool) {
	if model.IsNil(field) {
		return WidgetNone, false
	}
	base := field.Common()
	return ParseWidgetType(base.UIHint(HintKey))
}
