// Package lint reports form document problems the loader accepts but the
// renderers cannot act on.
package lint

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

// Violation is one finding, addressed by dotted field path.
type Violation struct {
	File    string
	Path    string
	Message string
}

func (v Violation) String() string {
	if v.File == "" {
		return fmt.Sprintf("%s -> %s", v.Path, v.Message)
	}
	return fmt.Sprintf("%s: %s -> %s", v.File, v.Path, v.Message)
}

var knownValidators = map[string]bool{
	model.ValidatorRequired:  true,
	model.ValidatorMin:       true,
	model.ValidatorMax:       true,
	model.ValidatorMinLength: true,
	model.ValidatorMaxLength: true,
	model.ValidatorPattern:   true,
}

// Form lints every field of form. A nil registry resolves with the built-in
// table. Violations are sorted by path then message.
func Form(form model.FormModel, registry *widgets.Registry) []Violation {
	var out []Violation
	add := func(path, format string, args ...any) {
		out = append(out, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	model.Walk(form.Fields, func(path string, field model.FieldModel) bool {
		base := field.Common()
		if hint := base.UIHint(widgets.HintKey); hint != "" {
			if _, ok := widgets.ParseWidgetType(hint); !ok {
				add(path, "unknown widget hint %q", hint)
			}
		}

		widget := widgets.Resolve(field)
		if registry != nil {
			widget, _ = registry.Resolve(field)
		}
		if widget == widgets.WidgetNone {
			add(path, "no widget renders %s fields", field.Kind())
		}

		for name := range base.Validators {
			if !knownValidators[name] {
				add(path, "unknown validator %q", name)
			}
		}
		for name := range base.ErrorMessages {
			if _, ok := base.Validators[name]; !ok {
				add(path, "error message %q has no matching validator", name)
			}
		}

		switch f := field.(type) {
		case *model.Select:
			if len(f.Options) == 0 {
				add(path, "select has no options")
			}
		case *model.RadioGroup:
			if len(f.Options) == 0 {
				add(path, "radio group has no options")
			}
		case *model.Slider:
			if f.Min >= f.Max {
				add(path, "slider min %v is not below max %v", f.Min, f.Max)
			}
		case *model.Group, *model.Array, *model.CheckboxGroup:
			if len(model.Children(field)) == 0 {
				add(path, "%s has no children", field.Kind())
			}
		}
		return true
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Message < out[j].Message
		}
		return out[i].Path < out[j].Path
	})
	return out
}
