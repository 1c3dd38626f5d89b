package widgets

import "github.com/goliatone/go-formgen-kendo/pkg/model"

// Resolve returns the widget that renders field. It is a pure function of the
// field's variant and attributes. Editor fields, nil fields and variants
// declared outside the model package resolve to WidgetNone.
//
// Input attributes are checked in fixed order: a non-empty List selects
// AutoComplete, then a Mask selects MaskedTextBox, then InputType "date" and
// "number" select DateInput and NumericTextBox. The first match wins.
func Resolve(field model.FieldModel) WidgetType {
	switch f := field.(type) {
	case *model.Checkbox:
		return WidgetCheckbox
	case *model.CheckboxGroup:
		return WidgetCheckboxGroup
	case *model.DatePicker:
		if f != nil && f.Inline {
			return WidgetCalendar
		}
		return WidgetDatePicker
	case *model.Editor:
		return WidgetNone
	case *model.Upload:
		return WidgetUpload
	case *model.Array:
		return WidgetArray
	case *model.Group:
		return WidgetGroup
	case *model.Input:
		return resolveInput(f)
	case *model.RadioGroup:
		return WidgetRadioGroup
	case *model.Select:
		if f != nil && f.Multiple {
			return WidgetMultiSelect
		}
		return WidgetDropDownList
	case *model.Slider:
		return WidgetSlider
	case *model.Switch:
		return WidgetSwitch
	case *model.TextArea:
		return WidgetTextArea
	case *model.TimePicker:
		return WidgetTimePicker
	default:
		return WidgetNone
	}
}

func resolveInput(input *model.Input) WidgetType {
	if input == nil {
		return WidgetInput
	}
	switch {
	case len(input.List) > 0:
		return WidgetAutoComplete
	case input.Mask != "":
		return WidgetMaskedTextBox
	case input.InputType == model.InputTypeDate:
		return WidgetDateInput
	case input.InputType == model.InputTypeNumber:
		return WidgetNumericTextBox
	default:
		return WidgetInput
	}
}
