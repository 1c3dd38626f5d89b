package widgets

import "strings"

// WidgetType names the Kendo UI control chosen to render a field.
type WidgetType string

// Built-in widget identifiers. WidgetNone is the zero value and means no
// widget renders the field.
const (
	WidgetNone           WidgetType = ""
	WidgetCheckbox       WidgetType = "checkbox"
	WidgetCheckboxGroup  WidgetType = "checkbox-group"
	WidgetDatePicker     WidgetType = "datepicker"
	WidgetCalendar       WidgetType = "calendar"
	WidgetUpload         WidgetType = "upload"
	WidgetArray          WidgetType = "array"
	WidgetGroup          WidgetType = "group"
	WidgetInput          WidgetType = "input"
	WidgetAutoComplete   WidgetType = "autocomplete"
	WidgetMaskedTextBox  WidgetType = "maskedtextbox"
	WidgetDateInput      WidgetType = "dateinput"
	WidgetNumericTextBox WidgetType = "numerictextbox"
	WidgetRadioGroup     WidgetType = "radio-group"
	WidgetDropDownList   WidgetType = "dropdownlist"
	WidgetMultiSelect    WidgetType = "multiselect"
	WidgetSlider         WidgetType = "slider"
	WidgetSwitch         WidgetType = "switch"
	WidgetTextArea       WidgetType = "textarea"
	WidgetTimePicker     WidgetType = "timepicker"
)

var widgetTypes = []WidgetType{
	WidgetCheckbox,
	WidgetCheckboxGroup,
	WidgetDatePicker,
	WidgetCalendar,
	WidgetUpload,
	WidgetArray,
	WidgetGroup,
	WidgetInput,
	WidgetAutoComplete,
	WidgetMaskedTextBox,
	WidgetDateInput,
	WidgetNumericTextBox,
	WidgetRadioGroup,
	WidgetDropDownList,
	WidgetMultiSelect,
	WidgetSlider,
	WidgetSwitch,
	WidgetTextArea,
	WidgetTimePicker,
}

// Types lists every widget other than WidgetNone.
func Types() []WidgetType {
	return append([]WidgetType(nil), widgetTypes...)
}

// ParseWidgetType matches raw case-insensitively against the built-in widgets.
// Unknown names yield WidgetNone and false.
func ParseWidgetType(raw string) (WidgetType, bool) {
	normalised := WidgetType(strings.ToLower(strings.TrimSpace(raw)))
	for _, widget := range widgetTypes {
		if widget == normalised {
			return widget, true
		}
	}
	return WidgetNone, false
}

// String implements fmt.Stringer. WidgetNone prints as "none".
func (w WidgetType) String() string {
	if w == WidgetNone {
		return "none"
	}
	return string(w)
}

// IsContainer reports whether the widget hosts nested fields.
func (w WidgetType) IsContainer() bool {
	return w == WidgetGroup || w == WidgetArray || w == WidgetCheckboxGroup
}
