package model

import (
	"reflect"
	"strings"
)

// Kind names a FieldModel variant. Values match the dynamic forms model type
// constants so documents authored for that ecosystem decode unchanged.
type Kind string

const (
	KindCheckbox      Kind = "CHECKBOX"
	KindCheckboxGroup Kind = "CHECKBOX_GROUP"
	KindDatePicker    Kind = "DATEPICKER"
	KindEditor        Kind = "EDITOR"
	KindUpload        Kind = "FILE_UPLOAD"
	KindArray         Kind = "ARRAY"
	KindGroup         Kind = "GROUP"
	KindInput         Kind = "INPUT"
	KindRadioGroup    Kind = "RADIO_GROUP"
	KindSelect        Kind = "SELECT"
	KindSlider        Kind = "SLIDER"
	KindSwitch        Kind = "SWITCH"
	KindTextArea      Kind = "TEXTAREA"
	KindTimePicker    Kind = "TIMEPICKER"
)

var kinds = []Kind{
	KindCheckbox,
	KindCheckboxGroup,
	KindDatePicker,
	KindEditor,
	KindUpload,
	KindArray,
	KindGroup,
	KindInput,
	KindRadioGroup,
	KindSelect,
	KindSlider,
	KindSwitch,
	KindTextArea,
	KindTimePicker,
}

// Kinds returns every known variant kind in declaration order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// ParseKind matches raw case-insensitively against the known kinds.
func ParseKind(raw string) (Kind, bool) {
	normalised := Kind(strings.ToUpper(strings.TrimSpace(raw)))
	for _, kind := range kinds {
		if kind == normalised {
			return kind, true
		}
	}
	return "", false
}

// Input types with dedicated widgets.
const (
	InputTypeDate   = "date"
	InputTypeNumber = "number"
	InputTypeText   = "text"
)

// Validator names understood by the binding layer.
const (
	ValidatorRequired  = "required"
	ValidatorMin       = "min"
	ValidatorMax       = "max"
	ValidatorMinLength = "minLength"
	ValidatorMaxLength = "maxLength"
	ValidatorPattern   = "pattern"
)

// FieldModel is the closed set of form field variants. Implementations are
// the pointer types declared in this package; other types may embed Base to
// satisfy the interface but resolve to no widget.
type FieldModel interface {
	Kind() Kind
	Common() *Base
	isFieldModel()
}

// Base holds the attributes shared by every variant.
type Base struct {
	ID            string            `json:"id"`
	Label         string            `json:"label,omitempty"`
	Hint          string            `json:"hint,omitempty"`
	Disabled      bool              `json:"disabled,omitempty"`
	Value         any               `json:"value,omitempty"`
	Validators    map[string]any    `json:"validators,omitempty"`
	ErrorMessages map[string]string `json:"errorMessages,omitempty"`
	UIHints       map[string]string `json:"uiHints,omitempty"`
}

// Common returns the shared attributes.
func (b *Base) Common() *Base { return b }

func (*Base) isFieldModel() {}

// HasErrorMessaging reports whether validation messages are configured.
func (b *Base) HasErrorMessaging() bool {
	return b != nil && len(b.ErrorMessages) > 0
}

// UIHint returns a trimmed UI hint value, or "" when unset.
func (b *Base) UIHint(key string) string {
	if b == nil || b.UIHints == nil {
		return ""
	}
	return strings.TrimSpace(b.UIHints[key])
}

// SetUIHint stores a UI hint, allocating the map on first use.
func (b *Base) SetUIHint(key, value string) {
	if b.UIHints == nil {
		b.UIHints = make(map[string]string)
	}
	b.UIHints[key] = value
}

// Option is a selectable choice for RadioGroup and Select fields.
type Option struct {
	Label    string `json:"label,omitempty"`
	Value    any    `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Text returns the label, falling back to the value's string form.
func (o Option) Text() string {
	if o.Label != "" {
		return o.Label
	}
	return stringify(o.Value)
}

type Checkbox struct {
	Base
}

func (*Checkbox) Kind() Kind { return KindCheckbox }

type CheckboxGroup struct {
	Base
	Group []*Checkbox `json:"group,omitempty"`
}

func (*CheckboxGroup) Kind() Kind { return KindCheckboxGroup }

type DatePicker struct {
	Base
	Inline      bool   `json:"inline,omitempty"`
	Format      string `json:"format,omitempty"`
	Min         string `json:"min,omitempty"`
	Max         string `json:"max,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

func (*DatePicker) Kind() Kind { return KindDatePicker }

// Editor describes a rich text field. No widget renders it.
type Editor struct {
	Base
}

func (*Editor) Kind() Kind { return KindEditor }

type Upload struct {
	Base
	URL        string   `json:"url,omitempty"`
	Multiple   bool     `json:"multiple,omitempty"`
	Accept     []string `json:"accept,omitempty"`
	AutoUpload bool     `json:"autoUpload,omitempty"`
}

func (*Upload) Kind() Kind { return KindUpload }

// Array repeats its Group template for every item.
type Array struct {
	Base
	Group        []FieldModel `json:"group,omitempty"`
	InitialCount int          `json:"initialCount,omitempty"`
}

func (*Array) Kind() Kind { return KindArray }

type Group struct {
	Base
	Group []FieldModel `json:"group,omitempty"`
}

func (*Group) Kind() Kind { return KindGroup }

// Input is a single-line text field. List, Mask and InputType select between
// autocomplete, masked, date and numeric widgets, in that order.
type Input struct {
	Base
	InputType   string   `json:"inputType,omitempty"`
	List        []string `json:"list,omitempty"`
	Mask        string   `json:"mask,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	MaxLength   int      `json:"maxLength,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Step        *float64 `json:"step,omitempty"`
}

func (*Input) Kind() Kind { return KindInput }

type RadioGroup struct {
	Base
	Options []Option `json:"options,omitempty"`
}

func (*RadioGroup) Kind() Kind { return KindRadioGroup }

type Select struct {
	Base
	Multiple    bool     `json:"multiple,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

func (*Select) Kind() Kind { return KindSelect }

type Slider struct {
	Base
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Step     float64 `json:"step,omitempty"`
	Vertical bool    `json:"vertical,omitempty"`
}

func (*Slider) Kind() Kind { return KindSlider }

type Switch struct {
	Base
	OnLabel  string `json:"onLabel,omitempty"`
	OffLabel string `json:"offLabel,omitempty"`
}

func (*Switch) Kind() Kind { return KindSwitch }

type TextArea struct {
	Base
	Rows        int    `json:"rows,omitempty"`
	Cols        int    `json:"cols,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

func (*TextArea) Kind() Kind { return KindTextArea }

type TimePicker struct {
	Base
	Format      string `json:"format,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

func (*TimePicker) Kind() Kind { return KindTimePicker }

// Children returns the nested fields of container variants, or nil.
func Children(field FieldModel) []FieldModel {
	switch f := field.(type) {
	case *Group:
		if f != nil {
			return f.Group
		}
	case *Array:
		if f != nil {
			return f.Group
		}
	case *CheckboxGroup:
		if f == nil {
			return nil
		}
		out := make([]FieldModel, 0, len(f.Group))
		for _, member := range f.Group {
			if member != nil {
				out = append(out, member)
			}
		}
		return out
	}
	return nil
}

// SetPlaceholder updates the placeholder of variants that carry one and
// reports whether field accepted it.
func SetPlaceholder(field FieldModel, placeholder string) bool {
	if IsNil(field) {
		return false
	}
	switch f := field.(type) {
	case *Input:
		f.Placeholder = placeholder
	case *TextArea:
		f.Placeholder = placeholder
	case *DatePicker:
		f.Placeholder = placeholder
	case *TimePicker:
		f.Placeholder = placeholder
	case *Select:
		f.Placeholder = placeholder
	default:
		return false
	}
	return true
}

// IsNil reports whether field is a nil interface or a nil variant pointer.
// Callers must check it before calling Common on fields they did not build.
func IsNil(field FieldModel) bool {
	if field == nil {
		return true
	}
	v := reflect.ValueOf(field)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
