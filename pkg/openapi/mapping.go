package openapi

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

// Extension keys recognised on schema properties.
const (
	ExtWidget      = "x-formgen-widget"
	ExtMask        = "x-formgen-mask"
	ExtList        = "x-formgen-list"
	ExtOrder       = "x-formgen-order"
	ExtLabel       = "x-formgen-label"
	ExtPlaceholder = "x-formgen-placeholder"
	ExtMessages    = "x-formgen-messages"
	ExtOptionLabel = "x-formgen-option-labels"
	ExtRows        = "x-formgen-rows"
	ExtUploadURL   = "x-formgen-upload-url"
	ExtAccept      = "x-formgen-accept"
)

const (
	typeString  = "string"
	typeInteger = "integer"
	typeNumber  = "number"
	typeBoolean = "boolean"
	typeObject  = "object"
	typeArray   = "array"
)

// textAreaThreshold is the maxLength above which strings render as text
// areas.
const textAreaThreshold = 255

type mapper struct {
	visiting map[*openapi3.Schema]bool
}

type namedProperty struct {
	name   string
	schema *openapi3.Schema
	order  int
	hasOrd bool
}

// properties maps the object properties of s, ordered by x-formgen-order
// first and by name after.
func (m *mapper) properties(s *openapi3.Schema) []model.FieldModel {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	if m.visiting[s] {
		return nil
	}
	m.visiting[s] = true
	defer delete(m.visiting, s)

	props := make([]namedProperty, 0, len(s.Properties))
	for name, ref := range s.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := namedProperty{name: name, schema: ref.Value}
		if order, ok := extFloat(ref.Value, ExtOrder); ok {
			prop.order, prop.hasOrd = int(order), true
		}
		props = append(props, prop)
	}
	sort.SliceStable(props, func(i, j int) bool {
		a, b := props[i], props[j]
		switch {
		case a.hasOrd && b.hasOrd && a.order != b.order:
			return a.order < b.order
		case a.hasOrd != b.hasOrd:
			return a.hasOrd
		default:
			return a.name < b.name
		}
	})

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	fields := make([]model.FieldModel, 0, len(props))
	for _, prop := range props {
		if m.visiting[prop.schema] {
			continue
		}
		field := m.field(prop.name, prop.schema, required[prop.name])
		if field != nil {
			fields = append(fields, field)
		}
	}
	return fields
}

func (m *mapper) field(name string, s *openapi3.Schema, required bool) model.FieldModel {
	base := m.base(name, s, required)
	widget := strings.ToLower(extString(s, ExtWidget))

	switch schemaType(s) {
	case typeBoolean:
		if widget == "checkbox" {
			return &model.Checkbox{Base: base}
		}
		return &model.Switch{Base: base}
	case typeInteger, typeNumber:
		return m.numeric(base, s, widget)
	case typeObject:
		return &model.Group{Base: base, Group: m.properties(s)}
	case typeArray:
		return m.array(base, s, widget)
	default:
		return m.str(base, s, widget)
	}
}

func (m *mapper) base(name string, s *openapi3.Schema, required bool) model.Base {
	base := model.Base{
		ID:       name,
		Label:    extString(s, ExtLabel),
		Hint:     s.Description,
		Disabled: s.ReadOnly,
		Value:    s.Default,
	}
	if base.Label == "" {
		base.Label = s.Title
	}
	if base.Label == "" {
		base.Label = humanize(name)
	}

	validators := map[string]any{}
	if required {
		validators[model.ValidatorRequired] = true
	}
	if s.MinLength > 0 {
		validators[model.ValidatorMinLength] = int(s.MinLength)
	}
	if s.MaxLength != nil {
		validators[model.ValidatorMaxLength] = int(*s.MaxLength)
	}
	if s.Min != nil {
		validators[model.ValidatorMin] = *s.Min
	}
	if s.Max != nil {
		validators[model.ValidatorMax] = *s.Max
	}
	if s.Pattern != "" {
		validators[model.ValidatorPattern] = s.Pattern
	}
	if len(validators) > 0 {
		base.Validators = validators
	}

	if raw, ok := s.Extensions[ExtMessages].(map[string]any); ok && len(raw) > 0 {
		base.ErrorMessages = make(map[string]string, len(raw))
		for key, value := range raw {
			base.ErrorMessages[key] = fmt.Sprint(value)
		}
	}
	return base
}

func (m *mapper) numeric(base model.Base, s *openapi3.Schema, widget string) model.FieldModel {
	step := 1.0
	if s.MultipleOf != nil && *s.MultipleOf > 0 {
		step = *s.MultipleOf
	} else if schemaType(s) == typeNumber {
		step = 0
	}

	if widget == "slider" && s.Min != nil && s.Max != nil {
		if step == 0 {
			step = 1
		}
		return &model.Slider{Base: base, Min: *s.Min, Max: *s.Max, Step: step}
	}

	input := &model.Input{
		Base:        base,
		InputType:   model.InputTypeNumber,
		Placeholder: extString(s, ExtPlaceholder),
		Min:         cloneFloat(s.Min),
		Max:         cloneFloat(s.Max),
	}
	if step > 0 {
		input.Step = &step
	}
	return input
}

func (m *mapper) array(base model.Base, s *openapi3.Schema, widget string) model.FieldModel {
	var items *openapi3.Schema
	if s.Items != nil {
		items = s.Items.Value
	}
	if items == nil {
		return &model.Input{Base: base, InputType: model.InputTypeText}
	}

	switch {
	case len(items.Enum) > 0 && widget == "checkbox-group":
		group := &model.CheckboxGroup{Base: base}
		labels := extStrings(s, ExtOptionLabel)
		for idx, value := range items.Enum {
			id := stringify(value)
			label := id
			if idx < len(labels) {
				label = labels[idx]
			}
			group.Group = append(group.Group, &model.Checkbox{Base: model.Base{ID: id, Label: label}})
		}
		return group
	case len(items.Enum) > 0:
		return &model.Select{
			Base:        base,
			Multiple:    true,
			Options:     options(items.Enum, extStrings(s, ExtOptionLabel)),
			Placeholder: extString(s, ExtPlaceholder),
		}
	case schemaType(items) == typeString && items.Format == "binary":
		upload := uploadFor(base, s)
		upload.Multiple = true
		return upload
	case schemaType(items) == typeObject:
		return &model.Array{
			Base:         base,
			Group:        m.properties(items),
			InitialCount: int(s.MinItems),
		}
	default:
		template := m.field("value", items, false)
		if template == nil {
			return nil
		}
		return &model.Array{
			Base:         base,
			Group:        []model.FieldModel{template},
			InitialCount: int(s.MinItems),
		}
	}
}

func (m *mapper) str(base model.Base, s *openapi3.Schema, widget string) model.FieldModel {
	placeholder := extString(s, ExtPlaceholder)

	switch {
	case widget == "editor":
		return &model.Editor{Base: base}
	case len(s.Enum) > 0 && widget == "radio":
		return &model.RadioGroup{Base: base, Options: options(s.Enum, extStrings(s, ExtOptionLabel))}
	case len(s.Enum) > 0:
		return &model.Select{Base: base, Options: options(s.Enum, extStrings(s, ExtOptionLabel)), Placeholder: placeholder}
	case s.Format == "date" || s.Format == "date-time":
		picker := &model.DatePicker{Base: base, Inline: widget == "calendar", Placeholder: placeholder}
		if s.Format == "date-time" {
			picker.Format = "yyyy-MM-ddTHH:mm"
		}
		return picker
	case s.Format == "time":
		return &model.TimePicker{Base: base, Placeholder: placeholder}
	case s.Format == "binary":
		return uploadFor(base, s)
	case extString(s, ExtMask) != "":
		return &model.Input{Base: base, InputType: model.InputTypeText, Mask: extString(s, ExtMask), Placeholder: placeholder, MaxLength: maxLength(s)}
	case widget == "textarea" || maxLength(s) > textAreaThreshold:
		area := &model.TextArea{Base: base, MaxLength: maxLength(s), Placeholder: placeholder}
		if rows, ok := extFloat(s, ExtRows); ok {
			area.Rows = int(rows)
		}
		return area
	case len(extStrings(s, ExtList)) > 0:
		return &model.Input{Base: base, InputType: model.InputTypeText, List: extStrings(s, ExtList), Placeholder: placeholder, MaxLength: maxLength(s)}
	default:
		return &model.Input{Base: base, InputType: model.InputTypeText, Placeholder: placeholder, MaxLength: maxLength(s)}
	}
}

func uploadFor(base model.Base, s *openapi3.Schema) *model.Upload {
	return &model.Upload{
		Base:       base,
		URL:        extString(s, ExtUploadURL),
		Accept:     accept(s),
		AutoUpload: extString(s, ExtUploadURL) != "",
	}
}

func accept(s *openapi3.Schema) []string {
	if list := extStrings(s, ExtAccept); len(list) > 0 {
		return list
	}
	raw := extString(s, ExtAccept)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func options(values []any, labels []string) []model.Option {
	out := make([]model.Option, 0, len(values))
	for idx, value := range values {
		opt := model.Option{Value: value}
		if idx < len(labels) {
			opt.Label = labels[idx]
		}
		out = append(out, opt)
	}
	return out
}

func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil {
		if s != nil && len(s.Properties) > 0 {
			return typeObject
		}
		return ""
	}
	for _, candidate := range s.Type.Slice() {
		if candidate != "null" {
			return candidate
		}
	}
	return ""
}

func maxLength(s *openapi3.Schema) int {
	if s.MaxLength == nil || *s.MaxLength > math.MaxInt32 {
		return 0
	}
	return int(*s.MaxLength)
}

func cloneFloat(in *float64) *float64 {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func extString(s *openapi3.Schema, key string) string {
	if s == nil {
		return ""
	}
	value, ok := s.Extensions[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func extStrings(s *openapi3.Schema, key string) []string {
	if s == nil {
		return nil
	}
	raw, ok := s.Extensions[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		out = append(out, stringify(value))
	}
	return out
}

func extFloat(s *openapi3.Schema, key string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	switch v := s.Extensions[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// humanize turns `first_name` or `firstName` into `First name`.
func humanize(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	for idx, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r) && idx > 0:
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	if len(words) == 0 {
		return name
	}
	out := strings.Join(words, " ")
	runes := []rune(out)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
