package model

// Clone returns a copy of field whose Base maps and nested fields are not
// shared with the original. Unknown variants are returned as-is.
func Clone(field FieldModel) FieldModel {
	if IsNil(field) {
		return field
	}
	switch f := field.(type) {
	case *Checkbox:
		out := *f
		out.Base = cloneBase(f.Base)
		return &out
	case *CheckboxGroup:
		out := *f
		out.Base = cloneBase(f.Base)
		out.Group = make([]*Checkbox, 0, len(f.Group))
		for _, member := range f.Group {
			if member != nil {
				out.Group = append(out.Group, Clone(member).(*Checkbox))
			}
		}
		return &out
	case *DatePicker:
		out := *f
		out.Base = cloneBase(f.Base)
		return &out
	case *Editor:
		out := *f
		out.Base = cloneBase(f.Base)
		return &out
	case *Upload:
		out := *f
		out.Base = cloneBase(f.Base)
		out.Accept = append([]string(nil), f.Accept...)
		return &out
	case *Array:
		out := *f
		out.Base = cloneBase(f.Base)
		out.Group = CloneAll(f.Group)
		return &out
	case *Group:
		out := *f
		out.Base = cloneBase(f.Base)
		out.Group = CloneAll(f.Group)
		return &out
	case *Input:
		out := *f
		out.Base = cloneBase(f.Base)
		out.List = append([]string(nil), f.List...)
		return &out
	case *RadioGroup:
		out := *f
		out.Base = cloneBase(f.Base)
		out.Options = append([]Option(nil), f.Options...)
		return &out
	case *Select:
		out := *f
		out.Base = cloneBase(f.Base)
		out.Options = append([]Option(nil), f.Options...)
		return &out
	case *Slider:
		out := *f
		out.Base = cloneBase(f.Base)
		return &out
	case *Switch:
		out := *f
		out.Base = cloneBase(f.Base)
		return &out
	case *TextArea:
		out := *f
		out.Base = cloneBase(f.Base)
		return &out
	case *TimePicker:
		out := *f
		out.Base = cloneBase(f.Base)
		return &out
	}
	return field
}

// CloneAll clones every field in fields.
func CloneAll(fields []FieldModel) []FieldModel {
	if fields == nil {
		return nil
	}
	out := make([]FieldModel, 0, len(fields))
	for _, field := range fields {
		if field != nil {
			out = append(out, Clone(field))
		}
	}
	return out
}

func cloneBase(b Base) Base {
	out := b
	out.Validators = cloneMap(b.Validators)
	out.ErrorMessages = cloneMap(b.ErrorMessages)
	out.UIHints = cloneMap(b.UIHints)
	return out
}

func cloneMap[V any](in map[string]V) map[string]V {
	if in == nil {
		return nil
	}
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
