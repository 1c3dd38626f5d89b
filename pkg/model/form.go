package model

import (
	"fmt"
	"strconv"
)

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []FieldModel      `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// WalkFunc receives each field with its dotted path. Returning false skips
// the field's children.
type WalkFunc func(path string, field FieldModel) bool

// Walk visits fields depth-first. Container children are addressed as
// `parent.child`, including Array item templates. Nil fields, typed or not,
// are skipped.
func Walk(fields []FieldModel, fn WalkFunc) {
	walk(fields, "", fn)
}

func walk(fields []FieldModel, prefix string, fn WalkFunc) {
	for _, field := range fields {
		if IsNil(field) {
			continue
		}
		path := JoinPath(prefix, field.Common().ID)
		if !fn(path, field) {
			continue
		}
		if children := Children(field); len(children) > 0 {
			walk(children, path, fn)
		}
	}
}

// Find returns the field addressed by a dotted path.
func (f FormModel) Find(path string) (FieldModel, bool) {
	var found FieldModel
	Walk(f.Fields, func(candidate string, field FieldModel) bool {
		if found != nil {
			return false
		}
		if candidate == path {
			found = field
			return false
		}
		return true
	})
	return found, found != nil
}

// JoinPath appends segment to a dotted prefix.
func JoinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
