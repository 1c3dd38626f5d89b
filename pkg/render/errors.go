package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

// ErrorMapping splits an error payload into field messages keyed by dotted
// path and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

var wrapperSegments = map[string]bool{
	"body":       true,
	"request":    true,
	"payload":    true,
	"data":       true,
	"attributes": true,
}

// MapErrors normalises an error payload keyed by JSON pointer (`/body/name`),
// JSONPath (`$.owner.email`) or dotted paths onto the form's field paths.
// Array indexes are dropped and request wrapper segments are skipped. Keys
// that match no field become form-level messages.
func MapErrors(form model.FormModel, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	known := map[string]bool{}
	model.Walk(form.Fields, func(path string, _ model.FieldModel) bool {
		known[path] = true
		return true
	})

	for raw, messages := range payload {
		messages = dedupe(messages)
		if len(messages) == 0 {
			continue
		}
		path := resolveErrorPath(raw, known)
		if path == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = map[string][]string{}
		}
		mapping.Fields[path] = append(mapping.Fields[path], messages...)
	}
	mapping.Form = dedupe(mapping.Form)
	return mapping
}

// MergeFormErrors appends extras to existing, trimming and de-duplicating
// while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return dedupe(combined)
}

func dedupe(messages []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" || seen[message] {
			continue
		}
		seen[message] = true
		out = append(out, message)
	}
	return out
}

func resolveErrorPath(raw string, known map[string]bool) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return ""
	}

	segments := splitErrorPath(raw)
	for len(segments) > 0 && wrapperSegments[strings.ToLower(segments[0])] {
		segments = segments[1:]
	}

	filtered := segments[:0:0]
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		filtered = append(filtered, segment)
	}

	for end := len(filtered); end > 0; end-- {
		candidate := strings.Join(filtered[:end], ".")
		if known[candidate] {
			return candidate
		}
	}
	return ""
}

func splitErrorPath(raw string) []string {
	clean := strings.TrimLeft(strings.TrimSpace(raw), "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}
