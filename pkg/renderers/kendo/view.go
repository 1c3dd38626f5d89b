package kendo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

// scope tracks the Angular FormGroup expression fields are addressed from.
// Array items open a new scope rooted at the loop variable.
type scope struct {
	expr   string
	prefix string
	path   string
	depth  int
}

func (s scope) relative(id string) string {
	return model.JoinPath(s.prefix, id)
}

type builder struct {
	renderer *Renderer
	ctx      context.Context
	form     model.FormModel
	options  render.RenderOptions
	partials map[string]string
	values   map[string]any
}

func (b *builder) partial(key, fallback string) string {
	if tmpl := strings.TrimSpace(b.partials[key]); tmpl != "" {
		return tmpl
	}
	return fallback
}

func (b *builder) resolve(field model.FieldModel) widgets.WidgetType {
	if b.renderer.registry != nil {
		widget, _ := b.renderer.registry.Resolve(field)
		return widget
	}
	return widgets.Resolve(field)
}

func (b *builder) renderFields(fields []model.FieldModel, sc scope) (string, error) {
	var out strings.Builder
	for _, field := range fields {
		if model.IsNil(field) {
			continue
		}
		html, err := b.renderField(field, sc)
		if err != nil {
			return "", err
		}
		out.WriteString(html)
	}
	return out.String(), nil
}

func (b *builder) renderField(field model.FieldModel, sc scope) (string, error) {
	if err := b.ctx.Err(); err != nil {
		return "", err
	}
	if model.IsNil(field) {
		return "", nil
	}
	widget := b.resolve(field)
	if widget == widgets.WidgetNone {
		return "", nil
	}

	base := field.Common()
	rel := sc.relative(base.ID)
	path := model.JoinPath(sc.path, base.ID)
	view := b.baseView(field, widget, path, rel, sc)

	data := map[string]any{"field": view}
	switch f := field.(type) {
	case *model.Group:
		children, err := b.renderFields(f.Group, scope{expr: sc.expr, prefix: rel, path: path, depth: sc.depth})
		if err != nil {
			return "", err
		}
		data["children"] = children
	case *model.Array:
		itemVar := "item" + strconv.Itoa(sc.depth)
		view["itemVar"] = itemVar
		view["indexVar"] = "i" + strconv.Itoa(sc.depth)
		view["controlsExpr"] = fmt.Sprintf("$any(%s.get('%s'))?.controls", sc.expr, jsString(rel))
		view["initialCount"] = strconv.Itoa(f.InitialCount)
		children, err := b.renderFields(f.Group, scope{expr: itemVar, path: path, depth: sc.depth + 1})
		if err != nil {
			return "", err
		}
		data["children"] = children
	case *model.CheckboxGroup:
		items := make([]any, 0, len(f.Group))
		for _, member := range f.Group {
			if member == nil {
				continue
			}
			memberPath := model.JoinPath(path, member.ID)
			b.recordValue(memberPath, member.Value)
			items = append(items, map[string]any{
				"id":    member.ID,
				"domId": domID(b.form.ID, memberPath),
				"label": plainText(labelOf(&member.Base)),
			})
		}
		view["items"] = items
	default:
		b.recordValue(path, base.Value)
		b.variantView(field, view)
	}

	control, err := b.renderer.templates.RenderTemplate(
		b.partial(render.PartialWidgetPrefix+string(widget), "templates/widgets/"+string(widget)+".tmpl"),
		data,
	)
	if err != nil {
		return "", fmt.Errorf("kendo renderer: render %s widget for %q: %w", widget, path, err)
	}
	if widget.IsContainer() {
		return control, nil
	}

	wrapped, err := b.renderer.templates.RenderTemplate(
		b.partial(render.PartialField, "templates/field.tmpl"),
		map[string]any{"field": view, "control": control},
	)
	if err != nil {
		return "", fmt.Errorf("kendo renderer: render field %q: %w", path, err)
	}
	return wrapped, nil
}

func (b *builder) baseView(field model.FieldModel, widget widgets.WidgetType, path, rel string, sc scope) map[string]any {
	base := field.Common()
	_, required := base.Validators[model.ValidatorRequired]
	return map[string]any{
		"id":       base.ID,
		"path":     path,
		"domId":    domID(b.form.ID, path),
		"ref":      refName(path),
		"widget":   string(widget),
		"label":    plainText(labelOf(base)),
		"hint":     hintMarkup(base.Hint),
		"required": required && base.Validators[model.ValidatorRequired] != false,
		"disabled": base.Disabled,
		"messages": validationMessages(base, sc.expr, rel),
		"errors":   toAnySlice(b.options.Errors[path]),
	}
}

func (b *builder) variantView(field model.FieldModel, view map[string]any) {
	switch f := field.(type) {
	case *model.Input:
		view["placeholder"] = f.Placeholder
		view["mask"] = f.Mask
		view["maxLength"] = intAttr(f.MaxLength)
		view["min"] = floatPtrAttr(f.Min)
		view["max"] = floatPtrAttr(f.Max)
		view["step"] = floatPtrAttr(f.Step)
		view["dataJSON"] = jsonAttr(f.List)
	case *model.TextArea:
		view["placeholder"] = f.Placeholder
		view["rows"] = intAttr(f.Rows)
		view["cols"] = intAttr(f.Cols)
		view["maxLength"] = intAttr(f.MaxLength)
	case *model.DatePicker:
		view["placeholder"] = f.Placeholder
		view["format"] = f.Format
		view["min"] = f.Min
		view["max"] = f.Max
	case *model.TimePicker:
		view["placeholder"] = f.Placeholder
		view["format"] = f.Format
	case *model.Select:
		view["placeholder"] = plainText(f.Placeholder)
		view["dataJSON"] = jsonAttr(optionData(f.Options))
		view["defaultItemJSON"] = jsonAttr(map[string]any{"text": plainText(f.Placeholder), "value": nil})
	case *model.RadioGroup:
		options := make([]any, 0, len(f.Options))
		for _, option := range f.Options {
			options = append(options, map[string]any{
				"text":      plainText(option.Text()),
				"valueJSON": jsonAttr(option.Value),
				"disabled":  option.Disabled,
			})
		}
		view["options"] = options
	case *model.Slider:
		view["min"] = formatFloat(f.Min)
		view["max"] = formatFloat(f.Max)
		step := f.Step
		if step == 0 {
			step = 1
		}
		view["step"] = formatFloat(step)
		view["vertical"] = f.Vertical
	case *model.Switch:
		view["onLabel"] = plainText(f.OnLabel)
		view["offLabel"] = plainText(f.OffLabel)
	case *model.Upload:
		view["url"] = f.URL
		view["multiple"] = strconv.FormatBool(f.Multiple)
		view["autoUpload"] = strconv.FormatBool(f.AutoUpload)
		view["accept"] = strings.Join(f.Accept, ",")
	}
}

// recordValue adds the prefill for path to the serialised form state.
func (b *builder) recordValue(path string, fallback any) {
	if value := b.options.Value(path, fallback); value != nil {
		b.values[path] = value
	}
}

func labelOf(base *model.Base) string {
	if base.Label != "" {
		return base.Label
	}
	return base.ID
}

// angularErrorKeys maps validator names to the keys Angular's built-in
// validators report.
var angularErrorKeys = map[string]string{
	model.ValidatorRequired:  "required",
	model.ValidatorMin:       "min",
	model.ValidatorMax:       "max",
	model.ValidatorMinLength: "minlength",
	model.ValidatorMaxLength: "maxlength",
	model.ValidatorPattern:   "pattern",
}

var messageOrder = []string{
	model.ValidatorRequired,
	model.ValidatorMinLength,
	model.ValidatorMaxLength,
	model.ValidatorMin,
	model.ValidatorMax,
	model.ValidatorPattern,
}

// validationMessages returns the configured error messages in a stable
// order, each guarded by the matching Angular error key.
func validationMessages(base *model.Base, expr, rel string) []any {
	if !base.HasErrorMessaging() {
		return nil
	}
	keys := make([]string, 0, len(base.ErrorMessages))
	seen := map[string]bool{}
	for _, key := range messageOrder {
		if _, ok := base.ErrorMessages[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range base.ErrorMessages {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	out := make([]any, 0, len(keys))
	for _, key := range keys {
		text := plainText(base.ErrorMessages[key])
		if text == "" {
			continue
		}
		errorKey, ok := angularErrorKeys[key]
		if !ok {
			errorKey = key
		}
		out = append(out, map[string]any{
			"key":       key,
			"text":      text,
			"condition": fmt.Sprintf("%s.get('%s')?.errors?.['%s']", expr, jsString(rel), jsString(errorKey)),
		})
	}
	return out
}

func optionData(options []model.Option) []map[string]any {
	out := make([]map[string]any, 0, len(options))
	for _, option := range options {
		out = append(out, map[string]any{"text": option.Text(), "value": option.Value})
	}
	return out
}

func jsonAttr(value any) string {
	if value == nil {
		return ""
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(raw)
}

func intAttr(value int) string {
	if value == 0 {
		return ""
	}
	return strconv.Itoa(value)
}

func floatPtrAttr(value *float64) string {
	if value == nil {
		return ""
	}
	return formatFloat(*value)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// domID joins the form id and a dotted path into a lowercase DOM id.
func domID(formID, path string) string {
	id := sanitizeIdent(formID, '-')
	if id == "" {
		id = "form"
	}
	if path == "" {
		return strings.ToLower(id)
	}
	return strings.ToLower(id + "-" + sanitizeIdent(path, '-'))
}

// refName turns a path into an Angular template reference variable.
func refName(path string) string {
	return "ctl_" + sanitizeIdent(path, '_')
}

func sanitizeIdent(raw string, sep rune) string {
	var out strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out.WriteRune(r)
		default:
			out.WriteRune(sep)
		}
	}
	return out.String()
}

// jsString escapes raw for a single-quoted Angular string literal.
func jsString(raw string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, "", "<", "", ">", "", "&", "", "{", `\u007b`, "}", `\u007d`)
	return replacer.Replace(raw)
}
