package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formgen-kendo/pkg/binding"
	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions. Every
// answer flows through a binding adapter, so the collected values obey the
// same validators the browser form does.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	registry          *widgets.Registry
	maxAttempts       int
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  5,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field with a widget, in declaration order, and
// serializes the bound form value.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	working := form
	working.Fields = model.CloneAll(form.Fields)
	bound, err := binding.NewForm(&working, binding.WithRegistry(r.registry))
	if err != nil {
		return nil, fmt.Errorf("tui: bind form: %w", err)
	}
	defer bound.Close()

	s := &session{renderer: r, ctx: ctx, form: bound, opts: opts}
	if title := strings.TrimSpace(working.Title); title != "" {
		if err := s.info(title); err != nil {
			return nil, err
		}
	}
	for _, message := range opts.FormErrors {
		if err := s.fail(message); err != nil {
			return nil, err
		}
	}
	if err := s.promptFields(working.Fields, "", ""); err != nil {
		return nil, err
	}

	values := bound.Value()
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

// session carries the state of a single Render call.
type session struct {
	renderer *Renderer
	ctx      context.Context
	form     *binding.Form
	opts     render.RenderOptions
}

// promptFields walks fields. modelPath addresses the field model (array
// items share their template path); bindPath addresses the bound control.
func (s *session) promptFields(fields []model.FieldModel, modelPrefix, bindPrefix string) error {
	for _, field := range fields {
		if model.IsNil(field) {
			continue
		}
		id := field.Common().ID
		modelPath := model.JoinPath(modelPrefix, id)
		bindPath := model.JoinPath(bindPrefix, id)

		var err error
		switch f := field.(type) {
		case *model.Group:
			if label := strings.TrimSpace(f.Label); label != "" {
				err = s.info(label)
			}
			if err == nil {
				err = s.promptFields(f.Group, modelPath, bindPath)
			}
		case *model.Array:
			err = s.promptArray(f, modelPath, bindPath)
		case *model.CheckboxGroup:
			err = s.promptCheckboxGroup(f, bindPath)
		default:
			adapter, ok := s.form.Adapter(bindPath)
			if !ok {
				continue
			}
			err = s.promptLeaf(adapter, modelPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *session) promptArray(field *model.Array, modelPath, bindPath string) error {
	node, ok := s.form.Root().Get(bindPath)
	if !ok {
		return nil
	}
	arr, ok := node.(*binding.Array)
	if !ok {
		return fmt.Errorf("tui: %s is not an array", bindPath)
	}
	if err := s.seedArray(arr, bindPath); err != nil {
		return err
	}

	label := labelOf(field.Common())
	for idx := 0; idx < arr.Len(); idx++ {
		if err := s.info(fmt.Sprintf("%s #%d", label, idx+1)); err != nil {
			return err
		}
		if err := s.promptFields(field.Group, modelPath, itemPath(bindPath, idx)); err != nil {
			return err
		}
	}

	for {
		reply, err := s.prompt(Prompt{
			Kind:    PromptConfirm,
			Message: s.renderer.theme.PromptPrefix + fmt.Sprintf("Add %s item?", label),
			Help:    field.Hint,
		})
		if err != nil {
			return err
		}
		if !reply.Yes {
			return nil
		}
		idx, err := s.form.AppendItem(bindPath)
		if err != nil {
			return fmt.Errorf("tui: append %s: %w", bindPath, err)
		}
		if err := s.promptFields(field.Group, modelPath, itemPath(bindPath, idx)); err != nil {
			return err
		}
	}
}

// seedArray grows arr to match a prefilled list and pushes item values into
// the bound controls.
func (s *session) seedArray(arr *binding.Array, bindPath string) error {
	items, ok := s.opts.Values[bindPath].([]any)
	if !ok {
		return nil
	}
	for arr.Len() < len(items) {
		if _, err := s.form.AppendItem(bindPath); err != nil {
			return fmt.Errorf("tui: append %s: %w", bindPath, err)
		}
	}
	for idx, item := range items {
		values, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for key, value := range values {
			if adapter, ok := s.form.Adapter(model.JoinPath(itemPath(bindPath, idx), key)); ok {
				adapter.PushValue(value)
			}
		}
	}
	return nil
}

func (s *session) promptCheckboxGroup(field *model.CheckboxGroup, bindPath string) error {
	var (
		options  []string
		adapters []*binding.Adapter
		defaults []int
	)
	for _, member := range field.Group {
		if member == nil {
			continue
		}
		adapter, ok := s.form.Adapter(model.JoinPath(bindPath, member.ID))
		if !ok || member.Disabled {
			continue
		}
		if value, ok := s.opts.Values[adapter.Path()]; ok {
			adapter.PushValue(value)
		}
		if truthy(adapter.Control().Value()) {
			defaults = append(defaults, len(options))
		}
		options = append(options, labelOf(&member.Base))
		adapters = append(adapters, adapter)
	}
	if len(options) == 0 {
		return nil
	}

	reply, err := s.prompt(Prompt{
		Kind:     PromptChoices,
		Message:  s.renderer.theme.PromptPrefix + labelOf(field.Common()),
		Help:     field.Hint,
		Options:  options,
		Selected: defaults,
	})
	if err != nil {
		return err
	}
	selected := map[int]bool{}
	for _, idx := range reply.Selected {
		selected[idx] = true
	}
	for idx, adapter := range adapters {
		adapter.OnValueChange(selected[idx])
		adapter.OnBlur()
	}
	return nil
}

func (s *session) promptLeaf(adapter *binding.Adapter, modelPath string) error {
	widget := adapter.Type()
	if widget == widgets.WidgetNone {
		return nil
	}
	base := adapter.Field().Common()
	if base.Disabled {
		return nil
	}
	if value, ok := s.opts.Values[adapter.Path()]; ok {
		adapter.PushValue(value)
	}

	label := labelOf(base)
	for _, message := range s.opts.Errors[modelPath] {
		if err := s.fail(label + ": " + message); err != nil {
			return err
		}
	}

	for attempt := 0; attempt < s.renderer.maxAttempts; attempt++ {
		adapter.OnFocus()
		value, err := s.ask(widget, adapter)
		if err != nil {
			var invalid *entryError
			if !errors.As(err, &invalid) {
				return err
			}
			if err := s.fail(label + ": " + invalid.Error()); err != nil {
				return err
			}
			continue
		}
		adapter.OnValueChange(value)
		adapter.OnBlur()
		if !adapter.IsInvalid() {
			return nil
		}
		for _, message := range failureMessages(adapter) {
			if err := s.fail(label + ": " + message); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, adapter.Path())
}

// entryError reports input that cannot be converted to the field's type.
type entryError struct {
	msg string
}

func (e *entryError) Error() string { return e.msg }

func (s *session) ask(widget widgets.WidgetType, adapter *binding.Adapter) (any, error) {
	field := adapter.Field()
	base := field.Common()
	current := adapter.Control().Value()
	question := Prompt{
		Kind:    PromptText,
		Message: s.renderer.theme.PromptPrefix + labelOf(base),
		Help:    base.Hint,
		Default: stringValue(current),
	}

	switch widget {
	case widgets.WidgetCheckbox, widgets.WidgetSwitch:
		question.Kind, question.Default, question.Yes = PromptConfirm, "", truthy(current)
		reply, err := s.prompt(question)
		return reply.Yes, err

	case widgets.WidgetDropDownList, widgets.WidgetRadioGroup, widgets.WidgetMultiSelect:
		options := optionsOf(field)
		if len(options) == 0 {
			break
		}
		question.Default = ""
		question.Options = optionTexts(options)
		if widget == widgets.WidgetMultiSelect {
			question.Kind = PromptChoices
			question.Selected = indicesOfValues(options, current)
		} else {
			question.Kind = PromptChoice
			if idx := indexOfValue(options, current); idx >= 0 {
				question.Selected = []int{idx}
			}
		}
		reply, err := s.prompt(question)
		if err != nil {
			return nil, err
		}
		return chosenValues(options, reply.Selected, widget == widgets.WidgetMultiSelect), nil

	case widgets.WidgetTextArea:
		question.Kind = PromptMultiline
		reply, err := s.prompt(question)
		return reply.Text, err

	case widgets.WidgetNumericTextBox, widgets.WidgetSlider:
		reply, err := s.prompt(question)
		if err != nil {
			return nil, err
		}
		raw := strings.TrimSpace(reply.Text)
		if raw == "" {
			return nil, nil
		}
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &entryError{msg: fmt.Sprintf("%q is not a number", raw)}
		}
		return number, nil

	case widgets.WidgetUpload:
		question.Help = uploadHelp(field)
		reply, err := s.prompt(question)
		if err != nil {
			return nil, err
		}
		if upload, ok := field.(*model.Upload); ok && upload.Multiple {
			return splitList(reply.Text), nil
		}
		return strings.TrimSpace(reply.Text), nil

	case widgets.WidgetAutoComplete:
		if input, ok := field.(*model.Input); ok && len(input.List) > 0 {
			question.Help = strings.TrimSpace(question.Help + " Suggestions: " + strings.Join(input.List, ", "))
		}
	}

	if strings.EqualFold(base.UIHint("input"), "password") {
		question.Kind, question.Default = PromptSecret, ""
	}
	reply, err := s.prompt(question)
	return reply.Text, err
}

// chosenValues maps selected option indices to option values. Single choice
// yields the value itself, or nil when nothing valid was picked.
func chosenValues(options []model.Option, indices []int, multiple bool) any {
	values := make([]any, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			values = append(values, options[idx].Value)
		}
	}
	if multiple {
		return values
	}
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

func (s *session) prompt(question Prompt) (Answer, error) {
	return s.renderer.driver.Ask(s.ctx, question)
}

func (s *session) info(message string) error {
	return s.renderer.driver.Notify(s.ctx, s.renderer.theme.InfoPrefix+message)
}

func (s *session) fail(message string) error {
	return s.renderer.driver.Notify(s.ctx, s.renderer.theme.ErrorPrefix+message)
}

// failureMessages prefers the field's configured messages and falls back to
// the failing validator names.
func failureMessages(adapter *binding.Adapter) []string {
	if messages := adapter.ErrorMessages(); len(messages) > 0 {
		return messages
	}
	errs := adapter.Control().Errors()
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, fmt.Sprintf("fails %s validation", name))
	}
	return out
}

func itemPath(arrayPath string, idx int) string {
	return arrayPath + "." + strconv.Itoa(idx)
}

func labelOf(base *model.Base) string {
	if label := strings.TrimSpace(base.Label); label != "" {
		return label
	}
	return base.ID
}

func optionsOf(field model.FieldModel) []model.Option {
	switch f := field.(type) {
	case *model.Select:
		return f.Options
	case *model.RadioGroup:
		return f.Options
	}
	return nil
}

func optionTexts(options []model.Option) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		out = append(out, option.Text())
	}
	return out
}

func indexOfValue(options []model.Option, value any) int {
	if value == nil {
		return -1
	}
	for i, option := range options {
		if stringValue(option.Value) == stringValue(value) {
			return i
		}
	}
	return -1
}

func indicesOfValues(options []model.Option, value any) []int {
	values, ok := value.([]any)
	if !ok {
		return nil
	}
	var out []int
	for _, v := range values {
		if idx := indexOfValue(options, v); idx >= 0 {
			out = append(out, idx)
		}
	}
	return out
}

func uploadHelp(field model.FieldModel) string {
	upload, ok := field.(*model.Upload)
	if !ok {
		return field.Common().Hint
	}
	parts := []string{}
	if hint := strings.TrimSpace(upload.Hint); hint != "" {
		parts = append(parts, hint)
	}
	if len(upload.Accept) > 0 {
		parts = append(parts, "Accepts "+strings.Join(upload.Accept, ", "))
	}
	if upload.Multiple {
		parts = append(parts, "Separate paths with commas")
	}
	return strings.Join(parts, ". ")
}

func splitList(raw string) []any {
	var out []any
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, _ := strconv.ParseBool(v)
		return parsed
	}
	return false
}

func stringValue(value any) string {
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

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(model.JoinPath(prefix, key), val, out)
		}
	case []any:
		for idx, val := range v {
			switch val.(type) {
			case map[string]any, []any:
				flatten(fmt.Sprintf("%s[%d]", prefix, idx), val, out)
			default:
				out.Add(prefix+"[]", stringValue(val))
			}
		}
	case nil:
		out.Set(prefix, "")
	default:
		out.Set(prefix, stringValue(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			writePretty(b, model.JoinPath(prefix, key), v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%s\n", prefix, stringValue(v))
		}
	}
}
