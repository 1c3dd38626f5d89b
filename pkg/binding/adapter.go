package binding

import (
	"sync"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
	"github.com/goliatone/go-formgen-kendo/pkg/widgets"
)

// EventType names a widget interaction.
type EventType string

const (
	EventFocus  EventType = "focus"
	EventBlur   EventType = "blur"
	EventChange EventType = "change"
)

// Event is published whenever a bound widget is focused, blurred or edited.
type Event struct {
	Type  EventType
	Path  string
	Value any
}

// Hooks are optional callbacks invoked alongside event publication.
type Hooks struct {
	Focus  func(Event)
	Blur   func(Event)
	Change func(Event)
}

// AdapterOption customises an Adapter.
type AdapterOption func(*Adapter)

// WithRegistry resolves widget types through registry instead of the builtin
// table.
func WithRegistry(registry *widgets.Registry) AdapterOption {
	return func(a *Adapter) {
		a.registry = registry
	}
}

// WithPath records the dotted path used in published events.
func WithPath(path string) AdapterOption {
	return func(a *Adapter) {
		a.path = path
	}
}

// WithContext attaches an opaque host context returned by Context.
func WithContext(ctx any) AdapterOption {
	return func(a *Adapter) {
		a.context = ctx
	}
}

// WithHooks installs interaction callbacks.
func WithHooks(hooks Hooks) AdapterOption {
	return func(a *Adapter) {
		a.hooks = hooks
	}
}

// Adapter connects a field model to a Control. Once bound, user edits flow
// from the control into the model value, and values or disabled flags pushed
// by the model flow into the control.
type Adapter struct {
	field    model.FieldModel
	control  *Control
	registry *widgets.Registry
	path     string
	context  any
	hooks    Hooks

	modelValues   *Subject[any]
	modelDisabled *Subject[bool]
	focus         *Subject[Event]
	blur          *Subject[Event]
	change        *Subject[Event]

	// fieldMu guards writes to the field's Value and Disabled.
	fieldMu sync.RWMutex

	mu     sync.Mutex
	bound  bool
	closed bool
	subs   []Subscription
}

// NewAdapter constructs an unbound adapter for field and control. A nil
// control is replaced by one seeded from the field.
func NewAdapter(field model.FieldModel, control *Control, options ...AdapterOption) *Adapter {
	if control == nil {
		control = controlFor(field)
	}
	a := &Adapter{
		field:         field,
		control:       control,
		modelValues:   NewSubject[any](),
		modelDisabled: NewSubject[bool](),
		focus:         NewSubject[Event](),
		blur:          NewSubject[Event](),
		change:        NewSubject[Event](),
	}
	if !model.IsNil(field) {
		a.path = field.Common().ID
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

func controlFor(field model.FieldModel) *Control {
	if model.IsNil(field) {
		return NewControl(nil)
	}
	base := field.Common()
	return NewControl(base.Value, WithValidators(base.Validators), WithDisabled(base.Disabled))
}

// Type returns the widget that renders the bound field.
func (a *Adapter) Type() widgets.WidgetType {
	if a.registry != nil {
		widget, _ := a.registry.Resolve(a.field)
		return widget
	}
	return widgets.Resolve(a.field)
}

// Field returns the bound field model.
func (a *Adapter) Field() model.FieldModel { return a.field }

// Control returns the bound control.
func (a *Adapter) Control() *Control { return a.control }

// Path returns the dotted path of the bound field.
func (a *Adapter) Path() string { return a.path }

// Context returns the host context attached with WithContext, or nil.
func (a *Adapter) Context() any { return a.context }

// HasErrorMessaging reports whether the field declares error messages.
func (a *Adapter) HasErrorMessaging() bool {
	base := a.base()
	return base != nil && base.HasErrorMessaging()
}

// ErrorMessages returns the declared messages for every failing validator.
func (a *Adapter) ErrorMessages() []string {
	base := a.base()
	if base == nil || len(base.ErrorMessages) == 0 {
		return nil
	}
	errs := a.control.Errors()
	if len(errs) == 0 {
		return nil
	}
	var out []string
	for _, name := range validatorOrder {
		if _, failed := errs[name]; !failed {
			continue
		}
		if msg, ok := base.ErrorMessages[name]; ok && msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

var validatorOrder = []string{
	model.ValidatorRequired,
	model.ValidatorMinLength,
	model.ValidatorMaxLength,
	model.ValidatorMin,
	model.ValidatorMax,
	model.ValidatorPattern,
}

// IsValid reports whether the control is valid.
func (a *Adapter) IsValid() bool { return a.control.Valid() }

// IsInvalid reports whether the control is invalid. Disabled controls are
// neither valid nor invalid.
func (a *Adapter) IsInvalid() bool { return a.control.Invalid() }

// Bind wires the control and the model together. Repeated calls are no-ops.
func (a *Adapter) Bind() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.bound || a.closed {
		return
	}
	a.bound = true

	a.subs = append(a.subs,
		a.control.ValueChanges().Subscribe(a.setModelValue),
		a.modelValues.Subscribe(func(value any) {
			a.control.SetValue(value, WithoutEmit())
		}),
		a.modelDisabled.Subscribe(func(disabled bool) {
			if disabled {
				a.control.Disable()
			} else {
				a.control.Enable()
			}
		}),
	)
}

// PushValue publishes a value originating from the model side. The control
// is updated without echoing the value back to the model.
func (a *Adapter) PushValue(value any) {
	a.setModelValue(value)
	a.modelValues.Next(value)
}

// PushDisabled publishes a disabled flag originating from the model side.
func (a *Adapter) PushDisabled(disabled bool) {
	if base := a.base(); base != nil {
		a.fieldMu.Lock()
		base.Disabled = disabled
		a.fieldMu.Unlock()
	}
	a.modelDisabled.Next(disabled)
}

// ModelValue returns the bound field's current value.
func (a *Adapter) ModelValue() any {
	base := a.base()
	if base == nil {
		return nil
	}
	a.fieldMu.RLock()
	defer a.fieldMu.RUnlock()
	return base.Value
}

// ModelDisabled reports the bound field's disabled flag.
func (a *Adapter) ModelDisabled() bool {
	base := a.base()
	if base == nil {
		return false
	}
	a.fieldMu.RLock()
	defer a.fieldMu.RUnlock()
	return base.Disabled
}

func (a *Adapter) setModelValue(value any) {
	base := a.base()
	if base == nil {
		return
	}
	a.fieldMu.Lock()
	base.Value = value
	a.fieldMu.Unlock()
}

// OnFocus records a widget focus.
func (a *Adapter) OnFocus() {
	a.emit(a.focus, a.hooks.Focus, Event{Type: EventFocus, Path: a.path})
}

// OnBlur records a widget blur and marks the control as touched.
func (a *Adapter) OnBlur() {
	a.control.MarkAsTouched()
	a.emit(a.blur, a.hooks.Blur, Event{Type: EventBlur, Path: a.path})
}

// OnFocusChange dispatches to OnFocus or OnBlur.
func (a *Adapter) OnFocusChange(focused bool) {
	if focused {
		a.OnFocus()
		return
	}
	a.OnBlur()
}

// OnValueChange records a user edit: the control takes the value, which the
// bound model then receives.
func (a *Adapter) OnValueChange(value any) {
	a.control.SetValue(value)
	a.emit(a.change, a.hooks.Change, Event{Type: EventChange, Path: a.path, Value: value})
}

// Focus publishes focus events.
func (a *Adapter) Focus() *Subject[Event] { return a.focus }

// Blur publishes blur events.
func (a *Adapter) Blur() *Subject[Event] { return a.blur }

// Change publishes change events.
func (a *Adapter) Change() *Subject[Event] { return a.change }

// Close releases subscriptions and closes the adapter's subjects. The
// control is left open so other adapters may still observe it.
func (a *Adapter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	subs := a.subs
	a.subs = nil
	a.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	a.modelValues.Close()
	a.modelDisabled.Close()
	a.focus.Close()
	a.blur.Close()
	a.change.Close()
}

func (a *Adapter) emit(subject *Subject[Event], hook func(Event), event Event) {
	if a.isClosed() {
		return
	}
	subject.Next(event)
	if hook != nil {
		hook(event)
	}
}

func (a *Adapter) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

func (a *Adapter) base() *model.Base {
	if model.IsNil(a.field) {
		return nil
	}
	return a.field.Common()
}
