package binding

import (
	"sync"
)

// Status mirrors the validation status of a reactive form control.
type Status string

const (
	StatusValid    Status = "VALID"
	StatusInvalid  Status = "INVALID"
	StatusDisabled Status = "DISABLED"
)

// ControlOption configures a Control at construction.
type ControlOption func(*Control)

// WithValidators attaches validator configuration keyed by validator name
// (model.ValidatorRequired, model.ValidatorMinLength, ...).
func WithValidators(validators map[string]any) ControlOption {
	return func(c *Control) {
		if len(validators) == 0 {
			return
		}
		c.validators = make(map[string]any, len(validators))
		for name, param := range validators {
			c.validators[name] = param
		}
	}
}

// WithDisabled starts the control disabled.
func WithDisabled(disabled bool) ControlOption {
	return func(c *Control) {
		c.disabled = disabled
	}
}

// SetOption tunes a single SetValue call.
type SetOption func(*setConfig)

type setConfig struct {
	emit bool
}

// WithoutEmit suppresses the value-changes notification for one update.
func WithoutEmit() SetOption {
	return func(cfg *setConfig) {
		cfg.emit = false
	}
}

// Control is a reactive form control: it stores a value, an enabled flag and
// interaction state, and publishes value and status changes.
type Control struct {
	mu         sync.RWMutex
	value      any
	disabled   bool
	touched    bool
	dirty      bool
	validators map[string]any

	valueChanges  *Subject[any]
	statusChanges *Subject[Status]
}

// NewControl constructs a control seeded with value.
func NewControl(value any, options ...ControlOption) *Control {
	c := &Control{
		value:         value,
		valueChanges:  NewSubject[any](),
		statusChanges: NewSubject[Status](),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Value returns the current value.
func (c *Control) Value() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// SetValue stores value and, unless WithoutEmit is passed, notifies value
// change observers.
func (c *Control) SetValue(value any, options ...SetOption) {
	cfg := setConfig{emit: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	c.mu.Lock()
	before := c.statusLocked()
	c.value = value
	c.dirty = true
	after := c.statusLocked()
	c.mu.Unlock()

	if cfg.emit {
		c.valueChanges.Next(value)
	}
	if before != after {
		c.statusChanges.Next(after)
	}
}

// Enable re-enables a disabled control.
func (c *Control) Enable() {
	c.setDisabled(false)
}

// Disable disables the control. Disabled controls skip validation.
func (c *Control) Disable() {
	c.setDisabled(true)
}

func (c *Control) setDisabled(disabled bool) {
	c.mu.Lock()
	if c.disabled == disabled {
		c.mu.Unlock()
		return
	}
	c.disabled = disabled
	status := c.statusLocked()
	c.mu.Unlock()

	c.statusChanges.Next(status)
}

// Disabled reports whether the control is disabled.
func (c *Control) Disabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.disabled
}

// MarkAsTouched records that the widget lost focus at least once.
func (c *Control) MarkAsTouched() {
	c.mu.Lock()
	c.touched = true
	c.mu.Unlock()
}

// Touched reports whether MarkAsTouched was called.
func (c *Control) Touched() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.touched
}

// Dirty reports whether the value was set after construction.
func (c *Control) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// ValueChanges publishes every emitted value.
func (c *Control) ValueChanges() *Subject[any] {
	return c.valueChanges
}

// StatusChanges publishes status transitions.
func (c *Control) StatusChanges() *Subject[Status] {
	return c.statusChanges
}

// Errors returns the failing validators keyed by name, or nil.
func (c *Control) Errors() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.disabled {
		return nil
	}
	return runValidators(c.validators, c.value)
}

// Status reports the current validation status.
func (c *Control) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statusLocked()
}

// Valid reports whether the control is enabled and passes validation.
func (c *Control) Valid() bool {
	return c.Status() == StatusValid
}

// Invalid reports whether the control is enabled and fails validation.
func (c *Control) Invalid() bool {
	return c.Status() == StatusInvalid
}

func (c *Control) statusLocked() Status {
	if c.disabled {
		return StatusDisabled
	}
	if len(runValidators(c.validators, c.value)) > 0 {
		return StatusInvalid
	}
	return StatusValid
}

func (c *Control) close() {
	c.valueChanges.Close()
	c.statusChanges.Close()
}
