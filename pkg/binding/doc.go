// Package binding connects field models, reactive form controls and widgets.
//
// A Control holds a field's value and enabled state and publishes changes on
// a Subject. An Adapter ties one model.FieldModel to its Control and to the
// widget resolved for it: control value changes are written back to the
// model, values and disabled flags pushed from the model side are applied to
// the control, and widget focus, blur and change events are re-published for
// listeners. Every subscription is an explicit handle; Adapter.Close and
// Form.Close release them deterministically.
package binding
