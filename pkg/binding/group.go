package binding

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

// Node is a Control, Group or Array inside a form tree.
type Node interface {
	Value() any
	Valid() bool
}

// Group holds named child nodes in declaration order.
type Group struct {
	mu    sync.RWMutex
	names []string
	nodes map[string]Node
}

// NewGroup builds a control tree for fields: one Control per leaf field, a
// nested Group for Group and CheckboxGroup fields and an Array for Array
// fields, seeded with InitialCount items.
func NewGroup(fields []model.FieldModel) *Group {
	g := &Group{nodes: make(map[string]Node, len(fields))}
	for _, field := range fields {
		if model.IsNil(field) {
			continue
		}
		g.add(field.Common().ID, nodeFor(field))
	}
	return g
}

func nodeFor(field model.FieldModel) Node {
	switch f := field.(type) {
	case *model.Group:
		return NewGroup(f.Group)
	case *model.CheckboxGroup:
		return NewGroup(model.Children(f))
	case *model.Array:
		arr := &Array{template: f.Group}
		for i := 0; i < f.InitialCount; i++ {
			arr.Push()
		}
		return arr
	default:
		base := field.Common()
		return NewControl(base.Value, WithValidators(base.Validators), WithDisabled(base.Disabled))
	}
}

func (g *Group) add(name string, node Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[name]; !exists {
		g.names = append(g.names, name)
	}
	g.nodes[name] = node
}

// Names returns child names in declaration order.
func (g *Group) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.names...)
}

// Child returns the direct child named name.
func (g *Group) Child(name string) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, ok := g.nodes[name]
	return node, ok
}

// Get resolves a dotted path. Array items are addressed by index, e.g.
// "phones.0.number".
func (g *Group) Get(path string) (Node, bool) {
	var current Node = g
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case *Group:
			next, ok := node.Child(segment)
			if !ok {
				return nil, false
			}
			current = next
		case *Array:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return nil, false
			}
			item, ok := node.At(idx)
			if !ok {
				return nil, false
			}
			current = item
		default:
			return nil, false
		}
	}
	return current, true
}

// Control resolves a dotted path to a leaf control.
func (g *Group) Control(path string) (*Control, bool) {
	node, ok := g.Get(path)
	if !ok {
		return nil, false
	}
	control, ok := node.(*Control)
	return control, ok
}

// Value snapshots the tree as nested maps and slices.
func (g *Group) Value() any {
	return g.Values()
}

// Values snapshots the group as a map keyed by child name.
func (g *Group) Values() map[string]any {
	g.mu.RLock()
	names := append([]string(nil), g.names...)
	nodes := make(map[string]Node, len(g.nodes))
	for k, v := range g.nodes {
		nodes[k] = v
	}
	g.mu.RUnlock()

	out := make(map[string]any, len(names))
	for _, name := range names {
		out[name] = nodes[name].Value()
	}
	return out
}

// Valid reports whether every child is valid or disabled.
func (g *Group) Valid() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, node := range g.nodes {
		if control, ok := node.(*Control); ok {
			if control.Invalid() {
				return false
			}
			continue
		}
		if !node.Valid() {
			return false
		}
	}
	return true
}

func (g *Group) walkControls(fn func(*Control)) {
	g.mu.RLock()
	nodes := make([]Node, 0, len(g.nodes))
	for _, name := range g.names {
		nodes = append(nodes, g.nodes[name])
	}
	g.mu.RUnlock()

	for _, node := range nodes {
		switch n := node.(type) {
		case *Control:
			fn(n)
		case *Group:
			n.walkControls(fn)
		case *Array:
			for _, item := range n.Items() {
				item.walkControls(fn)
			}
		}
	}
}

// Array is a growable list of groups sharing one field template.
type Array struct {
	mu       sync.RWMutex
	template []model.FieldModel
	items    []*Group
}

// Template returns the item field template.
func (a *Array) Template() []model.FieldModel {
	return a.template
}

// Push appends a new item built from the template.
func (a *Array) Push() *Group {
	item := NewGroup(a.template)
	a.mu.Lock()
	a.items = append(a.items, item)
	a.mu.Unlock()
	return item
}

// RemoveAt removes the item at idx.
func (a *Array) RemoveAt(idx int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx < 0 || idx >= len(a.items) {
		return fmt.Errorf("binding: array index %d out of range", idx)
	}
	a.items = append(a.items[:idx:idx], a.items[idx+1:]...)
	return nil
}

// At returns the item at idx.
func (a *Array) At(idx int) (*Group, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if idx < 0 || idx >= len(a.items) {
		return nil, false
	}
	return a.items[idx], true
}

// Len reports the number of items.
func (a *Array) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// Items returns the current items.
func (a *Array) Items() []*Group {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]*Group(nil), a.items...)
}

// Value snapshots every item.
func (a *Array) Value() any {
	items := a.Items()
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item.Values())
	}
	return out
}

// Valid reports whether every item is valid.
func (a *Array) Valid() bool {
	for _, item := range a.Items() {
		if !item.Valid() {
			return false
		}
	}
	return true
}
