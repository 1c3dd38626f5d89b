package binding

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formgen-kendo/pkg/model"
)

// Form binds every leaf field of a FormModel to a Control through an
// Adapter. Array items get their own copy of the item template so edits in
// one item never leak into another.
type Form struct {
	mu       sync.RWMutex
	model    *model.FormModel
	root     *Group
	options  []AdapterOption
	adapters map[string]*Adapter
	items    map[string][][]model.FieldModel
	closed   bool
}

// NewForm builds and binds the control tree for form.
func NewForm(form *model.FormModel, options ...AdapterOption) (*Form, error) {
	if form == nil {
		return nil, fmt.Errorf("binding: form model is nil")
	}
	f := &Form{
		model:    form,
		root:     NewGroup(form.Fields),
		options:  options,
		adapters: make(map[string]*Adapter),
		items:    make(map[string][][]model.FieldModel),
	}
	f.bindFields(form.Fields, f.root, "")
	return f, nil
}

func (f *Form) bindFields(fields []model.FieldModel, group *Group, prefix string) {
	for _, field := range fields {
		if model.IsNil(field) {
			continue
		}
		path := model.JoinPath(prefix, field.Common().ID)
		node, ok := group.Child(field.Common().ID)
		if !ok {
			continue
		}
		switch n := node.(type) {
		case *Group:
			f.bindFields(model.Children(field), n, path)
		case *Array:
			arr, _ := field.(*model.Array)
			for idx, item := range n.Items() {
				clones := model.CloneAll(arr.Group)
				f.items[path] = append(f.items[path], clones)
				f.bindFields(clones, item, itemPath(path, idx))
			}
		case *Control:
			f.bindControl(path, field, n)
		}
	}
}

func (f *Form) bindControl(path string, field model.FieldModel, control *Control) {
	opts := append([]AdapterOption{}, f.options...)
	opts = append(opts, WithPath(path))
	adapter := NewAdapter(field, control, opts...)
	adapter.Bind()
	f.adapters[path] = adapter
}

func itemPath(arrayPath string, idx int) string {
	return arrayPath + "." + strconv.Itoa(idx)
}

// Model returns the bound form model.
func (f *Form) Model() *model.FormModel { return f.model }

// Root returns the root control group.
func (f *Form) Root() *Group { return f.root }

// Adapter returns the adapter bound at path.
func (f *Form) Adapter(path string) (*Adapter, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	adapter, ok := f.adapters[path]
	return adapter, ok
}

// Paths lists every bound leaf path in sorted order.
func (f *Form) Paths() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	paths := make([]string, 0, len(f.adapters))
	for path := range f.adapters {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Control returns the control at path.
func (f *Form) Control(path string) (*Control, bool) {
	return f.root.Control(path)
}

// AppendItem adds an item to the array at arrayPath and returns its index.
func (f *Form) AppendItem(arrayPath string) (int, error) {
	arr, err := f.array(arrayPath)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, fmt.Errorf("binding: form is closed")
	}
	item := arr.Push()
	idx := arr.Len() - 1
	clones := model.CloneAll(arr.Template())
	f.items[arrayPath] = append(f.items[arrayPath], clones)
	f.bindFields(clones, item, itemPath(arrayPath, idx))
	return idx, nil
}

// RemoveItem removes the item at idx from the array at arrayPath. Later
// items shift down and are re-bound under their new paths.
func (f *Form) RemoveItem(arrayPath string, idx int) error {
	arr, err := f.array(arrayPath)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := arr.RemoveAt(idx); err != nil {
		return err
	}

	prefix := arrayPath + "."
	for path, adapter := range f.adapters {
		if strings.HasPrefix(path, prefix) {
			adapter.Close()
			delete(f.adapters, path)
		}
	}

	clones := f.items[arrayPath]
	if idx < len(clones) {
		clones = append(clones[:idx:idx], clones[idx+1:]...)
	}
	f.items[arrayPath] = clones
	for i, item := range arr.Items() {
		if i < len(clones) {
			f.bindFields(clones[i], item, itemPath(arrayPath, i))
		}
	}
	return nil
}

func (f *Form) array(path string) (*Array, error) {
	node, ok := f.root.Get(path)
	if !ok {
		return nil, fmt.Errorf("binding: path %q not found", path)
	}
	arr, ok := node.(*Array)
	if !ok {
		return nil, fmt.Errorf("binding: path %q is not an array", path)
	}
	return arr, nil
}

// Value snapshots every control value as nested maps and slices.
func (f *Form) Value() map[string]any {
	return f.root.Values()
}

// Valid reports whether every enabled control passes validation.
func (f *Form) Valid() bool {
	return f.root.Valid()
}

// Close releases every adapter and control subscription.
func (f *Form) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	adapters := f.adapters
	f.adapters = map[string]*Adapter{}
	f.mu.Unlock()

	for _, adapter := range adapters {
		adapter.Close()
	}
	f.root.walkControls(func(c *Control) { c.close() })
}
