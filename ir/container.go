package ir

import (
	"fmt"
	"slices"
)

// ChangeOp identifies a structural change.
type ChangeOp int

const (
	Attached ChangeOp = iota
	Detached
)

func (op ChangeOp) String() string {
	switch op {
	case Attached:
		return "attached"
	case Detached:
		return "detached"
	}
	return fmt.Sprintf("<op %d>", int(op))
}

// Change describes a child being attached to or detached from Container.
// Key is set for compounds and Index for lists.
type Change struct {
	Op        ChangeOp
	Container *Node
	Child     *Node
	Key       string
	Index     int
}

// OnChange registers fn to be called for every structural change at or
// below y.
func (y *Node) OnChange(fn func(Change)) {
	y.listeners = append(y.listeners, fn)
}

func (y *Node) notify(c Change) {
	for p := y; p != nil; p = p.Parent {
		for _, fn := range p.listeners {
			fn(c)
		}
	}
}

// index lookups switch to a map once a compound is large enough that a
// linear scan over Fields stops being cheap.
const indexThreshold = 16

func (y *Node) lookup(key string) (int, bool) {
	if len(y.Fields) <= indexThreshold {
		for i, f := range y.Fields {
			if f == key {
				return i, true
			}
		}
		return -1, false
	}
	if len(y.fieldIndex) != len(y.Fields) {
		y.fieldIndex = make(map[string]int, len(y.Fields))
		for i, f := range y.Fields {
			y.fieldIndex[f] = i
		}
	}
	i, ok := y.fieldIndex[key]
	return i, ok
}

func (y *Node) checkAttachable(child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrStructure)
	}
	if child.Parent != nil {
		return fmt.Errorf("%w: node already attached at %s, clone it first", ErrStructure, child.Path())
	}
	for p := y; p != nil; p = p.Parent {
		if p == child {
			return fmt.Errorf("%w: attaching %s would create a cycle", ErrStructure, y.Path())
		}
	}
	return nil
}

// Add appends child under key. y must be a Compound, key must be new and
// child must not have a parent.
func (y *Node) Add(key string, child *Node) error {
	if y.Kind != CompoundKind {
		return y.kindErr("Add", CompoundKind)
	}
	if err := y.checkAttachable(child); err != nil {
		return err
	}
	if _, ok := y.lookup(key); ok {
		return fmt.Errorf("%w: duplicate key %q at %s", ErrStructure, key, y.Path())
	}
	y.Fields = append(y.Fields, key)
	y.Values = append(y.Values, child)
	if y.fieldIndex != nil {
		y.fieldIndex[key] = len(y.Fields) - 1
	}
	child.Parent = y
	child.ParentIndex = -1
	child.ParentField = key
	y.notify(Change{Op: Attached, Container: y, Child: child, Key: key, Index: -1})
	return nil
}

// Set adds child under key, replacing and detaching any existing value.
func (y *Node) Set(key string, child *Node) error {
	if y.Kind != CompoundKind {
		return y.kindErr("Set", CompoundKind)
	}
	if i, ok := y.lookup(key); ok {
		if y.Values[i] == child {
			return nil
		}
		if err := y.checkAttachable(child); err != nil {
			return err
		}
		old := y.Values[i]
		old.Parent = nil
		old.ParentField = ""
		old.ParentIndex = -1
		y.notify(Change{Op: Detached, Container: y, Child: old, Key: key, Index: -1})
		y.Values[i] = child
		child.Parent = y
		child.ParentIndex = -1
		child.ParentField = key
		y.notify(Change{Op: Attached, Container: y, Child: child, Key: key, Index: -1})
		return nil
	}
	return y.Add(key, child)
}

func (y *Node) Get(key string) *Node {
	if y.Kind != CompoundKind {
		return nil
	}
	if i, ok := y.lookup(key); ok {
		return y.Values[i]
	}
	return nil
}

func (y *Node) Has(key string) bool {
	if y.Kind != CompoundKind {
		return false
	}
	_, ok := y.lookup(key)
	return ok
}

// Remove detaches and returns the value under key, or nil if absent.
func (y *Node) Remove(key string) (*Node, error) {
	if y.Kind != CompoundKind {
		return nil, y.kindErr("Remove", CompoundKind)
	}
	i, ok := y.lookup(key)
	if !ok {
		return nil, nil
	}
	child := y.Values[i]
	y.Fields = slices.Delete(y.Fields, i, i+1)
	y.Values = slices.Delete(y.Values, i, i+1)
	y.fieldIndex = nil
	child.Parent = nil
	child.ParentField = ""
	child.ParentIndex = -1
	y.notify(Change{Op: Detached, Container: y, Child: child, Key: key, Index: -1})
	return child, nil
}

// ListAdd appends child to the list y.
func (y *Node) ListAdd(child *Node) error {
	if y.Kind != ListKind {
		return y.kindErr("ListAdd", ListKind)
	}
	if err := y.checkAttachable(child); err != nil {
		return err
	}
	y.Values = append(y.Values, child)
	child.Parent = y
	child.ParentIndex = len(y.Values) - 1
	child.ParentField = ""
	y.notify(Change{Op: Attached, Container: y, Child: child, Index: child.ParentIndex})
	return nil
}

// ListInsert inserts child at index i, shifting later siblings.
func (y *Node) ListInsert(i int, child *Node) error {
	if y.Kind != ListKind {
		return y.kindErr("ListInsert", ListKind)
	}
	if i < 0 || i > len(y.Values) {
		return fmt.Errorf("%w: insert index %d out of range [0,%d]", ErrStructure, i, len(y.Values))
	}
	if err := y.checkAttachable(child); err != nil {
		return err
	}
	y.Values = slices.Insert(y.Values, i, child)
	for j := i + 1; j < len(y.Values); j++ {
		y.Values[j].ParentIndex = j
	}
	child.Parent = y
	child.ParentIndex = i
	child.ParentField = ""
	y.notify(Change{Op: Attached, Container: y, Child: child, Index: i})
	return nil
}

// ListRemove detaches and returns the element at index i.
func (y *Node) ListRemove(i int) (*Node, error) {
	if y.Kind != ListKind {
		return nil, y.kindErr("ListRemove", ListKind)
	}
	if i < 0 || i >= len(y.Values) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrStructure, i, len(y.Values))
	}
	child := y.Values[i]
	y.Values = slices.Delete(y.Values, i, i+1)
	for j := i; j < len(y.Values); j++ {
		y.Values[j].ParentIndex = j
	}
	child.Parent = nil
	child.ParentIndex = -1
	y.notify(Change{Op: Detached, Container: y, Child: child, Index: i})
	return child, nil
}

// Index returns the list element at i.
func (y *Node) Index(i int) (*Node, error) {
	if y.Kind != ListKind {
		return nil, y.kindErr("Index", ListKind)
	}
	if i < 0 || i >= len(y.Values) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrStructure, i, len(y.Values))
	}
	return y.Values[i], nil
}

// Detach removes y from its parent, if any.
func (y *Node) Detach() error {
	p := y.Parent
	if p == nil {
		return nil
	}
	switch p.Kind {
	case CompoundKind:
		_, err := p.Remove(y.ParentField)
		return err
	case ListKind:
		_, err := p.ListRemove(y.ParentIndex)
		return err
	}
	return fmt.Errorf("%w: parent of kind %s", ErrStructure, p.Kind)
}
