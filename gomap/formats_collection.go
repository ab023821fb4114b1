package gomap

import (
	"cmp"
	"container/list"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/signadot/ograph/ir"
)

// FixedLayout marks struct types written as a List of their fields in
// declaration order, without field names. Such values have no identity.
type FixedLayout interface {
	FixedLayout()
}

// sortedKeys returns the keys of a map value, ordered when they are of a
// basic kind so output is deterministic.
func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	switch m.Type().Key().Kind() {
	case reflect.String:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) })
	case reflect.Float32, reflect.Float64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) })
	case reflect.Bool:
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return cmp.Compare(boolInt(a.Bool()), boolInt(b.Bool()))
		})
	}
	return keys
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func listNode(n *ir.Node, t reflect.Type) error {
	if n.Kind != ir.ListKind {
		return typeErr(n, t)
	}
	return nil
}

// setFormat writes map[K]struct{} as a List of its members.
type setFormat struct{}

func (setFormat) Name() string { return "set" }

func (setFormat) CanHandle(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem() == emptyStructType
}

func (setFormat) Serialize(c *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	if v.IsNil() {
		return ir.Null(), nil
	}
	res := ir.NewList()
	for _, k := range sortedKeys(v) {
		kn, err := c.Serialize(v.Type().Key(), k)
		if err != nil {
			return nil, err
		}
		if err := res.ListAdd(kn); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (setFormat) Deserialize(c *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	if err := listNode(n, t); err != nil {
		return reflect.Value{}, err
	}
	m := reflect.MakeMapWithSize(t, len(n.Values))
	member := reflect.New(emptyStructType).Elem()
	for _, vn := range n.Values {
		k, err := c.Deserialize(vn, t.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		m.SetMapIndex(k, member)
	}
	return m, nil
}

// fixedLayoutFormat writes FixedLayout structs by field position.
type fixedLayoutFormat struct{}

func (fixedLayoutFormat) Name() string { return "fixed-layout" }

func (fixedLayoutFormat) CanHandle(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(fixedLayoutType)
}

func (fixedLayoutFormat) Serialize(c *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	d, err := c.describe(v.Type())
	if err != nil {
		return nil, err
	}
	res := ir.NewList()
	for _, fd := range d.fields {
		fn, err := c.Serialize(fd.typ, v.FieldByIndex(fd.index))
		if err != nil {
			return nil, err
		}
		if err := res.ListAdd(fn); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (fixedLayoutFormat) Deserialize(c *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	if err := listNode(n, t); err != nil {
		return reflect.Value{}, err
	}
	d, err := c.describe(t)
	if err != nil {
		return reflect.Value{}, err
	}
	if len(n.Values) != len(d.fields) {
		return reflect.Value{}, &TypeError{
			FieldPath: n.Path(),
			Message:   fmt.Sprintf("%s has %d fields, got %d values", t, len(d.fields), len(n.Values)),
		}
	}
	res := reflect.New(t).Elem()
	for i, fd := range d.fields {
		fv, err := c.Deserialize(n.Values[i], fd.typ)
		if err != nil {
			return reflect.Value{}, err
		}
		res.FieldByIndex(fd.index).Set(fv)
	}
	return res, nil
}

// arrayFormat writes arrays as Lists, and byte arrays as ByteArrays.
type arrayFormat struct{}

func (arrayFormat) Name() string { return "array" }

func (arrayFormat) CanHandle(t reflect.Type) bool {
	return t.Kind() == reflect.Array
}

func (arrayFormat) Serialize(c *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	et := v.Type().Elem()
	if et.Kind() == reflect.Uint8 {
		b := make([]byte, v.Len())
		reflect.Copy(reflect.ValueOf(b), v)
		return ir.FromBytes(b), nil
	}
	return serializeSeq(c, et, v)
}

func (arrayFormat) Deserialize(c *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	res := reflect.New(t).Elem()
	if t.Elem().Kind() == reflect.Uint8 && n.Kind == ir.ByteArrayKind {
		if len(n.Bytes) > t.Len() {
			return reflect.Value{}, rangeErr(n, t, len(n.Bytes))
		}
		reflect.Copy(res, reflect.ValueOf(n.Bytes))
		return res, nil
	}
	if err := listNode(n, t); err != nil {
		return reflect.Value{}, err
	}
	if len(n.Values) > t.Len() {
		return reflect.Value{}, rangeErr(n, t, len(n.Values))
	}
	for i, vn := range n.Values {
		ev, err := c.Deserialize(vn, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		res.Index(i).Set(ev)
	}
	return res, nil
}

func serializeSeq(c *Context, et reflect.Type, v reflect.Value) (*ir.Node, error) {
	res := ir.NewList()
	for i := range v.Len() {
		c.pushPath(fmt.Sprintf("[%d]", i))
		en, err := c.Serialize(et, v.Index(i))
		c.popPath()
		if err != nil {
			return nil, err
		}
		if err := res.ListAdd(en); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// sliceFormat writes slices as Lists. A nil slice is Null.
type sliceFormat struct{}

func (sliceFormat) Name() string { return "slice" }

func (sliceFormat) CanHandle(t reflect.Type) bool {
	return t.Kind() == reflect.Slice
}

func (sliceFormat) Serialize(c *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	if v.IsNil() {
		return ir.Null(), nil
	}
	return serializeSeq(c, v.Type().Elem(), v)
}

func (sliceFormat) Deserialize(c *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	if err := listNode(n, t); err != nil {
		return reflect.Value{}, err
	}
	res := reflect.MakeSlice(t, len(n.Values), len(n.Values))
	for i, vn := range n.Values {
		ev, err := c.Deserialize(vn, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		res.Index(i).Set(ev)
	}
	return res, nil
}

// linkedListFormat writes *list.List, used for queues, stacks and linked
// lists, as a List of its elements requested as any.
type linkedListFormat struct{}

func (linkedListFormat) Name() string { return "linked-list" }

func (linkedListFormat) CanHandle(t reflect.Type) bool {
	return t == linkedListType
}

func (linkedListFormat) Serialize(c *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	res := ir.NewList()
	i := 0
	for e := v.Interface().(*list.List).Front(); e != nil; e = e.Next() {
		c.pushPath(fmt.Sprintf("[%d]", i))
		en, err := c.Serialize(anyType, reflect.ValueOf(&e.Value).Elem())
		c.popPath()
		if err != nil {
			return nil, err
		}
		if err := res.ListAdd(en); err != nil {
			return nil, err
		}
		i++
	}
	return res, nil
}

func (linkedListFormat) Deserialize(c *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	if err := listNode(n, t); err != nil {
		return reflect.Value{}, err
	}
	l := list.New()
	for _, vn := range n.Values {
		ev, err := c.Deserialize(vn, anyType)
		if err != nil {
			return reflect.Value{}, err
		}
		l.PushBack(ev.Interface())
	}
	return reflect.ValueOf(l), nil
}

// Entry keys of maps whose keys are not strings.
const (
	mapKeyField   = "k"
	mapValueField = "v"
)

// mapFormat writes maps with string keys as Compounds and other maps as a
// List of {k, v} Compounds. String keys starting with "$" get a second
// leading "$" so they cannot be read as $id, $type or $value.
type mapFormat struct{}

func escapeMapKey(k string) string {
	if strings.HasPrefix(k, "$") {
		return "$" + k
	}
	return k
}

func unescapeMapKey(k string) string {
	if strings.HasPrefix(k, "$$") {
		return k[1:]
	}
	return k
}

func (mapFormat) Name() string { return "map" }

func (mapFormat) CanHandle(t reflect.Type) bool {
	return t.Kind() == reflect.Map
}

func (mapFormat) Serialize(c *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	if v.IsNil() {
		return ir.Null(), nil
	}
	t := v.Type()
	if t.Key().Kind() == reflect.String {
		res := ir.NewCompound()
		for _, k := range sortedKeys(v) {
			c.pushPath(k.String())
			vn, err := c.Serialize(t.Elem(), v.MapIndex(k))
			c.popPath()
			if err != nil {
				return nil, err
			}
			if err := res.Add(escapeMapKey(k.String()), vn); err != nil {
				return nil, err
			}
		}
		return res, nil
	}
	res := ir.NewList()
	for _, k := range sortedKeys(v) {
		kn, err := c.Serialize(t.Key(), k)
		if err != nil {
			return nil, err
		}
		vn, err := c.Serialize(t.Elem(), v.MapIndex(k))
		if err != nil {
			return nil, err
		}
		entry := ir.FromKeyVals([]ir.KeyVal{{Key: mapKeyField, Val: kn}, {Key: mapValueField, Val: vn}})
		if err := res.ListAdd(entry); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (mapFormat) Deserialize(c *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	m := reflect.MakeMapWithSize(t, len(n.Values))
	switch {
	case n.Kind == ir.CompoundKind && t.Key().Kind() == reflect.String:
		for i, f := range n.Fields {
			vv, err := c.Deserialize(n.Values[i], t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			m.SetMapIndex(reflect.ValueOf(unescapeMapKey(f)).Convert(t.Key()), vv)
		}
	case n.Kind == ir.ListKind:
		for _, entry := range n.Values {
			kn, vn := entry.Get(mapKeyField), entry.Get(mapValueField)
			if kn == nil || vn == nil {
				return reflect.Value{}, &TypeError{FieldPath: entry.Path(), Message: "map entry needs k and v"}
			}
			kv, err := c.Deserialize(kn, t.Key())
			if err != nil {
				return reflect.Value{}, err
			}
			vv, err := c.Deserialize(vn, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			m.SetMapIndex(kv, vv)
		}
	default:
		return reflect.Value{}, typeErr(n, t)
	}
	return m, nil
}
