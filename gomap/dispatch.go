package gomap

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"github.com/signadot/ograph/ir"
)

var (
	anyType      = reflect.TypeFor[any]()
	bytesType    = reflect.TypeFor[[]byte]()
	anySliceType = reflect.TypeFor[[]any]()
	anyMapType   = reflect.TypeFor[map[string]any]()
)

// Serialize converts v, requested as target, to a node using the format
// registered for the dynamic type of v. A nil target is treated like an
// interface target.
func (c *Context) Serialize(target reflect.Type, v reflect.Value) (*ir.Node, error) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ir.Null(), nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return ir.Null(), nil
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return ir.Null(), nil
	}
	actual := v.Type()
	f := c.registry.FormatFor(actual)
	before := c.nextID
	n, err := f.Serialize(c, target, v)
	if err != nil {
		return nil, err
	}
	c.registry.types.Learn(actual)
	if c.nextID == before && isBackRef(n) {
		return n, nil
	}
	return c.stamp(f, n, target, actual)
}

func isBackRef(n *ir.Node) bool {
	return n.Kind == ir.CompoundKind && len(n.Fields) == 1 && n.Fields[0] == IDKey
}

// stamp adds $type to n when the type mode asks for it. Objects carry it
// as a field; other nodes are wrapped as {$type, $value}.
func (c *Context) stamp(f Format, n *ir.Node, target, actual reflect.Type) (*ir.Node, error) {
	if n.Kind == ir.NullKind {
		return n, nil
	}
	if !ShouldStampType(c.typeMode, target, actual) {
		return n, nil
	}
	switch c.typeMode {
	case TypeAggressive:
		if n.Kind != ir.CompoundKind && n.Kind != ir.ListKind {
			return n, nil
		}
	case TypeAuto:
		if (target == nil || target.Kind() == reflect.Interface) && inferType(n) == actual {
			return n, nil
		}
	}
	name := ir.FromString(TypeName(actual))
	if _, ok := f.(objectFormat); ok && n.Kind == ir.CompoundKind && !n.Has(TypeKey) && !n.Has(ValueKey) {
		if err := n.Add(TypeKey, name); err != nil {
			return nil, err
		}
		return n, nil
	}
	return ir.FromKeyVals([]ir.KeyVal{{Key: TypeKey, Val: name}, {Key: ValueKey, Val: n}}), nil
}

// inferType returns the Go type a node decodes to when nothing more
// specific is requested.
func inferType(n *ir.Node) reflect.Type {
	switch n.Kind {
	case ir.BoolKind:
		return reflect.TypeFor[bool]()
	case ir.U8Kind:
		return reflect.TypeFor[uint8]()
	case ir.I8Kind:
		return reflect.TypeFor[int8]()
	case ir.I16Kind:
		return reflect.TypeFor[int16]()
	case ir.U16Kind:
		return reflect.TypeFor[uint16]()
	case ir.I32Kind:
		return reflect.TypeFor[int32]()
	case ir.U32Kind:
		return reflect.TypeFor[uint32]()
	case ir.I64Kind:
		return reflect.TypeFor[int64]()
	case ir.U64Kind:
		return reflect.TypeFor[uint64]()
	case ir.F32Kind:
		return reflect.TypeFor[float32]()
	case ir.F64Kind:
		return reflect.TypeFor[float64]()
	case ir.DecimalKind:
		return reflect.TypeFor[decimal.Decimal]()
	case ir.StringKind:
		return reflect.TypeFor[string]()
	case ir.ByteArrayKind:
		return bytesType
	case ir.ListKind:
		return anySliceType
	case ir.CompoundKind:
		return anyMapType
	}
	return nil
}

// nodeID returns the $id of a compound node.
func nodeID(n *ir.Node) (int, bool) {
	if n.Kind != ir.CompoundKind {
		return 0, false
	}
	idn := n.Get(IDKey)
	if idn == nil {
		return 0, false
	}
	id, err := idn.AsInt64()
	if err != nil || id <= 0 {
		return 0, false
	}
	return int(id), true
}

// Deserialize converts n to a value assignable to target. Objects already
// materialized under the node's $id are returned as is.
func (c *Context) Deserialize(n *ir.Node, target reflect.Type) (reflect.Value, error) {
	if n == nil || n.Kind == ir.NullKind {
		return reflect.Zero(target), nil
	}
	if id, ok := nodeID(n); ok {
		if obj, ok := c.idToObject[id]; ok {
			return assign(obj, target, n)
		}
	}
	payload, t := n, target
	if n.Kind == ir.CompoundKind {
		if tn := n.Get(TypeKey); tn != nil && tn.Kind == ir.StringKind {
			rt, err := c.registry.types.Resolve(tn.String)
			if err != nil {
				return reflect.Value{}, &UnmarshalError{FieldPath: n.Path(), Message: "cannot resolve $type", Err: err}
			}
			if rt.Kind() == reflect.Interface {
				return reflect.Value{}, &UnmarshalError{
					FieldPath: n.Path(),
					Message:   fmt.Sprintf("$type %s is an interface", rt),
					Err:       ErrUnresolvableType,
				}
			}
			t = rt
			if vn := n.Get(ValueKey); vn != nil && len(n.Fields) == 2 {
				payload = vn
			}
		}
	}
	if t.Kind() == reflect.Interface {
		t = inferType(payload)
		if t == nil {
			return reflect.Value{}, &UnmarshalError{
				FieldPath: n.Path(),
				Message:   fmt.Sprintf("no concrete type for %s into %s", payload.Kind, target),
				Err:       ErrMissingTypeInfo,
			}
		}
	}
	if !t.AssignableTo(target) && !(t.Kind() == reflect.Pointer && t.Elem().AssignableTo(target)) {
		return reflect.Value{}, &UnmarshalError{
			FieldPath: n.Path(),
			Message:   fmt.Sprintf("%s is not assignable to %s", t, target),
			Err:       ErrUnresolvableType,
		}
	}
	v, err := c.registry.FormatFor(t).Deserialize(c, payload, t)
	if err != nil {
		return reflect.Value{}, err
	}
	return assign(v, target, n)
}

// assign adapts v to target, dereferencing a pointer when target is the
// pointed-to type.
func assign(v reflect.Value, target reflect.Type, n *ir.Node) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(target), nil
	}
	if v.Type().AssignableTo(target) {
		return v, nil
	}
	if v.Kind() == reflect.Pointer && !v.IsNil() && v.Type().Elem().AssignableTo(target) {
		return v.Elem(), nil
	}
	return reflect.Value{}, &TypeError{FieldPath: n.Path(), Expected: target.String(), Actual: v.Type().String()}
}
