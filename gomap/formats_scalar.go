package gomap

import (
	"container/list"
	"encoding"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signadot/ograph/ir"
)

var (
	timeType        = reflect.TypeFor[time.Time]()
	durationType    = reflect.TypeFor[time.Duration]()
	uuidType        = reflect.TypeFor[uuid.UUID]()
	decimalType     = reflect.TypeFor[decimal.Decimal]()
	irDecimalType   = reflect.TypeFor[ir.Decimal]()
	stringerType    = reflect.TypeFor[fmt.Stringer]()
	unmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	fixedLayoutType = reflect.TypeFor[FixedLayout]()
	linkedListType  = reflect.TypeFor[*list.List]()
	emptyStructType = reflect.TypeFor[struct{}]()
)

func builtinFormats() []Format {
	return []Format{
		primitiveFormat{},
		nullableFormat{},
		timeFormat{},
		uuidFormat{},
		decimalFormat{},
		enumFormat{},
		setFormat{},
		fixedLayoutFormat{},
		arrayFormat{},
		sliceFormat{},
		linkedListFormat{},
		mapFormat{},
		objectFormat{},
	}
}

// primitiveFormat handles booleans, numbers, strings and byte slices.
type primitiveFormat struct{}

func (primitiveFormat) Name() string { return "primitive" }

func (primitiveFormat) CanHandle(t reflect.Type) bool {
	if t == durationType || isEnum(t) {
		return false
	}
	if t.Kind() == reflect.Slice {
		return t.Elem().Kind() == reflect.Uint8
	}
	return isScalarKind(t.Kind())
}

func (primitiveFormat) Serialize(_ *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	n, ok := scalarNode(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a primitive", ErrNotRegistered, v.Type())
	}
	return n, nil
}

func (primitiveFormat) Deserialize(_ *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	if err := setScalar(v, n); err != nil {
		return reflect.Value{}, err
	}
	return v, nil
}

// identityStruct reports whether pointers to t are objects with identity,
// rather than optional values.
func identityStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	switch t {
	case timeType, decimalType, irDecimalType:
		return false
	}
	return !t.Implements(fixedLayoutType)
}

// nullableFormat handles pointers to values without identity, such as
// *int or *time.Time.
type nullableFormat struct{}

func (nullableFormat) Name() string { return "nullable" }

func (nullableFormat) CanHandle(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t != linkedListType && !identityStruct(t.Elem())
}

func (nullableFormat) Serialize(c *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	if v.IsNil() {
		return ir.Null(), nil
	}
	return c.Serialize(v.Type().Elem(), v.Elem())
}

func (nullableFormat) Deserialize(c *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	if n.Kind == ir.NullKind {
		return reflect.Zero(t), nil
	}
	ev, err := c.Deserialize(n, t.Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(t.Elem())
	p.Elem().Set(ev)
	return p, nil
}

// timeFormat writes time.Time as an RFC 3339 string with nanoseconds and
// time.Duration as I64 nanoseconds.
type timeFormat struct{}

func (timeFormat) Name() string { return "time" }

func (timeFormat) CanHandle(t reflect.Type) bool {
	return t == timeType || t == durationType
}

func (timeFormat) Serialize(_ *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	if v.Type() == durationType {
		return ir.FromI64(v.Int()), nil
	}
	return ir.FromString(v.Interface().(time.Time).Format(time.RFC3339Nano)), nil
}

func (timeFormat) Deserialize(_ *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	if t == durationType {
		if n.Kind == ir.StringKind {
			d, err := time.ParseDuration(n.String)
			if err != nil {
				return reflect.Value{}, &TypeError{FieldPath: n.Path(), Message: err.Error()}
			}
			return reflect.ValueOf(d), nil
		}
		i, err := n.AsInt64()
		if err != nil {
			return reflect.Value{}, typeErr(n, t)
		}
		return reflect.ValueOf(time.Duration(i)), nil
	}
	switch {
	case n.Kind == ir.StringKind:
		tm, err := time.Parse(time.RFC3339Nano, n.String)
		if err != nil {
			return reflect.Value{}, &TypeError{FieldPath: n.Path(), Message: err.Error()}
		}
		return reflect.ValueOf(tm), nil
	case n.Kind.IsSigned() || n.Kind.IsUnsigned():
		i, err := n.AsInt64()
		if err != nil {
			return reflect.Value{}, typeErr(n, t)
		}
		return reflect.ValueOf(time.Unix(0, i).UTC()), nil
	}
	return reflect.Value{}, typeErr(n, t)
}

// uuidFormat writes uuid.UUID as a 16 byte ByteArray.
type uuidFormat struct{}

func (uuidFormat) Name() string { return "uuid" }

func (uuidFormat) CanHandle(t reflect.Type) bool {
	return t == uuidType
}

func (uuidFormat) Serialize(_ *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	id := v.Interface().(uuid.UUID)
	return ir.FromBytes(id[:]), nil
}

func (uuidFormat) Deserialize(_ *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch n.Kind {
	case ir.ByteArrayKind:
		id, err = uuid.FromBytes(n.Bytes)
	case ir.StringKind:
		id, err = uuid.Parse(n.String)
	default:
		return reflect.Value{}, typeErr(n, t)
	}
	if err != nil {
		return reflect.Value{}, &TypeError{FieldPath: n.Path(), Message: err.Error()}
	}
	return reflect.ValueOf(id), nil
}

// decimalFormat writes shopspring and ir decimals as Decimal nodes.
type decimalFormat struct{}

func (decimalFormat) Name() string { return "decimal" }

func (decimalFormat) CanHandle(t reflect.Type) bool {
	return t == decimalType || t == irDecimalType
}

func (decimalFormat) Serialize(_ *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	if d, ok := v.Interface().(ir.Decimal); ok {
		return ir.FromDecimal(d), nil
	}
	d, err := ir.NewDecimal(v.Interface().(decimal.Decimal))
	if err != nil {
		return nil, err
	}
	return ir.FromDecimal(d), nil
}

func (decimalFormat) Deserialize(_ *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	var d ir.Decimal
	switch {
	case n.Kind == ir.DecimalKind:
		d = n.Decimal
	case n.Kind == ir.StringKind:
		pd, err := ir.ParseDecimal(n.String)
		if err != nil {
			return reflect.Value{}, &TypeError{FieldPath: n.Path(), Message: err.Error()}
		}
		d = pd
	case n.Kind.IsSigned() || n.Kind.IsUnsigned():
		i, err := n.AsInt64()
		if err != nil {
			return reflect.Value{}, typeErr(n, t)
		}
		d, _ = ir.NewDecimal(decimal.NewFromInt(i))
	default:
		return reflect.Value{}, typeErr(n, t)
	}
	if t == irDecimalType {
		return reflect.ValueOf(d), nil
	}
	return reflect.ValueOf(d.Std()), nil
}

// isEnum reports whether t is an integer type with a textual form: a
// String method and an UnmarshalText method on its pointer.
func isEnum(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return false
	}
	return t.Implements(stringerType) && reflect.PointerTo(t).Implements(unmarshalerType)
}

// enumFormat writes enums by name.
type enumFormat struct{}

func (enumFormat) Name() string { return "enum" }

func (enumFormat) CanHandle(t reflect.Type) bool {
	return isEnum(t)
}

func (enumFormat) Serialize(_ *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	return ir.FromString(v.Interface().(fmt.Stringer).String()), nil
}

func (enumFormat) Deserialize(_ *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	p := reflect.New(t)
	if n.Kind == ir.StringKind {
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.String)); err != nil {
			return reflect.Value{}, &TypeError{FieldPath: n.Path(), Message: err.Error()}
		}
		return p.Elem(), nil
	}
	if err := setScalar(p.Elem(), n); err != nil {
		return reflect.Value{}, err
	}
	return p.Elem(), nil
}
