package gomap

import (
	"bytes"
	"fmt"
	"math"
	"reflect"

	"github.com/signadot/ograph/ir"
)

func typeErr(n *ir.Node, t reflect.Type) error {
	return &TypeError{FieldPath: n.Path(), Expected: t.String(), Actual: n.Kind.String()}
}

func rangeErr(n *ir.Node, t reflect.Type, v any) error {
	return &TypeError{FieldPath: n.Path(), Message: fmt.Sprintf("%v overflows %s", v, t)}
}

// intNode returns the narrowest node kind matching the width of t.
func intNode(t reflect.Type, v int64) *ir.Node {
	switch t.Kind() {
	case reflect.Int8:
		return ir.FromI8(int8(v))
	case reflect.Int16:
		return ir.FromI16(int16(v))
	case reflect.Int32:
		return ir.FromI32(int32(v))
	}
	return ir.FromI64(v)
}

func uintNode(t reflect.Type, v uint64) *ir.Node {
	switch t.Kind() {
	case reflect.Uint8:
		return ir.FromU8(uint8(v))
	case reflect.Uint16:
		return ir.FromU16(uint16(v))
	case reflect.Uint32:
		return ir.FromU32(uint32(v))
	}
	return ir.FromU64(v)
}

// scalarNode converts a bool, number, string or byte slice value.
func scalarNode(v reflect.Value) (*ir.Node, bool) {
	switch v.Kind() {
	case reflect.Bool:
		return ir.FromBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intNode(v.Type(), v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintNode(v.Type(), v.Uint()), true
	case reflect.Float32:
		return ir.FromF32(float32(v.Float())), true
	case reflect.Float64:
		return ir.FromF64(v.Float()), true
	case reflect.String:
		return ir.FromString(v.String()), true
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			if v.IsNil() {
				return ir.Null(), true
			}
			return ir.FromBytes(bytes.Clone(v.Bytes())), true
		}
	}
	return nil, false
}

// setScalar stores n into dst, converting between numeric widths when the
// value fits.
func setScalar(dst reflect.Value, n *ir.Node) error {
	t := dst.Type()
	switch t.Kind() {
	case reflect.Bool:
		b, err := n.AsBool()
		if err != nil {
			return typeErr(n, t)
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := n.AsInt64()
		if err != nil {
			return typeErr(n, t)
		}
		if dst.OverflowInt(i) {
			return rangeErr(n, t, i)
		}
		dst.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := n.AsUint64()
		if err != nil {
			return typeErr(n, t)
		}
		if dst.OverflowUint(u) {
			return rangeErr(n, t, u)
		}
		dst.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := n.AsFloat64()
		if err != nil {
			return typeErr(n, t)
		}
		if t.Kind() == reflect.Float32 && !math.IsInf(f, 0) && !math.IsNaN(f) && dst.OverflowFloat(f) {
			return rangeErr(n, t, f)
		}
		dst.SetFloat(f)
	case reflect.String:
		s, err := n.AsString()
		if err != nil {
			return typeErr(n, t)
		}
		dst.SetString(s)
	case reflect.Slice:
		if n.Kind == ir.NullKind {
			dst.SetZero()
			return nil
		}
		b, err := n.AsBytes()
		if err != nil {
			return typeErr(n, t)
		}
		dst.SetBytes(bytes.Clone(b))
	default:
		return typeErr(n, t)
	}
	return nil
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
