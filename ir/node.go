package ir

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

type Node struct {
	Kind        Kind
	Parent      *Node
	ParentIndex int
	ParentField string

	// Fields and Values are parallel for CompoundKind; ListKind uses Values
	// only. Mutate them through Add, Set, Remove, ListAdd, ListInsert and
	// ListRemove so parent and position caches stay consistent.
	Fields []string
	Values []*Node

	Int     int64
	Uint    uint64
	Float   float64
	Decimal Decimal
	Bool    bool
	String  string
	Bytes   []byte

	fieldIndex map[string]int
	listeners  []func(Change)
}

func Null() *Node {
	return &Node{Kind: NullKind}
}

func FromU8(v uint8) *Node {
	return &Node{Kind: U8Kind, Uint: uint64(v)}
}

func FromI8(v int8) *Node {
	return &Node{Kind: I8Kind, Int: int64(v)}
}

func FromI16(v int16) *Node {
	return &Node{Kind: I16Kind, Int: int64(v)}
}

func FromU16(v uint16) *Node {
	return &Node{Kind: U16Kind, Uint: uint64(v)}
}

func FromI32(v int32) *Node {
	return &Node{Kind: I32Kind, Int: int64(v)}
}

func FromU32(v uint32) *Node {
	return &Node{Kind: U32Kind, Uint: uint64(v)}
}

func FromI64(v int64) *Node {
	return &Node{Kind: I64Kind, Int: v}
}

func FromU64(v uint64) *Node {
	return &Node{Kind: U64Kind, Uint: v}
}

func FromF32(v float32) *Node {
	return &Node{Kind: F32Kind, Float: float64(v)}
}

func FromF64(v float64) *Node {
	return &Node{Kind: F64Kind, Float: v}
}

func FromDecimal(d Decimal) *Node {
	return &Node{Kind: DecimalKind, Decimal: d}
}

func FromBool(v bool) *Node {
	return &Node{Kind: BoolKind, Bool: v}
}

func FromString(v string) *Node {
	return &Node{Kind: StringKind, String: v}
}

// FromBytes makes a ByteArray node. The slice is not copied.
func FromBytes(v []byte) *Node {
	if v == nil {
		v = []byte{}
	}
	return &Node{Kind: ByteArrayKind, Bytes: v}
}

func NewList() *Node {
	return &Node{Kind: ListKind}
}

func NewCompound() *Node {
	return &Node{Kind: CompoundKind}
}

// FromSlice makes a List node holding ySlice. It panics if any element is
// already attached elsewhere.
func FromSlice(ySlice []*Node) *Node {
	res := &Node{Kind: ListKind, Values: make([]*Node, 0, len(ySlice))}
	for _, y := range ySlice {
		if err := res.ListAdd(y); err != nil {
			panic(err)
		}
	}
	return res
}

// FromMap makes a Compound node with the keys of yMap in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	res := NewCompound()
	for _, key := range slices.Sorted(maps.Keys(yMap)) {
		if err := res.Add(key, yMap[key]); err != nil {
			panic(err)
		}
	}
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals makes a Compound node preserving the order of kvs.
func FromKeyVals(kvs []KeyVal) *Node {
	res := NewCompound()
	for _, kv := range kvs {
		if err := res.Add(kv.Key, kv.Val); err != nil {
			panic(err)
		}
	}
	return res
}

// Clone returns a deep copy of y with no parent. The copy shares no mutable
// state with y and carries no change listeners.
func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	dst := &Node{
		Kind:    y.Kind,
		Int:     y.Int,
		Uint:    y.Uint,
		Float:   y.Float,
		Decimal: y.Decimal,
		Bool:    y.Bool,
		String:  y.String,
	}
	if y.Bytes != nil {
		dst.Bytes = slices.Clone(y.Bytes)
	}
	if y.Fields != nil {
		dst.Fields = slices.Clone(y.Fields)
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, yv := range y.Values {
			c := yv.Clone()
			c.Parent = dst
			if y.Kind == CompoundKind {
				c.ParentIndex = -1
				c.ParentField = y.Fields[i]
			} else {
				c.ParentIndex = i
			}
			dst.Values[i] = c
		}
	}
	return dst
}

// Position returns the cached position of y inside its parent: a list
// index or a compound key. ok is false for a detached node.
func (y *Node) Position() (index int, key string, ok bool) {
	if y.Parent == nil {
		return 0, "", false
	}
	if y.Parent.Kind == CompoundKind {
		return -1, y.ParentField, true
	}
	return y.ParentIndex, "", true
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Len returns the number of children of a container, or 0 for leaves.
func (y *Node) Len() int {
	return len(y.Values)
}

func (y *Node) Keys() []string {
	return slices.Clone(y.Fields)
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

func (y *Node) kindErr(op string, want ...Kind) error {
	return fmt.Errorf("%w: %s on %s node (want %v)", ErrStructure, op, y.Kind, want)
}

// AsInt64 returns any integer payload as an int64.
func (y *Node) AsInt64() (int64, error) {
	switch {
	case y.Kind.IsSigned():
		return y.Int, nil
	case y.Kind.IsUnsigned():
		if y.Uint > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d does not fit int64", ErrRange, y.Uint)
		}
		return int64(y.Uint), nil
	}
	return 0, y.kindErr("AsInt64", I8Kind, I16Kind, I32Kind, I64Kind, U8Kind, U16Kind, U32Kind, U64Kind)
}

// AsUint64 returns any non-negative integer payload as a uint64.
func (y *Node) AsUint64() (uint64, error) {
	switch {
	case y.Kind.IsUnsigned():
		return y.Uint, nil
	case y.Kind.IsSigned():
		if y.Int < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrRange, y.Int)
		}
		return uint64(y.Int), nil
	}
	return 0, y.kindErr("AsUint64", U8Kind, U16Kind, U32Kind, U64Kind, I8Kind, I16Kind, I32Kind, I64Kind)
}

// AsFloat64 returns a float, integer or decimal payload as a float64.
func (y *Node) AsFloat64() (float64, error) {
	switch {
	case y.Kind.IsFloat():
		return y.Float, nil
	case y.Kind.IsSigned():
		return float64(y.Int), nil
	case y.Kind.IsUnsigned():
		return float64(y.Uint), nil
	case y.Kind == DecimalKind:
		return y.Decimal.Float64(), nil
	}
	return 0, y.kindErr("AsFloat64", F32Kind, F64Kind)
}

func (y *Node) AsBool() (bool, error) {
	if y.Kind != BoolKind {
		return false, y.kindErr("AsBool", BoolKind)
	}
	return y.Bool, nil
}

func (y *Node) AsString() (string, error) {
	if y.Kind != StringKind {
		return "", y.kindErr("AsString", StringKind)
	}
	return y.String, nil
}

func (y *Node) AsBytes() ([]byte, error) {
	if y.Kind != ByteArrayKind {
		return nil, y.kindErr("AsBytes", ByteArrayKind)
	}
	return y.Bytes, nil
}

func (y *Node) AsDecimal() (Decimal, error) {
	if y.Kind != DecimalKind {
		return Decimal{}, y.kindErr("AsDecimal", DecimalKind)
	}
	return y.Decimal, nil
}

func (y *Node) IsNull() bool {
	return y == nil || y.Kind == NullKind
}
