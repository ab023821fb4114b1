package ir

import (
	"bytes"
	"cmp"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// Nodes of different kinds order by kind discriminant. Compounds compare
// entry by entry in insertion order.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}

	switch a.Kind {
	case I8Kind, I16Kind, I32Kind, I64Kind:
		return cmp.Compare(a.Int, b.Int)
	case U8Kind, U16Kind, U32Kind, U64Kind:
		return cmp.Compare(a.Uint, b.Uint)
	case F32Kind, F64Kind:
		return cmp.Compare(a.Float, b.Float)
	case DecimalKind:
		return a.Decimal.Compare(b.Decimal)
	case StringKind:
		return strings.Compare(a.String, b.String)
	case ByteArrayKind:
		return bytes.Compare(a.Bytes, b.Bytes)
	case BoolKind:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case ListKind:
		return compareLists(a, b)
	case CompoundKind:
		return compareCompounds(a, b)
	}
	return 0
}

// Equal reports whether a and b are structurally equal. NaN equals NaN.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

func compareLists(a, b *Node) int {
	lenA := len(a.Values)
	lenB := len(b.Values)
	for i := range min(lenA, lenB) {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareCompounds(a, b *Node) int {
	lenA := len(a.Fields)
	lenB := len(b.Fields)
	for i := range min(lenA, lenB) {
		if c := strings.Compare(a.Fields[i], b.Fields[i]); c != 0 {
			return c
		}
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}
