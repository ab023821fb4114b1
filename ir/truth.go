package ir

// Truth reports whether node holds a non-zero, non-empty value.
func Truth(node *Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind {
	case CompoundKind, ListKind:
		return len(node.Values) != 0
	case StringKind:
		return node.String != ""
	case ByteArrayKind:
		return len(node.Bytes) != 0
	case I8Kind, I16Kind, I32Kind, I64Kind:
		return node.Int != 0
	case U8Kind, U16Kind, U32Kind, U64Kind:
		return node.Uint != 0
	case F32Kind, F64Kind:
		return node.Float != 0.0
	case DecimalKind:
		return !node.Decimal.IsZero()
	case BoolKind:
		return node.Bool
	default:
		return false
	}
}

// Scalar returns the payload of a leaf node as a Go value, or nil for
// containers and Null.
func (y *Node) Scalar() any {
	switch y.Kind {
	case U8Kind:
		return uint8(y.Uint)
	case I8Kind:
		return int8(y.Int)
	case I16Kind:
		return int16(y.Int)
	case U16Kind:
		return uint16(y.Uint)
	case I32Kind:
		return int32(y.Int)
	case U32Kind:
		return uint32(y.Uint)
	case I64Kind:
		return y.Int
	case U64Kind:
		return y.Uint
	case F32Kind:
		return float32(y.Float)
	case F64Kind:
		return y.Float
	case DecimalKind:
		return y.Decimal
	case BoolKind:
		return y.Bool
	case StringKind:
		return y.String
	case ByteArrayKind:
		return y.Bytes
	}
	return nil
}
