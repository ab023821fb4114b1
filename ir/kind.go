package ir

import "fmt"

// Kind is the discriminant of a Node. The numeric values are the wire
// discriminants and must not be reordered.
type Kind uint8

const (
	NullKind Kind = iota
	U8Kind
	I8Kind
	I16Kind
	U16Kind
	I32Kind
	U32Kind
	I64Kind
	U64Kind
	F32Kind
	F64Kind
	DecimalKind
	BoolKind
	StringKind
	ByteArrayKind
	ListKind
	CompoundKind
)

var kindNames = [...]string{
	NullKind:      "Null",
	U8Kind:        "U8",
	I8Kind:        "I8",
	I16Kind:       "I16",
	U16Kind:       "U16",
	I32Kind:       "I32",
	U32Kind:       "U32",
	I64Kind:       "I64",
	U64Kind:       "U64",
	F32Kind:       "F32",
	F64Kind:       "F64",
	DecimalKind:   "Decimal",
	BoolKind:      "Bool",
	StringKind:    "String",
	ByteArrayKind: "ByteArray",
	ListKind:      "List",
	CompoundKind:  "Compound",
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("<unknown kind %d>", uint8(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: kind %d", ErrStructure, uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	for i, name := range kindNames {
		if name == string(d) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unrecognized kind %q", d)
}

// Kinds returns all kinds in discriminant order.
func Kinds() []Kind {
	res := make([]Kind, len(kindNames))
	for i := range kindNames {
		res[i] = Kind(i)
	}
	return res
}

// IsLeaf reports whether nodes of kind k carry a scalar payload.
func (k Kind) IsLeaf() bool {
	switch k {
	case ListKind, CompoundKind:
		return false
	default:
		return true
	}
}

func (k Kind) IsSigned() bool {
	switch k {
	case I8Kind, I16Kind, I32Kind, I64Kind:
		return true
	}
	return false
}

func (k Kind) IsUnsigned() bool {
	switch k {
	case U8Kind, U16Kind, U32Kind, U64Kind:
		return true
	}
	return false
}

func (k Kind) IsFloat() bool {
	return k == F32Kind || k == F64Kind
}
