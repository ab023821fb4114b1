package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var hashSeed = maphash.MakeSeed()

// Hash returns a 64-bit hash of the node, stable within a process.
// Structurally equal nodes hash equally.
// It panics if n is nil.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("ir: Hash called on nil node")
	}

	var h maphash.Hash
	h.SetSeed(hashSeed)
	h.WriteByte(byte(n.Kind))

	var b [8]byte
	switch n.Kind {
	case NullKind:
	case BoolKind:
		if n.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case I8Kind, I16Kind, I32Kind, I64Kind:
		binary.LittleEndian.PutUint64(b[:], uint64(n.Int))
		h.Write(b[:])
	case U8Kind, U16Kind, U32Kind, U64Kind:
		binary.LittleEndian.PutUint64(b[:], n.Uint)
		h.Write(b[:])
	case F32Kind, F64Kind:
		f := n.Float
		if math.IsNaN(f) {
			f = math.NaN()
		}
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		h.Write(b[:])
	case DecimalKind:
		d := n.Decimal.Bytes()
		h.Write(d[:])
	case StringKind:
		h.WriteString(n.String)
	case ByteArrayKind:
		h.Write(n.Bytes)
	case ListKind:
		for _, v := range n.Values {
			binary.LittleEndian.PutUint64(b[:], v.Hash())
			h.Write(b[:])
		}
	case CompoundKind:
		for i, field := range n.Fields {
			h.WriteString(field)
			h.WriteByte(0)
			binary.LittleEndian.PutUint64(b[:], n.Values[i].Hash())
			h.Write(b[:])
		}
	}
	return h.Sum64()
}
