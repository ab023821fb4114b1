package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
)

// flushAt is the buffered size after which the encoder hands bytes to the
// underlying writer.
const flushAt = 32 << 10

type EncodeOption func(*encState)

// EncodeMode selects performance or size encoding.
func EncodeMode(m format.Mode) EncodeOption {
	return func(es *encState) { es.mode = m }
}

type encState struct {
	mode format.Mode
	w    io.Writer
	buf  []byte
}

// Encode writes the document rooted at n to w. n must be a Compound.
func Encode(n *ir.Node, w io.Writer, opts ...EncodeOption) error {
	if n == nil || n.Kind != ir.CompoundKind {
		kind := ir.NullKind
		if n != nil {
			kind = n.Kind
		}
		return fmt.Errorf("%w: got %s", ErrNotCompound, kind)
	}
	return EncodeNode(n, w, opts...)
}

// EncodeNode writes n, of any kind, to w.
func EncodeNode(n *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &encState{w: w, buf: make([]byte, 0, 512)}
	for _, opt := range opts {
		opt(es)
	}
	if err := es.node(n); err != nil {
		return err
	}
	return es.flush()
}

func (es *encState) flush() error {
	if len(es.buf) == 0 {
		return nil
	}
	n, err := es.w.Write(es.buf)
	if err != nil {
		return err
	}
	if n != len(es.buf) {
		return io.ErrShortWrite
	}
	es.buf = es.buf[:0]
	return nil
}

func (es *encState) maybeFlush() error {
	if len(es.buf) < flushAt {
		return nil
	}
	return es.flush()
}

func (es *encState) signed(v int64) {
	es.buf = AppendVarint(es.buf, v)
}

func (es *encState) unsigned(v uint64) {
	es.buf = AppendUvarint(es.buf, v)
}

// count writes a length or element count.
func (es *encState) count(n int) error {
	if es.mode.IsSize() {
		es.unsigned(uint64(n))
		return nil
	}
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: length %d exceeds 32 bits", ir.ErrRange, n)
	}
	es.buf = binary.LittleEndian.AppendUint32(es.buf, uint32(n))
	return nil
}

// str writes a string value or a compound field name.
func (es *encState) str(s string) error {
	if es.mode.IsSize() {
		es.buf = appendLZW(es.buf, s)
		return nil
	}
	if err := es.count(len(s)); err != nil {
		return err
	}
	es.buf = append(es.buf, s...)
	return nil
}

func rangeErr(n *ir.Node) error {
	return fmt.Errorf("%w: %s payload %d/%d at %s", ir.ErrRange, n.Kind, n.Int, n.Uint, n.Path())
}

func (es *encState) node(n *ir.Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ir.ErrStructure)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("%w: invalid kind %d at %s", ir.ErrStructure, uint8(n.Kind), n.Path())
	}
	es.buf = append(es.buf, byte(n.Kind))
	size := es.mode.IsSize()
	le := binary.LittleEndian

	switch n.Kind {
	case ir.NullKind:
	case ir.U8Kind:
		if n.Uint > math.MaxUint8 {
			return rangeErr(n)
		}
		es.buf = append(es.buf, byte(n.Uint))
	case ir.I8Kind:
		if n.Int != int64(int8(n.Int)) {
			return rangeErr(n)
		}
		es.buf = append(es.buf, byte(int8(n.Int)))
	case ir.I16Kind:
		if n.Int != int64(int16(n.Int)) {
			return rangeErr(n)
		}
		if size {
			es.signed(n.Int)
		} else {
			es.buf = le.AppendUint16(es.buf, uint16(n.Int))
		}
	case ir.U16Kind:
		if n.Uint > math.MaxUint16 {
			return rangeErr(n)
		}
		if size {
			es.unsigned(n.Uint)
		} else {
			es.buf = le.AppendUint16(es.buf, uint16(n.Uint))
		}
	case ir.I32Kind:
		if n.Int != int64(int32(n.Int)) {
			return rangeErr(n)
		}
		if size {
			es.signed(n.Int)
		} else {
			es.buf = le.AppendUint32(es.buf, uint32(n.Int))
		}
	case ir.U32Kind:
		if n.Uint > math.MaxUint32 {
			return rangeErr(n)
		}
		if size {
			es.unsigned(n.Uint)
		} else {
			es.buf = le.AppendUint32(es.buf, uint32(n.Uint))
		}
	case ir.I64Kind:
		if size {
			es.signed(n.Int)
		} else {
			es.buf = le.AppendUint64(es.buf, uint64(n.Int))
		}
	case ir.U64Kind:
		if size {
			es.unsigned(n.Uint)
		} else {
			es.buf = le.AppendUint64(es.buf, n.Uint)
		}
	case ir.F32Kind:
		es.buf = le.AppendUint32(es.buf, math.Float32bits(float32(n.Float)))
	case ir.F64Kind:
		es.buf = le.AppendUint64(es.buf, math.Float64bits(n.Float))
	case ir.DecimalKind:
		d := n.Decimal.Bytes()
		es.buf = append(es.buf, d[:]...)
	case ir.BoolKind:
		if n.Bool {
			es.buf = append(es.buf, 1)
		} else {
			es.buf = append(es.buf, 0)
		}
	case ir.StringKind:
		if err := es.str(n.String); err != nil {
			return err
		}
	case ir.ByteArrayKind:
		if err := es.count(len(n.Bytes)); err != nil {
			return err
		}
		es.buf = append(es.buf, n.Bytes...)
	case ir.ListKind:
		if err := es.count(len(n.Values)); err != nil {
			return err
		}
		for _, v := range n.Values {
			if err := es.node(v); err != nil {
				return err
			}
		}
	case ir.CompoundKind:
		if len(n.Fields) != len(n.Values) {
			return fmt.Errorf("%w: compound at %s has %d fields and %d values", ir.ErrStructure, n.Path(), len(n.Fields), len(n.Values))
		}
		if err := es.count(len(n.Fields)); err != nil {
			return err
		}
		for i, f := range n.Fields {
			if err := es.str(f); err != nil {
				return err
			}
			if err := es.node(n.Values[i]); err != nil {
				return err
			}
		}
	}
	return es.maybeFlush()
}
