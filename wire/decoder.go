package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/signadot/ograph/debug"
	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
)

// readChunk bounds single allocations while reading length prefixed data,
// so a corrupt length fails on EOF instead of allocating its full size.
const readChunk = 64 << 10

type DecodeOption func(*decState)

// DecodeMode selects performance or size decoding. It must match the mode
// the stream was written with.
func DecodeMode(m format.Mode) DecodeOption {
	return func(ds *decState) { ds.mode = m }
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

// countingReader tracks the stream offset for error reporting.
type countingReader struct {
	r   byteReader
	off int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.off += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.off++
	}
	return b, err
}

type decState struct {
	mode format.Mode
	r    *countingReader
	tmp  [16]byte
}

func newDecState(r io.Reader, opts []DecodeOption) *decState {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	ds := &decState{r: &countingReader{r: br}}
	for _, opt := range opts {
		opt(ds)
	}
	return ds
}

// Decode reads one document from r. The root must be a Compound. An empty
// stream yields io.EOF.
func Decode(r io.Reader, opts ...DecodeOption) (*ir.Node, error) {
	ds := newDecState(r, opts)
	n, err := ds.root()
	if err != nil {
		return nil, err
	}
	if n.Kind != ir.CompoundKind {
		return nil, &DecodeError{Offset: 0, Err: fmt.Errorf("%w: got %s", ErrNotCompound, n.Kind)}
	}
	return n, nil
}

// DecodeNode reads one framed node of any kind from r.
func DecodeNode(r io.Reader, opts ...DecodeOption) (*ir.Node, error) {
	return newDecState(r, opts).root()
}

func (ds *decState) root() (*ir.Node, error) {
	b, err := ds.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &DecodeError{Err: err}
	}
	n, err := ds.payload(ir.Kind(b))
	if err != nil {
		return nil, ds.wrap(err)
	}
	return n, nil
}

func (ds *decState) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	if errors.Is(err, errOverflow) {
		err = fmt.Errorf("%w: %w", ErrCorruptStream, err)
	}
	if debug.Wire() {
		debug.Logf("decode failed at offset %d: %v\n", ds.r.off, err)
	}
	return &DecodeError{Offset: ds.r.off, Err: err}
}

func (ds *decState) full(n int) ([]byte, error) {
	b := ds.tmp[:n]
	if _, err := io.ReadFull(ds.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (ds *decState) fixed16() (uint16, error) {
	b, err := ds.full(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (ds *decState) fixed32() (uint32, error) {
	b, err := ds.full(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (ds *decState) fixed64() (uint64, error) {
	b, err := ds.full(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (ds *decState) count() (uint64, error) {
	if ds.mode.IsSize() {
		return ReadUvarint(ds.r)
	}
	v, err := ds.fixed32()
	return uint64(v), err
}

// bytesN reads n bytes without trusting n for the allocation size.
func (ds *decState) bytesN(n uint64) ([]byte, error) {
	if n <= readChunk {
		b := make([]byte, n)
		_, err := io.ReadFull(ds.r, b)
		return b, err
	}
	var res []byte
	for n > 0 {
		chunk := min(n, readChunk)
		start := len(res)
		res = append(res, make([]byte, chunk)...)
		if _, err := io.ReadFull(ds.r, res[start:]); err != nil {
			return nil, err
		}
		n -= chunk
	}
	return res, nil
}

func (ds *decState) str() (string, error) {
	if ds.mode.IsSize() {
		return readLZW(ds.r)
	}
	n, err := ds.count()
	if err != nil {
		return "", err
	}
	b, err := ds.bytesN(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (ds *decState) signed(bits int) (int64, error) {
	if ds.mode.IsSize() {
		v, err := ReadVarint(ds.r)
		if err != nil {
			return 0, err
		}
		if bits < 64 && (v < -1<<(bits-1) || v >= 1<<(bits-1)) {
			return 0, fmt.Errorf("%w: %d overflows int%d", ErrCorruptStream, v, bits)
		}
		return v, nil
	}
	switch bits {
	case 16:
		v, err := ds.fixed16()
		return int64(int16(v)), err
	case 32:
		v, err := ds.fixed32()
		return int64(int32(v)), err
	default:
		v, err := ds.fixed64()
		return int64(v), err
	}
}

func (ds *decState) unsigned(bits int) (uint64, error) {
	if ds.mode.IsSize() {
		v, err := ReadUvarint(ds.r)
		if err != nil {
			return 0, err
		}
		if bits < 64 && v >= 1<<bits {
			return 0, fmt.Errorf("%w: %d overflows uint%d", ErrCorruptStream, v, bits)
		}
		return v, nil
	}
	switch bits {
	case 16:
		v, err := ds.fixed16()
		return uint64(v), err
	case 32:
		v, err := ds.fixed32()
		return uint64(v), err
	default:
		return ds.fixed64()
	}
}

func (ds *decState) node() (*ir.Node, error) {
	b, err := ds.r.ReadByte()
	if err != nil {
		return nil, err
	}
	return ds.payload(ir.Kind(b))
}

func (ds *decState) payload(kind ir.Kind) (*ir.Node, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind byte %#x", ErrCorruptStream, uint8(kind))
	}
	n := &ir.Node{Kind: kind}
	var err error
	switch kind {
	case ir.NullKind:
	case ir.U8Kind:
		var b byte
		b, err = ds.r.ReadByte()
		n.Uint = uint64(b)
	case ir.I8Kind:
		var b byte
		b, err = ds.r.ReadByte()
		n.Int = int64(int8(b))
	case ir.I16Kind:
		n.Int, err = ds.signed(16)
	case ir.U16Kind:
		n.Uint, err = ds.unsigned(16)
	case ir.I32Kind:
		n.Int, err = ds.signed(32)
	case ir.U32Kind:
		n.Uint, err = ds.unsigned(32)
	case ir.I64Kind:
		n.Int, err = ds.signed(64)
	case ir.U64Kind:
		n.Uint, err = ds.unsigned(64)
	case ir.F32Kind:
		var v uint32
		v, err = ds.fixed32()
		n.Float = float64(math.Float32frombits(v))
	case ir.F64Kind:
		var v uint64
		v, err = ds.fixed64()
		n.Float = math.Float64frombits(v)
	case ir.DecimalKind:
		var b []byte
		if b, err = ds.full(16); err == nil {
			n.Decimal, err = ir.DecimalFromBytes([16]byte(b))
			if err != nil {
				err = fmt.Errorf("%w: %w", ErrCorruptStream, err)
			}
		}
	case ir.BoolKind:
		var b byte
		if b, err = ds.r.ReadByte(); err == nil {
			if b > 1 {
				err = fmt.Errorf("%w: bool byte %#x", ErrCorruptStream, b)
			}
			n.Bool = b == 1
		}
	case ir.StringKind:
		n.String, err = ds.str()
	case ir.ByteArrayKind:
		var c uint64
		if c, err = ds.count(); err == nil {
			n.Bytes, err = ds.bytesN(c)
		}
	case ir.ListKind:
		err = ds.list(n)
	case ir.CompoundKind:
		err = ds.compound(n)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (ds *decState) list(n *ir.Node) error {
	c, err := ds.count()
	if err != nil {
		return err
	}
	for range c {
		child, err := ds.node()
		if err != nil {
			return err
		}
		if err := n.ListAdd(child); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decState) compound(n *ir.Node) error {
	c, err := ds.count()
	if err != nil {
		return err
	}
	for range c {
		key, err := ds.str()
		if err != nil {
			return err
		}
		child, err := ds.node()
		if err != nil {
			return err
		}
		if err := n.Add(key, child); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptStream, err)
		}
	}
	return nil
}
