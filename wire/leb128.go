package wire

import (
	"encoding/binary"
	"io"
)

// AppendUvarint appends the unsigned LEB128 encoding of v.
func AppendUvarint(b []byte, v uint64) []byte {
	return binary.AppendUvarint(b, v)
}

// AppendVarint appends the signed LEB128 encoding of v: two's complement,
// seven bits per byte, continuation bit on all but the last byte, and the
// sign taken from bit 6 of the last byte.
func AppendVarint(b []byte, v int64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			return append(b, c)
		}
		b = append(b, c|0x80)
	}
}

// ReadUvarint reads an unsigned LEB128 value.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var res uint64
	var shift uint
	for i := 0; i < binary.MaxVarintLen64; i++ {
		c, err := r.ReadByte()
		if err != nil {
			return 0, eofToUnexpected(err, i)
		}
		if i == binary.MaxVarintLen64-1 && c > 1 {
			return 0, errOverflow
		}
		res |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return res, nil
		}
		shift += 7
	}
	return 0, errOverflow
}

// ReadVarint reads a signed LEB128 value.
func ReadVarint(r io.ByteReader) (int64, error) {
	var res int64
	var shift uint
	for i := 0; i < binary.MaxVarintLen64; i++ {
		c, err := r.ReadByte()
		if err != nil {
			return 0, eofToUnexpected(err, i)
		}
		res |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			if shift < 64 && c&0x40 != 0 {
				res |= -1 << shift
			}
			return res, nil
		}
	}
	return 0, errOverflow
}

func eofToUnexpected(err error, consumed int) error {
	if err == io.EOF && consumed > 0 {
		return io.ErrUnexpectedEOF
	}
	return err
}
