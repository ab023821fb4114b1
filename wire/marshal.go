package wire

import (
	"bytes"

	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
)

// Marshal encodes the document n in mode m.
func Marshal(n *ir.Node, m format.Mode) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(n, &buf, EncodeMode(m)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document encoded in mode m. Trailing bytes after the
// document are an error.
func Unmarshal(b []byte, m format.Mode) (*ir.Node, error) {
	r := bytes.NewReader(b)
	n, err := Decode(r, DecodeMode(m))
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, &DecodeError{Offset: int64(len(b) - r.Len()), Err: ErrCorruptStream}
	}
	return n, nil
}
