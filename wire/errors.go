package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptStream is returned for streams that cannot have been
	// produced by Encode: unknown kind bytes, invalid dictionary codes and
	// malformed lengths. Decoding stops at the first such error.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrNotCompound is returned when a document root is not a Compound.
	ErrNotCompound = errors.New("document root must be a compound")

	errOverflow = errors.New("varint overflows 64 bits")
)

// DecodeError carries the stream offset at which decoding failed.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: decode at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
