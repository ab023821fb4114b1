// Package wire implements the binary codec for ir.Node trees.
//
// # Framing
//
// Every node starts with one byte holding its ir.Kind. Null has no payload.
// Scalars follow as raw bytes; ByteArray, List and Compound carry a length
// or count followed by their contents. Compound entries are written as the
// field name followed by the framed child.
//
// # Modes
//
// In format.PerformanceMode integers are fixed width little-endian and all
// lengths and counts are 4 byte unsigned integers.
//
// In format.SizeMode signed integers use signed LEB128, unsigned integers,
// lengths and counts use unsigned LEB128, and strings and field names are
// LZW compressed with a dictionary reset for every item. Floats, decimals,
// single bytes and booleans are fixed width in both modes.
//
// # Usage
//
//	var buf bytes.Buffer
//	err := wire.Encode(root, &buf, wire.EncodeMode(format.SizeMode))
//	back, err := wire.Decode(&buf, wire.DecodeMode(format.SizeMode))
//
// A document root must be a Compound. EncodeNode and DecodeNode frame a
// node of any kind.
//
// # Related Packages
//
//   - github.com/signadot/ograph/ir - IR representation
//   - github.com/signadot/ograph/format - mode names
package wire
