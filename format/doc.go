// Package format names the binary encoding modes.
//
// # Usage
//
//	m, err := format.ParseMode("size")
//	data, err := wire.Marshal(node, m)
//
// PerformanceMode writes fixed width integers and length prefixes;
// SizeMode writes variable length integers and dictionary compressed
// strings.
//
// # Related Packages
//
//   - github.com/signadot/ograph/wire - binary codec
package format
