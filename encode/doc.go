// Package encode renders ir trees as text and parses them back.
//
// The text form is JSON that keeps every node kind. Null, Bool, String,
// List and Compound map to their JSON counterparts; every other kind is a
// single-key object naming the kind:
//
//	{"count": {"@i32": 3}, "ratio": {"@f64": "NaN"}, "blob": {"@bytearray": "AAE="}}
//
// A Compound with a key starting with "@" is wrapped as {"@compound": {...}}
// so it cannot be mistaken for a tagged scalar. Plain JSON numbers are
// accepted on input as I64, U64 or F64.
//
// # Usage
//
//	err := encode.Encode(node, os.Stdout, encode.EncodeIndent(true))
//	node, err := encode.Parse(data)
//
//	// JSON patches apply to the text form
//	node, err = encode.Patch(node, []byte(`[{"op":"remove","path":"/name"}]`))
//
// EncodeYAML and ParseYAML give the same tree a YAML rendering with kind
// tags such as !u8.
//
// # Related Packages
//
//   - github.com/signadot/ograph/ir - tree model
//   - github.com/signadot/ograph/wire - binary codec
package encode
