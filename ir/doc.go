// Package ir provides the intermediate tree that object graphs are
// serialized into.
//
// # Overview
//
// Every value produced by gomap and consumed by the wire and encode codecs
// is an ir.Node tree. The tree is self-describing: identity and type
// information travel as ordinary compound entries ("$id", "$type"), so the
// codecs never need to know about Go types.
//
// # Node Structure
//
// A Node is a tagged union selected by Kind:
//
//   - Null
//   - fixed width numbers: U8, I8, I16, U16, I32, U32, I64, U64, F32, F64
//   - Decimal: 96-bit coefficient with a scale of up to 28 digits
//   - Bool, String, ByteArray
//   - List: ordered children in Values
//   - Compound: insertion ordered name/child pairs in Fields and Values
//
// Signed integers are held in Int, unsigned in Uint and both float widths
// in Float.
//
// # Creating Nodes
//
//	obj := ir.NewCompound()
//	_ = obj.Add("name", ir.FromString("rex"))
//	_ = obj.Add("legs", ir.FromI32(4))
//	arr := ir.FromSlice([]*ir.Node{
//	    ir.FromI64(1),
//	    ir.FromI64(2),
//	})
//
// # Parents and Positions
//
// Each attached node records its Parent and a cached position: ParentIndex
// inside a List, ParentField inside a Compound. A node has at most one
// parent; attaching an already attached node fails with ErrStructure and
// the caller must Clone it first. Removing a list element shifts the
// cached indexes of the siblings after it.
//
// Attach and detach operations raise a Change to every listener
// registered with OnChange on the container and its ancestors.
//
// # Comparison and Hashing
//
//	equal := ir.Equal(a, b)
//	h := a.Hash()
//
// # Thread Safety
//
// Node structures are not thread-safe. If you need to access nodes from
// multiple goroutines, you must synchronize access yourself or clone nodes
// for each goroutine.
//
// # Related Packages
//
//   - github.com/signadot/ograph/gomap - Go values to and from IR
//   - github.com/signadot/ograph/wire - binary codec
//   - github.com/signadot/ograph/encode - text codec
package ir
