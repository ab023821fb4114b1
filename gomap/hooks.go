package gomap

import "github.com/signadot/ograph/ir"

// GraphMarshaler is implemented by types that produce their own node. The
// object is registered for identity before MarshalGraph runs, so nested
// references back to it become $id references.
type GraphMarshaler interface {
	MarshalGraph(c *Context) (*ir.Node, error)
}

// GraphUnmarshaler is implemented by pointer types that populate themselves
// from a node. The receiver is registered under its $id before
// UnmarshalGraph runs.
type GraphUnmarshaler interface {
	UnmarshalGraph(c *Context, n *ir.Node) error
}

// BeforeSerializer is called before a value's fields are read.
type BeforeSerializer interface {
	BeforeSerialize() error
}

// AfterDeserializer is called once a value's fields are populated.
type AfterDeserializer interface {
	AfterDeserialize() error
}
