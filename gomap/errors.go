package gomap

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvableType is returned when a $type name does not map to a
	// known type, or maps to an interface that cannot be instantiated.
	ErrUnresolvableType = errors.New("unresolvable type")

	// ErrFieldConversion is returned when a node cannot be converted to the
	// Go type it is assigned to.
	ErrFieldConversion = errors.New("field conversion failure")

	// ErrNotRegistered is returned when no format handles a type.
	ErrNotRegistered = errors.New("no format registered")

	// ErrMissingTypeInfo is returned when a value cannot be serialized or
	// deserialized without type information that is not available.
	ErrMissingTypeInfo = errors.New("missing type information")

	// ErrNoDependencyScope is returned by AddDependency outside of any
	// dependency scope.
	ErrNoDependencyScope = errors.New("no open dependency scope")
)

// MarshalError represents an error during serialization
type MarshalError struct {
	FieldPath string // Field path (e.g., "person.address.street")
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("marshal error: %s", e.Message)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// UnmarshalError represents an error during deserialization
type UnmarshalError struct {
	FieldPath string // Node path (e.g., "$.owner.pets[1]")
	Message   string
	Err       error
}

func (e *UnmarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("unmarshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("unmarshal error: %s", e.Message)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

// TypeError represents a mismatch between a node and the Go type it is
// decoded into. It unwraps to ErrFieldConversion.
type TypeError struct {
	FieldPath string
	Expected  string
	Actual    string
	Message   string
}

func (e *TypeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	if e.FieldPath != "" {
		return fmt.Sprintf("type error at %s: %s", e.FieldPath, msg)
	}
	return fmt.Sprintf("type error: %s", msg)
}

func (e *TypeError) Unwrap() error {
	return ErrFieldConversion
}
