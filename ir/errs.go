package ir

import "errors"

var (
	// ErrStructure is returned for operations that are invalid for a node's
	// kind or that would break the single-parent tree invariant.
	ErrStructure = errors.New("structural violation")

	// ErrRange is returned when a scalar does not fit the requested width.
	ErrRange = errors.New("value out of range")
)
