package gomap

import (
	"fmt"
	"reflect"

	"github.com/signadot/ograph/format"
)

// TypeMode controls when concrete type names are embedded as $type.
type TypeMode int

const (
	// TypeAuto stamps $type only when the runtime type cannot be recovered
	// from the requested type.
	TypeAuto TypeMode = iota
	// TypeNone never stamps $type.
	TypeNone
	// TypeAggressive stamps $type on every composite value.
	TypeAggressive
)

func ParseTypeMode(v string) (TypeMode, error) {
	m, ok := map[string]TypeMode{
		"auto":       TypeAuto,
		"none":       TypeNone,
		"aggressive": TypeAggressive,
	}[v]
	if ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: type mode %q", format.ErrBadFormat, v)
}

func (m TypeMode) String() string {
	d, err := m.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (m TypeMode) MarshalText() ([]byte, error) {
	switch m {
	case TypeAuto:
		return []byte("auto"), nil
	case TypeNone:
		return []byte("none"), nil
	case TypeAggressive:
		return []byte("aggressive"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a type mode>", int(m))
	}
}

func (m *TypeMode) UnmarshalText(d []byte) error {
	tm, err := ParseTypeMode(string(d))
	if err != nil {
		return err
	}
	*m = tm
	return nil
}

// ShouldStampType reports whether a value of type actual, requested as
// target, carries $type under mode. A nil or interface target always
// requires it under TypeAuto.
func ShouldStampType(mode TypeMode, target, actual reflect.Type) bool {
	switch mode {
	case TypeNone:
		return false
	case TypeAggressive:
		return true
	}
	if target == nil || target.Kind() == reflect.Interface {
		return true
	}
	return target != actual
}
