package format

import (
	"errors"
	"fmt"
)

type Mode int

const (
	PerformanceMode Mode = iota
	SizeMode
)

var ErrBadFormat = errors.New("bad format")

func ParseMode(v string) (Mode, error) {
	m, ok := map[string]Mode{
		"p":           PerformanceMode,
		"perf":        PerformanceMode,
		"performance": PerformanceMode,
		"s":           SizeMode,
		"size":        SizeMode,
	}[v]
	if ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (m Mode) String() string {
	d, err := m.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case PerformanceMode:
		return []byte("performance"), nil
	case SizeMode:
		return []byte("size"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a mode>", m)
	}
}

func (m *Mode) UnmarshalText(d []byte) error {
	pm, err := ParseMode(string(d))
	if err != nil {
		return err
	}
	*m = pm
	return nil
}

func (m Mode) IsSize() bool { return m == SizeMode }

// Suffix returns the conventional file extension for m.
func (m Mode) Suffix() string {
	if m == SizeMode {
		return ".ogz"
	}
	return ".og"
}
