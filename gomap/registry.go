package gomap

import (
	"reflect"
	"slices"
	"sync"

	"github.com/signadot/ograph/ir"
)

// Format converts values of the types it handles to and from nodes.
//
// Serialize receives the requested type, which may be an interface or nil,
// and a value of a concrete type for which CanHandle returned true.
// Deserialize receives the concrete type to produce.
type Format interface {
	Name() string
	CanHandle(t reflect.Type) bool
	Serialize(c *Context, target reflect.Type, v reflect.Value) (*ir.Node, error)
	Deserialize(c *Context, n *ir.Node, t reflect.Type) (reflect.Value, error)
}

// Registry is an ordered list of formats. The first format whose CanHandle
// accepts a type is used for it, and the reflective object format is always
// last. Lookups are cached per type; a Registry is safe for concurrent use.
type Registry struct {
	formats []Format
	types   *TypeTable
	cache   sync.Map // reflect.Type -> Format
}

// NewRegistry returns a registry with custom formats ahead of the built-in
// ones.
func NewRegistry(custom ...Format) *Registry {
	return &Registry{
		formats: append(slices.Clone(custom), builtinFormats()...),
		types:   NewTypeTable(),
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry { return NewRegistry() })

// DefaultRegistry returns the process wide registry with the built-in
// formats.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// With returns a new registry with formats prepended. It shares the type
// table of r and starts with an empty dispatch cache.
func (r *Registry) With(formats ...Format) *Registry {
	return &Registry{
		formats: append(slices.Clone(formats), r.formats...),
		types:   r.types,
	}
}

// FormatFor returns the format used for values of type t.
func (r *Registry) FormatFor(t reflect.Type) Format {
	if f, ok := r.cache.Load(t); ok {
		return f.(Format)
	}
	var res Format
	for _, f := range r.formats {
		if f.CanHandle(t) {
			res = f
			break
		}
	}
	if res == nil {
		// unreachable with the object format in place
		res = unhandled{}
	}
	actual, _ := r.cache.LoadOrStore(t, res)
	return actual.(Format)
}

// ClearCache drops all cached dispatch decisions.
func (r *Registry) ClearCache() {
	r.cache.Clear()
}

func (r *Registry) Formats() []Format {
	return slices.Clone(r.formats)
}

func (r *Registry) Types() *TypeTable {
	return r.types
}

type unhandled struct{}

func (unhandled) Name() string                { return "unhandled" }
func (unhandled) CanHandle(reflect.Type) bool { return true }

func (unhandled) Serialize(_ *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	return nil, &MarshalError{Message: "no format for " + v.Type().String(), Err: ErrNotRegistered}
}

func (unhandled) Deserialize(_ *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	return reflect.Value{}, &UnmarshalError{FieldPath: n.Path(), Message: "no format for " + t.String(), Err: ErrNotRegistered}
}
