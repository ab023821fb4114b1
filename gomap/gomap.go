package gomap

import (
	"fmt"
	"reflect"

	"github.com/signadot/ograph/ir"
	"github.com/signadot/ograph/wire"
)

// Serialize converts v to a node, requested as its own type.
func Serialize(v any, opts ...Option) (*ir.Node, error) {
	return serialize(newConfig(opts), v, reflect.TypeOf(v))
}

// SerializeAs converts v to a node as if requested through target, which
// is typically an interface type v implements. Under TypeAuto the result
// carries $type when the dynamic type of v differs from target.
func SerializeAs(v any, target reflect.Type, opts ...Option) (*ir.Node, error) {
	return serialize(newConfig(opts), v, target)
}

func serialize(cfg *config, v any, target reflect.Type) (*ir.Node, error) {
	c := cfg.context()
	c.BeginDependencies()
	n, err := c.Serialize(target, reflect.ValueOf(v))
	if err != nil {
		c.EndDependencies(nil)
		return nil, err
	}
	deps, _ := c.EndDependencies(n)
	if cfg.deps != nil {
		*cfg.deps = deps
	}
	return n, nil
}

// Deserialize populates the value ptr points to from n.
func Deserialize(n *ir.Node, ptr any, opts ...Option) error {
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return &UnmarshalError{Message: fmt.Sprintf("need a non-nil pointer, got %T", ptr), Err: ErrMissingTypeInfo}
	}
	c := newConfig(opts).context()
	v, err := c.Deserialize(n, pv.Elem().Type())
	if err != nil {
		return err
	}
	pv.Elem().Set(v)
	return nil
}

// Marshal serializes v and encodes it with the binary codec. Documents must
// have a Compound root, so other results are written as {"$value": node}.
// A root that is itself a lone $value Compound is wrapped too, so Unmarshal
// always removes exactly one level.
func Marshal(v any, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	n, err := serialize(cfg, v, reflect.TypeOf(v))
	if err != nil {
		return nil, err
	}
	if n.Kind != ir.CompoundKind || isValueWrapper(n) {
		n = ir.FromKeyVals([]ir.KeyVal{{Key: ValueKey, Val: n}})
	}
	return wire.Marshal(n, cfg.mode)
}

func isValueWrapper(n *ir.Node) bool {
	return n.Kind == ir.CompoundKind && len(n.Fields) == 1 && n.Fields[0] == ValueKey
}

// Unmarshal decodes data written by Marshal into the value ptr points to.
func Unmarshal(data []byte, ptr any, opts ...Option) error {
	cfg := newConfig(opts)
	n, err := wire.Unmarshal(data, cfg.mode)
	if err != nil {
		return err
	}
	if isValueWrapper(n) {
		n = n.Values[0]
	}
	return Deserialize(n, ptr, opts...)
}
