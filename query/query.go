// Package query selects nodes of a finished tree with expr-lang predicates.
//
// A predicate is evaluated once per node, in pre-order, against an [Env]
// describing that node:
//
//	Kind == "String" && Key == "name"
//	Depth == 1 && Len > 2
//	Kind in ["I32", "I64"] && Value < 0
//	Has("$id")
//
// Queries never modify the tree.
package query

import (
	"fmt"
	"math"
	"os"

	"github.com/signadot/ograph/debug"
	"github.com/signadot/ograph/ir"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the environment a predicate sees for one node.
type Env struct {
	// Kind is the kind name, for example "U8" or "Compound".
	Kind string
	// Key is the field name under a compound parent, or "".
	Key string
	// Index is the position under a list parent, or -1.
	Index int
	// Depth is the distance from the queried root.
	Depth int
	Path  string
	// Value is the leaf payload. Integers fitting an int are ints, other
	// unsigned values uint64, floats and decimals float64. It is nil for
	// containers and Null.
	Value any
	Len   int

	node *ir.Node
}

// Has reports whether the node is a compound with the given key.
func (e Env) Has(key string) bool {
	return e.node.Kind == ir.CompoundKind && e.node.Has(key)
}

// Field returns the value under key as Value would present it, or nil.
func (e Env) Field(key string) any {
	if e.node.Kind != ir.CompoundKind {
		return nil
	}
	c := e.node.Get(key)
	if c == nil {
		return nil
	}
	return value(c)
}

func value(n *ir.Node) any {
	switch {
	case n.Kind.IsSigned():
		return int(n.Int)
	case n.Kind.IsUnsigned():
		if n.Uint <= math.MaxInt {
			return int(n.Uint)
		}
		return n.Uint
	case n.Kind.IsFloat():
		return n.Float
	case n.Kind == ir.DecimalKind:
		return n.Decimal.Float64()
	}
	return n.Scalar()
}

func newEnv(n *ir.Node, depth int) Env {
	env := Env{
		Kind:  n.Kind.String(),
		Index: -1,
		Depth: depth,
		Path:  n.Path(),
		Value: value(n),
		Len:   n.Len(),
		node:  n,
	}
	if p := n.Parent; p != nil {
		switch p.Kind {
		case ir.CompoundKind:
			env.Key = n.ParentField
		case ir.ListKind:
			env.Index = n.ParentIndex
		}
	}
	return env
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Env(Env{}),
		expr.AsBool(),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

// Query is a compiled predicate. It is safe for concurrent use.
type Query struct {
	src string
	prg *vm.Program
}

// Compile compiles a boolean predicate over [Env].
func Compile(predicate string) (*Query, error) {
	prg, err := expr.Compile(predicate, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("compiling query %q: %w", predicate, err)
	}
	return &Query{src: predicate, prg: prg}, nil
}

func (q *Query) String() string { return q.src }

func (q *Query) match(n *ir.Node, depth int) (bool, error) {
	res, err := expr.Run(q.prg, newEnv(n, depth))
	if err != nil {
		return false, fmt.Errorf("query %q at %s: %w", q.src, n.Path(), err)
	}
	b, _ := res.(bool)
	return b, nil
}

// Match evaluates the predicate against n alone, at depth 0.
func (q *Query) Match(n *ir.Node) (bool, error) {
	return q.match(n, 0)
}

// Find returns every node under root, root included, matching the
// predicate, in pre-order.
func (q *Query) Find(root *ir.Node) ([]*ir.Node, error) {
	var (
		res   []*ir.Node
		depth int
	)
	err := root.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if isPost {
			depth--
			return false, nil
		}
		ok, err := q.match(n, depth)
		if err != nil {
			return false, err
		}
		if ok {
			res = append(res, n)
		}
		depth++
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if debug.Query() {
		debug.Logf("query %q matched %d nodes under %s\n", q.src, len(res), root.Path())
	}
	return res, nil
}

// Filter returns the nodes of ns matching the predicate, each evaluated at
// depth 0.
func (q *Query) Filter(ns []*ir.Node) ([]*ir.Node, error) {
	var res []*ir.Node
	for _, n := range ns {
		ok, err := q.match(n, 0)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, n)
		}
	}
	return res, nil
}

// Find compiles predicate and runs it over root.
func Find(root *ir.Node, predicate string) ([]*ir.Node, error) {
	q, err := Compile(predicate)
	if err != nil {
		return nil, err
	}
	return q.Find(root)
}
