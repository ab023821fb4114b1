package gomap

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"
	"github.com/signadot/ograph/debug"
	"github.com/signadot/ograph/ir"
)

// Reserved compound keys.
const (
	IDKey    = "$id"
	TypeKey  = "$type"
	ValueKey = "$value"
)

// objectKey identifies a live object by address and pointer type, so a
// struct and its first field, which share an address, stay distinct.
type objectKey struct {
	addr uintptr
	typ  reflect.Type
}

// DependencySink is called with the finished tree and the dependencies
// collected for it when the outermost dependency scope closes. It may add
// to deps.
type DependencySink func(root *ir.Node, deps map[uuid.UUID]struct{})

// Context is the state of one top-level Serialize or Deserialize call: the
// identity maps, the type policy and the dependency scope. It is not safe
// for concurrent use.
type Context struct {
	objectToID map[objectKey]int
	idToObject map[int]reflect.Value
	nextID     int

	typeMode TypeMode
	registry *Registry
	meta     MetadataProvider
	logger   *slog.Logger
	descs    map[reflect.Type]*typeDesc

	depth int
	deps  map[uuid.UUID]struct{}
	sink  DependencySink

	// path of field names to the value being processed, for errors and logs
	path []string
}

// NewContext returns a Context configured by opts.
func NewContext(opts ...Option) *Context {
	cfg := newConfig(opts)
	return cfg.context()
}

func (c *Context) TypeMode() TypeMode   { return c.typeMode }
func (c *Context) Registry() *Registry  { return c.registry }
func (c *Context) Logger() *slog.Logger { return c.logger }

// ID returns the id assigned to the object v points to, if any.
func (c *Context) ID(v reflect.Value) (int, bool) {
	key, ok := keyOf(v)
	if !ok {
		return 0, false
	}
	id, ok := c.objectToID[key]
	return id, ok
}

// Register assigns the next id to the object v points to. v must be a
// non-nil pointer. Registering an object twice returns its existing id.
func (c *Context) Register(v reflect.Value) (int, error) {
	key, ok := keyOf(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no identity", ErrMissingTypeInfo, v.Type())
	}
	if id, ok := c.objectToID[key]; ok {
		return id, nil
	}
	id := c.nextID
	c.nextID++
	c.objectToID[key] = id
	c.idToObject[id] = v
	return id, nil
}

// Lookup returns the object bound to id.
func (c *Context) Lookup(id int) (reflect.Value, bool) {
	v, ok := c.idToObject[id]
	return v, ok
}

// Bind associates id with the object v points to while deserializing. It
// must be called before v's fields are populated.
func (c *Context) Bind(id int, v reflect.Value) {
	c.idToObject[id] = v
	if key, ok := keyOf(v); ok {
		c.objectToID[key] = id
	}
	if id >= c.nextID {
		c.nextID = id + 1
	}
}

func keyOf(v reflect.Value) (objectKey, bool) {
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return objectKey{}, false
	}
	return objectKey{addr: v.Pointer(), typ: v.Type()}, true
}

// BeginDependencies opens a dependency scope.
func (c *Context) BeginDependencies() {
	if c.depth == 0 {
		c.deps = map[uuid.UUID]struct{}{}
	}
	c.depth++
}

// EndDependencies closes a dependency scope. When it closes the outermost
// scope it runs the dependency sink on root and returns the collected set
// with outermost true.
func (c *Context) EndDependencies(root *ir.Node) (deps map[uuid.UUID]struct{}, outermost bool) {
	if c.depth == 0 {
		c.logger.Warn("unbalanced dependency scope")
		return nil, false
	}
	c.depth--
	if c.depth > 0 {
		return nil, false
	}
	deps = c.deps
	c.deps = nil
	if debug.Deps() {
		debug.Logf("dependency scope closed with %d ids\n", len(deps))
	}
	if c.sink != nil {
		c.sink(root, deps)
	}
	return deps, true
}

// AddDependency records an external id referenced by the graph being
// serialized.
func (c *Context) AddDependency(id uuid.UUID) error {
	if c.depth == 0 {
		return fmt.Errorf("%w: dependency %s", ErrNoDependencyScope, id)
	}
	c.deps[id] = struct{}{}
	return nil
}

// Dependencies returns the dependencies collected so far in the open scope.
func (c *Context) Dependencies() map[uuid.UUID]struct{} {
	return c.deps
}

func (c *Context) pushPath(name string) { c.path = append(c.path, name) }
func (c *Context) popPath()             { c.path = c.path[:len(c.path)-1] }

func (c *Context) fieldPath() string {
	res := "$"
	for _, p := range c.path {
		if len(p) > 0 && p[0] == '[' {
			res += p
			continue
		}
		res += "." + p
	}
	return res
}

func (c *Context) describe(t reflect.Type) (*typeDesc, error) {
	if d, ok := c.descs[t]; ok {
		return d, nil
	}
	d, err := describe(t, c.meta)
	if err != nil {
		return nil, err
	}
	c.descs[t] = d
	return d, nil
}
