package gomap

import (
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/signadot/ograph/ir"
)

// objectFormat is the reflective fallback. It handles structs and pointers
// to structs. Pointers have identity: each distinct pointer is written once
// with a $id and later occurrences become {"$id": n} references. Struct
// values have no identity and never carry $id.
type objectFormat struct{}

func (objectFormat) Name() string { return "object" }

func (objectFormat) CanHandle(reflect.Type) bool { return true }

func idNode(id int) *ir.Node {
	if id <= math.MaxInt32 {
		return ir.FromI32(int32(id))
	}
	return ir.FromI64(int64(id))
}

func backRef(id int) *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{{Key: IDKey, Val: idNode(id)}})
}

func (objectFormat) Serialize(c *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	switch {
	case v.Kind() == reflect.Struct:
		return c.serializeObject(v)
	case v.Kind() == reflect.Pointer && v.Type().Elem().Kind() == reflect.Struct:
	default:
		return nil, &MarshalError{FieldPath: c.fieldPath(), Message: "no format for " + v.Type().String(), Err: ErrNotRegistered}
	}
	if v.IsNil() {
		return ir.Null(), nil
	}
	if id, ok := c.ID(v); ok {
		return backRef(id), nil
	}
	id, err := c.Register(v)
	if err != nil {
		return nil, err
	}
	c.BeginDependencies()
	n, err := c.serializeObject(v)
	if err == nil {
		err = n.Add(IDKey, idNode(id))
	}
	if err != nil {
		c.EndDependencies(nil)
		return nil, err
	}
	c.EndDependencies(n)
	return n, nil
}

// hookValue returns the receiver to check for hook interfaces.
func hookValue(v reflect.Value) any {
	if v.Kind() != reflect.Pointer && v.CanAddr() {
		return v.Addr().Interface()
	}
	return v.Interface()
}

// serializeObject writes the fields of a struct or pointer to struct.
func (c *Context) serializeObject(v reflect.Value) (*ir.Node, error) {
	recv := hookValue(v)
	if bs, ok := recv.(BeforeSerializer); ok {
		if err := bs.BeforeSerialize(); err != nil {
			return nil, &MarshalError{FieldPath: c.fieldPath(), Message: "BeforeSerialize failed", Err: err}
		}
	}
	if gm, ok := recv.(GraphMarshaler); ok {
		n, err := gm.MarshalGraph(c)
		if err != nil {
			return nil, &MarshalError{FieldPath: c.fieldPath(), Message: "MarshalGraph failed", Err: err}
		}
		if n == nil {
			n = ir.Null()
		}
		if n.Kind != ir.CompoundKind || n.Has(ValueKey) {
			if n.Parent != nil {
				n = n.Clone()
			}
			n = ir.FromKeyVals([]ir.KeyVal{{Key: ValueKey, Val: n}})
		}
		return n, nil
	}

	sv := reflect.Indirect(v)
	d, err := c.describe(sv.Type())
	if err != nil {
		return nil, &MarshalError{FieldPath: c.fieldPath(), Message: "invalid field metadata", Err: err}
	}
	res := ir.NewCompound()
	for i := range d.fields {
		fd := &d.fields[i]
		fv := sv.FieldByIndex(fd.index)
		if isNil(fv) {
			if !fd.omitNull {
				if err := res.Add(fd.name, ir.Null()); err != nil {
					return nil, err
				}
			}
			continue
		}
		c.pushPath(fd.name)
		fn, err := c.serializeField(fd, fv)
		path := c.fieldPath()
		c.popPath()
		if err != nil {
			c.logger.Warn("skipping field", "field", path, "type", fd.typ.String(), "err", err)
			continue
		}
		if err := res.Add(fd.name, fn); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *Context) serializeField(fd *fieldDesc, fv reflect.Value) (*ir.Node, error) {
	if fd.dependency {
		id, ok := fv.Interface().(uuid.UUID)
		if !ok {
			return nil, &MarshalError{FieldPath: c.fieldPath(), Message: "dependency field must be a uuid.UUID", Err: ErrFieldConversion}
		}
		if id != uuid.Nil {
			if err := c.AddDependency(id); err != nil {
				return nil, err
			}
		}
	}
	return c.Serialize(fd.typ, fv)
}

func (objectFormat) Deserialize(c *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	if n.Kind != ir.CompoundKind {
		return reflect.Value{}, typeErr(n, t)
	}
	isPtr := t.Kind() == reflect.Pointer
	st := t
	if isPtr {
		st = t.Elem()
	}
	if st.Kind() != reflect.Struct {
		return reflect.Value{}, &UnmarshalError{FieldPath: n.Path(), Message: "no format for " + t.String(), Err: ErrNotRegistered}
	}
	id, hasID := nodeID(n)
	if hasID {
		if obj, ok := c.idToObject[id]; ok {
			return assign(obj, t, n)
		}
	}
	// zero allocation, bound before any field is read so references back
	// to it from below resolve to this instance
	p := reflect.New(st)
	if hasID {
		c.Bind(id, p)
	}
	if err := c.populateObject(p, n); err != nil {
		return reflect.Value{}, err
	}
	if ad, ok := p.Interface().(AfterDeserializer); ok {
		if err := ad.AfterDeserialize(); err != nil {
			return reflect.Value{}, &UnmarshalError{FieldPath: n.Path(), Message: "AfterDeserialize failed", Err: err}
		}
	}
	if isPtr {
		return p, nil
	}
	return p.Elem(), nil
}

func reservedKey(k string) bool {
	return k == IDKey || k == TypeKey
}

type fieldMatch struct {
	at int
	fd *fieldDesc
}

// matchFields locates the node entry for each field: exact name first,
// then a case-insensitive match, then aliases from most recent to oldest.
// Matches are returned in node order.
func matchFields(d *typeDesc, n *ir.Node) []fieldMatch {
	claimed := make([]bool, len(n.Fields))
	found := make([]int, len(d.fields))
	exact := make(map[string]int, len(n.Fields))
	for i, f := range n.Fields {
		if reservedKey(f) {
			claimed[i] = true
			continue
		}
		exact[f] = i
	}
	for i := range d.fields {
		found[i] = -1
		if at, ok := exact[d.fields[i].name]; ok {
			found[i] = at
			claimed[at] = true
		}
	}
	claim := func(i int, match func(string) bool) {
		for at, f := range n.Fields {
			if !claimed[at] && match(f) {
				found[i] = at
				claimed[at] = true
				return
			}
		}
	}
	for i := range d.fields {
		if found[i] < 0 {
			claim(i, func(f string) bool { return strings.EqualFold(f, d.fields[i].name) })
		}
	}
	for i := range d.fields {
		for j := len(d.fields[i].aliases) - 1; j >= 0 && found[i] < 0; j-- {
			alias := d.fields[i].aliases[j]
			claim(i, func(f string) bool { return f == alias })
		}
	}
	res := make([]fieldMatch, 0, len(d.fields))
	for i, at := range found {
		if at >= 0 {
			res = append(res, fieldMatch{at: at, fd: &d.fields[i]})
		}
	}
	slices.SortFunc(res, func(a, b fieldMatch) int { return a.at - b.at })
	return res
}

// populateObject fills the struct p points to from n. Fields that fail
// to convert are logged and left at their zero value.
func (c *Context) populateObject(p reflect.Value, n *ir.Node) error {
	if gu, ok := p.Interface().(GraphUnmarshaler); ok {
		payload := n
		if vn := n.Get(ValueKey); vn != nil {
			payload = vn
		}
		if err := gu.UnmarshalGraph(c, payload); err != nil {
			return &UnmarshalError{FieldPath: n.Path(), Message: "UnmarshalGraph failed", Err: err}
		}
		return nil
	}
	sv := p.Elem()
	d, err := c.describe(sv.Type())
	if err != nil {
		return &UnmarshalError{FieldPath: n.Path(), Message: "invalid field metadata", Err: err}
	}
	for _, m := range matchFields(d, n) {
		child := n.Values[m.at]
		fv, err := c.Deserialize(child, m.fd.typ)
		if err != nil {
			c.logger.Warn("field left at default", "field", child.Path(), "type", m.fd.typ.String(), "err", err)
			continue
		}
		sv.FieldByIndex(m.fd.index).Set(fv)
	}
	return nil
}
