package ir

import (
	"errors"
	"testing"
)

func TestNode_Path(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			name: "root node",
			node: NewCompound(),
			want: "$",
		},
		{
			name: "simple compound field",
			node: FromMap(map[string]*Node{
				"a": FromString("value"),
			}).Values[0],
			want: "$.a",
		},
		{
			name: "list element",
			node: FromSlice([]*Node{
				FromString("first"),
				FromString("second"),
			}).Values[1],
			want: "$[1]",
		},
		{
			name: "mixed compound and list",
			node: FromMap(map[string]*Node{
				"a": FromSlice([]*Node{
					FromMap(map[string]*Node{
						"b": FromString("value"),
					}),
				}),
			}).Values[0].Values[0].Values[0],
			want: "$.a[0].b",
		},
		{
			name: "field with spaces",
			node: FromMap(map[string]*Node{
				"field name": FromString("value"),
			}).Values[0],
			want: "$.'field name'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	obj := NewCompound()
	child := FromI32(7)
	if err := obj.Add("x", child); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if child.Parent != obj {
		t.Errorf("parent not set")
	}
	idx, key, ok := child.Position()
	if !ok || key != "x" || idx != -1 {
		t.Errorf("Position() = %d, %q, %v", idx, key, ok)
	}
	if got := obj.Get("x"); got != child {
		t.Errorf("Get(x) = %v", got)
	}
	if err := obj.Add("x", FromI32(8)); !errors.Is(err, ErrStructure) {
		t.Errorf("duplicate key: got %v, want ErrStructure", err)
	}
	other := NewCompound()
	if err := other.Add("y", child); !errors.Is(err, ErrStructure) {
		t.Errorf("already parented: got %v, want ErrStructure", err)
	}
	if err := other.Add("y", child.Clone()); err != nil {
		t.Errorf("clone should attach: %v", err)
	}
	if err := FromI32(1).Add("z", Null()); !errors.Is(err, ErrStructure) {
		t.Errorf("add to scalar: got %v, want ErrStructure", err)
	}
	if err := obj.Add("self", obj); !errors.Is(err, ErrStructure) {
		t.Errorf("self attach: got %v, want ErrStructure", err)
	}
}

func TestAdd_ManyKeys(t *testing.T) {
	obj := NewCompound()
	for i := range 100 {
		key := string(rune('a'+i%26)) + string(rune('A'+i/26))
		if err := obj.Add(key, FromI64(int64(i))); err != nil {
			t.Fatalf("Add(%s): %v", key, err)
		}
	}
	if got := obj.Get("cA"); got == nil || got.Int != 2 {
		t.Errorf("Get(cA) = %v", got)
	}
	if _, err := obj.Remove("cA"); err != nil {
		t.Fatal(err)
	}
	if obj.Has("cA") {
		t.Errorf("cA still present after Remove")
	}
	if got := obj.Get("dA"); got == nil || got.Int != 3 {
		t.Errorf("Get(dA) after remove = %v", got)
	}
	if err := obj.Add("aA", Null()); !errors.Is(err, ErrStructure) {
		t.Errorf("duplicate in indexed compound: got %v", err)
	}
}

func TestListAddRemove(t *testing.T) {
	list := NewList()
	nodes := []*Node{FromString("a"), FromString("b"), FromString("c"), FromString("d")}
	for _, n := range nodes {
		if err := list.ListAdd(n); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := list.ListRemove(1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != nodes[1] || removed.Parent != nil {
		t.Errorf("removed node not detached")
	}
	if _, _, ok := removed.Position(); ok {
		t.Errorf("detached node still has a position")
	}
	for i, n := range list.Values {
		if n.ParentIndex != i {
			t.Errorf("element %q has index %d, want %d", n.String, n.ParentIndex, i)
		}
	}
	if err := list.ListInsert(0, removed); err != nil {
		t.Fatal(err)
	}
	want := []string{"b", "a", "c", "d"}
	for i, n := range list.Values {
		if n.String != want[i] || n.ParentIndex != i {
			t.Errorf("[%d] = %q@%d, want %q@%d", i, n.String, n.ParentIndex, want[i], i)
		}
	}
	if _, err := list.ListRemove(9); !errors.Is(err, ErrStructure) {
		t.Errorf("out of range remove: got %v", err)
	}
	if _, err := FromString("s").Index(0); !errors.Is(err, ErrStructure) {
		t.Errorf("index a scalar: got %v", err)
	}
}

func TestDetach(t *testing.T) {
	obj := FromMap(map[string]*Node{"a": FromI64(1), "b": FromI64(2)})
	b := obj.Get("b")
	if err := b.Detach(); err != nil {
		t.Fatal(err)
	}
	if obj.Has("b") || b.Parent != nil {
		t.Errorf("b not detached")
	}
	if err := b.Detach(); err != nil {
		t.Errorf("detach of a root: %v", err)
	}
}

func TestSet(t *testing.T) {
	obj := NewCompound()
	first := FromI64(1)
	if err := obj.Set("k", first); err != nil {
		t.Fatal(err)
	}
	second := FromI64(2)
	if err := obj.Set("k", second); err != nil {
		t.Fatal(err)
	}
	if first.Parent != nil {
		t.Errorf("replaced node keeps its parent")
	}
	if obj.Len() != 1 || obj.Get("k") != second {
		t.Errorf("Set did not replace")
	}
}

func TestOnChange(t *testing.T) {
	root := NewCompound()
	inner := NewList()
	if err := root.Add("inner", inner); err != nil {
		t.Fatal(err)
	}
	var got []Change
	root.OnChange(func(c Change) { got = append(got, c) })

	leaf := FromBool(true)
	if err := inner.ListAdd(leaf); err != nil {
		t.Fatal(err)
	}
	if _, err := inner.ListRemove(0); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d changes, want 2", len(got))
	}
	if got[0].Op != Attached || got[0].Container != inner || got[0].Child != leaf || got[0].Index != 0 {
		t.Errorf("unexpected attach change %+v", got[0])
	}
	if got[1].Op != Detached || got[1].Child != leaf {
		t.Errorf("unexpected detach change %+v", got[1])
	}
}

func TestClone(t *testing.T) {
	orig := FromKeyVals([]KeyVal{
		{Key: "bytes", Val: FromBytes([]byte{1, 2, 3})},
		{Key: "list", Val: FromSlice([]*Node{FromU8(1), FromF32(2.5)})},
	})
	root := NewCompound()
	if err := root.Add("orig", orig); err != nil {
		t.Fatal(err)
	}
	c := orig.Clone()
	if c.Parent != nil {
		t.Errorf("clone has a parent")
	}
	if !Equal(orig, c) {
		t.Fatalf("clone differs from original")
	}
	c.Get("bytes").Bytes[0] = 9
	if orig.Get("bytes").Bytes[0] != 1 {
		t.Errorf("clone shares byte storage")
	}
	if c.Get("list").Values[1].Parent != c.Get("list") {
		t.Errorf("clone children not reparented")
	}
	if c.Get("list").Values[1].ParentIndex != 1 {
		t.Errorf("clone child index = %d", c.Get("list").Values[1].ParentIndex)
	}
}

func TestScalarAccessors(t *testing.T) {
	if v, err := FromU32(42).AsInt64(); err != nil || v != 42 {
		t.Errorf("AsInt64(U32) = %d, %v", v, err)
	}
	if _, err := FromU64(1 << 63).AsInt64(); !errors.Is(err, ErrRange) {
		t.Errorf("AsInt64 overflow: %v", err)
	}
	if _, err := FromI8(-1).AsUint64(); !errors.Is(err, ErrRange) {
		t.Errorf("AsUint64 negative: %v", err)
	}
	if v, err := FromI16(-3).AsFloat64(); err != nil || v != -3 {
		t.Errorf("AsFloat64(I16) = %v, %v", v, err)
	}
	if _, err := FromString("x").AsBool(); !errors.Is(err, ErrStructure) {
		t.Errorf("AsBool(String): %v", err)
	}
}
