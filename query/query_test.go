package query

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ograph/ir"
)

func sample() *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: "name", Val: ir.FromString("root")},
		{Key: "count", Val: ir.FromU8(3)},
		{Key: "items", Val: ir.FromSlice([]*ir.Node{
			ir.FromI32(-4),
			ir.FromKeyVals([]ir.KeyVal{
				{Key: "$id", Val: ir.FromI32(1)},
				{Key: "name", Val: ir.FromString("child")},
			}),
			ir.FromF64(2.5),
		})},
	})
}

func paths(ns []*ir.Node) []string {
	res := make([]string, len(ns))
	for i, n := range ns {
		res[i] = n.Path()
	}
	return res
}

func TestFind(t *testing.T) {
	tests := []struct {
		pred string
		want []string
	}{
		{`Kind == "String"`, []string{"$.name", "$.items[1].name"}},
		{`Key == "name" && Depth == 1`, []string{"$.name"}},
		{`Index == 0`, []string{"$.items[0]"}},
		{`Kind in ["I32", "I64"] && Value < 0`, []string{"$.items[0]"}},
		{`Kind == "U8" && Value == 3`, []string{"$.count"}},
		{`Kind == "F64" && Value > 2`, []string{"$.items[2]"}},
		{`Has("$id")`, []string{"$.items[1]"}},
		{`Field("name") == "child"`, []string{"$.items[1]"}},
		{`Kind == "List" && Len == 3`, []string{"$.items"}},
		{`Depth == 0`, []string{"$"}},
		{`Path startsWith "$.items[" && Depth == 2`, []string{"$.items[0]", "$.items[1]", "$.items[2]"}},
		{`Kind == "Bool"`, []string{}},
	}
	root := sample()
	for _, tc := range tests {
		got, err := Find(root, tc.pred)
		if err != nil {
			t.Fatalf("%s: %v", tc.pred, err)
		}
		if diff := cmp.Diff(tc.want, paths(got)); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.pred, diff)
		}
	}
}

func TestFind_Subtree(t *testing.T) {
	root := sample()
	items := root.Get("items")
	got, err := Find(items, `Depth == 1`)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("got %v", paths(got))
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, pred := range []string{`Kind ==`, `Nope == 1`, `Len + 1`} {
		if _, err := Compile(pred); err == nil {
			t.Errorf("%s: expected compile error", pred)
		}
	}
}

func TestQuery_RuntimeError(t *testing.T) {
	q, err := Compile(`Value > 1`)
	if err != nil {
		t.Fatal(err)
	}
	_, err = q.Find(sample())
	if err == nil || !strings.Contains(err.Error(), "$") {
		t.Errorf("got %v, want error naming the node path", err)
	}
}

func TestQuery_FilterAndMatch(t *testing.T) {
	q, err := Compile(`Kind == "String"`)
	if err != nil {
		t.Fatal(err)
	}
	root := sample()
	got, err := q.Filter(root.Values)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"$.name"}, paths(got)); diff != "" {
		t.Error(diff)
	}
	ok, err := q.Match(root)
	if err != nil || ok {
		t.Errorf("Match(root) = %v, %v", ok, err)
	}
	if q.String() != `Kind == "String"` {
		t.Errorf("String() = %q", q.String())
	}
}

func TestQuery_Getenv(t *testing.T) {
	t.Setenv("OGRAPH_QUERY_KEY", "count")
	got, err := Find(sample(), `Key == getenv("OGRAPH_QUERY_KEY")`)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"$.count"}, paths(got)); diff != "" {
		t.Error(diff)
	}
}
