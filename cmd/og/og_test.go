package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
	"github.com/signadot/ograph/wire"
)

func TestDiffInputs(t *testing.T) {
	a := ir.FromKeyVals([]ir.KeyVal{
		{Key: "a", Val: ir.FromU8(1)},
		{Key: "b", Val: ir.FromString("x")},
	})
	b := ir.FromKeyVals([]ir.KeyVal{
		{Key: "a", Val: ir.FromU8(1)},
		{Key: "b", Val: ir.FromString("y")},
	})
	buf := bytes.NewBuffer(nil)
	differs, err := diffInputs(buf, a, a.Clone(), false)
	if err != nil || differs || buf.Len() != 0 {
		t.Fatalf("equal inputs: differs=%v err=%v out=%q", differs, err, buf.String())
	}
	differs, err = diffInputs(buf, a, b, false)
	if err != nil {
		t.Fatal(err)
	}
	if !differs {
		t.Fatal("expected a difference")
	}
	want := []string{
		" {",
		`   "a": {"@u8": 1},`,
		`-  "b": "x"`,
		`+  "b": "y"`,
		" }",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestComputeStats(t *testing.T) {
	n := ir.FromKeyVals([]ir.KeyVal{
		{Key: "s", Val: ir.FromString("x")},
		{Key: "l", Val: ir.FromSlice([]*ir.Node{ir.FromI32(1), ir.FromI32(2)})},
	})
	st, err := computeStats(n)
	if err != nil {
		t.Fatal(err)
	}
	if st.Nodes != 5 || st.MaxDepth != 2 {
		t.Errorf("nodes %d depth %d", st.Nodes, st.MaxDepth)
	}
	wantKinds := map[ir.Kind]int{ir.CompoundKind: 1, ir.StringKind: 1, ir.ListKind: 1, ir.I32Kind: 2}
	if diff := cmp.Diff(wantKinds, st.Kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	for _, m := range []format.Mode{format.PerformanceMode, format.SizeMode} {
		d, _ := wire.Marshal(n, m)
		if st.Bytes[m] != len(d) {
			t.Errorf("%s: %d bytes, want %d", m, st.Bytes[m], len(d))
		}
	}
	buf := bytes.NewBuffer(nil)
	if err := st.write(buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"nodes", "I32", "size bytes", "performance bytes"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in\n%s", want, buf.String())
		}
	}
}
