package gomap

import (
	"container/list"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
)

type Color uint8

const (
	Red Color = iota
	Green
	Blue
)

var colorNames = []string{"red", "green", "blue"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

func (c *Color) UnmarshalText(d []byte) error {
	for i, name := range colorNames {
		if name == string(d) {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("unknown color %q", d)
}

type Vec struct {
	X, Y float64
}

func (Vec) FixedLayout() {}

type Everything struct {
	B     bool
	I     int
	I8    int8
	I16   int16
	I32   int32
	I64   int64
	U     uint
	U8    uint8
	U16   uint16
	U32   uint32
	U64   uint64
	F32   float32
	F64   float64
	S     string
	Raw   []byte
	Opt   *int
	NoOpt *int
	When  time.Time
	Wait  time.Duration
	ID    uuid.UUID
	Price decimal.Decimal
	Exact ir.Decimal
	Paint Color
	Set   map[string]struct{}
	At    Vec
	AtPtr *Vec
	Trio  [3]int
	Quad  [4]byte
	Names []string
	Empty []string
	Nil   []string
	Count map[string]int
	ByNum map[int]string
	Any   any
}

func everything() Everything {
	seven := 7
	return Everything{
		B: true, I: -1 << 40, I8: -128, I16: -32768, I32: -1 << 31, I64: -1 << 62,
		U: 1 << 40, U8: 255, U16: 65535, U32: 1<<32 - 1, U64: 1<<64 - 1,
		F32:   1.5,
		F64:   -2.25e-10,
		S:     "héllo",
		Raw:   []byte{0, 1, 2, 255},
		Opt:   &seven,
		When:  time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC),
		Wait:  90 * time.Second,
		ID:    uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Price: decimal.RequireFromString("12.50"),
		Exact: ir.Decimal{Lo: 31415, Scale: 4, Neg: true},
		Paint: Blue,
		Set:   map[string]struct{}{"a": {}, "b": {}},
		At:    Vec{X: 1, Y: -2},
		AtPtr: &Vec{X: 3, Y: 4},
		Trio:  [3]int{1, 2, 3},
		Quad:  [4]byte{9, 8, 7, 6},
		Names: []string{"x", "y"},
		Empty: []string{},
		Count: map[string]int{"one": 1, "two": 2},
		ByNum: map[int]string{2: "two", 1: "one"},
		Any:   map[string]any{"k": int64(1), "l": []any{"x", true}},
	}
}

func TestBuiltinFormats_RoundTrip(t *testing.T) {
	want := everything()
	if diff := cmp.Diff(want, roundTrip(t, want)); diff != "" {
		t.Errorf("tree round trip (-want +got):\n%s", diff)
	}
	for _, m := range []format.Mode{format.PerformanceMode, format.SizeMode} {
		if diff := cmp.Diff(want, wireRoundTrip(t, want, m)); diff != "" {
			t.Errorf("%s round trip (-want +got):\n%s", m, diff)
		}
	}
}

func TestBuiltinFormats_Kinds(t *testing.T) {
	tests := []struct {
		name string
		v    any
		kind ir.Kind
	}{
		{"int8", int8(1), ir.I8Kind},
		{"int16", int16(1), ir.I16Kind},
		{"int32", int32(1), ir.I32Kind},
		{"int", 1, ir.I64Kind},
		{"uint8", uint8(1), ir.U8Kind},
		{"uint16", uint16(1), ir.U16Kind},
		{"uint32", uint32(1), ir.U32Kind},
		{"uint", uint(1), ir.U64Kind},
		{"float32", float32(1), ir.F32Kind},
		{"float64", 1.0, ir.F64Kind},
		{"bool", true, ir.BoolKind},
		{"string", "s", ir.StringKind},
		{"bytes", []byte("b"), ir.ByteArrayKind},
		{"time", time.Unix(0, 0), ir.StringKind},
		{"duration", time.Second, ir.I64Kind},
		{"uuid", uuid.New(), ir.ByteArrayKind},
		{"decimal", decimal.NewFromInt(3), ir.DecimalKind},
		{"enum", Green, ir.StringKind},
		{"set", map[int]struct{}{1: {}}, ir.ListKind},
		{"fixed layout", Vec{}, ir.ListKind},
		{"byte array", [2]byte{}, ir.ByteArrayKind},
		{"array", [2]int{}, ir.ListKind},
		{"nil slice", []int(nil), ir.NullKind},
		{"string map", map[string]int{}, ir.CompoundKind},
		{"int map", map[int]int{1: 1}, ir.ListKind},
		{"linked list", list.New(), ir.ListKind},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Serialize(tc.v)
			if err != nil {
				t.Fatal(err)
			}
			if n.Kind != tc.kind {
				t.Errorf("kind = %s, want %s", n.Kind, tc.kind)
			}
		})
	}
}

func TestEnumByName(t *testing.T) {
	n, err := Serialize(Green)
	if err != nil {
		t.Fatal(err)
	}
	if n.String != "green" {
		t.Errorf("got %q, want green", n.String)
	}
	var c Color
	if err := Deserialize(ir.FromString("blue"), &c); err != nil {
		t.Fatal(err)
	}
	if c != Blue {
		t.Errorf("got %v, want blue", c)
	}
	// numeric input is accepted too
	if err := Deserialize(ir.FromU8(1), &c); err != nil {
		t.Fatal(err)
	}
	if c != Green {
		t.Errorf("got %v, want green", c)
	}
	if err := Deserialize(ir.FromString("mauve"), &c); !errors.Is(err, ErrFieldConversion) {
		t.Errorf("unknown name: got %v, want ErrFieldConversion", err)
	}
}

func TestNonStringMapEntries(t *testing.T) {
	n, err := Serialize(map[int]string{2: "b", 1: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if n.Len() != 2 {
		t.Fatalf("got %d entries", n.Len())
	}
	first := n.Values[0]
	if k := first.Get("k"); k == nil || k.Int != 1 {
		t.Errorf("entries are not sorted by key: %v", first.Keys())
	}
	if v := first.Get("v"); v == nil || v.String != "a" {
		t.Errorf("first value = %v", v)
	}
}

type linkAndCounts struct {
	P *Link
	M map[string]int
}

func TestReservedMapKeys(t *testing.T) {
	for _, key := range []string{IDKey, TypeKey, ValueKey, "$", "$$x"} {
		in := map[string]string{key: "hello", "plain": "p"}
		n, err := Serialize(in)
		if err != nil {
			t.Fatal(err)
		}
		if n.Has(key) {
			t.Errorf("%q written verbatim", key)
		}
		if got := roundTrip(t, in); !cmp.Equal(in, got) {
			t.Errorf("%q: got %v", key, got)
		}
		b, err := Marshal(in)
		if err != nil {
			t.Fatal(err)
		}
		var wired map[string]string
		if err := Unmarshal(b, &wired); err != nil {
			t.Fatalf("%q: %v", key, err)
		}
		if !cmp.Equal(in, wired) {
			t.Errorf("%q: wire got %v", key, wired)
		}
	}

	in := linkAndCounts{P: &Link{Name: "l"}, M: map[string]int{IDKey: 1, "a": 2}}
	got := roundTrip(t, in)
	if diff := cmp.Diff(in.M, got.M); diff != "" {
		t.Errorf("map (-want +got):\n%s", diff)
	}
	if got.P == nil || got.P.Name != "l" {
		t.Errorf("P = %+v", got.P)
	}
}

func TestLinkedList(t *testing.T) {
	l := list.New()
	l.PushBack(int64(1))
	l.PushBack("two")
	l.PushBack([]any{false})
	got := roundTrip(t, l)
	var vals []any
	for e := got.Front(); e != nil; e = e.Next() {
		vals = append(vals, e.Value)
	}
	want := []any{int64(1), "two", []any{false}}
	if diff := cmp.Diff(want, vals); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestScalarCoercion(t *testing.T) {
	var i64 int64
	if err := Deserialize(ir.FromI32(-5), &i64); err != nil || i64 != -5 {
		t.Errorf("I32 into int64: %d, %v", i64, err)
	}
	var u uint
	if err := Deserialize(ir.FromI8(5), &u); err != nil || u != 5 {
		t.Errorf("I8 into uint: %d, %v", u, err)
	}
	var f float64
	if err := Deserialize(ir.FromU16(3), &f); err != nil || f != 3 {
		t.Errorf("U16 into float64: %v, %v", f, err)
	}
	var d decimal.Decimal
	if err := Deserialize(ir.FromString("1.25"), &d); err != nil || !d.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("string into decimal: %v, %v", d, err)
	}

	failures := []struct {
		name string
		n    *ir.Node
		ptr  any
	}{
		{"overflow", ir.FromI64(300), new(int8)},
		{"negative unsigned", ir.FromI64(-1), new(uint16)},
		{"string into int", ir.FromString("1"), new(int)},
		{"list into string", ir.NewList(), new(string)},
		{"bad time", ir.FromString("yesterday"), new(time.Time)},
		{"short uuid", ir.FromBytes([]byte{1, 2}), new(uuid.UUID)},
		{"long array", ir.FromSlice([]*ir.Node{ir.FromI64(1), ir.FromI64(2)}), new([1]int)},
		{"fixed layout arity", ir.FromSlice([]*ir.Node{ir.FromF64(1)}), new(Vec)},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			err := Deserialize(tc.n, tc.ptr)
			if !errors.Is(err, ErrFieldConversion) {
				t.Errorf("got %v, want ErrFieldConversion", err)
			}
			var te *TypeError
			if !errors.As(err, &te) {
				t.Errorf("got %T, want *TypeError", err)
			}
		})
	}
}

func TestNullableValues(t *testing.T) {
	type opt struct {
		When *time.Time
		N    *int
	}
	now := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	in := opt{When: &now}
	n, err := Serialize(&in)
	if err != nil {
		t.Fatal(err)
	}
	// pointers to values have no identity
	if n.Get("When").Kind != ir.StringKind {
		t.Errorf("When kind = %s", n.Get("When").Kind)
	}
	if !n.Get("N").IsNull() {
		t.Errorf("N = %v, want null", n.Get("N"))
	}
	var got *opt
	if err := Deserialize(n, &got); err != nil {
		t.Fatal(err)
	}
	if got.N != nil || got.When == nil || !got.When.Equal(now) {
		t.Errorf("got %+v", got)
	}
}
