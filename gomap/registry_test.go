package gomap

import (
	"container/list"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signadot/ograph/ir"
)

// upperFormat writes strings in upper case.
type upperFormat struct{}

func (upperFormat) Name() string { return "upper" }

func (upperFormat) CanHandle(t reflect.Type) bool { return t.Kind() == reflect.String }

func (upperFormat) Serialize(_ *Context, _ reflect.Type, v reflect.Value) (*ir.Node, error) {
	return ir.FromString(strings.ToUpper(v.String())), nil
}

func (upperFormat) Deserialize(_ *Context, n *ir.Node, t reflect.Type) (reflect.Value, error) {
	return reflect.ValueOf(strings.ToLower(n.String)).Convert(t), nil
}

// switchFormat claims strings only while on is set.
type switchFormat struct {
	upperFormat
	on *bool
}

func (f switchFormat) Name() string { return "switch" }

func (f switchFormat) CanHandle(t reflect.Type) bool { return *f.on && t.Kind() == reflect.String }

func TestRegistry_FormatFor(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		t    reflect.Type
		want string
	}{
		{reflect.TypeFor[int](), "primitive"},
		{reflect.TypeFor[[]byte](), "primitive"},
		{reflect.TypeFor[*int](), "nullable"},
		{reflect.TypeFor[*Vec](), "nullable"},
		{reflect.TypeFor[time.Time](), "time"},
		{reflect.TypeFor[time.Duration](), "time"},
		{reflect.TypeFor[uuid.UUID](), "uuid"},
		{reflect.TypeFor[decimal.Decimal](), "decimal"},
		{reflect.TypeFor[ir.Decimal](), "decimal"},
		{reflect.TypeFor[Color](), "enum"},
		{reflect.TypeFor[map[string]struct{}](), "set"},
		{reflect.TypeFor[Vec](), "fixed-layout"},
		{reflect.TypeFor[[2]int](), "array"},
		{reflect.TypeFor[[]int](), "slice"},
		{reflect.TypeFor[*list.List](), "linked-list"},
		{reflect.TypeFor[map[string]int](), "map"},
		{reflect.TypeFor[Link](), "object"},
		{reflect.TypeFor[*Link](), "object"},
	}
	for _, tc := range tests {
		if got := r.FormatFor(tc.t).Name(); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.t, got, tc.want)
		}
	}
	formats := r.Formats()
	if last := formats[len(formats)-1].Name(); last != "object" {
		t.Errorf("last format is %s", last)
	}
}

func TestRegistry_CustomPrecedence(t *testing.T) {
	r := NewRegistry(upperFormat{})
	n, err := Serialize(struct{ S string }{"abc"}, WithRegistry(r))
	if err != nil {
		t.Fatal(err)
	}
	if got := n.Get("S").String; got != "ABC" {
		t.Errorf("got %q, want ABC", got)
	}
	if got := DefaultRegistry().FormatFor(reflect.TypeFor[string]()).Name(); got != "primitive" {
		t.Errorf("default registry changed: %s", got)
	}
}

func TestRegistry_With(t *testing.T) {
	base := NewRegistry()
	strType := reflect.TypeFor[string]()
	base.FormatFor(strType)
	ext := base.With(upperFormat{})
	if ext.Types() != base.Types() {
		t.Error("With should share the type table")
	}
	if got := ext.FormatFor(strType).Name(); got != "upper" {
		t.Errorf("extended: got %s", got)
	}
	if got := base.FormatFor(strType).Name(); got != "primitive" {
		t.Errorf("base: got %s", got)
	}
}

func TestRegistry_ClearCache(t *testing.T) {
	on := false
	r := NewRegistry(switchFormat{on: &on})
	strType := reflect.TypeFor[string]()
	if got := r.FormatFor(strType).Name(); got != "primitive" {
		t.Fatalf("got %s", got)
	}
	on = true
	if got := r.FormatFor(strType).Name(); got != "primitive" {
		t.Errorf("cached decision should stick, got %s", got)
	}
	r.ClearCache()
	if got := r.FormatFor(strType).Name(); got != "switch" {
		t.Errorf("after ClearCache got %s", got)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if r.FormatFor(reflect.TypeFor[Link]()).Name() != "object" {
					t.Error("wrong format")
					return
				}
				if _, err := r.Types().Resolve("time.Time"); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		t    reflect.Type
		want string
	}{
		{reflect.TypeFor[int](), "int"},
		{reflect.TypeFor[time.Time](), "time.Time"},
		{reflect.TypeFor[*Link](), "*github.com/signadot/ograph/gomap.Link"},
		{reflect.TypeFor[**Link](), "**github.com/signadot/ograph/gomap.Link"},
		{reflect.TypeFor[[]string](), "[]string"},
		{reflect.TypeFor[map[string]any](), "map[string]interface {}"},
	}
	for _, tc := range tests {
		if got := TypeName(tc.t); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

func TestTypeTable_Resolve(t *testing.T) {
	tt := NewTypeTable()
	tt.RegisterType(Link{})
	linkType := reflect.TypeFor[Link]()
	name := TypeName(linkType)

	tests := []struct {
		name string
		want reflect.Type
	}{
		{name, linkType},
		{"*" + name, reflect.TypeFor[*Link]()},
		{strings.ToUpper(name), linkType},
		{"Link", linkType},
		{"*link", reflect.TypeFor[*Link]()},
		{"int", reflect.TypeFor[int]()},
		{"time.Time", reflect.TypeFor[time.Time]()},
		{"UUID", reflect.TypeFor[uuid.UUID]()},
		{"map[string]interface {}", reflect.TypeFor[map[string]any]()},
	}
	for _, tc := range tests {
		got, err := tt.Resolve(tc.name)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}

	for _, bad := range []string{"Nope", "Decimal"} {
		if _, err := tt.Resolve(bad); !errors.Is(err, ErrUnresolvableType) {
			t.Errorf("%s: got %v, want ErrUnresolvableType", bad, err)
		}
	}
}

func TestTypeTable_RegisterName(t *testing.T) {
	tt := NewTypeTable()
	if _, err := tt.Resolve("legacy.Chain"); err == nil {
		t.Fatal("unexpected resolution")
	}
	tt.RegisterName("legacy.Chain", reflect.TypeFor[Link]())
	got, err := tt.Resolve("legacy.Chain")
	if err != nil {
		t.Fatal(err)
	}
	if got != reflect.TypeFor[Link]() {
		t.Errorf("got %s", got)
	}
}

func TestTypeTable_LearnInvalidatesShortNames(t *testing.T) {
	type List struct{ N int }
	tt := NewTypeTable()
	got, err := tt.Resolve("List")
	if err != nil {
		t.Fatal(err)
	}
	if got != reflect.TypeFor[list.List]() {
		t.Fatalf("got %s", got)
	}
	tt.Learn(reflect.TypeFor[List]())
	if _, err := tt.Resolve("List"); !errors.Is(err, ErrUnresolvableType) {
		t.Errorf("got %v, want ErrUnresolvableType", err)
	}
	if got, err := tt.Resolve(TypeName(reflect.TypeFor[List]())); err != nil || got != reflect.TypeFor[List]() {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestTypeTable_LearnsWhileSerializing(t *testing.T) {
	type learned struct{ N int }
	r := NewRegistry()
	name := TypeName(reflect.TypeFor[*learned]())
	if _, err := r.Types().Resolve(name); err == nil {
		t.Fatal("type known before use")
	}
	n, err := SerializeAs(&learned{N: 1}, reflect.TypeFor[any](), WithRegistry(r))
	if err != nil {
		t.Fatal(err)
	}
	if got := n.Get(TypeKey).String; got != name {
		t.Errorf("$type = %q, want %q", got, name)
	}
	var v any
	if err := Deserialize(n, &v, WithRegistry(r)); err != nil {
		t.Fatal(err)
	}
	if l, ok := v.(*learned); !ok || l.N != 1 {
		t.Errorf("got %#v", v)
	}
}
