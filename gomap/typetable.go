package gomap

import (
	"container/list"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signadot/ograph/debug"
	"github.com/signadot/ograph/ir"
	"golang.org/x/sync/singleflight"
)

// TypeName returns the name stamped as $type for t: the package path and
// name for named types, prefixed by "*" per pointer level, and the Go
// syntax of t otherwise.
func TypeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + TypeName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// shortName strips pointer prefixes and the package path.
func shortName(name string) string {
	name = strings.TrimLeft(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// TypeTable maps $type names to types. Go cannot enumerate the types of a
// program, so the table holds the built-in types, types registered
// explicitly and types seen while serializing.
type TypeTable struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	// gen counts changes to byName; cached resolutions from an older
	// generation are ignored.
	gen   uint64
	cache *ristretto.Cache
	group singleflight.Group
}

type cachedType struct {
	gen uint64
	t   reflect.Type
}

func NewTypeTable() *TypeTable {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
	if err != nil {
		// only returned for invalid configuration
		panic(err)
	}
	tt := &TypeTable{byName: map[string]reflect.Type{}, cache: cache}
	for _, v := range []any{
		false, "", []byte(nil),
		int(0), int8(0), int16(0), int32(0), int64(0),
		uint(0), uint8(0), uint16(0), uint32(0), uint64(0), uintptr(0),
		float32(0), float64(0),
		time.Time{}, time.Duration(0), uuid.UUID{}, decimal.Decimal{}, ir.Decimal{},
		[]any(nil), map[string]any(nil), (*list.List)(nil),
	} {
		tt.RegisterType(v)
	}
	return tt
}

// RegisterType makes the type of v, and the pointer to it, resolvable by
// TypeName.
func (tt *TypeTable) RegisterType(v any) {
	tt.Learn(reflect.TypeOf(v))
}

// RegisterName makes t resolvable as name, for example a name the type
// was stamped with before it was renamed.
func (tt *TypeTable) RegisterName(name string, t reflect.Type) {
	tt.mu.Lock()
	tt.byName[name] = t
	tt.gen++
	tt.mu.Unlock()
	tt.cache.Clear()
}

// Learn registers t, and the pointer to it, under their TypeName.
func (tt *TypeTable) Learn(t reflect.Type) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := TypeName(t)
	tt.mu.RLock()
	_, ok := tt.byName[name]
	tt.mu.RUnlock()
	if ok {
		return
	}
	tt.mu.Lock()
	if _, ok := tt.byName[name]; ok {
		tt.mu.Unlock()
		return
	}
	tt.byName[name] = t
	tt.byName["*"+name] = reflect.PointerTo(t)
	tt.gen++
	tt.mu.Unlock()
	tt.cache.Clear()
}

// Resolve maps a $type name to a type. It tries an exact match, then a
// case-insensitive match, then a unique match on the unqualified name.
func (tt *TypeTable) Resolve(name string) (reflect.Type, error) {
	tt.mu.RLock()
	gen := tt.gen
	tt.mu.RUnlock()
	if v, ok := tt.cache.Get(name); ok {
		if ct := v.(cachedType); ct.gen == gen {
			return ct.t, nil
		}
	}
	v, err, _ := tt.group.Do(fmt.Sprintf("%d/%s", gen, name), func() (any, error) {
		t, at, err := tt.resolve(name)
		if err != nil {
			return nil, err
		}
		if debug.Types() {
			debug.Logf("resolved $type %q to %s\n", name, t)
		}
		tt.cache.Set(name, cachedType{gen: at, t: t}, 1)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(reflect.Type), nil
}

// resolve also returns the generation the answer was computed at.
func (tt *TypeTable) resolve(name string) (reflect.Type, uint64, error) {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	if t, ok := tt.byName[name]; ok {
		return t, tt.gen, nil
	}
	base := strings.TrimLeft(name, "*")
	stars := len(name) - len(base)

	var folded, short []reflect.Type
	for _, key := range slices.Sorted(maps.Keys(tt.byName)) {
		if strings.HasPrefix(key, "*") {
			continue
		}
		t := tt.byName[key]
		if strings.EqualFold(key, base) && !slices.Contains(folded, t) {
			folded = append(folded, t)
		}
		if strings.EqualFold(shortName(key), shortName(base)) && !slices.Contains(short, t) {
			short = append(short, t)
		}
	}
	var t reflect.Type
	switch {
	case len(folded) == 1:
		t = folded[0]
	case len(folded) > 1:
		return nil, 0, fmt.Errorf("%w: %q is ambiguous", ErrUnresolvableType, name)
	case len(short) == 1:
		t = short[0]
	case len(short) > 1:
		return nil, 0, fmt.Errorf("%w: %q matches %d types", ErrUnresolvableType, name, len(short))
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnresolvableType, name)
	}
	for range stars {
		t = reflect.PointerTo(t)
	}
	return t, tt.gen, nil
}
