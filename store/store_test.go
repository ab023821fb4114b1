package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"

	"github.com/redis/go-redis/v9"
)

func doc(name string) *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: "name", Val: ir.FromString(name)},
		{Key: "n", Val: ir.FromU16(42)},
		{Key: "tags", Val: ir.FromSlice([]*ir.Node{ir.FromString("x"), ir.Null()})},
	})
}

type Record struct {
	Name  string
	Count int
	Next  *Record
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: got %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing: got %v", err)
	}
	for _, key := range []string{"", ".hidden", "a/b", "glob*"} {
		if err := s.Put(ctx, key, doc("x")); !errors.Is(err, ErrBadKey) {
			t.Errorf("Put %q: got %v", key, err)
		}
	}

	for _, key := range []string{"one", "two"} {
		if err := s.Put(ctx, key, doc(key)); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Get(ctx, "two")
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, doc("two")) {
		t.Errorf("Get two: got %v", got.Keys())
	}
	if err := s.Put(ctx, "two", doc("again")); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "two"); got == nil || got.Get("name").String != "again" {
		t.Error("Put did not replace the stored tree")
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(keys)
	if diff := cmp.Diff([]string{"one", "two"}, keys); diff != "" {
		t.Errorf("Keys (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "one"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: got %v", err)
	}

	in := &Record{Name: "head", Count: 1}
	in.Next = &Record{Name: "tail", Count: 2, Next: in}
	if err := PutValue(ctx, s, "cycle", in); err != nil {
		t.Fatal(err)
	}
	var out *Record
	if err := GetValue(ctx, s, "cycle", &out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "head" || out.Next.Name != "tail" || out.Next.Next != out {
		t.Errorf("got %+v", out)
	}
}

func TestFileStore(t *testing.T) {
	for _, m := range []format.Mode{format.PerformanceMode, format.SizeMode} {
		t.Run(m.String(), func(t *testing.T) {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "store"), m)
			if err != nil {
				t.Fatal(err)
			}
			testStore(t, s)
		})
	}
}

func TestFileStore_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, format.SizeMode)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", ".partial" + format.SizeMode.Suffix()} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"+format.SizeMode.Suffix()), 0o755); err != nil {
		t.Fatal(err)
	}
	keys, err := s.Keys(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("got %v", keys)
	}
}

func TestFileStore_Canceled(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), format.SizeMode)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Put(ctx, "k", doc("k")); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v", err)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, format.SizeMode)
	if err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, "bad"+format.SizeMode.Suffix())
	if err := os.WriteFile(p, []byte{0xff}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "bad"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want decode error", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("OGRAPH_REDIS_ADDR")
	if addr == "" {
		t.Skip("OGRAPH_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis at %s: %v", addr, err)
	}
	prefix := "ograph-test:" + time.Now().Format("150405.000000") + ":"
	s := NewRedisStore(rdb, WithPrefix(prefix), WithTTL(time.Minute))
	testStore(t, s)

	ttl, err := rdb.TTL(ctx, prefix+"two").Result()
	if err != nil {
		t.Fatal(err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %s", ttl)
	}
}
