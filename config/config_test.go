package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/gomap"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	m, _ := cfg.FormatMode()
	tm, _ := cfg.GomapTypeMode()
	if m != format.SizeMode || tm != gomap.TypeAuto || cfg.Color != ColorAuto {
		t.Errorf("got %+v", cfg)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("OGRAPH_TEST_REDIS", "cache:6379")
	cfg, err := Parse([]byte(`
mode: performance
color: never
store:
  dir: /var/lib/ograph
  redis:
    addr: $OGRAPH_TEST_REDIS
    db: 2
    ttl: 90m
`))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Mode:     "performance",
		TypeMode: "auto",
		Color:    ColorNever,
		Store: Store{
			Dir:   "/var/lib/ograph",
			Redis: &Redis{Addr: "cache:6379", DB: 2, TTL: "90m"},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	ttl, err := cfg.Store.Redis.Expiration()
	if err != nil || ttl != 90*time.Minute {
		t.Errorf("Expiration() = %s, %v", ttl, err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mode: fast\n", "fast"},
		{"typeMode: sometimes\n", "sometimes"},
		{"color: purple\n", "purple"},
		{"store:\n  redis:\n    ttl: 1h\n", "addr"},
		{"store:\n  redis:\n    addr: x\n    ttl: soon\n", "ttl"},
		{"store:\n  redis:\n    addr: x\n    ttl: -1s\n", "negative"},
		{"colour: never\n", "colour"},
	}
	for _, tc := range tests {
		_, err := Parse([]byte(tc.in))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%q: got %v, want error mentioning %q", tc.in, err, tc.want)
		}
	}
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := Load(p); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}
	if err := os.WriteFile(p, []byte("typeMode: aggressive\nstore:\n  dir: ~/graphs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if tm, _ := cfg.GomapTypeMode(); tm != gomap.TypeAggressive {
		t.Errorf("type mode %s", tm)
	}
	if home, err := os.UserHomeDir(); err == nil && cfg.Store.Dir != filepath.Join(home, "graphs") {
		t.Errorf("store dir %s", cfg.Store.Dir)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := Default()
	in.Store.Redis = &Redis{Addr: "localhost:6379", Prefix: "x:", TTL: "1h"}
	d, err := in.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	out, err := Parse(d)
	if err != nil {
		t.Fatalf("%v\n%s", err, d)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
