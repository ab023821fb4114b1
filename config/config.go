// Package config reads the og command's YAML configuration.
//
// Example:
//
//	mode: size
//	typeMode: auto
//	color: auto
//	store:
//	  dir: ~/.local/share/ograph
//	  redis:
//	    addr: localhost:6379
//	    prefix: "ograph:"
//	    ttl: 24h
//
// Values may reference environment variables as $VAR or ${VAR}.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/gomap"

	"github.com/goccy/go-yaml"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Mode     string `json:"mode,omitempty"`
	TypeMode string `json:"typeMode,omitempty"`
	Color    string `json:"color,omitempty"`
	Store    Store  `json:"store,omitempty"`
}

type Store struct {
	Dir   string `json:"dir,omitempty"`
	Redis *Redis `json:"redis,omitempty"`
}

type Redis struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	TTL      string `json:"ttl,omitempty"`
}

func Default() *Config {
	return &Config{
		Mode:     format.SizeMode.String(),
		TypeMode: gomap.TypeAuto.String(),
		Color:    ColorAuto,
		Store:    Store{Dir: defaultStoreDir()},
	}
}

func defaultStoreDir() string {
	if d, err := os.UserCacheDir(); err == nil {
		return filepath.Join(d, "ograph")
	}
	return ".ograph"
}

// DefaultPath is where the og command looks for a config file when none is
// given.
func DefaultPath() string {
	d, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(d, "ograph", "config.yaml")
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads DefaultPath if it exists and returns Default otherwise.
func LoadDefault() (*Config, error) {
	p := DefaultPath()
	if p == "" {
		return Default(), nil
	}
	cfg, err := Load(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func Parse(d []byte) (*Config, error) {
	cfg := Default()
	d = []byte(os.ExpandEnv(string(d)))
	if err := yaml.UnmarshalWithOptions(d, cfg, yaml.Strict()); err != nil {
		return nil, err
	}
	cfg.Store.Dir = expandHome(cfg.Store.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := c.FormatMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.GomapTypeMode(); err != nil {
		errs = append(errs, err)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("color must be one of auto, always, never: got %q", c.Color))
	}
	if r := c.Store.Redis; r != nil {
		if r.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required"))
		}
		if _, err := r.Expiration(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Config) FormatMode() (format.Mode, error) {
	return format.ParseMode(c.Mode)
}

func (c *Config) GomapTypeMode() (gomap.TypeMode, error) {
	return gomap.ParseTypeMode(c.TypeMode)
}

// Expiration parses TTL. An empty TTL means no expiration.
func (r *Redis) Expiration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("store.redis.ttl: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("store.redis.ttl: negative duration %s", d)
	}
	return d, nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
