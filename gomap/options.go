package gomap

import (
	"log/slog"
	"reflect"

	"github.com/google/uuid"
	"github.com/signadot/ograph/format"
)

// Option configures a top-level call or a Context.
type Option func(*config)

type config struct {
	registry *Registry
	typeMode TypeMode
	mode     format.Mode
	logger   *slog.Logger
	meta     MetadataProvider
	sink     DependencySink
	deps     *map[uuid.UUID]struct{}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.meta == nil {
		cfg.meta = TagProvider{}
	}
	return cfg
}

func (cfg *config) context() *Context {
	return &Context{
		objectToID: map[objectKey]int{},
		idToObject: map[int]reflect.Value{},
		nextID:     1,
		typeMode:   cfg.typeMode,
		registry:   cfg.registry,
		meta:       cfg.meta,
		logger:     cfg.logger,
		descs:      map[reflect.Type]*typeDesc{},
		sink:       cfg.sink,
	}
}

// WithRegistry selects the format registry. The default is
// DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(cfg *config) { cfg.registry = r }
}

func WithTypeMode(m TypeMode) Option {
	return func(cfg *config) { cfg.typeMode = m }
}

// WithMode selects the binary mode used by Marshal and Unmarshal.
func WithMode(m format.Mode) Option {
	return func(cfg *config) { cfg.mode = m }
}

// WithLogger sets the logger for per-field failures. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

func WithMetadataProvider(mp MetadataProvider) Option {
	return func(cfg *config) { cfg.meta = mp }
}

// WithDependencySink installs fn to run once per top-level serialize with
// the finished tree and its collected dependencies.
func WithDependencySink(fn DependencySink) Option {
	return func(cfg *config) { cfg.sink = fn }
}

// WithDependencies stores the dependencies collected by a top-level
// serialize in *dst.
func WithDependencies(dst *map[uuid.UUID]struct{}) Option {
	return func(cfg *config) { cfg.deps = dst }
}
