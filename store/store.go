// Package store persists trees under string keys.
//
// Two backends are provided: [FileStore] keeps one encoded document per file
// in a directory and [RedisStore] keeps one per Redis string. Both encode
// with the wire codec in a fixed [format.Mode].
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/ograph/gomap"
	"github.com/signadot/ograph/ir"
)

var (
	ErrNotFound = errors.New("not found")
	ErrBadKey   = errors.New("bad key")
)

type Store interface {
	Put(ctx context.Context, key string, n *ir.Node) error
	// Get returns ErrNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) (*ir.Node, error)
	// Delete returns ErrNotFound when nothing is stored under key.
	Delete(ctx context.Context, key string) error
	// Keys lists the stored keys in no particular order.
	Keys(ctx context.Context) ([]string, error)
}

// CheckKey rejects keys that could not round trip through every backend.
func CheckKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrBadKey)
	case strings.HasPrefix(key, "."):
		return fmt.Errorf("%w: %q starts with '.'", ErrBadKey, key)
	case strings.ContainsAny(key, "/\\\x00*?[]"):
		return fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return nil
}

// PutValue serializes v and stores the tree under key.
func PutValue(ctx context.Context, s Store, key string, v any, opts ...gomap.Option) error {
	n, err := gomap.Serialize(v, opts...)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, n)
}

// GetValue loads the tree under key and deserializes it into ptr.
func GetValue(ctx context.Context, s Store, key string, ptr any, opts ...gomap.Option) error {
	n, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return gomap.Deserialize(n, ptr, opts...)
}
