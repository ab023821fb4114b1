package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/signadot/ograph/debug"
	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
	"github.com/signadot/ograph/wire"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "ograph:"

type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	mode   format.Mode
}

type RedisOption func(*RedisStore)

// WithPrefix namespaces every key. The default is DefaultRedisPrefix.
func WithPrefix(p string) RedisOption {
	return func(s *RedisStore) { s.prefix = p }
}

// WithTTL expires stored trees after d. Zero keeps them.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

func WithMode(m format.Mode) RedisOption {
	return func(s *RedisStore) { s.mode = m }
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultRedisPrefix, mode: format.SizeMode}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(key string) (string, error) {
	if err := CheckKey(key); err != nil {
		return "", err
	}
	return s.prefix + key, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, n *ir.Node) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	d, err := wire.Marshal(n, s.mode)
	if err != nil {
		return err
	}
	if debug.Store() {
		debug.Logf("redis store put %s (%d bytes, ttl %s)\n", k, len(d), s.ttl)
	}
	return s.client.Set(ctx, k, d, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (*ir.Node, error) {
	k, err := s.key(key)
	if err != nil {
		return nil, err
	}
	d, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	n, err := wire.Unmarshal(d, s.mode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	c, err := s.client.Del(ctx, k).Result()
	if err != nil {
		return err
	}
	if c == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var res []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		res = append(res, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
