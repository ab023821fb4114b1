package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/signadot/ograph/ir"
	"github.com/signadot/ograph/store"

	"github.com/redis/go-redis/v9"
	"github.com/scott-cotton/cli"
)

type storeFunc func(ctx context.Context, cfg *StoreConfig, s store.Store, cc *cli.Context, args []string) error

func storeMain(cfg *StoreConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Store.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Store.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	return sub.Run(cc, args[1:])
}

func storeSub(cfg *StoreConfig, name, synopsis, desc string, fn storeFunc) *cli.Command {
	var cmd *cli.Command
	return cli.NewCommandAt(&cmd, name).
		WithSynopsis(synopsis).
		WithDescription(desc).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cmd.Parse(cc, args)
			if err != nil {
				return err
			}
			s, closeStore, err := cfg.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			ctx, cancel := signalContext()
			defer cancel()
			return fn(ctx, cfg, s, cc, args)
		})
}

func (cfg *StoreConfig) openStore() (store.Store, func() error, error) {
	conf := cfg.Conf.Store
	if r := conf.Redis; r != nil {
		ttl, err := r.Expiration()
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(&redis.Options{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
		})
		opts := []store.RedisOption{store.WithTTL(ttl), store.WithMode(cfg.mode())}
		if r.Prefix != "" {
			opts = append(opts, store.WithPrefix(r.Prefix))
		}
		cfg.Log.Debug("opened redis store", "addr", r.Addr, "db", r.DB, "ttl", ttl)
		return store.NewRedisStore(client, opts...), client.Close, nil
	}
	s, err := store.NewFileStore(conf.Dir, cfg.mode())
	if err != nil {
		return nil, nil, err
	}
	cfg.Log.Debug("opened file store", "dir", s.Dir())
	return s, func() error { return nil }, nil
}

func oneKey(args []string, extra int) error {
	if len(args) < 1 || len(args) > 1+extra {
		return fmt.Errorf("%w: expected a key, got %v", cli.ErrUsage, args)
	}
	return nil
}

func storePut(ctx context.Context, cfg *StoreConfig, s store.Store, cc *cli.Context, args []string) error {
	if err := oneKey(args, 1); err != nil {
		return err
	}
	file := inputs(args[1:])[0]
	var (
		n   *ir.Node
		err error
	)
	if cfg.Text {
		n, err = readText(cc, file, false)
	} else {
		n, err = cfg.readTree(cc, file)
	}
	if err != nil {
		return err
	}
	return s.Put(ctx, args[0], n)
}

func storeGet(ctx context.Context, cfg *StoreConfig, s store.Store, cc *cli.Context, args []string) error {
	if err := oneKey(args, 0); err != nil {
		return err
	}
	n, err := s.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if cfg.Text {
		return cfg.writeText(cc.Out, n, false)
	}
	return cfg.writeTree(cc.Out, n)
}

func storeRm(ctx context.Context, cfg *StoreConfig, s store.Store, cc *cli.Context, args []string) error {
	if err := oneKey(args, 0); err != nil {
		return err
	}
	err := s.Delete(ctx, args[0])
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "%s: not found\n", args[0])
		return cli.ExitCodeErr(1)
	}
	return err
}

func storeLs(ctx context.Context, cfg *StoreConfig, s store.Store, cc *cli.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: ls takes no arguments", cli.ErrUsage)
	}
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintln(cc.Out, k)
	}
	return nil
}
