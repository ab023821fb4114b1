package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/ograph/debug"
	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
	"github.com/signadot/ograph/wire"
)

// FileStore keeps each tree in dir as key plus the mode's file suffix.
type FileStore struct {
	dir  string
	mode format.Mode
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, m format.Mode) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, mode: m}, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) (string, error) {
	if err := CheckKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+s.mode.Suffix()), nil
}

func (s *FileStore) Put(ctx context.Context, key string, n *ir.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if debug.Store() {
		debug.Logf("file store put %s\n", p)
	}
	return wire.WriteFile(n, p, s.mode)
}

func (s *FileStore) Get(ctx context.Context, key string) (*ir.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	n, err := wire.ReadFile(p, s.mode)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return n, err
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}

func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	suffix := s.mode.Suffix()
	var res []string
	for _, ent := range ents {
		name := ent.Name()
		if !ent.Type().IsRegular() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, suffix) {
			continue
		}
		res = append(res, strings.TrimSuffix(name, suffix))
	}
	return res, nil
}
