package wire

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/signadot/ograph/format"
	"github.com/signadot/ograph/ir"
)

// WriteFile encodes n to path. The document is written to a temporary file
// in the same directory and renamed into place.
func WriteFile(n *ir.Node, path string, m format.Mode) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()
	w := bufio.NewWriter(f)
	if err = Encode(n, w, EncodeMode(m)); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not move %s into place: %w", path, err)
	}
	return nil
}

// ReadFile decodes the document stored at path.
func ReadFile(path string, m format.Mode) (*ir.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n, err := Decode(bufio.NewReader(f), DecodeMode(m))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
