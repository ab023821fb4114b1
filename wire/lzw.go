package wire

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/ograph/debug"
)

const (
	// lzwSeed single byte entries are implicit; codes below lzwSeed are the
	// byte itself.
	lzwSeed = 256
	// lzwMax is the dictionary size at which insertion stops. Lookups keep
	// using the frozen table.
	lzwMax = 4096
)

// lzwEncode returns the dictionary codes for s. The dictionary starts with
// the 256 single byte entries and is private to this call.
func lzwEncode(s string) []uint32 {
	if s == "" {
		return nil
	}
	var dict map[string]uint32
	lookup := func(sub string) (uint32, bool) {
		if len(sub) == 1 {
			return uint32(sub[0]), true
		}
		c, ok := dict[sub]
		return c, ok
	}
	codes := make([]uint32, 0, len(s)/2+1)
	start := 0
	for i := 1; i < len(s); i++ {
		if _, ok := lookup(s[start : i+1]); ok {
			continue
		}
		c, _ := lookup(s[start:i])
		codes = append(codes, c)
		if lzwSeed+len(dict) < lzwMax {
			if dict == nil {
				dict = make(map[string]uint32)
			}
			dict[s[start:i+1]] = uint32(lzwSeed + len(dict))
		}
		start = i
	}
	c, _ := lookup(s[start:])
	if debug.LZW() && lzwSeed+len(dict) >= lzwMax {
		debug.Logf("lzw dictionary full: %d bytes in %d codes\n", len(s), len(codes)+1)
	}
	return append(codes, c)
}

// appendLZW appends the code count and codes for s as unsigned varints.
func appendLZW(b []byte, s string) []byte {
	codes := lzwEncode(s)
	b = AppendUvarint(b, uint64(len(codes)))
	for _, c := range codes {
		b = AppendUvarint(b, uint64(c))
	}
	return b
}

// lzwDecoder mirrors lzwEncode. Entries at or above lzwSeed are stored in
// table; lower codes are single bytes.
type lzwDecoder struct {
	table []string
	out   strings.Builder
}

func (d *lzwDecoder) size() int {
	return lzwSeed + len(d.table)
}

func (d *lzwDecoder) entry(c uint64) (string, bool) {
	if c < lzwSeed {
		return string([]byte{byte(c)}), true
	}
	if c < uint64(d.size()) {
		return d.table[c-lzwSeed], true
	}
	return "", false
}

func readLZW(r io.ByteReader) (string, error) {
	n, err := ReadUvarint(r)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	d := &lzwDecoder{}
	first, err := ReadUvarint(r)
	if err != nil {
		return "", eofToUnexpected(err, 1)
	}
	prev, ok := d.entry(first)
	if !ok {
		return "", fmt.Errorf("%w: first dictionary code %d", ErrCorruptStream, first)
	}
	d.out.WriteString(prev)
	for i := uint64(1); i < n; i++ {
		c, err := ReadUvarint(r)
		if err != nil {
			return "", eofToUnexpected(err, 1)
		}
		cur, ok := d.entry(c)
		if !ok {
			if c != uint64(d.size()) || d.size() >= lzwMax {
				return "", fmt.Errorf("%w: dictionary code %d with %d entries", ErrCorruptStream, c, d.size())
			}
			cur = prev + prev[:1]
		}
		d.out.WriteString(cur)
		if d.size() < lzwMax {
			d.table = append(d.table, prev+cur[:1])
		}
		prev = cur
	}
	return d.out.String(), nil
}

// CompressString returns the size mode encoding of s: a varint code count
// followed by varint codes.
func CompressString(s string) []byte {
	return appendLZW(nil, s)
}

// DecompressString decodes the output of CompressString.
func DecompressString(b []byte) (string, error) {
	r := bytes.NewReader(b)
	s, err := readLZW(r)
	if err != nil {
		return "", err
	}
	if r.Len() != 0 {
		return "", fmt.Errorf("%w: %d trailing bytes", ErrCorruptStream, r.Len())
	}
	return s, nil
}
