package wire

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUvarint(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tt := range tests {
		got := AppendUvarint(nil, tt.v)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("AppendUvarint(%d) (-want +got):\n%s", tt.v, diff)
		}
		back, err := ReadUvarint(bytes.NewReader(got))
		if err != nil {
			t.Fatalf("ReadUvarint(%d): %v", tt.v, err)
		}
		if back != tt.v {
			t.Errorf("ReadUvarint = %d, want %d", back, tt.v)
		}
	}
}

func TestVarint(t *testing.T) {
	tests := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{-1, []byte{0x7f}},
		{63, []byte{0x3f}},
		{64, []byte{0xc0, 0x00}},
		{-64, []byte{0x40}},
		{-65, []byte{0xbf, 0x7f}},
		{-123456, []byte{0xc0, 0xbb, 0x78}},
	}
	for _, tt := range tests {
		got := AppendVarint(nil, tt.v)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("AppendVarint(%d) (-want +got):\n%s", tt.v, diff)
		}
	}
	for _, v := range []int64{0, 1, -1, 63, 64, -64, -65, math.MaxInt8, math.MinInt8,
		math.MaxInt16, math.MinInt16, math.MaxInt32, math.MinInt32, math.MaxInt64, math.MinInt64} {
		back, err := ReadVarint(bytes.NewReader(AppendVarint(nil, v)))
		if err != nil {
			t.Fatalf("ReadVarint(%d): %v", v, err)
		}
		if back != v {
			t.Errorf("ReadVarint = %d, want %d", back, v)
		}
	}
}

func TestVarint_Errors(t *testing.T) {
	if _, err := ReadUvarint(bytes.NewReader(nil)); err != io.EOF {
		t.Errorf("empty input: got %v, want io.EOF", err)
	}
	if _, err := ReadUvarint(bytes.NewReader([]byte{0x80})); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated uvarint: got %v", err)
	}
	if _, err := ReadVarint(bytes.NewReader([]byte{0xff, 0xff})); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated varint: got %v", err)
	}
	overflow := bytes.Repeat([]byte{0xff}, 11)
	if _, err := ReadUvarint(bytes.NewReader(overflow)); !errors.Is(err, errOverflow) {
		t.Errorf("overflowing uvarint: got %v", err)
	}
	if _, err := ReadVarint(bytes.NewReader(overflow)); !errors.Is(err, errOverflow) {
		t.Errorf("overflowing varint: got %v", err)
	}
}
