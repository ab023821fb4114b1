package ir

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxDecimalScale is the largest number of fractional digits a Decimal holds.
const MaxDecimalScale = 28

// Decimal is a 128-bit fixed point number: a 96-bit unsigned coefficient
// (Hi:Lo) scaled by 10^-Scale, negated when Neg is set.
type Decimal struct {
	Lo    uint64
	Hi    uint32
	Scale uint8
	Neg   bool
}

var mask64 = new(big.Int).SetUint64(^uint64(0))

// NewDecimal converts d to a Decimal, rounding to MaxDecimalScale digits.
// It fails if the coefficient does not fit in 96 bits.
func NewDecimal(d decimal.Decimal) (Decimal, error) {
	if -d.Exponent() > MaxDecimalScale {
		d = d.Round(MaxDecimalScale)
	}
	coef := d.Coefficient()
	exp := d.Exponent()
	if exp > 0 {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
		coef.Mul(coef, scale)
		exp = 0
	}
	res := Decimal{Scale: uint8(-exp), Neg: coef.Sign() < 0}
	coef.Abs(coef)
	if coef.BitLen() > 96 {
		return Decimal{}, fmt.Errorf("%w: decimal %s exceeds 96-bit coefficient", ErrRange, d)
	}
	res.Lo = new(big.Int).And(coef, mask64).Uint64()
	res.Hi = uint32(new(big.Int).Rsh(coef, 64).Uint64())
	return res, nil
}

// ParseDecimal parses a decimal literal such as "-12.50", keeping its scale.
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %w", ErrRange, err)
	}
	return NewDecimal(d)
}

// Std returns d as a shopspring decimal.
func (d Decimal) Std() decimal.Decimal {
	coef := new(big.Int).SetUint64(uint64(d.Hi))
	coef.Lsh(coef, 64)
	coef.Or(coef, new(big.Int).SetUint64(d.Lo))
	if d.Neg {
		coef.Neg(coef)
	}
	return decimal.NewFromBigInt(coef, -int32(d.Scale))
}

// String formats d with exactly Scale fractional digits.
func (d Decimal) String() string {
	return d.Std().StringFixed(int32(d.Scale))
}

func (d Decimal) Float64() float64 {
	return d.Std().InexactFloat64()
}

func (d Decimal) IsZero() bool {
	return d.Lo == 0 && d.Hi == 0
}

// Compare orders by numeric value, then by scale.
func (d Decimal) Compare(o Decimal) int {
	if c := d.Std().Cmp(o.Std()); c != 0 {
		return c
	}
	return cmp.Compare(d.Scale, o.Scale)
}

// Bytes returns the fixed 16 byte little-endian layout: coefficient low
// 64 bits, high 32 bits, two reserved bytes, scale, sign.
func (d Decimal) Bytes() [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], d.Lo)
	binary.LittleEndian.PutUint32(b[8:12], d.Hi)
	b[14] = d.Scale
	if d.Neg {
		b[15] = 0x80
	}
	return b
}

// DecimalFromBytes is the inverse of Decimal.Bytes.
func DecimalFromBytes(b [16]byte) (Decimal, error) {
	if b[12] != 0 || b[13] != 0 || (b[15] != 0 && b[15] != 0x80) {
		return Decimal{}, fmt.Errorf("%w: malformed decimal flags % x", ErrRange, b[12:])
	}
	if b[14] > MaxDecimalScale {
		return Decimal{}, fmt.Errorf("%w: decimal scale %d", ErrRange, b[14])
	}
	return Decimal{
		Lo:    binary.LittleEndian.Uint64(b[0:8]),
		Hi:    binary.LittleEndian.Uint32(b[8:12]),
		Scale: b[14],
		Neg:   b[15] == 0x80,
	}, nil
}
