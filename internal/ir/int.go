package ir

import (
	"math/big"
)

// Int is an arbitrary-precision integer.
//
// The zero value is 0. Int values are comparable with == and usable as map
// keys: the decimal form is canonical and 0 is always stored as "".
type Int struct {
	dec string
}

// Common constants.
var (
	Zero = Int{}
	One  = NewInt(1)
)

// NewInt creates an Int from an int64.
func NewInt(x int64) Int {
	return FromBig(big.NewInt(x))
}

// NewUint creates an Int from a uint64.
func NewUint(x uint64) Int {
	return FromBig(new(big.Int).SetUint64(x))
}

// FromBig creates an Int from a big.Int. b is not retained.
func FromBig(b *big.Int) Int {
	if b == nil || b.Sign() == 0 {
		return Int{}
	}
	return Int{dec: b.String()}
}

// ParseInt parses a decimal integer with an optional sign.
func ParseInt(s string) (Int, bool) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, false
	}
	return FromBig(b), true
}

// MustParseInt is like ParseInt but panics on malformed input.
// Use only in tests or for constants known to be valid.
func MustParseInt(s string) Int {
	i, ok := ParseInt(s)
	if !ok {
		panic("ir: malformed integer " + s)
	}
	return i
}

// Big returns a fresh big.Int holding i.
func (i Int) Big() *big.Int {
	b := new(big.Int)
	if i.dec != "" {
		b.SetString(i.dec, 10)
	}
	return b
}

// String returns the decimal form of i.
func (i Int) String() string {
	if i.dec == "" {
		return "0"
	}
	return i.dec
}

// Sign returns -1, 0 or +1.
func (i Int) Sign() int {
	switch {
	case i.dec == "":
		return 0
	case i.dec[0] == '-':
		return -1
	default:
		return 1
	}
}

// Cmp compares i and j, returning -1, 0 or +1.
func (i Int) Cmp(j Int) int {
	if i == j {
		return 0
	}
	return i.Big().Cmp(j.Big())
}

// Add returns i+j.
func (i Int) Add(j Int) Int {
	return FromBig(new(big.Int).Add(i.Big(), j.Big()))
}

// Sub returns i-j.
func (i Int) Sub(j Int) Int {
	return FromBig(new(big.Int).Sub(i.Big(), j.Big()))
}

// Uint64 returns i as a uint64 if it fits.
func (i Int) Uint64() (uint64, bool) {
	b := i.Big()
	if !b.IsUint64() {
		return 0, false
	}
	return b.Uint64(), true
}

// InBounds reports whether i is representable by an integer with the given
// signedness and byte size. It never allocates proportionally to size.
func (i Int) InBounds(signed Signedness, size Size) bool {
	b := i.Big()
	if signed == Unsigned && b.Sign() < 0 {
		return false
	}
	if size == 0 {
		return b.Sign() == 0
	}
	// size*8 overflows a uint64 here; no finite decimal is that wide.
	if size >= 1<<61 {
		return true
	}
	bits := uint64(size) * 8
	if signed == Unsigned {
		return uint64(b.BitLen()) <= bits
	}
	if b.Sign() < 0 {
		// -b-1 is the magnitude of the two's-complement payload.
		b.Neg(b).Sub(b, big.NewInt(1))
	}
	return uint64(b.BitLen()) < bits
}
