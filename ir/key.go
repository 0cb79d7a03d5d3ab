package ir

import (
	"math"
	"math/big"
	"strconv"
)

// Key is an object key or a container index in normalized form.
//
// Numeric keys are held in their canonical decimal spelling, so the number 1,
// the number 1.0 and the string "1" all denote the same key. Arrays and calls
// are addressed by keys for which Index reports true.
type Key string

func StrKey(s string) Key    { return Key(s) }
func IntKey(i int) Key       { return Key(strconv.Itoa(i)) }
func NumKey(f float64) Key   { return Key(FormatNumber(f)) }
func BigKey(b *big.Int) Key  { return Key(b.String()) }
func (k Key) String() string { return string(k) }
func (k Key) Node() *Node    { return FromString(string(k)) }

// KeyOf returns the key denoted by a String, Ident, Number or BigInt node.
func KeyOf(y *Node) (Key, bool) {
	if y == nil {
		return "", false
	}
	switch y.Type {
	case StringType, IdentType:
		return Key(y.String), true
	case NumberType:
		return NumKey(y.Number), true
	case BigIntType:
		if y.BigInt == nil {
			return "", false
		}
		return BigKey(y.BigInt), true
	default:
		return "", false
	}
}

// Index reports whether k spells a non-negative integer index and returns
// it. Fractional, negative, signed or oversized spellings are not indexes.
func (k Key) Index() (int, bool) {
	s := string(k)
	if s == "" || len(s) > 18 {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return i, true
}

// FormatNumber spells f the way the output language prints numbers:
// integral values carry no fraction and non-finite values use their
// identifier names.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
