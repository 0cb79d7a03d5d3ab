package ir

import (
	"math"
	"slices"
)

// Equal reports whether a and b are structurally equal. Object entries are
// compared in order. NaN numbers are equal to each other so that trees
// compare equal to their clones.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType, InvalidType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case NumberType:
		if math.IsNaN(a.Number) {
			return math.IsNaN(b.Number)
		}
		return a.Number == b.Number
	case BigIntType:
		if a.BigInt == nil || b.BigInt == nil {
			return a.BigInt == b.BigInt
		}
		return a.BigInt.Cmp(b.BigInt) == 0
	case StringType, IdentType:
		return a.String == b.String
	case ObjectType:
		return slices.Equal(a.Fields, b.Fields) && equalValues(a.Values, b.Values)
	case ArrayType, SpreadType:
		return equalValues(a.Values, b.Values)
	case CallType:
		return a.New == b.New && Equal(a.Callee, b.Callee) && equalValues(a.Values, b.Values)
	case TemplateType:
		return slices.Equal(a.Quasis, b.Quasis) && equalValues(a.Values, b.Values)
	}
	return false
}

func equalValues(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
