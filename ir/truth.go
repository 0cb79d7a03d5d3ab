package ir

import "math"

// Truth reports whether node is truthy under the output language's rules:
// composites are always true, empty strings, 0, NaN, null, undefined and
// holes are false.
func Truth(node *Node) bool {
	if node == nil {
		return false
	}
	switch node.Type {
	case ObjectType, ArrayType, CallType, TemplateType, SpreadType:
		return true
	case StringType:
		return node.String != ""
	case NumberType:
		return node.Number != 0 && !math.IsNaN(node.Number)
	case BigIntType:
		return node.BigInt != nil && node.BigInt.Sign() != 0
	case BoolType:
		return node.Bool
	case IdentType:
		return node.String != "undefined" && node.String != "NaN"
	default:
		return false
	}
}
