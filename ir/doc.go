// Package ir provides the node tree used to build and inspect source
// expressions.
//
// # Overview
//
// A tree is made of *Node values. Leaves are null, booleans, numbers,
// arbitrary precision integers, strings and identifiers. Composites are
// objects (ordered key/value pairs), arrays (ordered elements, possibly with
// holes) and calls (a callee plus positional arguments). Templates and
// spreads appear in trees produced by other tools and are understood by the
// decoder in package gomap.
//
// # Node Types
//
//   - NullType: null
//   - BoolType: Bool
//   - NumberType: Number, a float64 holding integers up to MaxSafeInteger exactly
//   - BigIntType: BigInt, for integers a Number cannot hold
//   - StringType: String
//   - IdentType: String holds the identifier name (NaN, undefined, Uint8Array, ...)
//   - ArrayType: Values, where a nil entry is a hole
//   - ObjectType: Fields[i] is the key of Values[i]
//   - CallType: Callee and Values; New marks `new Callee(...)`
//   - TemplateType: Quasis and Values, interleaved
//   - SpreadType: Values[0] is the spread operand
//   - InvalidType: the placeholder callee, see EmptyCallee
//
// # Keys
//
// Object keys, array indexes and call argument positions are all addressed
// with Key. Keys are normalized so the number 2 and the string "2" are the
// same key:
//
//	obj.Get(ir.IntKey(2)) == obj.Get(ir.StrKey("2"))
//
// # Containers
//
// Objects, arrays and calls share one interface: Len, Get, Set, Delete and
// PopAny. For a call, key 0 is the callee and key n is argument n-1. Writes
// past the end of an array or call pad with holes. Deleting a callee leaves
// EmptyCallee in its place, so a call always has a callee.
//
// # Paths
//
// A Path is a sequence of keys. GetPath reads, SetPath writes, optionally
// creating missing intermediate objects, and DeletePath removes:
//
//	root := ir.DefaultInstance(ir.ObjectType)
//	err := root.SetPath(ir.PathOf("a", "b", "c"), ir.FromInt(1), true)
//	v := root.GetPath(ir.MustParsePath("$.a.b.c"))
//
// # Byte Buffers
//
// Bytes are represented as `new Uint8Array([...])`; see FromBytes and
// IsBytes.
//
// # Aliasing
//
// Mutations replace children; nothing in this package shares a node between
// two parents. Use Clone before inserting a node that is also kept elsewhere.
// Nodes are not safe for concurrent mutation.
//
// # JSON and YAML
//
// FromJSON, FromYAML and FromAny convert plain data to trees; ToJSON and
// ToAny convert back. Node also implements json.Marshaler with a lossless
// representation that keeps every node type.
package ir
