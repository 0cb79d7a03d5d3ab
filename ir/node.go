package ir

import (
	"maps"
	"math/big"
	"slices"
)

// MaxSafeInteger is the largest integer a Number node holds exactly.
const MaxSafeInteger = 1<<53 - 1

// Node is a value in a tree. Which fields are meaningful depends on Type.
type Node struct {
	Type Type

	// Fields holds object keys, parallel to Values.
	Fields []Key

	// Values holds object values, array elements, call arguments,
	// template expressions and the operand of a spread. A nil array
	// element or call argument is a hole.
	Values []*Node

	// Callee is the function of a call. It is never nil on a well formed
	// call; see EmptyCallee.
	Callee *Node

	// New marks a call as a constructor invocation.
	New bool

	// Quasis holds the literal chunks of a template, len(Values)+1 of them.
	Quasis []string

	String string // StringType and IdentType
	Bool   bool
	Number float64
	BigInt *big.Int
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromFloat(f float64) *Node {
	return &Node{Type: NumberType, Number: f}
}

// FromInt returns a Number node, or a BigInt node when v is outside
// ±MaxSafeInteger.
func FromInt(v int64) *Node {
	if v > MaxSafeInteger || v < -MaxSafeInteger {
		return FromBigInt(big.NewInt(v))
	}
	return FromFloat(float64(v))
}

// FromUint is like FromInt for unsigned values.
func FromUint(v uint64) *Node {
	if v > MaxSafeInteger {
		return FromBigInt(new(big.Int).SetUint64(v))
	}
	return FromFloat(float64(v))
}

func FromBigInt(b *big.Int) *Node {
	return &Node{Type: BigIntType, BigInt: new(big.Int).Set(b)}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func Ident(name string) *Node {
	return &Node{Type: IdentType, String: name}
}

func Undefined() *Node { return Ident("undefined") }
func NaN() *Node       { return Ident("NaN") }

// EmptyCallee returns the placeholder installed when a call's callee is
// deleted.
func EmptyCallee() *Node {
	return &Node{Type: InvalidType}
}

// FromSlice returns an array of the given elements. Nil elements are holes.
func FromSlice(ySlice []*Node) *Node {
	res := &Node{Type: ArrayType}
	res.Values = make([]*Node, len(ySlice))
	copy(res.Values, ySlice)
	return res
}

type KeyVal struct {
	Key Key
	Val *Node
}

func KV(k string, v *Node) KeyVal {
	return KeyVal{Key: StrKey(k), Val: v}
}

// FromKeyVals returns an object with the given entries in order. A repeated
// key replaces the earlier value in place.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]Key, 0, len(kvs))
	res.Values = make([]*Node, 0, len(kvs))
	for _, kv := range kvs {
		val := kv.Val
		if val == nil {
			val = Null()
		}
		res.Set(kv.Key, val)
	}
	return res
}

// Object is shorthand for FromKeyVals.
func Object(kvs ...KeyVal) *Node {
	return FromKeyVals(kvs)
}

// Array is shorthand for FromSlice.
func Array(vs ...*Node) *Node {
	return FromSlice(vs)
}

// FromMap returns an object with the entries of yMap in key order.
func FromMap(yMap map[string]*Node) *Node {
	res := &Node{Type: ObjectType}
	keys := slices.Sorted(maps.Keys(yMap))
	res.Fields = make([]Key, len(keys))
	res.Values = make([]*Node, len(keys))
	for i, key := range keys {
		res.Fields[i] = StrKey(key)
		res.Values[i] = yMap[key]
	}
	return res
}

// ToMap returns the entries of an object keyed by their normalized keys.
func ToMap(y *Node) map[Key]*Node {
	if y.Type != ObjectType {
		return nil
	}
	res := make(map[Key]*Node, len(y.Fields))
	for i, k := range y.Fields {
		res[k] = y.Values[i]
	}
	return res
}

// NewCall returns callee(args...).
func NewCall(callee *Node, args ...*Node) *Node {
	if callee == nil {
		callee = EmptyCallee()
	}
	res := &Node{Type: CallType, Callee: callee}
	res.Values = make([]*Node, len(args))
	copy(res.Values, args)
	return res
}

// NewConstruct returns new callee(args...).
func NewConstruct(callee *Node, args ...*Node) *Node {
	res := NewCall(callee, args...)
	res.New = true
	return res
}

// Template returns a template literal. quasis must have one more element
// than exprs.
func Template(quasis []string, exprs ...*Node) *Node {
	return &Node{
		Type:   TemplateType,
		Quasis: slices.Clone(quasis),
		Values: slices.Clone(exprs),
	}
}

// Spread returns a variadic marker over y.
func Spread(y *Node) *Node {
	return &Node{Type: SpreadType, Values: []*Node{y}}
}

// BytesConstructor names the constructor used for byte buffers.
const BytesConstructor = "Uint8Array"

// FromBytes returns new Uint8Array([b...]).
func FromBytes(b []byte) *Node {
	elts := make([]*Node, len(b))
	for i, c := range b {
		elts[i] = FromFloat(float64(c))
	}
	return NewConstruct(Ident(BytesConstructor), FromSlice(elts))
}

// IsBytes reports whether y is a byte buffer construction and returns
// its array argument.
func (y *Node) IsBytes() (*Node, bool) {
	if y == nil || y.Type != CallType || len(y.Values) != 1 {
		return nil, false
	}
	if y.Callee == nil || y.Callee.Type != IdentType || y.Callee.String != BytesConstructor {
		return nil, false
	}
	arg := y.Values[0]
	if arg == nil || arg.Type != ArrayType {
		return nil, false
	}
	return arg, true
}

// IsIdent reports whether y is the identifier name.
func (y *Node) IsIdent(name string) bool {
	return y != nil && y.Type == IdentType && y.String == name
}

// IsAbsent reports whether y denotes no value: a hole, null or undefined.
func (y *Node) IsAbsent() bool {
	return y == nil || y.Type == NullType || y.IsIdent("undefined")
}

// Clone returns a deep copy of y.
func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := &Node{
		Type:   y.Type,
		New:    y.New,
		String: y.String,
		Bool:   y.Bool,
		Number: y.Number,
	}
	if y.Fields != nil {
		res.Fields = slices.Clone(y.Fields)
	}
	if y.Values != nil {
		res.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			res.Values[i] = v.Clone()
		}
	}
	if y.Quasis != nil {
		res.Quasis = slices.Clone(y.Quasis)
	}
	if y.Callee != nil {
		res.Callee = y.Callee.Clone()
	}
	if y.BigInt != nil {
		res.BigInt = new(big.Int).Set(y.BigInt)
	}
	return res
}

// Visit calls f on y before and after its children. If the pre-order
// call returns false the children are skipped. Holes are not visited.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		if y.Callee != nil {
			if err := y.Callee.Visit(f); err != nil {
				return err
			}
		}
		for _, yy := range y.Values {
			if yy == nil {
				continue
			}
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}
