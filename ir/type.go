package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	BoolType
	NumberType
	BigIntType
	StringType
	ArrayType
	ObjectType
	CallType
	IdentType
	TemplateType
	SpreadType
	InvalidType
)

var typeNames = map[Type]string{
	NullType:     "Null",
	BoolType:     "Bool",
	NumberType:   "Number",
	BigIntType:   "BigInt",
	StringType:   "String",
	ArrayType:    "Array",
	ObjectType:   "Object",
	CallType:     "Call",
	IdentType:    "Ident",
	TemplateType: "Template",
	SpreadType:   "Spread",
	InvalidType:  "Invalid",
}

func (t Type) String() string {
	s, ok := typeNames[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for tt, name := range typeNames {
		if name == string(d) {
			*t = tt
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

func Types() []Type {
	return []Type{
		NullType,
		BoolType,
		NumberType,
		BigIntType,
		StringType,
		ArrayType,
		ObjectType,
		CallType,
		IdentType,
		TemplateType,
		SpreadType,
		InvalidType,
	}
}

// IsLeaf reports whether nodes of type t have no children.
func (t Type) IsLeaf() bool {
	switch t {
	case ObjectType, ArrayType, CallType, TemplateType, SpreadType:
		return false
	default:
		return true
	}
}

// IsContainer reports whether t is one of the key addressed composite
// kinds: Object, Array or Call.
func (t Type) IsContainer() bool {
	switch t {
	case ObjectType, ArrayType, CallType:
		return true
	default:
		return false
	}
}
