package ir

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// irBase is the lossless JSON form of a Node. Holes appear as JSON null
// entries in values.
type irBase struct {
	Type   Type     `json:"type"`
	Fields []Key    `json:"fields,omitempty"`
	Values []*Node  `json:"values,omitempty"`
	Callee *Node    `json:"callee,omitempty"`
	New    bool     `json:"new,omitempty"`
	Quasis []string `json:"quasis,omitempty"`
	String string   `json:"string,omitempty"`
	Bool   bool     `json:"bool,omitempty"`
	Number string   `json:"number,omitempty"`
	BigInt string   `json:"bigint,omitempty"`
}

func (y *Node) MarshalJSON() ([]byte, error) {
	base := &irBase{
		Type:   y.Type,
		Fields: y.Fields,
		Values: y.Values,
		Callee: y.Callee,
		New:    y.New,
		Quasis: y.Quasis,
		String: y.String,
		Bool:   y.Bool,
	}
	switch y.Type {
	case NumberType:
		base.Number = FormatNumber(y.Number)
	case BigIntType:
		if y.BigInt != nil {
			base.BigInt = y.BigInt.String()
		}
	}
	return json.Marshal(base)
}

func (y *Node) UnmarshalJSON(d []byte) error {
	tmp := &irBase{}
	if err := json.Unmarshal(d, tmp); err != nil {
		return err
	}
	*y = Node{
		Type:   tmp.Type,
		Fields: tmp.Fields,
		Values: tmp.Values,
		Callee: tmp.Callee,
		New:    tmp.New,
		Quasis: tmp.Quasis,
		String: tmp.String,
		Bool:   tmp.Bool,
	}
	switch y.Type {
	case NumberType:
		f, err := strconv.ParseFloat(tmp.Number, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", tmp.Number, err)
		}
		y.Number = f
	case BigIntType:
		b, ok := new(big.Int).SetString(tmp.BigInt, 10)
		if !ok {
			return fmt.Errorf("invalid bigint %q", tmp.BigInt)
		}
		y.BigInt = b
	case ObjectType:
		if len(y.Fields) != len(y.Values) {
			return fmt.Errorf("object with %d fields and %d values", len(y.Fields), len(y.Values))
		}
		seen := make(map[Key]bool, len(y.Fields))
		for i, v := range y.Values {
			if v == nil {
				return fmt.Errorf("object field %q has no value", y.Fields[i])
			}
			if seen[y.Fields[i]] {
				return fmt.Errorf("duplicate object field %q", y.Fields[i])
			}
			seen[y.Fields[i]] = true
		}
	case CallType:
		if y.Callee == nil {
			y.Callee = EmptyCallee()
		}
	case TemplateType:
		if len(y.Quasis) != len(y.Values)+1 {
			return fmt.Errorf("template with %d chunks and %d expressions", len(y.Quasis), len(y.Values))
		}
	case SpreadType:
		if len(y.Values) != 1 || y.Values[0] == nil {
			return fmt.Errorf("spread needs exactly one operand")
		}
	}
	return nil
}
