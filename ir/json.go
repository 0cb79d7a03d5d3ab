package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// FromJSON converts a JSON document to a tree. Object key order is kept.
// Integers beyond the safe range become BigInt nodes.
func FromJSON(d []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	res, err := fromJSONDecoder(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return res, nil
}

func fromJSONDecoder(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			res := DefaultInstance(ObjectType)
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := fromJSONDecoder(dec)
				if err != nil {
					return nil, err
				}
				res.Set(StrKey(key), v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return res, nil
		case '[':
			res := DefaultInstance(ArrayType)
			for dec.More() {
				v, err := fromJSONDecoder(dec)
				if err != nil {
					return nil, err
				}
				res.Values = append(res.Values, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return res, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return fromNumberString(string(t))
	case string:
		return FromString(t), nil
	case bool:
		return FromBool(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func fromNumberString(s string) (*Node, error) {
	if !strings.ContainsAny(s, ".eE") {
		b, ok := new(big.Int).SetString(s, 10)
		if ok {
			if b.IsInt64() {
				return FromInt(b.Int64()), nil
			}
			return FromBigInt(b), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return FromFloat(f), nil
}

// FromYAML converts a YAML document to a tree, keeping mapping order.
func FromYAML(d []byte) (*Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	return FromAny(v)
}

// ToYAML encodes a tree as YAML, keeping mapping order. It accepts the
// trees ToJSON accepts.
func ToYAML(y *Node) ([]byte, error) {
	d, err := ToJSON(y)
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(d)
}

// FromAny converts a generic Go value, as produced by JSON, YAML or
// expression evaluation, to a tree. NaN becomes the NaN identifier.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		if x == nil {
			return Null(), nil
		}
		return x.Clone(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case []byte:
		return FromBytes(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return FromUint(uint64(x)), nil
	case uint8:
		return FromUint(uint64(x)), nil
	case uint16:
		return FromUint(uint64(x)), nil
	case uint32:
		return FromUint(uint64(x)), nil
	case uint64:
		return FromUint(x), nil
	case float32:
		return fromAnyFloat(float64(x)), nil
	case float64:
		return fromAnyFloat(x), nil
	case json.Number:
		return fromNumberString(string(x))
	case *big.Int:
		return FromBigInt(x), nil
	case []any:
		res := DefaultInstance(ArrayType)
		for _, e := range x {
			en, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			res.Values = append(res.Values, en)
		}
		return res, nil
	case map[string]any:
		res := DefaultInstance(ObjectType)
		for _, k := range slices.Sorted(maps.Keys(x)) {
			vn, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			res.Set(StrKey(k), vn)
		}
		return res, nil
	case yaml.MapSlice:
		res := DefaultInstance(ObjectType)
		for _, item := range x {
			kn, err := FromAny(item.Key)
			if err != nil {
				return nil, err
			}
			k, ok := KeyOf(kn)
			if !ok {
				return nil, fmt.Errorf("unsupported mapping key of type %s", kn.Type)
			}
			vn, err := FromAny(item.Value)
			if err != nil {
				return nil, err
			}
			res.Set(k, vn)
		}
		return res, nil
	case map[any]any:
		ms := make(yaml.MapSlice, 0, len(x))
		for k, v := range x {
			ms = append(ms, yaml.MapItem{Key: k, Value: v})
		}
		slices.SortFunc(ms, func(a, b yaml.MapItem) int {
			return strings.Compare(fmt.Sprint(a.Key), fmt.Sprint(b.Key))
		})
		return FromAny(ms)
	}
	return nil, fmt.Errorf("cannot convert %T to a node", v)
}

func fromAnyFloat(f float64) *Node {
	if math.IsNaN(f) {
		return NaN()
	}
	return FromFloat(f)
}

// ToAny converts a tree to generic Go values: nil, bool, float64, int,
// *big.Int, string, []any and map[string]any. Holes become nil. Calls
// other than byte buffers and templates with expressions have no generic
// form and yield ErrNotJSON.
func ToAny(y *Node) (any, error) {
	if y == nil {
		return nil, nil
	}
	switch y.Type {
	case NullType:
		return nil, nil
	case BoolType:
		return y.Bool, nil
	case NumberType:
		return y.Number, nil
	case BigIntType:
		if y.BigInt.IsInt64() {
			return int(y.BigInt.Int64()), nil
		}
		return new(big.Int).Set(y.BigInt), nil
	case StringType:
		return y.String, nil
	case IdentType:
		switch y.String {
		case "undefined":
			return nil, nil
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		}
	case TemplateType:
		if len(y.Values) == 0 {
			return strings.Join(y.Quasis, ""), nil
		}
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, e := range y.Values {
			v, err := ToAny(e)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, k := range y.Fields {
			v, err := ToAny(y.Values[i])
			if err != nil {
				return nil, err
			}
			res[string(k)] = v
		}
		return res, nil
	case CallType:
		if arr, ok := y.IsBytes(); ok {
			return ToAny(arr)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotJSON, y.Type)
}

// ToJSON encodes a tree as JSON, keeping object key order. Holes, undefined
// and non-finite numbers encode as null; byte buffers encode as arrays.
func ToJSON(y *Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, y); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, y *Node) error {
	if y == nil {
		buf.WriteString("null")
		return nil
	}
	switch y.Type {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		buf.WriteString(strconv.FormatBool(y.Bool))
	case NumberType:
		if math.IsNaN(y.Number) || math.IsInf(y.Number, 0) {
			buf.WriteString("null")
			return nil
		}
		d, err := json.Marshal(y.Number)
		if err != nil {
			return err
		}
		buf.Write(d)
	case BigIntType:
		buf.WriteString(y.BigInt.String())
	case StringType:
		return writeJSONString(buf, y.String)
	case IdentType:
		switch y.String {
		case "undefined", "NaN", "Infinity":
			buf.WriteString("null")
			return nil
		}
		return fmt.Errorf("%w: identifier %s", ErrNotJSON, y.String)
	case TemplateType:
		if len(y.Values) != 0 {
			return fmt.Errorf("%w: template with expressions", ErrNotJSON)
		}
		return writeJSONString(buf, strings.Join(y.Quasis, ""))
	case ArrayType:
		buf.WriteByte('[')
		for i, e := range y.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectType:
		buf.WriteByte('{')
		for i, k := range y.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, string(k)); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, y.Values[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case CallType:
		if arr, ok := y.IsBytes(); ok {
			return writeJSON(buf, arr)
		}
		return fmt.Errorf("%w: call", ErrNotJSON)
	default:
		return fmt.Errorf("%w: %s", ErrNotJSON, y.Type)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	d, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(d)
	return nil
}

// IsNotJSON reports whether err arose from a node with no JSON form.
func IsNotJSON(err error) bool {
	return errors.Is(err, ErrNotJSON)
}
