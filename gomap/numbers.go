package gomap

import (
	"math"
	"math/big"
	"reflect"

	"github.com/signadot/nodetree/ir"
	"golang.org/x/exp/constraints"
)

func fitsSigned[T constraints.Signed](v int64) bool {
	return int64(T(v)) == v
}

func fitsUnsigned[T constraints.Unsigned](v uint64) bool {
	return uint64(T(v)) == v
}

func fitsFloat[T constraints.Float](f float64) bool {
	return !math.IsInf(float64(T(f)), 0) || math.IsInf(f, 0)
}

// integerOf returns the exact integer held by a Number or BigInt node.
// The result must not be modified.
func integerOf(node *ir.Node, path ir.Path, target string) (*big.Int, error) {
	switch node.Type {
	case ir.NumberType:
		f := node.Number
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, outOfRange(path, ir.FormatNumber(f), target)
		}
		b, _ := big.NewFloat(f).Int(nil)
		return b, nil
	case ir.BigIntType:
		return node.BigInt, nil
	}
	return nil, typeMismatch(path, describe(node), target)
}

func (d *decoder) decodeInt(node *ir.Node, val reflect.Value, path ir.Path) error {
	target := val.Type().String()
	b, err := integerOf(node, path, target)
	if err != nil {
		return err
	}
	if !b.IsInt64() {
		return outOfRange(path, b.String(), target)
	}
	v := b.Int64()
	var ok bool
	switch val.Kind() {
	case reflect.Int:
		ok = fitsSigned[int](v)
	case reflect.Int8:
		ok = fitsSigned[int8](v)
	case reflect.Int16:
		ok = fitsSigned[int16](v)
	case reflect.Int32:
		ok = fitsSigned[int32](v)
	case reflect.Int64:
		ok = true
	}
	if !ok {
		return outOfRange(path, b.String(), target)
	}
	val.SetInt(v)
	return nil
}

func (d *decoder) decodeUint(node *ir.Node, val reflect.Value, path ir.Path) error {
	target := val.Type().String()
	b, err := integerOf(node, path, target)
	if err != nil {
		return err
	}
	if !b.IsUint64() {
		return outOfRange(path, b.String(), target)
	}
	v := b.Uint64()
	var ok bool
	switch val.Kind() {
	case reflect.Uint:
		ok = fitsUnsigned[uint](v)
	case reflect.Uint8:
		ok = fitsUnsigned[uint8](v)
	case reflect.Uint16:
		ok = fitsUnsigned[uint16](v)
	case reflect.Uint32:
		ok = fitsUnsigned[uint32](v)
	case reflect.Uint64:
		ok = true
	case reflect.Uintptr:
		ok = fitsUnsigned[uintptr](v)
	}
	if !ok {
		return outOfRange(path, b.String(), target)
	}
	val.SetUint(v)
	return nil
}

// decodeFloat accepts Number and BigInt nodes and the NaN and Infinity
// identifiers.
func (d *decoder) decodeFloat(node *ir.Node, val reflect.Value, path ir.Path) error {
	target := val.Type().String()
	var f float64
	switch node.Type {
	case ir.NumberType:
		f = node.Number
	case ir.BigIntType:
		f, _ = new(big.Float).SetInt(node.BigInt).Float64()
		if math.IsInf(f, 0) {
			return outOfRange(path, node.BigInt.String()+"n", target)
		}
	case ir.IdentType:
		switch node.String {
		case "NaN":
			f = math.NaN()
		case "Infinity":
			f = math.Inf(1)
		default:
			return typeMismatch(path, describe(node), target)
		}
	default:
		return typeMismatch(path, describe(node), target)
	}
	if val.Kind() == reflect.Float32 && !fitsFloat[float32](f) {
		return outOfRange(path, ir.FormatNumber(f), target)
	}
	val.SetFloat(f)
	return nil
}

func (d *decoder) decodeBigInt(node *ir.Node, val reflect.Value, path ir.Path) error {
	b, err := integerOf(node, path, "big.Int")
	if err != nil {
		return err
	}
	val.Addr().Interface().(*big.Int).Set(b)
	return nil
}

// bytesOf reads a byte buffer construction or a bare array of numbers.
func bytesOf(node *ir.Node, path ir.Path) ([]byte, error) {
	arr := node
	if node.Type == ir.CallType && node.Callee.IsIdent(ir.BytesConstructor) {
		if len(node.Values) != 1 {
			return nil, typeMismatch(path, describe(node), ir.BytesConstructor+" of an array")
		}
		path = childPath(path, ir.IntKey(1))
		arr = node.Values[0]
		switch {
		case arr == nil:
			return nil, holeError(path)
		case arr.Type == ir.SpreadType:
			return nil, spreadError(path)
		}
	}
	if arr.Type != ir.ArrayType {
		return nil, typeMismatch(path, describe(node), "byte array")
	}
	res := make([]byte, len(arr.Values))
	for i, e := range arr.Values {
		ep := childPath(path, ir.IntKey(i))
		switch {
		case e == nil:
			return nil, holeError(ep)
		case e.Type == ir.SpreadType:
			return nil, spreadError(ep)
		}
		b, err := integerOf(e, ep, "uint8")
		if err != nil {
			return nil, err
		}
		if !b.IsUint64() || b.Uint64() > math.MaxUint8 {
			return nil, outOfRange(ep, b.String(), "uint8")
		}
		res[i] = byte(b.Uint64())
	}
	return res, nil
}
