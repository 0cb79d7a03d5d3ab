package gomap

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"
	"go.uber.org/zap"
)

// NodeUnmarshaler is implemented by types that decode themselves. The
// node passed to UnmarshalNode is a copy.
type NodeUnmarshaler interface {
	UnmarshalNode(*ir.Node) error
}

var (
	nodeUnmarshalerType = reflect.TypeFor[NodeUnmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	enumType            = reflect.TypeFor[Enum]()
)

// Decode decodes node into the value pointed to by v. The node is never
// modified. On failure *v is left unchanged and the error is a
// *DecodeError carrying the path of the offending node.
func Decode(node *ir.Node, v any, opts ...DecodeOption) error {
	return decodeInto(node, v, newDecodeConfig(opts))
}

// DecodeAs is like Decode and returns the decoded value.
func DecodeAs[T any](node *ir.Node, opts ...DecodeOption) (T, error) {
	var res T
	err := Decode(node, &res, opts...)
	return res, err
}

func decodeInto(node *ir.Node, v any, cfg *decodeConfig) error {
	val := reflect.ValueOf(v)
	if !val.IsValid() || val.Kind() != reflect.Pointer || val.IsNil() {
		return ErrInvalidTarget
	}
	d := &decoder{cfg: cfg}
	tmp := reflect.New(val.Type().Elem())
	if err := d.decode(node, tmp.Elem(), nil); err != nil {
		cfg.logger.Debug("decode failed", zap.Stringer("type", val.Type().Elem()), zap.Error(err))
		return err
	}
	val.Elem().Set(tmp.Elem())
	return nil
}

type decoder struct {
	cfg *decodeConfig
}

func childPath(p ir.Path, k ir.Key) ir.Path {
	return append(p[:len(p):len(p)], k)
}

// decode sets val, a zero addressable value, from node. A nil node is a
// hole.
func (d *decoder) decode(node *ir.Node, val reflect.Value, path ir.Path) error {
	typ := val.Type()
	kind := typ.Kind()
	if debug.Decode() {
		debug.Logf("decode %s %s into %s\n", path, describe(node), typ)
	}

	switch {
	case typ == nodeType:
		if node == nil {
			return holeError(path)
		}
		val.Set(reflect.ValueOf(*node.Clone()))
		return nil
	case kind == reflect.Pointer && typ.Elem() == nodeType:
		val.Set(reflect.ValueOf(node.Clone()))
		return nil
	}

	if node == nil {
		if kind == reflect.Pointer || kind == reflect.Interface {
			return nil
		}
		return holeError(path)
	}

	if kind == reflect.Pointer {
		if node.IsAbsent() {
			return nil
		}
		ptr := reflect.New(typ.Elem())
		if err := d.decode(node, ptr.Elem(), path); err != nil {
			return err
		}
		val.Set(ptr)
		return nil
	}

	if typ == bigIntType {
		return d.decodeBigInt(node, val, path)
	}
	if u, ok := implements[NodeUnmarshaler](val, nodeUnmarshalerType); ok {
		if err := u.UnmarshalNode(node.Clone()); err != nil {
			return customError(path, "UnmarshalNode failed", err)
		}
		return nil
	}
	if tu, ok := implements[encoding.TextUnmarshaler](val, textUnmarshalerType); ok {
		s, err := stringOf(node, path)
		if err != nil {
			return err
		}
		if err := tu.UnmarshalText([]byte(s)); err != nil {
			return customError(path, "UnmarshalText failed", err)
		}
		return nil
	}

	if kind == reflect.Interface {
		return d.decodeInterface(node, val, path)
	}

	if node.IsAbsent() {
		switch kind {
		case reflect.Slice, reflect.Map:
			return nil
		case reflect.Struct:
			if plan, err := planOf(typ); err == nil && !plan.union && !plan.tuple && len(plan.fields) == 0 {
				return nil
			}
		}
		return typeMismatch(path, describe(node), typ.String())
	}

	switch kind {
	case reflect.Bool:
		if node.Type != ir.BoolType {
			return typeMismatch(path, describe(node), "boolean")
		}
		val.SetBool(node.Bool)
		return nil

	case reflect.String:
		s, err := stringOf(node, path)
		if err != nil {
			return err
		}
		if err := checkEnum(val, s, path); err != nil {
			return err
		}
		val.SetString(s)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.decodeInt(node, val, path)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return d.decodeUint(node, val, path)

	case reflect.Float32, reflect.Float64:
		return d.decodeFloat(node, val, path)

	case reflect.Slice:
		if isByteSeq(typ) {
			b, err := bytesOf(node, path)
			if err != nil {
				return err
			}
			res := reflect.MakeSlice(typ, len(b), len(b))
			for i, c := range b {
				res.Index(i).SetUint(uint64(c))
			}
			val.Set(res)
			return nil
		}
		return d.decodeSlice(node, val, path)

	case reflect.Array:
		return d.decodeArray(node, val, path)

	case reflect.Map:
		return d.decodeMap(node, val, path)

	case reflect.Struct:
		return d.decodeStruct(node, val, path)
	}
	return &DecodeError{Kind: KindCustom, Path: path, Message: fmt.Sprintf("unsupported type: %s", typ)}
}

// stringOf accepts a string or a template without expressions.
func stringOf(node *ir.Node, path ir.Path) (string, error) {
	switch node.Type {
	case ir.StringType:
		return node.String, nil
	case ir.TemplateType:
		if len(node.Values) == 0 {
			return strings.Join(node.Quasis, ""), nil
		}
	}
	return "", typeMismatch(path, describe(node), "string")
}

func checkEnum(val reflect.Value, s string, path ir.Path) error {
	if !reflect.PointerTo(val.Type()).Implements(enumType) {
		return nil
	}
	allowed := val.Addr().Interface().(Enum).Variants()
	for _, v := range allowed {
		if v == s {
			return nil
		}
	}
	return &DecodeError{Kind: KindUnknownVariant, Path: path, Found: s, Allowed: allowed}
}

func (d *decoder) decodeChar(node *ir.Node, val reflect.Value, path ir.Path) error {
	s, err := stringOf(node, path)
	if err != nil {
		return err
	}
	r := []rune(s)
	if len(r) != 1 {
		return typeMismatch(path, describe(node), "a single character")
	}
	val.SetInt(int64(r[0]))
	return nil
}

// decodeInterface fills an empty interface with generic values, or with
// a copy of the node when it has no generic form.
func (d *decoder) decodeInterface(node *ir.Node, val reflect.Value, path ir.Path) error {
	if node.IsAbsent() {
		return nil
	}
	if val.NumMethod() != 0 {
		return typeMismatch(path, describe(node), val.Type().String())
	}
	v, err := ir.ToAny(node)
	if err != nil {
		if !ir.IsNotJSON(err) {
			return customError(path, "", err)
		}
		val.Set(reflect.ValueOf(node.Clone()))
		return nil
	}
	if v != nil {
		val.Set(reflect.ValueOf(v))
	}
	return nil
}

func (d *decoder) decodeSlice(node *ir.Node, val reflect.Value, path ir.Path) error {
	if node.Type != ir.ArrayType {
		return typeMismatch(path, describe(node), "array")
	}
	n := len(node.Values)
	res := reflect.MakeSlice(val.Type(), n, n)
	for i, e := range node.Values {
		ep := childPath(path, ir.IntKey(i))
		if e != nil && e.Type == ir.SpreadType {
			return spreadError(ep)
		}
		if err := d.decode(e, res.Index(i), ep); err != nil {
			return err
		}
	}
	val.Set(res)
	return nil
}

// decodeArray fills a fixed length array. A shorter input fails; extra
// elements are ignored unless unknown keys are disallowed.
func (d *decoder) decodeArray(node *ir.Node, val reflect.Value, path ir.Path) error {
	n := val.Len()
	if isByteSeq(val.Type()) {
		b, err := bytesOf(node, path)
		if err != nil {
			return err
		}
		if err := d.checkLength(len(b), n, path); err != nil {
			return err
		}
		for i := range n {
			val.Index(i).SetUint(uint64(b[i]))
		}
		return nil
	}
	if node.Type != ir.ArrayType {
		return typeMismatch(path, describe(node), "array")
	}
	if err := d.checkLength(len(node.Values), n, path); err != nil {
		return err
	}
	for i := range n {
		e := node.Values[i]
		ep := childPath(path, ir.IntKey(i))
		if e != nil && e.Type == ir.SpreadType {
			return spreadError(ep)
		}
		if err := d.decode(e, val.Index(i), ep); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) checkLength(got, want int, path ir.Path) error {
	switch {
	case got < want:
		return &DecodeError{Kind: KindIndexOutOfRange, Path: path, Index: got, Length: got}
	case got > want && d.cfg.disallowExtras:
		return &DecodeError{Kind: KindIndexOutOfRange, Path: path, Index: want, Length: want}
	}
	return nil
}

func (d *decoder) decodeMap(node *ir.Node, val reflect.Value, path ir.Path) error {
	if node.Type != ir.ObjectType {
		return typeMismatch(path, describe(node), "object")
	}
	typ := val.Type()
	res := reflect.MakeMapWithSize(typ, len(node.Fields))
	for i, k := range node.Fields {
		ep := childPath(path, k)
		kv := reflect.New(typ.Key()).Elem()
		if err := parseMapKey(k, kv, ep); err != nil {
			return err
		}
		vv := reflect.New(typ.Elem()).Elem()
		if err := d.decode(node.Values[i], vv, ep); err != nil {
			return err
		}
		res.SetMapIndex(kv, vv)
	}
	val.Set(res)
	return nil
}

func parseMapKey(k ir.Key, val reflect.Value, path ir.Path) error {
	typ := val.Type()
	mismatch := func() error {
		return typeMismatch(path, fmt.Sprintf("key %q", string(k)), typ.String()+" key")
	}
	if tu, ok := implements[encoding.TextUnmarshaler](val, textUnmarshalerType); ok {
		if err := tu.UnmarshalText([]byte(k)); err != nil {
			return customError(path, "UnmarshalText failed", err)
		}
		return nil
	}
	switch typ.Kind() {
	case reflect.String:
		val.SetString(string(k))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(string(k), 10, typ.Bits())
		if err != nil {
			return mismatch()
		}
		val.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(string(k), 10, typ.Bits())
		if err != nil {
			return mismatch()
		}
		val.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(string(k), typ.Bits())
		if err != nil {
			return mismatch()
		}
		val.SetFloat(f)
	default:
		return mismatch()
	}
	return nil
}

func (d *decoder) decodeStruct(node *ir.Node, val reflect.Value, path ir.Path) error {
	plan, err := planOf(val.Type())
	if err != nil {
		return &DecodeError{Kind: KindCustom, Path: path, Message: "invalid struct", Err: err}
	}
	switch {
	case plan.union:
		return d.decodeUnion(node, val, plan, path)
	case plan.tuple:
		return d.decodeTuple(node, val, plan, path)
	case len(plan.fields) == 0:
		if node.Type == ir.ObjectType && node.Len() == 0 {
			return nil
		}
		return typeMismatch(path, describe(node), "null")
	}
	if node.Type != ir.ObjectType {
		return typeMismatch(path, describe(node), "object")
	}
	for i := range plan.fields {
		f := &plan.fields[i]
		key := ir.StrKey(f.Name)
		fp := childPath(path, key)
		v := node.Get(key)
		if v == nil {
			if f.required() {
				return &DecodeError{Kind: KindMissingKey, Path: path, Name: f.Name}
			}
			continue
		}
		if v.IsAbsent() && !f.required() {
			continue
		}
		if err := d.decodeField(v, val, f, fp); err != nil {
			return err
		}
	}
	if d.cfg.disallowExtras {
		for _, k := range node.Fields {
			if _, ok := plan.byKey[k]; !ok {
				return &DecodeError{Kind: KindUnknownKey, Path: path, Name: string(k)}
			}
		}
	}
	return nil
}

func (d *decoder) decodeTuple(node *ir.Node, val reflect.Value, plan *typePlan, path ir.Path) error {
	if node.Type != ir.ArrayType {
		return typeMismatch(path, describe(node), "array")
	}
	n := len(node.Values)
	for i := range plan.fields {
		f := &plan.fields[i]
		ep := childPath(path, ir.IntKey(i))
		if i >= n {
			if f.required() {
				return &DecodeError{Kind: KindIndexOutOfRange, Path: path, Index: i, Length: n}
			}
			continue
		}
		e := node.Values[i]
		if e != nil && e.Type == ir.SpreadType {
			return spreadError(ep)
		}
		if err := d.decodeField(e, val, f, ep); err != nil {
			return err
		}
	}
	if n > len(plan.fields) && d.cfg.disallowExtras {
		return &DecodeError{Kind: KindIndexOutOfRange, Path: path, Index: len(plan.fields), Length: len(plan.fields)}
	}
	return nil
}

func (d *decoder) decodeField(node *ir.Node, val reflect.Value, f *fieldPlan, path ir.Path) error {
	fv := val.FieldByIndex(f.Index)
	if f.Char {
		if node == nil {
			return holeError(path)
		}
		return d.decodeChar(node, fv, path)
	}
	return d.decode(node, fv, path)
}
