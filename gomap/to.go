package gomap

import (
	"cmp"
	"encoding"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"
	"go.uber.org/zap"
)

// NodeMarshaler is implemented by types that encode themselves.
type NodeMarshaler interface {
	MarshalNode() (*ir.Node, error)
}

var (
	nodeType          = reflect.TypeFor[ir.Node]()
	bigIntType        = reflect.TypeFor[big.Int]()
	nodeMarshalerType = reflect.TypeFor[NodeMarshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Encode converts a Go value to a node.
//
// Encode only fails on values with no node form: channels, functions,
// complex numbers, cyclic references, maps with unsupported key types and
// unions with no case or several cases set.
func Encode(v any, opts ...EncodeOption) (*ir.Node, error) {
	e := &encoder{
		cfg:     newEncodeConfig(opts),
		visited: make(map[visitKey]string),
	}
	val := reflect.ValueOf(v)
	if val.IsValid() && !val.CanAddr() {
		// hooks with pointer receivers need an addressable value
		pv := reflect.New(val.Type())
		pv.Elem().Set(val)
		val = pv.Elem()
	}
	node, err := e.encode(val, "")
	if err != nil {
		e.cfg.logger.Debug("encode failed", zap.Error(err))
		return nil, err
	}
	return node, nil
}

// MustEncode is like Encode but panics on error.
func MustEncode(v any, opts ...EncodeOption) *ir.Node {
	node, err := Encode(v, opts...)
	if err != nil {
		panic(err)
	}
	return node
}

type encoder struct {
	cfg *encodeConfig
	// visited tracks pointer addresses by field path to detect cycles
	visited map[visitKey]string
}

// visitKey includes the type since a struct and its first field share an
// address.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

func joinField(fieldPath, name string) string {
	if fieldPath == "" {
		return name
	}
	return fmt.Sprintf("%s.%s", fieldPath, name)
}

func joinIndex(fieldPath string, i int) string {
	return fmt.Sprintf("%s[%d]", fieldPath, i)
}

func (e *encoder) encode(val reflect.Value, fieldPath string) (*ir.Node, error) {
	if !val.IsValid() {
		return ir.Null(), nil
	}
	typ := val.Type()
	kind := typ.Kind()
	if debug.Encode() {
		debug.Logf("encode %q %s\n", fieldPath, typ)
	}
	if (kind == reflect.Pointer || kind == reflect.Interface) && val.IsNil() {
		return ir.Null(), nil
	}

	switch {
	case typ == nodeType:
		n := val.Interface().(ir.Node)
		return n.Clone(), nil
	case kind == reflect.Pointer && typ.Elem() == nodeType:
		return val.Interface().(*ir.Node).Clone(), nil
	case typ == bigIntType:
		if val.CanAddr() {
			return ir.FromBigInt(val.Addr().Interface().(*big.Int)), nil
		}
		b := val.Interface().(big.Int)
		return ir.FromBigInt(&b), nil
	case kind == reflect.Pointer && typ.Elem() == bigIntType:
		return ir.FromBigInt(val.Interface().(*big.Int)), nil
	}

	if m, ok := implements[NodeMarshaler](val, nodeMarshalerType); ok {
		node, err := m.MarshalNode()
		if err != nil {
			return nil, &MarshalError{FieldPath: fieldPath, Message: "MarshalNode failed", Err: err}
		}
		if node == nil {
			return ir.Null(), nil
		}
		return node, nil
	}
	if tm, ok := implements[encoding.TextMarshaler](val, textMarshalerType); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return nil, &MarshalError{FieldPath: fieldPath, Message: "MarshalText failed", Err: err}
		}
		return ir.FromString(string(text)), nil
	}

	switch kind {
	case reflect.Pointer:
		ptrAddr := visitKey{val.Pointer(), val.Type()}
		if prevPath, seen := e.visited[ptrAddr]; seen {
			return nil, &MarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("circular reference detected: %s -> %s", prevPath, fieldPath),
			}
		}
		e.visited[ptrAddr] = fieldPath
		node, err := e.encode(val.Elem(), fieldPath)
		// the same pointer may appear in different branches
		delete(e.visited, ptrAddr)
		return node, err

	case reflect.Interface:
		return e.encode(val.Elem(), fieldPath)

	case reflect.String:
		return ir.FromString(val.String()), nil

	case reflect.Bool:
		return ir.FromBool(val.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(val.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.FromUint(val.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(val.Float()), nil

	case reflect.Slice, reflect.Array:
		return e.encodeSlice(val, fieldPath)

	case reflect.Map:
		return e.encodeMap(val, fieldPath)

	case reflect.Struct:
		return e.encodeStruct(val, fieldPath)
	}
	return nil, &MarshalError{
		FieldPath: fieldPath,
		Message:   fmt.Sprintf("unsupported type: %s", typ),
	}
}

// implements returns val as T when val, or its address, implements it.
func implements[T any](val reflect.Value, t reflect.Type) (T, bool) {
	var zero T
	if val.Kind() == reflect.Interface {
		return zero, false
	}
	if val.Type().Implements(t) {
		if val.Kind() == reflect.Pointer && val.IsNil() {
			return zero, false
		}
		res, ok := val.Interface().(T)
		return res, ok
	}
	if val.Kind() != reflect.Pointer && val.CanAddr() && reflect.PointerTo(val.Type()).Implements(t) {
		return val.Addr().Interface().(T), true
	}
	return zero, false
}

func isByteSeq(typ reflect.Type) bool {
	elem := typ.Elem()
	if elem.Kind() != reflect.Uint8 {
		return false
	}
	return !reflect.PointerTo(elem).Implements(nodeMarshalerType) && !reflect.PointerTo(elem).Implements(textMarshalerType)
}

// encodeSlice converts a slice or array to an array node, or to a byte
// buffer construction for byte sequences.
func (e *encoder) encodeSlice(val reflect.Value, fieldPath string) (*ir.Node, error) {
	if val.Kind() == reflect.Slice {
		if val.IsNil() {
			return ir.Null(), nil
		}
		slicePtr := visitKey{val.Pointer(), val.Type()}
		if prevPath, seen := e.visited[slicePtr]; seen && val.Len() > 0 {
			return nil, &MarshalError{
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("circular reference detected: %s -> %s", prevPath, fieldPath),
			}
		}
		e.visited[slicePtr] = fieldPath
		defer delete(e.visited, slicePtr)
	}
	length := val.Len()
	if isByteSeq(val.Type()) {
		b := make([]byte, length)
		for i := range length {
			b[i] = byte(val.Index(i).Uint())
		}
		return ir.FromBytes(b), nil
	}
	elements := make([]*ir.Node, 0, length)
	for i := range length {
		elemNode, err := e.encode(val.Index(i), joinIndex(fieldPath, i))
		if err != nil {
			return nil, err
		}
		elements = append(elements, elemNode)
	}
	return ir.FromSlice(elements), nil
}

type mapEntry struct {
	key ir.Key
	k   reflect.Value
	v   reflect.Value
}

// encodeMap converts a map to an object node with keys in sorted order.
func (e *encoder) encodeMap(val reflect.Value, fieldPath string) (*ir.Node, error) {
	if val.IsNil() {
		return ir.Null(), nil
	}
	mapPtr := visitKey{val.Pointer(), val.Type()}
	if prevPath, seen := e.visited[mapPtr]; seen {
		return nil, &MarshalError{
			FieldPath: fieldPath,
			Message:   fmt.Sprintf("circular reference detected: %s -> %s", prevPath, fieldPath),
		}
	}
	e.visited[mapPtr] = fieldPath
	defer delete(e.visited, mapPtr)

	entries := make([]mapEntry, 0, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, &MarshalError{FieldPath: fieldPath, Message: err.Error()}
		}
		entries = append(entries, mapEntry{key: key, k: iter.Key(), v: iter.Value()})
	}
	slices.SortFunc(entries, compareEntries)

	kvs := make([]ir.KeyVal, 0, len(entries))
	for _, ent := range entries {
		valueNode, err := e.encode(ent.v, joinField(fieldPath, string(ent.key)))
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: ent.key, Val: valueNode})
	}
	return ir.FromKeyVals(kvs), nil
}

func compareEntries(a, b mapEntry) int {
	if a.k.Type().Implements(textMarshalerType) {
		return strings.Compare(string(a.key), string(b.key))
	}
	switch a.k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.k.Int(), b.k.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.k.Uint(), b.k.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.k.Float(), b.k.Float())
	}
	return strings.Compare(string(a.key), string(b.key))
}

// mapKey converts a Go map key to a node key. Only string, integer and
// float kinds and text marshalers are accepted.
func mapKey(k reflect.Value) (ir.Key, error) {
	if k.Type().Implements(textMarshalerType) {
		if k.Kind() == reflect.Pointer && k.IsNil() {
			return "", fmt.Errorf("nil map key of type %s", k.Type())
		}
		text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", err
		}
		return ir.Key(text), nil
	}
	switch k.Kind() {
	case reflect.String:
		return ir.StrKey(k.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.Key(strconv.FormatInt(k.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.Key(strconv.FormatUint(k.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return ir.NumKey(k.Float()), nil
	}
	return "", fmt.Errorf("map keys must be strings or numbers, got %s", k.Type())
}

// encodeStruct converts a struct to an object node in field declaration
// order. Embedded structs are flattened.
func (e *encoder) encodeStruct(val reflect.Value, fieldPath string) (*ir.Node, error) {
	plan, err := planOf(val.Type())
	if err != nil {
		return nil, &MarshalError{FieldPath: fieldPath, Message: err.Error()}
	}
	if plan.union {
		return e.encodeUnion(val, plan, fieldPath)
	}
	if plan.tuple {
		elements := make([]*ir.Node, 0, len(plan.fields))
		for i := range plan.fields {
			n, err := e.encodeField(val, &plan.fields[i], joinIndex(fieldPath, i))
			if err != nil {
				return nil, err
			}
			elements = append(elements, n)
		}
		return ir.FromSlice(elements), nil
	}
	if len(plan.fields) == 0 {
		return ir.Null(), nil
	}
	kvs := make([]ir.KeyVal, 0, len(plan.fields))
	for i := range plan.fields {
		f := &plan.fields[i]
		if f.OmitEmpty && val.FieldByIndex(f.Index).IsZero() {
			continue
		}
		n, err := e.encodeField(val, f, joinField(fieldPath, f.Name))
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.StrKey(f.Name), Val: n})
	}
	return ir.FromKeyVals(kvs), nil
}

func (e *encoder) encodeField(val reflect.Value, f *fieldPlan, fieldPath string) (*ir.Node, error) {
	fv := val.FieldByIndex(f.Index)
	if f.Char {
		return ir.FromString(string(rune(fv.Int()))), nil
	}
	return e.encode(fv, fieldPath)
}
