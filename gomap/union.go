package gomap

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/signadot/nodetree/ir"
	"go.uber.org/zap"
)

// Union marks a struct as a sum type. Every exported field of the struct
// is a pointer case named after the field (or its field= tag), and exactly
// one case is set.
//
//	type Shape struct {
//		gomap.Union
//		Empty  *gomap.Unit
//		Circle *Circle
//		Point  *Point // Point embeds gomap.Tuple
//	}
type Union struct{}

// Unit is the payload of a case that carries no data. It encodes as the
// bare case name.
type Unit struct{}

// Tuple marks a struct whose fields encode positionally, as an array.
type Tuple struct{}

// Enum is implemented by string types whose values form a closed set.
// Decoding a string that is not among Variants fails with UnknownVariant.
type Enum interface {
	Variants() []string
}

// Element is the payload of a wildcard union case, tagged node:"field=*".
// It accepts any case name, and when decoding an element call it keeps the
// trailing call arguments as Children.
type Element struct {
	Name     string
	Props    *ir.Node
	Children []*ir.Node
}

// Variant returns the name of the active case of a union value.
func Variant(v any) (string, error) {
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return "", fmt.Errorf("nil %s", val.Type())
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return "", fmt.Errorf("%s is not a union", val.Type())
	}
	plan, err := planOf(val.Type())
	if err != nil {
		return "", err
	}
	if !plan.union {
		return "", fmt.Errorf("%s is not a union", val.Type())
	}
	c, err := activeCase(val, plan)
	if err != nil {
		return "", err
	}
	if c.variant == wildcardVariant {
		return val.FieldByIndex(c.Index).Interface().(*Element).Name, nil
	}
	return c.Name, nil
}

func activeCase(val reflect.Value, plan *typePlan) (*fieldPlan, error) {
	var active *fieldPlan
	for i := range plan.fields {
		c := &plan.fields[i]
		if val.FieldByIndex(c.Index).IsNil() {
			continue
		}
		if active != nil {
			return nil, fmt.Errorf("union %s has several cases set: %s and %s", val.Type(), active.GoName, c.GoName)
		}
		active = c
	}
	if active == nil {
		return nil, fmt.Errorf("union %s has no case set", val.Type())
	}
	return active, nil
}

func (e *encoder) encodeUnion(val reflect.Value, plan *typePlan, fieldPath string) (*ir.Node, error) {
	c, err := activeCase(val, plan)
	if err != nil {
		return nil, &MarshalError{FieldPath: fieldPath, Message: err.Error()}
	}
	payload := val.FieldByIndex(c.Index)
	switch c.variant {
	case unitVariant:
		return ir.FromString(c.Name), nil
	case wildcardVariant:
		el := payload.Interface().(*Element)
		props := ir.Null()
		if el.Props != nil {
			props = el.Props.Clone()
		}
		return ir.Object(ir.KV(el.Name, props)), nil
	}
	node, err := e.encode(payload.Elem(), joinField(fieldPath, c.Name))
	if err != nil {
		return nil, err
	}
	return ir.Object(ir.KV(c.Name, node)), nil
}

// decodeUnion decodes the externally tagged forms: a bare string names a
// unit case, a single entry object maps a case name to its payload. When
// decoding elements a call is matched by component name.
func (d *decoder) decodeUnion(node *ir.Node, val reflect.Value, plan *typePlan, path ir.Path) error {
	var (
		name    string
		payload *ir.Node
		el      *ir.Node
	)
	switch node.Type {
	case ir.StringType:
		name = node.String
	case ir.ObjectType:
		if node.Len() == 0 {
			return &DecodeError{Kind: KindInvalidLength, Path: path, ExpectedMin: 1}
		}
		// an object with several entries names the case by its last key;
		// the other entries are ignored.
		tmp := &ir.Node{Type: ir.ObjectType, Fields: slices.Clone(node.Fields), Values: slices.Clone(node.Values)}
		k, v, _ := tmp.PopAny()
		name, payload = string(k), v
	case ir.CallType:
		if !d.cfg.elements {
			return typeMismatch(path, describe(node), "string or object")
		}
		n, props, err := elementName(node, d.cfg.runtime, path)
		if err != nil {
			return err
		}
		name, payload, el = n, props, node
	default:
		return typeMismatch(path, describe(node), "string or object")
	}

	c := plan.variant(name)
	if c == nil {
		if el != nil {
			return &DecodeError{Kind: KindComponentMismatch, Path: path, Found: name, Allowed: plan.variantNames()}
		}
		return &DecodeError{Kind: KindUnknownVariant, Path: path, Found: name, Allowed: plan.variantNames()}
	}
	d.cfg.logger.Debug("decode union case", zap.Stringer("path", path), zap.String("case", name))

	res := reflect.New(val.Type()).Elem()
	target := res.FieldByIndex(c.Index)
	switch c.variant {
	case unitVariant:
		if el == nil && !payload.IsAbsent() && !(payload.Type == ir.ObjectType && payload.Len() == 0) {
			return typeMismatch(childPath(path, ir.StrKey(name)), describe(payload), "unit case "+name)
		}
		target.Set(reflect.ValueOf(&Unit{}))
	case wildcardVariant:
		e := &Element{Name: name}
		if payload != nil {
			e.Props = payload.Clone()
		}
		if el != nil && len(el.Values) > 2 {
			for _, ch := range el.Values[2:] {
				e.Children = append(e.Children, ch.Clone())
			}
		}
		target.Set(reflect.ValueOf(e))
	default:
		if payload == nil {
			return typeMismatch(path, fmt.Sprintf("unit case %q", name), "a payload for "+name)
		}
		ptr := reflect.New(c.Type.Elem())
		sub := childPath(path, ir.StrKey(name))
		if el != nil {
			sub = childPath(path, ir.IntKey(2))
		}
		if err := d.decode(payload, ptr.Elem(), sub); err != nil {
			return err
		}
		target.Set(ptr)
	}
	val.Set(res)
	return nil
}
