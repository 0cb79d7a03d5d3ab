package gomap

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"
	"go.uber.org/zap"
)

// Runtime names the element factory functions recognized as elements,
// and the identifier standing for a fragment.
type Runtime struct {
	Factories []string
	Fragment  string
}

// FragmentName is the case name a fragment element matches, whatever the
// runtime calls it.
const FragmentName = "Fragment"

// DefaultRuntime matches calls of jsx and jsxs.
var DefaultRuntime = Runtime{
	Factories: []string{"jsx", "jsxs"},
	Fragment:  "Fragment",
}

func (rt Runtime) isFactory(callee *ir.Node) bool {
	if callee == nil || callee.Type != ir.IdentType {
		return false
	}
	return len(rt.Factories) == 0 || slices.Contains(rt.Factories, callee.String)
}

// ElementName returns the component name and props of an element call,
// factory(subject, props, children...). A string subject names an
// intrinsic element and an identifier names a component.
func ElementName(node *ir.Node, rt Runtime) (string, *ir.Node, error) {
	return elementName(node, rt, nil)
}

func elementName(node *ir.Node, rt Runtime, path ir.Path) (string, *ir.Node, error) {
	if node == nil {
		return "", nil, holeError(path)
	}
	if node.Type != ir.CallType || node.New {
		return "", nil, typeMismatch(path, describe(node), "element")
	}
	if !rt.isFactory(node.Callee) {
		return "", nil, typeMismatch(childPath(path, ir.IntKey(0)), describe(node.Callee), fmt.Sprintf("element factory %v", rt.Factories))
	}
	subject := node.Get(ir.IntKey(1))
	sp := childPath(path, ir.IntKey(1))
	var name string
	switch {
	case subject == nil:
		return "", nil, &DecodeError{Kind: KindIndexOutOfRange, Path: path, Index: 1, Length: node.Len()}
	case subject.Type == ir.StringType:
		name = subject.String
	case subject.Type == ir.IdentType && subject.String == rt.Fragment:
		name = FragmentName
	case subject.Type == ir.IdentType:
		name = subject.String
	case subject.Type == ir.SpreadType:
		return "", nil, spreadError(sp)
	default:
		return "", nil, typeMismatch(sp, describe(subject), "component name")
	}
	props := node.Get(ir.IntKey(2))
	switch {
	case props == nil:
		return "", nil, &DecodeError{Kind: KindIndexOutOfRange, Path: path, Index: 2, Length: node.Len()}
	case props.Type == ir.SpreadType:
		return "", nil, spreadError(childPath(path, ir.IntKey(2)))
	}
	return name, props, nil
}

// DecodeAny is like Decode, and also matches element calls against union
// targets by component name. An element naming no case of the union fails
// with ComponentMismatch.
func DecodeAny(node *ir.Node, v any, opts ...DecodeOption) error {
	cfg := newDecodeConfig(opts)
	cfg.elements = true
	return decodeInto(node, v, cfg)
}

// Match decodes node into each candidate pointer in turn with DecodeAny
// and opts, and returns the index of the first that succeeds. Candidates
// after it are untouched. When none matches Match returns -1 and the
// joined errors.
func Match(node *ir.Node, candidates []any, opts ...DecodeOption) (int, error) {
	var errs []error
	for i, c := range candidates {
		err := DecodeAny(node, c, opts...)
		if err == nil {
			if debug.Match() {
				debug.Logf("match: candidate %d (%T) matched\n", i, c)
			}
			return i, nil
		}
		Logger().Debug("candidate rejected", zap.Int("index", i), zap.String("type", fmt.Sprintf("%T", c)), zap.Error(err))
		errs = append(errs, fmt.Errorf("candidate %d (%T): %w", i, c, err))
	}
	if len(errs) == 0 {
		return -1, errors.New("no candidates")
	}
	return -1, errors.Join(errs...)
}

// EncodeElement encodes a union value as an element call,
// factory(name, props). Names starting with a lower case letter are
// intrinsic elements and become strings; other names become identifiers.
// A Unit case has empty props, a wildcard case keeps its children.
func EncodeElement(v any, opts ...EncodeOption) (*ir.Node, error) {
	cfg := newEncodeConfig(opts)
	e := &encoder{cfg: cfg, visited: make(map[visitKey]string)}
	val := reflect.ValueOf(v)
	for val.IsValid() && (val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface) && !val.IsNil() {
		val = val.Elem()
	}
	if !val.IsValid() || val.Kind() != reflect.Struct {
		return nil, &MarshalError{Message: fmt.Sprintf("element must be a union, got %T", v)}
	}
	plan, err := planOf(val.Type())
	if err != nil {
		return nil, &MarshalError{Message: err.Error()}
	}
	if !plan.union {
		return nil, &MarshalError{Message: fmt.Sprintf("element must be a union, got %s", val.Type())}
	}
	c, err := activeCase(val, plan)
	if err != nil {
		return nil, &MarshalError{Message: err.Error()}
	}
	if len(cfg.runtime.Factories) == 0 {
		return nil, &MarshalError{Message: "runtime has no element factory"}
	}

	name := c.Name
	props := ir.Object()
	var children []*ir.Node
	payload := val.FieldByIndex(c.Index)
	switch c.variant {
	case unitVariant:
	case wildcardVariant:
		el := payload.Interface().(*Element)
		name = el.Name
		if el.Props != nil {
			props = el.Props.Clone()
		}
		for _, ch := range el.Children {
			children = append(children, ch.Clone())
		}
	default:
		props, err = e.encode(payload.Elem(), name)
		if err != nil {
			return nil, err
		}
		if props.Type == ir.NullType {
			props = ir.Object()
		}
		if props.Type != ir.ObjectType {
			return nil, &MarshalError{FieldPath: name, Message: fmt.Sprintf("element props must encode as an object, got %s", props.Type)}
		}
	}
	args := append([]*ir.Node{subjectNode(name, cfg.runtime)}, props)
	args = append(args, children...)
	return ir.NewCall(ir.Ident(cfg.runtime.Factories[0]), args...), nil
}

func subjectNode(name string, rt Runtime) *ir.Node {
	if name == FragmentName {
		return ir.Ident(rt.Fragment)
	}
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsLower(r) {
		return ir.FromString(name)
	}
	return ir.Ident(name)
}
