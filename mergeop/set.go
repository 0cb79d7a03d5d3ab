package mergeop

import (
	"fmt"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"
)

var (
	setSym   = &setSymbol{name: setName}
	unsetSym = &unsetSymbol{name: unsetName}
)

// Set assigns values at paths, creating missing intermediate objects. Its
// argument maps paths such as "$.a[0]" to values. Unlike the JSON based
// operations it works on any node, calls included.
func Set() Symbol {
	return setSym
}

// Unset deletes the nodes at a list of paths. Missing paths are ignored.
func Unset() Symbol {
	return unsetSym
}

const (
	setName   name = "set"
	unsetName name = "unset"
)

type setSymbol struct {
	name
}

type assign struct {
	path  ir.Path
	value *ir.Node
}

func (s setSymbol) Instance(child *ir.Node) (Op, error) {
	if child == nil || child.Type != ir.ObjectType {
		return nil, fmt.Errorf("%s op expects an object of paths, got %s", s, typeOf(child))
	}
	res := &setOp{op: op{name: s.name, child: child}}
	for k, v := range child.All() {
		p, err := ir.ParsePath(string(k))
		if err != nil {
			return nil, fmt.Errorf("%s op: %w", s, err)
		}
		res.assigns = append(res.assigns, assign{path: p, value: v})
	}
	return res, nil
}

type setOp struct {
	op
	assigns []assign
}

func (o setOp) Patch(doc *ir.Node) (*ir.Node, error) {
	for _, a := range o.assigns {
		if debug.Patch() {
			debug.Logf("set %s\n", a.path)
		}
		if len(a.path) == 0 {
			doc = a.value.Clone()
			continue
		}
		if doc == nil {
			doc = ir.DefaultInstance(ir.ObjectType)
		}
		if err := doc.SetPath(a.path, a.value.Clone(), true); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

type unsetSymbol struct {
	name
}

func (s unsetSymbol) Instance(child *ir.Node) (Op, error) {
	if child == nil || child.Type != ir.ArrayType {
		return nil, fmt.Errorf("%s op expects an array of paths, got %s", s, typeOf(child))
	}
	res := &unsetOp{op: op{name: s.name, child: child}}
	for i, v := range child.Values {
		if v == nil || v.Type != ir.StringType {
			return nil, fmt.Errorf("%s op: entry %d is not a path", s, i)
		}
		p, err := ir.ParsePath(v.String)
		if err != nil {
			return nil, fmt.Errorf("%s op: %w", s, err)
		}
		if len(p) == 0 {
			return nil, fmt.Errorf("%s op: cannot unset the root", s)
		}
		res.paths = append(res.paths, p)
	}
	return res, nil
}

type unsetOp struct {
	op
	paths []ir.Path
}

func (o unsetOp) Patch(doc *ir.Node) (*ir.Node, error) {
	for _, p := range o.paths {
		if debug.Patch() {
			debug.Logf("unset %s\n", p)
		}
		if _, err := doc.DeletePath(p); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func typeOf(y *ir.Node) string {
	if y == nil {
		return "nothing"
	}
	return y.Type.String()
}
