package mergeop

import (
	"fmt"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"
)

var seqSym = &seqSymbol{name: seqName}

// Seq applies a list of patches in order.
func Seq() Symbol {
	return seqSym
}

const (
	seqName name = "seq"
)

type seqSymbol struct {
	name
}

func (s seqSymbol) Instance(child *ir.Node) (Op, error) {
	if child == nil || child.Type != ir.ArrayType {
		return nil, fmt.Errorf("%s op expects an array of patches, got %s", s, typeOf(child))
	}
	res := &seqOp{op: op{name: s.name, child: child}}
	for i, v := range child.Values {
		o, err := Parse(v)
		if err != nil {
			return nil, fmt.Errorf("%s op entry %d: %w", s, i, err)
		}
		res.ops = append(res.ops, o)
	}
	return res, nil
}

type seqOp struct {
	op
	ops []Op
}

func (o seqOp) Patch(doc *ir.Node) (*ir.Node, error) {
	for i, sub := range o.ops {
		if debug.Patch() {
			debug.Logf("seq %d: %s\n", i, sub)
		}
		var err error
		doc, err = sub.Patch(doc)
		if err != nil {
			return nil, fmt.Errorf("%s entry %d (%s): %w", o, i, sub, err)
		}
	}
	return doc, nil
}
