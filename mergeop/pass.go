package mergeop

import (
	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"
)

var passSym = &passSymbol{name: passName}

func Pass() Symbol {
	return passSym
}

const (
	passName name = "pass"
)

type passSymbol struct {
	name
}

func (s passSymbol) Instance(child *ir.Node) (Op, error) {
	return &passOp{op: op{name: s.name, child: child}}, nil
}

type passOp struct {
	op
}

func (p passOp) Patch(doc *ir.Node) (*ir.Node, error) {
	if debug.Patch() {
		debug.Logf("pass op patch\n")
	}
	return doc, nil
}
