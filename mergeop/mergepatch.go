package mergeop

import (
	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"

	jsonpatch "github.com/evanphx/json-patch"
)

var mPatchSym = &mPatchSymbol{name: mPatchName}

// MergePatch is the RFC 7386 merge patch operation.
func MergePatch() Symbol {
	return mPatchSym
}

const (
	mPatchName name = "merge-patch"
)

type mPatchSymbol struct {
	name
}

func (s mPatchSymbol) Instance(child *ir.Node) (Op, error) {
	d, err := ir.ToJSON(child)
	if err != nil {
		return nil, err
	}
	return &mPatchOp{patch: d, op: op{name: s.name, child: child}}, nil
}

type mPatchOp struct {
	op
	patch []byte
}

func (mp mPatchOp) Patch(doc *ir.Node) (*ir.Node, error) {
	if debug.Patch() {
		debug.Logf("merge-patch op %s\n", mp.patch)
	}
	d, err := ir.ToJSON(doc)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, mp.patch)
	if err != nil {
		return nil, err
	}
	return ir.FromJSON(out)
}
