package mergeop

import (
	"fmt"
	"strings"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"

	jsonpatch "github.com/evanphx/json-patch"
)

var jPatchSym = &jPatchSymbol{name: jPatchName}

// JSONPatch is the RFC 6902 patch operation.
func JSONPatch() Symbol {
	return jPatchSym
}

const (
	jPatchName name = "json-patch"
)

type jPatchSymbol struct {
	name
}

func (s jPatchSymbol) Instance(child *ir.Node) (Op, error) {
	d, err := ir.ToJSON(child)
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch(d)
	if err != nil {
		return nil, err
	}
	return &jPatchOp{ops: ops, op: op{name: s.name, child: child}}, nil
}

type jPatchOp struct {
	op
	ops jsonpatch.Patch
}

func (jp jPatchOp) Patch(doc *ir.Node) (*ir.Node, error) {
	if debug.Patch() {
		debug.Logf("json-patch op with %d operations\n", len(jp.ops))
	}
	d, err := ir.ToJSON(doc)
	if err != nil {
		return nil, err
	}
	// operations are applied one at a time so each target is checked
	// against the document the earlier operations produced
	cur := doc.Clone()
	for i, o := range jp.ops {
		if err := checkTarget(cur, o); err != nil {
			return nil, fmt.Errorf("json-patch operation %d: %w", i, err)
		}
		d, err = jsonpatch.Patch{o}.Apply(d)
		if err != nil {
			return nil, fmt.Errorf("json-patch operation %d: %w", i, err)
		}
		cur, err = ir.FromJSON(d)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// checkTarget fails when a replace, remove or test operation addresses a
// location missing from doc.
func checkTarget(doc *ir.Node, o jsonpatch.Operation) error {
	switch o.Kind() {
	case "replace", "remove", "test":
	default:
		return nil
	}
	ptr, err := o.Path()
	if err != nil {
		return err
	}
	if !pointerExists(doc, ptr) {
		return fmt.Errorf("%s: missing target %q", o.Kind(), ptr)
	}
	return nil
}

// pointerExists resolves an RFC 6901 pointer against doc.
func pointerExists(doc *ir.Node, ptr string) bool {
	if ptr == "" {
		return true
	}
	if !strings.HasPrefix(ptr, "/") {
		return false
	}
	unescape := strings.NewReplacer("~1", "/", "~0", "~")
	cur := doc
	for _, tok := range strings.Split(ptr[1:], "/") {
		k := ir.StrKey(unescape.Replace(tok))
		if cur.Type == ir.ArrayType {
			if _, ok := k.Index(); !ok {
				return false
			}
		} else if cur.Type != ir.ObjectType {
			return false
		}
		cur = cur.Get(k)
		if cur == nil {
			return false
		}
	}
	return true
}
