// Package mergeop applies patch operations to node trees.
//
// A patch is an object with a single key naming the operation, whose value
// is the operation's argument:
//
//	{"merge-patch": {"a": null, "b": 2}}
//	{"json-patch": [{"op": "add", "path": "/c", "value": 1}]}
//	{"set": {"$.a.b": 1}}
//	{"unset": ["$.a"]}
//	{"seq": [{"set": {"$.x": 1}}, {"unset": ["$.y"]}]}
package mergeop

import (
	"errors"
	"fmt"

	"github.com/signadot/nodetree/ir"
)

// Op is an instantiated patch operation.
type Op interface {
	// Patch applies the operation to doc and returns the result. doc may
	// be modified.
	Patch(doc *ir.Node) (*ir.Node, error)
	String() string
}

type op struct {
	name  name
	child *ir.Node
}

func (o op) String() string {
	return o.name.String()
}

var ErrNotOp = errors.New("not a patch operation")

// Parse instantiates the operation described by patch.
func Parse(patch *ir.Node) (Op, error) {
	if patch == nil || patch.Type != ir.ObjectType || len(patch.Fields) != 1 {
		return nil, fmt.Errorf("%w: want an object with one key", ErrNotOp)
	}
	k := string(patch.Fields[0])
	sym := Lookup(k)
	if sym == nil {
		return nil, fmt.Errorf("%w: unknown operation %q (have %v)", ErrNotOp, k, Names())
	}
	return sym.Instance(patch.Values[0])
}

// Apply parses patch and applies it to a clone of doc.
func Apply(doc, patch *ir.Node) (*ir.Node, error) {
	o, err := Parse(patch)
	if err != nil {
		return nil, err
	}
	return o.Patch(doc.Clone())
}
