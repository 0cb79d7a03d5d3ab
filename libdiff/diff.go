// Package libdiff computes and applies structural differences between node
// trees.
package libdiff

import (
	"fmt"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"
)

// Op is the kind of a Change.
type Op int

const (
	Insert Op = iota
	Delete
	Replace
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Change is one difference between two trees.
//
// From is nil for an Insert and To is nil for a Delete. A Replace of an
// array element by a hole has a nil To. A Replace between two strings may
// carry Edits, the character level difference from From to To.
type Change struct {
	Path  ir.Path
	Op    Op
	From  *ir.Node
	To    *ir.Node
	Edits []Edit
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s", c.Op, c.Path)
}

// Diff returns the changes which turn from into to, in document order.
//
// Objects are compared key by key, arrays and calls index by index. Any
// other pair of differing nodes, including nodes of different types, is a
// single Replace. Equal trees have no changes.
func Diff(from, to *ir.Node) []Change {
	var res []Change
	diff(nil, from, to, &res)
	if debug.Patch() {
		debug.Logf("diff: %d changes\n", len(res))
	}
	return res
}

func diff(p ir.Path, from, to *ir.Node, res *[]Change) {
	switch {
	case from == nil && to == nil:
		return
	case from == nil:
		*res = append(*res, Change{Path: p, Op: Insert, To: to})
		return
	case to == nil:
		*res = append(*res, Change{Path: p, Op: Delete, From: from})
		return
	case from.Type != to.Type:
		*res = append(*res, Change{Path: p, Op: Replace, From: from, To: to})
		return
	}
	switch from.Type {
	case ir.ObjectType:
		if !keysAligned(from, to) {
			*res = append(*res, Change{Path: p, Op: Replace, From: from, To: to})
			return
		}
		diffObject(p, from, to, res)
	case ir.ArrayType:
		diffIndexed(p, from.Values, to.Values, 0, res)
	case ir.CallType:
		if from.New != to.New {
			*res = append(*res, Change{Path: p, Op: Replace, From: from, To: to})
			return
		}
		diff(child(p, ir.IntKey(0)), from.Callee, to.Callee, res)
		diffIndexed(p, from.Values, to.Values, 1, res)
	case ir.StringType:
		if from.String == to.String {
			return
		}
		*res = append(*res, Change{
			Path:  p,
			Op:    Replace,
			From:  from,
			To:    to,
			Edits: DiffString(from.String, to.String),
		})
	default:
		if !ir.Equal(from, to) {
			*res = append(*res, Change{Path: p, Op: Replace, From: from, To: to})
		}
	}
}

func diffObject(p ir.Path, from, to *ir.Node, res *[]Change) {
	for i, k := range from.Fields {
		diff(child(p, k), from.Values[i], to.Get(k), res)
	}
	for i, k := range to.Fields {
		if !from.Has(k) {
			*res = append(*res, Change{Path: child(p, k), Op: Insert, To: to.Values[i]})
		}
	}
}

// keysAligned reports whether per key changes reproduce the key order of
// both objects: shared keys keep their relative order, keys only in from
// come after all shared ones in from and keys only in to come after all
// shared ones in to.
func keysAligned(from, to *ir.Node) bool {
	var shared []ir.Key
	tail := false
	for _, k := range from.Fields {
		if !to.Has(k) {
			tail = true
			continue
		}
		if tail {
			return false
		}
		shared = append(shared, k)
	}
	i := 0
	for _, k := range to.Fields {
		if !from.Has(k) {
			i = -1
			continue
		}
		if i < 0 || i >= len(shared) || shared[i] != k {
			return false
		}
		i++
	}
	return true
}

// diffIndexed compares two value lists position by position. Holes on one
// side only are replacements, so that applying the result never shifts the
// positions of later elements. Trailing elements are inserted or deleted.
func diffIndexed(p ir.Path, from, to []*ir.Node, offset int, res *[]Change) {
	n := min(len(from), len(to))
	for i := range n {
		k := ir.IntKey(i + offset)
		a, b := from[i], to[i]
		switch {
		case a == nil && b == nil:
		case a == nil, b == nil:
			*res = append(*res, Change{Path: child(p, k), Op: Replace, From: a, To: b})
		default:
			diff(child(p, k), a, b, res)
		}
	}
	for i := n; i < len(to); i++ {
		*res = append(*res, Change{Path: child(p, ir.IntKey(i+offset)), Op: Insert, To: to[i]})
	}
	for i := n; i < len(from); i++ {
		*res = append(*res, Change{Path: child(p, ir.IntKey(i+offset)), Op: Delete, From: from[i]})
	}
}

func child(p ir.Path, k ir.Key) ir.Path {
	return append(p[:len(p):len(p)], k)
}
