package libdiff

import (
	"fmt"
	"slices"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"
)

// Patch applies changes, as returned by Diff, to doc and returns the result.
// doc is modified in place unless a change replaces the root, so callers
// wanting to keep doc should pass a clone.
//
// A Replace or Delete whose From does not match the document fails, as does
// a string edit that does not apply.
func Patch(doc *ir.Node, changes []Change) (*ir.Node, error) {
	var deletes []Change
	for _, c := range changes {
		if c.Op == Delete {
			deletes = append(deletes, c)
			continue
		}
		var err error
		doc, err = apply(doc, c)
		if err != nil {
			return nil, err
		}
	}
	// trailing array deletions shift later indices, so go backwards.
	for _, c := range slices.Backward(deletes) {
		var err error
		doc, err = apply(doc, c)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func apply(doc *ir.Node, c Change) (*ir.Node, error) {
	if debug.Patch() {
		debug.Logf("patch: %s\n", c)
	}
	if doc == nil && len(c.Path) > 0 {
		return nil, fmt.Errorf("cannot %s at %s: no document", c.Op, c.Path)
	}
	cur := doc.GetPath(c.Path)
	switch c.Op {
	case Insert:
		if cur != nil {
			return nil, fmt.Errorf("cannot insert at %s: already present", c.Path)
		}
	case Delete, Replace:
		if !ir.Equal(cur, c.From) {
			return nil, fmt.Errorf("cannot %s at %s: document does not match", c.Op, c.Path)
		}
	}
	to := c.To
	if c.Op == Replace && c.Edits != nil && cur != nil && cur.Type == ir.StringType {
		s, err := PatchString(cur.String, c.Edits)
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", c.Path, err)
		}
		to = ir.FromString(s)
	}
	if len(c.Path) == 0 {
		if c.Op == Delete {
			return nil, nil
		}
		return to.Clone(), nil
	}
	if c.Op == Delete {
		if _, err := doc.DeletePath(c.Path); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err := doc.SetPath(c.Path, to.Clone(), false); err != nil {
		return nil, err
	}
	return doc, nil
}

// Reverse returns the changes which undo changes.
func Reverse(changes []Change) []Change {
	res := make([]Change, len(changes))
	for i, c := range changes {
		r := Change{Path: c.Path, From: c.To, To: c.From, Edits: reverseEdits(c.Edits)}
		switch c.Op {
		case Insert:
			r.Op = Delete
		case Delete:
			r.Op = Insert
		default:
			r.Op = Replace
		}
		res[i] = r
	}
	return res
}
