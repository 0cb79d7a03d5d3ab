package libdiff

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// EditOp is the kind of an Edit.
type EditOp int

const (
	EditEqual EditOp = iota
	EditInsert
	EditDelete
)

// Edit is one run of a string difference.
type Edit struct {
	Op   EditOp
	Text string
}

// DiffString returns the edits turning from into to, or nil when a plain
// replacement is smaller than the edits.
func DiffString(from, to string) []Edit {
	if from == to {
		return nil
	}
	cfg := diffpatch.New()
	multiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := cfg.DiffCleanupSemantic(cfg.DiffMain(from, to, multiLine))
	size := 0
	res := make([]Edit, 0, len(diffs))
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			res = append(res, Edit{Op: EditInsert, Text: d.Text})
			size += len(d.Text)
		case diffpatch.DiffDelete:
			res = append(res, Edit{Op: EditDelete, Text: d.Text})
			size += len(d.Text)
		case diffpatch.DiffEqual:
			res = append(res, Edit{Op: EditEqual, Text: d.Text})
		}
	}
	if size > min(len(from), len(to))/2 {
		return nil
	}
	return res
}

// PatchString applies edits to s. Every equal and deleted run must match
// the text of s at its position.
func PatchString(s string, edits []Edit) (string, error) {
	var b strings.Builder
	rest := s
	for _, e := range edits {
		switch e.Op {
		case EditInsert:
			b.WriteString(e.Text)
		case EditEqual, EditDelete:
			if !strings.HasPrefix(rest, e.Text) {
				return "", fmt.Errorf("cannot patch string: unexpected text %q, expected %q", clip(rest), e.Text)
			}
			if e.Op == EditEqual {
				b.WriteString(e.Text)
			}
			rest = rest[len(e.Text):]
		default:
			return "", fmt.Errorf("unknown string edit %d", e.Op)
		}
	}
	if rest != "" {
		return "", fmt.Errorf("cannot patch string: %q left over", clip(rest))
	}
	return b.String(), nil
}

func reverseEdits(edits []Edit) []Edit {
	if edits == nil {
		return nil
	}
	res := make([]Edit, len(edits))
	for i, e := range edits {
		switch e.Op {
		case EditInsert:
			e.Op = EditDelete
		case EditDelete:
			e.Op = EditInsert
		}
		res[i] = e
	}
	return res
}

func clip(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}
