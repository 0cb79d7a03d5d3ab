package ir

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/signadot/nodetree/debug"
)

// Path is a sequence of keys leading from a root node to a descendant.
type Path []Key

// PathOf builds a path from strings, integers, floats and keys.
func PathOf(parts ...any) Path {
	res := make(Path, len(parts))
	for i, part := range parts {
		switch p := part.(type) {
		case Key:
			res[i] = p
		case string:
			res[i] = StrKey(p)
		case int:
			res[i] = IntKey(p)
		case int64:
			res[i] = Key(strconv.FormatInt(p, 10))
		case float64:
			res[i] = NumKey(p)
		case *big.Int:
			res[i] = BigKey(p)
		default:
			res[i] = Key(fmt.Sprint(p))
		}
	}
	return res
}

func (p Path) String() string {
	buf := bytes.NewBuffer([]byte{'$'})
	for _, k := range p {
		if i, ok := k.Index(); ok {
			fmt.Fprintf(buf, "[%d]", i)
			continue
		}
		buf.WriteByte('.')
		buf.WriteString(pathString(string(k)))
	}
	return buf.String()
}

func pathString(f string) string {
	if f != "" && strings.IndexAny(f, "'.$[] ") == -1 {
		return f
	}
	return "'" + quoteEscaper.Replace(f) + "'"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", "'", "\\'")

// ParsePath parses paths of the form $.a[0].'b.c'. A leading '$' is
// required; "$" alone is the empty path.
func ParsePath(p string) (Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("path %q should start with '$'", p)
	}
	res := Path{}
	frag := p[1:]
	for len(frag) != 0 {
		switch frag[0] {
		case '.':
			field, rest, err := parseField(frag[1:])
			if err != nil {
				return nil, fmt.Errorf("path %q: %w", p, err)
			}
			res = append(res, StrKey(field))
			frag = rest
		case '[':
			i := strings.IndexByte(frag[1:], ']')
			if i == -1 {
				return nil, fmt.Errorf("path %q: expected '[' <index> ']'", p)
			}
			index, err := strconv.ParseUint(frag[1:i+1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("path %q: %w", p, err)
			}
			res = append(res, IntKey(int(index)))
			frag = frag[i+2:]
		default:
			return nil, fmt.Errorf("path %q: expected '.' or '['", p)
		}
	}
	return res, nil
}

func MustParsePath(p string) Path {
	res, err := ParsePath(p)
	if err != nil {
		panic(err)
	}
	return res
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		if i == 0 {
			return "", "", fmt.Errorf("empty field")
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch {
		case c == '\\' && !escaped:
			escaped = true
		case c == '\'' && !escaped:
			return string(res), frag[i+1:], nil
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// GetPath follows p from y and returns the node found, or nil at the first
// miss. The empty path returns y. GetPath never modifies the tree.
func (y *Node) GetPath(p Path) *Node {
	res := y
	for _, k := range p {
		res = res.Get(k)
		if res == nil {
			return nil
		}
	}
	return res
}

// SetPath sets v at p.
//
// Without ensure every intermediate key must already resolve to a container
// and a miss fails with ErrNotFound. With ensure, missing intermediates are
// created as empty objects. Either way a failed SetPath leaves the tree as it
// was.
func (y *Node) SetPath(p Path, v *Node, ensure bool) error {
	if len(p) == 0 {
		return &PathError{Path: p, Err: ErrEmptyPath}
	}
	if y == nil {
		return &PathError{Path: p, Err: ErrNotContainer}
	}
	if debug.Path() {
		debug.Logf("set %s ensure=%t\n", p, ensure)
	}
	last := len(p) - 1
	parent := y
	for i, k := range p[:last] {
		if !parent.Type.IsContainer() {
			return &PathError{Path: p[:i], Err: ErrNotContainer}
		}
		next := parent.Get(k)
		if next != nil {
			parent = next
			continue
		}
		if !ensure {
			return &PathError{Path: p[:i+1], Err: ErrNotFound}
		}
		// build the missing chain detached and attach it last.
		top := DefaultInstance(ObjectType)
		cur := top
		for _, kk := range p[i+1 : last] {
			child := DefaultInstance(ObjectType)
			cur.Set(kk, child)
			cur = child
		}
		cur.Set(p[last], v)
		if !parent.Set(k, top) {
			return &PathError{Path: p[:i+1], Err: ErrInvalidKey}
		}
		return nil
	}
	if !parent.Type.IsContainer() {
		return &PathError{Path: p[:last], Err: ErrNotContainer}
	}
	if !parent.Set(p[last], v) {
		return &PathError{Path: p, Err: ErrInvalidKey}
	}
	return nil
}

// DeletePath removes and returns the node at p. A path that does not
// resolve returns nil and no error.
func (y *Node) DeletePath(p Path) (*Node, error) {
	if len(p) == 0 {
		return nil, &PathError{Path: p, Err: ErrEmptyPath}
	}
	parent := y.GetPath(p[:len(p)-1])
	if parent == nil {
		return nil, nil
	}
	return parent.Delete(p[len(p)-1]), nil
}
