// Package eval evaluates expressions over node trees.
//
// Expressions use the expr language (https://expr-lang.org). The document
// is visible as the variable doc, as plain Go values, together with the
// caller's Env and these functions:
//
//	getpath("$.a[0]")   the value at a path, or nil
//	haspath("$.a")      whether a path resolves
//	whereami()          the path of the node being evaluated
//	getenv("HOME")      an environment variable
package eval

import (
	"fmt"
	"maps"
	"os"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env holds variables visible to expressions.
type Env map[string]any

// scope is the document state the expression functions read. A compiled
// program is bound to one scope and the scope is updated between runs.
type scope struct {
	root *ir.Node
	path ir.Path
}

func (s *scope) options() []expr.Option {
	return []expr.Option{
		expr.AllowUndefinedVariables(),
		expr.Function("whereami", func(params ...any) (any, error) {
			return s.path.String(), nil
		},
			new(func() string)),
		expr.Function("getpath", func(params ...any) (any, error) {
			p, err := ir.ParsePath(params[0].(string))
			if err != nil {
				return nil, err
			}
			return ir.ToAny(s.root.GetPath(p))
		},
			new(func(string) any)),
		expr.Function("haspath", func(params ...any) (any, error) {
			p, err := ir.ParsePath(params[0].(string))
			if err != nil {
				return nil, err
			}
			return len(p) == 0 || s.root.GetPath(p) != nil, nil
		},
			new(func(string) bool)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

func (s *scope) env(doc any, env Env) map[string]any {
	res := make(map[string]any, len(env)+1)
	maps.Copy(res, env)
	res["doc"] = doc
	return res
}

func compile(src string, s *scope, extra ...expr.Option) (*vm.Program, error) {
	prog, err := expr.Compile(src, append(s.options(), extra...)...)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", src, err)
	}
	return prog, nil
}

// Eval evaluates src against doc and returns the result as a node.
func Eval(doc *ir.Node, src string, env Env) (*ir.Node, error) {
	if debug.Eval() {
		debug.Logf("eval %q\n", src)
	}
	s := &scope{root: doc}
	prog, err := compile(src, s)
	if err != nil {
		return nil, err
	}
	d, err := ir.ToAny(doc)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(prog, s.env(d, env))
	if err != nil {
		return nil, err
	}
	return ir.FromAny(out)
}

// Select returns the paths of the nodes in doc for which pred is true, in
// document order. pred sees the node as it, its path as path and its type
// name as kind. Nodes without a plain value, such as calls, have a nil it.
func Select(doc *ir.Node, pred string, env Env) ([]ir.Path, error) {
	s := &scope{root: doc}
	prog, err := compile(pred, s, expr.AsBool())
	if err != nil {
		return nil, err
	}
	d, err := ir.ToAny(doc)
	if err != nil {
		d = nil
	}
	vars := s.env(d, env)
	var res []ir.Path
	var walk func(p ir.Path, y *ir.Node) error
	walk = func(p ir.Path, y *ir.Node) error {
		it, err := ir.ToAny(y)
		if err != nil {
			it = nil
		}
		s.path = p
		vars["it"] = it
		vars["path"] = p.String()
		vars["kind"] = y.Type.String()
		out, err := expr.Run(prog, vars)
		if err != nil {
			return fmt.Errorf("at %s: %w", p, err)
		}
		if out.(bool) {
			if debug.Eval() {
				debug.Logf("select %s\n", p)
			}
			res = append(res, p)
		}
		if !y.Type.IsContainer() {
			return nil
		}
		for k, v := range y.All() {
			if v == nil {
				continue
			}
			if err := walk(append(p[:len(p):len(p)], k), v); err != nil {
				return err
			}
		}
		return nil
	}
	if doc == nil {
		return nil, nil
	}
	if err := walk(ir.Path{}, doc); err != nil {
		return nil, err
	}
	return res, nil
}
