package nodetree

import (
	"fmt"
	"path"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"
)

type MatchConfig struct {
	// Glob matches string patterns as path.Match globs.
	Glob bool
	// ArraySubset lets an array pattern match any array holding a distinct
	// matching element for each pattern element, in any order.
	ArraySubset bool
	// Exact makes object patterns reject documents with extra keys.
	Exact bool
}

type MatchOpt func(*MatchConfig)

func MatchGlob(v bool) MatchOpt {
	return func(c *MatchConfig) { c.Glob = v }
}
func MatchArraySubset(v bool) MatchOpt {
	return func(c *MatchConfig) { c.ArraySubset = v }
}
func MatchExact(v bool) MatchOpt {
	return func(c *MatchConfig) { c.Exact = v }
}

// Match reports whether doc matches the pattern match.
//
// Null matches any node and the undefined identifier matches an absent
// one. Objects match when every pattern key matches; arrays and calls
// match element by element. Templates with expressions and spreads cannot
// be used as patterns.
func Match(doc, match *ir.Node, opts ...MatchOpt) (bool, error) {
	cfg := &MatchConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg.match(doc, match, nil)
}

func (c *MatchConfig) match(doc, match *ir.Node, p ir.Path) (bool, error) {
	if match == nil {
		return doc == nil, nil
	}
	if debug.Match() {
		debug.Logf("match type %s at %s\n", match.Type, p)
	}
	switch {
	case match.Type == ir.NullType:
		return true, nil
	case match.IsIdent("undefined"):
		return doc.IsAbsent(), nil
	case match.Type == ir.SpreadType:
		return false, fmt.Errorf("match at %s: spread is not a pattern", p)
	case match.Type == ir.TemplateType && len(match.Values) > 0:
		return false, fmt.Errorf("match at %s: template with expressions is not a pattern", p)
	}
	if doc == nil {
		return false, nil
	}
	if c.Glob && match.Type == ir.StringType && doc.Type == ir.StringType {
		m, err := path.Match(match.String, doc.String)
		if err != nil {
			return false, fmt.Errorf("match at %s: %w", p, err)
		}
		return m, nil
	}
	if doc.Type != match.Type {
		return false, nil
	}
	switch match.Type {
	case ir.ObjectType:
		return c.matchObj(doc, match, p)
	case ir.ArrayType:
		if c.ArraySubset {
			return c.matchSubset(doc, match, p)
		}
		return c.matchSeq(doc.Values, match.Values, p)
	case ir.CallType:
		if doc.New != match.New {
			return false, nil
		}
		m, err := c.match(doc.Callee, match.Callee, append(p[:len(p):len(p)], ir.IntKey(0)))
		if err != nil || !m {
			return false, err
		}
		return c.matchSeq(doc.Values, match.Values, p)
	}
	return ir.Equal(doc, match), nil
}

func (c *MatchConfig) matchObj(doc, match *ir.Node, p ir.Path) (bool, error) {
	if c.Exact {
		for _, k := range doc.Fields {
			if !match.Has(k) {
				return false, nil
			}
		}
	}
	for i, k := range match.Fields {
		sub, err := c.match(doc.Get(k), match.Values[i], append(p[:len(p):len(p)], k))
		if err != nil || !sub {
			return false, err
		}
	}
	return true, nil
}

func (c *MatchConfig) matchSeq(doc, match []*ir.Node, p ir.Path) (bool, error) {
	if len(doc) != len(match) {
		return false, nil
	}
	for i := range doc {
		sub, err := c.match(doc[i], match[i], append(p[:len(p):len(p)], ir.IntKey(i)))
		if err != nil || !sub {
			return false, err
		}
	}
	return true, nil
}

func (c *MatchConfig) matchSubset(doc, match *ir.Node, p ir.Path) (bool, error) {
	used := make([]bool, len(doc.Values))
outer:
	for _, m := range match.Values {
		for i, d := range doc.Values {
			if used[i] {
				continue
			}
			ok, err := c.match(d, m, append(p[:len(p):len(p)], ir.IntKey(i)))
			if err != nil {
				return false, err
			}
			if ok {
				used[i] = true
				continue outer
			}
		}
		return false, nil
	}
	return true, nil
}

// Trim filters a document to only include fields/values that are present in the match criteria.
// It recursively processes objects and arrays, removing fields that aren't in the match.
func Trim(match, doc *ir.Node, opts ...MatchOpt) *ir.Node {
	if match == nil || doc == nil || match.Type != doc.Type {
		return doc.Clone()
	}
	cfg := &MatchConfig{}
	for _, o := range opts {
		o(cfg)
	}
	switch match.Type {
	case ir.ObjectType:
		var kvs []ir.KeyVal
		for i, field := range doc.Fields {
			matchVal := match.Get(field)
			if matchVal == nil {
				continue
			}
			kvs = append(kvs, ir.KeyVal{Key: field, Val: Trim(matchVal, doc.Values[i], opts...)})
		}
		return ir.FromKeyVals(kvs)
	case ir.ArrayType:
		// each match element keeps the first unused doc element it matches
		var res []*ir.Node
		used := make([]bool, len(doc.Values))
		for _, matchElem := range match.Values {
			for i, docElem := range doc.Values {
				if used[i] {
					continue
				}
				matched, err := cfg.match(docElem, matchElem, nil)
				if err != nil || !matched {
					continue
				}
				res = append(res, Trim(matchElem, docElem, opts...))
				used[i] = true
				break
			}
		}
		return ir.FromSlice(res)
	default:
		return doc.Clone()
	}
}
