package mergeop

import (
	"fmt"
	"slices"

	"github.com/signadot/nodetree/ir"
)

// Symbol names a patch operation and builds instances of it.
type Symbol interface {
	String() string
	Instance(child *ir.Node) (Op, error)
}

type name string

func (s name) String() string {
	return string(s)
}

var symbols = map[string]Symbol{}

func register(syms ...Symbol) {
	for _, s := range syms {
		if _, ok := symbols[s.String()]; ok {
			panic(fmt.Sprintf("mergeop: %s registered twice", s))
		}
		symbols[s.String()] = s
	}
}

func init() {
	register(Pass(), JSONPatch(), MergePatch(), Set(), Unset(), Seq())
}

// Lookup returns the symbol called n, or nil.
func Lookup(n string) Symbol {
	return symbols[n]
}

// Names returns the names of all operations, sorted.
func Names() []string {
	res := make([]string, 0, len(symbols))
	for n := range symbols {
		res = append(res, n)
	}
	slices.Sort(res)
	return res
}
