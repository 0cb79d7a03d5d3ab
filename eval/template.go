package eval

import (
	"fmt"
	"strings"

	"github.com/signadot/nodetree/debug"
	"github.com/signadot/nodetree/ir"

	"github.com/expr-lang/expr"
)

// Expand returns a copy of doc in which every template is replaced by the
// string it produces. Each template expression is evaluated against env: an
// identifier names a variable and a string holds an expression source.
// Other leaves are used as they are. The doc variable is not set; getpath
// and haspath read the document.
func Expand(doc *ir.Node, env Env) (*ir.Node, error) {
	res := doc.Clone()
	err := res.Visit(func(y *ir.Node, isPost bool) (bool, error) {
		if isPost || y.Type != ir.TemplateType {
			return true, nil
		}
		s, err := expandTemplate(res, y, env)
		if err != nil {
			return false, err
		}
		*y = *ir.FromString(s)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func expandTemplate(root, y *ir.Node, env Env) (string, error) {
	var b strings.Builder
	for i, q := range y.Quasis {
		b.WriteString(q)
		if i >= len(y.Values) {
			continue
		}
		v, err := templateValue(root, y.Values[i], env)
		if err != nil {
			return "", fmt.Errorf("template expression %d: %w", i, err)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

func templateValue(root, e *ir.Node, env Env) (string, error) {
	if e == nil {
		return "", nil
	}
	var src string
	switch e.Type {
	case ir.IdentType:
		src = e.String
	case ir.StringType:
		src = e.String
	default:
		v, err := ir.ToAny(e)
		if err != nil {
			return "", err
		}
		return format(v)
	}
	if debug.Eval() {
		debug.Logf("template expression %q\n", src)
	}
	s := &scope{root: root}
	prog, err := compile(src, s)
	if err != nil {
		return "", err
	}
	out, err := expr.Run(prog, s.env(nil, env))
	if err != nil {
		return "", err
	}
	return format(out)
}

func format(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	y, err := ir.FromAny(v)
	if err != nil {
		return "", err
	}
	d, err := ir.ToJSON(y)
	if err != nil {
		return "", err
	}
	return string(d), nil
}
