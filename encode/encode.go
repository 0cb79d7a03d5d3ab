package encode

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/nodetree/ir"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth, indent int
	wire          bool

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node as an expression: objects and arrays in literal
// syntax, calls as callee(args), big integers with an n suffix and holes
// as empty array slots.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	if err := encode(node, w, es); err != nil {
		return err
	}
	return writeString(w, "\n")
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func writeNL(w io.Writer, es *EncState) error {
	if es.wire {
		return nil
	}
	return writeString(w, "\n"+strings.Repeat(" ", es.indent*es.depth))
}

func applyColor(es *EncState, nodeType ir.Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(nodeType, attr, v)
}

func writeSep(w io.Writer, es *EncState, t ir.Type, sep string) error {
	return writeString(w, applyColor(es, t, SepColor, sep))
}

func encode(node *ir.Node, w io.Writer, es *EncState) error {
	if node == nil {
		return nil
	}
	switch node.Type {
	case ir.NullType:
		return writeString(w, applyColor(es, ir.NullType, ValueColor, "null"))
	case ir.BoolType:
		return writeString(w, applyColor(es, ir.BoolType, ValueColor, strconv.FormatBool(node.Bool)))
	case ir.NumberType:
		return writeString(w, applyColor(es, ir.NumberType, ValueColor, ir.FormatNumber(node.Number)))
	case ir.BigIntType:
		if node.BigInt == nil {
			return fmt.Errorf("%w: bigint without value", ErrEncoding)
		}
		return writeString(w, applyColor(es, ir.BigIntType, ValueColor, node.BigInt.String()+"n"))
	case ir.StringType:
		return writeString(w, applyColor(es, ir.StringType, ValueColor, strconv.Quote(node.String)))
	case ir.IdentType:
		return writeString(w, applyColor(es, ir.IdentType, ValueColor, node.String))
	case ir.TemplateType:
		return encodeTemplate(node, w, es)
	case ir.SpreadType:
		if len(node.Values) != 1 {
			return fmt.Errorf("%w: spread with %d operands", ErrEncoding, len(node.Values))
		}
		if err := writeSep(w, es, ir.SpreadType, "..."); err != nil {
			return err
		}
		return encode(node.Values[0], w, es)
	case ir.ArrayType:
		return encodeArray(node, w, es)
	case ir.ObjectType:
		return encodeObject(node, w, es)
	case ir.CallType:
		return encodeCall(node, w, es)
	case ir.InvalidType:
		return writeString(w, "<empty>")
	}
	return fmt.Errorf("%w: unknown type %s", ErrEncoding, node.Type)
}

func encodeTemplate(node *ir.Node, w io.Writer, es *EncState) error {
	if len(node.Quasis) != len(node.Values)+1 {
		return fmt.Errorf("%w: template with %d chunks and %d expressions", ErrEncoding, len(node.Quasis), len(node.Values))
	}
	chunk := func(s string) error {
		s = strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${").Replace(s)
		return writeString(w, applyColor(es, ir.TemplateType, ValueColor, s))
	}
	if err := writeSep(w, es, ir.TemplateType, "`"); err != nil {
		return err
	}
	for i, q := range node.Quasis {
		if err := chunk(q); err != nil {
			return err
		}
		if i == len(node.Values) {
			break
		}
		if err := writeSep(w, es, ir.TemplateType, "${"); err != nil {
			return err
		}
		if err := encode(node.Values[i], w, es); err != nil {
			return err
		}
		if err := writeSep(w, es, ir.TemplateType, "}"); err != nil {
			return err
		}
	}
	return writeSep(w, es, ir.TemplateType, "`")
}

// encodeElems writes a comma separated list. A hole writes nothing, so a
// trailing hole needs its own comma.
func encodeElems(vals []*ir.Node, w io.Writer, es *EncState, t ir.Type, multiline bool) error {
	for i, v := range vals {
		if multiline {
			if err := writeNL(w, es); err != nil {
				return err
			}
		}
		if err := encode(v, w, es); err != nil {
			return err
		}
		if i < len(vals)-1 || v == nil {
			sep := ","
			if !multiline && i < len(vals)-1 {
				sep = ", "
			}
			if err := writeSep(w, es, t, sep); err != nil {
				return err
			}
		}
	}
	return nil
}

func allLeaves(vals []*ir.Node) bool {
	for _, v := range vals {
		if v != nil && !v.Type.IsLeaf() {
			return false
		}
	}
	return true
}

func encodeArray(node *ir.Node, w io.Writer, es *EncState) error {
	multiline := !es.wire && !allLeaves(node.Values)
	if err := writeSep(w, es, ir.ArrayType, "["); err != nil {
		return err
	}
	es.depth++
	if err := encodeElems(node.Values, w, es, ir.ArrayType, multiline); err != nil {
		return err
	}
	es.depth--
	if multiline {
		if err := writeNL(w, es); err != nil {
			return err
		}
	}
	return writeSep(w, es, ir.ArrayType, "]")
}

func encodeObject(node *ir.Node, w io.Writer, es *EncState) error {
	if len(node.Fields) != len(node.Values) {
		return fmt.Errorf("%w: object with %d keys and %d values", ErrEncoding, len(node.Fields), len(node.Values))
	}
	if err := writeSep(w, es, ir.ObjectType, "{"); err != nil {
		return err
	}
	if len(node.Fields) == 0 {
		return writeSep(w, es, ir.ObjectType, "}")
	}
	es.depth++
	for i, k := range node.Fields {
		if es.wire {
			if i > 0 {
				if err := writeSep(w, es, ir.ObjectType, ", "); err != nil {
					return err
				}
			}
		} else {
			if i > 0 {
				if err := writeSep(w, es, ir.ObjectType, ","); err != nil {
					return err
				}
			}
			if err := writeNL(w, es); err != nil {
				return err
			}
		}
		if err := writeField(w, k, es); err != nil {
			return err
		}
		if err := encode(node.Values[i], w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeSep(w, es, ir.ObjectType, "}")
}

func writeField(w io.Writer, k ir.Key, es *EncState) error {
	f := string(k)
	if !isIdentifier(f) {
		if _, ok := k.Index(); !ok {
			f = strconv.Quote(f)
		}
	}
	if err := writeString(w, applyColor(es, ir.ObjectType, FieldColor, f)); err != nil {
		return err
	}
	return writeSep(w, es, ir.ObjectType, ": ")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func encodeCall(node *ir.Node, w io.Writer, es *EncState) error {
	if node.New {
		if err := writeString(w, applyColor(es, ir.CallType, CalleeColor, "new ")); err != nil {
			return err
		}
	}
	if node.Callee != nil && node.Callee.Type == ir.IdentType {
		if err := writeString(w, applyColor(es, ir.CallType, CalleeColor, node.Callee.String)); err != nil {
			return err
		}
	} else if err := encode(node.Callee, w, es); err != nil {
		return err
	}
	if err := writeSep(w, es, ir.CallType, "("); err != nil {
		return err
	}
	if err := encodeElems(node.Values, w, es, ir.CallType, false); err != nil {
		return err
	}
	return writeSep(w, es, ir.CallType, ")")
}
