package main

import (
	"fmt"

	"github.com/signadot/nodetree/ir"
	"github.com/signadot/nodetree/libdiff"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	y1, err := getObjFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	y2, err := getObjFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	changes := libdiff.Diff(y1, y2)
	theLog.Debug("diff", zap.Int("changes", len(changes)))
	if len(changes) == 0 {
		return nil
	}
	if cfg.Reverse {
		changes = libdiff.Reverse(changes)
	}
	if err := cfg.output(cc.Out, changesNode(changes)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

// changesNode renders changes as an array of {op, path, from, to} objects.
// String replacements with edits show them as an edits array of
// {op, text} objects.
func changesNode(changes []libdiff.Change) *ir.Node {
	res := ir.DefaultInstance(ir.ArrayType)
	for _, c := range changes {
		obj := ir.Object(
			ir.KV("op", ir.FromString(c.Op.String())),
			ir.KV("path", ir.FromString(c.Path.String())),
		)
		if c.Edits != nil {
			edits := ir.DefaultInstance(ir.ArrayType)
			for _, e := range c.Edits {
				edits.Append(ir.Object(
					ir.KV("op", ir.FromString(editName(e.Op))),
					ir.KV("text", ir.FromString(e.Text)),
				))
			}
			obj.Set("edits", edits)
			res.Append(obj)
			continue
		}
		if c.Op != libdiff.Insert {
			obj.Set("from", c.From.Clone())
		}
		if c.Op != libdiff.Delete {
			obj.Set("to", c.To.Clone())
		}
		res.Append(obj)
	}
	return res
}

func editName(op libdiff.EditOp) string {
	switch op {
	case libdiff.EditInsert:
		return "insert"
	case libdiff.EditDelete:
		return "delete"
	default:
		return "equal"
	}
}
