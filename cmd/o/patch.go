package main

import (
	"fmt"

	"github.com/signadot/nodetree/ir"
	"github.com/signadot/nodetree/mergeop"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Ops {
		fmt.Fprintf(cc.Out, "available patch operations:\n")
		for _, n := range mergeop.Names() {
			fmt.Fprintf(cc.Out, "\t- %s\n", n)
		}
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch object and optionally files to which to apply it", cli.ErrUsage)
	}
	p, err := getish(cfg.MainConfig, cfg.String, cfg.File, cc, args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if cfg.Merge {
		p = ir.Object(ir.KV(mergeop.MergePatch().String(), p))
	}
	o, err := mergeop.Parse(p)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	var res []*ir.Node
	err = eachDoc(cfg.MainConfig, cc, args[1:], func(file string, y *ir.Node) error {
		out, err := o.Patch(y)
		if err != nil {
			return err
		}
		theLog.Debug("patched", zap.String("file", file), zap.Stringer("op", o))
		res = append(res, out)
		return nil
	})
	if err != nil {
		return err
	}
	return cfg.output(cc.Out, res...)
}
