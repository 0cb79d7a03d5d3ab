package main

import (
	"fmt"

	"github.com/signadot/nodetree/ir"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"
)

func parsePathArg(arg string) (ir.Path, error) {
	if arg == "" {
		return nil, fmt.Errorf("%w: invalid path \"\"", cli.ErrUsage)
	}
	if arg[0] != '$' {
		arg = "$" + arg
	}
	p, err := ir.ParsePath(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return p, nil
}

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires a path argument", cli.ErrUsage)
	}
	p, err := parsePathArg(args[0])
	if err != nil {
		return err
	}
	var res []*ir.Node
	err = eachDoc(cfg.MainConfig, cc, args[1:], func(file string, y *ir.Node) error {
		v := y.GetPath(p)
		if v == nil {
			theLog.Debug("path not found", zap.String("file", file), zap.Stringer("path", p))
			return nil
		}
		res = append(res, v)
		return nil
	})
	if err != nil {
		return err
	}
	if len(res) == 0 {
		return fmt.Errorf("%s: %w", p, ir.ErrNotFound)
	}
	return cfg.output(cc.Out, res...)
}

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: set requires a path and a value", cli.ErrUsage)
	}
	p, err := parsePathArg(args[0])
	if err != nil {
		return err
	}
	var v *ir.Node
	if cfg.String {
		v = ir.FromString(args[1])
	} else if v, err = getish(cfg.MainConfig, true, false, cc, args[1]); err != nil {
		return fmt.Errorf("%w: value: %w", cli.ErrUsage, err)
	}
	var res []*ir.Node
	err = eachDoc(cfg.MainConfig, cc, args[2:], func(_ string, y *ir.Node) error {
		if len(p) == 0 {
			res = append(res, v.Clone())
			return nil
		}
		if err := y.SetPath(p, v.Clone(), cfg.Ensure); err != nil {
			return err
		}
		res = append(res, y)
		return nil
	})
	if err != nil {
		return err
	}
	return cfg.output(cc.Out, res...)
}

func del(cfg *DelConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Del.Parse(cc, args)
	if err != nil {
		cfg.Del.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: del requires a path argument", cli.ErrUsage)
	}
	p, err := parsePathArg(args[0])
	if err != nil {
		return err
	}
	var res []*ir.Node
	err = eachDoc(cfg.MainConfig, cc, args[1:], func(file string, y *ir.Node) error {
		old, err := y.DeletePath(p)
		if err != nil {
			return err
		}
		if old == nil {
			theLog.Debug("nothing to delete", zap.String("file", file), zap.Stringer("path", p))
		}
		res = append(res, y)
		return nil
	})
	if err != nil {
		return err
	}
	return cfg.output(cc.Out, res...)
}
