package main

import (
	"fmt"
	"strings"

	"github.com/signadot/nodetree/eval"
	"github.com/signadot/nodetree/ir"

	"github.com/scott-cotton/cli"
)

func envOptTypeFunc(env eval.Env) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		if err := envFunc(env, a); err != nil {
			return nil, err
		}
		return 0, nil
	}
}

// envFunc sets env from a name=value argument. Values which are JSON are
// used as such, anything else is a string.
func envFunc(env eval.Env, a string) error {
	name, val, ok := strings.Cut(a, "=")
	if !ok || name == "" {
		return fmt.Errorf("%w: expected name=value, got %q", cli.ErrUsage, a)
	}
	y, err := ir.FromJSON([]byte(val))
	if err != nil {
		env[name] = val
		return nil
	}
	v, err := ir.ToAny(y)
	if err != nil {
		return err
	}
	env[name] = v
	return nil
}

func evalCmd(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		cfg.Eval.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var (
		src string
		res []*ir.Node
	)
	if !cfg.Expand {
		if len(args) == 0 {
			return fmt.Errorf("%w: eval requires an expression", cli.ErrUsage)
		}
		src, args = args[0], args[1:]
	}
	err = eachDoc(cfg.MainConfig, cc, args, func(_ string, y *ir.Node) error {
		var (
			out *ir.Node
			err error
		)
		if cfg.Expand {
			out, err = eval.Expand(y, cfg.Env)
		} else {
			out, err = eval.Eval(y, src, cfg.Env)
		}
		if err != nil {
			return err
		}
		res = append(res, out)
		return nil
	})
	if err != nil {
		return err
	}
	return cfg.output(cc.Out, res...)
}

func selectCmd(cfg *SelectConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Select.Parse(cc, args)
	if err != nil {
		cfg.Select.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: select requires a predicate", cli.ErrUsage)
	}
	pred := args[0]
	var values []*ir.Node
	err = eachDoc(cfg.MainConfig, cc, args[1:], func(_ string, y *ir.Node) error {
		paths, err := eval.Select(y, pred, cfg.Env)
		if err != nil {
			return err
		}
		for _, p := range paths {
			if cfg.Values {
				values = append(values, y.GetPath(p))
				continue
			}
			if _, err := fmt.Fprintln(cc.Out, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if cfg.Values {
		return cfg.output(cc.Out, values...)
	}
	return nil
}
