package main

import (
	"fmt"

	"github.com/signadot/nodetree"
	"github.com/signadot/nodetree/ir"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"
)

func match(cfg *MatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Command.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: match requires 1 argument, a match object", cli.ErrUsage)
	}
	m, err := getish(cfg.MainConfig, cfg.String, cfg.File, cc, args[0])
	if err != nil {
		return fmt.Errorf("error reading match: %w", err)
	}
	opts := cfg.matchOpts()
	var res []*ir.Node
	err = eachDoc(cfg.MainConfig, cc, args[1:], func(file string, y *ir.Node) error {
		ok, err := nodetree.Match(y, m, opts...)
		if err != nil {
			return err
		}
		theLog.Debug("match", zap.String("file", file), zap.Bool("matched", ok))
		if !ok {
			return nil
		}
		if cfg.Trim {
			y = nodetree.Trim(m, y, opts...)
		}
		res = append(res, y)
		return nil
	})
	if err != nil {
		return err
	}
	return cfg.output(cc.Out, res...)
}

func (cfg *MatchConfig) matchOpts() []nodetree.MatchOpt {
	var res []nodetree.MatchOpt
	if cfg.Glob {
		res = append(res, nodetree.MatchGlob(true))
	}
	if cfg.Subset {
		res = append(res, nodetree.MatchArraySubset(true))
	}
	if cfg.Exact {
		res = append(res, nodetree.MatchExact(true))
	}
	return res
}
