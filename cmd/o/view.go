package main

import (
	"github.com/signadot/nodetree/ir"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	var docs []*ir.Node
	err = eachDoc(cfg.MainConfig, cc, args, func(_ string, y *ir.Node) error {
		docs = append(docs, y)
		return nil
	})
	if err != nil {
		return err
	}
	return cfg.output(cc.Out, docs...)
}
