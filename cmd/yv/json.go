package main

import (
	"github.com/scott-cotton/cli"

	"github.com/signadot/yamlv/ir"
)

func toJSON(cfg *JSONConfig, cc *cli.Context, args []string) error {
	args, err := cfg.JSON.Parse(cc, args)
	if err != nil {
		return err
	}
	indent := ""
	if cfg.Pretty {
		indent = "  "
	}
	return cfg.eachDoc(cc, args, func(arg string, v *ir.Value) error {
		d, err := ir.ToJSON(v, indent)
		if err != nil {
			return err
		}
		_, err = cc.Out.Write(append(d, '\n'))
		return err
	})
}
