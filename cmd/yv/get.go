package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/yamlv/encode"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	p, err := parsePath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	enc := encode.NewEncoder(cc.Out, cfg.encOpts()...)
	err = cfg.eachDoc(cc, args[1:], func(_ string, v *ir.Value) error {
		res := v.GetPath(p)
		if res == nil {
			return nil
		}
		return enc.Encode(res)
	})
	if err != nil {
		return err
	}
	return enc.Close()
}

// parsePath accepts a path with or without a leading '.'.
func parsePath(s string) (kpath.KPath, error) {
	if len(s) > 1 && s[0] == '.' && s[1] != '.' {
		s = strings.TrimPrefix(s, ".")
	}
	return kpath.Parse(s)
}
