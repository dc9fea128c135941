package main

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/go-kit/log/level"
	"github.com/scott-cotton/cli"

	"github.com/signadot/yamlv/debug"
	"github.com/signadot/yamlv/encode"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/parse"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch argument", cli.ErrUsage)
	}
	var src []byte
	if cfg.String {
		src = []byte(args[0])
	} else {
		src, err = readArg(cc, args[0])
		if err != nil {
			return err
		}
	}
	p, err := parse.Parse(src, cfg.parseOpts()...)
	if err != nil {
		return fmt.Errorf("error decoding patch %s: %w", args[0], err)
	}
	pd, err := ir.ToJSON(p, "")
	if err != nil {
		return fmt.Errorf("patch %s cannot be written as JSON: %w", args[0], err)
	}
	enc := encode.NewEncoder(cc.Out, cfg.encOpts()...)
	err = cfg.eachDoc(cc, args[1:], func(arg string, v *ir.Value) error {
		res, err := applyPatch(v, pd, cfg.Merge)
		if err != nil {
			return fmt.Errorf("error patching %s: %w", arg, err)
		}
		return enc.Encode(res)
	})
	if err != nil {
		return err
	}
	return enc.Close()
}

// applyPatch applies the JSON text of a JSON patch, or of a merge patch
// when merge is set, to doc. Tags, key order and non string keys do not
// survive the trip through JSON.
func applyPatch(doc *ir.Value, patch []byte, merge bool) (*ir.Value, error) {
	dd, err := ir.ToJSON(doc, "")
	if err != nil {
		return nil, err
	}
	var out []byte
	if merge {
		out, err = jsonpatch.MergePatch(dd, patch)
	} else {
		var ops jsonpatch.Patch
		ops, err = jsonpatch.DecodePatch(patch)
		if err != nil {
			return nil, err
		}
		level.Debug(debug.Logger()).Log("msg", "applying json patch", "ops", len(ops))
		out, err = ops.Apply(dd)
	}
	if err != nil {
		return nil, err
	}
	return ir.FromJSON(out)
}
