package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log/level"
	"github.com/scott-cotton/cli"

	"github.com/signadot/yamlv/debug"
	"github.com/signadot/yamlv/encode"
	"github.com/signadot/yamlv/eval"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/parse"
)

func format(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Write {
		if len(args) == 0 {
			return fmt.Errorf("%w: -w requires file arguments", cli.ErrUsage)
		}
		for _, arg := range args {
			if err := cfg.rewrite(arg); err != nil {
				return err
			}
		}
		return nil
	}
	enc := encode.NewEncoder(cc.Out, cfg.encOpts()...)
	err = cfg.eachDoc(cc, args, func(arg string, v *ir.Value) error {
		v, err := cfg.expand(v)
		if err != nil {
			return fmt.Errorf("error expanding %s: %w", arg, err)
		}
		return enc.Encode(v)
	})
	if err != nil {
		return err
	}
	return enc.Close()
}

// normalize parses every document of d and writes them back out.
func normalize(cfg *MainConfig, d []byte) ([]byte, error) {
	docs, err := parse.ParseAll(d, cfg.parseOpts()...)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.EncodeAll(docs, buf, cfg.encOpts()...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (cfg *FmtConfig) expand(v *ir.Value) (*ir.Value, error) {
	if !cfg.Expand {
		return v, nil
	}
	return eval.ExpandValue(v, eval.OSEnv())
}

func (cfg *FmtConfig) rewrite(path string) error {
	d, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := normalize(cfg.MainConfig, d)
	if err != nil {
		return fmt.Errorf("error formatting %s: %w", path, err)
	}
	if bytes.Equal(d, out) {
		return nil
	}
	level.Info(debug.Logger()).Log("msg", "rewrote", "file", path)
	return os.WriteFile(path, out, 0644)
}

func readArg(cc *cli.Context, arg string) ([]byte, error) {
	r, err := openArg(cc, arg)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
