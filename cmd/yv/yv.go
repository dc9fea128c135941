package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/scott-cotton/cli"

	"github.com/signadot/yamlv/debug"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/parse"
)

func yvMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Indent < 0 {
		return fmt.Errorf("%w: -indent must not be negative", cli.ErrUsage)
	}
	cfg.setupLog(os.Stderr)
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// setupLog routes debug output to w, showing debug level lines only with
// -v.
func (cfg *MainConfig) setupLog(w io.Writer) {
	l := log.NewLogfmtLogger(log.NewSyncWriter(w))
	allow := level.AllowInfo()
	if cfg.Verbose {
		allow = level.AllowDebug()
		l = log.With(l, "ts", log.DefaultTimestampUTC)
	}
	debug.SetLogger(level.NewFilter(l, allow))
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// openArg opens a file argument, "-" being standard input.
func openArg(cc *cli.Context, arg string) (io.ReadCloser, error) {
	if arg == "-" {
		return io.NopCloser(cc.In), nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", arg, err)
	}
	return f, nil
}

// inputs defaults an empty argument list to standard input.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

// eachDoc calls f with every document of every argument, in order.
func (cfg *MainConfig) eachDoc(cc *cli.Context, args []string, f func(arg string, v *ir.Value) error) error {
	for _, arg := range inputs(args) {
		r, err := openArg(cc, arg)
		if err != nil {
			return err
		}
		err = cfg.decodeAll(arg, r, f)
		r.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (cfg *MainConfig) decodeAll(arg string, r io.Reader, f func(arg string, v *ir.Value) error) error {
	dec := parse.NewDecoder(r, cfg.parseOpts()...)
	n := 0
	for {
		v, err := dec.Decode()
		if err == io.EOF {
			level.Debug(debug.Logger()).Log("msg", "read documents", "file", arg, "count", n)
			return nil
		}
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		n++
		if err := f(arg, v); err != nil {
			return err
		}
	}
}
