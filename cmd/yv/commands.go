package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "yv").
		WithSynopsis("yv [opts] command [opts]").
		WithDescription("yv reads, rewrites and inspects YAML documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return yvMain(cfg, cc, args)
		}).
		WithSubs(
			FmtCommand(cfg),
			GetCommand(cfg),
			DiffCommand(cfg),
			JSONCommand(cfg),
			PatchCommand(cfg),
			EventsCommand(cfg))
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("fmt").
		WithAliases("f").
		WithSynopsis("fmt [-w] [-x] [files]").
		WithDescription("rewrite documents in normal form").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return format(cfg, cc, args)
		})
	cfg.Fmt = cmd
	return cmd
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("get").
		WithAliases("g").
		WithSynopsis("get <path> [files]").
		WithDescription("get the value at a path, such as a.b[2], from each document").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
	cfg.Get = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d").
		WithSynopsis("diff [-r] a b").
		WithDescription("diff the normal forms of two files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func JSONCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &JSONConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("json").
		WithAliases("j").
		WithSynopsis("json [-i] [files]").
		WithDescription("write each document as JSON, one per line").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return toJSON(cfg, cc, args)
		})
	cfg.JSON = cmd
	return cmd
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("patch").
		WithAliases("p").
		WithSynopsis("patch [-m] [-s] <patch> [files]").
		WithDescription("apply a JSON patch, or with -m a merge patch, to each document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
	cfg.Patch = cmd
	return cmd
}

func EventsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EventsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("events").
		WithAliases("e", "ev").
		WithSynopsis("events [-l] [files]").
		WithDescription("list the event stream of each file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return events(cfg, cc, args)
		})
	cfg.Events = cmd
	return cmd
}
