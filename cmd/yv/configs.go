package main

import (
	"io"
	"os"

	"github.com/signadot/yamlv/encode"
	"github.com/signadot/yamlv/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Compact  bool `cli:"name=c aliases=compact desc='write collections in flow style'"`
	Indent   int  `cli:"name=indent desc='indentation of nested block collections'"`
	Explicit bool `cli:"name=explicit desc='write --- before every document'"`
	NoMerge  bool `cli:"name=nomerge desc='keep <<: merge keys as ordinary keys'"`
	Color    bool `cli:"name=color desc='color output'"`
	Verbose  bool `cli:"name=v desc='log what is read and written'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	return []parse.ParseOption{parse.MergeKeys(!cfg.NoMerge)}
}

func (cfg *MainConfig) encOpts() []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.Compact(cfg.Compact),
		encode.ExplicitDocumentStart(cfg.Explicit),
	}
	if cfg.Indent > 0 {
		res = append(res, encode.Indent(cfg.Indent))
	}
	return res
}

// colorOut reports whether output to w is colored: -color forces it,
// otherwise w must be a terminal.
func (cfg *MainConfig) colorOut(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return false
			}
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type FmtConfig struct {
	*MainConfig
	Write  bool `cli:"name=w desc='write the result back to each file'"`
	Expand bool `cli:"name=x desc='expand $[expr] in strings, with env.NAME bound to the environment'"`

	Fmt *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}

type JSONConfig struct {
	*MainConfig
	Pretty bool `cli:"name=i desc='indent output'"`

	JSON *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge  bool `cli:"name=m aliases=merge desc='apply a merge patch instead of a JSON patch'"`
	String bool `cli:"name=s desc='patch arg as string'"`

	Patch *cli.Command
}

type EventsConfig struct {
	*MainConfig
	Loc bool `cli:"name=l desc='show the location of each event'"`

	Events *cli.Command
}
