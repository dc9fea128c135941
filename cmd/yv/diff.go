package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 arguments", cli.ErrUsage)
	}
	if cfg.Reverse {
		args[0], args[1] = args[1], args[0]
	}
	texts := make([]string, 2)
	for i, arg := range args {
		d, err := readArg(cc, arg)
		if err != nil {
			return err
		}
		n, err := normalize(cfg.MainConfig, d)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		texts[i] = string(n)
	}
	changed, err := writeDiff(cc.Out, texts[0], texts[1], newPalette(cfg.colorOut(cc.Out)))
	if err != nil {
		return err
	}
	if changed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// writeDiff writes a line diff of from and to, prefixing each line with
// '-', '+' or ' '. It reports whether the texts differ.
func writeDiff(w io.Writer, from, to string, p *palette) (bool, error) {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	changed := false
	for _, d := range diffs {
		prefix, color := " ", paint(fmt.Sprint)
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix, color = "+", p.insert
			changed = true
		case diffpatch.DiffDelete:
			prefix, color = "-", p.delete
			changed = true
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			if _, err := fmt.Fprintln(w, color(prefix+line)); err != nil {
				return changed, err
			}
		}
	}
	return changed, nil
}
