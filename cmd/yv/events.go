package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/yamlv/stream"
)

func events(cfg *EventsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Events.Parse(cc, args)
	if err != nil {
		return err
	}
	p := newPalette(cfg.colorOut(cc.Out))
	for _, arg := range inputs(args) {
		r, err := openArg(cc, arg)
		if err != nil {
			return err
		}
		err = writeEvents(cc.Out, stream.NewDecoder(r), p, cfg.Loc)
		r.Close()
		if err != nil {
			return fmt.Errorf("error reading %s: %w", arg, err)
		}
	}
	return nil
}

// writeEvents writes one line per event of r.
func writeEvents(w io.Writer, r stream.EventReader, p *palette, withLoc bool) error {
	for {
		ev, err := r.ReadEvent()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line := p.event(ev)
		if withLoc && !ev.Loc.IsZero() {
			line += "\t" + p.loc(ev.Loc.String())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
}
