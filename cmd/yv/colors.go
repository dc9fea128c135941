package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/signadot/yamlv/stream"
)

type paint func(a ...any) string

// palette holds the colors of diff lines and events. The zero palette
// does not color.
type palette struct {
	insert, delete paint
	node, marker   paint
	scalar, alias  paint
	loc            paint
}

func newPalette(colored bool) *palette {
	if !colored {
		plain := paint(fmt.Sprint)
		return &palette{plain, plain, plain, plain, plain, plain, plain}
	}
	return &palette{
		insert: sprint(color.New(color.FgGreen)),
		delete: sprint(color.New(color.FgRed)),
		node:   sprint(color.New(color.FgBlue)),
		marker: sprint(color.RGB(96, 96, 96)),
		scalar: sprint(color.RGB(128, 216, 236)),
		alias:  sprint(color.RGB(255, 0, 196)),
		loc:    sprint(color.New(color.Faint)),
	}
}

// sprint returns c's Sprint with colors enabled regardless of whether
// stdout is a terminal, since output may go to -o.
func sprint(c *color.Color) paint {
	c.EnableColor()
	return c.SprintFunc()
}

func (p *palette) event(ev *stream.Event) string {
	s := ev.String()
	switch ev.Type {
	case stream.EventScalar:
		return p.scalar(s)
	case stream.EventAlias:
		return p.alias(s)
	case stream.EventSequenceStart, stream.EventSequenceEnd,
		stream.EventMappingStart, stream.EventMappingEnd:
		return p.node(s)
	}
	return p.marker(s)
}
