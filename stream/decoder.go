package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/signadot/yamlv/debug"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/token"
)

// Decoder produces the events of a YAML stream read from an io.Reader.
//
// The whole input is read on the first call to ReadEvent. Documents are
// then scanned one at a time, so a syntax error in a later document is
// only reported once the events of the earlier documents have been read.
type Decoder struct {
	r     io.Reader
	opts  *streamOpts
	src   []byte
	lines *token.LineIndex
	yd    *yaml.Decoder
	queue []*Event
	qi    int
	last  token.Location
	phase phase
	err   error
}

// NewDecoder creates a new Decoder reading from r.
func NewDecoder(r io.Reader, opts ...StreamOption) *Decoder {
	streamOpts := defaultStreamOpts()
	for _, opt := range opts {
		opt(streamOpts)
	}
	return &Decoder{r: r, opts: streamOpts}
}

// ReadEvent reads the next event from the stream.
// Returns io.EOF after StreamEnd. Errors are sticky.
func (d *Decoder) ReadEvent() (*Event, error) {
	if d.qi < len(d.queue) {
		ev := d.queue[d.qi]
		d.qi++
		if debug.Stream() {
			debug.Logf("stream event %s at %s", ev, ev.Loc)
		}
		return ev, nil
	}
	if d.err != nil {
		return nil, d.err
	}
	d.queue, d.qi = d.queue[:0], 0
	switch d.phase {
	case phaseDone:
		return nil, io.EOF
	case phaseInit:
		src, err := io.ReadAll(d.r)
		if err != nil {
			d.err = ir.WrapError(ir.KindIO, token.Location{}, err)
			return nil, d.err
		}
		d.src = src
		d.lines = token.NewLineIndex(src)
		d.yd = yaml.NewDecoder(bytes.NewReader(src))
		d.phase = phaseStream
		d.push(&Event{Type: EventStreamStart, Loc: d.lines.At(0)})
	default:
		if err := d.document(); err != nil {
			d.err = err
			return nil, err
		}
	}
	return d.ReadEvent()
}

func (d *Decoder) push(ev *Event) {
	d.queue = append(d.queue, ev)
	if !ev.Loc.IsZero() {
		d.last = ev.Loc
	}
}

func (d *Decoder) document() error {
	var doc yaml.Node
	err := d.yd.Decode(&doc)
	if errors.Is(err, io.EOF) {
		d.phase = phaseDone
		d.push(&Event{Type: EventStreamEnd, Loc: d.lines.At(len(d.src))})
		return nil
	}
	if err != nil {
		return d.scanError(err)
	}
	loc := d.loc(&doc)
	d.push(&Event{Type: EventDocumentStart, Loc: loc, Implicit: !d.hasMarker(loc)})
	if len(doc.Content) == 0 {
		d.push(&Event{Type: EventScalar, Loc: loc, Style: PlainStyle})
	} else {
		for _, n := range doc.Content {
			d.node(n)
		}
	}
	d.push(&Event{Type: EventDocumentEnd, Loc: d.last, Implicit: true})
	return nil
}

func (d *Decoder) hasMarker(loc token.Location) bool {
	return bytes.HasPrefix(d.src[loc.Index:], []byte("---"))
}

func (d *Decoder) loc(n *yaml.Node) token.Location {
	return d.lines.Location(n.Line, n.Column)
}

func (d *Decoder) explicitTag(n *yaml.Node, loc token.Location) string {
	if n.Style&yaml.TaggedStyle == 0 {
		if d.nonSpecific(loc) {
			return "!"
		}
		return ""
	}
	return ir.NormalizeTag(n.Tag)
}

// nonSpecific reports whether the node properties at loc contain the
// non-specific tag "!", which yaml.v3 resolves away.
func (d *Decoder) nonSpecific(loc token.Location) bool {
	i := loc.Index
	for i < len(d.src) && (d.src[i] == '&' || d.src[i] == '!') {
		j := i
		for j < len(d.src) && !isAliasEnd(d.src[j]) {
			j++
		}
		if d.src[i] == '!' && j == i+1 {
			return true
		}
		for j < len(d.src) && (d.src[j] == ' ' || d.src[j] == '\t') {
			j++
		}
		i = j
	}
	return false
}

func scalarStyle(s yaml.Style) ScalarStyle {
	switch {
	case s&yaml.SingleQuotedStyle != 0:
		return SingleQuotedStyle
	case s&yaml.DoubleQuotedStyle != 0:
		return DoubleQuotedStyle
	case s&yaml.LiteralStyle != 0:
		return LiteralStyle
	case s&yaml.FoldedStyle != 0:
		return FoldedStyle
	}
	return PlainStyle
}

func (d *Decoder) node(n *yaml.Node) {
	loc := d.loc(n)
	switch n.Kind {
	case yaml.ScalarNode:
		d.push(&Event{
			Type:   EventScalar,
			Loc:    loc,
			Tag:    d.explicitTag(n, loc),
			Anchor: n.Anchor,
			Value:  n.Value,
			Style:  scalarStyle(n.Style),
		})
	case yaml.AliasNode:
		d.push(&Event{Type: EventAlias, Loc: loc, Anchor: n.Value})
	case yaml.SequenceNode:
		d.push(&Event{
			Type:   EventSequenceStart,
			Loc:    loc,
			Tag:    d.explicitTag(n, loc),
			Anchor: n.Anchor,
			Flow:   n.Style&yaml.FlowStyle != 0,
		})
		for _, c := range n.Content {
			d.node(c)
		}
		d.push(&Event{Type: EventSequenceEnd, Loc: d.last})
	case yaml.MappingNode:
		d.push(&Event{
			Type:   EventMappingStart,
			Loc:    loc,
			Tag:    d.explicitTag(n, loc),
			Anchor: n.Anchor,
			Flow:   n.Style&yaml.FlowStyle != 0,
		})
		for _, c := range n.Content {
			d.node(c)
		}
		d.push(&Event{Type: EventMappingEnd, Loc: d.last})
	case yaml.DocumentNode:
		for _, c := range n.Content {
			d.node(c)
		}
	}
}

var (
	lineErrRE   = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)
	unknownRE   = regexp.MustCompile(`^yaml: unknown anchor '(.*)' referenced$`)
	yamlErrTrim = "yaml: "
)

// scanError converts a yaml.v3 error into an *ir.Error. yaml.v3 messages
// carry a line but no column, so the location is the start of that line.
func (d *Decoder) scanError(err error) error {
	msg := err.Error()
	if m := unknownRE.FindStringSubmatch(msg); m != nil {
		return ir.NewError(ir.KindUnresolvedAlias, d.aliasLoc(m[1]), fmt.Sprintf("unknown anchor %q", m[1]))
	}
	if m := lineErrRE.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		res := ir.NewError(ir.KindScanner, d.lines.Location(line, 1), m[2])
		res.Err = err
		return res
	}
	res := ir.NewError(ir.KindScanner, token.Location{}, strings.TrimPrefix(msg, yamlErrTrim))
	res.Err = err
	return res
}

// aliasLoc finds the first use of alias name after the events read so far.
func (d *Decoder) aliasLoc(name string) token.Location {
	start := d.last.Index
	ref := []byte("*" + name)
	for start < len(d.src) {
		i := bytes.Index(d.src[start:], ref)
		if i == -1 {
			break
		}
		end := start + i + len(ref)
		if end == len(d.src) || isAliasEnd(d.src[end]) {
			return d.lines.At(start + i)
		}
		start = end
	}
	return token.Location{}
}

func isAliasEnd(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', ']', '}':
		return true
	}
	return false
}
