package stream

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/signadot/yamlv/debug"
	"github.com/signadot/yamlv/ir"
)

// Encoder writes YAML text for the events it receives.
//
// Each document is assembled into a yaml.v3 node tree and written when its
// DocumentEnd arrives. Scalars keep their requested style unless the
// emitter cannot represent the value in it, in which case it falls back to
// a quoted style.
type Encoder struct {
	w       io.Writer
	opts    *streamOpts
	state   *State
	ye      *yaml.Encoder
	root    *yaml.Node
	stack   []*yaml.Node
	anchors map[string]*yaml.Node
	docs    int
}

// NewEncoder creates a new Encoder writing to w.
func NewEncoder(w io.Writer, opts ...StreamOption) *Encoder {
	streamOpts := defaultStreamOpts()
	for _, opt := range opts {
		opt(streamOpts)
	}
	return &Encoder{w: w, opts: streamOpts, state: NewState()}
}

// WriteEvent implements EventSink.
func (e *Encoder) WriteEvent(ev *Event) error {
	if err := e.state.ProcessEvent(ev); err != nil {
		return err
	}
	if debug.Stream() {
		debug.Logf("emit event %s", ev)
	}
	switch ev.Type {
	case EventStreamStart:
		e.ye = yaml.NewEncoder(e.w)
		e.ye.SetIndent(e.opts.indent)
	case EventStreamEnd:
		if err := e.ye.Close(); err != nil {
			return ir.WrapError(ir.KindEmitter, ev.Loc, err)
		}
	case EventDocumentStart:
		e.root = nil
		e.stack = e.stack[:0]
		e.anchors = map[string]*yaml.Node{}
	case EventDocumentEnd:
		return e.writeDocument(ev)
	case EventScalar:
		value := ev.Value
		if value == "" && ev.Tag == "" && !ev.Style.IsQuoted() {
			// the emitter quotes empty plain scalars
			value = "null"
		}
		e.add(&yaml.Node{
			Kind:   yaml.ScalarNode,
			Value:  value,
			Tag:    ev.Tag,
			Anchor: ev.Anchor,
			Style:  nodeStyle(ev),
		})
	case EventSequenceStart, EventMappingStart:
		n := &yaml.Node{
			Kind:   yaml.SequenceNode,
			Tag:    ev.Tag,
			Anchor: ev.Anchor,
			Style:  nodeStyle(ev),
		}
		if ev.Type == EventMappingStart {
			n.Kind = yaml.MappingNode
		}
		e.add(n)
		e.stack = append(e.stack, n)
	case EventSequenceEnd, EventMappingEnd:
		e.stack = e.stack[:len(e.stack)-1]
	case EventAlias:
		target := e.anchors[ev.Anchor]
		if target == nil {
			return ir.NewError(ir.KindUnresolvedAlias, ev.Loc, "alias to unknown anchor "+ev.Anchor)
		}
		e.add(&yaml.Node{Kind: yaml.AliasNode, Value: ev.Anchor, Alias: target})
	}
	return nil
}

func nodeStyle(ev *Event) yaml.Style {
	var s yaml.Style
	if ev.Tag != "" {
		s |= yaml.TaggedStyle
	}
	if ev.Flow {
		s |= yaml.FlowStyle
	}
	switch ev.Style {
	case SingleQuotedStyle:
		s |= yaml.SingleQuotedStyle
	case DoubleQuotedStyle:
		s |= yaml.DoubleQuotedStyle
	case LiteralStyle:
		s |= yaml.LiteralStyle
	case FoldedStyle:
		s |= yaml.FoldedStyle
	}
	return s
}

func (e *Encoder) add(n *yaml.Node) {
	if n.Anchor != "" {
		e.anchors[n.Anchor] = n
	}
	if len(e.stack) == 0 {
		e.root = n
		return
	}
	parent := e.stack[len(e.stack)-1]
	parent.Content = append(parent.Content, n)
}

func (e *Encoder) writeDocument(ev *Event) error {
	if e.docs == 0 && e.opts.explicitStart {
		if _, err := io.WriteString(e.w, "---\n"); err != nil {
			return ir.WrapError(ir.KindIO, ev.Loc, err)
		}
	}
	e.docs++
	if err := e.ye.Encode(e.root); err != nil {
		return ir.WrapError(ir.KindEmitter, ev.Loc, err)
	}
	return nil
}
