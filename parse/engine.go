package parse

import (
	"errors"
	"io"

	"github.com/signadot/yamlv/debug"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
	"github.com/signadot/yamlv/stream"
	"github.com/signadot/yamlv/token"
)

// engine turns the events of one stream into values, one document at a
// time.
type engine struct {
	r    stream.EventReader
	opts *parseOpts

	started bool
	done    bool
	err     error
	last    token.Location

	// per document
	anchors map[string]*ir.Value
	depth   int
	copied  int
	path    kpath.KPath
}

func newEngine(r stream.EventReader, opts *parseOpts) *engine {
	return &engine{r: r, opts: opts}
}

func (e *engine) next() (*stream.Event, error) {
	ev, err := e.r.ReadEvent()
	if errors.Is(err, io.EOF) {
		return nil, ir.NewError(ir.KindEndOfStream, e.last, "")
	}
	if err != nil {
		return nil, err
	}
	e.last = ev.Loc
	return ev, nil
}

func (e *engine) expect(t stream.EventType) (*stream.Event, error) {
	ev, err := e.next()
	if err != nil {
		return nil, err
	}
	if ev.Type != t {
		return nil, ir.NewError(ir.KindUnexpectedEvent, ev.Loc, "expected "+t.String()+", got "+ev.Type.String())
	}
	return ev, nil
}

// document decodes the next document, returning io.EOF at the end of the
// stream. Errors are sticky.
func (e *engine) document() (*ir.Value, error) {
	if e.err != nil {
		return nil, e.err
	}
	v, err := e.nextDocument()
	if err != nil && err != io.EOF {
		e.err = err
	}
	return v, err
}

func (e *engine) nextDocument() (*ir.Value, error) {
	if e.done {
		return nil, io.EOF
	}
	if !e.started {
		if _, err := e.expect(stream.EventStreamStart); err != nil {
			return nil, err
		}
		e.started = true
	}
	ev, err := e.next()
	if err != nil {
		return nil, err
	}
	switch ev.Type {
	case stream.EventStreamEnd:
		e.done = true
		return nil, io.EOF
	case stream.EventDocumentStart:
	default:
		return nil, ir.NewError(ir.KindUnexpectedEvent, ev.Loc, "expected DocumentStart, got "+ev.Type.String())
	}
	e.anchors = map[string]*ir.Value{}
	e.depth, e.copied, e.path = 0, 0, nil
	root, err := e.next()
	if err != nil {
		return nil, err
	}
	v, err := e.node(root)
	if err != nil {
		return nil, err
	}
	if _, err := e.expect(stream.EventDocumentEnd); err != nil {
		return nil, err
	}
	if debug.Parse() {
		debug.Logf("parsed document at %s: %d values, %d copied by aliases", v.Loc, v.Size(), e.copied)
	}
	return v, nil
}

func (e *engine) fail(err *ir.Error) error {
	if len(err.Path) == 0 && len(e.path) != 0 {
		err = err.WithPath(e.path)
	}
	return err
}

// node decodes the node started by ev.
func (e *engine) node(ev *stream.Event) (*ir.Value, error) {
	var (
		v   *ir.Value
		err error
	)
	switch ev.Type {
	case stream.EventAlias:
		return e.alias(ev)
	case stream.EventScalar:
		v, err = resolveScalar(ev)
	case stream.EventSequenceStart:
		v, err = e.sequence(ev)
	case stream.EventMappingStart:
		v, err = e.mapping(ev)
	default:
		return nil, e.fail(ir.NewError(ir.KindUnexpectedEvent, ev.Loc, "expected a node, got "+ev.Type.String()))
	}
	if err != nil {
		if ie, ok := ir.AsError(err); ok {
			return nil, e.fail(ie)
		}
		return nil, err
	}
	v.Loc = ev.Loc
	if v.Inner != nil {
		v.Inner.Loc = ev.Loc
	}
	if ev.Anchor != "" {
		if debug.Anchors() {
			debug.Logf("anchor %q registered at %s", ev.Anchor, ev.Loc)
		}
		e.anchors[ev.Anchor] = v
	}
	return v, nil
}

// alias copies the value registered for ev's anchor. Anchors are
// registered once their node is complete, so an alias inside its own
// anchored node is unresolved.
func (e *engine) alias(ev *stream.Event) (*ir.Value, error) {
	target := e.anchors[ev.Anchor]
	if target == nil {
		return nil, e.fail(ir.NewError(ir.KindUnresolvedAlias, ev.Loc, "unknown anchor "+quote(ev.Anchor)))
	}
	if e.depth+target.Depth() > e.opts.maxDepth {
		return nil, e.fail(ir.NewError(ir.KindRecursionLimit, ev.Loc, "alias *"+ev.Anchor+" exceeds the nesting limit"))
	}
	e.copied += target.Size()
	if e.copied > e.opts.maxExpansion {
		return nil, e.fail(ir.NewError(ir.KindRepetitionLimit, ev.Loc, "alias *"+ev.Anchor+" exceeds the alias expansion limit"))
	}
	if debug.Anchors() {
		debug.Logf("alias %q expanded at %s", ev.Anchor, ev.Loc)
	}
	res := target.Clone()
	res.Loc = ev.Loc
	return res, nil
}

func (e *engine) enter(ev *stream.Event) error {
	e.depth++
	if e.depth > e.opts.maxDepth {
		return ir.NewError(ir.KindRecursionLimit, ev.Loc, "nesting limit exceeded")
	}
	return nil
}

func (e *engine) sequence(start *stream.Event) (*ir.Value, error) {
	tag, err := collectionTag(start)
	if err != nil {
		return nil, err
	}
	if err := e.enter(start); err != nil {
		return nil, err
	}
	parent := e.path
	var elts []*ir.Value
	for {
		ev, err := e.next()
		if err != nil {
			return nil, err
		}
		if ev.Type == stream.EventSequenceEnd {
			break
		}
		e.path = parent.WithIndex(len(elts))
		v, err := e.node(ev)
		if err != nil {
			return nil, err
		}
		elts = append(elts, v)
	}
	e.path = parent
	e.depth--
	res := ir.FromSlice(elts)
	if tag != "" {
		res = ir.Tagged(tag, res)
	}
	return res, nil
}

func (e *engine) isMergeKey(ev *stream.Event) bool {
	if !e.opts.mergeKeys || ev.Type != stream.EventScalar {
		return false
	}
	switch ev.Tag {
	case ir.TagMerge:
		return true
	case "":
		return ev.Style == stream.PlainStyle && ev.Value == ir.MergeKey
	}
	return false
}

func (e *engine) mapping(start *stream.Event) (*ir.Value, error) {
	tag, err := collectionTag(start)
	if err != nil {
		return nil, err
	}
	if err := e.enter(start); err != nil {
		return nil, err
	}
	parent := e.path
	var (
		entries []ir.Entry
		// explicit keys, mapped to their index in entries
		seen   = ir.NewMapping()
		merges = 0
	)
	for {
		kev, err := e.next()
		if err != nil {
			return nil, err
		}
		if kev.Type == stream.EventMappingEnd {
			break
		}
		merge := e.isMergeKey(kev)
		e.path = parent
		k, err := e.node(kev)
		if err != nil {
			return nil, err
		}
		if s, ok := k.AsStr(); ok {
			e.path = parent.WithField(s)
		} else {
			e.path = parent.WithUnknown()
		}
		vev, err := e.next()
		if err != nil {
			return nil, err
		}
		v, err := e.node(vev)
		if err != nil {
			return nil, err
		}
		if merge {
			merges++
			entries = append(entries, ir.Entry{Key: k, Value: v, Merge: true})
			continue
		}
		if prev, dup := seen.Get(k); dup {
			i, _ := prev.AsI64()
			switch e.duplicate(k, entries[i].Value, v, kev.Loc) {
			case DuplicateFirstWins:
			case DuplicateLastWins:
				entries[i].Value = v
			default:
				return nil, e.fail(ir.NewError(ir.KindDuplicateMapKey, kev.Loc, "duplicate key "+describeKey(k)))
			}
			continue
		}
		seen.Insert(k, ir.FromInt(int64(len(entries))))
		entries = append(entries, ir.Entry{Key: k, Value: v})
	}
	e.path = parent
	e.depth--
	m, err := ir.MergeEntries(entries)
	if err != nil {
		if me, ok := ir.AsError(err); ok {
			e.path = parent.WithField(ir.MergeKey)
			err = e.fail(me)
			e.path = parent
		}
		return nil, err
	}
	if merges != 0 && debug.Parse() {
		debug.Logf("merged %d sources into mapping at %s", merges, start.Loc)
	}
	res := ir.FromMapping(m)
	if tag != "" {
		res = ir.Tagged(tag, res)
	}
	return res, nil
}

func (e *engine) duplicate(k, first, second *ir.Value, loc token.Location) DuplicateKeyAction {
	if e.opts.onDuplicate == nil {
		return DuplicateError
	}
	return e.opts.onDuplicate(&DuplicateKey{
		Key:    k,
		First:  first,
		Second: second,
		Loc:    loc,
		Path:   e.path,
	})
}

func describeKey(k *ir.Value) string {
	if s, ok := k.AsStr(); ok {
		return quote(s)
	}
	if k.Kind() <= ir.NumberType {
		d, err := k.MarshalJSON()
		if err == nil {
			return string(d)
		}
	}
	return "of type " + k.Kind().String()
}
