package encode

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/signadot/yamlv/debug"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
	"github.com/signadot/yamlv/stream"
)

type EncState struct {
	indent        int
	compact       bool
	explicitStart bool

	path kpath.KPath
}

func newEncState(opts []EncodeOption) *EncState {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// Encode writes v to w as a single document.
func Encode(v *ir.Value, w io.Writer, opts ...EncodeOption) error {
	return EncodeAll([]*ir.Value{v}, w, opts...)
}

// EncodeAll writes each value of vs as a document of one stream.
func EncodeAll(vs []*ir.Value, w io.Writer, opts ...EncodeOption) error {
	es := newEncState(opts)
	return encodeStream(vs, stream.NewEncoder(w, es.streamOptions()...), es)
}

// Encoder writes a stream of documents, one per call to Encode.
type Encoder struct {
	es      *EncState
	sink    *stream.Encoder
	started bool
}

func NewEncoder(w io.Writer, opts ...EncodeOption) *Encoder {
	es := newEncState(opts)
	return &Encoder{es: es, sink: stream.NewEncoder(w, es.streamOptions()...)}
}

// Encode writes v as the next document. Documents after the first are
// preceded by "---".
func (e *Encoder) Encode(v *ir.Value) error {
	if !e.started {
		if err := e.sink.WriteEvent(&stream.Event{Type: stream.EventStreamStart}); err != nil {
			return err
		}
		e.started = true
	}
	return e.es.document(v, e.sink)
}

// Close ends the stream. It writes nothing if no document was encoded.
func (e *Encoder) Close() error {
	if !e.started {
		return nil
	}
	return e.sink.WriteEvent(&stream.Event{Type: stream.EventStreamEnd})
}

// Events returns the event stream of the single document v.
func Events(v *ir.Value, opts ...EncodeOption) ([]stream.Event, error) {
	c := &stream.Collector{}
	if err := encodeStream([]*ir.Value{v}, c, newEncState(opts)); err != nil {
		return nil, err
	}
	return c.Events, nil
}

// EncodeString is Encode to a string.
func EncodeString(v *ir.Value, opts ...EncodeOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(v, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MustString encodes v, panicking on error, with surrounding space
// trimmed.
func MustString(v *ir.Value) string {
	s, err := EncodeString(v)
	if err != nil {
		panic(err)
	}
	return strings.TrimSpace(s)
}

func encodeStream(vs []*ir.Value, sink stream.EventSink, es *EncState) error {
	if err := sink.WriteEvent(&stream.Event{Type: stream.EventStreamStart}); err != nil {
		return err
	}
	for _, v := range vs {
		if err := es.document(v, sink); err != nil {
			return err
		}
	}
	return sink.WriteEvent(&stream.Event{Type: stream.EventStreamEnd})
}

func (es *EncState) document(v *ir.Value, sink stream.EventSink) error {
	if err := sink.WriteEvent(&stream.Event{Type: stream.EventDocumentStart, Implicit: !es.explicitStart}); err != nil {
		return err
	}
	es.path = nil
	if err := ValueEvents(v, sink, es); err != nil {
		return err
	}
	return sink.WriteEvent(&stream.Event{Type: stream.EventDocumentEnd, Implicit: true})
}

// ValueEvents writes the events of the node v to sink. A nil EncState
// uses the defaults.
func ValueEvents(v *ir.Value, sink stream.EventSink, es *EncState) error {
	if es == nil {
		es = newEncState(nil)
	}
	return es.value(v, "", sink)
}

func (es *EncState) fail(v *ir.Value, msg string) error {
	err := ir.NewError(ir.KindEmitter, v.Loc, msg)
	if len(es.path) != 0 {
		err = err.WithPath(es.path)
	}
	return err
}

func (es *EncState) value(v *ir.Value, tag string, sink stream.EventSink) error {
	switch v.Kind() {
	case ir.TaggedType:
		if tag != "" {
			return es.fail(v, "cannot write tag "+v.Tag+" inside tag "+tag)
		}
		if v.Tag == "" {
			return es.fail(v, "empty tag")
		}
		return es.value(v.Inner, v.Tag, sink)
	case ir.NullType:
		return sink.WriteEvent(es.scalar(v, tag, "null", stream.PlainStyle))
	case ir.BoolType:
		text := "false"
		if v.Bool {
			text = "true"
		}
		return sink.WriteEvent(es.scalar(v, tag, text, stream.PlainStyle))
	case ir.NumberType:
		return sink.WriteEvent(es.scalar(v, tag, v.Number.String(), stream.PlainStyle))
	case ir.StringType:
		if !utf8.ValidString(v.String) {
			return es.fail(v, "string is not valid UTF-8")
		}
		style := scalarStyle(v.String)
		if debug.Encode() {
			debug.Logf("string at %s written %s", es.path, style)
		}
		return sink.WriteEvent(es.scalar(v, tag, v.String, style))
	case ir.SequenceType:
		return es.sequence(v, tag, sink)
	case ir.MappingType:
		return es.mapping(v, tag, sink)
	}
	return es.fail(v, "unknown value type "+v.Kind().String())
}

func (es *EncState) scalar(v *ir.Value, tag, text string, style stream.ScalarStyle) *stream.Event {
	return &stream.Event{Type: stream.EventScalar, Loc: v.Loc, Tag: tag, Value: text, Style: style}
}

func (es *EncState) sequence(v *ir.Value, tag string, sink stream.EventSink) error {
	start := &stream.Event{
		Type: stream.EventSequenceStart,
		Loc:  v.Loc,
		Tag:  tag,
		Flow: es.compact || len(v.Sequence) == 0,
	}
	if err := sink.WriteEvent(start); err != nil {
		return err
	}
	parent := es.path
	for i, e := range v.Sequence {
		es.path = parent.WithIndex(i)
		if err := es.value(e, "", sink); err != nil {
			return err
		}
	}
	es.path = parent
	return sink.WriteEvent(&stream.Event{Type: stream.EventSequenceEnd})
}

func (es *EncState) mapping(v *ir.Value, tag string, sink stream.EventSink) error {
	start := &stream.Event{
		Type: stream.EventMappingStart,
		Loc:  v.Loc,
		Tag:  tag,
		Flow: es.compact || v.Mapping.Len() == 0,
	}
	if err := sink.WriteEvent(start); err != nil {
		return err
	}
	parent := es.path
	for k, e := range v.Mapping.All() {
		es.path = parent.WithUnknown()
		if err := es.value(k, "", sink); err != nil {
			return err
		}
		if s, ok := k.AsStr(); ok {
			es.path = parent.WithField(s)
		}
		if err := es.value(e, "", sink); err != nil {
			return err
		}
	}
	es.path = parent
	return sink.WriteEvent(&stream.Event{Type: stream.EventMappingEnd})
}
