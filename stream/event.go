package stream

import (
	"fmt"
	"strings"

	"github.com/signadot/yamlv/token"
)

// Event is one event of a YAML event stream.
type Event struct {
	Type EventType
	Loc  token.Location

	// Tag is the explicit tag of a Scalar, SequenceStart or MappingStart,
	// or "" when the node has none.
	Tag string
	// Anchor is the anchor defined by a Scalar, SequenceStart or
	// MappingStart, or the anchor referenced by an Alias.
	Anchor string

	// Value and Style apply to Scalar events.
	Value string
	Style ScalarStyle

	// Flow applies to SequenceStart and MappingStart.
	Flow bool

	// Implicit applies to DocumentStart and DocumentEnd: the document
	// marker was not written.
	Implicit      bool
	TagDirectives []TagDirective
}

// TagDirective is a %TAG directive.
type TagDirective struct {
	Handle string
	Prefix string
}

// IsNodeStart reports whether e starts a node: a scalar, an alias or a
// collection.
func (e *Event) IsNodeStart() bool {
	switch e.Type {
	case EventScalar, EventAlias, EventSequenceStart, EventMappingStart:
		return true
	}
	return false
}

// String renders e in the notation of the YAML test suite, for example
// "+MAP {} &a", "=VAL !!int :12" or "=ALI *a".
func (e *Event) String() string {
	b := &strings.Builder{}
	switch e.Type {
	case EventStreamStart:
		return "+STR"
	case EventStreamEnd:
		return "-STR"
	case EventDocumentStart:
		if e.Implicit {
			return "+DOC"
		}
		return "+DOC ---"
	case EventDocumentEnd:
		if e.Implicit {
			return "-DOC"
		}
		return "-DOC ..."
	case EventSequenceEnd:
		return "-SEQ"
	case EventMappingEnd:
		return "-MAP"
	case EventAlias:
		return "=ALI *" + e.Anchor
	case EventSequenceStart:
		b.WriteString("+SEQ")
		if e.Flow {
			b.WriteString(" []")
		}
	case EventMappingStart:
		b.WriteString("+MAP")
		if e.Flow {
			b.WriteString(" {}")
		}
	case EventScalar:
		b.WriteString("=VAL")
	default:
		return e.Type.String()
	}
	if e.Anchor != "" {
		b.WriteString(" &")
		b.WriteString(e.Anchor)
	}
	if e.Tag != "" {
		b.WriteString(" <")
		b.WriteString(e.Tag)
		b.WriteString(">")
	}
	if e.Type == EventScalar {
		b.WriteByte(' ')
		b.WriteByte(e.Style.indicator())
		r := strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\t", "\\t", "\r", "\\r", "\b", "\\b")
		b.WriteString(r.Replace(e.Value))
	}
	return b.String()
}

// EventType represents the type of an event.
type EventType int

const (
	EventStreamStart EventType = iota
	EventStreamEnd
	EventDocumentStart
	EventDocumentEnd
	EventScalar
	EventSequenceStart
	EventSequenceEnd
	EventMappingStart
	EventMappingEnd
	EventAlias
)

var eventTypeNames = map[EventType]string{
	EventStreamStart:   "StreamStart",
	EventStreamEnd:     "StreamEnd",
	EventDocumentStart: "DocumentStart",
	EventDocumentEnd:   "DocumentEnd",
	EventScalar:        "Scalar",
	EventSequenceStart: "SequenceStart",
	EventSequenceEnd:   "SequenceEnd",
	EventMappingStart:  "MappingStart",
	EventMappingEnd:    "MappingEnd",
	EventAlias:         "Alias",
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(d []byte) error {
	for et, name := range eventTypeNames {
		if name == string(d) {
			*t = et
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", d)
}

// ScalarStyle is the presentation style of a scalar.
type ScalarStyle int

const (
	// AnyStyle lets the emitter choose.
	AnyStyle ScalarStyle = iota
	PlainStyle
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
)

var styleNames = [...]string{
	AnyStyle:          "any",
	PlainStyle:        "plain",
	SingleQuotedStyle: "single",
	DoubleQuotedStyle: "double",
	LiteralStyle:      "literal",
	FoldedStyle:       "folded",
}

func (s ScalarStyle) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "unknown"
	}
	return styleNames[s]
}

func (s ScalarStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ScalarStyle) UnmarshalText(d []byte) error {
	for i, name := range styleNames {
		if name == string(d) {
			*s = ScalarStyle(i)
			return nil
		}
	}
	return fmt.Errorf("unknown scalar style %q", d)
}

// IsQuoted reports whether s is one of the quoted or block styles, which
// always produce strings.
func (s ScalarStyle) IsQuoted() bool {
	return s >= SingleQuotedStyle
}

func (s ScalarStyle) indicator() byte {
	switch s {
	case SingleQuotedStyle:
		return '\''
	case DoubleQuotedStyle:
		return '"'
	case LiteralStyle:
		return '|'
	case FoldedStyle:
		return '>'
	}
	return ':'
}
