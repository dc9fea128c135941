package stream

import (
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
)

type phase int

const (
	phaseInit phase = iota
	phaseStream
	phaseDocument
	phaseDone
)

// State tracks the nesting and structural path of an event stream and
// checks that events arrive in a valid order.
type State struct {
	phase    phase
	rootSeen bool
	stack    []item
}

type item struct {
	mapping bool
	n       int
	seg     kpath.Segment
}

// NewState creates a new State for tracking structure state.
func NewState() *State {
	return &State{}
}

func (s *State) current() *item {
	return &s.stack[len(s.stack)-1]
}

func unexpected(ev *Event, msg string) error {
	return ir.NewError(ir.KindUnexpectedEvent, ev.Loc, "unexpected "+ev.Type.String()+": "+msg)
}

// ProcessEvent processes an event and updates state/path tracking.
// Call this for each event in order.
func (s *State) ProcessEvent(ev *Event) error {
	switch ev.Type {
	case EventStreamStart:
		if s.phase != phaseInit {
			return unexpected(ev, "stream already started")
		}
		s.phase = phaseStream
	case EventStreamEnd:
		if s.phase != phaseStream {
			return unexpected(ev, "not between documents")
		}
		s.phase = phaseDone
	case EventDocumentStart:
		if s.phase != phaseStream {
			return unexpected(ev, "not between documents")
		}
		s.phase = phaseDocument
		s.rootSeen = false
	case EventDocumentEnd:
		if s.phase != phaseDocument || len(s.stack) != 0 {
			return unexpected(ev, "document not complete")
		}
		if !s.rootSeen {
			return unexpected(ev, "document has no content")
		}
		s.phase = phaseStream
	case EventScalar, EventAlias, EventSequenceStart, EventMappingStart:
		if err := s.node(ev); err != nil {
			return err
		}
		switch ev.Type {
		case EventSequenceStart:
			s.stack = append(s.stack, item{})
		case EventMappingStart:
			s.stack = append(s.stack, item{mapping: true})
		}
	case EventSequenceEnd:
		if len(s.stack) == 0 || s.current().mapping {
			return unexpected(ev, "not in a sequence")
		}
		s.stack = s.stack[:len(s.stack)-1]
	case EventMappingEnd:
		if len(s.stack) == 0 || !s.current().mapping {
			return unexpected(ev, "not in a mapping")
		}
		if s.current().n%2 != 0 {
			return unexpected(ev, "mapping key without value")
		}
		s.stack = s.stack[:len(s.stack)-1]
	default:
		return unexpected(ev, "unknown event type")
	}
	return nil
}

func (s *State) node(ev *Event) error {
	if s.phase != phaseDocument {
		return unexpected(ev, "not in a document")
	}
	if len(s.stack) == 0 {
		if s.rootSeen {
			return unexpected(ev, "document already has content")
		}
		s.rootSeen = true
		return nil
	}
	cur := s.current()
	switch {
	case !cur.mapping:
		cur.seg = kpath.Segment{Kind: kpath.IndexEntry, Index: cur.n}
	case cur.n%2 == 0:
		if ev.Type == EventScalar {
			cur.seg = kpath.Segment{Kind: kpath.FieldEntry, Field: ev.Value}
		} else {
			cur.seg = kpath.Segment{Kind: kpath.UnknownEntry}
		}
	}
	cur.n++
	return nil
}

// Depth returns the current nesting depth (0 = top level).
func (s *State) Depth() int {
	return len(s.stack)
}

// InDocument reports whether a document has been started and not ended.
func (s *State) InDocument() bool {
	return s.phase == phaseDocument
}

// IsInMapping returns true if currently inside a mapping.
func (s *State) IsInMapping() bool {
	return len(s.stack) != 0 && s.current().mapping
}

// IsInSequence returns true if currently inside a sequence.
func (s *State) IsInSequence() bool {
	return len(s.stack) != 0 && !s.current().mapping
}

// AtKey reports whether the next node is a mapping key.
func (s *State) AtKey() bool {
	return s.IsInMapping() && s.current().n%2 == 0
}

// Path returns the structural path of the most recent node.
func (s *State) Path() kpath.KPath {
	var res kpath.KPath
	for i := range s.stack {
		it := &s.stack[i]
		if it.n == 0 {
			break
		}
		res = append(res, it.seg)
	}
	return res
}
