package stream

import "io"

// EventReader provides events from a source. ReadEvent returns io.EOF after
// the last event.
type EventReader interface {
	ReadEvent() (*Event, error)
}

// EventSink receives events.
type EventSink interface {
	WriteEvent(*Event) error
}

// SliceReader reads events from a slice.
type SliceReader struct {
	events []Event
	i      int
}

func NewSliceReader(events []Event) *SliceReader {
	return &SliceReader{events: events}
}

func (r *SliceReader) ReadEvent() (*Event, error) {
	if r.i >= len(r.events) {
		return nil, io.EOF
	}
	ev := &r.events[r.i]
	r.i++
	return ev, nil
}

// Collector is an EventSink recording the events it receives.
type Collector struct {
	Events []Event
}

func (c *Collector) WriteEvent(ev *Event) error {
	c.Events = append(c.Events, *ev)
	return nil
}

// ReadAll reads events from r until io.EOF.
func ReadAll(r EventReader) ([]Event, error) {
	var res []Event
	for {
		ev, err := r.ReadEvent()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res = append(res, *ev)
	}
}

// Copy writes every event of r to w, returning the number of events.
func Copy(w EventSink, r EventReader) (int, error) {
	n := 0
	for {
		ev, err := r.ReadEvent()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := w.WriteEvent(ev); err != nil {
			return n, err
		}
		n++
	}
}
