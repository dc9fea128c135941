package parse

import (
	"bytes"
	"io"

	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/stream"
)

// Decoder decodes the documents of a YAML stream one at a time.
type Decoder struct {
	e *engine
}

// NewDecoder creates a Decoder reading YAML text from r.
func NewDecoder(r io.Reader, opts ...ParseOption) *Decoder {
	pOpts := defaultParseOpts()
	for _, f := range opts {
		f(pOpts)
	}
	return &Decoder{e: newEngine(stream.NewDecoder(r, pOpts.streamOpts...), pOpts)}
}

// NewEventDecoder creates a Decoder reading events from r.
func NewEventDecoder(r stream.EventReader, opts ...ParseOption) *Decoder {
	pOpts := defaultParseOpts()
	for _, f := range opts {
		f(pOpts)
	}
	return &Decoder{e: newEngine(r, pOpts)}
}

// Decode returns the next document of the stream, or io.EOF when there
// are no more. After an error, Decode keeps returning it.
func (d *Decoder) Decode() (*ir.Value, error) {
	return d.e.document()
}

// Parse parses a single YAML document. Empty input gives a null value and
// input with more than one document is an error.
func Parse(d []byte, opts ...ParseOption) (*ir.Value, error) {
	dec := NewDecoder(bytes.NewReader(d), opts...)
	res, err := dec.Decode()
	if err == io.EOF {
		return ir.Null(), nil
	}
	if err != nil {
		return nil, err
	}
	extra, err := dec.Decode()
	if err == io.EOF {
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, ir.NewError(ir.KindMessage, extra.Loc, "expected a single document, found another")
}

// ParseAll parses every document of a YAML stream.
func ParseAll(d []byte, opts ...ParseOption) ([]*ir.Value, error) {
	dec := NewDecoder(bytes.NewReader(d), opts...)
	var res []*ir.Value
	for {
		v, err := dec.Decode()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
}

// ParseEvents parses the single document held by a complete event stream.
func ParseEvents(events []stream.Event, opts ...ParseOption) (*ir.Value, error) {
	dec := NewEventDecoder(stream.NewSliceReader(events), opts...)
	res, err := dec.Decode()
	if err == io.EOF {
		return ir.Null(), nil
	}
	return res, err
}
