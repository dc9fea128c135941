package gomap

import (
	"bytes"
	"io"
	"reflect"

	"github.com/signadot/yamlv/encode"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/parse"
	"github.com/signadot/yamlv/token"
)

// ToValue converts a Go value to a value.
func ToValue(v any, opts ...MapOption) (*ir.Value, error) {
	return newMapper(opts).value(reflect.ValueOf(v))
}

// FromValue converts val into the Go value pointed to by v.
func FromValue(val *ir.Value, v any, opts ...UnmapOption) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ir.NewError(ir.KindMessage, token.Location{}, "destination must be a non-nil pointer, not "+describeType(v))
	}
	return newUnmapper(opts).value(val, rv.Elem())
}

func describeType(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// Marshal converts v to YAML text.
func Marshal(v any, opts ...MapOption) ([]byte, error) {
	m := newMapper(opts)
	val, err := m.value(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(val, buf, m.cfg.EncodeOptions...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the single document d into the Go value pointed to by
// v.
func Unmarshal(d []byte, v any, opts ...UnmapOption) error {
	u := newUnmapper(opts)
	val, err := parse.Parse(d, u.cfg.ParseOptions...)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ir.NewError(ir.KindMessage, token.Location{}, "destination must be a non-nil pointer, not "+describeType(v))
	}
	return u.value(val, rv.Elem())
}

// Decoder reads Go values from a stream of documents.
type Decoder struct {
	d    *parse.Decoder
	opts []UnmapOption
}

func NewDecoder(r io.Reader, opts ...UnmapOption) *Decoder {
	return &Decoder{d: parse.NewDecoder(r, ToParseOptions(opts...)...), opts: opts}
}

// Decode reads the next document into v. It returns io.EOF when there are
// no more documents.
func (d *Decoder) Decode(v any) error {
	val, err := d.d.Decode()
	if err != nil {
		return err
	}
	return FromValue(val, v, d.opts...)
}

// Encoder writes Go values as a stream of documents.
type Encoder struct {
	e    *encode.Encoder
	opts []MapOption
}

func NewEncoder(w io.Writer, opts ...MapOption) *Encoder {
	return &Encoder{e: encode.NewEncoder(w, ToEncodeOptions(opts...)...), opts: opts}
}

// Encode writes v as the next document.
func (e *Encoder) Encode(v any) error {
	val, err := ToValue(v, e.opts...)
	if err != nil {
		return err
	}
	return e.e.Encode(val)
}

// Close ends the stream.
func (e *Encoder) Close() error {
	return e.e.Close()
}
