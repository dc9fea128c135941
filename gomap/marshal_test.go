package gomap

import (
	"bytes"
	"errors"
	"io"
	"net/netip"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/yamlv/encode"
	"github.com/signadot/yamlv/ir"
)

type server struct {
	Host string   `yaml:"host"`
	Port int      `yaml:"port,omitempty"`
	Tags []string `yaml:"tags"`
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		opts []MapOption
		want string
	}{
		{"struct", server{Host: "h", Tags: []string{"a", "b"}}, nil, "host: h\ntags:\n  - a\n  - b\n"},
		{"nil slice", server{Host: "h", Port: 80}, nil, "host: h\nport: 80\ntags: []\n"},
		{"omit empty", server{}, []MapOption{OmitEmpty()}, "{}\n"},
		{"compact", server{Host: "h", Tags: []string{"a"}}, []MapOption{WithEncodeOptions(encode.Compact(true))}, "{host: h, tags: [a]}\n"},
		{"sorted map", map[string]int{"b": 2, "a": 1, "c": 3}, nil, "a: 1\nb: 2\nc: 3\n"},
		{"int keys", map[int]string{2: "b", 1: "a"}, nil, "1: a\n2: b\n"},
		{"quoted strings", []string{"true", "42", "", "plain"}, nil, "- 'true'\n- '42'\n- ''\n- plain\n"},
		{"float32", struct{ F float32 }{0.1}, nil, "F: 0.1\n"},
		{"bytes", struct{ Data []byte }{[]byte("hi")}, nil, "Data: !!binary aGk=\n"},
		{"nil pointer", struct{ P *int }{}, nil, "P: null\n"},
		{"text", struct {
			Addr netip.Addr `yaml:"addr"`
		}{netip.MustParseAddr("10.0.0.1")}, nil, "addr: 10.0.0.1\n"},
		{"value field", struct{ V *ir.Value }{ir.FromSlice([]*ir.Value{ir.FromInt(1)})}, nil, "V:\n  - 1\n"},
		{"empty struct", struct{}{}, nil, "null\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Marshal(tc.in, tc.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if got := string(d); got != tc.want {
				t.Errorf("got %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestUnmarshal(t *testing.T) {
	var s server
	if err := Unmarshal([]byte("host: example.com\nport: 8080\ntags: [a, b]\n"), &s); err != nil {
		t.Fatal(err)
	}
	want := server{Host: "example.com", Port: 8080, Tags: []string{"a", "b"}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}

	var x any
	if err := Unmarshal([]byte("a: [1, x, ~]\nb: {c: 1.5}\n"), &x); err != nil {
		t.Fatal(err)
	}
	wantAny := map[string]any{
		"a": []any{int64(1), "x", nil},
		"b": map[string]any{"c": 1.5},
	}
	if diff := cmp.Diff(wantAny, x); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}

	var m map[int]string
	if err := Unmarshal([]byte("1: a\n2: b\n"), &m); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[int]string{1: "a", 2: "b"}, m); diff != "" {
		t.Errorf("unexpected map (-want +got):\n%s", diff)
	}
}

func TestUnmarshalMergeKeys(t *testing.T) {
	var doc struct {
		Base map[string]int `yaml:"base"`
		Use  map[string]int `yaml:"use"`
	}
	in := "base: &b {a: 1, c: 9}\nuse:\n  <<: *b\n  c: 2\n"
	if err := Unmarshal([]byte(in), &doc); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "c": 2}, doc.Use); diff != "" {
		t.Errorf("unexpected merge (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRoundTrip(t *testing.T) {
	type inner struct {
		Addr  netip.Addr `yaml:"addr"`
		Data  []byte     `yaml:"data"`
		Ratio float32    `yaml:"ratio"`
	}
	type outer struct {
		Name   string            `yaml:"name"`
		Inner  *inner            `yaml:"inner"`
		Counts map[string]uint16 `yaml:"counts"`
		Grid   [2][2]int         `yaml:"grid"`
		Any    any               `yaml:"any"`
	}
	in := outer{
		Name:   "yes",
		Inner:  &inner{Addr: netip.MustParseAddr("::1"), Data: []byte{0, 1, 255}, Ratio: 0.3},
		Counts: map[string]uint16{"x": 65535},
		Grid:   [2][2]int{{1, 2}, {3, 4}},
		Any:    []any{"a", int64(-1), true},
	}
	d, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out outer
	if err := Unmarshal(d, &out); err != nil {
		t.Fatalf("%v in\n%s", err, d)
	}
	if diff := cmp.Diff(in, out, cmp.Comparer(func(a, b netip.Addr) bool { return a == b })); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, d)
	}
}

func TestUnmarshalMultipleDocuments(t *testing.T) {
	var m map[string]int
	err := Unmarshal([]byte("a: 1\n---\na: 2\n"), &m)
	if !errors.Is(err, ir.ErrMessage) {
		t.Errorf("expected a message error, got %v", err)
	}
}

func TestDestination(t *testing.T) {
	var s server
	for _, dst := range []any{nil, s, (*server)(nil)} {
		if err := Unmarshal([]byte("host: x"), dst); err == nil {
			t.Errorf("Unmarshal into %T: expected error", dst)
		}
		if err := FromValue(ir.Null(), dst); err == nil {
			t.Errorf("FromValue into %T: expected error", dst)
		}
	}
}

func TestDecoder(t *testing.T) {
	dec := NewDecoder(strings.NewReader("a: 1\n---\na: 2\n---\nb: x\n"))
	var got []map[string]int
	for {
		var m map[string]int
		err := dec.Decode(&m)
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(got) != 2 {
				t.Fatalf("document %d: %v", len(got), err)
			}
			var te *TypeError
			if !errors.As(err, &te) {
				t.Errorf("expected a TypeError, got %v", err)
			}
			break
		}
		got = append(got, m)
	}
	want := []map[string]int{{"a": 1}, {"a": 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected documents (-want +got):\n%s", diff)
	}
}

func TestEncoder(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	enc := NewEncoder(buf)
	for _, v := range []map[string]int{{"a": 1}, {"a": 2}} {
		if err := enc.Encode(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "a: 1\n---\na: 2\n"; got != want {
		t.Errorf("got %q, expected %q", got, want)
	}

	empty := bytes.NewBuffer(nil)
	if err := NewEncoder(empty).Close(); err != nil || empty.Len() != 0 {
		t.Errorf("empty stream wrote %q, %v", empty.String(), err)
	}
}

func TestOptionExtraction(t *testing.T) {
	if n := len(ToEncodeOptions(OmitEmpty(), WithEncodeOptions(encode.Indent(4), encode.Compact(true)))); n != 2 {
		t.Errorf("got %d encode options, expected 2", n)
	}
	if n := len(ToParseOptions(DenyUnknownFields())); n != 0 {
		t.Errorf("got %d parse options, expected 0", n)
	}
}
