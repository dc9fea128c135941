package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/yamlv/encode"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/parse"
	"github.com/signadot/yamlv/stream"
	"github.com/signadot/yamlv/token"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		cfg  MainConfig
		in   string
		want string
	}{
		{"block", MainConfig{}, "a:   1\nb: [x,  y]\n", "a: 1\nb:\n  - x\n  - 'y'\n"},
		{"compact", MainConfig{Compact: true}, "a: 1\nb:\n - x\n", "{a: 1, b: [x]}\n"},
		{"documents", MainConfig{}, "a: 1\n---\nb: 2\n", "a: 1\n---\nb: 2\n"},
		{"merge", MainConfig{}, "base: &b {x: 1}\nuse:\n  <<: *b\n", "base:\n  x: 1\nuse:\n  x: 1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalize(&tc.cfg, []byte(tc.in))
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tc.want {
				t.Errorf("got %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeError(t *testing.T) {
	_, err := normalize(&MainConfig{}, []byte("a: 1\na: 2\n"))
	if _, ok := ir.AsError(err); !ok {
		t.Errorf("expected a duplicate key error, got %v", err)
	}
}

func TestDecodeAll(t *testing.T) {
	var got []string
	err := (&MainConfig{}).decodeAll("x", strings.NewReader("1\n---\n[a]\n"), func(arg string, v *ir.Value) error {
		got = append(got, arg+":"+encode.MustString(v))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"x:1", "x:- a"}, got); diff != "" {
		t.Errorf("unexpected documents (-want +got):\n%s", diff)
	}
	err = (&MainConfig{}).decodeAll("bad.yaml", strings.NewReader("a: [\n"), func(string, *ir.Value) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("got %v", err)
	}
}

func TestParsePath(t *testing.T) {
	doc, err := parse.Parse([]byte("a:\n  b: [x, y]\n"))
	if err != nil {
		t.Fatal(err)
	}
	for in, want := range map[string]string{
		"a.b[1]":  "'y'",
		".a.b[0]": "x",
		".":       "{a: {b: [x, 'y']}}",
	} {
		p, err := parsePath(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		got, err := encode.EncodeString(doc.GetPath(p), encode.Compact(true))
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(got) != want {
			t.Errorf("%q: got %q, expected %q", in, got, want)
		}
	}
	if _, err := parsePath("a..b"); err == nil {
		t.Errorf("expected error")
	}
	if p, _ := parsePath("a.c"); doc.GetPath(p) != nil {
		t.Errorf("expected a missing path")
	}
}

func TestWriteDiff(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	changed, err := writeDiff(buf, "a: 1\nb: 2\nc: 3\n", "a: 1\nb: 4\nc: 3\n", newPalette(false))
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Errorf("expected a change")
	}
	want := " a: 1\n-b: 2\n+b: 4\n c: 3\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, expected %q", got, want)
	}

	buf.Reset()
	changed, err = writeDiff(buf, "x\n", "x\n", newPalette(true))
	if err != nil || changed {
		t.Errorf("got %v, %v for equal texts", changed, err)
	}
	if got := buf.String(); got != " x\n" {
		t.Errorf("got %q", got)
	}

	buf.Reset()
	if _, err := writeDiff(buf, "x\n", "y\n", newPalette(true)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected colored output, got %q", buf.String())
	}
}

func TestApplyPatch(t *testing.T) {
	doc, err := parse.Parse([]byte("name: a\nports: [80, 443]\nmeta: {x: 1}\n"))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		patch string
		merge bool
		want  string
	}{
		{
			"json patch",
			`[{"op": "replace", "path": "/name", "value": "b"}, {"op": "add", "path": "/ports/-", "value": 8080}]`,
			false,
			"{meta: {x: 1}, name: b, ports: [80, 443, 8080]}\n",
		},
		{
			"merge patch",
			`{"meta": {"x": null, "y": true}}`,
			true,
			"{meta: {'y': true}, name: a, ports: [80, 443]}\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := applyPatch(doc, []byte(tc.patch), tc.merge)
			if err != nil {
				t.Fatal(err)
			}
			got, err := encode.EncodeString(res, encode.Compact(true))
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %q, expected %q", got, tc.want)
			}
		})
	}
	if _, err := applyPatch(doc, []byte(`[{"op": "remove", "path": "/missing"}]`), false); err == nil {
		t.Errorf("expected an error removing a missing key")
	}
	if _, err := applyPatch(ir.FromFloat(math.Inf(1)), []byte(`{}`), true); err == nil {
		t.Errorf("expected an error for a document with no JSON form")
	}
}

func TestWriteEvents(t *testing.T) {
	evs := []stream.Event{
		{Type: stream.EventStreamStart},
		{Type: stream.EventDocumentStart, Implicit: true, Loc: token.Location{Line: 1, Column: 1}},
		{Type: stream.EventMappingStart, Loc: token.Location{Line: 1, Column: 1}},
		{Type: stream.EventScalar, Value: "a", Loc: token.Location{Line: 1, Column: 1}},
		{Type: stream.EventAlias, Anchor: "x", Loc: token.Location{Index: 3, Line: 1, Column: 4}},
		{Type: stream.EventMappingEnd},
		{Type: stream.EventDocumentEnd, Implicit: true},
		{Type: stream.EventStreamEnd},
	}
	buf := bytes.NewBuffer(nil)
	if err := writeEvents(buf, stream.NewSliceReader(evs), newPalette(false), true); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"+STR",
		"+DOC\tline 1 column 1",
		"+MAP\tline 1 column 1",
		"=VAL :a\tline 1 column 1",
		"=ALI *x\tline 1 column 4",
		"-MAP",
		"-DOC",
		"-STR",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}
}
