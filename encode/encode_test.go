package encode

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/parse"
	"github.com/signadot/yamlv/stream"
)

func kv(k string, v *ir.Value) ir.KeyVal {
	return ir.KeyVal{Key: ir.FromString(k), Val: v}
}

func TestScalarStyle(t *testing.T) {
	tests := []struct {
		in   string
		want stream.ScalarStyle
	}{
		{"hello", stream.PlainStyle},
		{"hello world", stream.PlainStyle},
		{"a-b", stream.PlainStyle},
		{"nan", stream.PlainStyle},
		{"", stream.SingleQuotedStyle},
		{"true", stream.SingleQuotedStyle},
		{"~", stream.SingleQuotedStyle},
		{"12", stream.SingleQuotedStyle},
		{"1.5e3", stream.SingleQuotedStyle},
		{".inf", stream.SingleQuotedStyle},
		{"yes", stream.SingleQuotedStyle},
		{"Off", stream.SingleQuotedStyle},
		{"<<", stream.SingleQuotedStyle},
		{"012", stream.SingleQuotedStyle},
		{"1_000", stream.SingleQuotedStyle},
		{"1_0.5", stream.SingleQuotedStyle},
		{"1:20", stream.SingleQuotedStyle},
		{"- item", stream.SingleQuotedStyle},
		{"*ref", stream.SingleQuotedStyle},
		{"a: b", stream.SingleQuotedStyle},
		{"key:", stream.SingleQuotedStyle},
		{"x #y", stream.SingleQuotedStyle},
		{" lead", stream.SingleQuotedStyle},
		{"trail ", stream.SingleQuotedStyle},
		{"line\nbreak", stream.LiteralStyle},
		{"\nlead", stream.DoubleQuotedStyle},
		{"\n\n", stream.DoubleQuotedStyle},
		{"tab\there", stream.DoubleQuotedStyle},
		{"bell\a", stream.DoubleQuotedStyle},
	}
	for _, tc := range tests {
		if got := scalarStyle(tc.in); got != tc.want {
			t.Errorf("scalarStyle(%q) = %s, expected %s", tc.in, got, tc.want)
		}
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		name string
		v    *ir.Value
		opts []EncodeOption
		want string
	}{
		{"null", ir.Null(), nil, "null\n"},
		{"bool", ir.FromBool(true), nil, "true\n"},
		{"float", ir.FromFloat(1), nil, "1.0\n"},
		{"nan", ir.FromFloat(math.NaN()), nil, ".nan\n"},
		{"quoted", ir.FromString("42"), nil, "'42'\n"},
		{"empty string", ir.FromString(""), nil, "''\n"},
		{
			"block",
			ir.FromKeyVals([]ir.KeyVal{
				kv("b", ir.FromInt(1)),
				kv("a", ir.FromSlice([]*ir.Value{ir.FromString("x"), ir.FromString("yes")})),
				kv("e", ir.FromSlice(nil)),
				kv("m", ir.FromMapping(nil)),
			}),
			nil,
			"b: 1\na:\n  - x\n  - 'yes'\ne: []\nm: {}\n",
		},
		{
			"compact",
			ir.FromKeyVals([]ir.KeyVal{
				kv("a", ir.FromInt(1)),
				kv("b", ir.FromSlice([]*ir.Value{ir.FromString("x"), ir.FromUint(math.MaxUint64)})),
			}),
			[]EncodeOption{Compact(true)},
			"{a: 1, b: [x, 18446744073709551615]}\n",
		},
		{
			"tagged scalar",
			ir.FromSlice([]*ir.Value{ir.Tagged("!Celsius", ir.FromString("21.5"))}),
			nil,
			"- !Celsius '21.5'\n",
		},
		{
			"explicit start",
			ir.FromString("doc"),
			[]EncodeOption{ExplicitDocumentStart(true)},
			"---\ndoc\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeString(tc.v, tc.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got\n%s\nexpected\n%s", got, tc.want)
			}
		})
	}
}

func roundTripValues() []*ir.Value {
	strs := []string{
		"", " lead", "trail ", "a: b", "#c", "null", "~", "0x10", "1_000", "1:20",
		"<<", "yes", "012", "@x", "`x", "a\nb", "a\nb\n", "a \nb\n", "  indented\nblock\n",
		"\t", "é", "x\x01y", "'", "\"", "- ", "---", "...", "[x]", "{y}", "|", ">", "%x",
		"it's", "new\r\nline", "a\n\n\nb\n\n",
		"\na", "\n", "\n\n", "\n\na\n",
	}
	var seq []*ir.Value
	for _, s := range strs {
		seq = append(seq, ir.FromString(s))
	}
	return []*ir.Value{
		ir.Null(),
		ir.FromString("plain"),
		ir.FromSlice(seq),
		ir.FromKeyVals([]ir.KeyVal{
			kv("ints", ir.FromSlice([]*ir.Value{ir.FromInt(math.MinInt64), ir.FromUint(math.MaxUint64), ir.FromInt(0)})),
			kv("floats", ir.FromSlice([]*ir.Value{
				ir.FromFloat(0.1), ir.FromFloat(1e300), ir.FromFloat(-2.5e-8), ir.FromFloat(math.Inf(1)),
				ir.FromFloat(math.NaN()), ir.FromFloat(100),
			})),
			kv("bools", ir.FromSlice([]*ir.Value{ir.FromBool(true), ir.FromBool(false)})),
			kv("nested", ir.FromKeyVals([]ir.KeyVal{
				kv("deeper", ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromSlice([]*ir.Value{ir.FromSlice(nil)}))})),
			})),
			{Key: ir.FromInt(7), Val: ir.FromString("int key")},
			{Key: ir.Null(), Val: ir.FromString("null key")},
			{Key: ir.FromSlice([]*ir.Value{ir.FromInt(1), ir.FromInt(2)}), Val: ir.FromString("sequence key")},
			kv("multi\nline key", ir.FromBool(true)),
			kv("tagged", ir.Tagged("!Point", ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromInt(1))}))),
			kv("tagged seq", ir.Tagged("!Pair", ir.FromSlice([]*ir.Value{ir.FromInt(1), ir.FromString("2")}))),
			kv("tagged null", ir.Tagged("!None", ir.Null())),
			kv("binary", ir.Tagged(ir.TagBinary, ir.FromString("aGk="))),
			kv("<<", ir.FromString("not a merge")),
		}),
	}
}

func TestRoundTrip(t *testing.T) {
	for i, v := range roundTripValues() {
		for _, compact := range []bool{false, true} {
			text, err := EncodeString(v, Compact(compact))
			if err != nil {
				t.Fatalf("%d: %v", i, err)
			}
			back, err := parse.Parse([]byte(text))
			if err != nil {
				t.Fatalf("%d: parse %q: %v", i, text, err)
			}
			if !ir.Equal(v, back) {
				t.Errorf("%d (compact %t): round trip through\n%s\ngave a different value", i, compact, text)
			}
		}
	}
}

func TestEncodeAll(t *testing.T) {
	buf := &bytes.Buffer{}
	vs := []*ir.Value{
		ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromInt(1))}),
		ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromInt(2))}),
	}
	if err := EncodeAll(vs, buf); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "a: 1\n---\na: 2\n"; got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
	back, err := parse.ParseAll(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || !ir.Equal(back[1], vs[1]) {
		t.Errorf("unexpected documents")
	}
}

func TestNoAnchors(t *testing.T) {
	v, err := parse.Parse([]byte("a: &x {k: v}\nb: *x\n"))
	if err != nil {
		t.Fatal(err)
	}
	evs, err := Events(v)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for i := range evs {
		if evs[i].Anchor != "" || evs[i].Type == stream.EventAlias {
			t.Errorf("event %s carries an anchor", evs[i].String())
		}
		got = append(got, evs[i].String())
	}
	want := []string{
		"+STR", "+DOC", "+MAP", "=VAL :a", "+MAP", "=VAL :k", "=VAL :v", "-MAP",
		"=VAL :b", "+MAP", "=VAL :k", "=VAL :v", "-MAP", "-MAP", "-DOC", "-STR",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestEncodeErrors(t *testing.T) {
	nested := ir.FromKeyVals([]ir.KeyVal{
		kv("x", ir.FromSlice([]*ir.Value{ir.Tagged("!A", ir.Tagged("!B", ir.FromInt(1)))})),
	})
	_, err := EncodeString(nested)
	e, ok := ir.AsError(err)
	if !ok || !errors.Is(err, ir.ErrEmitter) {
		t.Fatalf("got %v", err)
	}
	if e.Path.String() != "x[0]" {
		t.Errorf("error path %s", e.Path)
	}
	if _, err := EncodeString(ir.FromString("bad\xffutf8")); !errors.Is(err, ir.ErrEmitter) {
		t.Errorf("invalid utf-8: %v", err)
	}
}

func TestMustString(t *testing.T) {
	v := ir.FromKeyVals([]ir.KeyVal{kv("k", ir.FromString("v"))})
	if got := MustString(v); got != "k: v" {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(MustString(ir.FromString("multi\nline")), "|") {
		t.Errorf("expected a literal block")
	}
}

func TestEncoder(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	enc := NewEncoder(buf, ExplicitDocumentStart(true))
	for _, v := range []*ir.Value{ir.FromInt(1), ir.FromSlice([]*ir.Value{ir.FromString("x")})} {
		if err := enc.Encode(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "---\n1\n---\n- x\n"; got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
}
