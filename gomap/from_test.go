package gomap

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
)

type replicaSpec struct {
	Replicas int `yaml:"replicas"`
}

type deployment struct {
	Spec replicaSpec `yaml:"spec"`
}

func TestQuotedNumberIsNotAnInt(t *testing.T) {
	var d deployment
	if err := Unmarshal([]byte("spec:\n  replicas: 42\n"), &d); err != nil {
		t.Fatal(err)
	}
	if d.Spec.Replicas != 42 {
		t.Errorf("got %d replicas", d.Spec.Replicas)
	}

	err := Unmarshal([]byte("spec:\n  replicas: \"42\"\n"), &d)
	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("expected a TypeError, got %v", err)
	}
	if te.Expected != "int" || te.Actual != "string" {
		t.Errorf("expected int, actual string; got %s, %s", te.Expected, te.Actual)
	}
	if got := te.Err.Path.String(); got != "spec.replicas" {
		t.Errorf("got path %q", got)
	}
	if te.Err.Loc.Line != 2 || te.Err.Loc.Column != 13 {
		t.Errorf("got location %s", te.Err.Loc)
	}
	want := `spec.replicas: cannot read string "42" into int at line 2 column 13`
	if err.Error() != want {
		t.Errorf("got %q, expected %q", err.Error(), want)
	}
}

func TestNumberConversions(t *testing.T) {
	tests := []struct {
		in      string
		target  any
		invalid bool
	}{
		{"300", new(int8), true},
		{"-1", new(uint), true},
		{"18446744073709551615", new(int64), true},
		{"9007199254740993", new(float64), true},
		{"1e39", new(float32), true},
		{"1.5", new(int), false},
		{"true", new(float64), false},
		{"x", new(uint8), false},
	}
	for _, tc := range tests {
		err := Unmarshal([]byte(tc.in), tc.target)
		if err == nil {
			t.Errorf("%s into %T: expected error", tc.in, tc.target)
			continue
		}
		if got := errors.Is(err, ir.ErrInvalidNumber); got != tc.invalid {
			t.Errorf("%s into %T: invalid number %v, expected %v (%v)", tc.in, tc.target, got, tc.invalid, err)
		}
		var te *TypeError
		if got := errors.As(err, &te); got == tc.invalid {
			t.Errorf("%s into %T: type error %v (%v)", tc.in, tc.target, got, err)
		}
	}

	var ok struct {
		U uint64  `yaml:"u"`
		I int16   `yaml:"i"`
		F float64 `yaml:"f"`
		G float32 `yaml:"g"`
	}
	if err := Unmarshal([]byte("u: 0xFFFFFFFFFFFFFFFF\ni: -32768\nf: 3\ng: .inf\n"), &ok); err != nil {
		t.Fatal(err)
	}
	if ok.U != 1<<64-1 || ok.I != -32768 || ok.F != 3 || ok.G <= 1e38 {
		t.Errorf("unexpected numbers %+v", ok)
	}
}

func TestTagsAreLookedThrough(t *testing.T) {
	var v struct {
		A string `yaml:"a"`
		B []int  `yaml:"b"`
	}
	if err := Unmarshal([]byte("a: !custom text\nb: !!seq [1]\n"), &v); err != nil {
		t.Fatal(err)
	}
	if v.A != "text" || len(v.B) != 1 {
		t.Errorf("unexpected %+v", v)
	}
}

func TestNullHandling(t *testing.T) {
	var v struct {
		P *int           `yaml:"p"`
		S []int          `yaml:"s"`
		M map[string]int `yaml:"m"`
		A any            `yaml:"a"`
	}
	one := 1
	v.P, v.S, v.M, v.A = &one, []int{1}, map[string]int{"x": 1}, "x"
	if err := Unmarshal([]byte("p: null\ns: ~\nm:\na: null\n"), &v); err != nil {
		t.Fatal(err)
	}
	if v.P != nil || v.S != nil || v.M != nil || v.A != nil {
		t.Errorf("expected nil fields, got %+v", v)
	}
	var n int
	err := Unmarshal([]byte("null"), &n)
	var te *TypeError
	if !errors.As(err, &te) || te.Actual != "null" {
		t.Errorf("null into int: %v", err)
	}
}

func TestUnknownKeys(t *testing.T) {
	type small struct {
		A int `yaml:"a"`
	}
	in := []byte("a: 1\nb: 2\n? [c]\n: 3\n")

	var s small
	var unused []string
	err := Unmarshal(in, &s, OnUnusedKey(func(p kpath.KPath, k *ir.Value) {
		unused = append(unused, fmt.Sprintf("%s %s", p, k.Kind()))
	}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{". string", ". sequence"}, unused); diff != "" {
		t.Errorf("unexpected unused keys (-want +got):\n%s", diff)
	}

	err = Unmarshal(in, &s, DenyUnknownFields())
	e, ok := ir.AsError(err)
	if !ok || e.Path.String() != "b" || e.Loc.Line != 2 {
		t.Errorf("deny unknown fields: %v", err)
	}

	type strictSmall struct {
		A int      `yaml:"a"`
		_ struct{} `yaml:",strict"`
	}
	var ss strictSmall
	err = Unmarshal([]byte("a: 1\nc: 2\n"), &ss)
	if err == nil || !strings.Contains(err.Error(), `unknown field "c"`) {
		t.Errorf("strict struct: %v", err)
	}
	if err := Unmarshal([]byte("a: 1\n"), &ss); err != nil {
		t.Errorf("strict struct: %v", err)
	}
}

type meta struct {
	Name string `yaml:"name"`
}

type object struct {
	meta  `yaml:",inline"`
	Kind  string         `yaml:"kind"`
	Extra map[string]any `yaml:",inline"`
}

func TestInline(t *testing.T) {
	var o object
	if err := Unmarshal([]byte("name: x\nkind: k\nzz: [1]\nfoo: 1\n"), &o); err != nil {
		t.Fatal(err)
	}
	want := object{meta: meta{Name: "x"}, Kind: "k", Extra: map[string]any{"foo": int64(1), "zz": []any{int64(1)}}}
	if diff := cmp.Diff(want, o, cmp.AllowUnexported(object{})); diff != "" {
		t.Errorf("unexpected object (-want +got):\n%s", diff)
	}
	d, err := Marshal(o)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(d), "name: x\nkind: k\nfoo: 1\nzz:\n  - 1\n"; got != want {
		t.Errorf("got %q, expected %q", got, want)
	}

	o.Extra["kind"] = "clash"
	if _, err := Marshal(o); err == nil {
		t.Errorf("expected an error for an inline key shadowing a field")
	}
}

type circle struct {
	R float64 `yaml:"r"`
}

type figure struct {
	Circle *circle    `yaml:"circle,variant"`
	Square *float64   `yaml:"square,variant"`
	Empty  *struct{}  `yaml:"empty,variant"`
	Points [][2]int64 `yaml:"points,variant"`
}

func TestEnumRead(t *testing.T) {
	three := 3.0
	tests := []struct {
		in   string
		want figure
	}{
		{"!circle {r: 2}", figure{Circle: &circle{R: 2}}},
		{"{square: 3}", figure{Square: &three}},
		{"empty", figure{Empty: &struct{}{}}},
		{"{empty: null}", figure{Empty: &struct{}{}}},
		{"!points [[1, 2]]", figure{Points: [][2]int64{{1, 2}}}},
	}
	for _, tc := range tests {
		f := figure{Square: new(float64)}
		if err := Unmarshal([]byte(tc.in), &f); err != nil {
			t.Errorf("%s: %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.want, f); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.in, diff)
		}
	}

	for _, in := range []string{"bogus", "{circle: {r: 1}, square: 2}", "circle", "!empty 3", "[1]"} {
		var f figure
		if err := Unmarshal([]byte(in), &f); err == nil {
			t.Errorf("%s: expected error", in)
		}
	}

	var nested struct {
		Fig figure `yaml:"fig"`
	}
	err := Unmarshal([]byte("fig: !circle {r: x}\n"), &nested)
	e, ok := ir.AsError(err)
	if !ok || e.Path.String() != "fig.circle.r" {
		t.Errorf("expected an error at fig.circle.r, got %v", err)
	}
}

type id struct {
	V string `yaml:"v,newtype"`
}

func TestNewtype(t *testing.T) {
	var got struct {
		ID  id   `yaml:"id"`
		IDs []id `yaml:"ids"`
	}
	if err := Unmarshal([]byte("id: abc\nids: [x, y]\n"), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID.V != "abc" || len(got.IDs) != 2 || got.IDs[1].V != "y" {
		t.Errorf("unexpected %+v", got)
	}
}

func TestBinary(t *testing.T) {
	var v struct {
		B []byte `yaml:"b"`
		S []byte `yaml:"s"`
		Q []byte `yaml:"q"`
	}
	in := "b: !!binary |\n  aGVs\n  bG8=\ns: raw\nq: [1, 2]\n"
	if err := Unmarshal([]byte(in), &v); err != nil {
		t.Fatal(err)
	}
	if string(v.B) != "hello" || string(v.S) != "raw" || !cmp.Equal(v.Q, []byte{1, 2}) {
		t.Errorf("unexpected %+v", v)
	}
	if err := Unmarshal([]byte("b: !!binary '%%%'\n"), &v); err == nil {
		t.Errorf("expected error for invalid base64")
	}
}

func TestArrayLength(t *testing.T) {
	var a [2]int
	err := Unmarshal([]byte("[1, 2, 3]"), &a)
	if err == nil || !strings.Contains(err.Error(), "expected 2 elements") {
		t.Errorf("got %v", err)
	}
}

func TestSequenceErrorPath(t *testing.T) {
	var v struct {
		Items []struct {
			N int `yaml:"n"`
		} `yaml:"items"`
	}
	err := Unmarshal([]byte("items:\n  - n: 1\n  - n: two\n"), &v)
	e, ok := ir.AsError(err)
	if !ok || e.Path.String() != "items[1].n" || e.Loc.Line != 3 {
		t.Errorf("got %v", err)
	}
}

func TestFieldTransformer(t *testing.T) {
	upper := func(v *ir.Value) (*ir.Value, error) {
		if s, ok := v.AsStr(); ok {
			if s == "fail" {
				return nil, errors.New("refused")
			}
			return ir.FromString(strings.ToUpper(s)), nil
		}
		return nil, nil
	}
	var v struct {
		A string             `yaml:"a"`
		B Verbatim[string]   `yaml:"b"`
		C []string           `yaml:"c"`
		D *string            `yaml:"d"`
		M map[string]string  `yaml:"m"`
		V Verbatim[[]string] `yaml:"v"`
	}
	in := "a: x\nb: x\nc: [y]\nd: z\nm: {k: w}\nv: [u]\n"
	if err := Unmarshal([]byte(in), &v, WithFieldTransformer(upper)); err != nil {
		t.Fatal(err)
	}
	if v.A != "X" || v.B.Value != "x" || v.C[0] != "Y" || *v.D != "Z" || v.M["k"] != "W" || v.V.Value[0] != "u" {
		t.Errorf("unexpected %+v", v)
	}

	err := Unmarshal([]byte("a: fail\n"), &v, WithFieldTransformer(upper))
	e, ok := ir.AsError(err)
	if !ok || e.Path.String() != "a" || !strings.Contains(err.Error(), "refused") {
		t.Errorf("got %v", err)
	}
}

func TestFromValue(t *testing.T) {
	val := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("host"), Val: ir.FromString("h")},
		{Key: ir.FromString("port"), Val: ir.FromInt(1)},
	})
	var s server
	if err := FromValue(val, &s); err != nil {
		t.Fatal(err)
	}
	if s.Host != "h" || s.Port != 1 {
		t.Errorf("unexpected %+v", s)
	}
	var keep *ir.Value
	if err := FromValue(val, &keep); err != nil {
		t.Fatal(err)
	}
	keep.Mapping.InsertField("host", ir.FromString("changed"))
	if got, _ := val.GetField("host").AsStr(); got != "h" {
		t.Errorf("FromValue shared the source value")
	}
}

func TestMissingFields(t *testing.T) {
	var v struct {
		Srv struct {
			Name string `yaml:"name"`
			Port int    `yaml:"port"`
		} `yaml:"srv"`
	}
	err := Unmarshal([]byte("srv:\n  name: x\n"), &v)
	e, ok := ir.AsError(err)
	if !ok || e.Path.String() != "srv" || e.Loc.Line != 2 || !strings.Contains(err.Error(), `missing field "port"`) {
		t.Errorf("got %v", err)
	}

	opt := struct {
		Name  string   `yaml:"name"`
		Port  int      `yaml:"port,omitempty"`
		Limit int      `yaml:"limit,default"`
		P     *int     `yaml:"p"`
		S     []string `yaml:"s"`
	}{Limit: 10}
	if err := Unmarshal([]byte("name: x\n"), &opt); err != nil {
		t.Fatal(err)
	}
	if opt.Name != "x" || opt.Port != 0 || opt.Limit != 10 || opt.P != nil || opt.S != nil {
		t.Errorf("unexpected %+v", opt)
	}
}
