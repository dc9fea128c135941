package ir

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want Number
	}{
		{"0", NumberFromInt(0)},
		{"-0", NumberFromInt(0)},
		{"42", NumberFromInt(42)},
		{"+42", NumberFromInt(42)},
		{"-17", NumberFromInt(-17)},
		{"0x1F", NumberFromInt(31)},
		{"-0x10", NumberFromInt(-16)},
		{"0o17", NumberFromInt(15)},
		{"0b101", NumberFromInt(5)},
		{"9223372036854775807", NumberFromInt(math.MaxInt64)},
		{"-9223372036854775808", NumberFromInt(math.MinInt64)},
		{"18446744073709551615", NumberFromUint(math.MaxUint64)},
		{"18446744073709551616", NumberFromFloat(18446744073709551616)},
		{"1.5", NumberFromFloat(1.5)},
		{"-.5", NumberFromFloat(-0.5)},
		{"5.", NumberFromFloat(5)},
		{"1e3", NumberFromFloat(1000)},
		{"1.0e+20", NumberFromFloat(1e20)},
		{".inf", NumberFromFloat(math.Inf(1))},
		{"+.Inf", NumberFromFloat(math.Inf(1))},
		{"-.INF", NumberFromFloat(math.Inf(-1))},
	}
	for _, tc := range tests {
		got, ok := ParseNumber(tc.in)
		if !ok {
			t.Errorf("ParseNumber(%q) failed", tc.in)
			continue
		}
		if got.k != tc.want.k || !got.Equal(tc.want) {
			t.Errorf("ParseNumber(%q) = %s (%d), expected %s (%d)", tc.in, got, got.k, tc.want, tc.want.k)
		}
	}
	nan, ok := ParseNumber(".NaN")
	if !ok || !nan.IsNaN() {
		t.Errorf("expected .NaN to parse as NaN")
	}
}

func TestParseNumberRejects(t *testing.T) {
	for _, in := range []string{
		"", "-", "+", "01", "-007", "0x", "0xG", "1_000", "+-1", "--1",
		"0x-1", "-.nan", "+.nan", "nan", "inf", "1e400", "1.2.3", ".", "e5",
		"0x1p-2", "Infinity", "12abc",
	} {
		if n, ok := ParseNumber(in); ok {
			t.Errorf("ParseNumber(%q) = %s, expected failure", in, n)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    Number
		want string
	}{
		{NumberFromInt(-3), "-3"},
		{NumberFromUint(math.MaxUint64), "18446744073709551615"},
		{NumberFromFloat(0), "0.0"},
		{NumberFromFloat(math.Copysign(0, -1)), "-0.0"},
		{NumberFromFloat(100000), "100000.0"},
		{NumberFromFloat(0.1), "0.1"},
		{NumberFromFloat(1.0 / 3), "0.3333333333333333"},
		{NumberFromFloat(1e20), "1.0e+20"},
		{NumberFromFloat(1.5e-7), "1.5e-07"},
		{NumberFromFloat(0.00001), "0.00001"},
		{NumberFromFloat(math.NaN()), ".nan"},
		{NumberFromFloat(math.Inf(1)), ".inf"},
		{NumberFromFloat(math.Inf(-1)), "-.inf"},
	}
	for _, tc := range tests {
		if got := tc.n.String(); got != tc.want {
			t.Errorf("format %v: got %q, expected %q", tc.n.f, got, tc.want)
		}
	}
}

func TestNumberRoundTripBits(t *testing.T) {
	floats := []float64{
		0, math.Copysign(0, -1), 1, -1, 0.1, 2.5e-300, math.MaxFloat64,
		math.SmallestNonzeroFloat64, 123456789.125, 1e15, 1e16, 9007199254740993,
		math.Inf(1), math.Inf(-1),
	}
	for _, f := range floats {
		n := NumberFromFloat(f)
		back, ok := ParseNumber(n.String())
		if !ok || !back.IsF64() {
			t.Fatalf("%s did not parse back as a float", n)
		}
		if math.Float64bits(back.f) != math.Float64bits(f) {
			t.Errorf("%s: bits %x, expected %x", n, math.Float64bits(back.f), math.Float64bits(f))
		}
	}
	ints := []Number{
		NumberFromInt(math.MinInt64), NumberFromInt(-1), NumberFromInt(0),
		NumberFromInt(math.MaxInt64), NumberFromUint(math.MaxInt64 + 1),
		NumberFromUint(math.MaxUint64),
	}
	for _, n := range ints {
		back, ok := ParseNumber(n.String())
		if !ok || back != n {
			t.Errorf("%s: parsed back as %#v", n, back)
		}
	}
}

func TestNumberConversions(t *testing.T) {
	u := NumberFromUint(math.MaxUint64)
	if u.IsI64() {
		t.Errorf("max uint64 reported as i64")
	}
	if _, ok := u.AsI64(); ok {
		t.Errorf("max uint64 converted to i64")
	}
	if _, ok := u.AsF64(); ok {
		t.Errorf("max uint64 converted to f64 without loss")
	}
	five := NumberFromUint(5)
	if !five.IsI64() || !five.IsU64() {
		t.Errorf("5 should be both i64 and u64")
	}
	if f, ok := five.AsF64(); !ok || f != 5 {
		t.Errorf("5 as f64: %v %v", f, ok)
	}
	neg := NumberFromInt(-5)
	if _, ok := neg.AsU64(); ok {
		t.Errorf("-5 converted to u64")
	}
	if _, ok := NumberFromFloat(2).AsI64(); ok {
		t.Errorf("float converted to i64")
	}
	if _, ok := NumberFromInt(1<<53 + 1).AsF64(); ok {
		t.Errorf("2^53+1 converted to f64 without loss")
	}
}

func TestNumberCompare(t *testing.T) {
	if !NumberFromUint(5).Equal(NumberFromInt(5)) {
		t.Errorf("unsigned 5 != signed 5")
	}
	if NumberFromInt(5).Equal(NumberFromFloat(5)) {
		t.Errorf("integer 5 == float 5")
	}
	nan := NumberFromFloat(math.NaN())
	if !nan.Equal(NumberFromFloat(math.NaN())) {
		t.Errorf("NaN != NaN")
	}
	if !NumberFromFloat(0).Equal(NumberFromFloat(math.Copysign(0, -1))) {
		t.Errorf("0 != -0")
	}
	ordered := []Number{
		NumberFromInt(math.MinInt64), NumberFromInt(-1), NumberFromInt(0),
		NumberFromUint(math.MaxUint64), NumberFromFloat(math.Inf(-1)),
		NumberFromFloat(-1.5), NumberFromFloat(3), NumberFromFloat(math.Inf(1)), nan,
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Compare(ordered[i]) != -1 || ordered[i].Compare(ordered[i-1]) != 1 {
			t.Errorf("expected %s < %s", ordered[i-1], ordered[i])
		}
	}
}
