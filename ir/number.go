package ir

import (
	"cmp"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type numberKind uint8

const (
	posInt numberKind = iota
	negInt
	floatNum
)

// Number is a YAML number: a 64-bit signed integer, a 64-bit unsigned
// integer or a 64-bit float.
//
// Non-negative integers are held as unsigned and negative ones as signed, so
// an unsigned 5 and a signed 5 are the same Number. Integers and floats are
// never equal to each other. The zero Number is the integer 0.
type Number struct {
	k numberKind
	u uint64
	i int64
	f float64
}

func NumberFromInt(i int64) Number {
	if i < 0 {
		return Number{k: negInt, i: i}
	}
	return Number{k: posInt, u: uint64(i)}
}

func NumberFromUint(u uint64) Number {
	return Number{k: posInt, u: u}
}

func NumberFromFloat(f float64) Number {
	return Number{k: floatNum, f: f}
}

// IsI64 reports whether n is an integer representable as int64.
func (n Number) IsI64() bool {
	switch n.k {
	case negInt:
		return true
	case posInt:
		return n.u <= math.MaxInt64
	}
	return false
}

// IsU64 reports whether n is a non-negative integer.
func (n Number) IsU64() bool {
	return n.k == posInt
}

func (n Number) IsF64() bool {
	return n.k == floatNum
}

func (n Number) IsInteger() bool {
	return n.k != floatNum
}

func (n Number) IsNaN() bool {
	return n.k == floatNum && math.IsNaN(n.f)
}

func (n Number) AsI64() (int64, bool) {
	if !n.IsI64() {
		return 0, false
	}
	if n.k == negInt {
		return n.i, true
	}
	return int64(n.u), true
}

func (n Number) AsU64() (uint64, bool) {
	if n.k != posInt {
		return 0, false
	}
	return n.u, true
}

// AsF64 returns n as a float64. Integers convert only when the conversion is
// exact.
func (n Number) AsF64() (float64, bool) {
	switch n.k {
	case floatNum:
		return n.f, true
	case negInt:
		f := float64(n.i)
		if f < math.MinInt64 || int64(f) != n.i {
			return 0, false
		}
		return f, true
	default:
		f := float64(n.u)
		if f >= 1<<64 || uint64(f) != n.u {
			return 0, false
		}
		return f, true
	}
}

// String formats n in its canonical YAML form. Parsing the result with
// ParseNumber gives back n.
func (n Number) String() string {
	switch n.k {
	case posInt:
		return strconv.FormatUint(n.u, 10)
	case negInt:
		return strconv.FormatInt(n.i, 10)
	}
	return formatFloat(n.f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(sci, "e")
	e, _ := strconv.Atoi(exp)
	if f == 0 || (e >= -5 && e < 16) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	}
	if !strings.ContainsRune(mant, '.') {
		mant += ".0"
	}
	return mant + "e" + exp
}

// Compare orders numbers: integers by value regardless of sign
// representation, then floats. Floats order numerically with -0 equal to 0
// and every NaN equal to every other NaN and greater than all other floats.
func (n Number) Compare(o Number) int {
	nf, of := n.k == floatNum, o.k == floatNum
	switch {
	case nf && of:
		return compareFloat(n.f, o.f)
	case nf:
		return 1
	case of:
		return -1
	}
	switch {
	case n.k == negInt && o.k == negInt:
		return cmp.Compare(n.i, o.i)
	case n.k == negInt:
		return -1
	case o.k == negInt:
		return 1
	}
	return cmp.Compare(n.u, o.u)
}

func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (n Number) Equal(o Number) bool {
	return n.Compare(o) == 0
}

// ParseNumber parses YAML number text. Integers may carry a sign and one of
// the 0x, 0o or 0b prefixes; decimal integers with a leading zero are not
// numbers. Integers beyond the 64-bit range parse as floats when they have
// decimal form. Floats accept .inf, -.inf and .nan in lower, title or upper
// case.
func ParseNumber(s string) (Number, bool) {
	if n, ok := parseInt(s); ok {
		return n, true
	}
	if leadingZeroDigits(s) {
		return Number{}, false
	}
	if f, ok := parseFloat(s); ok {
		return NumberFromFloat(f), true
	}
	return Number{}, false
}

func parseInt(s string) (Number, bool) {
	if s == "" {
		return Number{}, false
	}
	neg := false
	body := s
	switch s[0] {
	case '+':
		body = s[1:]
	case '-':
		neg = true
		body = s[1:]
	}
	if body == "" || body[0] == '+' || body[0] == '-' {
		return Number{}, false
	}
	base := 10
	switch {
	case strings.HasPrefix(body, "0x"):
		base = 16
	case strings.HasPrefix(body, "0o"):
		base = 8
	case strings.HasPrefix(body, "0b"):
		base = 2
	}
	if base != 10 {
		body = body[2:]
		if body == "" || body[0] == '+' || body[0] == '-' {
			return Number{}, false
		}
	} else if len(body) > 1 && body[0] == '0' && allDigits(body[1:]) {
		return Number{}, false
	}
	u, err := strconv.ParseUint(body, base, 64)
	if err != nil {
		return Number{}, false
	}
	if !neg {
		return NumberFromUint(u), true
	}
	if u > 1<<63 {
		return Number{}, false
	}
	return NumberFromInt(-int64(u)), true
}

// leadingZeroDigits reports whether s is digits with a leading zero, like
// "007", which is neither an integer nor a float.
func leadingZeroDigits(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && allDigits(s[1:])
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var floatRE = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)

func parseFloat(s string) (float64, bool) {
	body := s
	if strings.HasPrefix(s, "+") {
		body = s[1:]
		if strings.HasPrefix(body, "+") || strings.HasPrefix(body, "-") {
			return 0, false
		}
	}
	switch body {
	case ".inf", ".Inf", ".INF":
		return math.Inf(1), true
	}
	switch s {
	case "-.inf", "-.Inf", "-.INF":
		return math.Inf(-1), true
	case ".nan", ".NaN", ".NAN":
		return math.NaN(), true
	}
	if !floatRE.MatchString(body) {
		return 0, false
	}
	f, err := strconv.ParseFloat(body, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
