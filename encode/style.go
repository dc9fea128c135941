package encode

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/stream"
)

var (
	// integers YAML 1.1 readers take as octal, or with digit separators
	legacyIntRE = regexp.MustCompile(`^[-+]?(0[0-9_]+|0b[01_]+|0x[0-9a-fA-F_]+|[1-9][0-9_]*)$`)
	// floats with digit separators
	legacyFloatRE = regexp.MustCompile(`^[-+]?[0-9][0-9_]*\.[0-9_]*([eE][-+]?[0-9]+)?$`)
	// base 60
	sexagesimalRE = regexp.MustCompile(`^[-+]?[0-9][0-9_]*(:[0-5]?[0-9])+(\.[0-9_]*)?$`)
)

// scalarStyle chooses the style of a string scalar so that the text reads
// back as the same string.
func scalarStyle(s string) stream.ScalarStyle {
	switch {
	case s == "":
		return stream.SingleQuotedStyle
	case hasControl(s), strings.HasPrefix(s, "\n"), strings.Trim(s, "\n") == "":
		// a literal block cannot start with a line break
		return stream.DoubleQuotedStyle
	case strings.Contains(s, "\n"):
		return stream.LiteralStyle
	case looksResolved(s), hasIndicator(s):
		return stream.SingleQuotedStyle
	}
	return stream.PlainStyle
}

// looksResolved reports whether plain s would not read back as the string
// s, here or in a YAML 1.1 reader.
func looksResolved(s string) bool {
	if ir.ResolvePlain(s).Kind() != ir.StringType {
		return true
	}
	if ir.IsLegacyBool(s) || s == ir.MergeKey {
		return true
	}
	return legacyIntRE.MatchString(s) || legacyFloatRE.MatchString(s) || sexagesimalRE.MatchString(s)
}

func hasIndicator(s string) bool {
	if strings.ContainsRune("-?:,[]{}#&*!|>'\"%@`", rune(s[0])) {
		return true
	}
	if unicode.IsSpace(rune(s[0])) || unicode.IsSpace(rune(s[len(s)-1])) {
		return true
	}
	return strings.Contains(s, ": ") || strings.Contains(s, " #") || strings.HasSuffix(s, ":")
}

func hasControl(s string) bool {
	for _, r := range s {
		if (r != '\n' && unicode.IsControl(r)) || r == '\uFEFF' {
			return true
		}
	}
	return false
}
