package token

import (
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PathQuoteField reports whether a mapping key must be quoted when it
// appears as a path segment.
func PathQuoteField(v string) bool {
	if v == "" || v == "?" {
		return true
	}
	for _, r := range v {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return true
		}
	}
	return strings.ContainsAny(v, ".[]'\"")
}

// Quote double quotes v, escaping control characters. When autoSingle is set
// and v holds more double quotes than single quotes, it is single quoted
// instead.
func Quote(v string, autoSingle bool) string {
	ndq, nsq := 0, 0
	d := make([]byte, 1, len(v)+2)
	d[0] = '"'
	ucs := []byte{0, 0}
	cps := []byte{0, 0, 0, 0}
	for _, r := range v {
		switch r {
		case '"':
			ndq++
			d = append(d, '\\', '"')
		case '\'':
			nsq++
			d = append(d, '\'')
		case '\\':
			d = append(d, '\\', '\\')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		default:
			if unicode.IsControl(r) {
				ucs[0] = byte(r >> 8)
				ucs[1] = byte(r)
				cps = hex.AppendEncode(cps[:0], ucs)
				d = append(d, '\\', 'u', cps[0], cps[1], cps[2], cps[3])
			} else {
				d = utf8.AppendRune(d, r)
			}
		}
	}
	d = append(d, '"')
	if !autoSingle || nsq >= ndq {
		return string(d)
	}
	if strings.ContainsFunc(v, unicode.IsControl) {
		return string(d)
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// Unquote reverses Quote. The second result is false if s is not a quoted
// string produced by Quote.
func Unquote(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	switch {
	case s[0] == '\'' && s[len(s)-1] == '\'':
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), true
	case s[0] == '"' && s[len(s)-1] == '"':
	default:
		return "", false
	}
	b := &strings.Builder{}
	esc := false
	body := s[1 : len(s)-1]
	for i := 0; i < len(body); {
		r, sz := utf8.DecodeRuneInString(body[i:])
		i += sz
		if !esc {
			if r == '\\' {
				esc = true
				continue
			}
			b.WriteRune(r)
			continue
		}
		esc = false
		switch r {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			if i+4 > len(body) {
				return "", false
			}
			raw, err := hex.DecodeString(body[i : i+4])
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(raw[0])<<8 | rune(raw[1]))
			i += 4
		default:
			b.WriteRune(r)
		}
	}
	if esc {
		return "", false
	}
	return b.String(), true
}
