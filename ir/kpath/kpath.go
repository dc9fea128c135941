package kpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/yamlv/token"
)

// EntryKind identifies the kind of a path segment.
type EntryKind int

const (
	FieldEntry EntryKind = iota
	IndexEntry
	UnknownEntry
)

func (k EntryKind) String() string {
	switch k {
	case FieldEntry:
		return "field"
	case IndexEntry:
		return "index"
	case UnknownEntry:
		return "unknown"
	}
	return "EntryKind(" + strconv.Itoa(int(k)) + ")"
}

// Segment is one step of a KPath.
type Segment struct {
	Kind  EntryKind
	Field string
	Index int
}

func (s Segment) String() string {
	switch s.Kind {
	case FieldEntry:
		if token.PathQuoteField(s.Field) {
			return token.Quote(s.Field, true)
		}
		return s.Field
	case IndexEntry:
		return "[" + strconv.Itoa(s.Index) + "]"
	default:
		return "?"
	}
}

// KPath is a path from the root of a value. The nil KPath is the root.
//
// The With* methods never share backing storage with their receiver, so a
// path may be extended from several places.
type KPath []Segment

func (p KPath) with(s Segment) KPath {
	res := make(KPath, len(p), len(p)+1)
	copy(res, p)
	return append(res, s)
}

// WithField returns p extended by a mapping field.
func (p KPath) WithField(name string) KPath {
	return p.with(Segment{Kind: FieldEntry, Field: name})
}

// WithIndex returns p extended by a sequence index.
func (p KPath) WithIndex(i int) KPath {
	return p.with(Segment{Kind: IndexEntry, Index: i})
}

// WithUnknown returns p extended by an unknown segment, used below non-string
// mapping keys.
func (p KPath) WithUnknown() KPath {
	return p.with(Segment{Kind: UnknownEntry})
}

func (p KPath) IsRoot() bool {
	return len(p) == 0
}

// Parent returns p without its last segment.
func (p KPath) Parent() KPath {
	if len(p) == 0 {
		return nil
	}
	return p[: len(p)-1 : len(p)-1]
}

// Last returns the last segment of p.
func (p KPath) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

func (p KPath) Equal(o KPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p KPath) String() string {
	if len(p) == 0 {
		return "."
	}
	b := &strings.Builder{}
	for i, s := range p {
		if i > 0 && s.Kind != IndexEntry {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Parse parses the rendering produced by String. Both "" and "." parse to
// the root.
func Parse(s string) (KPath, error) {
	if s == "" || s == "." {
		return nil, nil
	}
	var res KPath
	i := 0
	n := len(s)
	for i < n {
		switch c := s[i]; c {
		case '.':
			if i == 0 || i == n-1 || s[i+1] == '.' || s[i+1] == '[' {
				return nil, fmt.Errorf("kpath %q: unexpected '.' at %d", s, i)
			}
			i++
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j == -1 {
				return nil, fmt.Errorf("kpath %q: unterminated index at %d", s, i)
			}
			idx, err := strconv.Atoi(s[i+1 : i+j])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("kpath %q: invalid index %q", s, s[i+1:i+j])
			}
			res = append(res, Segment{Kind: IndexEntry, Index: idx})
			i += j + 1
			if i < n && s[i] != '.' && s[i] != '[' {
				return nil, fmt.Errorf("kpath %q: unexpected %q at %d", s, s[i], i)
			}
		case '\'', '"':
			j, err := quotedEnd(s, i)
			if err != nil {
				return nil, err
			}
			field, ok := token.Unquote(s[i:j])
			if !ok {
				return nil, fmt.Errorf("kpath %q: invalid quoted field at %d", s, i)
			}
			res = append(res, Segment{Kind: FieldEntry, Field: field})
			i = j
		default:
			j := i
			for j < n && s[j] != '.' && s[j] != '[' {
				j++
			}
			field := s[i:j]
			if field == "?" {
				res = append(res, Segment{Kind: UnknownEntry})
			} else {
				res = append(res, Segment{Kind: FieldEntry, Field: field})
			}
			i = j
		}
	}
	return res, nil
}

func quotedEnd(s string, i int) (int, error) {
	q := s[i]
	j := i + 1
	for j < len(s) {
		c := s[j]
		switch {
		case q == '"' && c == '\\':
			j += 2
			continue
		case q == '\'' && c == '\'' && j+1 < len(s) && s[j+1] == '\'':
			j += 2
			continue
		case c == q:
			return j + 1, nil
		}
		j++
	}
	return 0, fmt.Errorf("kpath %q: unterminated quote at %d", s, i)
}
