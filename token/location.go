package token

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Location is a position in a source document.
type Location struct {
	Index  int // byte offset
	Line   int // 1-based
	Column int // 1-based, in characters
}

// IsZero reports whether l carries no position.
func (l Location) IsZero() bool {
	return l.Line == 0
}

func (l Location) String() string {
	if l.IsZero() {
		return "?"
	}
	return fmt.Sprintf("line %d column %d", l.Line, l.Column)
}

// LineIndex records the byte offset of every line start of a document.
type LineIndex struct {
	d []byte
	n []int
}

func NewLineIndex(d []byte) *LineIndex {
	x := &LineIndex{d: d, n: []int{0}}
	for i, c := range d {
		if c == '\n' {
			x.n = append(x.n, i+1)
		}
	}
	return x
}

// Lines returns the number of lines in the indexed document.
func (x *LineIndex) Lines() int {
	return len(x.n)
}

// Location converts a 1-based line and character column into a Location.
// Out of range lines are clamped to the document.
func (x *LineIndex) Location(line, col int) Location {
	if line < 1 {
		return Location{}
	}
	if line > len(x.n) {
		return Location{Index: len(x.d), Line: line, Column: col}
	}
	start := x.n[line-1]
	end := len(x.d)
	if line < len(x.n) {
		end = x.n[line] - 1
	}
	off := start
	for c := 1; c < col && off < end; c++ {
		_, sz := utf8.DecodeRune(x.d[off:end])
		off += sz
	}
	return Location{Index: off, Line: line, Column: col}
}

// At converts a byte offset into a Location.
func (x *LineIndex) At(off int) Location {
	off = min(max(off, 0), len(x.d))
	li := sort.Search(len(x.n), func(i int) bool {
		return x.n[i] > off
	})
	start := x.n[li-1]
	return Location{
		Index:  off,
		Line:   li,
		Column: utf8.RuneCount(x.d[start:off]) + 1,
	}
}
