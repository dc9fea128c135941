package ir

import (
	"cmp"
	"slices"
	"strings"
)

// Compare returns an integer comparing two values.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
//
// Values order first by type: Null < Bool < Number < String < Sequence <
// Mapping < Tagged. Sequences compare element by element. Mappings compare
// as their entry lists sorted by key, so insertion order does not matter.
// Tagged values compare by tag, then by inner value. A nil value compares
// as Null.
func Compare(a, b *Value) int {
	if a == b {
		return 0
	}
	ta, tb := a.Kind(), b.Kind()
	if ta != tb {
		return cmp.Compare(ta, tb)
	}
	switch ta {
	case BoolType:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1
		}
		return 1
	case NumberType:
		return a.Number.Compare(b.Number)
	case StringType:
		return strings.Compare(a.String, b.String)
	case SequenceType:
		return slices.CompareFunc(a.Sequence, b.Sequence, Compare)
	case MappingType:
		return compareMappings(a.Mapping, b.Mapping)
	case TaggedType:
		if c := strings.Compare(a.Tag, b.Tag); c != 0 {
			return c
		}
		return Compare(a.Inner, b.Inner)
	}
	return 0
}

func sortedEntries(m *Mapping) []KeyVal {
	res := m.Entries()
	slices.SortFunc(res, func(x, y KeyVal) int {
		return Compare(x.Key, y.Key)
	})
	return res
}

func compareMappings(a, b *Mapping) int {
	ea, eb := sortedEntries(a), sortedEntries(b)
	return slices.CompareFunc(ea, eb, func(x, y KeyVal) int {
		if c := Compare(x.Key, y.Key); c != 0 {
			return c
		}
		return Compare(x.Val, y.Val)
	})
}

// Equal reports whether a and b are structurally equal. It agrees with
// Compare and Hash.
func Equal(a, b *Value) bool {
	if a == b {
		return true
	}
	ta, tb := a.Kind(), b.Kind()
	if ta != tb {
		return false
	}
	switch ta {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case NumberType:
		return a.Number.Equal(b.Number)
	case StringType:
		return a.String == b.String
	case SequenceType:
		return slices.EqualFunc(a.Sequence, b.Sequence, Equal)
	case MappingType:
		if a.Mapping.Len() != b.Mapping.Len() {
			return false
		}
		for k, v := range a.Mapping.All() {
			bv, ok := b.Mapping.Get(k)
			if !ok || !Equal(v, bv) {
				return false
			}
		}
		return true
	case TaggedType:
		return a.Tag == b.Tag && Equal(a.Inner, b.Inner)
	}
	return false
}

// Equal reports whether y and o are structurally equal.
func (y *Value) Equal(o *Value) bool {
	return Equal(y, o)
}
