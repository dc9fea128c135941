package ir

import (
	"iter"
	"slices"
)

// Mapping is an insertion ordered map from Value to Value.
//
// Lookup, insertion and removal take amortized constant time. Keys are
// compared with Equal and must not be modified while they are in a Mapping.
// The zero Mapping is empty and ready to use.
type Mapping struct {
	entries []mapEntry
	index   map[uint64][]int
	live    int
}

type mapEntry struct {
	key, value *Value
	dead       bool
}

func NewMapping() *Mapping {
	return &Mapping{}
}

func NewMappingCap(n int) *Mapping {
	return &Mapping{
		entries: make([]mapEntry, 0, n),
		index:   make(map[uint64][]int, n),
	}
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return m.live
}

func (m *Mapping) find(k *Value, h uint64) int {
	for _, i := range m.index[h] {
		if Equal(m.entries[i].key, k) {
			return i
		}
	}
	return -1
}

// Get returns the value at k.
func (m *Mapping) Get(k *Value) (*Value, bool) {
	if m.Len() == 0 {
		return nil, false
	}
	i := m.find(k, k.Hash())
	if i == -1 {
		return nil, false
	}
	return m.entries[i].value, true
}

// GetField is Get with a string key.
func (m *Mapping) GetField(name string) (*Value, bool) {
	return m.Get(FromString(name))
}

func (m *Mapping) Has(k *Value) bool {
	_, ok := m.Get(k)
	return ok
}

// Insert sets k to v. If k is present its value is replaced in place and
// the previous value is returned; otherwise the entry is appended.
func (m *Mapping) Insert(k, v *Value) (*Value, bool) {
	if k == nil {
		k = Null()
	}
	if m.index == nil {
		m.index = map[uint64][]int{}
	}
	h := k.Hash()
	if i := m.find(k, h); i != -1 {
		old := m.entries[i].value
		m.entries[i].value = v
		return old, true
	}
	m.index[h] = append(m.index[h], len(m.entries))
	m.entries = append(m.entries, mapEntry{key: k, value: v})
	m.live++
	return nil, false
}

// InsertField is Insert with a string key.
func (m *Mapping) InsertField(name string, v *Value) (*Value, bool) {
	return m.Insert(FromString(name), v)
}

// Remove deletes k, returning its value. The order of the remaining
// entries is unchanged.
func (m *Mapping) Remove(k *Value) (*Value, bool) {
	if m.Len() == 0 {
		return nil, false
	}
	h := k.Hash()
	i := m.find(k, h)
	if i == -1 {
		return nil, false
	}
	e := &m.entries[i]
	old := e.value
	e.dead = true
	e.key, e.value = nil, nil
	m.live--
	bucket := m.index[h]
	bucket = slices.DeleteFunc(bucket, func(j int) bool { return j == i })
	if len(bucket) == 0 {
		delete(m.index, h)
	} else {
		m.index[h] = bucket
	}
	if dead := len(m.entries) - m.live; dead > 16 && dead > m.live {
		m.compact()
	}
	return old, true
}

func (m *Mapping) compact() {
	entries := make([]mapEntry, 0, m.live)
	for _, e := range m.entries {
		if !e.dead {
			entries = append(entries, e)
		}
	}
	m.entries = entries
	m.index = make(map[uint64][]int, len(entries))
	for i, e := range entries {
		h := e.key.Hash()
		m.index[h] = append(m.index[h], i)
	}
}

// All iterates the entries in insertion order.
func (m *Mapping) All() iter.Seq2[*Value, *Value] {
	return func(yield func(*Value, *Value) bool) {
		if m == nil {
			return
		}
		for _, e := range m.entries {
			if e.dead {
				continue
			}
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []*Value {
	res := make([]*Value, 0, m.Len())
	for k := range m.All() {
		res = append(res, k)
	}
	return res
}

// Values returns the values in insertion order.
func (m *Mapping) Values() []*Value {
	res := make([]*Value, 0, m.Len())
	for _, v := range m.All() {
		res = append(res, v)
	}
	return res
}

// Entries returns the entries in insertion order.
func (m *Mapping) Entries() []KeyVal {
	res := make([]KeyVal, 0, m.Len())
	for k, v := range m.All() {
		res = append(res, KeyVal{Key: k, Val: v})
	}
	return res
}

// Clone returns a deep copy of m.
func (m *Mapping) Clone() *Mapping {
	res := NewMappingCap(m.Len())
	for k, v := range m.All() {
		res.Insert(k.Clone(), v.Clone())
	}
	return res
}
