package ir

import "github.com/signadot/yamlv/token"

// MergeKey is the key that merges other mappings into the mapping holding
// it.
const MergeKey = "<<"

// IsMergeKey reports whether k is a merge key in a value built by a
// program: the string "<<", optionally tagged !!merge.
func IsMergeKey(k *Value) bool {
	if k.Kind() == TaggedType {
		if k.Tag != TagMerge {
			return false
		}
		k = k.Inner
	}
	s, ok := k.AsStr()
	return ok && s == MergeKey
}

// Entry is a mapping entry awaiting merge expansion. Merge marks an entry
// whose value is merged rather than inserted.
type Entry struct {
	Key   *Value
	Value *Value
	Merge bool
}

// MergeEntries builds a mapping from entries, expanding merge entries in
// place.
//
// A merge entry's value is a mapping or a sequence of mappings. Keys given
// by non-merge entries always win. Otherwise sources are taken in order and
// a key is only filled in when it is still absent, so earlier sources win
// over later ones. Merged keys appear at the position of the merge entry.
//
// The values of merge entries are consumed; their entries end up in the
// result without being copied.
func MergeEntries(entries []Entry) (*Mapping, error) {
	explicit := NewMappingCap(len(entries))
	merges := 0
	for _, e := range entries {
		if e.Merge {
			merges++
			continue
		}
		explicit.Insert(e.Key, e.Value)
	}
	if merges == 0 {
		return explicit, nil
	}
	res := NewMappingCap(len(entries))
	for _, e := range entries {
		if !e.Merge {
			res.Insert(e.Key, e.Value)
			continue
		}
		srcs, err := mergeSources(e.Value)
		if err != nil {
			return nil, err
		}
		for _, src := range srcs {
			for k, v := range src.All() {
				if explicit.Has(k) || res.Has(k) {
					continue
				}
				res.Insert(k, v)
			}
		}
	}
	return res, nil
}

func mergeSources(v *Value) ([]*Mapping, error) {
	switch v.Kind() {
	case MappingType:
		return []*Mapping{v.Mapping}, nil
	case SequenceType:
		res := make([]*Mapping, 0, len(v.Sequence))
		for _, e := range v.Sequence {
			m, ok := e.AsMapping()
			if !ok {
				return nil, NewError(KindMessage, e.Loc, "expected a mapping for merging, got "+e.Kind().String())
			}
			res = append(res, m)
		}
		return res, nil
	}
	var loc token.Location
	if v != nil {
		loc = v.Loc
	}
	return nil, NewError(KindMessage, loc, "expected a mapping or list of mappings for merging, got "+v.Kind().String())
}

// ApplyMerge expands merge keys everywhere in y, innermost mappings first.
// Parsed values have their merge keys expanded already; ApplyMerge is for
// values built by a program or parsed with merging turned off.
func (y *Value) ApplyMerge() error {
	if y == nil {
		return nil
	}
	switch y.Type {
	case SequenceType:
		for _, e := range y.Sequence {
			if err := e.ApplyMerge(); err != nil {
				return err
			}
		}
	case TaggedType:
		return y.Inner.ApplyMerge()
	case MappingType:
		rebuild := false
		entries := make([]Entry, 0, y.Mapping.Len())
		for k, v := range y.Mapping.All() {
			if err := k.ApplyMerge(); err != nil {
				return err
			}
			if err := v.ApplyMerge(); err != nil {
				return err
			}
			merge := IsMergeKey(k)
			// keys holding collections may have changed their hash
			rebuild = rebuild || merge || k.Untag().Kind() >= SequenceType
			entries = append(entries, Entry{Key: k, Value: v, Merge: merge})
		}
		if !rebuild {
			return nil
		}
		m, err := MergeEntries(entries)
		if err != nil {
			return err
		}
		y.Mapping = m
	}
	return nil
}
