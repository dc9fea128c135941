package ir

import (
	"maps"
	"slices"

	"github.com/signadot/yamlv/ir/kpath"
	"github.com/signadot/yamlv/token"
)

// Value is a YAML value. Which fields are meaningful depends on Type:
//
//   - BoolType: Bool
//   - NumberType: Number
//   - StringType: String
//   - SequenceType: Sequence
//   - MappingType: Mapping
//   - TaggedType: Tag and Inner
//
// A Value is a tree: no two Values share a child. Use Clone to duplicate a
// subtree.
//
// Loc is the start of the value in the source it was parsed from, or the
// zero Location. It does not take part in equality, ordering or hashing.
//
// The accessor methods accept a nil receiver, which stands for an absent
// value, so lookups can be chained:
//
//	name, ok := doc.GetField("spec").GetField("name").AsStr()
type Value struct {
	Type     Type
	Bool     bool
	Number   Number
	String   string
	Sequence []*Value
	Mapping  *Mapping
	Tag      string
	Inner    *Value

	Loc token.Location
}

func Null() *Value {
	return &Value{Type: NullType}
}

func FromBool(b bool) *Value {
	return &Value{Type: BoolType, Bool: b}
}

func FromInt(i int64) *Value {
	return &Value{Type: NumberType, Number: NumberFromInt(i)}
}

func FromUint(u uint64) *Value {
	return &Value{Type: NumberType, Number: NumberFromUint(u)}
}

func FromFloat(f float64) *Value {
	return &Value{Type: NumberType, Number: NumberFromFloat(f)}
}

func FromNumber(n Number) *Value {
	return &Value{Type: NumberType, Number: n}
}

func FromString(s string) *Value {
	return &Value{Type: StringType, String: s}
}

func FromSlice(vs []*Value) *Value {
	if vs == nil {
		vs = []*Value{}
	}
	return &Value{Type: SequenceType, Sequence: vs}
}

func FromMapping(m *Mapping) *Value {
	if m == nil {
		m = NewMapping()
	}
	return &Value{Type: MappingType, Mapping: m}
}

// KeyVal is a mapping entry used by FromKeyVals.
type KeyVal struct {
	Key *Value
	Val *Value
}

// FromKeyVals creates a mapping in the order of kvs. A later entry with the
// same key replaces the value of the earlier one.
func FromKeyVals(kvs []KeyVal) *Value {
	m := NewMappingCap(len(kvs))
	for _, kv := range kvs {
		m.Insert(kv.Key, kv.Val)
	}
	return FromMapping(m)
}

// FromMap creates a mapping with string keys in sorted key order.
func FromMap(m map[string]*Value) *Value {
	res := NewMappingCap(len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		res.Insert(FromString(k), m[k])
	}
	return FromMapping(res)
}

// Tagged wraps inner in a tag. A tag without a leading '!' gets one.
func Tagged(tag string, inner *Value) *Value {
	if inner == nil {
		inner = Null()
	}
	return &Value{Type: TaggedType, Tag: NormalizeTag(tag), Inner: inner}
}

// WithTag returns y wrapped in tag.
func (y *Value) WithTag(tag string) *Value {
	return Tagged(tag, y)
}

// WithLoc sets the location of y and returns it.
func (y *Value) WithLoc(loc token.Location) *Value {
	y.Loc = loc
	return y
}

// Kind returns the type of y, NullType for an absent value.
func (y *Value) Kind() Type {
	if y == nil {
		return NullType
	}
	return y.Type
}

// IsNull reports whether y is null or absent.
func (y *Value) IsNull() bool {
	return y == nil || y.Type == NullType
}

func (y *Value) AsBool() (bool, bool) {
	if y == nil || y.Type != BoolType {
		return false, false
	}
	return y.Bool, true
}

func (y *Value) AsNumber() (Number, bool) {
	if y == nil || y.Type != NumberType {
		return Number{}, false
	}
	return y.Number, true
}

func (y *Value) AsI64() (int64, bool) {
	n, ok := y.AsNumber()
	if !ok {
		return 0, false
	}
	return n.AsI64()
}

func (y *Value) AsU64() (uint64, bool) {
	n, ok := y.AsNumber()
	if !ok {
		return 0, false
	}
	return n.AsU64()
}

func (y *Value) AsF64() (float64, bool) {
	n, ok := y.AsNumber()
	if !ok {
		return 0, false
	}
	return n.AsF64()
}

func (y *Value) AsStr() (string, bool) {
	if y == nil || y.Type != StringType {
		return "", false
	}
	return y.String, true
}

func (y *Value) AsSequence() ([]*Value, bool) {
	if y == nil || y.Type != SequenceType {
		return nil, false
	}
	return y.Sequence, true
}

func (y *Value) AsMapping() (*Mapping, bool) {
	if y == nil || y.Type != MappingType {
		return nil, false
	}
	return y.Mapping, true
}

func (y *Value) AsTagged() (string, *Value, bool) {
	if y == nil || y.Type != TaggedType {
		return "", nil, false
	}
	return y.Tag, y.Inner, true
}

// Untag strips any tags wrapping y.
func (y *Value) Untag() *Value {
	for y != nil && y.Type == TaggedType {
		y = y.Inner
	}
	return y
}

// Len returns the number of elements of a sequence or entries of a mapping,
// looking through tags, and 0 otherwise.
func (y *Value) Len() int {
	y = y.Untag()
	switch y.Kind() {
	case SequenceType:
		return len(y.Sequence)
	case MappingType:
		return y.Mapping.Len()
	}
	return 0
}

// Index returns element i of a sequence, or nil if y is not a sequence or i
// is out of range. Tags are looked through.
func (y *Value) Index(i int) *Value {
	y = y.Untag()
	if y.Kind() != SequenceType || i < 0 || i >= len(y.Sequence) {
		return nil
	}
	return y.Sequence[i]
}

// Get returns the value at key in a mapping, or nil. Tags are looked
// through.
func (y *Value) Get(key *Value) *Value {
	y = y.Untag()
	if y.Kind() != MappingType {
		return nil
	}
	v, _ := y.Mapping.Get(key)
	return v
}

// GetField is Get with a string key.
func (y *Value) GetField(name string) *Value {
	return y.Get(FromString(name))
}

// GetPath follows p from y. Field segments look up string keys, index
// segments sequence elements. It returns nil if the path does not exist.
func (y *Value) GetPath(p kpath.KPath) *Value {
	for _, seg := range p {
		if y == nil {
			return nil
		}
		switch seg.Kind {
		case kpath.FieldEntry:
			y = y.GetField(seg.Field)
		case kpath.IndexEntry:
			y = y.Index(seg.Index)
		default:
			return nil
		}
	}
	return y
}

// Clone returns a deep copy of y.
func (y *Value) Clone() *Value {
	if y == nil {
		return nil
	}
	res := &Value{}
	*res = *y
	switch y.Type {
	case SequenceType:
		res.Sequence = make([]*Value, len(y.Sequence))
		for i, e := range y.Sequence {
			res.Sequence[i] = e.Clone()
		}
	case MappingType:
		res.Mapping = y.Mapping.Clone()
	case TaggedType:
		res.Inner = y.Inner.Clone()
	}
	return res
}

// Size returns the number of values in the tree rooted at y, y included.
func (y *Value) Size() int {
	n := 0
	y.Visit(func(*Value) bool {
		n++
		return true
	})
	return n
}

// Depth returns the nesting depth of y: 0 for scalars, 1 for a collection
// of scalars. Tags do not add depth.
func (y *Value) Depth() int {
	if y == nil {
		return 0
	}
	switch y.Type {
	case TaggedType:
		return y.Inner.Depth()
	case SequenceType:
		d := 0
		for _, e := range y.Sequence {
			d = max(d, e.Depth())
		}
		return d + 1
	case MappingType:
		d := 0
		for k, v := range y.Mapping.All() {
			d = max(d, k.Depth(), v.Depth())
		}
		return d + 1
	}
	return 0
}

// Visit calls f on y and its descendants in pre-order, mapping keys before
// their values. Descendants of a value are skipped when f returns false.
func (y *Value) Visit(f func(*Value) bool) {
	if y == nil || !f(y) {
		return
	}
	switch y.Type {
	case SequenceType:
		for _, e := range y.Sequence {
			e.Visit(f)
		}
	case MappingType:
		for k, v := range y.Mapping.All() {
			k.Visit(f)
			v.Visit(f)
		}
	case TaggedType:
		y.Inner.Visit(f)
	}
}
