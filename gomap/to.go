package gomap

import (
	"cmp"
	"encoding"
	"encoding/base64"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
	"github.com/signadot/yamlv/token"
)

// mapper converts Go values into values.
type mapper struct {
	cfg  *mapConfig
	path kpath.KPath
	// visited holds the pointers being converted, with their paths, to
	// detect cycles.
	visited map[uintptr]kpath.KPath
}

func newMapper(opts []MapOption) *mapper {
	return &mapper{cfg: newMapConfig(opts), visited: map[uintptr]kpath.KPath{}}
}

func (m *mapper) fail(format string, args ...any) error {
	return ir.NewError(ir.KindMessage, token.Location{}, fmt.Sprintf(format, args...)).WithPath(m.path)
}

func (m *mapper) wrap(err error) error {
	if e, ok := err.(*ir.Error); ok {
		if e.Path == nil {
			return e.WithPath(m.path)
		}
		return e
	}
	return ir.WrapError(ir.KindMessage, token.Location{}, err).WithPath(m.path)
}

// addr returns a pointer to rv, copying rv if it is not addressable.
func addr(rv reflect.Value) reflect.Value {
	if rv.CanAddr() {
		return rv.Addr()
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return p
}

// enter marks the pointer of rv as being converted. It fails if it
// already is.
func (m *mapper) enter(rv reflect.Value) (func(), error) {
	ptr := rv.Pointer()
	if prev, seen := m.visited[ptr]; seen {
		return nil, m.fail("cycle: %s refers back to %s", m.path, prev)
	}
	m.visited[ptr] = m.path
	return func() { delete(m.visited, ptr) }, nil
}

func (m *mapper) value(rv reflect.Value) (*ir.Value, error) {
	if !rv.IsValid() {
		return ir.Null(), nil
	}
	t := rv.Type()
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(specialType) {
		return addr(rv).Interface().(special).mapSpecial(m)
	}
	switch ShapeOf(t) {
	case ShapeValue:
		switch t {
		case valuePtrType:
			v := rv.Interface().(*ir.Value)
			if v == nil {
				return ir.Null(), nil
			}
			return v.Clone(), nil
		case valueType:
			return addr(rv).Interface().(*ir.Value).Clone(), nil
		}
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return m.value(rv.Elem())
	case ShapeCustom:
		p, ok := addr(rv).Interface().(ValueMarshaler)
		if !ok {
			return nil, m.fail("%s cannot be written as a value", t)
		}
		v, err := p.ToYAMLValue()
		if err != nil {
			return nil, m.wrap(err)
		}
		if v == nil {
			return ir.Null(), nil
		}
		return v, nil
	case ShapeText:
		p, ok := addr(rv).Interface().(encoding.TextMarshaler)
		if !ok {
			return nil, m.fail("%s cannot be written as text", t)
		}
		d, err := p.MarshalText()
		if err != nil {
			return nil, m.wrap(err)
		}
		return ir.FromString(string(d)), nil
	case ShapeNull:
		return ir.Null(), nil
	case ShapeBool:
		return ir.FromBool(rv.Bool()), nil
	case ShapeInt:
		return ir.FromInt(rv.Int()), nil
	case ShapeUint:
		return ir.FromUint(rv.Uint()), nil
	case ShapeFloat:
		f := rv.Float()
		if t.Kind() == reflect.Float32 {
			// shortest float32 text, so 0.1 stays 0.1
			f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'g', -1, 32), 64)
		}
		return ir.FromFloat(f), nil
	case ShapeString:
		return ir.FromString(rv.String()), nil
	case ShapeBytes:
		return ir.Tagged(ir.TagBinary, ir.FromString(base64.StdEncoding.EncodeToString(rv.Bytes()))), nil
	case ShapeOptional:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		leave, err := m.enter(rv)
		if err != nil {
			return nil, err
		}
		defer leave()
		return m.value(rv.Elem())
	case ShapeSequence:
		return m.sequence(rv)
	case ShapeMap:
		return m.mapping(rv)
	case ShapeStruct:
		return m.structure(rv)
	case ShapeEnum:
		return m.enum(rv)
	case ShapeNewtype:
		info, _ := getStructInfo(t)
		return m.value(rv.FieldByIndex(info.newtype.index))
	}
	if t.Kind() == reflect.Struct {
		if _, err := getStructInfo(t); err != nil {
			return nil, m.fail("%v", err)
		}
	}
	return nil, m.fail("cannot write %s as a value", t)
}

func (m *mapper) sequence(rv reflect.Value) (*ir.Value, error) {
	if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		leave, err := m.enter(rv)
		if err != nil {
			return nil, err
		}
		defer leave()
	}
	seq := make([]*ir.Value, rv.Len())
	parent := m.path
	defer func() { m.path = parent }()
	for i := range seq {
		m.path = parent.WithIndex(i)
		e, err := m.value(rv.Index(i))
		if err != nil {
			return nil, err
		}
		seq[i] = e
	}
	return ir.FromSlice(seq), nil
}

// mapping writes the entries of a Go map sorted by key.
func (m *mapper) mapping(rv reflect.Value) (*ir.Value, error) {
	if rv.Len() > 0 {
		leave, err := m.enter(rv)
		if err != nil {
			return nil, err
		}
		defer leave()
	}
	parent := m.path
	defer func() { m.path = parent }()
	kvs := make([]ir.KeyVal, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m.path = parent.WithUnknown()
		k, err := m.value(iter.Key())
		if err != nil {
			return nil, err
		}
		m.path = keyPath(parent, k)
		v, err := m.value(iter.Value())
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: k, Val: v})
	}
	slices.SortFunc(kvs, func(a, b ir.KeyVal) int { return ir.Compare(a.Key, b.Key) })
	res := ir.NewMappingCap(len(kvs))
	for _, kv := range kvs {
		if _, dup := res.Insert(kv.Key, kv.Val); dup {
			m.path = keyPath(parent, kv.Key)
			return nil, m.fail("map %s has keys with the same value %s", rv.Type(), describeKey(kv.Key))
		}
	}
	return ir.FromMapping(res), nil
}

func isEmpty(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return rv.IsZero()
}

// structure writes fields in declaration order, then the entries of an
// inline map sorted by key.
func (m *mapper) structure(rv reflect.Value) (*ir.Value, error) {
	info, err := getStructInfo(rv.Type())
	if err != nil {
		return nil, m.fail("%v", err)
	}
	parent := m.path
	defer func() { m.path = parent }()
	res := ir.NewMappingCap(len(info.fields))
	for _, f := range info.fields {
		fv := rv.FieldByIndex(f.index)
		if (f.omitEmpty || m.cfg.omitEmpty) && isEmpty(fv) {
			continue
		}
		m.path = parent.WithField(f.name)
		v, err := m.value(fv)
		if err != nil {
			return nil, err
		}
		res.InsertField(f.name, v)
	}
	if info.inlineMap == nil {
		return ir.FromMapping(res), nil
	}
	mv := rv.FieldByIndex(info.inlineMap.index)
	keys := mv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	for _, k := range keys {
		name := k.String()
		m.path = parent.WithField(name)
		if res.Has(ir.FromString(name)) {
			return nil, m.fail("inline key %s collides with a field", quote(name))
		}
		v, err := m.value(mv.MapIndex(k))
		if err != nil {
			return nil, err
		}
		res.InsertField(name, v)
	}
	return ir.FromMapping(res), nil
}

// enum writes the variant which is set, as its name when it has no value
// and as "!Name value" otherwise.
func (m *mapper) enum(rv reflect.Value) (*ir.Value, error) {
	info, _ := getStructInfo(rv.Type())
	var set *fieldInfo
	for _, f := range info.fields {
		if rv.FieldByIndex(f.index).IsNil() {
			continue
		}
		if set != nil {
			return nil, m.fail("%s has variants %s and %s both set", rv.Type(), set.name, f.name)
		}
		set = f
	}
	if set == nil {
		return nil, m.fail("%s has no variant set", rv.Type())
	}
	if isUnit(set.typ) {
		return ir.FromString(set.name), nil
	}
	parent := m.path
	defer func() { m.path = parent }()
	m.path = parent.WithField(set.name)
	v, err := m.value(rv.FieldByIndex(set.index))
	if err != nil {
		return nil, err
	}
	if v.Kind() == ir.TaggedType {
		return nil, m.fail("variant %s of %s is already tagged %s", set.name, rv.Type(), v.Tag)
	}
	return ir.Tagged("!"+set.name, v), nil
}
