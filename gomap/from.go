package gomap

import (
	"encoding"
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/yamlv/debug"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
)

// unmapper converts values into Go values. path is the structural path of
// the value being converted.
type unmapper struct {
	cfg  *unmapConfig
	path kpath.KPath
	// verbatim is non-zero inside a Verbatim.
	verbatim int
	// last is the most recent transformer result, so that a value passed
	// down unchanged (through a pointer or a newtype) is not transformed
	// twice.
	last *ir.Value
}

func newUnmapper(opts []UnmapOption) *unmapper {
	return &unmapper{cfg: newUnmapConfig(opts)}
}

// at sets the path for a child and returns a function restoring it.
func (u *unmapper) at(p kpath.KPath) func() {
	old := u.path
	u.path = p
	return func() { u.path = old }
}

func (u *unmapper) fail(v *ir.Value, format string, args ...any) error {
	return ir.NewError(ir.KindMessage, v.Loc, fmt.Sprintf(format, args...)).WithPath(u.path)
}

func (u *unmapper) typeError(v *ir.Value, t reflect.Type) error {
	actual := describe(v)
	msg := fmt.Sprintf("cannot read %s into %s", actual, t)
	if s, ok := v.Untag().AsStr(); ok {
		msg = fmt.Sprintf("cannot read string %s into %s", quote(s), t)
	}
	return &TypeError{
		Expected: t.String(),
		Actual:   actual,
		Err:      ir.NewError(ir.KindMessage, v.Loc, msg).WithPath(u.path),
	}
}

func (u *unmapper) numberError(v *ir.Value, format string, args ...any) error {
	return ir.NewError(ir.KindInvalidNumber, v.Loc, fmt.Sprintf(format, args...)).WithPath(u.path)
}

// wrap attaches the current path and the location of v to an error from
// user code.
func (u *unmapper) wrap(v *ir.Value, err error) error {
	var te *TypeError
	if errors.As(err, &te) {
		return err
	}
	if e, ok := err.(*ir.Error); ok {
		if e.Path == nil {
			e = e.WithPath(u.path)
		}
		return e.WithLoc(v.Loc)
	}
	e := ir.WrapError(ir.KindMessage, v.Loc, err)
	return e.WithPath(u.path)
}

func (u *unmapper) transform(v *ir.Value) (*ir.Value, error) {
	if u.cfg.transform == nil || u.verbatim > 0 || v == u.last {
		return v, nil
	}
	res, err := u.cfg.transform(v)
	if err != nil {
		return nil, u.wrap(v, err)
	}
	if res == nil {
		res = v
	} else if res.Loc.IsZero() {
		res.Loc = v.Loc
	}
	u.last = res
	return res, nil
}

// value converts v into rv, which must be settable.
func (u *unmapper) value(v *ir.Value, rv reflect.Value) error {
	if v == nil {
		v = ir.Null()
	}
	if s, ok := rv.Addr().Interface().(special); ok {
		return s.unmapSpecial(u, v)
	}
	v, err := u.transform(v)
	if err != nil {
		return err
	}
	t := rv.Type()
	shape := ShapeOf(t)
	switch shape {
	case ShapeValue:
		return u.toValue(v, rv)
	case ShapeCustom:
		p, ok := rv.Addr().Interface().(ValueUnmarshaler)
		if !ok {
			return u.fail(v, "%s cannot be read from a value", t)
		}
		if err := p.FromYAMLValue(v.Clone()); err != nil {
			return u.wrap(v, err)
		}
		return nil
	case ShapeText:
		return u.text(v, rv)
	case ShapeOptional:
		if v.Untag().IsNull() {
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(t.Elem()))
		}
		return u.value(v, rv.Elem())
	case ShapeEnum:
		return u.enum(v, rv)
	case ShapeNewtype:
		info, _ := getStructInfo(t)
		return u.value(v, rv.FieldByIndex(info.newtype.index))
	case ShapeInvalid:
		if t.Kind() == reflect.Struct {
			if _, err := getStructInfo(t); err != nil {
				return u.fail(v, "%v", err)
			}
		}
		return u.fail(v, "cannot read a value into %s", t)
	case ShapeBytes:
		if tag, _, ok := v.AsTagged(); ok && tag == ir.TagBinary {
			return u.binary(v, rv)
		}
	}
	return u.convert(v.Untag(), rv, shape)
}

func (u *unmapper) toValue(v *ir.Value, rv reflect.Value) error {
	switch rv.Type() {
	case valuePtrType:
		rv.Set(reflect.ValueOf(v.Clone()))
	case valueType:
		rv.Set(reflect.ValueOf(v.Clone()).Elem())
	default:
		x, err := ir.ToAny(v)
		if err != nil {
			return u.wrap(v, err)
		}
		if x == nil {
			rv.SetZero()
			return nil
		}
		rv.Set(reflect.ValueOf(x))
	}
	return nil
}

// text reads strings, and the text of numbers and booleans, through
// encoding.TextUnmarshaler.
func (u *unmapper) text(v *ir.Value, rv reflect.Value) error {
	p, ok := rv.Addr().Interface().(encoding.TextUnmarshaler)
	if !ok {
		return u.fail(v, "%s cannot be read from text", rv.Type())
	}
	uv := v.Untag()
	var text string
	switch uv.Kind() {
	case ir.StringType:
		text = uv.String
	case ir.NumberType:
		text = uv.Number.String()
	case ir.BoolType:
		text = fmt.Sprint(uv.Bool)
	default:
		return u.typeError(v, rv.Type())
	}
	if err := p.UnmarshalText([]byte(text)); err != nil {
		return u.wrap(v, err)
	}
	return nil
}

// convert handles the shapes which look through tags. v is untagged.
func (u *unmapper) convert(v *ir.Value, rv reflect.Value, shape Shape) error {
	t := rv.Type()
	switch shape {
	case ShapeNull:
		if !v.IsNull() && !(v.Kind() == ir.MappingType && v.Mapping.Len() == 0) {
			return u.typeError(v, t)
		}
		return nil
	case ShapeBool:
		b, ok := v.AsBool()
		if !ok {
			return u.typeError(v, t)
		}
		rv.SetBool(b)
		return nil
	case ShapeInt:
		n, ok := v.AsNumber()
		if !ok || !n.IsInteger() {
			return u.typeError(v, t)
		}
		i, ok := n.AsI64()
		if !ok || rv.OverflowInt(i) {
			return u.numberError(v, "%s overflows %s", n, t)
		}
		rv.SetInt(i)
		return nil
	case ShapeUint:
		n, ok := v.AsNumber()
		if !ok || !n.IsInteger() {
			return u.typeError(v, t)
		}
		x, ok := n.AsU64()
		if !ok {
			if n.IsI64() {
				return u.numberError(v, "negative %s for %s", n, t)
			}
			return u.numberError(v, "%s overflows %s", n, t)
		}
		if rv.OverflowUint(x) {
			return u.numberError(v, "%s overflows %s", n, t)
		}
		rv.SetUint(x)
		return nil
	case ShapeFloat:
		n, ok := v.AsNumber()
		if !ok {
			return u.typeError(v, t)
		}
		f, ok := n.AsF64()
		if !ok {
			return u.numberError(v, "%s has no exact %s representation", n, t)
		}
		if rv.OverflowFloat(f) {
			return u.numberError(v, "%s overflows %s", n, t)
		}
		rv.SetFloat(f)
		return nil
	case ShapeString:
		s, ok := v.AsStr()
		if !ok {
			return u.typeError(v, t)
		}
		rv.SetString(s)
		return nil
	case ShapeBytes:
		return u.bytes(v, rv)
	case ShapeSequence:
		return u.sequence(v, rv)
	case ShapeMap:
		return u.mapping(v, rv)
	case ShapeStruct:
		return u.structure(v, rv)
	}
	return u.fail(v, "cannot read a value into %s", t)
}

// bytes reads !!binary base64 text, a plain string, or a sequence of
// small integers.
func (u *unmapper) bytes(v *ir.Value, rv reflect.Value) error {
	if v.IsNull() {
		rv.SetZero()
		return nil
	}
	if v.Kind() == ir.SequenceType {
		return u.sequence(v, rv)
	}
	s, ok := v.AsStr()
	if !ok {
		return u.typeError(v, rv.Type())
	}
	rv.SetBytes([]byte(s))
	return nil
}

func (u *unmapper) binary(v *ir.Value, rv reflect.Value) error {
	s, ok := v.Inner.AsStr()
	if !ok {
		return u.fail(v, "!!binary needs base64 text, not %s", describe(v.Inner))
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	d, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return u.fail(v, "invalid !!binary: %v", err)
	}
	rv.SetBytes(d)
	return nil
}

func (u *unmapper) sequence(v *ir.Value, rv reflect.Value) error {
	t := rv.Type()
	if v.IsNull() && t.Kind() == reflect.Slice {
		rv.SetZero()
		return nil
	}
	seq, ok := v.AsSequence()
	if !ok {
		return u.typeError(v, t)
	}
	if t.Kind() == reflect.Array {
		if len(seq) != t.Len() {
			return u.fail(v, "expected %d elements for %s, got %d", t.Len(), t, len(seq))
		}
	} else {
		rv.Set(reflect.MakeSlice(t, len(seq), len(seq)))
	}
	parent := u.path
	defer u.at(parent)()
	for i, e := range seq {
		u.path = parent.WithIndex(i)
		if err := u.value(e, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func keyPath(p kpath.KPath, k *ir.Value) kpath.KPath {
	if s, ok := k.Untag().AsStr(); ok {
		return p.WithField(s)
	}
	return p.WithUnknown()
}

func (u *unmapper) mapping(v *ir.Value, rv reflect.Value) error {
	t := rv.Type()
	if v.IsNull() {
		rv.SetZero()
		return nil
	}
	m, ok := v.AsMapping()
	if !ok {
		return u.typeError(v, t)
	}
	res := reflect.MakeMapWithSize(t, m.Len())
	parent := u.path
	defer u.at(parent)()
	for k, val := range m.All() {
		u.path = keyPath(parent, k)
		kv := reflect.New(t.Key()).Elem()
		// keys are not transformed
		u.verbatim++
		err := u.value(k, kv)
		u.verbatim--
		if err != nil {
			return err
		}
		if !kv.Comparable() {
			return u.fail(k, "mapping key %s cannot be a key of %s", describe(k), t)
		}
		ev := reflect.New(t.Elem()).Elem()
		if err := u.value(val, ev); err != nil {
			return err
		}
		res.SetMapIndex(kv, ev)
	}
	rv.Set(res)
	return nil
}

func (u *unmapper) structure(v *ir.Value, rv reflect.Value) error {
	t := rv.Type()
	info, err := getStructInfo(t)
	if err != nil {
		return u.fail(v, "%v", err)
	}
	m, ok := v.AsMapping()
	if !ok {
		return u.typeError(v, t)
	}
	strict := info.strict || u.cfg.denyUnknown
	parent := u.path
	defer u.at(parent)()
	seen := make(map[string]bool, len(info.fields))
	for k, val := range m.All() {
		name, isStr := k.Untag().AsStr()
		var f *fieldInfo
		if isStr {
			f = info.byName[name]
		}
		if f != nil {
			seen[f.name] = true
			u.path = parent.WithField(f.name)
			if err := u.value(val, rv.FieldByIndex(f.index)); err != nil {
				return err
			}
			continue
		}
		if isStr && info.inlineMap != nil {
			u.path = parent.WithField(name)
			if err := u.inline(name, val, rv.FieldByIndex(info.inlineMap.index)); err != nil {
				return err
			}
			continue
		}
		if strict {
			u.path = keyPath(parent, k)
			return u.fail(k, "unknown field %s in %s", describeKey(k), t)
		}
		if debug.Map() {
			debug.Logf("unused key %s in %s at %s", describeKey(k), t, k.Loc)
		}
		if u.cfg.onUnusedKey != nil {
			u.cfg.onUnusedKey(parent, k)
		}
	}
	u.path = parent
	for _, f := range info.fields {
		if !f.optional && !seen[f.name] {
			return u.fail(v, "missing field %s in %s", quote(f.name), t)
		}
	}
	return nil
}

func (u *unmapper) inline(name string, val *ir.Value, mv reflect.Value) error {
	if mv.IsNil() {
		mv.Set(reflect.MakeMap(mv.Type()))
	}
	ev := reflect.New(mv.Type().Elem()).Elem()
	if err := u.value(val, ev); err != nil {
		return err
	}
	mv.SetMapIndex(reflect.ValueOf(name).Convert(mv.Type().Key()), ev)
	return nil
}

// enum reads "!Name value", "{Name: value}", or "Name" for a variant
// without a value. The other variants are cleared.
func (u *unmapper) enum(v *ir.Value, rv reflect.Value) error {
	t := rv.Type()
	info, _ := getStructInfo(t)
	var (
		name    string
		payload *ir.Value
	)
	uv := v
	if v.Kind() != ir.TaggedType || ir.IsCoreTag(v.Tag) {
		uv = v.Untag()
	}
	switch uv.Kind() {
	case ir.TaggedType:
		name, payload = strings.TrimPrefix(uv.Tag, "!"), uv.Inner
	case ir.StringType:
		name = uv.String
	case ir.MappingType:
		if uv.Mapping.Len() != 1 {
			return u.fail(v, "%s needs a mapping with one entry, got %d", t, uv.Mapping.Len())
		}
		for k, val := range uv.Mapping.All() {
			s, ok := k.Untag().AsStr()
			if !ok {
				return u.fail(k, "%s variant name must be a string, not %s", t, describe(k))
			}
			name, payload = s, val
		}
	default:
		return u.typeError(v, t)
	}
	f := info.byName[name]
	if f == nil {
		return u.fail(v, "unknown variant %s of %s", quote(name), t)
	}
	for _, g := range info.fields {
		rv.FieldByIndex(g.index).SetZero()
	}
	fv := rv.FieldByIndex(f.index)
	unit := isUnit(f.typ)
	switch {
	case payload == nil && unit:
		fv.Set(reflect.New(f.typ.Elem()))
		return nil
	case payload == nil:
		return u.fail(v, "variant %s of %s needs a value", name, t)
	case unit:
		if !payload.Untag().IsNull() {
			return u.fail(payload, "variant %s of %s takes no value", name, t)
		}
		fv.Set(reflect.New(f.typ.Elem()))
		return nil
	}
	defer u.at(u.path)()
	u.path = u.path.WithField(name)
	return u.value(payload, fv)
}

func describeKey(k *ir.Value) string {
	if s, ok := k.Untag().AsStr(); ok {
		return quote(s)
	}
	return describe(k)
}

func quote(s string) string {
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return fmt.Sprintf("%q", s)
}
