package gomap

import (
	"reflect"

	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/token"
)

// ValueMarshaler is implemented by types writing themselves as a value.
type ValueMarshaler interface {
	ToYAMLValue() (*ir.Value, error)
}

// ValueUnmarshaler is implemented by types reading themselves from a
// value. The value is owned by the callee.
type ValueUnmarshaler interface {
	FromYAMLValue(*ir.Value) error
}

// special is implemented by the wrappers of this package, which need the
// conversion state.
type special interface {
	unmapSpecial(u *unmapper, v *ir.Value) error
	mapSpecial(m *mapper) (*ir.Value, error)
}

// Spanned is a value together with the location it was read from.
type Spanned[T any] struct {
	Value T
	Loc   token.Location
}

func (s *Spanned[T]) unmapSpecial(u *unmapper, v *ir.Value) error {
	s.Loc = v.Loc
	return u.value(v, reflect.ValueOf(&s.Value).Elem())
}

func (s Spanned[T]) mapSpecial(m *mapper) (*ir.Value, error) {
	return m.value(reflect.ValueOf(&s.Value).Elem())
}

// ShouldBe holds a value that should convert to T. When it does not, the
// conversion error and the value are kept instead of failing the
// conversion of the enclosing value.
type ShouldBe[T any] struct {
	Value T
	// Raw and Err are set when the conversion failed.
	Raw *ir.Value
	Err error
}

// OK reports whether the conversion succeeded.
func (s *ShouldBe[T]) OK() bool {
	return s.Err == nil
}

func (s *ShouldBe[T]) unmapSpecial(u *unmapper, v *ir.Value) error {
	var t T
	if err := u.value(v, reflect.ValueOf(&t).Elem()); err != nil {
		*s = ShouldBe[T]{Raw: v.Clone(), Err: err}
		return nil
	}
	*s = ShouldBe[T]{Value: t}
	return nil
}

// mapSpecial writes the raw value back when the conversion failed.
func (s ShouldBe[T]) mapSpecial(m *mapper) (*ir.Value, error) {
	if s.Err != nil && s.Raw != nil {
		return s.Raw.Clone(), nil
	}
	return m.value(reflect.ValueOf(&s.Value).Elem())
}

// Verbatim is converted without applying the field transformer to it or
// anything it contains.
type Verbatim[T any] struct {
	Value T
}

func (s *Verbatim[T]) unmapSpecial(u *unmapper, v *ir.Value) error {
	u.verbatim++
	defer func() { u.verbatim-- }()
	return u.value(v, reflect.ValueOf(&s.Value).Elem())
}

func (s Verbatim[T]) mapSpecial(m *mapper) (*ir.Value, error) {
	return m.value(reflect.ValueOf(&s.Value).Elem())
}
