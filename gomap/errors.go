package gomap

import (
	"github.com/signadot/yamlv/ir"
)

// TypeError is a value of the wrong type for its target. It unwraps to
// an *ir.Error carrying the location and structural path.
type TypeError struct {
	Expected string
	Actual   string
	Err      *ir.Error
}

func (e *TypeError) Error() string {
	return e.Err.Error()
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// describe names the type of v for error messages.
func describe(v *ir.Value) string {
	switch v.Kind() {
	case ir.NumberType:
		if v.Number.IsInteger() {
			return "integer"
		}
		return "float"
	case ir.TaggedType:
		return v.Tag + " " + describe(v.Inner)
	}
	return v.Kind().String()
}
