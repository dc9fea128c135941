package gomap

import (
	"encoding"
	"reflect"

	"github.com/signadot/yamlv/ir"
)

// Shape is what a Go type accepts when read from a value, and what it
// produces when written.
type Shape int

const (
	ShapeInvalid Shape = iota
	// ShapeValue is *ir.Value, ir.Value or an empty interface.
	ShapeValue
	// ShapeCustom is a type with its own conversion methods.
	ShapeCustom
	// ShapeText is a type read and written as a string through
	// encoding.TextUnmarshaler and encoding.TextMarshaler.
	ShapeText
	// ShapeNull is struct{}.
	ShapeNull
	ShapeBool
	ShapeInt
	ShapeUint
	ShapeFloat
	ShapeString
	ShapeBytes
	// ShapeOptional is a pointer: null or a value of the element's shape.
	ShapeOptional
	ShapeSequence
	ShapeMap
	ShapeStruct
	ShapeEnum
	ShapeNewtype
)

var shapeNames = [...]string{
	ShapeInvalid:  "invalid",
	ShapeValue:    "value",
	ShapeCustom:   "custom",
	ShapeText:     "text",
	ShapeNull:     "null",
	ShapeBool:     "bool",
	ShapeInt:      "int",
	ShapeUint:     "uint",
	ShapeFloat:    "float",
	ShapeString:   "string",
	ShapeBytes:    "bytes",
	ShapeOptional: "optional",
	ShapeSequence: "sequence",
	ShapeMap:      "map",
	ShapeStruct:   "struct",
	ShapeEnum:     "enum",
	ShapeNewtype:  "newtype",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

var (
	valuePtrType         = reflect.TypeFor[*ir.Value]()
	valueType            = reflect.TypeFor[ir.Value]()
	textMarshalerType    = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType  = reflect.TypeFor[encoding.TextUnmarshaler]()
	valueMarshalerType   = reflect.TypeFor[ValueMarshaler]()
	valueUnmarshalerType = reflect.TypeFor[ValueUnmarshaler]()
	specialType          = reflect.TypeFor[special]()
)

// ShapeOf returns the shape of t.
func ShapeOf(t reflect.Type) Shape {
	if t == valuePtrType || t == valueType {
		return ShapeValue
	}
	if t.Kind() != reflect.Pointer {
		pt := reflect.PointerTo(t)
		switch {
		case pt.Implements(valueMarshalerType), pt.Implements(valueUnmarshalerType), pt.Implements(specialType):
			return ShapeCustom
		case pt.Implements(textMarshalerType), pt.Implements(textUnmarshalerType):
			return ShapeText
		}
	}
	return kindShape(t)
}

// kindShape is the shape of t ignoring conversion methods.
func kindShape(t reflect.Type) Shape {
	switch t.Kind() {
	case reflect.Bool:
		return ShapeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ShapeInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ShapeUint
	case reflect.Float32, reflect.Float64:
		return ShapeFloat
	case reflect.String:
		return ShapeString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return ShapeBytes
		}
		return ShapeSequence
	case reflect.Array:
		return ShapeSequence
	case reflect.Map:
		return ShapeMap
	case reflect.Pointer:
		return ShapeOptional
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return ShapeValue
		}
	case reflect.Struct:
		info, err := getStructInfo(t)
		switch {
		case err != nil:
			return ShapeInvalid
		case info.enum:
			return ShapeEnum
		case info.newtype != nil:
			return ShapeNewtype
		case t.NumField() == 0:
			return ShapeNull
		}
		return ShapeStruct
	}
	return ShapeInvalid
}

// isUnit reports whether t is *struct{}, the type of a variant without a
// value.
func isUnit(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}
