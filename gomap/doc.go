// Package gomap converts between Go values and [ir.Value] trees.
//
// Conversion is reflection based. Each Go type has a [Shape] which decides
// how it is read from and written to a value: booleans, integers, floats,
// strings, bytes, optionals (pointers), sequences, maps, structs, enums
// and newtypes.
//
// Struct fields are matched by exact, case-sensitive name. The name comes
// from the field's yaml tag or, without one, from the Go field name:
//
//	type Server struct {
//	    Host    string            `yaml:"host"`
//	    Port    int               `yaml:"port,omitempty"`
//	    Labels  map[string]string `yaml:"labels"`
//	    Common  `yaml:",inline"`
//	    _       struct{}          `yaml:",strict"`
//	}
//
// Tag options:
//   - omitempty: skip the field when writing if it is empty
//   - inline: promote the fields of a struct, or collect unmatched keys
//     in a map[string]T
//   - variant: the field is one variant of an enum (see below)
//   - newtype: the struct is converted as this, its only field
//   - strict, on a blank field: unknown keys are errors for this struct
//
// A struct whose fields all carry the variant option is an enum. Exactly
// one field is set. A variant holding a value is written as "!Name value",
// and a unit variant (a *struct{} field) as the plain string "Name". Both
// "!Name value" and the single entry mapping "{Name: value}" are accepted
// when reading.
//
// Types may take over their own conversion by implementing
// [ValueMarshaler] or [ValueUnmarshaler]. Otherwise types implementing
// encoding.TextMarshaler and encoding.TextUnmarshaler are written and read
// as strings. []byte is written as base64 tagged !!binary.
//
// The wrappers [Spanned], [ShouldBe] and [Verbatim] give a field access to
// the source location, capture conversion errors, and opt out of the field
// transformer respectively.
//
// # Related Packages
//
//   - github.com/signadot/yamlv/ir - the value model
//   - github.com/signadot/yamlv/parse - YAML text to values
//   - github.com/signadot/yamlv/encode - values to YAML text
package gomap
