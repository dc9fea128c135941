// Package ir provides the in-memory value model for YAML documents.
//
// # Values
//
// A [Value] is a tagged union over the YAML data model:
//
//   - NullType: null
//   - BoolType: true or false
//   - NumberType: a [Number], integer or float
//   - StringType: UTF-8 text
//   - SequenceType: an ordered list of values
//   - MappingType: a [Mapping], an insertion ordered map keyed by values
//   - TaggedType: a tag applied to an inner value
//
// Values form trees. Aliases in a parsed document are expanded into
// independent copies, so changing one part of a tree never changes another.
//
// Values are built with constructor functions:
//
//	doc := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: ir.FromString("name"), Val: ir.FromString("web")},
//	    {Key: ir.FromString("ports"), Val: ir.FromSlice([]*ir.Value{
//	        ir.FromInt(80),
//	        ir.FromInt(443),
//	    })},
//	})
//
// and read with accessors that treat a nil *Value as absent:
//
//	port, ok := doc.GetField("ports").Index(1).AsI64()
//
// # Equality, ordering and hashing
//
// [Equal], [Compare] and [Value.Hash] are structural and agree with each
// other, which is what lets any Value serve as a mapping key. Signed and
// unsigned integers with the same value are equal; integers never equal
// floats; NaN equals NaN. Mapping equality ignores entry order.
//
// # Merge keys
//
// The "<<" key merges other mappings into the mapping holding it. See
// [MergeEntries] for the precedence rules and [Value.ApplyMerge] for
// expanding merge keys in values built by a program.
//
// # Errors
//
// [Error] is the error type shared by the parse, encode and gomap packages.
// It carries an [ErrorKind], a source location and a structural path.
package ir
