// Package encode writes [ir.Value] trees as YAML text.
//
// Values are turned into stream events and the events are written by
// [stream.Encoder]. Collections are written in block style unless they
// are empty or [Compact] is set. Scalar styles are chosen so that parsing
// the output gives back an equal value:
//
//	v := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: ir.FromString("name"), Val: ir.FromString("true")},
//	    {Key: ir.FromString("port"), Val: ir.FromInt(8080)},
//	})
//	err := encode.Encode(v, os.Stdout)
//	// name: 'true'
//	// port: 8080
//
// Anchors are never written: a value occurring several times is written
// in full each time.
//
// # Related Packages
//
//   - github.com/signadot/yamlv/parse - parse YAML into values
//   - github.com/signadot/yamlv/stream - the event layer
package encode
