// Package stream defines the YAML event stream and adapts the external
// scanner and emitter to it.
//
// An event stream for one or more documents looks like
//
//	StreamStart
//	  DocumentStart
//	    MappingStart
//	      Scalar (key) Scalar (value)
//	      Scalar (key) SequenceStart Scalar Alias SequenceEnd
//	    MappingEnd
//	  DocumentEnd
//	StreamEnd
//
// Every event carries the [token.Location] where it starts.
//
// [Decoder] produces events from YAML text and [Encoder] consumes events to
// write YAML text. Both sit on gopkg.in/yaml.v3: the decoder walks the node
// tree yaml.v3 builds for each document and the encoder builds a node tree
// per document for yaml.v3 to emit. Neither resolves anchors, merges or
// scalar types; that is done by the parse and encode packages.
//
// [State] tracks nesting and the structural path of an event stream and
// rejects out of order events.
package stream
