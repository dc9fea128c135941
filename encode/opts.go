package encode

import "github.com/signadot/yamlv/stream"

type EncodeOption func(*EncState)

// Compact writes every collection in flow style.
func Compact(v bool) EncodeOption {
	return func(es *EncState) { es.compact = v }
}

// Indent sets the indentation of nested block collections.
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// ExplicitDocumentStart writes "---" before every document, including the
// first.
func ExplicitDocumentStart(v bool) EncodeOption {
	return func(es *EncState) { es.explicitStart = v }
}

func (es *EncState) streamOptions() []stream.StreamOption {
	return []stream.StreamOption{
		stream.StreamIndent(es.indent),
		stream.StreamExplicitStart(es.explicitStart),
	}
}
