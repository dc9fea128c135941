package parse

import "github.com/signadot/yamlv/stream"

const (
	DefaultMaxDepth          = 128
	DefaultMaxAliasExpansion = 1_000_000
)

type parseOpts struct {
	maxDepth     int
	maxExpansion int
	mergeKeys    bool
	onDuplicate  func(*DuplicateKey) DuplicateKeyAction
	streamOpts   []stream.StreamOption
}

func defaultParseOpts() *parseOpts {
	return &parseOpts{
		maxDepth:     DefaultMaxDepth,
		maxExpansion: DefaultMaxAliasExpansion,
		mergeKeys:    true,
	}
}

type ParseOption func(*parseOpts)

// MaxDepth bounds the nesting of collections, counting collections copied
// in by aliases.
func MaxDepth(n int) ParseOption {
	return func(o *parseOpts) { o.maxDepth = n }
}

// MaxAliasExpansion bounds the number of values copied by alias expansion
// in one document.
func MaxAliasExpansion(n int) ParseOption {
	return func(o *parseOpts) { o.maxExpansion = n }
}

// MergeKeys controls whether "<<" keys are expanded. When off, they are
// kept as ordinary keys.
func MergeKeys(v bool) ParseOption {
	return func(o *parseOpts) { o.mergeKeys = v }
}

// OnDuplicateKey sets the policy for keys occurring twice in a mapping.
// Without it duplicates are errors.
func OnDuplicateKey(f func(*DuplicateKey) DuplicateKeyAction) ParseOption {
	return func(o *parseOpts) { o.onDuplicate = f }
}

// ParseStreamOptions passes options to the scanner when parsing bytes.
func ParseStreamOptions(opts ...stream.StreamOption) ParseOption {
	return func(o *parseOpts) { o.streamOpts = append(o.streamOpts, opts...) }
}
