package stream

// StreamOption configures Encoder/Decoder behavior.
type StreamOption func(*streamOpts)

type streamOpts struct {
	indent        int
	explicitStart bool
}

func defaultStreamOpts() *streamOpts {
	return &streamOpts{indent: 2}
}

// StreamIndent sets the number of spaces the Encoder indents nested block
// collections by.
func StreamIndent(n int) StreamOption {
	return func(opts *streamOpts) {
		opts.indent = n
	}
}

// StreamExplicitStart makes the Encoder write a "---" marker before the
// first document too.
func StreamExplicitStart(v bool) StreamOption {
	return func(opts *streamOpts) {
		opts.explicitStart = v
	}
}
