package gomap

import (
	"github.com/signadot/yamlv/encode"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
	"github.com/signadot/yamlv/parse"
)

// MapOption is an option for controlling the mapping process from Go to values.
type MapOption interface {
	applyMap(*mapConfig)
}

// UnmapOption is an option for controlling the unmapping process from values to Go.
type UnmapOption interface {
	applyUnmap(*unmapConfig)
}

// FieldTransformer rewrites a value before it is converted into a field or
// element. Returning nil keeps the value.
type FieldTransformer func(*ir.Value) (*ir.Value, error)

type mapConfig struct {
	// EncodeOptions to pass through to encode.Encode
	EncodeOptions []encode.EncodeOption
	omitEmpty     bool
}

type unmapConfig struct {
	// ParseOptions to pass through to parse.Parse
	ParseOptions []parse.ParseOption
	denyUnknown  bool
	onUnusedKey  func(kpath.KPath, *ir.Value)
	transform    FieldTransformer
}

func newMapConfig(opts []MapOption) *mapConfig {
	cfg := &mapConfig{}
	for _, opt := range opts {
		opt.applyMap(cfg)
	}
	return cfg
}

func newUnmapConfig(opts []UnmapOption) *unmapConfig {
	cfg := &unmapConfig{}
	for _, opt := range opts {
		opt.applyUnmap(cfg)
	}
	return cfg
}

type mapOptionFunc func(*mapConfig)

func (f mapOptionFunc) applyMap(cfg *mapConfig) { f(cfg) }

type unmapOptionFunc func(*unmapConfig)

func (f unmapOptionFunc) applyUnmap(cfg *unmapConfig) { f(cfg) }

// WithEncodeOptions passes options to the encoder used by Marshal and
// Encoder.
func WithEncodeOptions(opts ...encode.EncodeOption) MapOption {
	return mapOptionFunc(func(cfg *mapConfig) {
		cfg.EncodeOptions = append(cfg.EncodeOptions, opts...)
	})
}

// OmitEmpty treats every struct field as if it had the omitempty option.
func OmitEmpty() MapOption {
	return mapOptionFunc(func(cfg *mapConfig) { cfg.omitEmpty = true })
}

// WithParseOptions passes options to the parser used by Unmarshal and
// Decoder.
func WithParseOptions(opts ...parse.ParseOption) UnmapOption {
	return unmapOptionFunc(func(cfg *unmapConfig) {
		cfg.ParseOptions = append(cfg.ParseOptions, opts...)
	})
}

// DenyUnknownFields makes mapping keys matching no struct field an error.
func DenyUnknownFields() UnmapOption {
	return unmapOptionFunc(func(cfg *unmapConfig) { cfg.denyUnknown = true })
}

// OnUnusedKey registers f to be called with the path and key of every
// mapping key matching no struct field. It is not called for keys
// rejected as unknown.
func OnUnusedKey(f func(path kpath.KPath, key *ir.Value)) UnmapOption {
	return unmapOptionFunc(func(cfg *unmapConfig) { cfg.onUnusedKey = f })
}

// WithFieldTransformer applies f to every value before it is converted,
// except inside Verbatim.
func WithFieldTransformer(f FieldTransformer) UnmapOption {
	return unmapOptionFunc(func(cfg *unmapConfig) { cfg.transform = f })
}

// ToEncodeOptions extracts EncodeOptions from a slice of MapOptions.
func ToEncodeOptions(opts ...MapOption) []encode.EncodeOption {
	return newMapConfig(opts).EncodeOptions
}

// ToParseOptions extracts ParseOptions from a slice of UnmapOptions.
func ToParseOptions(opts ...UnmapOption) []parse.ParseOption {
	return newUnmapConfig(opts).ParseOptions
}
