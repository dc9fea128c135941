// Package eval expands expressions embedded in string scalars.
//
// "$[expr]" anywhere in a string is replaced by the text of the value of
// expr. A string which is exactly ".[expr]" is replaced by the value
// itself, so it may become a number, a sequence or any other value.
// Expressions use the expr language (github.com/expr-lang/expr) and are
// evaluated against an [Env].
//
// [Transformer] plugs expansion into gomap conversion:
//
//	err := gomap.Unmarshal(d, &cfg, gomap.WithFieldTransformer(eval.Transformer(eval.OSEnv())))
//
// # Related Packages
//
//   - github.com/signadot/yamlv/gomap - typed conversion
//   - github.com/signadot/yamlv/ir - the value model
package eval
