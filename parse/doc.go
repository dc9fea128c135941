// Package parse builds [ir.Value] trees from YAML.
//
// The engine reads an event stream (see package stream), resolves anchors
// and aliases into independent copies, expands merge keys and resolves
// scalars to null, booleans, numbers or strings. Each document of a stream
// is decoded separately with its own anchor table.
//
// Decoding is bounded: nesting deeper than [MaxDepth] and alias expansion
// copying more than [MaxAliasExpansion] values both fail instead of
// exhausting the stack or memory.
package parse
