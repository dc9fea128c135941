// Package token holds source positions and the small text helpers shared by
// the scanner adapter and path rendering.
//
// A [Location] is a byte offset plus a 1-based line and column. The external
// scanner reports lines and columns only; a [LineIndex] built over the source
// bytes recovers the byte offset.
package token
