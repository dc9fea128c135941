// Package kpath implements structural paths into YAML values.
//
// A path is a sequence of segments: a mapping field (".name"), a sequence
// index ("[2]") or an unknown position ("?"). Paths render as
//
//	.            the root
//	a.b[2]       field a, field b, index 2
//	items[0].?   an unknown position below items[0]
//
// Fields that contain path syntax or white space are quoted.
package kpath
