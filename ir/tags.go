package ir

import "strings"

// Core schema tags in their short form.
const (
	TagNull      = "!!null"
	TagBool      = "!!bool"
	TagInt       = "!!int"
	TagFloat     = "!!float"
	TagStr       = "!!str"
	TagTimestamp = "!!timestamp"
	TagBinary    = "!!binary"
	TagSeq       = "!!seq"
	TagMap       = "!!map"
	TagMerge     = "!!merge"
)

const coreTagPrefix = "tag:yaml.org,2002:"

// NormalizeTag returns tag in short form. Verbatim and long forms of core
// tags become "!!name", and a tag without a leading '!' gets one.
func NormalizeTag(tag string) string {
	if strings.HasPrefix(tag, "!<") && strings.HasSuffix(tag, ">") {
		tag = tag[2 : len(tag)-1]
	}
	if rest, ok := strings.CutPrefix(tag, coreTagPrefix); ok {
		return "!!" + rest
	}
	if tag == "" || tag[0] == '!' {
		return tag
	}
	return "!" + tag
}

// LongTag returns the expanded form of a core tag, and other tags unchanged.
func LongTag(tag string) string {
	if rest, ok := strings.CutPrefix(tag, "!!"); ok {
		return coreTagPrefix + rest
	}
	return tag
}

// IsCoreTag reports whether tag belongs to the YAML core schema.
func IsCoreTag(tag string) bool {
	return strings.HasPrefix(NormalizeTag(tag), "!!")
}
