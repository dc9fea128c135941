// Package debug provides environment controlled debug switches and the
// logger used to report what they enable.
//
// Each switch is read once at start up from an environment variable holding
// a boolean, for example
//
//	YAMLV_DEBUG_ANCHORS=1 yv fmt config.yaml
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Anchors bool
	Encode  bool
	Map     bool
	Eval    bool
	Stream  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("YAMLV_DEBUG_PARSE")
	d.Anchors = boolEnv("YAMLV_DEBUG_ANCHORS")
	d.Encode = boolEnv("YAMLV_DEBUG_ENCODE")
	d.Map = boolEnv("YAMLV_DEBUG_MAP")
	d.Eval = boolEnv("YAMLV_DEBUG_EVAL")
	d.Stream = boolEnv("YAMLV_DEBUG_STREAM")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Parse reports scalar resolution and merge expansion in the parser.
func Parse() bool {
	return d.Parse
}

// Anchors reports anchor registration and alias expansion.
func Anchors() bool {
	return d.Anchors
}

// Encode reports the style chosen for each emitted scalar.
func Encode() bool {
	return d.Encode
}

// Map reports typed conversion decisions, such as unknown keys.
func Map() bool {
	return d.Map
}

func Eval() bool {
	return d.Eval
}

// Stream reports every event read or written by the stream package.
func Stream() bool {
	return d.Stream
}
