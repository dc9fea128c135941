package parse

import (
	"strconv"

	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/stream"
)

// resolveScalar resolves a scalar event: an explicit core tag decides the
// type, a quoted or block scalar is a string, and a plain scalar is
// resolved from its text. Other tags wrap the untagged resolution.
func resolveScalar(ev *stream.Event) (*ir.Value, error) {
	text := ev.Value
	switch ev.Tag {
	case "":
		if ev.Style.IsQuoted() {
			return ir.FromString(text), nil
		}
		return ir.ResolvePlain(text), nil
	case "!", ir.TagStr, ir.TagTimestamp:
		return ir.FromString(text), nil
	case ir.TagNull:
		if !ir.IsNullText(text) {
			return nil, ir.NewError(ir.KindInvalidTag, ev.Loc, "invalid !!null value "+quote(text))
		}
		return ir.Null(), nil
	case ir.TagBool:
		b, ok := ir.ParseBool(text)
		if !ok {
			return nil, ir.NewError(ir.KindInvalidTag, ev.Loc, "invalid !!bool value "+quote(text))
		}
		return ir.FromBool(b), nil
	case ir.TagInt:
		n, ok := ir.ParseNumber(text)
		if !ok || !n.IsInteger() {
			return nil, ir.NewError(ir.KindInvalidNumber, ev.Loc, "invalid !!int value "+quote(text))
		}
		return ir.FromNumber(n), nil
	case ir.TagFloat:
		n, ok := ir.ParseNumber(text)
		if !ok {
			return nil, ir.NewError(ir.KindInvalidNumber, ev.Loc, "invalid !!float value "+quote(text))
		}
		return ir.FromFloat(toFloat(n)), nil
	case ir.TagSeq, ir.TagMap:
		return nil, ir.NewError(ir.KindInvalidTag, ev.Loc, ev.Tag+" on a scalar")
	case ir.TagBinary:
		return ir.Tagged(ev.Tag, ir.FromString(text)), nil
	}
	var inner *ir.Value
	if ev.Style.IsQuoted() {
		inner = ir.FromString(text)
	} else {
		inner = ir.ResolvePlain(text)
	}
	return ir.Tagged(ev.Tag, inner), nil
}

func toFloat(n ir.Number) float64 {
	if f, ok := n.AsF64(); ok {
		return f
	}
	if i, ok := n.AsI64(); ok {
		return float64(i)
	}
	u, _ := n.AsU64()
	return float64(u)
}

// collectionTag checks the tag of a collection start: its own core tag is
// dropped, other core tags are invalid and anything else is kept.
func collectionTag(ev *stream.Event) (string, error) {
	own := ir.TagSeq
	if ev.Type == stream.EventMappingStart {
		own = ir.TagMap
	}
	switch {
	case ev.Tag == "" || ev.Tag == "!" || ev.Tag == own:
		return "", nil
	case ir.IsCoreTag(ev.Tag):
		return "", ir.NewError(ir.KindInvalidTag, ev.Loc, ev.Tag+" on a "+collectionName(ev))
	}
	return ev.Tag, nil
}

func collectionName(ev *stream.Event) string {
	if ev.Type == stream.EventMappingStart {
		return "mapping"
	}
	return "sequence"
}

func quote(s string) string {
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return strconv.Quote(s)
}
