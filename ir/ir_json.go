package ir

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"
)

// MarshalJSON renders y as JSON, keeping mapping order. Mapping keys must be
// scalars; non-string scalar keys are rendered in their YAML text form. A
// tagged value renders as a single entry object {"!tag": value}. NaN and
// infinite floats cannot be rendered.
func (y *Value) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := y.writeJSON(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToJSON is MarshalJSON with the output indented when indent is not empty.
func ToJSON(y *Value, indent string) ([]byte, error) {
	d, err := y.MarshalJSON()
	if err != nil || indent == "" {
		return d, err
	}
	out := bytes.NewBuffer(nil)
	if err := json.Indent(out, d, "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// writeJSONString writes s as a JSON string without escaping <, > and &.
func writeJSONString(w io.Writer, s string) error {
	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

func (y *Value) writeJSON(w *bytes.Buffer) error {
	switch y.Kind() {
	case NullType:
		w.WriteString("null")
	case BoolType:
		w.WriteString(strconv.FormatBool(y.Bool))
	case NumberType:
		n := y.Number
		if n.IsF64() {
			if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
				return fmt.Errorf("cannot represent %s in JSON", n)
			}
			d, err := json.Marshal(n.f)
			if err != nil {
				return err
			}
			w.Write(d)
			return nil
		}
		w.WriteString(n.String())
	case StringType:
		return writeJSONString(w, y.String)
	case SequenceType:
		w.WriteByte('[')
		for i, e := range y.Sequence {
			if i > 0 {
				w.WriteByte(',')
			}
			if err := e.writeJSON(w); err != nil {
				return err
			}
		}
		w.WriteByte(']')
	case MappingType:
		w.WriteByte('{')
		i := 0
		for k, v := range y.Mapping.All() {
			if i > 0 {
				w.WriteByte(',')
			}
			i++
			ks, err := jsonKey(k)
			if err != nil {
				return err
			}
			if err := writeJSONString(w, ks); err != nil {
				return err
			}
			w.WriteByte(':')
			if err := v.writeJSON(w); err != nil {
				return err
			}
		}
		w.WriteByte('}')
	case TaggedType:
		w.WriteByte('{')
		if err := writeJSONString(w, y.Tag); err != nil {
			return err
		}
		w.WriteByte(':')
		if err := y.Inner.writeJSON(w); err != nil {
			return err
		}
		w.WriteByte('}')
	}
	return nil
}

func jsonKey(k *Value) (string, error) {
	switch k.Kind() {
	case StringType:
		return k.String, nil
	case NullType:
		return "null", nil
	case BoolType:
		return strconv.FormatBool(k.Bool), nil
	case NumberType:
		return k.Number.String(), nil
	}
	return "", fmt.Errorf("cannot use %s as a JSON object key", k.Kind())
}

// FromJSON decodes a JSON document. Numbers keep their integer or float
// form; object keys are sorted since JSON objects carry no order.
func FromJSON(d []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return nil, err
	}
	return FromAny(x)
}

// FromAny converts a generic Go value, as produced by JSON decoding or
// expression evaluation, into a Value. Maps are emitted in sorted key
// order.
func FromAny(x any) (*Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case *Value:
		return v.Clone(), nil
	case bool:
		return FromBool(v), nil
	case string:
		return FromString(v), nil
	case json.Number:
		n, ok := ParseNumber(string(v))
		if !ok {
			return nil, fmt.Errorf("invalid JSON number %q", v)
		}
		return FromNumber(n), nil
	case int:
		return FromInt(int64(v)), nil
	case int8:
		return FromInt(int64(v)), nil
	case int16:
		return FromInt(int64(v)), nil
	case int32:
		return FromInt(int64(v)), nil
	case int64:
		return FromInt(v), nil
	case uint:
		return FromUint(uint64(v)), nil
	case uint8:
		return FromUint(uint64(v)), nil
	case uint16:
		return FromUint(uint64(v)), nil
	case uint32:
		return FromUint(uint64(v)), nil
	case uint64:
		return FromUint(v), nil
	case float32:
		return FromFloat(float64(v)), nil
	case float64:
		return FromFloat(v), nil
	case []any:
		seq := make([]*Value, len(v))
		for i, e := range v {
			ev, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			seq[i] = ev
		}
		return FromSlice(seq), nil
	case map[string]any:
		m := NewMappingCap(len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			ev, err := FromAny(v[k])
			if err != nil {
				return nil, err
			}
			m.Insert(FromString(k), ev)
		}
		return FromMapping(m), nil
	case map[any]any:
		m := NewMappingCap(len(v))
		keys := make([]*Value, 0, len(v))
		vals := make(map[*Value]any, len(v))
		for k, e := range v {
			kv, err := FromAny(k)
			if err != nil {
				return nil, err
			}
			keys = append(keys, kv)
			vals[kv] = e
		}
		slices.SortFunc(keys, Compare)
		for _, k := range keys {
			ev, err := FromAny(vals[k])
			if err != nil {
				return nil, err
			}
			m.Insert(k, ev)
		}
		return FromMapping(m), nil
	}
	return nil, fmt.Errorf("cannot convert %T to a value", x)
}

// ToAny converts y to generic Go values: nil, bool, int64, uint64 for
// integers above the int64 range, float64, string, []any, and
// map[string]any. Non-string keys use their YAML text form and tags are
// dropped.
func ToAny(y *Value) (any, error) {
	y = y.Untag()
	switch y.Kind() {
	case NullType:
		return nil, nil
	case BoolType:
		return y.Bool, nil
	case NumberType:
		if i, ok := y.Number.AsI64(); ok {
			return i, nil
		}
		if u, ok := y.Number.AsU64(); ok {
			return u, nil
		}
		return y.Number.f, nil
	case StringType:
		return y.String, nil
	case SequenceType:
		res := make([]any, len(y.Sequence))
		for i, e := range y.Sequence {
			x, err := ToAny(e)
			if err != nil {
				return nil, err
			}
			res[i] = x
		}
		return res, nil
	case MappingType:
		res := make(map[string]any, y.Mapping.Len())
		for k, v := range y.Mapping.All() {
			ks, err := jsonKey(k.Untag())
			if err != nil {
				return nil, err
			}
			x, err := ToAny(v)
			if err != nil {
				return nil, err
			}
			res[ks] = x
		}
		return res, nil
	}
	return nil, fmt.Errorf("cannot convert %s", y.Kind())
}
