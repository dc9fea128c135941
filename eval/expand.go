package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/yamlv/debug"
	"github.com/signadot/yamlv/encode"
	"github.com/signadot/yamlv/gomap"
	"github.com/signadot/yamlv/ir"
	"github.com/signadot/yamlv/ir/kpath"
)

func evaluate(input string, env Env) (any, error) {
	program, err := expr.Compile(input, expr.Env(map[string]any(env)))
	if err != nil {
		return nil, err
	}
	x, err := vm.Run(program, map[string]any(env))
	if err != nil {
		return nil, err
	}
	if debug.Eval() {
		debug.Logf("eval %q gave %#v", input, x)
	}
	return x, nil
}

// scanExpr reads an expression starting at s[i] up to the unescaped ']'
// closing it. Brackets nest, and a backslash escapes the next byte. It
// returns the expression and the index after the ']', or false if the
// expression is not closed.
func scanExpr(s string, i int) (string, int, bool) {
	var key []byte
	depth := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\\':
			if i+1 == len(s) {
				return "", 0, false
			}
			key = append(key, s[i+1])
			i += 2
			continue
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return strings.TrimSpace(string(key)), i + 1, true
			}
			depth--
		}
		key = append(key, c)
		i++
	}
	return "", 0, false
}

// rawExpr returns the expression of a string which is exactly ".[expr]".
func rawExpr(s string) (string, bool) {
	if !strings.HasPrefix(s, ".[") {
		return "", false
	}
	key, end, ok := scanExpr(s, 2)
	if !ok || end != len(s) {
		return "", false
	}
	return key, true
}

// ExpandString replaces each "$[expr]" and ".[expr]" in s by the text of
// the value of expr. Within an expression, "\]" is a literal ']' and "\\"
// a literal backslash. An expression which is not closed is kept as
// text.
func ExpandString(s string, env Env) (string, error) {
	if !strings.Contains(s, "[") {
		return s, nil
	}
	b := &strings.Builder{}
	i := 0
	for i < len(s) {
		c := s[i]
		if (c == '$' || c == '.') && i+1 < len(s) && s[i+1] == '[' {
			if key, end, ok := scanExpr(s, i+2); ok {
				x, err := evaluate(key, env)
				if err != nil {
					return "", fmt.Errorf("error evaluating %q: %w", key, err)
				}
				text, err := anyToText(x)
				if err != nil {
					return "", fmt.Errorf("could not format result of %q: %w", key, err)
				}
				b.WriteString(text)
				i = end
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), nil
}

func anyToText(x any) (string, error) {
	switch v := x.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case *ir.Value:
		if s, ok := v.AsStr(); ok {
			return s, nil
		}
		return flow(v)
	}
	v, err := ir.FromAny(x)
	if err != nil {
		return "", err
	}
	return flow(v)
}

// flow renders v on one line.
func flow(v *ir.Value) (string, error) {
	s, err := encode.EncodeString(v, encode.Compact(true))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(s, "\n"), nil
}

// expandString expands a string value, keeping its location.
func expandString(v *ir.Value, env Env) (*ir.Value, error) {
	if key, ok := rawExpr(v.String); ok {
		x, err := evaluate(key, env)
		if err != nil {
			return nil, fmt.Errorf("error evaluating %q: %w", key, err)
		}
		res, err := ir.FromAny(x)
		if err != nil {
			return nil, fmt.Errorf("could not translate result of %q: %w", key, err)
		}
		return res.WithLoc(v.Loc), nil
	}
	s, err := ExpandString(v.String, env)
	if err != nil {
		return nil, err
	}
	return ir.FromString(s).WithLoc(v.Loc), nil
}

// ExpandValue returns a copy of v with every string expanded. Mapping
// keys are not expanded.
func ExpandValue(v *ir.Value, env Env) (*ir.Value, error) {
	switch v.Kind() {
	case ir.StringType:
		res, err := expandString(v, env)
		if err != nil {
			return nil, ir.WrapError(ir.KindMessage, v.Loc, err)
		}
		return res, nil
	case ir.TaggedType:
		inner, err := ExpandValue(v.Inner, env)
		if err != nil {
			return nil, err
		}
		return ir.Tagged(v.Tag, inner).WithLoc(v.Loc), nil
	case ir.SequenceType:
		seq := make([]*ir.Value, len(v.Sequence))
		for i, e := range v.Sequence {
			x, err := ExpandValue(e, env)
			if err != nil {
				return nil, addIndex(err, i)
			}
			seq[i] = x
		}
		return ir.FromSlice(seq).WithLoc(v.Loc), nil
	case ir.MappingType:
		m := ir.NewMappingCap(v.Mapping.Len())
		for k, e := range v.Mapping.All() {
			x, err := ExpandValue(e, env)
			if err != nil {
				return nil, addKey(err, k)
			}
			m.Insert(k.Clone(), x)
		}
		return ir.FromMapping(m).WithLoc(v.Loc), nil
	}
	return v.Clone(), nil
}

func addIndex(err error, i int) error {
	e, ok := err.(*ir.Error)
	if !ok {
		return err
	}
	return e.WithPath(append(kpath.KPath(nil).WithIndex(i), e.Path...))
}

func addKey(err error, k *ir.Value) error {
	e, ok := err.(*ir.Error)
	if !ok {
		return err
	}
	p := kpath.KPath(nil).WithUnknown()
	if s, ok := k.Untag().AsStr(); ok {
		p = kpath.KPath(nil).WithField(s)
	}
	return e.WithPath(append(p, e.Path...))
}

// Transformer returns a gomap field transformer expanding strings, and
// tagged strings, with env. Other values are kept.
func Transformer(env Env) gomap.FieldTransformer {
	return func(v *ir.Value) (*ir.Value, error) {
		switch v.Kind() {
		case ir.StringType:
			if !strings.Contains(v.String, "[") {
				return nil, nil
			}
			return expandString(v, env)
		case ir.TaggedType:
			if v.Inner.Kind() != ir.StringType || !strings.Contains(v.Inner.String, "[") {
				return nil, nil
			}
			inner, err := expandString(v.Inner, env)
			if err != nil {
				return nil, err
			}
			return ir.Tagged(v.Tag, inner).WithLoc(v.Loc), nil
		}
		return nil, nil
	}
}
