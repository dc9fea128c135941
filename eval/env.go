package eval

import (
	"maps"
	"os"
	"strings"
)

// Env is the set of variables visible to expressions.
type Env map[string]any

// OSEnv returns an Env holding the process environment as the map "env",
// so that $[env.HOME] expands to the home directory.
func OSEnv() Env {
	vars := map[string]any{}
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		vars[k] = v
	}
	return Env{"env": vars}
}

// With returns a copy of e extended by vars, which take precedence.
func (e Env) With(vars Env) Env {
	res := make(Env, len(e)+len(vars))
	maps.Copy(res, e)
	maps.Copy(res, vars)
	return res
}
