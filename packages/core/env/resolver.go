package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/smokecheck/smokecheck/packages/builtin"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver substitutes {{...}} expressions with environment variables,
// builtin function results, and user-defined variables.
type Resolver struct {
	variables map[string]any
	funcs     *builtin.Registry
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.variables[name] = value
}

func (r *Resolver) GetVariable(name string) (any, bool) {
	v, ok := r.variables[name]
	return v, ok
}

func (r *Resolver) Resolve(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])

		if strings.HasPrefix(expr, "$") {
			envVar := expr[1:]
			if val := os.Getenv(envVar); val != "" {
				return val
			}
			r.warn("unresolved environment variable: $%s", envVar)
			return match
		}

		if strings.Contains(expr, "(") {
			if result, ok := r.funcs.Call(expr); ok {
				return fmt.Sprintf("%v", result)
			}
			r.warn("unresolved function call: %s", expr)
			return match
		}

		if val, ok := r.variables[expr]; ok {
			return fmt.Sprintf("%v", val)
		}

		r.warn("unresolved variable: %s", expr)
		return match
	})
}

func (r *Resolver) ResolveAll(values []string) []string {
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = r.Resolve(v)
	}
	return result
}
