// Package environment implements the chained lexical scopes used by the
// machine: a pair of (optional parent, name-to-Value bindings) per §3.
// Lookup walks outward through parents; Insert always acts on the innermost
// environment in the chain.
package environment

import (
	"github.com/dolthub/swiss"
	"github.com/universalsequences/zlisp/lang/value"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Environment is one lexical scope. The zero value is not usable; use New.
type Environment struct {
	parent *Environment
	vars   *swiss.Map[string, value.Value]
}

var _ value.Scope = (*Environment)(nil)

// New returns a fresh environment with no parent (a global scope).
func New() *Environment {
	return &Environment{vars: swiss.NewMap[string, value.Value](8)}
}

// Child returns a fresh environment whose parent is e. It implements
// value.Scope so Closures can hold an Environment without package value
// importing this package (see value.Scope's doc comment). Callers that need
// the concrete type back (e.g. the machine, to walk Parent for GC root
// enumeration) type-assert the result.
func (e *Environment) Child() value.Scope {
	return &Environment{parent: e, vars: swiss.NewMap[string, value.Value](4)}
}

// Parent returns e's parent environment, or nil for the global scope.
func (e *Environment) Parent() *Environment { return e.parent }

// Lookup walks e and its ancestors looking for name.
func (e *Environment) Lookup(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds name to v in e itself (the innermost scope), overwriting any
// existing binding there. It never touches a parent (§3: "Insert always acts
// on the innermost environment").
func (e *Environment) Define(name string, v value.Value) {
	e.vars.Put(name, v)
}

// Names returns the names bound directly in e (not its ancestors), sorted,
// for debugging/printing. The snapshot goes through a plain map so
// golang.org/x/exp/maps's Keys can enumerate it, then golang.org/x/exp/slices
// sorts the result deterministically.
func (e *Environment) Names() []string {
	snapshot := make(map[string]value.Value, e.vars.Count())
	e.vars.Iter(func(k string, v value.Value) bool {
		snapshot[k] = v
		return false
	})
	names := maps.Keys(snapshot)
	slices.Sort(names)
	return names
}

// Values calls fn for every value bound directly in e (not its ancestors).
// Used by the collector to enumerate this environment's contribution to the
// GC root set.
func (e *Environment) Values(fn func(value.Value)) {
	e.vars.Iter(func(_ string, v value.Value) bool {
		fn(v)
		return false
	})
}
