// Package gc implements the tracing mark-sweep collector that owns every
// heap-allocated Value (§2.5, §9). It is the only code permitted to free a
// tracked value (§5 "Shared resources"): every heap allocation the machine
// and the natives make at run time goes through a Collector's New* methods
// (§9 "Native calling convention"), which register the new object exactly
// once (§3 invariant I1). Values the parser and compiler build (literal
// payloads, FunctionDef arms, lambda templates) are not registered.
package gc

import (
	"github.com/dolthub/swiss"
	"github.com/universalsequences/zlisp/lang/environment"
	"github.com/universalsequences/zlisp/lang/value"
)

// Stats summarizes one Collect call, reported to embedders that want to log
// or test collector behavior.
type Stats struct {
	Tracked int // number of live objects after the collection
	Freed   int // number of objects swept away by this collection
}

// RootsProvider supplies a Collector with everything it must trace from:
// the operand stack and the chain of environments reachable from every
// active call frame, including the global environment (§3 invariant I2).
// *machine.Thread implements this.
type RootsProvider interface {
	GCRoots() (stack []value.Value, envs []*environment.Environment)
}

// Collector tracks every heap allocation made through it and reclaims the
// ones that become unreachable from a RootsProvider's roots.
type Collector struct {
	objects *swiss.Map[value.Heap, struct{}]
}

var _ value.Allocator = (*Collector)(nil)

// New returns an empty Collector.
func New() *Collector {
	return &Collector{objects: swiss.NewMap[value.Heap, struct{}](64)}
}

// Tracked reports how many live heap objects the collector currently knows
// about.
func (c *Collector) Tracked() int { return c.objects.Count() }

func (c *Collector) track(h value.Heap) {
	c.objects.Put(h, struct{}{})
}

// NewString allocates a tracked String.
func (c *Collector) NewString(s string) *value.String {
	v := &value.String{Bytes: []byte(s)}
	c.track(v)
	return v
}

// NewList allocates a tracked List. Callers should not modify elems after the
// call.
func (c *Collector) NewList(elems []value.Value) *value.List {
	v := &value.List{Elems: elems}
	c.track(v)
	return v
}

// NewVector allocates a tracked Vector.
func (c *Collector) NewVector(elems []float32) *value.Vector {
	v := &value.Vector{Elems: elems}
	c.track(v)
	return v
}

// NewCons allocates a single tracked Cons cell.
func (c *Collector) NewCons(car, cdr value.Value) *value.Cons {
	v := &value.Cons{Car: car, Cdr: cdr}
	c.track(v)
	return v
}

// NewObject allocates a tracked, empty Object.
func (c *Collector) NewObject() *value.Object {
	v := value.NewObject()
	c.track(v)
	return v
}

// NewConsChain builds and tracks a proper-list chain of Cons cells out of
// elems, terminated by Nil. Used by PushQuote to materialize a quoted List
// literal (§4.1).
func (c *Collector) NewConsChain(elems []value.Value) value.Value {
	return value.ConsFromSlice(elems, c.NewCons)
}

// NewQuote allocates a tracked Quote wrapping inner.
func (c *Collector) NewQuote(inner value.Value) *value.Quote {
	v := &value.Quote{Inner: inner}
	c.track(v)
	return v
}

// NewLambda allocates a tracked lambda Closure.
func (c *Collector) NewLambda(name string, params []string, code []value.Instruction, env value.Scope) *value.Closure {
	v := &value.Closure{Name: name, Params: params, Code: code, Env: env}
	c.track(v)
	return v
}

// NewNamedClosure allocates a tracked pattern-dispatched (defun) Closure.
func (c *Collector) NewNamedClosure(name string, defs []*value.FunctionDef, env value.Scope) *value.Closure {
	v := &value.Closure{Name: name, Defs: defs, Env: env}
	c.track(v)
	return v
}

// NewFunctionDef allocates a tracked FunctionDef (one defun arm).
func (c *Collector) NewFunctionDef(patterns []value.Pattern, code []value.Instruction) *value.FunctionDef {
	v := &value.FunctionDef{Patterns: patterns, Code: code}
	c.track(v)
	return v
}

// Collect runs one full mark-sweep cycle: mark every value reachable from
// rp's roots, then free every tracked object that was not marked (§2.5,
// P4). It is safe to call at any quiescent point between instructions; the
// engine never calls it mid-instruction.
func (c *Collector) Collect(rp RootsProvider) Stats {
	stack, envs := rp.GCRoots()

	for _, v := range stack {
		c.mark(v)
	}
	for _, env := range envs {
		c.markEnv(env)
	}

	var dead []value.Heap
	c.objects.Iter(func(h value.Heap, _ struct{}) bool {
		if !h.Marked() {
			dead = append(dead, h)
		}
		return false
	})
	for _, h := range dead {
		c.objects.Delete(h)
	}

	// Reset mark bits for the next cycle.
	c.objects.Iter(func(h value.Heap, _ struct{}) bool {
		h.SetMarked(false)
		return false
	})

	return Stats{Tracked: c.objects.Count(), Freed: len(dead)}
}

// mark marks v and, transitively, everything reachable from it. It is
// idempotent on an already-marked object (§9 "Closure environment cycles":
// "marking is short-circuited on an already-marked object"), which is what
// makes it safe on the cyclic graphs a recursive defun's self-reference
// creates.
func (c *Collector) mark(v value.Value) {
	h, ok := v.(value.Heap)
	if !ok || h == nil {
		return
	}
	if h.Marked() {
		return
	}
	h.SetMarked(true)

	switch o := h.(type) {
	case *value.Closure:
		c.markEnv(o.Env)
		if o.IsNamed() {
			for _, def := range o.Defs {
				c.mark(def)
			}
		} else {
			c.scanCode(o.Code)
		}
	case *value.FunctionDef:
		c.scanCode(o.Code)
	default:
		for _, child := range h.Children() {
			c.mark(child)
		}
	}
}

// scanCode marks every Value embedded as a literal payload (PUSHQUOTE,
// PUSHFUNC, PUSHFUNCDEF) in a compiled instruction sequence.
func (c *Collector) scanCode(code []value.Instruction) {
	for _, instr := range code {
		if instr.Payload != nil {
			c.mark(instr.Payload)
		}
	}
}

// markEnv marks every value bound anywhere in env's scope chain, including
// its ancestors — a Closure pins its whole defining chain alive, not just
// the innermost scope.
func (c *Collector) markEnv(env value.Scope) {
	e, ok := env.(*environment.Environment)
	if !ok {
		return
	}
	for ; e != nil; e = e.Parent() {
		e.Values(c.mark)
	}
}
