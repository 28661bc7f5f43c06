// Package machine implements the stack virtual machine (§4.4): an operand
// stack shared across call frames, a call-frame stack, and dispatch for
// bytecode closures (lambda and pattern-dispatched `defun` forms) and
// native functions.
package machine

import (
	"context"
	"io"
	"os"

	"github.com/universalsequences/zlisp/lang/environment"
	"github.com/universalsequences/zlisp/lang/gc"
	"github.com/universalsequences/zlisp/lang/value"
	"golang.org/x/exp/slices"
)

// Thread runs compiled code against a persistent global Environment. It is
// not safe for concurrent use (§5: "the GC is not thread-safe"); callers
// that want isolated execution use separate Threads over separate
// Collectors.
type Thread struct {
	// Name optionally identifies the thread for debugging/tracing.
	Name string

	// Stdout and Stderr are the I/O streams natives may write to (e.g. a
	// `print` built-in). os.Stdout/os.Stderr are used if nil.
	Stdout io.Writer
	Stderr io.Writer

	// MaxSteps bounds the number of executed instructions before Run fails;
	// <= 0 means unlimited. This is host/embedder configuration, not a
	// language feature (§5 explicitly allows "callers terminate by
	// discarding the VM"; this is the same idea applied proactively).
	MaxSteps int

	// MaxCallStackDepth bounds the number of nested Frames; <= 0 means
	// unlimited.
	MaxCallStackDepth int

	// Trace, if set, is called before every instruction is executed. Used by
	// the CLI's -trace flag; nil in normal production use.
	Trace func(pc int, op value.Opcode)

	// GC owns every heap allocation made during execution, including the
	// ones Closures and DefineFuncDef make as they run (§9 "native calling
	// convention" generalizes to every runtime allocation site).
	GC *gc.Collector

	global *environment.Environment
	stack  []value.Value
	frames []*Frame
	steps  int

	stdout io.Writer
	stderr io.Writer
}

// New returns a Thread with a fresh global Environment and Collector. Use
// NewWithGlobal to share an Environment (and its built-ins) across Threads.
func New() *Thread {
	return NewWithGlobal(environment.New(), gc.New())
}

// NewWithGlobal returns a Thread over an existing global Environment and
// Collector, so an embedder can install built-ins once and run many
// programs against them (§6 "Embedding surface").
func NewWithGlobal(global *environment.Environment, collector *gc.Collector) *Thread {
	return &Thread{global: global, GC: collector}
}

// Global returns the thread's global environment, e.g. so an embedder can
// register built-ins before the first Run.
func (th *Thread) Global() *environment.Environment { return th.global }

func (th *Thread) out() io.Writer {
	if th.Stdout != nil {
		return th.Stdout
	}
	return os.Stdout
}

func (th *Thread) err() io.Writer {
	if th.Stderr != nil {
		return th.Stderr
	}
	return os.Stderr
}

// GCRoots implements gc.RootsProvider: every value on the operand stack,
// plus every environment reachable from the global scope or any active
// frame (§3 invariant I2).
func (th *Thread) GCRoots() ([]value.Value, []*environment.Environment) {
	envs := make([]*environment.Environment, 0, len(th.frames)+1)
	envs = append(envs, th.global)
	for _, fr := range th.frames {
		for _, sc := range fr.Scopes {
			if e, ok := sc.(*environment.Environment); ok {
				envs = append(envs, e)
			}
		}
	}
	stack := make([]value.Value, len(th.stack))
	copy(stack, th.stack)
	return stack, envs
}

// Collect runs one GC cycle against this thread's current roots.
func (th *Thread) Collect() gc.Stats {
	return th.GC.Collect(th)
}

// Run executes code as a fresh top-level frame over the global environment
// and returns the sole residual operand (§4.4 step 1, §3 invariant I3).
// Each call starts with an empty operand stack: top-level forms are
// compiled and executed one at a time (see lang/compiler.Compile's doc
// comment), so Run never needs to reconcile leftover operands from a prior
// call.
func (th *Thread) Run(ctx context.Context, code []value.Instruction) (value.Value, error) {
	th.stdout = th.out()
	th.stderr = th.err()
	th.stack = th.stack[:0]
	th.frames = append(th.frames, &Frame{Code: code, Scopes: []value.Scope{th.global}})

	for {
		if len(th.frames) == 0 {
			if len(th.stack) != 1 {
				return nil, errf(InvalidResult, "expected exactly one operand at top level, got %d", len(th.stack))
			}
			result := th.stack[0]
			th.stack = th.stack[:0]
			return result, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		th.steps++
		if th.MaxSteps > 0 && th.steps > th.MaxSteps {
			return nil, errf(InvalidResult, "exceeded max steps (%d)", th.MaxSteps)
		}

		frame := th.frames[len(th.frames)-1]
		if frame.PC >= len(frame.Code) {
			th.frames = th.frames[:len(th.frames)-1]
			continue
		}

		instr := frame.Code[frame.PC]
		if th.Trace != nil {
			th.Trace(frame.PC, instr.Op)
		}
		if err := th.step(frame, instr); err != nil {
			return nil, err
		}
	}
}

func (th *Thread) push(v value.Value) {
	th.stack = append(th.stack, v)
}

func (th *Thread) pop() (value.Value, error) {
	if len(th.stack) == 0 {
		return nil, errf(StackUnderflow, "pop on empty stack")
	}
	v := th.stack[len(th.stack)-1]
	th.stack = th.stack[:len(th.stack)-1]
	return v, nil
}

func (th *Thread) peek() (value.Value, error) {
	if len(th.stack) == 0 {
		return nil, errf(StackUnderflow, "peek on empty stack")
	}
	return th.stack[len(th.stack)-1], nil
}

// popN pops n operands and returns them in their original left-to-right
// (push) order. The returned slice is an independent clone (via
// golang.org/x/exp/slices) so callers can hold onto it across further
// stack mutations, e.g. while a Native allocates using the same arguments.
func (th *Thread) popN(n int) ([]value.Value, error) {
	if len(th.stack) < n {
		return nil, errf(StackUnderflow, "need %d operands, have %d", n, len(th.stack))
	}
	args := slices.Clone(th.stack[len(th.stack)-n:])
	th.stack = th.stack[:len(th.stack)-n]
	return args, nil
}
