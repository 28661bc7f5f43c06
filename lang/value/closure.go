package value

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Scope is the lexical environment a Closure closes over. It is declared as
// an interface here, rather than Closure holding a concrete
// *environment.Environment, because Environment's variable map is itself
// keyed by Value and the Environment needs to bind Closures — a concrete
// dependency in either direction would make value and environment import
// each other. Package environment's Environment type implements Scope.
type Scope interface {
	// Lookup walks the scope chain looking for name.
	Lookup(name string) (Value, bool)
	// Define binds name to v in the innermost scope.
	Define(name string, v Value)
	// Child returns a fresh child scope of this one.
	Child() Scope
}

// PatternKind distinguishes the ways a defun argument position can be
// matched (§4.3).
type PatternKind uint8

const (
	// PatternSymbol matches any argument and binds it to Name.
	PatternSymbol PatternKind = iota
	// PatternNumber matches only a Number argument numerically equal to Num.
	PatternNumber
	// PatternUnknown marks any other pattern kind; an arm containing one is
	// always skipped during dispatch (§4.3 "unknown pattern kinds cause the
	// arm to be skipped"). The compiler never produces it: an unrecognized
	// pattern is an InvalidPattern compile error.
	PatternUnknown
)

// Pattern is one parameter-position matcher of a FunctionDef arm.
type Pattern struct {
	Kind PatternKind
	Name string  // PatternSymbol
	Num  float64 // PatternNumber
}

// Equal implements the structural pattern-vector equality required by
// DEFINEFUNCDEF's "replace on equal pattern" rule (§9 "Pattern equality").
func (p Pattern) Equal(o Pattern) bool {
	if p.Kind != o.Kind {
		return false
	}
	switch p.Kind {
	case PatternSymbol:
		return p.Name == o.Name
	case PatternNumber:
		return p.Num == o.Num
	default:
		return true
	}
}

// FunctionDef is a single pattern-dispatched arm of a named function (§4.3):
// a pattern vector (one entry per parameter position) plus its own compiled
// body.
type FunctionDef struct {
	Header
	Patterns []Pattern
	Code     []Instruction
}

var _ Heap = (*FunctionDef)(nil)

func (*FunctionDef) Kind() Kind { return KindFunctionDef }

func (f *FunctionDef) String() string {
	return fmt.Sprintf("<function-def/%d>", len(f.Patterns))
}

// Children is nil: compiled code and patterns hold no Values of their own
// (PushQuote/PushFunc/PushFuncDef payloads inside Code are reachable only
// once the FunctionDef itself is reachable, and the collector walks Code
// directly — see gc.Collector.scanCode).
func (f *FunctionDef) Children() []Value { return nil }

// PatternsEqual reports whether f and o declare the same pattern vector,
// element-wise, per §9.
func (f *FunctionDef) PatternsEqual(o *FunctionDef) bool {
	return slices.EqualFunc(f.Patterns, o.Patterns, Pattern.Equal)
}

// Closure is a callable value (§3). A lambda Closure carries Params and Code
// directly; a named (defun) Closure carries a non-empty, ordered Defs list of
// arms instead, and Params/Code are nil. Both forms hold the Env they close
// over.
type Closure struct {
	Header
	Name   string // for error messages and printing; "" for anonymous lambdas
	Params []string
	Code   []Instruction
	Defs   []*FunctionDef
	Env    Scope
}

var _ Heap = (*Closure)(nil)

func (*Closure) Kind() Kind { return KindClosure }

// IsNamed reports whether c is a pattern-dispatched (defun) closure, as
// opposed to a plain lambda.
func (c *Closure) IsNamed() bool { return len(c.Defs) > 0 }

func (c *Closure) String() string {
	if c.Name != "" {
		return fmt.Sprintf("<function %s>", c.Name)
	}
	return "<lambda>"
}

// Children is nil for the same reason as FunctionDef.Children: the
// collector's mark phase handles a Closure itself rather than through this
// method, walking its Env chain and then its Defs or Code (see
// gc.Collector.mark).
func (c *Closure) Children() []Value { return nil }
