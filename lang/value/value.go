// Package value implements the tagged value model that flows through every
// phase of the engine: the parser produces these as its output tree (code is
// data, so there is no separate AST), the compiler embeds them as literal
// payloads, and the machine package pushes and pops them on the operand
// stack.
package value

// Kind identifies which variant of the tagged sum a Value holds.
type Kind uint8

//nolint:revive
const (
	KindNumber Kind = iota
	KindNil
	KindSymbol
	KindString
	KindList
	KindVector
	KindCons
	KindObject
	KindObjectLiteral
	KindQuote
	KindClosure
	KindFunctionDef
	KindNative
)

func (k Kind) String() string { return kindNames[k] }

var kindNames = [...]string{
	KindNumber:        "number",
	KindNil:           "nil",
	KindSymbol:        "symbol",
	KindString:        "string",
	KindList:          "list",
	KindVector:        "vector",
	KindCons:          "cons",
	KindObject:        "object",
	KindObjectLiteral: "object-literal",
	KindQuote:         "quote",
	KindClosure:       "closure",
	KindFunctionDef:   "function-def",
	KindNative:        "native",
}

// Value is the interface implemented by every value the machine can push on
// the operand stack, bind in an Environment, or embed in compiled code.
type Value interface {
	Kind() Kind
	String() string
}

// Truther is implemented by values with a well-defined truthiness. Only
// Number and Nil are used as conditions by JumpIfFalse (§4.1), but the
// method is kept general so builtins can rely on it too.
type Truther interface {
	Truth() bool
}

// Heap is implemented by every value variant the garbage collector tracks:
// String, List, Vector, Cons, Object, Quote, Closure, and FunctionDef. Number,
// Nil, Symbol, and Native are inline/borrowed and never registered.
type Heap interface {
	Value
	// Marked and SetMarked expose the mark bit to package gc. Other callers
	// have no reason to use them.
	Marked() bool
	SetMarked(bool)
	// Children returns the Values directly reachable from this object. It is
	// used by the collector's mark phase to walk the heap graph; it must
	// return nil (not an empty non-nil slice) for leaf objects with no
	// interesting fields to report.
	Children() []Value
}

// Header is embedded by every heap-allocated value. It carries the mark bit
// used by the tracing collector (package gc) and nothing else; objects do not
// otherwise know about the collector that owns them.
type Header struct {
	mark bool
}

func (h *Header) Marked() bool     { return h.mark }
func (h *Header) SetMarked(b bool) { h.mark = b }
