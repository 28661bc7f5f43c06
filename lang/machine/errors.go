package machine

import "fmt"

// Kind identifies which of §7's VM error kinds an Error represents.
type Kind int

const (
	StackUnderflow Kind = iota
	InvalidResult
	DivisionByZero
	VariableNotFound
	NotAFunction
	ArgumentCountMismatch
	NotANumber
	NotACons
	NotAnObject
	InvalidKey
	TypeMismatch
	NoParentScope
	InvalidType
	VectorLengthMismatch
)

var kindNames = [...]string{
	StackUnderflow:        "StackUnderflow",
	InvalidResult:         "InvalidResult",
	DivisionByZero:        "DivisionByZero",
	VariableNotFound:      "VariableNotFound",
	NotAFunction:          "NotAFunction",
	ArgumentCountMismatch: "ArgumentCountMismatch",
	NotANumber:            "NotANumber",
	NotACons:              "NotACons",
	NotAnObject:           "NotAnObject",
	InvalidKey:            "InvalidKey",
	TypeMismatch:          "TypeMismatch",
	NoParentScope:         "NoParentScope",
	InvalidType:           "InvalidType",
	VectorLengthMismatch:  "VectorLengthMismatch",
}

func (k Kind) String() string { return kindNames[k] }

// Error is a run-time failure, fatal to the current evaluation (§7: "all
// errors are fatal ... they unwind to the embedder").
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func errf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Errf builds an *Error of kind k, for use by packages outside machine that
// still want to raise one of these VM-level error kinds — notably
// lang/builtins, whose natives fail with exactly the kinds §7 assigns to
// type/arity/key mistakes (NotANumber, NotACons, ArgumentCountMismatch, ...).
func Errf(k Kind, format string, args ...any) *Error {
	return errf(k, format, args...)
}
