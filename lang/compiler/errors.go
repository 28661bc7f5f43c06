package compiler

import "fmt"

// Kind identifies which of §7's Compile-phase error kinds an Error
// represents.
type Kind int

const (
	InvalidExpression Kind = iota
	InvalidOperator
	InvalidFunctionDefinition
	InvalidPattern
	InvalidLambda
	UnsupportedExpression
)

var kindNames = [...]string{
	InvalidExpression:         "InvalidExpression",
	InvalidOperator:           "InvalidOperator",
	InvalidFunctionDefinition: "InvalidFunctionDefinition",
	InvalidPattern:            "InvalidPattern",
	InvalidLambda:             "InvalidLambda",
	UnsupportedExpression:     "UnsupportedExpression",
}

func (k Kind) String() string { return kindNames[k] }

// Error is a compile-time failure, fatal to the compilation unit (§7: "all
// errors are fatal to the current evaluation").
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func errf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}
