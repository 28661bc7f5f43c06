// Package resolver performs a pre-compile validation pass over parsed
// forms. In the teacher's pipeline the equivalent phase allocates static
// local/cell/freevar slots for a statically-scoped language; this language
// resolves every variable dynamically against a chained Environment at run
// time (§3 Environment, §4.4), so there is nothing to allocate ahead of
// time. What the phase keeps is its *position* in the pipeline — it still
// runs between parsing and compiling — repurposed to catch malformed
// special forms (bad `defun`/`lambda` parameter lists, non-symbol `set`
// targets, including those nested in object-literal values; object keys
// themselves are checked by the parser) with a proper error kind before the
// compiler starts emitting instructions, rather than failing mid-emit with
// a partially-built code buffer.
package resolver

import (
	"fmt"

	"github.com/universalsequences/zlisp/lang/value"
)

// Kind identifies which of §7's Compile-phase error kinds a resolver Error
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

// Error is a validation failure, carrying the §7 Kind a caller can match on
// and a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func errf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// ValidateAll validates every top-level form, stopping at the first error.
func ValidateAll(forms []value.Value) error {
	for _, f := range forms {
		if err := Validate(f); err != nil {
			return err
		}
	}
	return nil
}

// Validate walks v and every form nested inside it, checking the special
// forms the compiler will special-case (§4.2) for structural validity.
// Ordinary calls and arithmetic are left to the compiler/VM: a misused
// symbol there surfaces as NotAFunction/VariableNotFound at run time, not a
// compile-time resolver error, matching §7's split between Compile and VM
// error kinds.
func Validate(v value.Value) error {
	if ol, ok := v.(*value.ObjectLiteral); ok {
		for _, e := range ol.Entries {
			if err := Validate(e.Expr); err != nil {
				return err
			}
		}
		return nil
	}
	lst, ok := v.(*value.List)
	if !ok {
		return nil
	}
	if len(lst.Elems) == 0 {
		return errf(InvalidExpression, "empty list")
	}

	if head, ok := lst.Elems[0].(value.Symbol); ok {
		switch head {
		case "set":
			return validateSet(lst)
		case "defun":
			return validateDefun(lst)
		case "lambda":
			return validateLambda(lst)
		case "let":
			return validateLet(lst)
		case "if":
			return validateIf(lst)
		}
	}

	for _, e := range lst.Elems {
		if err := Validate(e); err != nil {
			return err
		}
	}
	return nil
}

// validateSet checks `(set NAME EXPR)`: NAME must be a bare Symbol (§4.2:
// "InvalidOperator (non-symbol in operator position of a set)").
func validateSet(lst *value.List) error {
	if len(lst.Elems) != 3 {
		return errf(InvalidExpression, "set requires exactly 2 arguments, got %d", len(lst.Elems)-1)
	}
	if _, ok := lst.Elems[1].(value.Symbol); !ok {
		return errf(InvalidOperator, "set target must be a symbol, got %s", lst.Elems[1].Kind())
	}
	return Validate(lst.Elems[2])
}

// validateDefun checks `(defun NAME (PATTERNS...) BODY)`: NAME is a symbol,
// PATTERNS is a list of Symbol or Number patterns (§4.3), and BODY is
// recursively validated.
func validateDefun(lst *value.List) error {
	if len(lst.Elems) != 4 {
		return errf(InvalidFunctionDefinition, "defun requires a name, a pattern list, and a body")
	}
	if _, ok := lst.Elems[1].(value.Symbol); !ok {
		return errf(InvalidFunctionDefinition, "defun name must be a symbol, got %s", lst.Elems[1].Kind())
	}
	if err := validatePatternSpec(lst.Elems[2]); err != nil {
		return err
	}
	return Validate(lst.Elems[3])
}

// validatePatternSpec checks the pattern-vector position of a defun. A
// single-pattern arm may be written bare (`(defun f 0 1)`, §8 scenario 4)
// instead of parenthesized (`(defun f (0) 1)`); both forms are accepted and
// produce a one-element pattern vector.
func validatePatternSpec(v value.Value) error {
	if patterns, ok := v.(*value.List); ok {
		for _, p := range patterns.Elems {
			if err := validatePatternElement(p); err != nil {
				return err
			}
		}
		return nil
	}
	return validatePatternElement(v)
}

func validatePatternElement(p value.Value) error {
	switch p.(type) {
	case value.Symbol, value.Number:
		return nil
	default:
		return errf(InvalidPattern, "pattern must be a symbol or number literal, got %s", p.Kind())
	}
}

// validateLambda checks `(lambda (PARAMS...) BODY)`: PARAMS is a list of
// plain symbols (no literal patterns, unlike defun).
func validateLambda(lst *value.List) error {
	if len(lst.Elems) != 3 {
		return errf(InvalidLambda, "lambda requires a parameter list and a body")
	}
	params, ok := lst.Elems[1].(*value.List)
	if !ok {
		return errf(InvalidLambda, "lambda parameter list must be a list, got %s", lst.Elems[1].Kind())
	}
	for _, p := range params.Elems {
		if _, ok := p.(value.Symbol); !ok {
			return errf(InvalidLambda, "lambda parameter must be a symbol, got %s", p.Kind())
		}
	}
	return Validate(lst.Elems[2])
}

// validateLet checks `(let ((N1 E1) (N2 E2) ...) BODY)`: each binding is a
// two-element list whose first element is a symbol.
func validateLet(lst *value.List) error {
	if len(lst.Elems) != 3 {
		return errf(InvalidExpression, "let requires a binding list and a body")
	}
	bindings, ok := lst.Elems[1].(*value.List)
	if !ok {
		return errf(InvalidExpression, "let bindings must be a list, got %s", lst.Elems[1].Kind())
	}
	for _, b := range bindings.Elems {
		bl, ok := b.(*value.List)
		if !ok || len(bl.Elems) != 2 {
			return errf(InvalidExpression, "let binding must be a (name expr) pair")
		}
		if _, ok := bl.Elems[0].(value.Symbol); !ok {
			return errf(InvalidExpression, "let binding name must be a symbol, got %s", bl.Elems[0].Kind())
		}
		if err := Validate(bl.Elems[1]); err != nil {
			return err
		}
	}
	return Validate(lst.Elems[2])
}

// validateIf checks `(if COND THEN [ELSE])`.
func validateIf(lst *value.List) error {
	if len(lst.Elems) != 3 && len(lst.Elems) != 4 {
		return errf(InvalidExpression, "if requires a condition, a then-branch, and an optional else-branch")
	}
	for _, e := range lst.Elems[1:] {
		if err := Validate(e); err != nil {
			return err
		}
	}
	return nil
}
