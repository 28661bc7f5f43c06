package machine

import "github.com/universalsequences/zlisp/lang/value"

// Frame is one VM call frame: a code sequence, a program counter, and a
// stack of lexical scopes active within this call (§3, §4.4). Scopes is a
// stack rather than a single Env field because value.Scope exposes no
// Parent accessor (environment.Environment keeps that concrete-typed, for
// the collector's root walk only); EnterScope/ExitScope push and pop this
// frame-local stack instead of asking an environment for its parent.
type Frame struct {
	Code   []value.Instruction
	PC     int
	Scopes []value.Scope
}

// Env returns the innermost active scope of fr.
func (fr *Frame) Env() value.Scope {
	return fr.Scopes[len(fr.Scopes)-1]
}

// EnterScope pushes a fresh child of the current scope.
func (fr *Frame) EnterScope() {
	fr.Scopes = append(fr.Scopes, fr.Env().Child())
}

// ExitScope pops back to the parent scope. It fails if fr has no parent
// scope to return to (§4.4: "ExitScope at the root of a frame fails
// NoParentScope").
func (fr *Frame) ExitScope() error {
	if len(fr.Scopes) <= 1 {
		return errf(NoParentScope, "no parent scope to exit to")
	}
	fr.Scopes = fr.Scopes[:len(fr.Scopes)-1]
	return nil
}
