package value

import "fmt"

// Opcode identifies one machine instruction (§4.1). The instruction set is
// declared here, alongside the Value types, rather than in package compiler:
// Closure and FunctionDef hold compiled Instruction sequences, and the
// compiler needs both Instruction and the Value types it embeds as literal
// payloads (PushQuote, PushFunc, PushFuncDef), so putting the opcode set in
// its own leaf package would just move the cycle rather than break it.
type Opcode uint8

//nolint:revive
const (
	NOP Opcode = iota // - NOP -

	PUSHCONST       //       - PUSHCONST<f>        f               push a Number
	PUSHCONSTSTRING //       - PUSHCONSTSTRING<s>   s               push a String
	PUSHCONSTSYMBOL //       - PUSHCONSTSYMBOL<s>   s               push a Symbol
	PUSHQUOTE       //       - PUSHQUOTE<v>         v               push v unchanged (materializing List as Cons chain)
	PUSHFUNC        //       - PUSHFUNC<closure>    closure         push a lambda Closure
	PUSHFUNCDEF     //       - PUSHFUNCDEF<def>     def             push a FunctionDef (one defun arm)
	PUSHEMPTYOBJECT //       - PUSHEMPTYOBJECT      obj             push a freshly allocated Object

	DUP // x DUP x x
	POP // x POP -

	ADD // x1..xn ADD<n> result   variadic, elementwise over Vector operands
	SUB // x1..xn SUB<n> result
	MUL // x1..xn MUL<n> result
	DIV // x1..xn DIV<n> result

	LOADVAR  //  -   LOADVAR<name>  value   env lookup, or operator Symbol fallback
	STOREVAR //  v STOREVAR<name> v       peek, bind name<-top (non-consuming; `set` relies
	         //                           on this to leave its value as the expression's
	         //                           result; `let` bindings follow each one with an
	         //                           explicit Pop so bindings don't leak onto the stack)

	ENTERSCOPE // - ENTERSCOPE -   push a child Environment on the current frame
	EXITSCOPE  // - EXITSCOPE  -   pop back to the parent Environment

	DEFINEFUNC    //   v DEFINEFUNC<name>    v   peek, bind name<-top
	DEFINEFUNCDEF // def DEFINEFUNCDEF<name> def peek FunctionDef, append/replace arm or create new named Closure

	CALL //     fn a1..an CALL<argc> result

	JMP         //    - JMP<offset>         -   pc += offset, relative to this instruction
	JUMPIFFALSE // cond JUMPIFFALSE<offset> -   pop; if falsy pc += offset else pc += 1

	RETURN // value RETURN value end current frame; the value stays on the shared operand stack

	CALLOBJSET   // obj key value CALLOBJSET   obj   obj[key] = value
	CALLOBJMERGE //       dst src CALLOBJMERGE dst   copy src entries into dst

	maxOpcode
)

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}

var opcodeNames = [...]string{
	NOP:             "nop",
	PUSHCONST:       "pushconst",
	PUSHCONSTSTRING: "pushconststring",
	PUSHCONSTSYMBOL: "pushconstsymbol",
	PUSHQUOTE:       "pushquote",
	PUSHFUNC:        "pushfunc",
	PUSHFUNCDEF:     "pushfuncdef",
	PUSHEMPTYOBJECT: "pushemptyobject",
	DUP:             "dup",
	POP:             "pop",
	ADD:             "add",
	SUB:             "sub",
	MUL:             "mul",
	DIV:             "div",
	LOADVAR:         "loadvar",
	STOREVAR:        "storevar",
	ENTERSCOPE:      "enterscope",
	EXITSCOPE:       "exitscope",
	DEFINEFUNC:      "definefunc",
	DEFINEFUNCDEF:   "definefuncdef",
	CALL:            "call",
	JMP:             "jmp",
	JUMPIFFALSE:     "jumpiffalse",
	RETURN:          "return",
	CALLOBJSET:      "callobjset",
	CALLOBJMERGE:    "callobjmerge",
}

// Instruction is one element of a compiled code sequence. Only the fields
// relevant to Op are meaningful; which ones those are is documented on the
// Opcode constants above.
type Instruction struct {
	Op      Opcode
	Num     float64 // PUSHCONST
	Str     string  // PUSHCONSTSTRING, PUSHCONSTSYMBOL, LOADVAR, STOREVAR, DEFINEFUNC, DEFINEFUNCDEF
	Int     int     // ADD/SUB/MUL/DIV arity, CALL argc, JMP/JUMPIFFALSE offset
	Payload Value   // PUSHQUOTE, PUSHFUNC, PUSHFUNCDEF
}
