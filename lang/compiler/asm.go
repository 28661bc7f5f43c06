package compiler

import (
	"fmt"
	"strings"

	"github.com/universalsequences/zlisp/lang/value"
)

// This file implements a human-readable disassembly of a compiled
// instruction sequence, in the spirit of the teacher's asm.go: one line per
// instruction, index-prefixed, used by the CLI's disasm command. Unlike the
// teacher's byte-encoded,
// varint-argument format, instructions here are already a typed Go slice
// (no encode/decode step), so there is no matching Asm (text -> code)
// reader; Disassemble only ever goes one way.

// Disassemble renders code as a pseudo-assembly listing, one instruction
// per line, prefixed with its index so Jump/JumpIfFalse targets (computed
// relative to their own index, §4.1) can be read off directly as
// `index+offset`.
func Disassemble(code []value.Instruction) string {
	var b strings.Builder
	for i, instr := range code {
		fmt.Fprintf(&b, "%03d\t%s", i, instr.Op)
		if arg := disasmArg(i, instr); arg != "" {
			b.WriteByte('\t')
			b.WriteString(arg)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func disasmArg(index int, instr value.Instruction) string {
	switch instr.Op {
	case value.PUSHCONST:
		return fmt.Sprintf("%g", instr.Num)
	case value.PUSHCONSTSTRING, value.PUSHCONSTSYMBOL:
		return fmt.Sprintf("%q", instr.Str)
	case value.LOADVAR, value.STOREVAR, value.DEFINEFUNC, value.DEFINEFUNCDEF:
		return instr.Str
	case value.ADD, value.SUB, value.MUL, value.DIV:
		return fmt.Sprintf("<%d>", instr.Int)
	case value.CALL:
		return fmt.Sprintf("<%d>", instr.Int)
	case value.JMP, value.JUMPIFFALSE:
		return fmt.Sprintf("%+d\t# -> %03d", instr.Int, index+instr.Int)
	case value.PUSHQUOTE, value.PUSHFUNC, value.PUSHFUNCDEF:
		if instr.Payload != nil {
			return instr.Payload.String()
		}
		return ""
	default:
		return ""
	}
}
