package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/universalsequences/zlisp/lang/compiler"
	"github.com/universalsequences/zlisp/lang/parser"
	"github.com/universalsequences/zlisp/lang/value"
)

func compileSrc(t *testing.T, src string) []value.Instruction {
	t.Helper()
	v, err := parser.ParseOne("t.zl", src)
	require.NoError(t, err)
	code, err := compiler.Compile(v)
	require.NoError(t, err)
	return code
}

func ops(code []value.Instruction) []value.Opcode {
	out := make([]value.Opcode, len(code))
	for i, instr := range code {
		out[i] = instr.Op
	}
	return out
}

func TestCompileArithmeticCall(t *testing.T) {
	code := compileSrc(t, "(+ 1 2)")
	assert.Equal(t, []value.Opcode{value.PUSHCONST, value.PUSHCONST, value.ADD}, ops(code))
	assert.Equal(t, 2, code[2].Int)
}

func TestCompileArithmeticArityErrorsAtCompileTime(t *testing.T) {
	v, err := parser.ParseOne("t.zl", "(+ 1)")
	require.NoError(t, err)
	_, err = compiler.Compile(v)
	require.Error(t, err)
	var cerr *compiler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compiler.InvalidExpression, cerr.Kind)
}

func TestCompileOrdinaryCall(t *testing.T) {
	code := compileSrc(t, "(sq 5)")
	assert.Equal(t, []value.Opcode{value.LOADVAR, value.PUSHCONST, value.CALL}, ops(code))
	assert.Equal(t, "sq", code[0].Str)
	assert.Equal(t, 1, code[2].Int)
}

func TestCompileSetLeavesValueOnStack(t *testing.T) {
	code := compileSrc(t, "(set x 5)")
	assert.Equal(t, []value.Opcode{value.PUSHCONST, value.STOREVAR}, ops(code))
	assert.Equal(t, "x", code[1].Str)
}

func TestCompileSetBadTarget(t *testing.T) {
	v, err := parser.ParseOne("t.zl", "(set 1 2)")
	require.NoError(t, err)
	_, err = compiler.Compile(v)
	require.Error(t, err)
	var cerr *compiler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compiler.InvalidOperator, cerr.Kind)
}

func TestCompileIfWithElseJumpsAreWithinBounds(t *testing.T) {
	code := compileSrc(t, "(if (< 1 2) 10 20)")
	for i, instr := range code {
		if instr.Op == value.JMP || instr.Op == value.JUMPIFFALSE {
			target := i + instr.Int
			assert.GreaterOrEqual(t, target, 0, "jump at %d out of bounds (low)", i)
			assert.LessOrEqual(t, target, len(code), "jump at %d out of bounds (high)", i)
		}
	}
	// JumpIfFalse must land exactly at the start of the else branch, which
	// immediately follows the then-branch's trailing Jmp.
	var jifIdx, jmpIdx int
	for i, instr := range code {
		switch instr.Op {
		case value.JUMPIFFALSE:
			jifIdx = i
		case value.JMP:
			jmpIdx = i
		}
	}
	assert.Equal(t, jmpIdx+1, jifIdx+code[jifIdx].Int)
	assert.Equal(t, len(code), jmpIdx+code[jmpIdx].Int)
}

func TestCompileIfWithoutElseEmitsNilQuote(t *testing.T) {
	code := compileSrc(t, "(if (< 1 2) 10)")
	last := code[len(code)-1]
	require.Equal(t, value.PUSHQUOTE, last.Op)
	_, isNil := last.Payload.(value.Nil)
	assert.True(t, isNil)
}

func TestCompileLetBalancesStackPerBinding(t *testing.T) {
	code := compileSrc(t, "(let ((x 1) (y 2)) (+ x y))")
	assert.Equal(t, value.ENTERSCOPE, code[0].Op)
	assert.Equal(t, value.EXITSCOPE, code[len(code)-1].Op)

	var pops, stores int
	for _, instr := range code {
		if instr.Op == value.STOREVAR {
			stores++
		}
		if instr.Op == value.POP {
			pops++
		}
	}
	assert.Equal(t, 2, stores)
	assert.Equal(t, 2, pops, "each let binding's StoreVar must be paired with a Pop")
}

func TestCompileDefunSingleParenthesizedPattern(t *testing.T) {
	code := compileSrc(t, "(defun sq (x) (* x x))")
	assert.Equal(t, []value.Opcode{value.PUSHFUNCDEF, value.DEFINEFUNCDEF}, ops(code))
	def, ok := code[0].Payload.(*value.FunctionDef)
	require.True(t, ok)
	require.Len(t, def.Patterns, 1)
	assert.Equal(t, value.PatternSymbol, def.Patterns[0].Kind)
	assert.Equal(t, "x", def.Patterns[0].Name)
	assert.Equal(t, "sq", code[1].Str)
	// body ends with Return
	assert.Equal(t, value.RETURN, def.Code[len(def.Code)-1].Op)
}

func TestCompileDefunBarePattern(t *testing.T) {
	code := compileSrc(t, "(defun f 0 1)")
	def := code[0].Payload.(*value.FunctionDef)
	require.Len(t, def.Patterns, 1)
	assert.Equal(t, value.PatternNumber, def.Patterns[0].Kind)
	assert.Equal(t, 0.0, def.Patterns[0].Num)
}

func TestCompileLambdaTemplateHasNoEnv(t *testing.T) {
	code := compileSrc(t, "(lambda (x y) (+ x y))")
	require.Equal(t, value.PUSHFUNC, code[0].Op)
	tmpl := code[0].Payload.(*value.Closure)
	assert.Equal(t, []string{"x", "y"}, tmpl.Params)
	assert.Nil(t, tmpl.Env)
	assert.Equal(t, value.RETURN, tmpl.Code[len(tmpl.Code)-1].Op)
}

func TestCompileObjectLiteralPairsAndSpread(t *testing.T) {
	code := compileSrc(t, `{ a 1 ... b }`)
	assert.Equal(t, []value.Opcode{
		value.PUSHEMPTYOBJECT,
		value.PUSHCONSTSYMBOL, value.PUSHCONST, value.CALLOBJSET,
		value.LOADVAR, value.CALLOBJMERGE,
	}, ops(code))
	assert.Equal(t, "a", code[1].Str)
}

func TestCompileQuoteEmitsPushQuote(t *testing.T) {
	code := compileSrc(t, "'(1 2 3)")
	require.Len(t, code, 1)
	assert.Equal(t, value.PUSHQUOTE, code[0].Op)
	lst, ok := code[0].Payload.(*value.List)
	require.True(t, ok)
	assert.Len(t, lst.Elems, 3)
}
