package machine

import (
	"strings"

	"github.com/universalsequences/zlisp/lang/value"
)

// step executes one instruction against frame and advances its PC, except
// where the opcode manages its own advance (Jump, JumpIfFalse, Call,
// Return — §4.1).
func (th *Thread) step(frame *Frame, instr value.Instruction) error {
	switch instr.Op {
	case value.NOP:
		frame.PC++
		return nil

	case value.PUSHCONST:
		th.push(value.Number(instr.Num))
		frame.PC++
		return nil

	case value.PUSHCONSTSTRING:
		th.push(th.GC.NewString(instr.Str))
		frame.PC++
		return nil

	case value.PUSHCONSTSYMBOL:
		th.push(value.Symbol(instr.Str))
		frame.PC++
		return nil

	case value.PUSHQUOTE:
		th.push(th.materialize(instr.Payload))
		frame.PC++
		return nil

	case value.PUSHFUNC:
		tmpl, ok := instr.Payload.(*value.Closure)
		if !ok {
			return errf(InvalidType, "PushFunc payload is not a Closure template")
		}
		th.push(th.GC.NewLambda(tmpl.Name, tmpl.Params, tmpl.Code, frame.Env()))
		frame.PC++
		return nil

	case value.PUSHFUNCDEF:
		def, ok := instr.Payload.(*value.FunctionDef)
		if !ok {
			return errf(InvalidType, "PushFuncDef payload is not a FunctionDef")
		}
		th.push(def)
		frame.PC++
		return nil

	case value.PUSHEMPTYOBJECT:
		th.push(th.GC.NewObject())
		frame.PC++
		return nil

	case value.DUP:
		top, err := th.peek()
		if err != nil {
			return err
		}
		th.push(top)
		frame.PC++
		return nil

	case value.POP:
		if _, err := th.pop(); err != nil {
			return err
		}
		frame.PC++
		return nil

	case value.ADD, value.SUB, value.MUL, value.DIV:
		if err := th.execArith(instr.Op, instr.Int); err != nil {
			return err
		}
		frame.PC++
		return nil

	case value.LOADVAR:
		if err := th.execLoadVar(frame, instr.Str); err != nil {
			return err
		}
		frame.PC++
		return nil

	case value.STOREVAR:
		top, err := th.peek()
		if err != nil {
			return err
		}
		frame.Env().Define(instr.Str, top)
		frame.PC++
		return nil

	case value.ENTERSCOPE:
		frame.EnterScope()
		frame.PC++
		return nil

	case value.EXITSCOPE:
		if err := frame.ExitScope(); err != nil {
			return err
		}
		frame.PC++
		return nil

	case value.DEFINEFUNC:
		top, err := th.peek()
		if err != nil {
			return err
		}
		frame.Env().Define(instr.Str, top)
		frame.PC++
		return nil

	case value.DEFINEFUNCDEF:
		if err := th.execDefineFuncDef(frame, instr.Str); err != nil {
			return err
		}
		frame.PC++
		return nil

	case value.CALL:
		return th.execCall(frame, instr.Int)

	case value.JMP:
		frame.PC += instr.Int
		return nil

	case value.JUMPIFFALSE:
		cond, err := th.pop()
		if err != nil {
			return err
		}
		if isFalsy(cond) {
			frame.PC += instr.Int
		} else {
			frame.PC++
		}
		return nil

	case value.RETURN:
		th.frames = th.frames[:len(th.frames)-1]
		return nil

	case value.CALLOBJSET:
		return th.execObjSet(frame)

	case value.CALLOBJMERGE:
		return th.execObjMerge(frame)

	default:
		return errf(InvalidType, "unknown opcode %s", instr.Op)
	}
}

func isFalsy(v value.Value) bool {
	t, ok := v.(value.Truther)
	if !ok {
		return true
	}
	return !t.Truth()
}

// materialize implements PushQuote's "if List, materialize as chained
// cons" rule (§4.1): a quoted List literal becomes a freshly allocated,
// GC-tracked Cons chain; every other payload (Number, Symbol, String,
// Nil, a nested Quote, ...) is pushed unchanged.
func (th *Thread) materialize(payload value.Value) value.Value {
	if lst, ok := payload.(*value.List); ok {
		return th.GC.NewConsChain(lst.Elems)
	}
	return payload
}

// execLoadVar implements §4.1's LoadVar lookup-or-operator-fallback rule.
func (th *Thread) execLoadVar(frame *Frame, name string) error {
	if v, ok := frame.Env().Lookup(name); ok {
		th.push(v)
		return nil
	}
	if isReservedOperatorName(name) {
		th.push(value.Symbol(name))
		return nil
	}
	return errf(VariableNotFound, "variable not found: %s", name)
}

// isReservedOperatorName reports whether name is one of the reduction
// operator names the LoadVar fallback reserves (§4.4: "+, -, *, /, and any
// name starting with min or max"), enabling them to be passed as first-class
// arguments to natives like @reduce even when no such variable is bound.
func isReservedOperatorName(name string) bool {
	switch name {
	case "+", "-", "*", "/":
		return true
	}
	return strings.HasPrefix(name, "min") || strings.HasPrefix(name, "max")
}
