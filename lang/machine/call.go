package machine

import (
	"github.com/universalsequences/zlisp/lang/value"
)

// execCall implements Call(argc) (§4.1, §4.3, §4.4): pop the callee and argc
// arguments, then dispatch on the callee's runtime kind.
func (th *Thread) execCall(frame *Frame, argc int) error {
	args, err := th.popN(argc)
	if err != nil {
		return err
	}
	callee, err := th.pop()
	if err != nil {
		return err
	}

	switch fn := callee.(type) {
	case *value.Closure:
		if fn.IsNamed() {
			return th.callNamed(frame, fn, args)
		}
		return th.callLambda(frame, fn, args)
	case *value.Native:
		result, err := fn.Fn(th.GC, args)
		if err != nil {
			return err
		}
		th.push(result)
		frame.PC++
		return nil
	default:
		return errf(NotAFunction, "%s is not callable", callee.String())
	}
}

// callLambda pushes a new frame over a fresh child of fn's closed-over
// environment with its parameters bound to args (§4.4 "Call (lambda)").
// caller's pc is advanced past the call before the callee frame is pushed,
// so that when the callee later executes Return (which only pops its own
// frame), execution resumes at the instruction following this Call.
func (th *Thread) callLambda(caller *Frame, fn *value.Closure, args []value.Value) error {
	if len(args) != len(fn.Params) {
		return errf(ArgumentCountMismatch, "%s expects %d argument(s), got %d", fn.String(), len(fn.Params), len(args))
	}
	if th.MaxCallStackDepth > 0 && len(th.frames) >= th.MaxCallStackDepth {
		return errf(InvalidType, "call stack depth exceeded (%d)", th.MaxCallStackDepth)
	}
	child := fn.Env.Child()
	for i, p := range fn.Params {
		child.Define(p, args[i])
	}
	caller.PC++
	th.frames = append(th.frames, &Frame{Code: fn.Code, Scopes: []value.Scope{child}})
	return nil
}

// callNamed implements pattern dispatch over fn's arms (§4.3): the first arm
// whose pattern vector matches args, in declaration order, is invoked; no
// match is a runtime error. Like callLambda, caller's pc is advanced past
// the call before the callee frame is pushed.
func (th *Thread) callNamed(caller *Frame, fn *value.Closure, args []value.Value) error {
	for _, def := range fn.Defs {
		if len(def.Patterns) != len(args) {
			continue
		}
		child := fn.Env.Child()
		if matchPatterns(def.Patterns, args, child) {
			if th.MaxCallStackDepth > 0 && len(th.frames) >= th.MaxCallStackDepth {
				return errf(InvalidType, "call stack depth exceeded (%d)", th.MaxCallStackDepth)
			}
			caller.PC++
			th.frames = append(th.frames, &Frame{Code: def.Code, Scopes: []value.Scope{child}})
			return nil
		}
	}
	return errf(InvalidKey, "no matching pattern arm for %s with %d argument(s)", fn.String(), len(args))
}

// matchPatterns tests args against patterns element-wise, binding
// PatternSymbol positions into scope as it goes (§4.3). A PatternUnknown
// element causes the whole arm to be skipped, per its doc comment.
func matchPatterns(patterns []value.Pattern, args []value.Value, scope value.Scope) bool {
	for i, p := range patterns {
		switch p.Kind {
		case value.PatternSymbol:
			scope.Define(p.Name, args[i])
		case value.PatternNumber:
			n, ok := args[i].(value.Number)
			if !ok || float64(n) != p.Num {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// execDefineFuncDef implements DefineFuncDef(name) (§4.1, §9 "Named
// redefinition"): take the FunctionDef arm just pushed by PushFuncDef from
// the top of the stack without popping it (it stays there as the defun
// form's result) and attach it to the Closure bound to name, mutating an
// existing named Closure
// in place (so recursive self-reference through the live environment chain
// keeps working) or allocating a fresh one if name is unbound.
func (th *Thread) execDefineFuncDef(frame *Frame, name string) error {
	top, err := th.peek()
	if err != nil {
		return err
	}
	def, ok := top.(*value.FunctionDef)
	if !ok {
		return errf(InvalidType, "DefineFuncDef payload is not a FunctionDef")
	}

	env := frame.Env()
	if existing, ok := env.Lookup(name); ok {
		if closure, ok := existing.(*value.Closure); ok && closure.IsNamed() {
			closure.Defs = replaceOrAppendDef(closure.Defs, def)
			closure.Env = env.Child()
			env.Define(name, closure)
			return nil
		}
	}

	closure := th.GC.NewNamedClosure(name, []*value.FunctionDef{def}, env.Child())
	env.Define(name, closure)
	return nil
}

// replaceOrAppendDef implements §9's pattern-equality replacement rule: an
// arm whose pattern vector structurally equals an existing arm's replaces it
// in place (preserving its declaration-order position); otherwise the new
// arm is appended.
func replaceOrAppendDef(defs []*value.FunctionDef, def *value.FunctionDef) []*value.FunctionDef {
	for i, d := range defs {
		if d.PatternsEqual(def) {
			defs[i] = def
			return defs
		}
	}
	return append(defs, def)
}

// execObjSet implements CallObjSet(2) (§4.1): pop value, key, object in that
// order (they were pushed object, key, value), set, and push the object back.
func (th *Thread) execObjSet(frame *Frame) error {
	v, err := th.pop()
	if err != nil {
		return err
	}
	key, err := th.pop()
	if err != nil {
		return err
	}
	obj, err := th.pop()
	if err != nil {
		return err
	}
	o, ok := obj.(*value.Object)
	if !ok {
		return errf(NotAnObject, "CallObjSet target is not an object")
	}
	sym, ok := key.(value.Symbol)
	if !ok {
		return errf(InvalidKey, "CallObjSet key is not a symbol")
	}
	o.Set(string(sym), v)
	th.push(o)
	frame.PC++
	return nil
}

// execObjMerge implements CallObjMerge(1) (§4.1, the spread operator): pop
// src then dst, merge src's entries into dst, and push dst back.
func (th *Thread) execObjMerge(frame *Frame) error {
	src, err := th.pop()
	if err != nil {
		return err
	}
	dst, err := th.pop()
	if err != nil {
		return err
	}
	s, ok := src.(*value.Object)
	if !ok {
		return errf(NotAnObject, "CallObjMerge source is not an object")
	}
	d, ok := dst.(*value.Object)
	if !ok {
		return errf(NotAnObject, "CallObjMerge destination is not an object")
	}
	d.MergeFrom(s)
	th.push(d)
	frame.PC++
	return nil
}
