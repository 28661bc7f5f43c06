// Package builtins implements the native function table (§6): arithmetic
// and comparison, list primitives over Cons chains, and vector primitives,
// each registered as a value.Native into a global Environment before a
// program runs.
package builtins

import (
	"github.com/universalsequences/zlisp/lang/environment"
	"github.com/universalsequences/zlisp/lang/machine"
	"github.com/universalsequences/zlisp/lang/value"
)

// Install registers every built-in name into env (§6 "registered before
// execution under the names shown").
func Install(env *environment.Environment) {
	for _, n := range natives {
		env.Define(n.Name, n)
	}
}

var natives = []*value.Native{
	{Name: "<", Fn: lessThan},
	{Name: "==", Fn: equal},
	{Name: "cons", Fn: consFn},
	{Name: "car", Fn: carFn},
	{Name: "cdr", Fn: cdrFn},
	{Name: "list", Fn: listFn},
	{Name: "nil?", Fn: nilPred},
	{Name: "nil", Fn: nilFn},
	{Name: "len", Fn: lenFn},
	{Name: "concat", Fn: concatFn},
	{Name: "get", Fn: getFn},
	{Name: "#", Fn: vectorFn},
	{Name: "@reduce", Fn: reduceFn},
	{Name: "@stride", Fn: strideFn},
}

func checkArgc(name string, args []value.Value, want int) error {
	if len(args) != want {
		return machine.Errf(machine.ArgumentCountMismatch, "%s expects %d argument(s), got %d", name, want, len(args))
	}
	return nil
}

func asNumber(name string, v value.Value) (value.Number, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, machine.Errf(machine.NotANumber, "%s: %s is not a number", name, v.String())
	}
	return n, nil
}

func lessThan(_ value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("<", args, 2); err != nil {
		return nil, err
	}
	a, err := asNumber("<", args[0])
	if err != nil {
		return nil, err
	}
	b, err := asNumber("<", args[1])
	if err != nil {
		return nil, err
	}
	return value.Bool(a < b), nil
}

func equal(_ value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("==", args, 2); err != nil {
		return nil, err
	}
	return value.Bool(valuesEqual(args[0], args[1])), nil
}

func valuesEqual(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case value.Number:
		return av == b.(value.Number)
	case value.Symbol:
		return av == b.(value.Symbol)
	case value.Nil:
		return true
	case *value.String:
		return av.Equal(b.(*value.String))
	default:
		return a == b
	}
}

// consFn implements `cons` (§6, §9 "native calling convention": allocates
// through the GC so results are traceable).
func consFn(alloc value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("cons", args, 2); err != nil {
		return nil, err
	}
	return alloc.NewCons(args[0], args[1]), nil
}

func carFn(_ value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("car", args, 1); err != nil {
		return nil, err
	}
	cell, ok := args[0].(*value.Cons)
	if !ok {
		return nil, machine.Errf(machine.NotACons, "car: %s is not a cons", args[0].String())
	}
	return cell.Car, nil
}

func cdrFn(_ value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("cdr", args, 1); err != nil {
		return nil, err
	}
	cell, ok := args[0].(*value.Cons)
	if !ok {
		return nil, machine.Errf(machine.NotACons, "cdr: %s is not a cons", args[0].String())
	}
	return cell.Cdr, nil
}

// listFn implements `list`: build a proper Cons chain out of its arguments.
func listFn(alloc value.Allocator, args []value.Value) (value.Value, error) {
	return value.ConsFromSlice(args, alloc.NewCons), nil
}

func nilPred(_ value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("nil?", args, 1); err != nil {
		return nil, err
	}
	_, isNil := args[0].(value.Nil)
	return value.Bool(isNil), nil
}

func nilFn(_ value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("nil", args, 0); err != nil {
		return nil, err
	}
	return value.Nil{}, nil
}

// consSlice flattens a proper Cons chain (terminated by Nil) into a slice.
func consSlice(name string, v value.Value) ([]value.Value, error) {
	var out []value.Value
	cur := v
	for {
		switch t := cur.(type) {
		case value.Nil:
			return out, nil
		case *value.Cons:
			out = append(out, t.Car)
			cur = t.Cdr
		default:
			return nil, machine.Errf(machine.NotACons, "%s: improper list (tail %s)", name, cur.String())
		}
	}
}

// lenFn implements `len` over whichever of the sized value kinds it is
// handed: a Cons chain, a String, a Vector, or an Object.
func lenFn(_ value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("len", args, 1); err != nil {
		return nil, err
	}
	switch t := args[0].(type) {
	case value.Nil:
		return value.Number(0), nil
	case *value.Cons:
		elems, err := consSlice("len", t)
		if err != nil {
			return nil, err
		}
		return value.Number(len(elems)), nil
	case *value.String:
		return value.Number(len(t.Bytes)), nil
	case *value.Vector:
		return value.Number(t.Len()), nil
	case *value.Object:
		return value.Number(t.Len()), nil
	default:
		return nil, machine.Errf(machine.TypeMismatch, "len: %s has no length", args[0].String())
	}
}

// concatFn implements `concat` over two Cons chains.
func concatFn(alloc value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("concat", args, 2); err != nil {
		return nil, err
	}
	a, err := consSlice("concat", args[0])
	if err != nil {
		return nil, err
	}
	b, err := consSlice("concat", args[1])
	if err != nil {
		return nil, err
	}
	return value.ConsFromSlice(append(a, b...), alloc.NewCons), nil
}

// getFn implements `get` (§6, §9 Open Question (b)): 0-indexed access into a
// Cons chain by Number index, or key access into an Object by String or
// Symbol key (§8 scenario 3).
func getFn(_ value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("get", args, 2); err != nil {
		return nil, err
	}
	switch target := args[0].(type) {
	case *value.Object:
		var key string
		switch k := args[1].(type) {
		case *value.String:
			key = k.Go()
		case value.Symbol:
			key = string(k)
		default:
			return nil, machine.Errf(machine.InvalidKey, "get: object key must be a string or symbol, got %s", args[1].Kind())
		}
		v, ok := target.Get(key)
		if !ok {
			return nil, machine.Errf(machine.InvalidKey, "get: no such key %q", key)
		}
		return v, nil
	case *value.Cons, value.Nil:
		idx, err := asNumber("get", args[1])
		if err != nil {
			return nil, err
		}
		elems, err := consSlice("get", target)
		if err != nil {
			return nil, err
		}
		i := int(idx)
		if i < 0 || i >= len(elems) {
			return nil, machine.Errf(machine.InvalidKey, "get: index %d out of range (len %d)", i, len(elems))
		}
		return elems[i], nil
	default:
		return nil, machine.Errf(machine.TypeMismatch, "get: %s is not indexable", args[0].String())
	}
}
