package builtins

import (
	"github.com/universalsequences/zlisp/lang/machine"
	"github.com/universalsequences/zlisp/lang/value"
)

// vectorFn implements `#`: build a Vector out of Number arguments.
func vectorFn(alloc value.Allocator, args []value.Value) (value.Value, error) {
	elems := make([]float32, len(args))
	for i, a := range args {
		n, err := asNumber("#", a)
		if err != nil {
			return nil, err
		}
		elems[i] = float32(n)
	}
	return alloc.NewVector(elems), nil
}

// reduceOps maps the reserved operator-symbol names the machine's LoadVar
// fallback produces (§4.4) to their float32 combinators.
var reduceOps = map[value.Symbol]func(a, b float32) float32{
	"+": func(a, b float32) float32 { return a + b },
	"*": func(a, b float32) float32 { return a * b },
	"min": func(a, b float32) float32 {
		if a < b {
			return a
		}
		return b
	},
	"max": func(a, b float32) float32 {
		if a > b {
			return a
		}
		return b
	},
}

// reduceFn implements `@reduce op vec` (§6, §8 scenario 6): left-fold op
// across vec's elements.
func reduceFn(_ value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("@reduce", args, 2); err != nil {
		return nil, err
	}
	opSym, ok := args[0].(value.Symbol)
	if !ok {
		return nil, machine.Errf(machine.TypeMismatch, "@reduce: operator must be a symbol, got %s", args[0].Kind())
	}
	combine, ok := reduceOps[opSym]
	if !ok {
		return nil, machine.Errf(machine.TypeMismatch, "@reduce: unsupported operator %q", string(opSym))
	}
	vec, ok := args[1].(*value.Vector)
	if !ok {
		return nil, machine.Errf(machine.TypeMismatch, "@reduce: %s is not a vector", args[1].String())
	}
	if vec.Len() == 0 {
		return nil, machine.Errf(machine.VectorLengthMismatch, "@reduce: vector is empty")
	}
	acc := vec.Elems[0]
	for _, e := range vec.Elems[1:] {
		acc = combine(acc, e)
	}
	return value.Number(acc), nil
}

// strideFn implements `@stride vec stride offset` (§6): a strided
// subvector, starting at offset and advancing by stride through vec.
func strideFn(alloc value.Allocator, args []value.Value) (value.Value, error) {
	if err := checkArgc("@stride", args, 3); err != nil {
		return nil, err
	}
	vec, ok := args[0].(*value.Vector)
	if !ok {
		return nil, machine.Errf(machine.TypeMismatch, "@stride: %s is not a vector", args[0].String())
	}
	strideN, err := asNumber("@stride", args[1])
	if err != nil {
		return nil, err
	}
	offsetN, err := asNumber("@stride", args[2])
	if err != nil {
		return nil, err
	}
	stride := int(strideN)
	offset := int(offsetN)
	if stride <= 0 {
		return nil, machine.Errf(machine.TypeMismatch, "@stride: stride must be positive, got %d", stride)
	}

	var out []float32
	for i := offset; i >= 0 && i < len(vec.Elems); i += stride {
		out = append(out, vec.Elems[i])
	}
	return alloc.NewVector(out), nil
}
