package machine

import "github.com/universalsequences/zlisp/lang/value"

// execArith implements Add/Sub/Mul/Div(argc) (§4.1): pop argc operands in
// push order and left-fold op across them. Operands must be all Number or
// all Vector; Vector operands combine elementwise and must share one length
// (§3's Vector type, §7 VectorLengthMismatch). A mix of Number and Vector
// operands fails NotANumber (§4.4).
func (th *Thread) execArith(op value.Opcode, argc int) error {
	args, err := th.popN(argc)
	if err != nil {
		return err
	}

	if vecLen, isVec, err := arithVectorLen(args); err != nil {
		return err
	} else if isVec {
		result, err := combineVectors(op, args, vecLen)
		if err != nil {
			return err
		}
		th.push(th.GC.NewVector(result))
		return nil
	}

	acc, ok := args[0].(value.Number)
	if !ok {
		return errf(NotANumber, "%s is not a number", args[0].String())
	}
	for _, arg := range args[1:] {
		n, ok := arg.(value.Number)
		if !ok {
			return errf(NotANumber, "%s is not a number", arg.String())
		}
		var err error
		acc, err = combineNumber(op, acc, n)
		if err != nil {
			return err
		}
	}
	th.push(acc)
	return nil
}

// arithVectorLen reports whether any operand is a Vector and, if so, the
// common length every Vector operand must share. Number operands are not
// checked here; combineVectors rejects them.
func arithVectorLen(args []value.Value) (int, bool, error) {
	length := -1
	for _, a := range args {
		if v, ok := a.(*value.Vector); ok {
			if length == -1 {
				length = v.Len()
			} else if v.Len() != length {
				return 0, false, errf(VectorLengthMismatch, "vector operands have mismatched lengths %d and %d", length, v.Len())
			}
		}
	}
	return length, length != -1, nil
}

func combineVectors(op value.Opcode, args []value.Value, length int) ([]float32, error) {
	acc := make([]float32, length)
	first, err := asFloatSlice(args[0], length)
	if err != nil {
		return nil, err
	}
	copy(acc, first)

	for _, arg := range args[1:] {
		next, err := asFloatSlice(arg, length)
		if err != nil {
			return nil, err
		}
		for i := range acc {
			var err error
			acc[i], err = combineFloat32(op, acc[i], next[i])
			if err != nil {
				return nil, err
			}
		}
	}
	return acc, nil
}

// asFloatSlice returns a Vector operand's elements. Any other operand,
// including a Number mixed in among Vector operands, fails NotANumber:
// Number and Vector operands never combine (§4.4).
func asFloatSlice(v value.Value, length int) ([]float32, error) {
	t, ok := v.(*value.Vector)
	if !ok {
		return nil, errf(NotANumber, "%s is not a number", v.String())
	}
	return t.Elems, nil
}

func combineNumber(op value.Opcode, a, b value.Number) (value.Number, error) {
	switch op {
	case value.ADD:
		return a + b, nil
	case value.SUB:
		return a - b, nil
	case value.MUL:
		return a * b, nil
	case value.DIV:
		if b == 0 {
			return 0, errf(DivisionByZero, "division by zero")
		}
		return a / b, nil
	default:
		return 0, errf(InvalidType, "not an arithmetic opcode: %s", op)
	}
}

func combineFloat32(op value.Opcode, a, b float32) (float32, error) {
	switch op {
	case value.ADD:
		return a + b, nil
	case value.SUB:
		return a - b, nil
	case value.MUL:
		return a * b, nil
	case value.DIV:
		if b == 0 {
			return 0, errf(DivisionByZero, "division by zero")
		}
		return a / b, nil
	default:
		return 0, errf(InvalidType, "not an arithmetic opcode: %s", op)
	}
}
