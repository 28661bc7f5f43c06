package machine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/universalsequences/zlisp/lang/builtins"
	"github.com/universalsequences/zlisp/lang/compiler"
	"github.com/universalsequences/zlisp/lang/machine"
	"github.com/universalsequences/zlisp/lang/parser"
	"github.com/universalsequences/zlisp/lang/value"
)

// newThread returns a Thread with the built-in function table installed, for
// tests that exercise natives like `<` alongside the bare compiler/VM
// special forms.
func newThread() *machine.Thread {
	th := machine.New()
	builtins.Install(th.Global())
	return th
}

func run(t *testing.T, th *machine.Thread, src string) value.Value {
	t.Helper()
	v, err := parser.ParseOne("t.zl", src)
	require.NoError(t, err)
	code, err := compiler.Compile(v)
	require.NoError(t, err)
	result, err := th.Run(context.Background(), code)
	require.NoError(t, err)
	return result
}

func runErr(t *testing.T, th *machine.Thread, src string) error {
	t.Helper()
	v, err := parser.ParseOne("t.zl", src)
	require.NoError(t, err)
	code, err := compiler.Compile(v)
	require.NoError(t, err)
	_, err = th.Run(context.Background(), code)
	return err
}

func TestRunArithmetic(t *testing.T) {
	th := machine.New()
	result := run(t, th, "(+ 1 2)")
	assert.Equal(t, value.Number(3), result)
}

func TestRunDefunSquare(t *testing.T) {
	th := machine.New()
	run(t, th, "(defun sq (x) (* x x))")
	result := run(t, th, "(sq 5)")
	assert.Equal(t, value.Number(25), result)
}

func TestRunObjectLiteralSpreadAndGet(t *testing.T) {
	th := machine.New()
	run(t, th, "(set base { a 1 b 2 })")
	result := run(t, th, "(set merged { c 4 ... base })")
	obj, ok := result.(*value.Object)
	require.True(t, ok)
	v, ok := obj.Get("c")
	require.True(t, ok)
	assert.Equal(t, value.Number(4), v)
	v, ok = obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)
}

func TestRunDefunPatternArmPrecedence(t *testing.T) {
	th := machine.New()
	run(t, th, "(defun f 0 1)")
	run(t, th, "(defun f (n) (* n 2))")
	assert.Equal(t, value.Number(1), run(t, th, "(f 0)"))
	assert.Equal(t, value.Number(6), run(t, th, "(f 3)"))
}

func TestRunLetScopingDoesNotLeakBindings(t *testing.T) {
	th := machine.New()
	result := run(t, th, "(let ((x 2) (y 3)) (+ x y))")
	assert.Equal(t, value.Number(5), result)

	err := runErr(t, th, "x")
	require.Error(t, err)
	var merr *machine.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, machine.VariableNotFound, merr.Kind)
}

func TestRunLambdaCapturesDefiningEnvironment(t *testing.T) {
	th := machine.New()
	run(t, th, "(set adder (lambda (x) (lambda (y) (+ x y))))")
	run(t, th, "(set sum (adder 5))")
	result := run(t, th, "(sum 1)")
	assert.Equal(t, value.Number(6), result)
}

func TestRunVectorArithmeticElementwise(t *testing.T) {
	th := machine.New()
	th.Global().Define("v1", th.GC.NewVector([]float32{1, 2, 3}))
	th.Global().Define("v2", th.GC.NewVector([]float32{10, 20, 30}))
	result := run(t, th, "(+ v1 v2)")
	vec, ok := result.(*value.Vector)
	require.True(t, ok)
	assert.Equal(t, []float32{11, 22, 33}, vec.Elems)
}

func TestRunVectorLengthMismatchErrors(t *testing.T) {
	th := machine.New()
	th.Global().Define("v1", th.GC.NewVector([]float32{1, 2}))
	th.Global().Define("v2", th.GC.NewVector([]float32{1, 2, 3}))
	err := runErr(t, th, "(+ v1 v2)")
	require.Error(t, err)
	var merr *machine.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, machine.VectorLengthMismatch, merr.Kind)
}

func TestRunMixedNumberVectorArithmeticErrors(t *testing.T) {
	th := machine.New()
	th.Global().Define("v1", th.GC.NewVector([]float32{1, 2, 3}))
	err := runErr(t, th, "(+ v1 1)")
	require.Error(t, err)
	var merr *machine.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, machine.NotANumber, merr.Kind)
}

func TestRunDivisionByZero(t *testing.T) {
	th := machine.New()
	err := runErr(t, th, "(/ 1 0)")
	require.Error(t, err)
	var merr *machine.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, machine.DivisionByZero, merr.Kind)
}

func TestRunCallingNonFunctionErrors(t *testing.T) {
	th := machine.New()
	run(t, th, "(set x 5)")
	err := runErr(t, th, "(x 1)")
	require.Error(t, err)
	var merr *machine.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, machine.NotAFunction, merr.Kind)
}

func TestRunArgumentCountMismatch(t *testing.T) {
	th := machine.New()
	run(t, th, "(set f (lambda (x y) (+ x y)))")
	err := runErr(t, th, "(f 1)")
	require.Error(t, err)
	var merr *machine.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, machine.ArgumentCountMismatch, merr.Kind)
}

func TestRunQuoteMaterializesConsChain(t *testing.T) {
	th := machine.New()
	result := run(t, th, "'(1 2 3)")
	cons, ok := result.(*value.Cons)
	require.True(t, ok)
	assert.Equal(t, value.Number(1), cons.Car)
}

func TestRunIfBranches(t *testing.T) {
	th := newThread()
	assert.Equal(t, value.Number(10), run(t, th, "(if (< 1 2) 10 20)"))
}

func TestCollectReclaimsUnreachableAllocations(t *testing.T) {
	th := machine.New()
	run(t, th, "(set tmp '(1 2 3))")
	before := th.GC.Tracked()
	require.Greater(t, before, 0)

	run(t, th, "(set tmp 0)")
	stats := th.Collect()
	assert.Less(t, stats.Tracked, before)
}
