package builtins_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/universalsequences/zlisp/lang/builtins"
	"github.com/universalsequences/zlisp/lang/compiler"
	"github.com/universalsequences/zlisp/lang/environment"
	"github.com/universalsequences/zlisp/lang/gc"
	"github.com/universalsequences/zlisp/lang/machine"
	"github.com/universalsequences/zlisp/lang/parser"
	"github.com/universalsequences/zlisp/lang/value"
)

func newThread(t *testing.T) *machine.Thread {
	t.Helper()
	global := environment.New()
	builtins.Install(global)
	return machine.NewWithGlobal(global, gc.New())
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

func TestReduceOverVector(t *testing.T) {
	th := newThread(t)
	result := run(t, th, "(@reduce + (# 1 2 3 4 5))")
	assert.Equal(t, value.Number(15), result)
}

func TestStrideSubvector(t *testing.T) {
	th := newThread(t)
	result := run(t, th, "(@stride (# 10 20 30 40 50 60) 2 1)")
	vec, ok := result.(*value.Vector)
	require.True(t, ok)
	assert.Equal(t, []float32{20, 40, 60}, vec.Elems)
}

func TestConsCarCdrList(t *testing.T) {
	th := newThread(t)
	assert.Equal(t, value.Number(1), run(t, th, "(car (cons 1 2))"))
	assert.Equal(t, value.Number(2), run(t, th, "(cdr (cons 1 2))"))
	assert.Equal(t, value.Number(3), run(t, th, "(len (list 1 2 3))"))
}

func TestNilPredicate(t *testing.T) {
	th := newThread(t)
	assert.Equal(t, value.Bool(true), run(t, th, "(nil? (nil))"))
	assert.Equal(t, value.Bool(false), run(t, th, "(nil? 1)"))
}

func TestConcatAndGetZeroIndexed(t *testing.T) {
	th := newThread(t)
	run(t, th, "(set l (concat (list 1 2) (list 3 4)))")
	assert.Equal(t, value.Number(1), run(t, th, "(get l 0)"))
	assert.Equal(t, value.Number(4), run(t, th, "(get l 3)"))
}

func TestGetOnObjectScenario(t *testing.T) {
	th := newThread(t)
	run(t, th, `(set step { stepNumber 0 time 123 })`)
	run(t, th, `(set step2 { ... step transpose 4 })`)
	assert.Equal(t, value.Number(4), run(t, th, `(get step2 "transpose")`))
	assert.Equal(t, value.Number(0), run(t, th, `(get step2 "stepNumber")`))
}

func TestLessThanAndEqual(t *testing.T) {
	th := newThread(t)
	assert.Equal(t, value.Bool(true), run(t, th, "(< 1 2)"))
	assert.Equal(t, value.Bool(false), run(t, th, "(< 2 1)"))
	assert.Equal(t, value.Bool(true), run(t, th, "(== 3 3)"))
}

func TestGetOutOfRangeErrors(t *testing.T) {
	th := newThread(t)
	v, err := parser.ParseOne("t.zl", "(get (list 1 2) 5)")
	require.NoError(t, err)
	code, err := compiler.Compile(v)
	require.NoError(t, err)
	_, err = th.Run(context.Background(), code)
	require.Error(t, err)
	var merr *machine.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, machine.InvalidKey, merr.Kind)
}
