package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/universalsequences/zlisp/lang/environment"
	"github.com/universalsequences/zlisp/lang/value"
)

func TestLookupWalksParentChain(t *testing.T) {
	global := environment.New()
	global.Define("x", value.Number(1))
	child := global.Child()

	v, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)
}

func TestDefineNeverTouchesParent(t *testing.T) {
	global := environment.New()
	child := global.Child()
	child.Define("y", value.Number(2))

	_, ok := global.Lookup("y")
	assert.False(t, ok)

	v, ok := child.Lookup("y")
	require.True(t, ok)
	assert.Equal(t, value.Number(2), v)
}

func TestChildShadowsParentBinding(t *testing.T) {
	global := environment.New()
	global.Define("x", value.Number(1))
	child := global.Child().(*environment.Environment)
	child.Define("x", value.Number(99))

	v, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, value.Number(99), v)

	v, ok = global.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)
}

func TestLookupMissReportsNotFound(t *testing.T) {
	global := environment.New()
	_, ok := global.Lookup("missing")
	assert.False(t, ok)
}

func TestNamesListsOnlyDirectBindings(t *testing.T) {
	global := environment.New()
	global.Define("a", value.Number(1))
	child := global.Child().(*environment.Environment)
	child.Define("b", value.Number(2))

	assert.Equal(t, []string{"b"}, child.Names())
	assert.Equal(t, []string{"a"}, global.Names())
}
