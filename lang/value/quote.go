package value

// Quote wraps a parsed-but-unevaluated Value, produced by the parser for
// `(quote expr)` and `'expr` source forms. It is AST-only in the common case:
// the compiler unwraps it and emits PushQuote with the inner Value as payload
// (§4.2), so a bare Quote rarely survives to the operand stack — only a
// quote inside a quoted form, like '(a 'b), leaves one nested inside the
// pushed value.
type Quote struct {
	Header
	Inner Value
}

var _ Heap = (*Quote)(nil)

func (*Quote) Kind() Kind          { return KindQuote }
func (q *Quote) String() string    { return "'" + q.Inner.String() }
func (q *Quote) Children() []Value { return []Value{q.Inner} }
