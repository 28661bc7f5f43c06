package value

import "strings"

// ObjectLiteralEntry is one element of an ObjectLiteral: either a Pair (key,
// value expression) or a Spread (expression whose Object result is merged
// in). It is never on the operand stack.
type ObjectLiteralEntry struct {
	Spread bool
	Key    string // valid when !Spread
	Expr   Value  // the (unevaluated) value or spread expression
}

// ObjectLiteral is the AST-only node produced by parsing a `{ ... }` form
// (§3, §6). The compiler lowers it to PushEmptyObject plus a CallObjSet or
// CallObjMerge per entry (§4.2); it is never pushed on the operand stack.
type ObjectLiteral struct {
	Entries []ObjectLiteralEntry
}

var _ Value = (*ObjectLiteral)(nil)

func (*ObjectLiteral) Kind() Kind { return KindObjectLiteral }

func (o *ObjectLiteral) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range o.Entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		if e.Spread {
			b.WriteString("... ")
			b.WriteString(e.Expr.String())
		} else {
			b.WriteString(e.Key)
			b.WriteByte(' ')
			b.WriteString(e.Expr.String())
		}
	}
	b.WriteByte('}')
	return b.String()
}
