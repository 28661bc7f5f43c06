package value

import "strings"

// List is a heap-allocated, ordered sequence of values, used for literal and
// quoted forms (§3). Unlike Cons, a List is a single flat allocation.
type List struct {
	Header
	Elems []Value
}

var _ Heap = (*List)(nil)

func (*List) Kind() Kind { return KindList }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range l.Elems {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (l *List) Children() []Value { return l.Elems }
