package value

// Cons is the canonical pair (car, cdr) from which chained lists are built
// (§3). Quoted List literals are materialized into chains of Cons cells by
// PushQuote (§4.1).
type Cons struct {
	Header
	Car, Cdr Value
}

var _ Heap = (*Cons)(nil)

func (*Cons) Kind() Kind { return KindCons }

func (c *Cons) String() string {
	s := "("
	var cur Value = c
	first := true
	for {
		cell, ok := cur.(*Cons)
		if !ok {
			break
		}
		if !first {
			s += " "
		}
		first = false
		s += cell.Car.String()
		cur = cell.Cdr
	}
	if _, isNil := cur.(Nil); !isNil {
		s += " . " + cur.String()
	}
	return s + ")"
}

func (c *Cons) Children() []Value { return []Value{c.Car, c.Cdr} }

// ConsFromSlice builds a proper list out of elems by chaining Cons cells,
// terminated by Nil. It does not itself register the allocations with a
// collector; callers go through an Allocator (see gc.Collector.NewConsChain).
func ConsFromSlice(elems []Value, newCons func(car, cdr Value) *Cons) Value {
	var tail Value = Nil{}
	for i := len(elems) - 1; i >= 0; i-- {
		tail = newCons(elems[i], tail)
	}
	return tail
}
