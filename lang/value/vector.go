package value

import (
	"strconv"
	"strings"
)

// Vector is a heap-allocated, flat array of 32-bit floats: a SIMD-amenable
// numeric array distinct from the general-purpose List (§3).
type Vector struct {
	Header
	Elems []float32
}

var _ Heap = (*Vector)(nil)

func (*Vector) Kind() Kind { return KindVector }

func (v *Vector) String() string {
	var b strings.Builder
	b.WriteString("(# ")
	for i, e := range v.Elems {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(float64(e), 'g', -1, 32))
	}
	b.WriteByte(')')
	return b.String()
}

// Children is nil: a Vector's elements are raw float32s, not Values, so
// there is nothing for the collector's mark phase to walk into.
func (v *Vector) Children() []Value { return nil }

func (v *Vector) Len() int { return len(v.Elems) }
