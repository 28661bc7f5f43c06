package value

import "strconv"

// String is a heap-allocated byte sequence. UTF-8 is not enforced (§3).
type String struct {
	Header
	Bytes []byte
}

var _ Heap = (*String)(nil)

func (*String) Kind() Kind          { return KindString }
func (s *String) String() string    { return strconv.Quote(string(s.Bytes)) }
func (s *String) Go() string        { return string(s.Bytes) }
func (s *String) Children() []Value { return nil }

// Equal reports whether two strings hold the same bytes.
func (s *String) Equal(o *String) bool { return string(s.Bytes) == string(o.Bytes) }
