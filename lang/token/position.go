package token

import "fmt"

// Position identifies a location in a named source file by line and column,
// both 1-based. A zero Position is not associated with any source location.
type Position struct {
	Filename string
	Line     int
	Col      int
}

// IsValid reports whether the position holds a real line/column.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}
