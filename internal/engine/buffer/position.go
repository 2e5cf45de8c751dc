package buffer

import (
	"cmp"
	"fmt"
)

// Point is a zero-based line and rune column.
type Point struct {
	Line   int
	Column int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Compare orders points by line, then column.
func (p Point) Compare(other Point) int {
	if c := cmp.Compare(p.Line, other.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, other.Column)
}
