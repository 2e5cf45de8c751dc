package buffer

import (
	"slices"
	"sort"
)

// lineIndex is the ordered list of line-start offsets. Entry 0 is always 0
// and len(starts) is the number of newlines plus one.
type lineIndex struct {
	starts []int
}

func (li *lineIndex) reset() {
	li.starts = append(li.starts[:0], 0)
}

func (li *lineIndex) clone() []int {
	return slices.Clone(li.starts)
}

func (li *lineIndex) count() int {
	return len(li.starts)
}

func (li *lineIndex) start(line int) int {
	return li.starts[clamp(line, 0, len(li.starts)-1)]
}

func (li *lineIndex) end(line, size int) int {
	line = clamp(line, 0, len(li.starts)-1)
	if line+1 < len(li.starts) {
		return li.starts[line+1]
	}
	return size
}

func (li *lineIndex) position(line, col, size int) int {
	return positionFromLineCol(li.starts, line, col, size)
}

func (li *lineIndex) point(pos int) Point {
	return pointFromOffset(li.starts, pos)
}

// insert updates the index for n runes inserted at at. size is the document
// length after the insert. When the index is trivial and the insert covers
// the whole document, the index is rebuilt by scanning the storage instead.
func (li *lineIndex) insert(at int, text []rune, size int, scan func(func(int))) {
	if len(li.starts) == 1 && size == len(text) {
		li.rebuild(size, scan)
		return
	}

	// First line start strictly after the insertion point.
	idx := sort.SearchInts(li.starts, at+1)
	delta := len(text)
	for i := idx; i < len(li.starts); i++ {
		li.starts[i] += delta
	}

	var added []int
	for i, r := range text {
		if r == '\n' {
			added = append(added, at+i+1)
		}
	}
	if len(added) > 0 {
		li.starts = slices.Insert(li.starts, idx, added...)
	}
	li.fixEdges(size)
}

// erase updates the index for n runes removed at at. A line start s belongs
// to the newline at s-1, so starts in (at, at+n] are dropped with their
// newline and later starts shift left by n.
func (li *lineIndex) erase(at, n, size int) {
	end := at + n
	li.starts = slices.DeleteFunc(li.starts, func(s int) bool {
		return s > at && s <= end
	})
	for i := range li.starts {
		if li.starts[i] > end {
			li.starts[i] -= n
		}
	}
	li.fixEdges(size)
}

// rebuild recomputes the index from the storage in one linear pass.
func (li *lineIndex) rebuild(size int, scan func(func(int))) {
	li.reset()
	scan(func(offset int) {
		li.starts = append(li.starts, offset+1)
	})
	li.fixEdges(size)
}

func (li *lineIndex) fixEdges(size int) {
	if len(li.starts) == 0 || li.starts[0] != 0 {
		li.starts = slices.Insert(li.starts, 0, 0)
	}
	if last := len(li.starts) - 1; li.starts[last] > size {
		li.starts[last] = size
	}
}

// positionFromLineCol is shared by GapBuffer and Snapshot.
func positionFromLineCol(starts []int, line, col, size int) int {
	line = clamp(line, 0, len(starts)-1)
	start := starts[line]
	end := size
	if line+1 < len(starts) {
		end = starts[line+1]
	}
	if col < 0 {
		col = 0
	}
	if col > end-start {
		col = end - start
	}
	return start + col
}

// pointFromOffset finds the line containing pos by binary search.
func pointFromOffset(starts []int, pos int) Point {
	line := sort.SearchInts(starts, pos+1) - 1
	if line < 0 {
		line = 0
	}
	return Point{Line: line, Column: pos - starts[line]}
}
