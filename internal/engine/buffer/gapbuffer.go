package buffer

import (
	"fmt"
	"unicode/utf8"
)

// GapBuffer stores runes in a single slice with one relocatable gap.
// Storage is partitioned into [0, gapBegin) text, [gapBegin, gapEnd) gap and
// [gapEnd, cap) text.
type GapBuffer struct {
	buf      []rune
	gapBegin int
	gapEnd   int
	lines    lineIndex
	version  uint64

	initialCap int
	minGrowth  int
}

// NewGapBuffer creates a new empty buffer.
func NewGapBuffer(opts ...Option) *GapBuffer {
	b := &GapBuffer{
		initialCap: DefaultInitialCapacity,
		minGrowth:  DefaultMinGrowth,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.Clear()
	return b
}

// NewGapBufferFromString creates a buffer with initial content.
// The initial load counts as one mutation, so the version is 1 unless s is
// empty.
func NewGapBufferFromString(s string, opts ...Option) *GapBuffer {
	b := NewGapBuffer(opts...)
	_ = b.Insert(0, s)
	return b
}

// Clear resets the buffer to an empty document.
func (b *GapBuffer) Clear() {
	b.buf = make([]rune, b.initialCap)
	b.gapBegin = 0
	b.gapEnd = len(b.buf)
	b.lines.reset()
	b.version = 0
}

// SetText replaces the whole document. The line index is rebuilt in one
// pass rather than maintained incrementally. Unlike Clear, the version keeps
// counting so snapshots of the old content become stale.
func (b *GapBuffer) SetText(s string) {
	prev := b.version
	b.Clear()
	_ = b.Insert(0, s)
	b.version = prev + 1
}

// Size returns the logical length in runes.
func (b *GapBuffer) Size() int {
	return len(b.buf) - b.gapLen()
}

// Cap returns the physical capacity of the storage.
func (b *GapBuffer) Cap() int {
	return len(b.buf)
}

// GapLen returns the number of unused runes in the gap.
func (b *GapBuffer) GapLen() int {
	return b.gapLen()
}

// Version returns the mutation counter.
func (b *GapBuffer) Version() uint64 {
	return b.version
}

func (b *GapBuffer) gapLen() int {
	return b.gapEnd - b.gapBegin
}

// physical maps a logical position to its index in buf.
func (b *GapBuffer) physical(pos int) int {
	if pos < b.gapBegin {
		return pos
	}
	return pos + b.gapLen()
}

// Write Operations

// Insert inserts text at pos.
func (b *GapBuffer) Insert(pos int, text string) error {
	if pos < 0 || pos > b.Size() {
		return fmt.Errorf("insert at %d (size %d): %w", pos, b.Size(), ErrOutOfRange)
	}
	if text == "" {
		return nil
	}

	runes := []rune(text)
	b.ensureGap(pos, len(runes))
	copy(b.buf[b.gapBegin:], runes)
	b.gapBegin += len(runes)

	b.lines.insert(pos, runes, b.Size(), b.scanLines)
	b.version++
	return nil
}

// Erase removes n runes starting at pos and returns the removed text.
func (b *GapBuffer) Erase(pos, n int) (string, error) {
	if pos < 0 || pos > b.Size() || n > b.Size()-pos {
		return "", fmt.Errorf("erase %d at %d (size %d): %w", n, pos, b.Size(), ErrOutOfRange)
	}
	if n <= 0 {
		return "", nil
	}

	removed := b.slice(pos, n)
	b.moveGapTo(pos)
	b.gapEnd += n

	b.lines.erase(pos, n, b.Size())
	b.version++
	return removed, nil
}

// Read Operations

// Slice returns n runes starting at pos. The gap is not moved.
func (b *GapBuffer) Slice(pos, n int) (string, error) {
	if pos < 0 || pos > b.Size() || n < 0 || n > b.Size()-pos {
		return "", fmt.Errorf("slice %d at %d (size %d): %w", n, pos, b.Size(), ErrOutOfRange)
	}
	return b.slice(pos, n), nil
}

// slice assumes the range has been validated.
func (b *GapBuffer) slice(pos, n int) string {
	if n <= 0 {
		return ""
	}
	end := pos + n
	switch {
	case end <= b.gapBegin:
		return string(b.buf[pos:end])
	case pos >= b.gapBegin:
		return string(b.buf[b.physical(pos):b.physical(pos)+n])
	}

	out := make([]rune, 0, n)
	out = append(out, b.buf[pos:b.gapBegin]...)
	out = append(out, b.buf[b.gapEnd:b.gapEnd+(end-b.gapBegin)]...)
	return string(out)
}

// String returns the full document content.
func (b *GapBuffer) String() string {
	out := make([]rune, 0, b.Size())
	out = append(out, b.buf[:b.gapBegin]...)
	out = append(out, b.buf[b.gapEnd:]...)
	return string(out)
}

// RuneAt returns the rune at pos, or utf8.RuneError and false when pos is
// outside the document.
func (b *GapBuffer) RuneAt(pos int) (rune, bool) {
	if pos < 0 || pos >= b.Size() {
		return utf8.RuneError, false
	}
	return b.buf[b.physical(pos)], true
}

// Line Queries

// LineCount returns the number of lines.
func (b *GapBuffer) LineCount() int {
	return b.lines.count()
}

// LineStart returns the offset of the first rune of line.
// Lines outside [0, LineCount) are clamped.
func (b *GapBuffer) LineStart(line int) int {
	return b.lines.start(line)
}

// LineEnd returns the exclusive end of line: the next line's start, or the
// document length for the last line. The terminating newline, if any, lies
// inside [LineStart, LineEnd).
func (b *GapBuffer) LineEnd(line int) int {
	return b.lines.end(line, b.Size())
}

// LineText returns the text of line without its trailing newline.
func (b *GapBuffer) LineText(line int) string {
	start, end := b.lines.start(line), b.lines.end(line, b.Size())
	text := b.slice(start, end-start)
	if n := len(text); n > 0 && text[n-1] == '\n' {
		text = text[:n-1]
	}
	return text
}

// PositionFromLineCol converts a line/column pair to an offset. The column
// is clamped to the line's [start, end] range.
func (b *GapBuffer) PositionFromLineCol(line, col int) int {
	return b.lines.position(line, col, b.Size())
}

// OffsetToPoint converts an offset to a line/column pair. Offsets outside
// the document are clamped.
func (b *GapBuffer) OffsetToPoint(pos int) Point {
	return b.lines.point(clamp(pos, 0, b.Size()))
}

// PointToOffset converts a Point to an offset with the same clamping as
// PositionFromLineCol.
func (b *GapBuffer) PointToOffset(p Point) int {
	return b.PositionFromLineCol(p.Line, p.Column)
}

// Snapshot returns an immutable copy of the current state.
func (b *GapBuffer) Snapshot() *Snapshot {
	return newSnapshot(b.String(), b.lines.clone(), b.version)
}

// Gap Management

// moveGapTo relocates the gap so that it begins at logical position at.
// Both directions are a single block move.
func (b *GapBuffer) moveGapTo(at int) {
	switch {
	case at < b.gapBegin:
		delta := b.gapBegin - at
		copy(b.buf[b.gapEnd-delta:b.gapEnd], b.buf[at:b.gapBegin])
		b.gapBegin -= delta
		b.gapEnd -= delta
	case at > b.gapBegin:
		delta := at - b.gapBegin
		copy(b.buf[b.gapBegin:b.gapBegin+delta], b.buf[b.gapEnd:b.gapEnd+delta])
		b.gapBegin += delta
		b.gapEnd += delta
	}
}

// growGap reallocates the storage with at least minExtra additional runes
// of gap. The old gap size, or minGrowth when the gap is exhausted, is the
// lower bound on growth.
func (b *GapBuffer) growGap(minExtra int) {
	oldGap := b.gapLen()
	if oldGap == 0 {
		oldGap = b.minGrowth
	}
	newCap := len(b.buf) + max(minExtra, oldGap)

	nb := make([]rune, newCap)
	copy(nb, b.buf[:b.gapBegin])
	tail := len(b.buf) - b.gapEnd
	copy(nb[newCap-tail:], b.buf[b.gapEnd:])

	b.gapEnd = newCap - tail
	b.buf = nb
}

// ensureGap positions the gap at at with room for at least minExtra runes.
func (b *GapBuffer) ensureGap(at, minExtra int) {
	b.moveGapTo(at)
	if b.gapLen() < minExtra {
		b.growGap(minExtra - b.gapLen())
		b.moveGapTo(at)
	}
}

// scanLines visits every newline in storage order and reports its logical
// offset. Used for full index rebuilds.
func (b *GapBuffer) scanLines(visit func(offset int)) {
	for p := 0; p < b.gapBegin; p++ {
		if b.buf[p] == '\n' {
			visit(p)
		}
	}
	gap := b.gapLen()
	for p := b.gapEnd; p < len(b.buf); p++ {
		if b.buf[p] == '\n' {
			visit(p - gap)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
