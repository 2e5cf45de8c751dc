package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrOutOfRange indicates a position or length outside the document.
	ErrOutOfRange = errors.New("position out of range")
)

// TextBuffer is the capability set of a mutable text document.
// GapBuffer is the only implementation; callers should depend on this
// interface so another storage strategy can be substituted.
type TextBuffer interface {
	// Clear resets the buffer to an empty document at version 0.
	Clear()

	// Size returns the logical length in runes.
	Size() int

	// Insert inserts text at pos. Empty text is a no-op.
	Insert(pos int, text string) error

	// Erase removes n runes starting at pos and returns the removed text.
	// n <= 0 is a no-op.
	Erase(pos, n int) (string, error)

	// Slice returns n runes starting at pos without mutating the buffer.
	Slice(pos, n int) (string, error)

	// String returns the full document content.
	String() string

	// LineCount returns the number of lines (newlines + 1).
	LineCount() int

	// LineStart returns the offset of the first rune of line (clamped).
	LineStart(line int) int

	// PositionFromLineCol converts a line/column pair to an offset,
	// clamping col to the line.
	PositionFromLineCol(line, col int) int

	// Version returns the mutation counter.
	Version() uint64

	// Snapshot returns an immutable copy of the current state.
	Snapshot() *Snapshot
}

var _ TextBuffer = (*GapBuffer)(nil)
