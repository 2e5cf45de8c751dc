package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/Wiktoryk/IDE/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Log manages undo/redo state for one document.
// It is not safe for concurrent use.
type Log struct {
	done []Edit
	redo []Edit

	// sealed stops the next Push from merging into the top of done.
	sealed bool

	// Configuration
	coalesce     bool
	forwardErase bool
	window       time.Duration
	maxEntries   int
	now          func() time.Time
}

// NewLog creates an empty log with coalescing enabled.
func NewLog(opts ...Option) *Log {
	l := &Log{
		coalesce: true,
		window:   DefaultCoalesceWindow,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Push records an edit that has already been applied.
// It is merged into the previous edit when the coalescing rules allow,
// otherwise appended. The redo stack is always cleared.
func (l *Log) Push(edit Edit) {
	if edit.Time.IsZero() {
		edit.Time = l.now()
	}

	if !l.tryCoalesce(edit) {
		l.done = append(l.done, edit)
		l.trim()
	}
	l.sealed = false
	l.redo = nil
}

// trim enforces maxEntries.
func (l *Log) trim() {
	if l.maxEntries > 0 && len(l.done) > l.maxEntries {
		excess := len(l.done) - l.maxEntries
		l.done = append(l.done[:0:0], l.done[excess:]...)
	}
}

// Undo reverts the most recent edit on buf and returns the caret position
// the revert leaves behind. It returns ErrNothingToUndo when the done stack
// is empty.
func (l *Log) Undo(buf buffer.TextBuffer) (int, error) {
	if len(l.done) == 0 {
		return 0, ErrNothingToUndo
	}

	edit := l.done[len(l.done)-1]
	inv := edit.Inverse()
	if err := inv.Apply(buf); err != nil {
		return 0, fmt.Errorf("undo %s: %w", edit, err)
	}

	l.done = l.done[:len(l.done)-1]
	l.redo = append(l.redo, edit)
	l.sealed = true
	return inv.CaretAfter, nil
}

// Redo re-applies the most recently undone edit and returns its caret
// position. It returns ErrNothingToRedo when the redo stack is empty.
func (l *Log) Redo(buf buffer.TextBuffer) (int, error) {
	if len(l.redo) == 0 {
		return 0, ErrNothingToRedo
	}

	edit := l.redo[len(l.redo)-1]
	if err := edit.Apply(buf); err != nil {
		return 0, fmt.Errorf("redo %s: %w", edit, err)
	}

	l.redo = l.redo[:len(l.redo)-1]
	l.done = append(l.done, edit)
	l.sealed = true
	return edit.CaretAfter, nil
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	return len(l.done) > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	return len(l.redo) > 0
}

// UndoCount returns the number of undo steps available.
func (l *Log) UndoCount() int {
	return len(l.done)
}

// RedoCount returns the number of redo steps available.
func (l *Log) RedoCount() int {
	return len(l.redo)
}

// PeekUndo returns the edit the next Undo would revert.
func (l *Log) PeekUndo() (Edit, bool) {
	if len(l.done) == 0 {
		return Edit{}, false
	}
	return l.done[len(l.done)-1], true
}

// PeekRedo returns the edit the next Redo would re-apply.
func (l *Log) PeekRedo() (Edit, bool) {
	if len(l.redo) == 0 {
		return Edit{}, false
	}
	return l.redo[len(l.redo)-1], true
}

// Break ends the current coalescing run: the next Push always starts a new
// undo step. Editors call this when the caret moves independently of typing.
func (l *Log) Break() {
	l.sealed = true
}

// EnableCoalescing turns edit merging on or off.
func (l *Log) EnableCoalescing(on bool) {
	l.coalesce = on
}

// CoalescingEnabled reports whether edit merging is on.
func (l *Log) CoalescingEnabled() bool {
	return l.coalesce
}

// SetForwardErase toggles merging of forward (Delete-key) erasures.
func (l *Log) SetForwardErase(on bool) {
	l.forwardErase = on
}

// SetCoalesceWindow changes the recency window. Non-positive values are
// ignored.
func (l *Log) SetCoalesceWindow(d time.Duration) {
	if d > 0 {
		l.window = d
	}
}

// CoalesceWindow returns the recency window.
func (l *Log) CoalesceWindow() time.Duration {
	return l.window
}

// Clear removes all undo/redo history.
func (l *Log) Clear() {
	l.done = nil
	l.redo = nil
	l.sealed = false
}
