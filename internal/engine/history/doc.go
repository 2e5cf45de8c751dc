// Package history provides undo/redo for the text editor engine.
//
// # Edits
//
// An Edit is a reversible record of one insertion or erasure:
//   - the kind (Insert or Erase)
//   - the logical start position
//   - the text that was inserted, or the text that was removed
//   - the caret position to show after the edit
//
// The inverse of an Insert is an Erase over the same span and text, and
// vice versa.
//
// # Log
//
// The Log keeps two stacks, done and redo, in the usual linear-history
// model: pushing a new edit discards anything that was undone.
//
//	log := history.NewLog()
//
//	buf.Insert(0, "hi")
//	log.Push(history.NewInsert(0, "hi"))
//
//	caret, err := log.Undo(buf) // buf is empty again, caret == 0
//	caret, err = log.Redo(buf)  // "hi" again, caret == 2
//
// The buffer is passed explicitly to Undo and Redo; the Log never holds on
// to it.
//
// # Coalescing
//
// Rapid, adjacent edits of the same kind are merged so that undo works
// word-by-word instead of keystroke-by-keystroke. Two inserts merge when the
// second starts where the first ended. Two erasures merge when the second
// ends where the first began (Backspace). Both must fall within the
// coalescing window (600ms by default) of each other.
//
// ErrNothingToUndo and ErrNothingToRedo are routine: an empty stack is
// normal UI state, not a failure.
package history
