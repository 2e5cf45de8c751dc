package history

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Wiktoryk/IDE/internal/engine/buffer"
)

// Kind tags an Edit as an insertion or an erasure.
type Kind uint8

const (
	// Insert is text added to the document.
	Insert Kind = iota
	// Erase is text removed from the document.
	Erase
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Erase:
		return "erase"
	default:
		return "unknown"
	}
}

// Edit is a single reversible change.
type Edit struct {
	Kind       Kind
	Pos        int    // Logical start position
	Text       string // Inserted text, or the text that was removed
	CaretAfter int    // Caret position once the edit is applied

	// Time is when the edit happened. Zero means "now" when pushed.
	Time time.Time
}

// NewInsert records text inserted at pos; the caret lands after it.
func NewInsert(pos int, text string) Edit {
	return Edit{
		Kind:       Insert,
		Pos:        pos,
		Text:       text,
		CaretAfter: pos + utf8.RuneCountInString(text),
	}
}

// NewErase records removed text that started at pos; the caret lands at pos.
func NewErase(pos int, removed string) Edit {
	return Edit{
		Kind:       Erase,
		Pos:        pos,
		Text:       removed,
		CaretAfter: pos,
	}
}

// Len returns the length of the edit's text in runes.
func (e Edit) Len() int {
	return utf8.RuneCountInString(e.Text)
}

// End returns the position just past the edit's text.
func (e Edit) End() int {
	return e.Pos + e.Len()
}

// Inverse returns the edit that undoes e.
func (e Edit) Inverse() Edit {
	inv := Edit{Pos: e.Pos, Text: e.Text, Time: e.Time}
	if e.Kind == Insert {
		inv.Kind = Erase
		inv.CaretAfter = e.Pos
	} else {
		inv.Kind = Insert
		inv.CaretAfter = e.End()
	}
	return inv
}

// Apply performs the edit on buf.
func (e Edit) Apply(buf buffer.TextBuffer) error {
	if e.Kind == Insert {
		return buf.Insert(e.Pos, e.Text)
	}
	_, err := buf.Erase(e.Pos, e.Len())
	return err
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	return fmt.Sprintf("%s(%d, %q)", e.Kind, e.Pos, e.Text)
}

// Description returns a short label suitable for an undo menu.
func (e Edit) Description() string {
	if e.Kind == Erase {
		if e.Len() == 1 {
			return "Delete"
		}
		return fmt.Sprintf("Delete %d characters", e.Len())
	}
	switch {
	case e.Text == "\n":
		return "Insert newline"
	case e.Text == "\t":
		return "Insert tab"
	case e.Len() == 1:
		return fmt.Sprintf("Type '%s'", e.Text)
	case e.Len() <= 20:
		return fmt.Sprintf("Insert %q", e.Text)
	default:
		return fmt.Sprintf("Insert %d characters", e.Len())
	}
}
