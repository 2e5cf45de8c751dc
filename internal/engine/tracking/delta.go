package tracking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ChangeKind categorizes a change.
type ChangeKind uint8

const (
	// ChangeInsert indicates text was inserted.
	ChangeInsert ChangeKind = iota

	// ChangeErase indicates text was removed.
	ChangeErase
)

// String returns a human-readable representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeErase:
		return "erase"
	default:
		return "unknown"
	}
}

// Change represents a single mutation of the buffer.
type Change struct {
	// Kind indicates whether this is an insert or an erase.
	Kind ChangeKind

	// Pos is the rune offset where the change starts.
	Pos int

	// Text is the inserted or removed text.
	Text string

	// Version is the buffer version after this change was applied.
	Version uint64

	// Time is when the change was recorded.
	Time time.Time
}

// NewInsertChange creates a change representing an insertion.
func NewInsertChange(pos int, text string, version uint64) Change {
	return Change{Kind: ChangeInsert, Pos: pos, Text: text, Version: version}
}

// NewEraseChange creates a change representing an erasure.
func NewEraseChange(pos int, removed string, version uint64) Change {
	return Change{Kind: ChangeErase, Pos: pos, Text: removed, Version: version}
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	text := c.Text
	if c.Len() > 20 {
		text = string([]rune(text)[:17]) + "..."
	}
	return fmt.Sprintf("v%d %s@%d %q", c.Version, c.Kind, c.Pos, text)
}

// Len returns the length of the change's text in runes.
func (c Change) Len() int {
	return utf8.RuneCountInString(c.Text)
}

// Delta returns the change in document size.
func (c Change) Delta() int {
	if c.Kind == ChangeErase {
		return -c.Len()
	}
	return c.Len()
}

// IsInsert returns true if this is an insertion.
func (c Change) IsInsert() bool {
	return c.Kind == ChangeInsert
}

// IsErase returns true if this is an erasure.
func (c Change) IsErase() bool {
	return c.Kind == ChangeErase
}

// ChangeSet groups changes that happened after a base version.
type ChangeSet struct {
	// BaseVersion is the version the set starts from (exclusive).
	BaseVersion uint64

	// Changes in chronological order.
	Changes []Change
}

// NewChangeSet creates an empty change set.
func NewChangeSet(base uint64) *ChangeSet {
	return &ChangeSet{BaseVersion: base}
}

// Add appends a change to the set.
func (cs *ChangeSet) Add(c Change) {
	cs.Changes = append(cs.Changes, c)
}

// Len returns the number of changes.
func (cs *ChangeSet) Len() int {
	return len(cs.Changes)
}

// IsEmpty returns true if the set has no changes.
func (cs *ChangeSet) IsEmpty() bool {
	return len(cs.Changes) == 0
}

// TotalDelta returns the net change in document size.
func (cs *ChangeSet) TotalDelta() int {
	var total int
	for _, c := range cs.Changes {
		total += c.Delta()
	}
	return total
}

// Summary returns a one-line description of the set.
func (cs *ChangeSet) Summary() string {
	if cs.IsEmpty() {
		return "no changes"
	}

	var inserts, erases int
	for _, c := range cs.Changes {
		if c.IsInsert() {
			inserts++
		} else {
			erases++
		}
	}

	var parts []string
	if inserts > 0 {
		parts = append(parts, fmt.Sprintf("%d insert(s)", inserts))
	}
	if erases > 0 {
		parts = append(parts, fmt.Sprintf("%d erase(s)", erases))
	}
	return fmt.Sprintf("%s since v%d, net %+d", strings.Join(parts, ", "), cs.BaseVersion, cs.TotalDelta())
}
