package buffer

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It owns copies of the text and line starts, so it is safe for concurrent
// access and will not change when the original buffer is modified.
type Snapshot struct {
	text       string
	runes      []rune
	lineStarts []int
	version    uint64
}

// NewSnapshot builds a snapshot from text and its line starts. The first
// entry is forced to 0 and the last is clamped to the text length.
func NewSnapshot(text string, lineStarts []int, version uint64) *Snapshot {
	starts := make([]int, len(lineStarts))
	copy(starts, lineStarts)
	return newSnapshot(text, starts, version)
}

// newSnapshot takes ownership of lineStarts.
func newSnapshot(text string, lineStarts []int, version uint64) *Snapshot {
	s := &Snapshot{
		text:       text,
		runes:      []rune(text),
		lineStarts: lineStarts,
		version:    version,
	}
	if len(s.lineStarts) == 0 || s.lineStarts[0] != 0 {
		s.lineStarts = append([]int{0}, s.lineStarts...)
	}
	if last := len(s.lineStarts) - 1; s.lineStarts[last] > len(s.runes) {
		s.lineStarts[last] = len(s.runes)
	}
	return s
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return s.text
}

// Size returns the length in runes.
func (s *Snapshot) Size() int {
	return len(s.runes)
}

// Version returns the buffer version at capture time.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// IsStale reports whether a buffer now at version current has moved on
// since this snapshot was taken.
func (s *Snapshot) IsStale(current uint64) bool {
	return current != s.version
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return len(s.runes) == 0
}

// Slice returns up to n runes starting at pos. Unlike GapBuffer.Slice the
// range is clamped to the snapshot instead of being rejected.
func (s *Snapshot) Slice(pos, n int) string {
	pos = clamp(pos, 0, len(s.runes))
	n = clamp(n, 0, len(s.runes)-pos)
	return string(s.runes[pos : pos+n])
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lineStarts)
}

// LineStart returns the offset of the first rune of line (clamped).
func (s *Snapshot) LineStart(line int) int {
	return s.lineStarts[clamp(line, 0, len(s.lineStarts)-1)]
}

// LineEnd returns the exclusive end of line.
func (s *Snapshot) LineEnd(line int) int {
	line = clamp(line, 0, len(s.lineStarts)-1)
	if line+1 < len(s.lineStarts) {
		return s.lineStarts[line+1]
	}
	return len(s.runes)
}

// LineText returns the text of line without its trailing newline.
func (s *Snapshot) LineText(line int) string {
	start, end := s.LineStart(line), s.LineEnd(line)
	if end > start && s.runes[end-1] == '\n' {
		end--
	}
	return string(s.runes[start:end])
}

// Lines returns every line without trailing newlines.
func (s *Snapshot) Lines() []string {
	lines := make([]string, len(s.lineStarts))
	for i := range lines {
		lines[i] = s.LineText(i)
	}
	return lines
}

// LineStarts returns a copy of the captured line-start offsets.
func (s *Snapshot) LineStarts() []int {
	out := make([]int, len(s.lineStarts))
	copy(out, s.lineStarts)
	return out
}

// PositionFromLineCol converts a line/column pair to an offset, clamping
// the column to the line.
func (s *Snapshot) PositionFromLineCol(line, col int) int {
	return positionFromLineCol(s.lineStarts, line, col, len(s.runes))
}

// OffsetToPoint converts an offset to a line/column pair.
func (s *Snapshot) OffsetToPoint(pos int) Point {
	return pointFromOffset(s.lineStarts, clamp(pos, 0, len(s.runes)))
}
