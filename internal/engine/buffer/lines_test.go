package buffer

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectedStarts computes line starts the slow way.
func expectedStarts(text string) []int {
	starts := []int{0}
	for i, r := range []rune(text) {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineStarts(b *GapBuffer) []int {
	out := make([]int, b.LineCount())
	for i := range out {
		out[i] = b.LineStart(i)
	}
	return out
}

func TestLineIndexScenario(t *testing.T) {
	b := NewGapBuffer()

	require.NoError(t, b.Insert(0, "ab\ncd"))
	assert.Equal(t, 2, b.LineCount())
	assert.Equal(t, 0, b.LineStart(0))
	assert.Equal(t, 3, b.LineStart(1))

	removed, err := b.Erase(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", removed)
	assert.Equal(t, "a\ncd", b.String())
	assert.Equal(t, 2, b.LineStart(1))
}

func TestLineIndexInsertNewlines(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		pos     int
		text    string
	}{
		{"newline mid line", "ab\ncd", 1, "\n"},
		{"newline at line start", "ab\ncd", 3, "\n"},
		{"newline before newline", "ab\ncd", 2, "\n"},
		{"several newlines", "ab\ncd\nef", 4, "x\ny\nz\n"},
		{"at document end", "ab\n", 3, "c\nd"},
		{"at document start", "ab\ncd", 0, "\n\n"},
		{"no newlines", "ab\ncd", 4, "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewGapBufferFromString(tt.initial)
			require.NoError(t, b.Insert(tt.pos, tt.text))
			assert.Equal(t, expectedStarts(b.String()), lineStarts(b))
		})
	}
}

func TestLineIndexEraseNewlines(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		pos, n  int
	}{
		{"only newline", "a\nb", 1, 1},
		{"newline and text", "ab\ncd\nef", 1, 4},
		{"span ending on newline", "ab\ncd\nef", 3, 3},
		{"span starting at line start", "ab\ncd\nef", 3, 2},
		{"everything", "ab\ncd\nef", 0, 8},
		{"trailing newline", "ab\n", 2, 1},
		{"leading newline", "\nab", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewGapBufferFromString(tt.initial)
			_, err := b.Erase(tt.pos, tt.n)
			require.NoError(t, err)
			assert.Equal(t, expectedStarts(b.String()), lineStarts(b))
		})
	}
}

func TestLineIndexFullRebuildOnLoad(t *testing.T) {
	text := strings.Repeat("line\n", 50)
	b := NewGapBuffer(WithInitialCapacity(8))
	require.NoError(t, b.Insert(0, text))

	assert.Equal(t, 51, b.LineCount())
	assert.Equal(t, expectedStarts(text), lineStarts(b))
	assert.Equal(t, len(text), b.LineStart(50))
}

func TestLineStartClamps(t *testing.T) {
	b := NewGapBufferFromString("a\nbb\nccc")

	assert.Equal(t, 0, b.LineStart(-5))
	assert.Equal(t, 5, b.LineStart(2))
	assert.Equal(t, 5, b.LineStart(99))
}

func TestLineEndAndText(t *testing.T) {
	b := NewGapBufferFromString("a\nbb\nccc")

	assert.Equal(t, 2, b.LineEnd(0))
	assert.Equal(t, 5, b.LineEnd(1))
	assert.Equal(t, 8, b.LineEnd(2))

	assert.Equal(t, "a", b.LineText(0))
	assert.Equal(t, "bb", b.LineText(1))
	assert.Equal(t, "ccc", b.LineText(2))
}

func TestPositionFromLineCol(t *testing.T) {
	b := NewGapBufferFromString("a\nbb\nccc")

	tests := []struct {
		line, col, want int
	}{
		{0, 0, 0},
		{0, 1, 1},
		{0, 5, 2},
		{1, 1, 3},
		{1, -4, 2},
		{2, 2, 7},
		{2, 100, 8},
		{-1, 1, 1},
		{7, 1, 6},
	}
	for _, tt := range tests {
		got := b.PositionFromLineCol(tt.line, tt.col)
		assert.Equal(t, tt.want, got, "PositionFromLineCol(%d, %d)", tt.line, tt.col)
	}
}

func TestOffsetToPoint(t *testing.T) {
	b := NewGapBufferFromString("a\nbb\nccc")

	tests := []struct {
		pos  int
		want Point
	}{
		{0, Point{0, 0}},
		{1, Point{0, 1}},
		{2, Point{1, 0}},
		{4, Point{1, 2}},
		{8, Point{2, 3}},
		{50, Point{2, 3}},
		{-3, Point{0, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.OffsetToPoint(tt.pos), "OffsetToPoint(%d)", tt.pos)
	}

	assert.Equal(t, 4, b.PointToOffset(Point{Line: 1, Column: 2}))
}

func TestLineIndexRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	alphabet := []rune("ab\n\nxé")
	b := NewGapBuffer(WithInitialCapacity(4), WithMinGrowth(3))

	for i := 0; i < 2000; i++ {
		size := b.Size()
		if size > 0 && rng.IntN(3) == 0 {
			pos := rng.IntN(size)
			n := rng.IntN(size-pos) + 1
			_, err := b.Erase(pos, min(n, 5))
			require.NoError(t, err)
		} else {
			pos := rng.IntN(size + 1)
			text := make([]rune, rng.IntN(6))
			for j := range text {
				text[j] = alphabet[rng.IntN(len(alphabet))]
			}
			require.NoError(t, b.Insert(pos, string(text)))
		}

		text := b.String()
		require.Equal(t, strings.Count(text, "\n")+1, b.LineCount(), "step %d", i)
		require.Equal(t, expectedStarts(text), lineStarts(b), "step %d", i)

		for line := 0; line < b.LineCount(); line++ {
			start, end := b.LineStart(line), b.LineEnd(line)
			if line > 0 {
				require.Greater(t, start, b.LineStart(line-1))
			}
			for _, col := range []int{-1, 0, 3, 1000} {
				p := b.PositionFromLineCol(line, col)
				require.GreaterOrEqual(t, p, start)
				require.LessOrEqual(t, p, end)
			}
		}
	}
}

func TestPointCompare(t *testing.T) {
	a := Point{Line: 1, Column: 4}

	assert.Equal(t, 0, a.Compare(Point{Line: 1, Column: 4}))
	assert.Equal(t, -1, a.Compare(Point{Line: 1, Column: 5}))
	assert.Equal(t, 1, a.Compare(Point{Line: 0, Column: 9}))
	assert.Equal(t, "2:5", a.String())
}
