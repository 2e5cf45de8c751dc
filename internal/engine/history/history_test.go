package history

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wiktoryk/IDE/internal/engine/buffer"
)

// fakeClock hands out timestamps that only advance when told to.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// typeText inserts text rune by rune and records each insert.
func typeText(t *testing.T, buf buffer.TextBuffer, log *Log, pos int, text string) int {
	t.Helper()
	for _, r := range text {
		s := string(r)
		require.NoError(t, buf.Insert(pos, s))
		log.Push(NewInsert(pos, s))
		pos++
	}
	return pos
}

func backspace(t *testing.T, buf buffer.TextBuffer, log *Log, pos int) int {
	t.Helper()
	removed, err := buf.Erase(pos-1, 1)
	require.NoError(t, err)
	log.Push(NewErase(pos-1, removed))
	return pos - 1
}

func TestNewLog(t *testing.T) {
	log := NewLog()

	assert.False(t, log.CanUndo())
	assert.False(t, log.CanRedo())
	assert.True(t, log.CoalescingEnabled())
	assert.Equal(t, DefaultCoalesceWindow, log.CoalesceWindow())
}

func TestTypingCoalescesIntoOneStep(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBuffer()
	log := NewLog(WithClock(clock.Now))

	typeText(t, buf, log, 0, "abc")
	require.Equal(t, "abc", buf.String())
	assert.Equal(t, 1, log.UndoCount())

	top, ok := log.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "abc", top.Text)
	assert.Equal(t, 3, top.CaretAfter)

	caret, err := log.Undo(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, caret)
	assert.Equal(t, "", buf.String())
	assert.False(t, log.CanUndo())
}

func TestTypingOutsideWindowDoesNotCoalesce(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBuffer()
	log := NewLog(WithClock(clock.Now))

	pos := 0
	for _, s := range []string{"a", "b", "c"} {
		pos = typeText(t, buf, log, pos, s)
		clock.Advance(DefaultCoalesceWindow)
	}
	assert.Equal(t, 3, log.UndoCount())

	for _, want := range []string{"ab", "a", ""} {
		_, err := log.Undo(buf)
		require.NoError(t, err)
		assert.Equal(t, want, buf.String())
	}
}

func TestWindowSlidesWithEachMerge(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBuffer()
	log := NewLog(WithClock(clock.Now), WithCoalesceWindow(100*time.Millisecond))

	pos := 0
	for i := 0; i < 5; i++ {
		pos = typeText(t, buf, log, pos, "x")
		clock.Advance(90 * time.Millisecond)
	}

	// Each keystroke is within the window of the previous one.
	assert.Equal(t, 1, log.UndoCount())
}

func TestInterleavedKindsDoNotCoalesce(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBuffer()
	log := NewLog(WithClock(clock.Now))

	pos := typeText(t, buf, log, 0, "a")
	pos = backspace(t, buf, log, pos)
	typeText(t, buf, log, pos, "b")

	require.Equal(t, "b", buf.String())
	assert.Equal(t, 3, log.UndoCount())

	for _, want := range []string{"", "a", ""} {
		_, err := log.Undo(buf)
		require.NoError(t, err)
		assert.Equal(t, want, buf.String())
	}
}

func TestNonAdjacentInsertsDoNotCoalesce(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBufferFromString("0123456789")
	log := NewLog(WithClock(clock.Now))

	typeText(t, buf, log, 2, "a")
	typeText(t, buf, log, 7, "b")

	assert.Equal(t, 2, log.UndoCount())
}

func TestBackspaceCoalesces(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBufferFromString("hello")
	log := NewLog(WithClock(clock.Now))

	pos := 5
	for i := 0; i < 3; i++ {
		pos = backspace(t, buf, log, pos)
	}
	require.Equal(t, "he", buf.String())
	require.Equal(t, 1, log.UndoCount())

	top, _ := log.PeekUndo()
	assert.Equal(t, Erase, top.Kind)
	assert.Equal(t, 2, top.Pos)
	assert.Equal(t, "llo", top.Text)

	caret, err := log.Undo(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
	assert.Equal(t, 5, caret)
}

func TestForwardEraseIsOptIn(t *testing.T) {
	forwardDelete := func(log *Log) *buffer.GapBuffer {
		buf := buffer.NewGapBufferFromString("hello")
		for i := 0; i < 3; i++ {
			removed, err := buf.Erase(1, 1)
			require.NoError(t, err)
			log.Push(NewErase(1, removed))
		}
		require.Equal(t, "ho", buf.String())
		return buf
	}

	clock := newFakeClock()
	log := NewLog(WithClock(clock.Now))
	forwardDelete(log)
	assert.Equal(t, 3, log.UndoCount())

	log = NewLog(WithClock(clock.Now), WithForwardErase(true))
	buf := forwardDelete(log)
	require.Equal(t, 1, log.UndoCount())

	top, _ := log.PeekUndo()
	assert.Equal(t, "ell", top.Text)

	caret, err := log.Undo(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
	assert.Equal(t, 4, caret)
}

func TestCoalescingDisabled(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBuffer()
	log := NewLog(WithClock(clock.Now), WithCoalescing(false))

	typeText(t, buf, log, 0, "abc")
	assert.Equal(t, 3, log.UndoCount())

	log.EnableCoalescing(true)
	typeText(t, buf, log, 3, "de")
	assert.Equal(t, 4, log.UndoCount())
}

func TestBreakStartsNewStep(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBuffer()
	log := NewLog(WithClock(clock.Now))

	pos := typeText(t, buf, log, 0, "ab")
	log.Break()
	typeText(t, buf, log, pos, "cd")

	assert.Equal(t, 2, log.UndoCount())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBuffer()
	log := NewLog(WithClock(clock.Now))

	pos := typeText(t, buf, log, 0, "one two")
	clock.Advance(time.Second)
	pos = backspace(t, buf, log, pos)
	clock.Advance(time.Second)
	typeText(t, buf, log, pos, "\nthree")
	final := buf.String()
	require.Equal(t, "one tw\nthree", final)

	steps := 0
	for log.CanUndo() {
		_, err := log.Undo(buf)
		require.NoError(t, err)
		steps++
	}
	assert.Equal(t, 3, steps)
	assert.Equal(t, "", buf.String())
	assert.Equal(t, 1, buf.LineCount())

	for log.CanRedo() {
		_, err := log.Redo(buf)
		require.NoError(t, err)
	}
	assert.Equal(t, final, buf.String())
	assert.Equal(t, 2, buf.LineCount())
	assert.Equal(t, 7, buf.LineStart(1))
}

func TestUndoRedoRandomRoundTrip(t *testing.T) {
	alphabet := []rune("ab \nxé")

	for seed := uint64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewPCG(seed, 7))
		clock := newFakeClock()
		buf := buffer.NewGapBuffer(buffer.WithInitialCapacity(4), buffer.WithMinGrowth(2))
		log := NewLog(WithClock(clock.Now), WithForwardErase(rng.IntN(2) == 0))

		caret := 0
		for i := 0; i < 200; i++ {
			// Mix edits inside and outside the coalescing window.
			clock.Advance(time.Duration(rng.IntN(900)) * time.Millisecond)
			size := buf.Size()

			switch op := rng.IntN(4); {
			case op == 0 && caret > 0:
				caret = backspace(t, buf, log, caret)
			case op == 1 && caret < size:
				removed, err := buf.Erase(caret, 1)
				require.NoError(t, err)
				log.Push(NewErase(caret, removed))
			case op == 2 && size > 0:
				pos := rng.IntN(size)
				n := rng.IntN(min(size-pos, 4)) + 1
				removed, err := buf.Erase(pos, n)
				require.NoError(t, err)
				log.Push(NewErase(pos, removed))
				caret = pos
			default:
				if rng.IntN(3) == 0 {
					caret = rng.IntN(size + 1)
				}
				text := make([]rune, rng.IntN(3)+1)
				for j := range text {
					text[j] = alphabet[rng.IntN(len(alphabet))]
				}
				caret = typeText(t, buf, log, caret, string(text))
			}
		}
		final := buf.String()

		for log.CanUndo() {
			_, err := log.Undo(buf)
			require.NoError(t, err, "seed %d", seed)
		}
		require.Equal(t, "", buf.String(), "seed %d", seed)
		require.Equal(t, 1, buf.LineCount(), "seed %d", seed)

		for log.CanRedo() {
			_, err := log.Redo(buf)
			require.NoError(t, err, "seed %d", seed)
		}
		require.Equal(t, final, buf.String(), "seed %d", seed)
		require.Equal(t, strings.Count(final, "\n")+1, buf.LineCount(), "seed %d", seed)
	}
}

func TestRedoCaret(t *testing.T) {
	buf := buffer.NewGapBuffer()
	log := NewLog()

	typeText(t, buf, log, 0, "hey")
	_, err := log.Undo(buf)
	require.NoError(t, err)

	caret, err := log.Redo(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, caret)
	assert.Equal(t, "hey", buf.String())
}

func TestPushClearsRedo(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBuffer()
	log := NewLog(WithClock(clock.Now))

	typeText(t, buf, log, 0, "a")
	_, err := log.Undo(buf)
	require.NoError(t, err)
	require.True(t, log.CanRedo())

	typeText(t, buf, log, 0, "b")
	assert.False(t, log.CanRedo())
	assert.Equal(t, 0, log.RedoCount())

	_, err = log.Redo(buf)
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

func TestUndoAfterUndoDoesNotMergeWithNewTyping(t *testing.T) {
	clock := newFakeClock()
	buf := buffer.NewGapBuffer()
	log := NewLog(WithClock(clock.Now))

	pos := typeText(t, buf, log, 0, "ab")
	log.Break()
	typeText(t, buf, log, pos, "cd")
	_, err := log.Undo(buf)
	require.NoError(t, err)

	// Same instant, adjacent to "ab", but the undo ended the run.
	typeText(t, buf, log, 2, "x")
	assert.Equal(t, 2, log.UndoCount())
}

func TestEmptyStacks(t *testing.T) {
	buf := buffer.NewGapBufferFromString("keep")
	log := NewLog()

	_, err := log.Undo(buf)
	assert.ErrorIs(t, err, ErrNothingToUndo)

	_, err = log.Redo(buf)
	assert.ErrorIs(t, err, ErrNothingToRedo)

	_, ok := log.PeekUndo()
	assert.False(t, ok)
	_, ok = log.PeekRedo()
	assert.False(t, ok)

	assert.Equal(t, "keep", buf.String())
}

func TestUndoFailureKeepsEntry(t *testing.T) {
	buf := buffer.NewGapBufferFromString("abc")
	log := NewLog()

	// The inverse erase would run past the end of the document.
	log.Push(NewInsert(10, "zz"))

	_, err := log.Undo(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, buffer.ErrOutOfRange)
	assert.True(t, log.CanUndo())
	assert.False(t, log.CanRedo())
	assert.Equal(t, "abc", buf.String())
}

func TestMaxEntries(t *testing.T) {
	buf := buffer.NewGapBuffer()
	log := NewLog(WithCoalescing(false), WithMaxEntries(2))

	typeText(t, buf, log, 0, "abc")
	assert.Equal(t, 2, log.UndoCount())

	for log.CanUndo() {
		_, err := log.Undo(buf)
		require.NoError(t, err)
	}
	// The oldest step was discarded.
	assert.Equal(t, "a", buf.String())
}

func TestSetCoalesceWindow(t *testing.T) {
	log := NewLog()

	log.SetCoalesceWindow(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, log.CoalesceWindow())

	log.SetCoalesceWindow(0)
	assert.Equal(t, 50*time.Millisecond, log.CoalesceWindow())
}

func TestClear(t *testing.T) {
	buf := buffer.NewGapBuffer()
	log := NewLog()

	typeText(t, buf, log, 0, "ab")
	_, err := log.Undo(buf)
	require.NoError(t, err)
	typeText(t, buf, log, 0, "c")

	log.Clear()
	assert.False(t, log.CanUndo())
	assert.False(t, log.CanRedo())
}

func TestEditInverse(t *testing.T) {
	ins := NewInsert(3, "héllo")
	assert.Equal(t, 8, ins.CaretAfter)
	assert.Equal(t, 8, ins.End())

	inv := ins.Inverse()
	assert.Equal(t, Erase, inv.Kind)
	assert.Equal(t, 3, inv.CaretAfter)
	assert.Equal(t, ins, inv.Inverse())

	er := NewErase(2, "xy")
	assert.Equal(t, Insert, er.Inverse().Kind)
	assert.Equal(t, 4, er.Inverse().CaretAfter)
}

func TestEditDescription(t *testing.T) {
	tests := []struct {
		edit Edit
		want string
	}{
		{NewInsert(0, "a"), "Type 'a'"},
		{NewInsert(0, "\n"), "Insert newline"},
		{NewInsert(0, "\t"), "Insert tab"},
		{NewInsert(0, "hello"), `Insert "hello"`},
		{NewErase(0, "a"), "Delete"},
		{NewErase(0, "abc"), "Delete 3 characters"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.edit.Description())
	}
	assert.Equal(t, "unknown", Kind(9).String())
}
