package lua

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wiktoryk/IDE/internal/engine"
)

func newBufferState(t *testing.T, opts ...engine.Option) (*State, *engine.Engine) {
	t.Helper()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	opts = append([]engine.Option{engine.WithClock(func() time.Time { return fixed })}, opts...)

	eng := engine.New(opts...)
	state := newTestState(t)
	require.NoError(t, NewBufferModule(eng).Register(state))
	return state, eng
}

func TestBufferModuleEditing(t *testing.T) {
	state, eng := newBufferState(t)

	require.NoError(t, state.DoString(context.Background(), `
		local buf = ide.buf
		assert(buf.insert(0, "hello") == 5)
		assert(buf.insert(5, "\nworld") == 11)
		assert(buf.size() == 11)
		assert(buf.line_count() == 2)
		assert(buf.line_start(1) == 6)
		assert(buf.line_text(1) == "world")
		assert(buf.slice(6, 3) == "wor")
		assert(buf.pos(1, 2) == 8)
		local line, col = buf.point(8)
		assert(line == 1 and col == 2)
		assert(buf.erase(0, 1) == "h")
		assert(buf.caret() == 0)
	`))

	assert.Equal(t, "ello\nworld", eng.Text())
}

func TestBufferModuleRequire(t *testing.T) {
	state, eng := newBufferState(t)

	require.NoError(t, state.DoString(context.Background(), `
		local buf = require("ide.buf")
		assert(buf == require("ide").buf)
		buf.insert(0, "x")
	`))
	assert.Equal(t, "x", eng.Text())
}

func TestBufferModuleUndoRedo(t *testing.T) {
	state, eng := newBufferState(t)

	require.NoError(t, state.DoString(context.Background(), `
		local buf = ide.buf
		buf.insert(0, "a")
		buf.insert(1, "b")
		buf.insert(2, "c")
		assert(buf.can_undo())

		-- Typing within the window is one undo step.
		assert(buf.undo() == 0)
		assert(buf.text() == "")
		assert(buf.undo() == false)

		assert(buf.can_redo())
		assert(buf.redo() == 3)
		assert(buf.redo() == false)

		buf.break_group()
		buf.insert(3, "d")
		buf.undo()
		assert(buf.text() == "abc")
	`))

	assert.Equal(t, "abc", eng.Text())
	assert.Equal(t, 1, eng.UndoCount())
}

func TestBufferModuleBackspaceAndDelete(t *testing.T) {
	state, eng := newBufferState(t, engine.WithContent("abcd"))

	require.NoError(t, state.DoString(context.Background(), `
		local buf = ide.buf
		assert(buf.backspace(4) == 3)
		assert(buf.backspace(0) == 0)
		assert(buf.delete(0) == 0)
		assert(buf.delete(2) == 2)
	`))
	assert.Equal(t, "bc", eng.Text())
}

func TestBufferModuleErrors(t *testing.T) {
	state, eng := newBufferState(t, engine.WithContent("abc"))

	require.NoError(t, state.DoString(context.Background(), `
		local ok, err = pcall(ide.buf.insert, 100, "x")
		assert(not ok)
		assert(string.find(err, "position out of range", 1, true))

		ok, err = pcall(ide.buf.erase, 1, 10)
		assert(not ok)
		ok, err = pcall(ide.buf.slice, -1, 1)
		assert(not ok)
	`))
	assert.Equal(t, "abc", eng.Text())

	err := state.DoString(context.Background(), `ide.buf.insert(9, "x")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert")
}

func TestBufferModuleReadOnly(t *testing.T) {
	state, _ := newBufferState(t, engine.WithContent("abc"), engine.WithReadOnly())

	err := state.DoString(context.Background(), `ide.buf.insert(0, "x")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

func TestBufferModuleSnapshotAndChanges(t *testing.T) {
	state, eng := newBufferState(t)

	require.NoError(t, state.DoString(context.Background(), `
		local buf = ide.buf
		buf.insert(0, "one")
		id = buf.snapshot("base")
		buf.insert(3, " two")
		buf.set_text("fresh")
		assert(buf.version() == 3)
		assert(buf.text() == "fresh")
	`))

	id, ok := state.GetGlobal("id").(interface{ String() string })
	require.True(t, ok)
	assert.Len(t, id.String(), 36)
	assert.False(t, eng.CanUndo())

	require.NoError(t, state.DoString(context.Background(), `
		local buf = ide.buf
		buf.insert(5, "!")
		buf.break_group()
		buf.erase(0, 1)
		local changes = buf.changes()
		assert(#changes == 2)
		assert(changes[1].kind == "insert")
		assert(changes[1].text == "!")
		assert(changes[2].kind == "erase")
		assert(changes[2].pos == 0)
		assert(#buf.changes(1) == 1)
	`))
}

func TestBufferModuleRegisterClosed(t *testing.T) {
	state, err := NewState()
	require.NoError(t, err)
	require.NoError(t, state.Close())

	assert.ErrorIs(t, NewBufferModule(engine.New()).Register(state), ErrStateClosed)
}
