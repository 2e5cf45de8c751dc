package lua

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/Wiktoryk/IDE/internal/engine"
)

// BufferModule implements the ide.buf API module.
type BufferModule struct {
	eng *engine.Engine
}

// NewBufferModule creates a buffer module bound to eng.
func NewBufferModule(eng *engine.Engine) *BufferModule {
	return &BufferModule{eng: eng}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return "buf"
}

// Register installs the module as the global ide.buf and makes it
// available to require("ide.buf").
func (m *BufferModule) Register(s *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	L := s.L
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":        m.text,
		"slice":       m.slice,
		"size":        m.size,
		"line_count":  m.lineCount,
		"line_start":  m.lineStart,
		"line_text":   m.lineText,
		"pos":         m.pos,
		"point":       m.point,
		"insert":      m.insert,
		"erase":       m.erase,
		"backspace":   m.backspace,
		"delete":      m.delete,
		"undo":        m.undo,
		"redo":        m.redo,
		"can_undo":    m.canUndo,
		"can_redo":    m.canRedo,
		"break_group": m.breakGroup,
		"caret":       m.caret,
		"version":     m.version,
		"snapshot":    m.snapshot,
		"set_text":    m.setText,
		"changes":     m.changes,
	})

	ide, ok := L.GetGlobal(ModulePrefix).(*lua.LTable)
	if !ok {
		ide = L.NewTable()
		L.SetGlobal(ModulePrefix, ide)
		L.PreloadModule(ModulePrefix, func(L *lua.LState) int {
			L.Push(ide)
			return 1
		})
	}
	L.SetField(ide, m.Name(), mod)
	L.PreloadModule(ModulePrefix+"."+m.Name(), func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	return nil
}

// text() -> string
func (m *BufferModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.eng.Text()))
	return 1
}

// slice(pos, n) -> string
func (m *BufferModule) slice(L *lua.LState) int {
	pos := L.CheckInt(1)
	n := L.CheckInt(2)

	text, err := m.eng.Slice(pos, n)
	if err != nil {
		L.RaiseError("slice: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// size() -> number of runes
func (m *BufferModule) size(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Size()))
	return 1
}

// line_count() -> number
func (m *BufferModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.LineCount()))
	return 1
}

// line_start(line) -> number
func (m *BufferModule) lineStart(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.LineStart(L.CheckInt(1))))
	return 1
}

// line_text(line) -> string
func (m *BufferModule) lineText(L *lua.LState) int {
	L.Push(lua.LString(m.eng.LineText(L.CheckInt(1))))
	return 1
}

// pos(line, col) -> number
func (m *BufferModule) pos(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.PositionFromLineCol(L.CheckInt(1), L.CheckInt(2))))
	return 1
}

// point(pos) -> line, col
func (m *BufferModule) point(L *lua.LState) int {
	p := m.eng.OffsetToPoint(L.CheckInt(1))
	L.Push(lua.LNumber(p.Line))
	L.Push(lua.LNumber(p.Column))
	return 2
}

// insert(pos, text) -> caret
func (m *BufferModule) insert(L *lua.LState) int {
	pos := L.CheckInt(1)
	text := L.CheckString(2)

	caret, err := m.eng.Insert(pos, text)
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}
	L.Push(lua.LNumber(caret))
	return 1
}

// erase(pos, n) -> removed text
func (m *BufferModule) erase(L *lua.LState) int {
	pos := L.CheckInt(1)
	n := L.CheckInt(2)

	removed, err := m.eng.Erase(pos, n)
	if err != nil {
		L.RaiseError("erase: %v", err)
		return 0
	}
	L.Push(lua.LString(removed))
	return 1
}

// backspace(caret) -> caret
func (m *BufferModule) backspace(L *lua.LState) int {
	caret, err := m.eng.Backspace(L.CheckInt(1))
	if err != nil {
		L.RaiseError("backspace: %v", err)
		return 0
	}
	L.Push(lua.LNumber(caret))
	return 1
}

// delete(caret) -> caret
func (m *BufferModule) delete(L *lua.LState) int {
	caret, err := m.eng.Delete(L.CheckInt(1))
	if err != nil {
		L.RaiseError("delete: %v", err)
		return 0
	}
	L.Push(lua.LNumber(caret))
	return 1
}

// undo() -> caret | false
func (m *BufferModule) undo(L *lua.LState) int {
	caret, err := m.eng.Undo()
	return m.pushStep(L, "undo", caret, err, engine.ErrNothingToUndo)
}

// redo() -> caret | false
func (m *BufferModule) redo(L *lua.LState) int {
	caret, err := m.eng.Redo()
	return m.pushStep(L, "redo", caret, err, engine.ErrNothingToRedo)
}

func (m *BufferModule) pushStep(L *lua.LState, op string, caret int, err, empty error) int {
	switch {
	case errors.Is(err, empty):
		L.Push(lua.LFalse)
	case err != nil:
		L.RaiseError("%s: %v", op, err)
		return 0
	default:
		L.Push(lua.LNumber(caret))
	}
	return 1
}

// can_undo() -> boolean
func (m *BufferModule) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(m.eng.CanUndo()))
	return 1
}

// can_redo() -> boolean
func (m *BufferModule) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(m.eng.CanRedo()))
	return 1
}

// break_group()
func (m *BufferModule) breakGroup(L *lua.LState) int {
	m.eng.BreakUndoGroup()
	return 0
}

// caret() -> number
func (m *BufferModule) caret(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Caret()))
	return 1
}

// version() -> number
func (m *BufferModule) version(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Version()))
	return 1
}

// snapshot(name) -> id
func (m *BufferModule) snapshot(L *lua.LState) int {
	id := m.eng.CreateSnapshot(L.CheckString(1))
	L.Push(lua.LString(id.String()))
	return 1
}

// set_text(text)
func (m *BufferModule) setText(L *lua.LState) int {
	if err := m.eng.SetText(L.CheckString(1)); err != nil {
		L.RaiseError("set_text: %v", err)
	}
	return 0
}

// changes([n]) -> { {kind=, pos=, text=, version=}, ... }
// Returns the latest n tracked changes, oldest first. n defaults to 10.
func (m *BufferModule) changes(L *lua.LState) int {
	n := L.OptInt(1, 10)

	changes := m.eng.LatestChanges(n)
	items := make([]any, len(changes))
	for i, c := range changes {
		items[i] = map[string]any{
			"kind":    c.Kind.String(),
			"pos":     c.Pos,
			"text":    c.Text,
			"version": c.Version,
		}
	}
	L.Push(NewBridge(L).ToLuaValue(items))
	return 1
}
