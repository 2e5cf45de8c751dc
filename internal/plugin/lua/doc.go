// Package lua runs user scripts against a text engine.
//
// Scripts execute in a sandboxed gopher-lua state. Only the base, table,
// string and math libraries are available; io, os and debug are never
// opened, and require only resolves the built-in modules and the editor's
// own "ide" modules.
//
// # State
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	lua.NewBufferModule(eng).Register(state)
//	err = state.DoString(ctx, `ide.buf.insert(0, "hello")`)
//
// # The ide.buf module
//
// Offsets are zero-based rune positions, the same unit the engine uses.
//
//	text()                -> string
//	slice(pos, n)         -> string
//	size()                -> number
//	line_count()          -> number
//	line_start(line)      -> number
//	line_text(line)       -> string
//	pos(line, col)        -> number
//	point(pos)            -> line, col
//	insert(pos, text)     -> caret
//	erase(pos, n)         -> removed text
//	backspace(caret)      -> caret
//	delete(caret)         -> caret
//	undo()                -> caret, or false when there is nothing to undo
//	redo()                -> caret, or false when there is nothing to redo
//	can_undo()            -> boolean
//	can_redo()            -> boolean
//	break_group()
//	caret()               -> number
//	version()             -> number
//	snapshot(name)        -> id
//	set_text(text)
//
// Engine errors such as out-of-range positions are raised as Lua errors, so
// scripts can catch them with pcall.
package lua
