// Package engine provides the text engine behind the editor.
//
// The engine package is the facade that combines the gap buffer, the undo
// log and change tracking into a unified, thread-safe API.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: gap buffer storage with an incrementally maintained line index
//     and immutable snapshots
//   - history: undo/redo log that coalesces typing runs
//   - tracking: change history, named snapshots and line diffs
//
// # Thread Safety
//
// All Engine operations are thread-safe. The engine uses a read-write mutex
// to allow concurrent reads while serializing writes. The buffer and history
// packages do no locking of their own. Snapshots are immutable and may be
// handed to other goroutines.
//
// # Basic Usage
//
//	e := engine.New()
//
//	caret, _ := e.Insert(0, "Hello")
//	caret, _ = e.Insert(caret, ", World!")
//
//	text := e.Text() // "Hello, World!"
//
//	// Both inserts happened within the coalescing window, so one undo
//	// removes them together.
//	e.Undo()
//
// # Configuration
//
// Engines can be built from the engine section of the configuration file:
//
//	cfg, _ := config.Load(config.WithPath("ide.toml"))
//	e := engine.NewFromConfig(cfg.Engine, engine.WithLogger(logger))
//
// # Snapshots
//
// Named snapshots mark points to diff against:
//
//	e.CreateSnapshot("before")
//	e.Insert(0, "// header\n")
//	diff, _ := e.ComputeDiffSinceSnapshot("before", tracking.DefaultDiffOptions())
package engine
