// Package buffer provides the text storage for the editor engine: a gap
// buffer with an incrementally maintained line index and immutable,
// versioned snapshots.
//
// The buffer package provides:
//
//   - A gap buffer whose free region slides to the active edit point, so
//     clustered edits (typing) are amortized O(1)
//   - A line-start index kept consistent with the storage on every edit
//   - Line/column to offset conversion with clamping
//   - Read-only snapshots that can be shared with other goroutines
//   - A version counter for staleness checks
//
// Basic usage:
//
//	buf := buffer.NewGapBufferFromString("Hello, World!")
//
//	// Insert text
//	buf.Insert(7, "Beautiful ") // "Hello, Beautiful World!"
//
//	// Erase text, keeping what was removed (for undo)
//	removed, _ := buf.Erase(0, 7) // removed == "Hello, "
//
//	// Get a snapshot for concurrent reading
//	snap := buf.Snapshot()
//	go func() {
//	    text := snap.Text()
//	    // Process text...
//	}()
//
// Positions:
//
// All positions and lengths are logical offsets counted in runes. The gap is
// never visible to callers; a logical position p maps to physical position p
// when p precedes the gap and to p + gapSize otherwise.
//
// Thread Safety:
//
// A GapBuffer has a single owner and performs no locking. Share document
// state with other goroutines through Snapshot, or guard the buffer
// externally (see the engine package).
package buffer
