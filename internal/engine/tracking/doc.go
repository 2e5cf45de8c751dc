// Package tracking records what happened to a document over time.
//
// It complements the undo log: where history keeps only what is needed to
// revert edits, tracking answers "what changed since version X?" and "how
// does the document differ from the checkpoint named Y?".
//
// # Core Components
//
//   - [Change]: a single insertion or erasure stamped with the buffer version
//     it produced
//   - [Tracker]: bounded ring buffer of changes plus named snapshots
//   - [SnapshotManager]: named checkpoints holding immutable buffer snapshots
//   - [ComputeDiff]: line-level unified diff between two snapshots
//
// # Usage
//
//	tracker := tracking.NewTracker()
//	tracker.Record(tracking.NewInsertChange(0, "hello", buf.Version()))
//
//	id := tracker.CreateSnapshot("before_refactor", buf.Snapshot())
//	changes, err := tracker.DiffSinceSnapshot(id)
//
// # Thread Safety
//
// All Tracker and SnapshotManager operations are thread-safe. Snapshots are
// immutable and can be shared freely across goroutines.
package tracking
