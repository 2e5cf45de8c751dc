package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Wiktoryk/IDE/internal/config"
	"github.com/Wiktoryk/IDE/internal/engine/buffer"
	"github.com/Wiktoryk/IDE/internal/engine/history"
	"github.com/Wiktoryk/IDE/internal/engine/tracking"
	"github.com/Wiktoryk/IDE/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// Point represents a line/column position.
	Point = buffer.Point

	// Snapshot is an immutable copy of the document.
	Snapshot = buffer.Snapshot

	// SnapshotID uniquely identifies a named snapshot.
	SnapshotID = tracking.SnapshotID

	// Change represents a tracked change.
	Change = tracking.Change

	// ChangeSet groups tracked changes after a base version.
	ChangeSet = tracking.ChangeSet

	// DiffOptions configures diff computation.
	DiffOptions = tracking.DiffOptions

	// DiffResult contains the result of a diff operation.
	DiffResult = tracking.DiffResult
)

// Engine is the main facade for the text engine.
// It combines the gap buffer, the undo log and change tracking into a
// unified, thread-safe API.
//
// The buffer and the undo log are not safe for concurrent use on their own;
// every access goes through the engine's lock.
type Engine struct {
	mu sync.RWMutex

	// Core components
	buf     *buffer.GapBuffer
	history *history.Log
	tracker *tracking.Tracker
	logger  *slog.Logger

	// caret is where the last edit, undo or redo left the cursor.
	caret int

	// Configuration
	initialCapacity int
	minGapGrowth    int
	coalescing      bool
	coalesceWindow  time.Duration
	forwardErase    bool
	maxUndoEntries  int
	maxSnapshots    int
	maxChanges      int
	readOnly        bool
	now             func() time.Time

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		initialCapacity: buffer.DefaultInitialCapacity,
		minGapGrowth:    buffer.DefaultMinGrowth,
		coalescing:      true,
		coalesceWindow:  history.DefaultCoalesceWindow,
		maxUndoEntries:  DefaultMaxUndoEntries,
		maxSnapshots:    DefaultMaxSnapshots,
		maxChanges:      DefaultMaxChanges,
		logger:          logging.Discard(),
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.buf = buffer.NewGapBuffer(e.bufferOptions()...)
	if e.initContent != "" {
		e.buf.SetText(e.initContent)
	}
	e.history = history.NewLog(e.historyOptions()...)
	e.tracker = tracking.NewTracker(
		tracking.WithMaxChanges(e.maxChanges),
		tracking.WithTrackerClock(e.now),
	)

	return e
}

// NewFromConfig creates an Engine configured from the engine section of
// cfg. Extra options are applied after the configuration.
func NewFromConfig(cfg config.EngineConfig, opts ...Option) *Engine {
	return New(append(OptionsFromConfig(cfg), opts...)...)
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.String()
}

// Slice returns n runes starting at pos.
func (e *Engine) Slice(pos, n int) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Slice(pos, n)
}

// Size returns the document length in runes.
func (e *Engine) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Size()
}

// IsEmpty returns true if the document is empty.
func (e *Engine) IsEmpty() bool {
	return e.Size() == 0
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// LineStart returns the offset of the first rune of line.
func (e *Engine) LineStart(line int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineStart(line)
}

// LineEnd returns the exclusive end offset of line.
func (e *Engine) LineEnd(line int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEnd(line)
}

// LineText returns the text of a line without its newline.
func (e *Engine) LineText(line int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineText(line)
}

// PositionFromLineCol converts a line/column pair to an offset.
func (e *Engine) PositionFromLineCol(line, col int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.PositionFromLineCol(line, col)
}

// OffsetToPoint converts an offset to a line/column pair.
func (e *Engine) OffsetToPoint(pos int) Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.OffsetToPoint(pos)
}

// Version returns the buffer's mutation counter.
func (e *Engine) Version() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Version()
}

// Snapshot returns an immutable copy of the current document.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Snapshot()
}

// Caret returns where the last edit, undo or redo left the cursor.
func (e *Engine) Caret() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.caret
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at pos and returns the caret position after it.
func (e *Engine) Insert(pos int, text string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkWritable("insert"); err != nil {
		return 0, err
	}
	return e.insertLocked(pos, text)
}

func (e *Engine) insertLocked(pos int, text string) (int, error) {
	if err := e.buf.Insert(pos, text); err != nil {
		e.logger.Warn("insert rejected", "pos", pos, "size", e.buf.Size(), "error", err)
		return 0, err
	}
	if text == "" {
		return pos, nil
	}

	edit := history.NewInsert(pos, text)
	edit.Time = e.now()
	e.history.Push(edit)
	e.tracker.Record(tracking.Change{
		Kind:    tracking.ChangeInsert,
		Pos:     pos,
		Text:    text,
		Version: e.buf.Version(),
		Time:    edit.Time,
	})
	e.caret = edit.CaretAfter

	e.logger.Debug("insert", "pos", pos, "len", edit.Len(), "version", e.buf.Version())
	return e.caret, nil
}

// Erase removes n runes at pos and returns the removed text.
func (e *Engine) Erase(pos, n int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkWritable("erase"); err != nil {
		return "", err
	}
	return e.eraseLocked(pos, n)
}

func (e *Engine) eraseLocked(pos, n int) (string, error) {
	removed, err := e.buf.Erase(pos, n)
	if err != nil {
		e.logger.Warn("erase rejected", "pos", pos, "n", n, "size", e.buf.Size(), "error", err)
		return "", err
	}
	if removed == "" {
		return "", nil
	}

	edit := history.NewErase(pos, removed)
	edit.Time = e.now()
	e.history.Push(edit)
	e.tracker.Record(tracking.Change{
		Kind:    tracking.ChangeErase,
		Pos:     pos,
		Text:    removed,
		Version: e.buf.Version(),
		Time:    edit.Time,
	})
	e.caret = edit.CaretAfter

	e.logger.Debug("erase", "pos", pos, "len", n, "version", e.buf.Version())
	return removed, nil
}

// Backspace removes the rune before caret and returns the new caret.
// At the start of the document it does nothing.
func (e *Engine) Backspace(caret int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkWritable("backspace"); err != nil {
		return 0, err
	}
	if caret == 0 {
		return 0, nil
	}
	if _, err := e.eraseLocked(caret-1, 1); err != nil {
		return 0, err
	}
	return e.caret, nil
}

// Delete removes the rune after caret (the Delete key) and returns the
// caret, which does not move. At the end of the document it does nothing.
func (e *Engine) Delete(caret int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkWritable("delete"); err != nil {
		return 0, err
	}
	if caret == e.buf.Size() {
		return caret, nil
	}
	if _, err := e.eraseLocked(caret, 1); err != nil {
		return 0, err
	}
	return e.caret, nil
}

// SetText replaces the whole document. It is not undoable: history,
// tracked changes and snapshots are cleared.
func (e *Engine) SetText(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkWritable("set text"); err != nil {
		return err
	}

	e.buf.SetText(text)
	e.history.Clear()
	e.tracker.Clear()
	e.caret = 0

	e.logger.Debug("set text", "size", e.buf.Size(), "lines", e.buf.LineCount())
	return nil
}

// Clear empties the document and resets the version to zero.
// History, tracked changes and snapshots are cleared too.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkWritable("clear"); err != nil {
		return err
	}

	e.buf.Clear()
	e.history.Clear()
	e.tracker.Clear()
	e.caret = 0
	return nil
}

func (e *Engine) checkWritable(op string) error {
	if e.readOnly {
		e.logger.Warn("write on read-only engine", "op", op)
		return ErrReadOnly
	}
	return nil
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo reverts the most recent undo step and returns the caret it leaves.
func (e *Engine) Undo() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkWritable("undo"); err != nil {
		return 0, err
	}

	edit, ok := e.history.PeekUndo()
	if !ok {
		return 0, ErrNothingToUndo
	}
	caret, err := e.history.Undo(e.buf)
	if err != nil {
		e.logger.Warn("undo failed", "edit", edit.String(), "error", err)
		return 0, err
	}

	e.recordApplied(edit.Inverse())
	e.caret = caret
	e.logger.Debug("undo", "edit", edit.Description(), "version", e.buf.Version())
	return caret, nil
}

// Redo re-applies the most recently undone step and returns its caret.
func (e *Engine) Redo() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkWritable("redo"); err != nil {
		return 0, err
	}

	edit, ok := e.history.PeekRedo()
	if !ok {
		return 0, ErrNothingToRedo
	}
	caret, err := e.history.Redo(e.buf)
	if err != nil {
		e.logger.Warn("redo failed", "edit", edit.String(), "error", err)
		return 0, err
	}

	e.recordApplied(edit)
	e.caret = caret
	e.logger.Debug("redo", "edit", edit.Description(), "version", e.buf.Version())
	return caret, nil
}

// recordApplied tracks an edit that undo or redo just applied.
func (e *Engine) recordApplied(edit history.Edit) {
	kind := tracking.ChangeInsert
	if edit.Kind == history.Erase {
		kind = tracking.ChangeErase
	}
	e.tracker.Record(tracking.Change{
		Kind:    kind,
		Pos:     edit.Pos,
		Text:    edit.Text,
		Version: e.buf.Version(),
	})
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo steps.
func (e *Engine) UndoCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.UndoCount()
}

// RedoCount returns the number of available redo steps.
func (e *Engine) RedoCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.RedoCount()
}

// BreakUndoGroup makes the next edit start a new undo step even if it
// would otherwise coalesce. Call it when the caret moves on its own.
func (e *Engine) BreakUndoGroup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Break()
}

// ClearHistory removes all undo/redo history.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Clear()
}

// EnableCoalescing turns undo coalescing on or off.
func (e *Engine) EnableCoalescing(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.coalescing = on
	e.history.EnableCoalescing(on)
}

// SetCoalesceWindow changes the undo coalescing window.
func (e *Engine) SetCoalesceWindow(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d > 0 {
		e.coalesceWindow = d
		e.history.SetCoalesceWindow(d)
	}
}

// CoalesceWindow returns the undo coalescing window.
func (e *Engine) CoalesceWindow() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CoalesceWindow()
}

// ============================================================================
// Snapshot and Tracking Operations
// ============================================================================

// CreateSnapshot stores a named snapshot of the current state.
func (e *Engine) CreateSnapshot(name string) SnapshotID {
	e.mu.RLock()
	defer e.mu.RUnlock()

	id := e.tracker.CreateSnapshot(name, e.buf.Snapshot())
	if e.maxSnapshots > 0 {
		if n := e.tracker.PruneSnapshots(e.maxSnapshots); n > 0 {
			e.logger.Debug("pruned snapshots", "removed", n, "kept", e.maxSnapshots)
		}
	}
	return id
}

// GetSnapshot retrieves a snapshot by ID.
func (e *Engine) GetSnapshot(id SnapshotID) (*tracking.Snapshot, error) {
	return e.tracker.GetSnapshot(id)
}

// SnapshotByName retrieves a snapshot by name.
func (e *Engine) SnapshotByName(name string) (*tracking.Snapshot, error) {
	return e.tracker.GetSnapshotByName(name)
}

// DeleteSnapshot removes a snapshot.
func (e *Engine) DeleteSnapshot(id SnapshotID) {
	e.tracker.DeleteSnapshot(id)
}

// ListSnapshots returns all snapshots, oldest first.
func (e *Engine) ListSnapshots() []*tracking.Snapshot {
	return e.tracker.ListSnapshots()
}

// ChangesSince returns all tracked changes after version.
func (e *Engine) ChangesSince(version uint64) []Change {
	return e.tracker.ChangesSince(version)
}

// ChangeSetSince groups the tracked changes after version.
func (e *Engine) ChangeSetSince(version uint64) *ChangeSet {
	return e.tracker.BuildChangeSet(version)
}

// LatestChanges returns the most recent n changes.
func (e *Engine) LatestChanges(n int) []Change {
	return e.tracker.LatestChanges(n)
}

// DiffSinceSnapshot returns the changes recorded since a snapshot.
func (e *Engine) DiffSinceSnapshot(id SnapshotID) ([]Change, error) {
	return e.tracker.DiffSinceSnapshot(id)
}

// ComputeDiffSinceSnapshot computes a line-level diff from the named
// snapshot to the current document.
func (e *Engine) ComputeDiffSinceSnapshot(name string, opts DiffOptions) (DiffResult, error) {
	snap, err := e.tracker.GetSnapshotByName(name)
	if err != nil {
		return DiffResult{}, fmt.Errorf("snapshot %q: %w", name, err)
	}
	return tracking.ComputeDiff(snap.State(), e.Snapshot(), opts)
}

// ============================================================================
// Configuration
// ============================================================================

// IsReadOnly returns true if the engine is read-only.
func (e *Engine) IsReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// Reconfigure applies the settings of cfg that can change on a live
// engine: coalescing, the coalescing window and read-only mode.
// Storage sizes and history bounds only apply at creation.
func (e *Engine) Reconfigure(cfg config.EngineConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.coalescing = cfg.Coalescing
	e.history.EnableCoalescing(cfg.Coalescing)
	if d := cfg.CoalesceWindow.Duration; d > 0 {
		e.coalesceWindow = d
		e.history.SetCoalesceWindow(d)
	}
	e.forwardErase = cfg.ForwardEraseCoalescing
	e.history.SetForwardErase(cfg.ForwardEraseCoalescing)
	e.readOnly = cfg.ReadOnly

	e.logger.Info("engine reconfigured",
		"coalescing", e.coalescing,
		"window", e.coalesceWindow,
		"forward_erase", e.forwardErase,
		"read_only", e.readOnly)
}

// Stats summarizes the engine's state.
type Stats struct {
	Size      int
	Lines     int
	Capacity  int
	GapLen    int
	Version   uint64
	Undo      int
	Redo      int
	Changes   int
	Snapshots int

	// StorageBytes is the memory held by the rune storage, gap included.
	StorageBytes int
}

// Stats returns a summary of the engine's state.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Stats{
		Size:      e.buf.Size(),
		Lines:     e.buf.LineCount(),
		Capacity:  e.buf.Cap(),
		GapLen:    e.buf.GapLen(),
		Version:   e.buf.Version(),
		Undo:      e.history.UndoCount(),
		Redo:      e.history.RedoCount(),
		Changes:   e.tracker.ChangeCount(),
		Snapshots: e.tracker.SnapshotCount(),

		StorageBytes: e.buf.Cap() * 4, // int32 per rune
	}
}
