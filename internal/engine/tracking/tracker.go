package tracking

import (
	"sync"
	"time"

	"github.com/Wiktoryk/IDE/internal/engine/buffer"
)

// DefaultMaxChanges is the default maximum number of changes to track.
const DefaultMaxChanges = 10000

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMaxChanges sets the maximum number of changes to track.
// Only meaningful when passed to NewTracker.
func WithMaxChanges(maxChanges int) TrackerOption {
	return func(t *Tracker) {
		if maxChanges > 0 {
			t.maxChanges = maxChanges
		}
	}
}

// WithTrackerClock replaces the time source used to stamp changes.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// Tracker records changes and named snapshots.
// It keeps a bounded history of changes; the oldest are discarded first.
// All operations are thread-safe.
type Tracker struct {
	mu sync.RWMutex

	// Recent changes in a ring buffer
	changes    []Change
	head       int // Index of oldest entry
	count      int // Number of entries
	maxChanges int

	snapshots *SnapshotManager
	now       func() time.Time
}

// NewTracker creates a new change tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		maxChanges: DefaultMaxChanges,
		snapshots:  NewSnapshotManager(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.changes = make([]Change, t.maxChanges)
	return t
}

// Record appends a change. A zero Time is stamped with the tracker's clock.
func (t *Tracker) Record(change Change) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if change.Time.IsZero() {
		change.Time = t.now()
	}

	idx := (t.head + t.count) % t.maxChanges
	if t.count < t.maxChanges {
		t.count++
	} else {
		// Ring buffer is full, advance head
		t.head = (t.head + 1) % t.maxChanges
	}
	t.changes[idx] = change
}

// ChangesSince returns all changes that produced a version after version,
// in chronological order.
func (t *Tracker) ChangesSince(version uint64) []Change {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.changesSinceLocked(version)
}

// LatestChanges returns the most recent n changes in chronological order.
func (t *Tracker) LatestChanges(n int) []Change {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(max(n, 0), t.count)
	result := make([]Change, n)
	for i := 0; i < n; i++ {
		idx := (t.head + t.count - n + i) % t.maxChanges
		result[i] = t.changes[idx]
	}
	return result
}

// ChangeCount returns the number of tracked changes.
func (t *Tracker) ChangeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// BuildChangeSet creates a ChangeSet from changes since a version.
func (t *Tracker) BuildChangeSet(since uint64) *ChangeSet {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cs := NewChangeSet(since)
	for _, c := range t.changesSinceLocked(since) {
		cs.Add(c)
	}
	return cs
}

func (t *Tracker) changesSinceLocked(version uint64) []Change {
	var result []Change
	for i := 0; i < t.count; i++ {
		c := t.changes[(t.head+i)%t.maxChanges]
		if c.Version > version {
			result = append(result, c)
		}
	}
	return result
}

// Snapshot Operations

// CreateSnapshot stores a named snapshot of state.
func (t *Tracker) CreateSnapshot(name string, state *buffer.Snapshot) SnapshotID {
	return t.snapshots.Create(name, state)
}

// GetSnapshot retrieves a snapshot by ID.
func (t *Tracker) GetSnapshot(id SnapshotID) (*Snapshot, error) {
	snap, ok := t.snapshots.Get(id)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// GetSnapshotByName retrieves a snapshot by name.
func (t *Tracker) GetSnapshotByName(name string) (*Snapshot, error) {
	snap, ok := t.snapshots.GetByName(name)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// DeleteSnapshot removes a snapshot.
func (t *Tracker) DeleteSnapshot(id SnapshotID) {
	t.snapshots.Delete(id)
}

// ListSnapshots returns all snapshots, oldest first.
func (t *Tracker) ListSnapshots() []*Snapshot {
	return t.snapshots.List()
}

// SnapshotCount returns the number of snapshots.
func (t *Tracker) SnapshotCount() int {
	return t.snapshots.Count()
}

// PruneSnapshots keeps only the n most recent snapshots.
func (t *Tracker) PruneSnapshots(n int) int {
	return t.snapshots.PruneKeepN(n)
}

// DiffSinceSnapshot returns the changes recorded after the snapshot was
// taken. Changes already dropped from the ring buffer are not included.
func (t *Tracker) DiffSinceSnapshot(id SnapshotID) ([]Change, error) {
	snap, ok := t.snapshots.Get(id)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return t.ChangesSince(snap.Version()), nil
}

// Clear removes all tracked changes and snapshots.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.changes)
	t.head = 0
	t.count = 0
	t.snapshots.Clear()
}
