package tracking

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Wiktoryk/IDE/internal/engine/buffer"
)

// Errors returned by snapshot operations.
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// SnapshotID uniquely identifies a named snapshot.
type SnapshotID = uuid.UUID

// Snapshot is a named checkpoint of buffer state.
// Snapshots are immutable and can be safely shared across goroutines.
type Snapshot struct {
	// ID uniquely identifies this snapshot.
	ID SnapshotID

	// Name is the human-readable name, e.g. "before_refactor".
	Name string

	// Timestamp when this snapshot was created.
	Timestamp time.Time

	state *buffer.Snapshot
	seq   uint64 // creation order within a manager
}

// NewSnapshot wraps a buffer snapshot under a name.
func NewSnapshot(name string, state *buffer.Snapshot) *Snapshot {
	return &Snapshot{
		ID:        uuid.New(),
		Name:      name,
		Timestamp: time.Now(),
		state:     state,
	}
}

// State returns the captured buffer snapshot.
func (s *Snapshot) State() *buffer.Snapshot {
	return s.state
}

// Text returns the full text at this snapshot.
func (s *Snapshot) Text() string {
	return s.state.Text()
}

// Version returns the buffer version at the time of the snapshot.
func (s *Snapshot) Version() uint64 {
	return s.state.Version()
}

// Size returns the rune length at this snapshot.
func (s *Snapshot) Size() int {
	return s.state.Size()
}

// LineCount returns the number of lines at this snapshot.
func (s *Snapshot) LineCount() int {
	return s.state.LineCount()
}

// SnapshotManager manages named snapshots.
// All operations are thread-safe.
type SnapshotManager struct {
	mu        sync.RWMutex
	snapshots map[SnapshotID]*Snapshot
	byName    map[string]*Snapshot
	seq       uint64
}

// NewSnapshotManager creates a new snapshot manager.
func NewSnapshotManager() *SnapshotManager {
	return &SnapshotManager{
		snapshots: make(map[SnapshotID]*Snapshot),
		byName:    make(map[string]*Snapshot),
	}
}

// Create stores a new named snapshot and returns its ID.
// If a snapshot with the same name exists, it is replaced.
func (sm *SnapshotManager) Create(name string, state *buffer.Snapshot) SnapshotID {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if existing, ok := sm.byName[name]; ok {
		delete(sm.snapshots, existing.ID)
	}

	snap := NewSnapshot(name, state)
	sm.seq++
	snap.seq = sm.seq

	sm.snapshots[snap.ID] = snap
	if name != "" {
		sm.byName[name] = snap
	}

	return snap.ID
}

// Get retrieves a snapshot by ID.
func (sm *SnapshotManager) Get(id SnapshotID) (*Snapshot, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	snap, ok := sm.snapshots[id]
	return snap, ok
}

// GetByName retrieves a snapshot by name.
func (sm *SnapshotManager) GetByName(name string) (*Snapshot, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	snap, ok := sm.byName[name]
	return snap, ok
}

// Delete removes a snapshot by ID.
func (sm *SnapshotManager) Delete(id SnapshotID) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if snap, ok := sm.snapshots[id]; ok {
		if snap.Name != "" {
			delete(sm.byName, snap.Name)
		}
		delete(sm.snapshots, id)
	}
}

// List returns all snapshots, oldest first.
func (sm *SnapshotManager) List() []*Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sortedLocked()
}

func (sm *SnapshotManager) sortedLocked() []*Snapshot {
	snapshots := make([]*Snapshot, 0, len(sm.snapshots))
	for _, snap := range sm.snapshots {
		snapshots = append(snapshots, snap)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].seq < snapshots[j].seq
	})
	return snapshots
}

// Count returns the number of snapshots.
func (sm *SnapshotManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.snapshots)
}

// Clear removes all snapshots.
func (sm *SnapshotManager) Clear() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.snapshots = make(map[SnapshotID]*Snapshot)
	sm.byName = make(map[string]*Snapshot)
}

// PruneKeepN removes the oldest snapshots, keeping only the n most recent.
// Returns the number of snapshots removed.
func (sm *SnapshotManager) PruneKeepN(n int) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if n < 0 {
		n = 0
	}
	if len(sm.snapshots) <= n {
		return 0
	}

	snapshots := sm.sortedLocked()
	removed := 0
	for _, snap := range snapshots[:len(snapshots)-n] {
		if snap.Name != "" {
			delete(sm.byName, snap.Name)
		}
		delete(sm.snapshots, snap.ID)
		removed++
	}

	return removed
}
