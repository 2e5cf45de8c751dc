package history

import "time"

// DefaultCoalesceWindow is how close in time two edits must be to merge.
const DefaultCoalesceWindow = 600 * time.Millisecond

// Option configures a Log.
type Option func(*Log)

// WithCoalescing enables or disables merging of adjacent edits.
func WithCoalescing(on bool) Option {
	return func(l *Log) {
		l.coalesce = on
	}
}

// WithCoalesceWindow sets the recency window for merging edits.
func WithCoalesceWindow(d time.Duration) Option {
	return func(l *Log) {
		if d > 0 {
			l.window = d
		}
	}
}

// WithForwardErase also merges forward (Delete-key) erasures that start at
// the same position as the previous erasure. Off by default.
func WithForwardErase(on bool) Option {
	return func(l *Log) {
		l.forwardErase = on
	}
}

// WithMaxEntries bounds the done stack, discarding the oldest entries.
// Zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		l.maxEntries = n
	}
}

// WithClock replaces the time source used to stamp edits.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}
