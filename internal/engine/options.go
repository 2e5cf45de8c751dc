package engine

import (
	"log/slog"
	"time"

	"github.com/Wiktoryk/IDE/internal/config"
	"github.com/Wiktoryk/IDE/internal/engine/buffer"
	"github.com/Wiktoryk/IDE/internal/engine/history"
	"github.com/Wiktoryk/IDE/internal/engine/tracking"
)

// Default configuration values. Undo history is unbounded by default.
const (
	DefaultMaxUndoEntries = 0
	DefaultMaxSnapshots   = 64
	DefaultMaxChanges     = tracking.DefaultMaxChanges
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithInitialCapacity sets the gap buffer's starting capacity in runes.
func WithInitialCapacity(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.initialCapacity = n
		}
	}
}

// WithMinGapGrowth sets the minimum number of runes the gap grows by.
func WithMinGapGrowth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minGapGrowth = n
		}
	}
}

// WithCoalescing enables or disables undo coalescing.
func WithCoalescing(on bool) Option {
	return func(e *Engine) {
		e.coalescing = on
	}
}

// WithCoalesceWindow sets the undo coalescing window.
func WithCoalesceWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.coalesceWindow = d
		}
	}
}

// WithForwardEraseCoalescing also merges consecutive forward deletes.
func WithForwardEraseCoalescing(on bool) Option {
	return func(e *Engine) {
		e.forwardErase = on
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
// Zero means unbounded; negative values are ignored.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max >= 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithMaxSnapshots bounds the named snapshots kept. Creating one past the
// bound drops the oldest. Zero means unbounded; negative values are ignored.
func WithMaxSnapshots(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxSnapshots = n
		}
	}
}

// WithMaxChanges sets the maximum number of tracked changes.
func WithMaxChanges(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxChanges = max
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces the time source used for coalescing and tracking.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// OptionsFromConfig translates the engine section of a configuration into
// options.
func OptionsFromConfig(cfg config.EngineConfig) []Option {
	opts := []Option{
		WithInitialCapacity(cfg.InitialCapacity),
		WithMinGapGrowth(cfg.MinGapGrowth),
		WithCoalescing(cfg.Coalescing),
		WithCoalesceWindow(cfg.CoalesceWindow.Duration),
		WithForwardEraseCoalescing(cfg.ForwardEraseCoalescing),
		WithMaxUndoEntries(cfg.MaxUndoEntries),
		WithMaxSnapshots(cfg.MaxSnapshots),
		WithMaxChanges(cfg.MaxChanges),
	}
	if cfg.ReadOnly {
		opts = append(opts, WithReadOnly())
	}
	return opts
}

func (e *Engine) bufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithInitialCapacity(e.initialCapacity),
		buffer.WithMinGrowth(e.minGapGrowth),
	}
}

func (e *Engine) historyOptions() []history.Option {
	return []history.Option{
		history.WithCoalescing(e.coalescing),
		history.WithCoalesceWindow(e.coalesceWindow),
		history.WithForwardErase(e.forwardErase),
		history.WithMaxEntries(e.maxUndoEntries),
		history.WithClock(e.now),
	}
}
