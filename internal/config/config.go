package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the complete set of settings.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EngineConfig configures the text engine.
type EngineConfig struct {
	// InitialCapacity is the gap buffer's starting capacity in runes.
	InitialCapacity int `toml:"initial_capacity" yaml:"initial_capacity"`

	// MinGapGrowth is the smallest amount the gap grows by when full.
	MinGapGrowth int `toml:"min_gap_growth" yaml:"min_gap_growth"`

	// Coalescing merges runs of typing or backspacing into one undo step.
	Coalescing bool `toml:"coalescing" yaml:"coalescing"`

	// CoalesceWindow is how close in time two edits must be to merge.
	CoalesceWindow Duration `toml:"coalesce_window" yaml:"coalesce_window"`

	// ForwardEraseCoalescing also merges runs of forward deletes.
	ForwardEraseCoalescing bool `toml:"forward_erase_coalescing" yaml:"forward_erase_coalescing"`

	// MaxUndoEntries bounds the undo stack. Zero means unbounded.
	MaxUndoEntries int `toml:"max_undo_entries" yaml:"max_undo_entries"`

	// MaxSnapshots bounds the named snapshots kept; the oldest are dropped.
	// Zero means unbounded.
	MaxSnapshots int `toml:"max_snapshots" yaml:"max_snapshots"`

	// MaxChanges bounds the change tracker's ring buffer.
	MaxChanges int `toml:"max_changes" yaml:"max_changes"`

	// ReadOnly rejects every write.
	ReadOnly bool `toml:"read_only" yaml:"read_only"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" yaml:"format"`

	// File, when set, sends logs to a rotated file instead of stderr.
	File string `toml:"file" yaml:"file"`

	MaxSizeMB  int  `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int  `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int  `toml:"max_age_days" yaml:"max_age_days"`
	Compress   bool `toml:"compress" yaml:"compress"`
}

// Duration is a time.Duration written as a string such as "600ms".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			InitialCapacity: 256,
			MinGapGrowth:    32,
			Coalescing:      true,
			CoalesceWindow:  Duration{600 * time.Millisecond},
			MaxUndoEntries:  0,
			MaxSnapshots:    64,
			MaxChanges:      10000,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	e := c.Engine
	if e.InitialCapacity <= 0 {
		add("engine.initial_capacity must be positive, got %d", e.InitialCapacity)
	}
	if e.MinGapGrowth <= 0 {
		add("engine.min_gap_growth must be positive, got %d", e.MinGapGrowth)
	}
	if e.CoalesceWindow.Duration <= 0 {
		add("engine.coalesce_window must be positive, got %s", e.CoalesceWindow)
	}
	if e.MaxUndoEntries < 0 {
		add("engine.max_undo_entries must not be negative, got %d", e.MaxUndoEntries)
	}
	if e.MaxSnapshots < 0 {
		add("engine.max_snapshots must not be negative, got %d", e.MaxSnapshots)
	}
	if e.MaxChanges <= 0 {
		add("engine.max_changes must be positive, got %d", e.MaxChanges)
	}

	l := c.Logging
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("logging.level must be debug, info, warn or error, got %q", l.Level)
	}
	switch l.Format {
	case "", "text", "json":
	default:
		add("logging.format must be text or json, got %q", l.Format)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		add("logging rotation limits must not be negative")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Marshal encodes the configuration as "toml" or "yaml".
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "toml":
		return toml.Marshal(c)
	case "yaml", "yml":
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
