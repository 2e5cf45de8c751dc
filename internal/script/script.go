package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Wiktoryk/IDE/internal/config"
)

// Errors returned by scripts.
var (
	// ErrInvalidScript indicates a script that cannot be run.
	ErrInvalidScript = errors.New("invalid script")

	// ErrExpectation indicates an expect step did not match.
	ErrExpectation = errors.New("expectation failed")

	// ErrUnexpectedSuccess indicates a step marked fails succeeded.
	ErrUnexpectedSuccess = errors.New("step was expected to fail")
)

// Script is a parsed edit script.
type Script struct {
	Name    string           `yaml:"name"`
	Initial string           `yaml:"initial"`
	Engine  *EngineOverrides `yaml:"engine,omitempty"`
	Steps   []Step           `yaml:"steps"`
}

// EngineOverrides replaces engine settings for one script. Unset fields
// keep the runner's configuration.
type EngineOverrides struct {
	Coalescing             *bool            `yaml:"coalescing,omitempty"`
	CoalesceWindow         *config.Duration `yaml:"coalesce_window,omitempty"`
	ForwardEraseCoalescing *bool            `yaml:"forward_erase_coalescing,omitempty"`
	MaxUndoEntries         *int             `yaml:"max_undo_entries,omitempty"`
	MaxSnapshots           *int             `yaml:"max_snapshots,omitempty"`
	InitialCapacity        *int             `yaml:"initial_capacity,omitempty"`
	ReadOnly               *bool            `yaml:"read_only,omitempty"`
}

// Apply writes the set overrides onto cfg.
func (o *EngineOverrides) Apply(cfg config.EngineConfig) config.EngineConfig {
	if o == nil {
		return cfg
	}
	if o.Coalescing != nil {
		cfg.Coalescing = *o.Coalescing
	}
	if o.CoalesceWindow != nil {
		cfg.CoalesceWindow = *o.CoalesceWindow
	}
	if o.ForwardEraseCoalescing != nil {
		cfg.ForwardEraseCoalescing = *o.ForwardEraseCoalescing
	}
	if o.MaxUndoEntries != nil {
		cfg.MaxUndoEntries = *o.MaxUndoEntries
	}
	if o.MaxSnapshots != nil {
		cfg.MaxSnapshots = *o.MaxSnapshots
	}
	if o.InitialCapacity != nil {
		cfg.InitialCapacity = *o.InitialCapacity
	}
	if o.ReadOnly != nil {
		cfg.ReadOnly = *o.ReadOnly
	}
	return cfg
}

// Step is one action. Exactly one action field is set.
type Step struct {
	Insert     *InsertStep      `yaml:"insert,omitempty"`
	Erase      *EraseStep       `yaml:"erase,omitempty"`
	Backspace  *int             `yaml:"backspace,omitempty"`
	Delete     *int             `yaml:"delete,omitempty"`
	Undo       *int             `yaml:"undo,omitempty"`
	Redo       *int             `yaml:"redo,omitempty"`
	Break      bool             `yaml:"break,omitempty"`
	SetText    *string          `yaml:"set_text,omitempty"`
	Snapshot   string           `yaml:"snapshot,omitempty"`
	Diff       string           `yaml:"diff,omitempty"`
	Sleep      *config.Duration `yaml:"sleep,omitempty"`
	Coalescing *bool            `yaml:"coalescing,omitempty"`
	Expect     *Expect          `yaml:"expect,omitempty"`

	// Fails, when set, requires the step to fail with an error whose
	// message contains it.
	Fails string `yaml:"fails,omitempty"`
}

// InsertStep inserts Text at Pos.
type InsertStep struct {
	Pos  int    `yaml:"pos"`
	Text string `yaml:"text"`
}

// EraseStep removes N runes at Pos.
type EraseStep struct {
	Pos int `yaml:"pos"`
	N   int `yaml:"n"`
}

// Expect lists assertions on the engine state. Unset fields are not
// checked.
type Expect struct {
	Text      *string `yaml:"text,omitempty"`
	Size      *int    `yaml:"size,omitempty"`
	Lines     *int    `yaml:"lines,omitempty"`
	Caret     *int    `yaml:"caret,omitempty"`
	Version   *uint64 `yaml:"version,omitempty"`
	CanUndo   *bool   `yaml:"can_undo,omitempty"`
	CanRedo   *bool   `yaml:"can_redo,omitempty"`
	UndoCount *int    `yaml:"undo_count,omitempty"`
	RedoCount *int    `yaml:"redo_count,omitempty"`
}

// Action names the step's action.
func (s Step) Action() string {
	actions := s.actions()
	if len(actions) != 1 {
		return ""
	}
	return actions[0]
}

func (s Step) actions() []string {
	var set []string
	add := func(on bool, name string) {
		if on {
			set = append(set, name)
		}
	}
	add(s.Insert != nil, "insert")
	add(s.Erase != nil, "erase")
	add(s.Backspace != nil, "backspace")
	add(s.Delete != nil, "delete")
	add(s.Undo != nil, "undo")
	add(s.Redo != nil, "redo")
	add(s.Break, "break")
	add(s.SetText != nil, "set_text")
	add(s.Snapshot != "", "snapshot")
	add(s.Diff != "", "diff")
	add(s.Sleep != nil, "sleep")
	add(s.Coalescing != nil, "coalescing")
	add(s.Expect != nil, "expect")
	return set
}

// Validate checks that every step has exactly one action and sane counts.
func (s *Script) Validate() error {
	for i, step := range s.Steps {
		actions := step.actions()
		switch {
		case len(actions) == 0:
			return fmt.Errorf("%w: step %d has no action", ErrInvalidScript, i+1)
		case len(actions) > 1:
			return fmt.Errorf("%w: step %d has several actions: %s",
				ErrInvalidScript, i+1, strings.Join(actions, ", "))
		}
		if step.Undo != nil && *step.Undo < 1 || step.Redo != nil && *step.Redo < 1 {
			return fmt.Errorf("%w: step %d: repeat count must be at least 1", ErrInvalidScript, i+1)
		}
		if step.Sleep != nil && step.Sleep.Duration < 0 {
			return fmt.Errorf("%w: step %d: negative sleep", ErrInvalidScript, i+1)
		}
		if step.Fails != "" && step.Expect != nil {
			return fmt.Errorf("%w: step %d: expect cannot fail", ErrInvalidScript, i+1)
		}
	}
	return nil
}

// TotalSleep returns the virtual time the script's sleeps add up to.
func (s *Script) TotalSleep() time.Duration {
	var total time.Duration
	for _, step := range s.Steps {
		if step.Sleep != nil {
			total += step.Sleep.Duration
		}
	}
	return total
}

// Parse decodes and validates a script. Unknown keys are errors.
func Parse(data []byte) (*Script, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a script from r.
func Decode(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScript)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a script from a file. The script is named after the file
// when it has no name of its own.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
