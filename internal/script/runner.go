package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Wiktoryk/IDE/internal/config"
	"github.com/Wiktoryk/IDE/internal/engine"
	"github.com/Wiktoryk/IDE/internal/engine/tracking"
	"github.com/Wiktoryk/IDE/internal/logging"
)

// StepError reports the step a script stopped at.
type StepError struct {
	// Index is the 1-based step number.
	Index  int
	Action string
	Err    error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Diff is the output of a diff step.
type Diff struct {
	Snapshot string
	Result   engine.DiffResult
}

// Result describes a completed run.
type Result struct {
	Name   string
	Engine *engine.Engine

	// Steps is the number of steps executed.
	Steps int

	// Elapsed is the virtual time the script's sleeps covered.
	Elapsed time.Duration

	Diffs []Diff

	// Changes holds every edit the script made, set when it completes.
	Changes *tracking.ChangeSet
}

// StepHandler observes each step after it ran.
type StepHandler func(index int, step Step, eng *engine.Engine)

// Runner replays scripts.
type Runner struct {
	cfg     config.EngineConfig
	logger  *slog.Logger
	onStep  StepHandler
	mu      sync.Mutex
	running bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithEngineConfig sets the configuration engines start from.
func WithEngineConfig(cfg config.EngineConfig) RunnerOption {
	return func(r *Runner) {
		r.cfg = cfg
	}
}

// WithLogger sets the logger. Engines created by the runner share it.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStepHandler calls h after every successful step.
func WithStepHandler(h StepHandler) RunnerOption {
	return func(r *Runner) {
		r.onStep = h
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:    config.Default().Engine,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// clock is the virtual time source a run hands its engine.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

// Run replays s on a fresh engine. On failure the partial result is
// returned with the error.
func (r *Runner) Run(ctx context.Context, s *Script) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, errors.New("runner is already running a script")
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	clk := &clock{now: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}
	start := clk.now
	eng := engine.NewFromConfig(s.Engine.Apply(r.cfg),
		engine.WithContent(s.Initial),
		engine.WithClock(clk.Now),
		engine.WithLogger(r.logger),
	)

	res := &Result{Name: s.Name, Engine: eng}
	base := eng.Version()
	r.logger.Debug("script started", "script", s.Name, "steps", len(s.Steps))

	for i, step := range s.Steps {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		err := r.exec(eng, clk, step, res)
		err = checkFailure(step, err)
		if err != nil {
			r.logger.Debug("script step failed", "script", s.Name, "step", i+1, "error", err)
			return res, &StepError{Index: i + 1, Action: step.Action(), Err: err}
		}

		res.Steps++
		res.Elapsed = clk.now.Sub(start)
		if r.onStep != nil {
			r.onStep(i+1, step, eng)
		}
	}

	res.Changes = eng.ChangeSetSince(base)
	r.logger.Debug("script finished", "script", s.Name, "version", eng.Version(), "changes", res.Changes.Len())
	return res, nil
}

// checkFailure applies a step's fails marker to its outcome.
func checkFailure(step Step, err error) error {
	switch {
	case step.Fails == "":
		return err
	case err == nil:
		return fmt.Errorf("%w: want error containing %q", ErrUnexpectedSuccess, step.Fails)
	case !strings.Contains(err.Error(), step.Fails):
		return fmt.Errorf("want error containing %q, got: %w", step.Fails, err)
	default:
		return nil
	}
}

func (r *Runner) exec(eng *engine.Engine, clk *clock, step Step, res *Result) error {
	switch {
	case step.Insert != nil:
		_, err := eng.Insert(step.Insert.Pos, step.Insert.Text)
		return err
	case step.Erase != nil:
		_, err := eng.Erase(step.Erase.Pos, step.Erase.N)
		return err
	case step.Backspace != nil:
		_, err := eng.Backspace(*step.Backspace)
		return err
	case step.Delete != nil:
		_, err := eng.Delete(*step.Delete)
		return err
	case step.Undo != nil:
		return repeat(*step.Undo, eng.Undo, engine.ErrNothingToUndo)
	case step.Redo != nil:
		return repeat(*step.Redo, eng.Redo, engine.ErrNothingToRedo)
	case step.Break:
		eng.BreakUndoGroup()
	case step.SetText != nil:
		return eng.SetText(*step.SetText)
	case step.Snapshot != "":
		eng.CreateSnapshot(step.Snapshot)
	case step.Diff != "":
		diff, err := eng.ComputeDiffSinceSnapshot(step.Diff, engine.DiffOptions{
			ContextLines: tracking.DefaultContextLines,
			FromName:     step.Diff,
			ToName:       "current",
		})
		if err != nil {
			return err
		}
		res.Diffs = append(res.Diffs, Diff{Snapshot: step.Diff, Result: diff})
	case step.Sleep != nil:
		clk.now = clk.now.Add(step.Sleep.Duration)
	case step.Coalescing != nil:
		eng.EnableCoalescing(*step.Coalescing)
	case step.Expect != nil:
		return step.Expect.Check(eng)
	}
	return nil
}

// repeat runs an undo or redo n times. Running out of steps stops early
// without an error.
func repeat(n int, fn func() (int, error), empty error) error {
	for i := 0; i < n; i++ {
		if _, err := fn(); err != nil {
			if errors.Is(err, empty) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Check compares the engine state with the expectation and reports every
// mismatch.
func (x *Expect) Check(eng *engine.Engine) error {
	var problems []string
	mismatch := func(field string, got, want any) {
		problems = append(problems, fmt.Sprintf("%s: got %#v, want %#v", field, got, want))
	}

	if x.Text != nil {
		if got := eng.Text(); got != *x.Text {
			mismatch("text", got, *x.Text)
		}
	}
	if x.Size != nil {
		if got := eng.Size(); got != *x.Size {
			mismatch("size", got, *x.Size)
		}
	}
	if x.Lines != nil {
		if got := eng.LineCount(); got != *x.Lines {
			mismatch("lines", got, *x.Lines)
		}
	}
	if x.Caret != nil {
		if got := eng.Caret(); got != *x.Caret {
			mismatch("caret", got, *x.Caret)
		}
	}
	if x.Version != nil {
		if got := eng.Version(); got != *x.Version {
			mismatch("version", got, *x.Version)
		}
	}
	if x.CanUndo != nil {
		if got := eng.CanUndo(); got != *x.CanUndo {
			mismatch("can_undo", got, *x.CanUndo)
		}
	}
	if x.CanRedo != nil {
		if got := eng.CanRedo(); got != *x.CanRedo {
			mismatch("can_redo", got, *x.CanRedo)
		}
	}
	if x.UndoCount != nil {
		if got := eng.UndoCount(); got != *x.UndoCount {
			mismatch("undo_count", got, *x.UndoCount)
		}
	}
	if x.RedoCount != nil {
		if got := eng.RedoCount(); got != *x.RedoCount {
			mismatch("redo_count", got, *x.RedoCount)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(problems, "; "))
	}
	return nil
}
