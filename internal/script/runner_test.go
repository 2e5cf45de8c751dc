package script

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wiktoryk/IDE/internal/config"
	"github.com/Wiktoryk/IDE/internal/engine"
)

func mustParse(t *testing.T, yaml string) *Script {
	t.Helper()
	s, err := Parse([]byte(yaml))
	require.NoError(t, err)
	return s
}

// TestScripts replays every script under testdata; each one carries its
// own expectations.
func TestScripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".yaml"), func(t *testing.T) {
			s, err := Load(path)
			require.NoError(t, err)

			res, err := NewRunner().Run(context.Background(), s)
			require.NoError(t, err)
			assert.Equal(t, len(s.Steps), res.Steps)
			assert.Equal(t, s.TotalSleep(), res.Elapsed)
		})
	}
}

func TestRunExpectationFailure(t *testing.T) {
	s := mustParse(t, `
steps:
  - insert: {pos: 0, text: "abc"}
  - expect: {text: "abd", lines: 2, caret: 3}
  - insert: {pos: 0, text: "never"}
`)

	res, err := NewRunner().Run(context.Background(), s)
	require.ErrorIs(t, err, ErrExpectation)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 2, stepErr.Index)
	assert.Equal(t, "expect", stepErr.Action)
	assert.Contains(t, err.Error(), `text: got "abc", want "abd"`)
	assert.Contains(t, err.Error(), "lines: got 1, want 2")
	assert.NotContains(t, err.Error(), "caret")

	// The partial result is kept.
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, "abc", res.Engine.Text())
}

func TestRunEngineError(t *testing.T) {
	s := mustParse(t, `
steps:
  - erase: {pos: 0, n: 1}
`)

	_, err := NewRunner().Run(context.Background(), s)
	assert.ErrorIs(t, err, engine.ErrOutOfRange)
}

func TestRunFailsMarker(t *testing.T) {
	s := mustParse(t, `
initial: "abc"
steps:
  - insert: {pos: 0, text: "x"}
    fails: out of range
`)
	_, err := NewRunner().Run(context.Background(), s)
	assert.ErrorIs(t, err, ErrUnexpectedSuccess)

	s = mustParse(t, `
steps:
  - insert: {pos: 5, text: "x"}
    fails: read-only
`)
	_, err = NewRunner().Run(context.Background(), s)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrOutOfRange)
}

func TestRunDiffs(t *testing.T) {
	s := mustParse(t, `
initial: "one\ntwo\n"
steps:
  - snapshot: base
  - insert: {pos: 8, text: "three\n"}
  - diff: base
`)

	res, err := NewRunner().Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, res.Diffs, 1)

	d := res.Diffs[0]
	assert.Equal(t, "base", d.Snapshot)
	assert.Equal(t, 1, d.Result.InsertedLines)
	assert.Equal(t, 0, d.Result.DeletedLines)
	assert.Contains(t, d.Result.Unified, "+three")
}

func TestRunUsesRunnerConfig(t *testing.T) {
	cfg := config.Default().Engine
	cfg.Coalescing = false

	s := mustParse(t, `
steps:
  - insert: {pos: 0, text: "a"}
  - insert: {pos: 1, text: "b"}
  - expect: {undo_count: 2}
`)
	_, err := NewRunner(WithEngineConfig(cfg)).Run(context.Background(), s)
	require.NoError(t, err)

	// Script overrides win over the runner's configuration.
	s.Engine = &EngineOverrides{Coalescing: boolPtr(true)}
	s.Steps[2].Expect.UndoCount = intPtr(1)
	_, err = NewRunner(WithEngineConfig(cfg)).Run(context.Background(), s)
	require.NoError(t, err)
}

func TestRunCollectsChanges(t *testing.T) {
	s := mustParse(t, `
initial: "abc"
engine: {max_snapshots: 1}
steps:
  - insert: {pos: 3, text: "de"}
  - snapshot: first
  - backspace: 5
  - snapshot: second
`)

	res, err := NewRunner().Run(context.Background(), s)
	require.NoError(t, err)
	require.NotNil(t, res.Changes)
	assert.Equal(t, 2, res.Changes.Len())
	assert.Equal(t, 1, res.Changes.TotalDelta())
	assert.Equal(t, "1 insert(s), 1 erase(s) since v1, net +1", res.Changes.Summary())
	assert.Len(t, res.Engine.ListSnapshots(), 1)
}

func TestRunStepHandler(t *testing.T) {
	s := mustParse(t, `
steps:
  - insert: {pos: 0, text: "a"}
  - sleep: 1s
  - insert: {pos: 1, text: "b"}
`)

	var seen []string
	r := NewRunner(WithStepHandler(func(index int, step Step, eng *engine.Engine) {
		seen = append(seen, step.Action()+":"+eng.Text())
	}))

	res, err := r.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"insert:a", "sleep:a", "insert:ab"}, seen)
	assert.Equal(t, time.Second, res.Elapsed)
	assert.Equal(t, 2, res.Engine.UndoCount())
}

func TestRunCancelled(t *testing.T) {
	s := mustParse(t, `
steps:
  - insert: {pos: 0, text: "a"}
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner().Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Steps)
}

func TestRunValidates(t *testing.T) {
	s := &Script{Steps: []Step{{}}}
	_, err := NewRunner().Run(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidScript)
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
