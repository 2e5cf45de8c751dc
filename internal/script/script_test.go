package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wiktoryk/IDE/internal/config"
)

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
name: sample
initial: "abc"
engine:
  coalesce_window: 250ms
  forward_erase_coalescing: true
steps:
  - insert: {pos: 3, text: "d"}
  - erase: {pos: 0, n: 1}
  - sleep: 1s
  - undo: 2
  - break: true
  - snapshot: base
  - expect: {text: "abcd", lines: 1}
  - backspace: 1
    fails: out of range
`))
	require.NoError(t, err)

	assert.Equal(t, "sample", s.Name)
	assert.Equal(t, "abc", s.Initial)
	require.Len(t, s.Steps, 8)

	assert.Equal(t, &InsertStep{Pos: 3, Text: "d"}, s.Steps[0].Insert)
	assert.Equal(t, &EraseStep{Pos: 0, N: 1}, s.Steps[1].Erase)
	assert.Equal(t, time.Second, s.Steps[2].Sleep.Duration)
	assert.Equal(t, 2, *s.Steps[3].Undo)
	assert.True(t, s.Steps[4].Break)
	assert.Equal(t, "base", s.Steps[5].Snapshot)
	assert.Equal(t, "abcd", *s.Steps[6].Expect.Text)
	assert.Equal(t, "out of range", s.Steps[7].Fails)

	actions := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		actions[i] = step.Action()
	}
	assert.Equal(t, []string{"insert", "erase", "sleep", "undo", "break", "snapshot", "expect", "backspace"}, actions)
	assert.Equal(t, time.Second, s.TotalSleep())

	cfg := s.Engine.Apply(config.Default().Engine)
	assert.Equal(t, 250*time.Millisecond, cfg.CoalesceWindow.Duration)
	assert.True(t, cfg.ForwardEraseCoalescing)
	assert.True(t, cfg.Coalescing)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty document", ``},
		{"unknown key", "steps:\n  - typo: 1\n"},
		{"no action", "steps:\n  - fails: boom\n"},
		{"two actions", "steps:\n  - insert: {pos: 0, text: a}\n    undo: 1\n"},
		{"zero repeat", "steps:\n  - undo: 0\n"},
		{"negative sleep", "steps:\n  - sleep: -1s\n"},
		{"bad duration", "steps:\n  - sleep: soon\n"},
		{"failing expect", "steps:\n  - expect: {text: a}\n    fails: x\n"},
		{"not yaml", "steps: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidScript)
		})
	}
}

func TestApplyNilOverrides(t *testing.T) {
	var o *EngineOverrides
	cfg := config.Default().Engine
	assert.Equal(t, cfg, o.Apply(cfg))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - insert: {pos: 0, text: x}\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("steps:\n  - {}\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalidScript)
	assert.Contains(t, err.Error(), bad)
}
