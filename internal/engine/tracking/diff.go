package tracking

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/Wiktoryk/IDE/internal/engine/buffer"
)

// DefaultContextLines is the number of unchanged lines shown around a hunk.
const DefaultContextLines = 3

// DiffOptions configures diff computation.
type DiffOptions struct {
	// ContextLines is the number of unchanged lines to include
	// around each change. Negative means DefaultContextLines.
	ContextLines int

	// FromName and ToName label the two sides in the unified header.
	FromName string
	ToName   string
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		ContextLines: DefaultContextLines,
		FromName:     "before",
		ToName:       "after",
	}
}

// DiffResult is a line-level comparison of two snapshots.
type DiffResult struct {
	// Unified is the diff in unified format; empty when nothing changed.
	Unified string

	// InsertedLines and DeletedLines count changed lines on each side.
	InsertedLines int
	DeletedLines  int
}

// HasChanges returns true if the two sides differ.
func (dr DiffResult) HasChanges() bool {
	return dr.InsertedLines > 0 || dr.DeletedLines > 0
}

// Summary returns a short "+N -M" description.
func (dr DiffResult) Summary() string {
	return fmt.Sprintf("+%d -%d", dr.InsertedLines, dr.DeletedLines)
}

// ComputeDiff compares two snapshots line by line.
func ComputeDiff(from, to *buffer.Snapshot, opts DiffOptions) (DiffResult, error) {
	return ComputeDiffStrings(from.Text(), to.Text(), opts)
}

// ComputeDiffStrings compares two texts line by line.
func ComputeDiffStrings(from, to string, opts DiffOptions) (DiffResult, error) {
	if opts.ContextLines < 0 {
		opts.ContextLines = DefaultContextLines
	}

	a := splitLines(from)
	b := splitLines(to)

	var result DiffResult
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'r':
			result.DeletedLines += op.I2 - op.I1
			result.InsertedLines += op.J2 - op.J1
		case 'd':
			result.DeletedLines += op.I2 - op.I1
		case 'i':
			result.InsertedLines += op.J2 - op.J1
		}
	}
	if !result.HasChanges() {
		return result, nil
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: opts.FromName,
		ToFile:   opts.ToName,
		Context:  opts.ContextLines,
	})
	if err != nil {
		return DiffResult{}, fmt.Errorf("unified diff: %w", err)
	}
	result.Unified = unified
	return result, nil
}

// splitLines splits text into newline-terminated lines. An empty text has
// no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return difflib.SplitLines(text)
}
