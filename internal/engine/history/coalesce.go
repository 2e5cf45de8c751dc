package history

// tryCoalesce merges edit into the top of the done stack when both are the
// same kind, adjacent, and within the recency window.
func (l *Log) tryCoalesce(edit Edit) bool {
	if !l.coalesce || l.sealed || len(l.done) == 0 {
		return false
	}

	last := &l.done[len(l.done)-1]
	if last.Kind != edit.Kind {
		return false
	}
	if gap := edit.Time.Sub(last.Time); gap < 0 || gap >= l.window {
		return false
	}

	switch edit.Kind {
	case Insert:
		if edit.Pos != last.End() {
			return false
		}
		last.Text += edit.Text
	case Erase:
		switch {
		case edit.End() == last.Pos:
			// Backspace: the new span sits just before the previous one.
			last.Pos = edit.Pos
			last.Text = edit.Text + last.Text
		case l.forwardErase && edit.Pos == last.Pos:
			// Delete key: the text after the caret keeps sliding in.
			last.Text += edit.Text
		default:
			return false
		}
	default:
		return false
	}

	last.CaretAfter = edit.CaretAfter
	last.Time = edit.Time
	return true
}
