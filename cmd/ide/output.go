package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	passFormat   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failFormat   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	mutedFormat  = color.New(color.FgHiBlack).SprintFunc()
	boldFormat   = color.New(color.FgHiWhite).SprintFunc()
	addFormat    = color.New(color.FgGreen).SprintFunc()
	deleteFormat = color.New(color.FgRed).SprintFunc()
	hunkFormat   = color.New(color.FgCyan).SprintFunc()
)

// writeDiff prints a unified diff with added lines green, removed lines
// red and hunk headers cyan.
func writeDiff(w io.Writer, unified string) {
	for _, line := range strings.SplitAfter(unified, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			text = boldFormat(text)
		case strings.HasPrefix(text, "@@"):
			text = hunkFormat(text)
		case strings.HasPrefix(text, "+"):
			text = addFormat(text)
		case strings.HasPrefix(text, "-"):
			text = deleteFormat(text)
		}
		fmt.Fprintln(w, text)
	}
}
