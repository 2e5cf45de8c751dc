package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Wiktoryk/IDE/internal/config"
	"github.com/Wiktoryk/IDE/internal/engine"
)

// fileStats is the stats output for one file.
type fileStats struct {
	Path         string `json:"path"`
	Bytes        int    `json:"bytes"`
	Runes        int    `json:"runes"`
	Lines        int    `json:"lines"`
	Capacity     int    `json:"capacity"`
	GapLen       int    `json:"gap"`
	StorageBytes int    `json:"storage_bytes"`
	ValidUTF8    bool   `json:"valid_utf8"`
}

// newStatsCmd creates the stats subcommand.
func newStatsCmd(c *cli) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats <file>...",
		Short: "Load files into buffers and report statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.loop(cmd.Context(), args, func(cfg *config.Config) error {
				all := make([]fileStats, 0, len(args))
				for _, path := range args {
					st, err := collectStats(cfg, path)
					if err != nil {
						return err
					}
					all = append(all, st)
				}

				if jsonOutput {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(all)
				}
				for _, st := range all {
					printStats(cmd.OutOrStdout(), st)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func collectStats(cfg *config.Config, path string) (fileStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileStats{}, err
	}

	eng := engine.NewFromConfig(cfg.Engine, engine.WithContent(string(data)))
	s := eng.Stats()
	return fileStats{
		Path:         path,
		Bytes:        len(data),
		Runes:        s.Size,
		Lines:        s.Lines,
		Capacity:     s.Capacity,
		GapLen:       s.GapLen,
		StorageBytes: s.StorageBytes,
		ValidUTF8:    utf8.Valid(data),
	}, nil
}

func printStats(w io.Writer, st fileStats) {
	fmt.Fprintln(w, boldFormat(st.Path))
	fmt.Fprintf(w, "  Size:      %s runes (%s)\n", humanize.Comma(int64(st.Runes)), humanize.Bytes(uint64(st.Bytes)))
	fmt.Fprintf(w, "  Lines:     %s\n", humanize.Comma(int64(st.Lines)))
	fmt.Fprintf(w, "  Capacity:  %s runes (gap %s)\n", humanize.Comma(int64(st.Capacity)), humanize.Comma(int64(st.GapLen)))
	fmt.Fprintf(w, "  Storage:   %s\n", humanize.Bytes(uint64(st.StorageBytes)))
	if !st.ValidUTF8 {
		fmt.Fprintf(w, "  %s\n", failFormat("invalid UTF-8: undecodable bytes were replaced"))
	}
}
