package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Wiktoryk/IDE/internal/config"
	"github.com/Wiktoryk/IDE/internal/engine"
	"github.com/Wiktoryk/IDE/internal/script"
)

// newReplayCmd creates the replay subcommand.
func newReplayCmd(c *cli) *cobra.Command {
	var showDiffs, verbose bool

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>...",
		Short: "Replay YAML edit scripts",
		Long: `Replay one or more YAML edit scripts against a fresh engine each and
check their expect steps. Sleeps advance a virtual clock, so runs are
repeatable.

Examples:
  ide replay testdata/*.yaml
  ide replay --diff --verbose typing.yaml
  ide replay --watch --config ide.toml typing.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return c.loop(cmd.Context(), args, func(cfg *config.Config) error {
				failed := 0
				for _, path := range args {
					if !replayFile(cmd, c, cfg, path, out, showDiffs, verbose) {
						failed++
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d scripts failed", failed, len(args))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showDiffs, "diff", false, "print the output of diff steps")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every step as it runs")
	return cmd
}

// replayFile runs one script and reports PASS or FAIL.
func replayFile(cmd *cobra.Command, c *cli, cfg *config.Config, path string, out io.Writer, showDiffs, verbose bool) bool {
	s, err := script.Load(path)
	if err != nil {
		fmt.Fprintf(out, "%s  %s\n", failFormat("FAIL"), err)
		return false
	}

	opts := []script.RunnerOption{
		script.WithEngineConfig(cfg.Engine),
		script.WithLogger(c.logger().WithComponent("script")),
	}
	if verbose {
		opts = append(opts, script.WithStepHandler(func(index int, step script.Step, eng *engine.Engine) {
			fmt.Fprintf(out, "  %s %-10s v%-4d %q\n",
				mutedFormat(fmt.Sprintf("%3d", index)), step.Action(), eng.Version(), eng.Text())
		}))
	}

	res, err := script.NewRunner(opts...).Run(cmd.Context(), s)
	if err != nil {
		fmt.Fprintf(out, "%s  %s: %s\n", failFormat("FAIL"), s.Name, err)
		return false
	}

	fmt.Fprintf(out, "%s  %s %s\n", passFormat("PASS"), s.Name,
		mutedFormat(fmt.Sprintf("(%d steps, %s virtual)", res.Steps, res.Elapsed)))
	if verbose {
		fmt.Fprintf(out, "  changes: %s\n", res.Changes.Summary())
	}

	if showDiffs {
		for _, d := range res.Diffs {
			if !d.Result.HasChanges() {
				fmt.Fprintf(out, "  no changes since %s\n", d.Snapshot)
				continue
			}
			fmt.Fprintf(out, "  diff since %s (%s)\n", d.Snapshot, d.Result.Summary())
			writeDiff(out, d.Result.Unified)
		}
	}
	return true
}
