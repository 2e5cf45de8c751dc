package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Wiktoryk/IDE/internal/config"
	"github.com/Wiktoryk/IDE/internal/engine"
	"github.com/Wiktoryk/IDE/internal/plugin/lua"
)

// newLuaCmd creates the lua subcommand.
func newLuaCmd(c *cli) *cobra.Command {
	var (
		inputFile  string
		outputFile string
		printText  bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "lua <script.lua>",
		Short: "Run a Lua script against a buffer",
		Long: `Run a Lua script in a sandbox with the ide.buf module bound to a fresh
buffer. The buffer starts empty, or with the contents of --file.

Examples:
  ide lua --file notes.txt --print upcase.lua
  ide lua --file notes.txt --output notes.new upcase.lua`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptPath := args[0]
			watched := []string{scriptPath}
			if inputFile != "" {
				watched = append(watched, inputFile)
			}

			return c.loop(cmd.Context(), watched, func(cfg *config.Config) error {
				var content string
				if inputFile != "" {
					data, err := os.ReadFile(inputFile)
					if err != nil {
						return err
					}
					content = string(data)
				}

				log := c.logger()
				eng := engine.NewFromConfig(cfg.Engine,
					engine.WithContent(content),
					engine.WithLogger(log.WithComponent("engine")),
				)

				state, err := lua.NewState(
					lua.WithExecutionTimeout(timeout),
					lua.WithOutput(cmd.OutOrStdout()),
					lua.WithLogger(log.WithComponent("lua")),
				)
				if err != nil {
					return err
				}
				defer state.Close()

				if err := lua.NewBufferModule(eng).Register(state); err != nil {
					return err
				}
				if err := state.DoFile(cmd.Context(), scriptPath); err != nil {
					return fmt.Errorf("%s: %w", scriptPath, err)
				}

				if outputFile != "" {
					if err := os.WriteFile(outputFile, []byte(eng.Text()), 0o644); err != nil {
						return err
					}
				}
				if printText {
					fmt.Fprint(cmd.OutOrStdout(), eng.Text())
				}

				st := eng.Stats()
				log.Info("lua script finished",
					"script", scriptPath,
					"size", st.Size,
					"lines", st.Lines,
					"version", st.Version,
					"undo", st.Undo)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "load the buffer from this file")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the final buffer to this file")
	cmd.Flags().BoolVarP(&printText, "print", "p", false, "print the final buffer")
	cmd.Flags().DurationVar(&timeout, "timeout", lua.DefaultExecutionTimeout, "abort the script after this long (0 disables)")
	return cmd
}
