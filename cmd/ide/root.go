package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Wiktoryk/IDE/internal/config"
	"github.com/Wiktoryk/IDE/internal/config/watcher"
	"github.com/Wiktoryk/IDE/internal/logging"
)

// cli holds the global flags and the state set up before every command.
type cli struct {
	configPath string
	logLevel   string
	logFile    string
	watch      bool

	mu  sync.Mutex
	cfg *config.Config
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "ide",
		Short: "Gap buffer text engine tools",
		Long: `ide exercises the text engine outside an editor.

  ide replay <script.yaml>...   Replay YAML edit scripts and check their expectations
  ide lua <script.lua>          Run a Lua script against a buffer
  ide stats <file>...           Load files and report buffer statistics
  ide config                    Print the effective configuration

Settings come from --config (TOML or YAML), then IDE_* environment
variables, then flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}

	// Global flags
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file path (.toml, .yaml or .yml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	root.PersistentFlags().BoolVarP(&c.watch, "watch", "w", false, "keep running and rerun when inputs or the config file change")

	root.AddCommand(
		newReplayCmd(c),
		newLuaCmd(c),
		newStatsCmd(c),
		newConfigCmd(c),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and creates the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	if c.logLevel != "" && !logging.ValidLevel(c.logLevel) {
		return fmt.Errorf("invalid --log-level %q", c.logLevel)
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.cfg = cfg
	c.log = logging.New(cfg.Logging, cmd.ErrOrStderr())
	c.mu.Unlock()

	c.log.Debug("configuration loaded", "path", c.configPath, "command", cmd.Name())
	return nil
}

func (c *cli) load() (*config.Config, error) {
	var opts []config.LoadOption
	if c.configPath != "" {
		opts = append(opts, config.WithPath(c.configPath), config.WithRequired())
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	c.applyFlags(cfg)
	return cfg, nil
}

// applyFlags lets explicit flags win over file and environment settings.
func (c *cli) applyFlags(cfg *config.Config) {
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if c.logFile != "" {
		cfg.Logging.File = c.logFile
	}
}

func (c *cli) teardown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.log == nil {
		return nil
	}
	err := c.log.Close()
	c.log = nil
	return err
}

// config returns the current configuration, which a watched file may
// replace while a command runs.
func (c *cli) config() *config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *cli) logger() *logging.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log
}

// loop runs fn once and, with --watch, again whenever one of files or the
// config file changes, until ctx is done. Without --watch the error from
// the single run is returned.
func (c *cli) loop(ctx context.Context, files []string, fn func(cfg *config.Config) error) error {
	if !c.watch {
		return fn(c.config())
	}

	log := c.logger()
	rerun := make(chan struct{}, 1)
	trigger := func() {
		select {
		case rerun <- struct{}{}:
		default:
		}
	}

	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer w.Close()
	for _, f := range files {
		if err := w.Watch(f); err != nil {
			return fmt.Errorf("watching %s: %w", f, err)
		}
	}
	w.OnChange(func(ev watcher.Event) {
		log.Info("input changed", "path", ev.Path, "op", ev.Op.String())
		trigger()
	})
	if err := w.Start(ctx); err != nil {
		return err
	}

	if c.configPath != "" {
		cw, err := config.Watch(ctx, c.configPath, func(cfg *config.Config, err error) {
			if err != nil {
				log.Warn("config reload failed", "error", err)
				return
			}
			c.applyFlags(cfg)
			c.mu.Lock()
			c.cfg = cfg
			c.mu.Unlock()
			log.SetLevel(logging.ParseLogLevel(cfg.Logging.Level))
			log.Info("config reloaded", "path", c.configPath)
			trigger()
		})
		if err != nil {
			return err
		}
		defer cw.Close()
	}

	trigger()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rerun:
			if err := fn(c.config()); err != nil {
				log.Error("run failed", "error", err)
			}
		}
	}
}
