package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/remap"
	"github.com/aretw0/remap/internal/cli"
	"github.com/aretw0/remap/internal/config"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "remap",
	Short: "remap pushes integer ranges through a chain of remapping stages",
	Long: `remap reads a pipeline of stages (an almanac file, a YAML/JSON pipeline document,
a directory of stage documents or a Redis keyspace) and maps seed integers or
seed ranges through it to find the lowest value of the terminal domain.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupts cancel the command context so servers can shut down gracefully.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", config.DefaultPath, "Path to the configuration file")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("trace", false, "Log every stage transition and split")
	flags.String("start", "", "Stage evaluation begins at (default \"seed\")")
	flags.String("terminal", "", "Domain evaluation stops at (default \"location\")")
	flags.String("mode", "", "How seeds are read: 'points' or 'pairs'")
	flags.Int("workers", 0, "Seed ranges evaluated concurrently")
	flags.String("redis", "", "Read stages from this Redis address instead of a path")
}

// loadOptions merges the config file, the environment and the flags that were set.
// The first positional argument, if any, is the source path.
func loadOptions(cmd *cobra.Command, args []string) (cli.Options, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cli.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("trace") {
		cfg.Trace, _ = flags.GetBool("trace")
	}
	if flags.Changed("start") {
		cfg.Start, _ = flags.GetString("start")
	}
	if flags.Changed("terminal") {
		cfg.Terminal, _ = flags.GetString("terminal")
	}
	if flags.Changed("mode") {
		mode, _ := flags.GetString("mode")
		cfg.Mode = domain.SeedMode(mode)
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("redis") {
		cfg.Redis.Addr, _ = flags.GetString("redis")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Options{}, err
	}

	opts := cli.Options{Config: cfg, Logger: cli.CreateLogger(cfg.LogLevel, cfg.Trace)}
	if len(args) > 0 {
		opts.Source = args[0]
	}
	return opts, nil
}

// openEngine builds the engine for a command. The returned close func is never nil.
func openEngine(ctx context.Context, opts cli.Options) (*remap.Engine, func(), error) {
	engine, loaded, err := cli.CreateEngine(ctx, opts)
	if err != nil {
		return nil, func() {}, err
	}
	return engine, func() {
		if err := loaded.Close(); err != nil {
			opts.Logger.Warn("Failed to close source", "err", err)
		}
	}, nil
}

// seedValues returns the --seeds flag when set and the seeds carried by the source otherwise.
func seedValues(cmd *cobra.Command, engine *remap.Engine) ([]int64, error) {
	if cmd.Flags().Changed("seeds") {
		raw, _ := cmd.Flags().GetString("seeds")
		return domain.ParseSeeds(raw)
	}
	values := engine.Seeds()
	if len(values) == 0 {
		return nil, fmt.Errorf("the source carries no seeds, pass them with --seeds")
	}
	return values, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
