package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/moore/internal/cli"
	"github.com/aretw0/moore/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg    = config.NewDefaultConfig()
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "moore",
	Short: "moore edits and runs Moore machines",
	Long: `moore builds a Moore machine from a definition file (or the built-in demo) and processes
input words in batch or one symbol at a time. Settings come from MOORE_* environment variables
and can be overridden with flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.LoadFromEnv(); err != nil {
			return err
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}
		l, err := cli.CreateLogger(cfg)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Commands receive a context cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx := cli.NewSignalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	ctx.Cancel()
	if err != nil {
		var shown reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// reportedError marks an error the command already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// applyFlags copies explicitly set flags over the environment.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	if flags.Changed("store-dir") {
		cfg.StoreDir, _ = flags.GetString("store-dir")
	}
	if flags.Changed("redis-addr") {
		cfg.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("definition") {
		cfg.Definition, _ = flags.GetString("definition")
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.StringP("definition", "f", "", "YAML or JSON automaton definition (default: built-in demo)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("store", config.StoreMemory, "Snapshot store: memory, file, redis")
	pf.String("store-dir", config.DefaultStoreDir, "Directory of the file snapshot store")
	pf.String("redis-addr", config.DefaultRedisEndpoint, "Address of the redis snapshot store")
}
