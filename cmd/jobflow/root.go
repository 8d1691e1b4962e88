package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jobflow"
	"github.com/aretw0/jobflow/internal/cli"
	"github.com/aretw0/jobflow/internal/config"
	"github.com/aretw0/jobflow/internal/logging"
	"github.com/aretw0/jobflow/internal/presentation/tui"
)

var (
	configPath string
	debug      bool
	plain      bool
)

var rootCmd = &cobra.Command{
	Use:   "jobflow",
	Short: "Interactive build automation for Jenkins-style servers",
	Long: `jobflow walks you through picking a job, a branch and build parameters,
triggers the build and lets you watch, inspect or cancel it.

Run without a subcommand to browse the server's jobs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *cli.Session, sc *cli.SignalContext) error {
			return s.Browse(sc)
		})
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return cli.Exit(os.Stderr, rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", fmt.Sprintf("config file (default %s)", config.DefaultPath()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log flow transitions and HTTP calls to stderr")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "use line-based prompts even on a terminal")
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		cfg.Debug = true
	}
	logger := logging.New(logging.Level(cfg.Debug, cfg.Log.Level))
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}
	return cfg, logger, nil
}

// withSession opens an interactive session for the duration of fn.
func withSession(cmd *cobra.Command, fn func(s *cli.Session, sc *cli.SignalContext) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	sc := cli.NewSignalContext(cmd.Context())
	defer sc.Cancel()

	session, closer, err := cli.Open(sc, cfg, logger, cli.Options{Plain: plain})
	if err != nil {
		return err
	}
	defer func() {
		if err := closer(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}()

	if !plain && cli.IsInteractive(os.Stdin, os.Stdout) {
		tui.PrintBanner(os.Stdout, jobflow.Version)
	}

	err = fn(session, sc)
	if sig := sc.Signal(); sig != nil {
		logger.Debug("session interrupted", "signal", sig.String())
	}
	return err
}
