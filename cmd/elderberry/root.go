package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blockberries/elderberry/config"
)

// app holds state shared by every subcommand.
type app struct {
	out    io.Writer
	rng    io.Reader
	cfg    *config.Config
	logger *zap.Logger

	configPath string
	logLevel   string
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, rng: rand.Reader, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "elderberry",
		Short:         "Contract state commitment tool",
		Long:          "Derive attachment ids, conceal state, commit to values, inspect validation scripts and issue assets.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(a.attachCmd())
	rootCmd.AddCommand(a.valueCmd())
	rootCmd.AddCommand(a.scriptCmd())
	rootCmd.AddCommand(a.entryPointCmd())
	rootCmd.AddCommand(a.configCmd())
	rootCmd.AddCommand(a.niaCmd())
	return rootCmd
}

func (a *app) setup() error {
	cfg := config.NewDefaultConfig()
	if a.configPath != "" {
		var err error
		if cfg, err = config.ReadFile(a.configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func readFileArg(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
