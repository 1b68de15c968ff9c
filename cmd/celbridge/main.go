package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loomui/celbridge/bridge"
)

// set at build time
var Version = "0.1.0-dev"

var (
	flagConfig   string
	flagLogLevel string

	cfg    *Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "celbridge",
	Short: "Drive WASM-backed custom-element implementations",
	Long: `celbridge loads a component implementation compiled to WebAssembly and
drives it through the custom-element lifecycle: scripted scenarios,
contract inspection, or an interactive session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig(flagConfig)
		if err != nil {
			return err
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}

		logger, err = newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		bridge.SetLogger(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print celbridge version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("v" + Version)
	},
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", level, err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to celbridge.toml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override configured log level")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
