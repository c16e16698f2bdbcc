package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ropewalk/internal/config"
	"ropewalk/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ropewalk",
	Short: "ropewalk - rope knot simulator",
	Long: `ropewalk drags a rope of knots across a grid following a list of
head motions ("U 4", "R 2", ...) and counts the distinct cells the tail visits.

Each knot follows its predecessor: when they stop touching, the knot steps one
cell toward it on every axis where they differ.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			File:    cfg.Logging.File,
			Verbose: verbose,
		})
		if err != nil {
			return err
		}
		logging.For(logger, logging.CategoryBoot).Debug("Configuration loaded",
			zap.String("path", configPath),
			zap.Ints("knots", cfg.Simulation.Knots),
			zap.String("parse_policy", cfg.Simulation.ParsePolicy))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file (YAML)")

	// Add commands to root
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// currentConfig returns the loaded config, or defaults when a command runs
// without the root pre-run (tests).
func currentConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

func currentLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
