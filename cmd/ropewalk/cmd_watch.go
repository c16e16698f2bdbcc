package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ropewalk/internal/simulate"
	"ropewalk/internal/watch"
)

// watchCmd re-simulates inputs whenever they change
var watchCmd = &cobra.Command{
	Use:   "watch [file...]",
	Short: "Re-run simulate whenever an input file changes",
	Long: `Simulates every file once, then again each time one of them is saved.
Uses the same flags as simulate. Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	bindSimulateFlags(watchCmd)
}

// runWatch blocks until interrupted
func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := simulationOptions()
	if err != nil {
		return err
	}
	runner, err := simulate.NewRunner(opts, currentLogger())
	if err != nil {
		return err
	}

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(baseCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	resimulate := func(ctx context.Context, path string) {
		results, err := runner.RunFiles(ctx, []string{path})
		if err != nil {
			// Keep watching: the next save may fix the input.
			fmt.Fprintf(errOut, "error: %v\n", err)
			return
		}
		if err := printResults(out, errOut, results, simJSON); err != nil {
			currentLogger().Warn("Failed to print results", zap.Error(err))
		}
	}

	for _, path := range args {
		resimulate(ctx, path)
	}

	w, err := watch.New(args, currentConfig().GetWatchDebounce(), resimulate, currentLogger())
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	<-w.Done()
	return nil
}
