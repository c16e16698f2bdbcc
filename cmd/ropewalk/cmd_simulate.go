package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ropewalk/internal/motion"
	"ropewalk/internal/simulate"
)

var (
	simKnots    []int
	simPolicy   string
	simJSON     bool
	simTrace    bool
	simParallel int
)

// simulateCmd runs motion files through ropes
var simulateCmd = &cobra.Command{
	Use:   "simulate [file...]",
	Short: "Count the cells visited by the rope tail",
	Long: `Replays every input on a fresh rope for each knot count and prints
how many distinct cells the tail visited. Reads stdin when no file (or "-")
is given.

Examples:
  ropewalk simulate input.txt
  ropewalk simulate --knots 2 --knots 10 day9.txt
  cat input.txt | ropewalk simulate --json`,
	RunE: runSimulate,
}

func init() {
	bindSimulateFlags(simulateCmd)
}

// bindSimulateFlags registers the simulation flags on cmd. simulate and watch
// share the same flag variables.
func bindSimulateFlags(cmd *cobra.Command) {
	cmd.Flags().IntSliceVarP(&simKnots, "knots", "k", nil, "Knot counts to simulate (default from config: 2,10)")
	cmd.Flags().StringVar(&simPolicy, "policy", "", "Malformed line policy: abort or skip (default from config)")
	cmd.Flags().BoolVar(&simJSON, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&simTrace, "trace", false, "Log every unit step (needs --verbose)")
	cmd.Flags().IntVar(&simParallel, "parallel", 0, "Files simulated at once (default from config)")
}

// simulationOptions merges command flags over the loaded config.
func simulationOptions() (simulate.Options, error) {
	c := currentConfig()

	knots := c.Simulation.Knots
	if len(simKnots) > 0 {
		knots = simKnots
	}

	policyName := c.Simulation.ParsePolicy
	if simPolicy != "" {
		policyName = simPolicy
	}
	policy, err := motion.ParsePolicy(policyName)
	if err != nil {
		return simulate.Options{}, err
	}

	parallelism := c.Simulation.Parallelism
	if simParallel > 0 {
		parallelism = simParallel
	}

	return simulate.Options{
		Knots:       knots,
		Policy:      policy,
		Parallelism: parallelism,
		Trace:       simTrace,
	}, nil
}

// runSimulate simulates stdin or the given files
func runSimulate(cmd *cobra.Command, args []string) error {
	opts, err := simulationOptions()
	if err != nil {
		return err
	}

	runner, err := simulate.NewRunner(opts, currentLogger())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var results []*simulate.Result
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "-"):
		results, err = runner.Run(ctx, "stdin", cmd.InOrStdin())
	default:
		for _, a := range args {
			if a == "-" {
				return fmt.Errorf("stdin (-) cannot be mixed with files")
			}
		}
		results, err = runner.RunFiles(ctx, args)
	}
	if err != nil {
		return err
	}

	currentLogger().Debug("Simulate finished", zap.Int("runs", len(results)))
	return printResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, simJSON)
}

func printResults(out, errOut io.Writer, results []*simulate.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	}

	warned := make(map[string]bool)
	for _, r := range results {
		fmt.Fprintf(out, "%s knots=%d tail_visits=%d\n", r.Source, r.Knots, r.TailVisits)
		if len(r.Skipped) > 0 && !warned[r.Source] {
			warned[r.Source] = true
			fmt.Fprintf(errOut, "warning: %s: skipped %d malformed line(s)\n", r.Source, len(r.Skipped))
			for _, s := range r.Skipped {
				fmt.Fprintf(errOut, "  %s\n", s)
			}
		}
	}
	return nil
}
