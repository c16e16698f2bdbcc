package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ropewalk/internal/logging"
	"ropewalk/internal/render"
	"ropewalk/internal/simulate"
)

var (
	renderKnots int
	renderMode  string
	renderColor bool
)

// renderCmd draws the tail trail or the final rope
var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Draw the tail's visited cells or the final rope as a grid",
	Long: `Simulates one input on a single rope and draws the result.

Modes:
  - visited: every cell the tail visited as '#', the start as 's'
  - rope:    the final knot positions (H, 1..9, T)

Example:
  ropewalk render --knots 10 --mode rope input.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVarP(&renderKnots, "knots", "k", 2, "Knot count")
	renderCmd.Flags().StringVarP(&renderMode, "mode", "m", "visited", "What to draw: visited or rope")
	renderCmd.Flags().BoolVar(&renderColor, "color", false, "Colour the grid (default from config)")
}

// runRender simulates one input and prints a grid
func runRender(cmd *cobra.Command, args []string) error {
	opts, err := simulationOptions()
	if err != nil {
		return err
	}
	opts.Knots = []int{renderKnots}

	runner, err := simulate.NewRunner(opts, currentLogger())
	if err != nil {
		return err
	}

	source, in := "stdin", io.Reader(cmd.InOrStdin())
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input %s: %w", args[0], err)
		}
		defer f.Close()
		source, in = args[0], f
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := runner.Run(ctx, source, in)
	if err != nil {
		return err
	}
	res := results[0]

	var grid, title string
	switch renderMode {
	case "visited":
		grid = render.Visited(res.Visited)
		title = fmt.Sprintf("%s: %d knots, tail visited %d cells", source, res.Knots, res.TailVisits)
	case "rope":
		grid = render.Knots(res.Final)
		title = fmt.Sprintf("%s: %d knots after %d steps", source, res.Knots, res.Steps)
	default:
		return fmt.Errorf("unknown render mode %q (valid: visited, rope)", renderMode)
	}

	c := currentConfig()
	styler := render.NewStyler(renderColor || c.Render.Color, c.Render.VisitedColor, c.Render.KnotColor)
	logging.For(currentLogger(), logging.CategoryRender).Debug("Rendering grid")

	fmt.Fprintln(cmd.OutOrStdout(), styler.Frame(title, styler.Style(grid)))
	return nil
}
