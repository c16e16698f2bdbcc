// Package simulate runs motion inputs through independent ropes and collects
// the tail statistics of every run.
package simulate

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ropewalk/internal/logging"
	"ropewalk/internal/motion"
	"ropewalk/internal/rope"
)

// Options configures a Runner.
type Options struct {
	// Knot counts to simulate; every input is replayed once per entry.
	Knots []int
	// Policy applied to malformed input lines.
	Policy motion.Policy
	// Parallelism bounds how many files RunFiles simulates at once.
	Parallelism int
	// Trace logs every unit step at debug level.
	Trace bool
}

// Result summarises one run: one input replayed on one fresh rope.
type Result struct {
	RunID      string           `json:"run_id"`
	Source     string           `json:"source"`
	Knots      int              `json:"knots"`
	Motions    int              `json:"motions"`
	Steps      int              `json:"steps"`
	TailVisits int              `json:"tail_visits"`
	Head       rope.Position    `json:"head"`
	Tail       rope.Position    `json:"tail"`
	Final      []rope.Position  `json:"final"`
	Skipped    []string         `json:"skipped,omitempty"`
	Visited    rope.PositionSet `json:"-"`
}

// Runner parses inputs and replays them on ropes.
type Runner struct {
	opts   Options
	root   *zap.Logger
	logger *zap.Logger
}

// NewRunner validates opts and returns a Runner.
func NewRunner(opts Options, logger *zap.Logger) (*Runner, error) {
	if len(opts.Knots) == 0 {
		return nil, fmt.Errorf("no knot counts given")
	}
	for _, n := range opts.Knots {
		if n < rope.MinKnots {
			return nil, fmt.Errorf("invalid knot count: %w: got %d", rope.ErrTooShort, n)
		}
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	return &Runner{
		opts:   opts,
		root:   logger,
		logger: logging.For(logger, logging.CategorySimulate),
	}, nil
}

// Run parses r once and replays the motions on a fresh rope per knot count.
// Results follow the order of Options.Knots.
func (rn *Runner) Run(ctx context.Context, source string, r io.Reader) ([]*Result, error) {
	parser := motion.NewParser(rn.opts.Policy, logging.For(rn.root, logging.CategoryParse).With(zap.String("source", source)))
	motions, err := parser.ParseAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	var skipped []string
	for _, perr := range parser.Skipped() {
		skipped = append(skipped, perr.Error())
	}

	results := make([]*Result, 0, len(rn.opts.Knots))
	for _, n := range rn.opts.Knots {
		res, err := rn.replay(ctx, source, n, motions)
		if err != nil {
			return nil, err
		}
		res.Skipped = skipped
		results = append(results, res)
	}
	return results, nil
}

func (rn *Runner) replay(ctx context.Context, source string, knots int, motions []motion.Motion) (*Result, error) {
	runID := uuid.NewString()
	logger := rn.logger.With(
		zap.String("run_id", runID),
		zap.String("source", source),
		zap.Int("knots", knots))

	var opts []rope.Option
	if rn.opts.Trace {
		opts = append(opts, rope.WithObserver(func(step int, ks []rope.Position) {
			logger.Debug("Step",
				zap.Int("step", step),
				zap.Stringer("head", ks[0]),
				zap.Stringer("tail", ks[len(ks)-1]))
		}))
	}

	rp, err := rope.New(knots, opts...)
	if err != nil {
		return nil, err
	}

	for _, m := range motions {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		rp.Apply(m)
	}

	res := &Result{
		RunID:      runID,
		Source:     source,
		Knots:      knots,
		Motions:    len(motions),
		Steps:      rp.Steps(),
		TailVisits: rp.TailVisitCount(),
		Head:       rp.Head(),
		Tail:       rp.Tail(),
		Final:      rp.Knots(),
		Visited:    rp.Visited(),
	}
	logger.Info("Simulation complete",
		zap.Int("motions", res.Motions),
		zap.Int("steps", res.Steps),
		zap.Int("tail_visits", res.TailVisits))
	return res, nil
}

// RunFiles simulates every file concurrently, bounded by Options.Parallelism.
// Results are grouped per file in the order of paths. The first failure
// cancels the remaining runs.
func (rn *Runner) RunFiles(ctx context.Context, paths []string) ([]*Result, error) {
	perFile := make([][]*Result, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(rn.opts.Parallelism)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			results, err := rn.runFile(egCtx, path)
			if err != nil {
				return err
			}
			perFile[i] = results
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []*Result
	for _, results := range perFile {
		all = append(all, results...)
	}
	return all, nil
}

func (rn *Runner) runFile(ctx context.Context, path string) ([]*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer f.Close()
	return rn.Run(ctx, path, f)
}

// CountTailVisits replays input on a single rope of the given length and
// returns the number of distinct cells its tail visited.
func CountTailVisits(input string, knots int) (int, error) {
	rn, err := NewRunner(Options{Knots: []int{knots}}, nil)
	if err != nil {
		return 0, err
	}
	results, err := rn.Run(context.Background(), "input", strings.NewReader(input))
	if err != nil {
		return 0, err
	}
	return results[0].TailVisits, nil
}
