package simulate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ropewalk/internal/motion"
	"ropewalk/internal/rope"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const smallSample = `R 4
U 4
L 3
D 1
R 4
D 1
L 5
R 2
`

const largeSample = `R 5
U 8
L 8
D 3
R 17
D 10
L 25
U 20
`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCountTailVisits(t *testing.T) {
	tests := []struct {
		name  string
		input string
		knots int
		want  int
	}{
		{"short rope", smallSample, 2, 13},
		{"long rope", smallSample, 10, 1},
		{"long rope large sample", largeSample, 10, 36},
		{"right then up", "R 4\nU 4\n", 2, 7},
		{"empty input", "", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountTailVisits(tt.input, tt.knots)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountTailVisits_Errors(t *testing.T) {
	_, err := CountTailVisits(smallSample, 1)
	assert.ErrorIs(t, err, rope.ErrTooShort)

	_, err = CountTailVisits("R 4\nsideways 2\n", 2)
	assert.ErrorIs(t, err, motion.ErrUnknownDirection)
	assert.Contains(t, err.Error(), "sideways 2")
}

func TestRun_OneResultPerKnotCount(t *testing.T) {
	rn, err := NewRunner(Options{Knots: []int{2, 10}}, nil)
	require.NoError(t, err)

	results, err := rn.Run(context.Background(), "sample", strings.NewReader(smallSample))
	require.NoError(t, err)
	require.Len(t, results, 2)

	short, long := results[0], results[1]
	assert.Equal(t, 2, short.Knots)
	assert.Equal(t, 13, short.TailVisits)
	assert.Equal(t, 8, short.Motions)
	assert.Equal(t, 24, short.Steps)
	assert.Equal(t, rope.Position{Row: -2, Col: 2}, short.Head)
	assert.Equal(t, rope.Position{Row: -2, Col: 1}, short.Tail)
	assert.Equal(t, 13, short.Visited.Len())

	assert.Equal(t, 10, long.Knots)
	assert.Equal(t, 1, long.TailVisits)
	assert.Len(t, long.Final, 10)

	assert.NotEqual(t, short.RunID, long.RunID)
	assert.Equal(t, "sample", short.Source)
}

func TestRun_SkipPolicy(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rn, err := NewRunner(Options{Knots: []int{2}, Policy: motion.PolicySkip}, zap.New(core))
	require.NoError(t, err)

	results, err := rn.Run(context.Background(), "noisy", strings.NewReader("R 4\n?? 1\nU 4\n"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 7, results[0].TailVisits)
	require.Len(t, results[0].Skipped, 1)
	assert.Contains(t, results[0].Skipped[0], "line 2")

	entries := logs.FilterMessage("Skipping malformed motion").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "parse", entries[0].LoggerName)
}

func TestRun_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rn, err := NewRunner(Options{Knots: []int{2}, Trace: true}, zap.New(core))
	require.NoError(t, err)

	_, err = rn.Run(context.Background(), "trace", strings.NewReader("R 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, logs.FilterMessage("Step").Len())
	assert.Equal(t, 1, logs.FilterMessage("Simulation complete").Len())
}

func TestRun_Cancelled(t *testing.T) {
	rn, err := NewRunner(Options{Knots: []int{2}}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = rn.Run(ctx, "sample", strings.NewReader(smallSample))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunner_Validation(t *testing.T) {
	_, err := NewRunner(Options{}, nil)
	assert.Error(t, err)

	_, err = NewRunner(Options{Knots: []int{10, 0}}, nil)
	assert.ErrorIs(t, err, rope.ErrTooShort)
}

func TestRunFiles_KeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeInput(t, dir, "large.txt", largeSample),
		writeInput(t, dir, "small.txt", smallSample),
		writeInput(t, dir, "short.txt", "R 4\nU 4\n"),
	}

	rn, err := NewRunner(Options{Knots: []int{2, 10}, Parallelism: 2}, nil)
	require.NoError(t, err)

	results, err := rn.RunFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, 6)

	var got []string
	for _, r := range results {
		got = append(got, filepath.Base(r.Source))
	}
	assert.Equal(t, []string{"large.txt", "large.txt", "small.txt", "small.txt", "short.txt", "short.txt"}, got)

	assert.Equal(t, 36, results[1].TailVisits)
	assert.Equal(t, 13, results[2].TailVisits)
	assert.Equal(t, 1, results[3].TailVisits)
	assert.Equal(t, 7, results[4].TailVisits)
}

func TestRunFiles_FailsOnBadInput(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeInput(t, dir, "good.txt", smallSample),
		writeInput(t, dir, "bad.txt", "R 4\nU four\n"),
	}

	rn, err := NewRunner(Options{Knots: []int{2}, Parallelism: 4}, nil)
	require.NoError(t, err)

	_, err = rn.RunFiles(context.Background(), paths)
	require.Error(t, err)

	var perr *motion.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, err.Error(), "bad.txt")
}

func TestRunFiles_MissingFile(t *testing.T) {
	rn, err := NewRunner(Options{Knots: []int{2}}, nil)
	require.NoError(t, err)

	_, err = rn.RunFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
