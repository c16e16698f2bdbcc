package motion

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParse_RoundTrip(t *testing.T) {
	for _, dir := range Directions {
		for _, n := range []int{0, 1, 4, 20, 1 << 30} {
			line := fmt.Sprintf("%s %d", dir, n)
			t.Run(line, func(t *testing.T) {
				m, err := Parse(line)
				require.NoError(t, err)
				assert.Equal(t, dir, m.Direction)
				assert.Equal(t, n, m.Distance)
				assert.Equal(t, line, m.String())
			})
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"", ErrMalformed},
		{"U", ErrMalformed},
		{"U ", ErrMalformed},
		{" 4", ErrMalformed},
		{"U4", ErrMalformed},
		{"X 4", ErrUnknownDirection},
		{"u 4", ErrUnknownDirection},
		{"UP 4", ErrUnknownDirection},
		{"U four", ErrBadDistance},
		{"U -4", ErrBadDistance},
		{"U +4", ErrBadDistance},
		{"U  4", ErrBadDistance},
		{"U 4 ", ErrBadDistance},
		{"U 4 5", ErrBadDistance},
		{"U 4.5", ErrBadDistance},
		{"U 99999999999", ErrBadDistance},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Text)
			assert.Contains(t, err.Error(), fmt.Sprintf("%q", tt.line))
		})
	}
}

func TestDirection_Delta(t *testing.T) {
	tests := []struct {
		dir        Direction
		dRow, dCol int
	}{
		{Up, -1, 0},
		{Down, 1, 0},
		{Left, 0, -1},
		{Right, 0, 1},
		{Direction(42), 0, 0},
	}
	for _, tt := range tests {
		dRow, dCol := tt.dir.Delta()
		assert.Equal(t, tt.dRow, dRow, tt.dir.String())
		assert.Equal(t, tt.dCol, dCol, tt.dir.String())
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("skip")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, p)

	p, err = ParsePolicy(" Abort ")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, p)

	_, err = ParsePolicy("retry")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

const sample = `R 4
U 4
L 3
D 1
R 4
D 1
L 5
R 2
`

func TestParseAll_Sample(t *testing.T) {
	motions, err := ParseString(sample)
	require.NoError(t, err)
	require.Len(t, motions, 8)
	assert.Equal(t, Motion{Direction: Right, Distance: 4}, motions[0])
	assert.Equal(t, Motion{Direction: Down, Distance: 1}, motions[5])
	assert.Equal(t, Motion{Direction: Right, Distance: 2}, motions[7])
}

func TestParseAll_IgnoresBlankLinesAndCRLF(t *testing.T) {
	motions, err := ParseString("R 1\r\n\r\n\nU 2\r\n")
	require.NoError(t, err)
	assert.Equal(t, []Motion{{Right, 1}, {Up, 2}}, motions)
}

func TestParseAll_AbortReportsLine(t *testing.T) {
	p := NewParser(PolicyAbort, nil)
	motions, err := p.ParseAll(strings.NewReader("R 1\nU 2\nQ 3\nL 1\n"))
	require.Error(t, err)
	assert.Nil(t, motions)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, "Q 3", perr.Text)
	assert.ErrorIs(t, err, ErrUnknownDirection)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseAll_SkipCollectsAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewParser(PolicySkip, zap.New(core))

	motions, err := p.ParseAll(strings.NewReader("R 1\nbogus\nU 2\nL x\n"))
	require.NoError(t, err)
	assert.Equal(t, []Motion{{Right, 1}, {Up, 2}}, motions)

	skipped := p.Skipped()
	require.Len(t, skipped, 2)
	assert.Equal(t, 2, skipped[0].Line)
	assert.Equal(t, "bogus", skipped[0].Text)
	assert.Equal(t, 4, skipped[1].Line)
	assert.ErrorIs(t, skipped[1], ErrBadDistance)

	assert.Equal(t, 2, logs.FilterMessage("Skipping malformed motion").Len())
}

func TestParseAll_SkippedResetsBetweenCalls(t *testing.T) {
	p := NewParser(PolicySkip, nil)
	_, err := p.ParseAll(strings.NewReader("nope\n"))
	require.NoError(t, err)
	require.Len(t, p.Skipped(), 1)

	_, err = p.ParseAll(strings.NewReader("R 1\n"))
	require.NoError(t, err)
	assert.Empty(t, p.Skipped())
}
