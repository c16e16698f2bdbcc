// Package motion parses rope motion commands such as "U 4" or "R 2".
package motion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Direction is one of the four grid directions a head knot can move in.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in input-token order.
var Directions = []Direction{Up, Down, Left, Right}

var directionTokens = map[string]Direction{
	"U": Up,
	"D": Down,
	"L": Left,
	"R": Right,
}

// String returns the single-letter input token of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "U"
	case Down:
		return "D"
	case Left:
		return "L"
	case Right:
		return "R"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Delta returns the unit (row, col) offset of one step in the direction.
// Rows grow downward, so Up is a negative row offset.
func (d Direction) Delta() (dRow, dCol int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	default:
		return 0, 0
	}
}

// Motion is a single parsed command: move the head Distance cells in Direction.
type Motion struct {
	Direction Direction
	Distance  int
}

// String renders the motion in its input form, e.g. "U 4".
func (m Motion) String() string {
	return m.Direction.String() + " " + strconv.Itoa(m.Distance)
}

// Parse failure causes. A *ParseError always wraps exactly one of these.
var (
	ErrMalformed        = errors.New("expected \"<direction> <distance>\"")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrBadDistance      = errors.New("invalid distance")
)

// ParseError reports a line that is not a valid motion.
type ParseError struct {
	Line int    // 1-based line number, 0 when parsed outside a block
	Text string // raw line text
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("%q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse converts one line of text into a Motion.
// The line must be exactly a direction token, one space and a decimal distance.
func Parse(line string) (Motion, error) {
	token, rest, ok := strings.Cut(line, " ")
	if !ok || token == "" || rest == "" {
		return Motion{}, &ParseError{Text: line, Err: ErrMalformed}
	}

	dir, ok := directionTokens[token]
	if !ok {
		return Motion{}, &ParseError{Text: line, Err: fmt.Errorf("%w %q", ErrUnknownDirection, token)}
	}

	// ParseUint rejects signs and whitespace, so "U +4" and "U  4" fail here.
	n, err := strconv.ParseUint(rest, 10, 31)
	if err != nil {
		return Motion{}, &ParseError{Text: line, Err: fmt.Errorf("%w %q", ErrBadDistance, rest)}
	}

	return Motion{Direction: dir, Distance: int(n)}, nil
}
