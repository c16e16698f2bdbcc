package rope

import (
	"fmt"
	"sort"
)

// Position is a grid cell. Rows grow downward and columns grow rightward.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Origin is the cell every knot starts on.
var Origin = Position{}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Translate returns p moved by the given row and column offsets.
func (p Position) Translate(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Touches reports whether q is within one cell of p on both axes.
func (p Position) Touches(q Position) bool {
	return abs(p.Row-q.Row) <= 1 && abs(p.Col-q.Col) <= 1
}

// PositionSet is an unordered set of distinct positions.
type PositionSet struct {
	m map[Position]struct{}
}

// NewPositionSet returns a set holding the given positions.
func NewPositionSet(ps ...Position) PositionSet {
	set := PositionSet{m: make(map[Position]struct{}, len(ps))}
	for _, p := range ps {
		set.Insert(p)
	}
	return set
}

// Insert adds p. Inserting a member again is a no-op.
func (s *PositionSet) Insert(p Position) {
	if s.m == nil {
		s.m = make(map[Position]struct{})
	}
	s.m[p] = struct{}{}
}

func (s PositionSet) Contains(p Position) bool {
	_, ok := s.m[p]
	return ok
}

func (s PositionSet) Len() int {
	return len(s.m)
}

// Clone returns an independent copy of the set.
func (s PositionSet) Clone() PositionSet {
	out := PositionSet{m: make(map[Position]struct{}, len(s.m))}
	for p := range s.m {
		out.m[p] = struct{}{}
	}
	return out
}

// Sorted returns the members ordered by row, then column.
func (s PositionSet) Sorted() []Position {
	out := make([]Position, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Bounds returns the smallest and largest row and column over the given
// positions. ok is false when there are none.
func Bounds(ps []Position) (lo, hi Position, ok bool) {
	if len(ps) == 0 {
		return Position{}, Position{}, false
	}
	lo, hi = ps[0], ps[0]
	for _, p := range ps[1:] {
		lo.Row = min(lo.Row, p.Row)
		lo.Col = min(lo.Col, p.Col)
		hi.Row = max(hi.Row, p.Row)
		hi.Col = max(hi.Col, p.Col)
	}
	return lo, hi, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
