// Package render draws rope state and tail trails as character grids.
//
//	..##.
//	...##
//	.####
//	....#
//	s###.
//
// Rows are printed top to bottom in increasing Row order, so "up" is up.
package render

import (
	"strings"

	"ropewalk/internal/rope"
)

// Cell glyphs.
const (
	GlyphEmpty   = '.'
	GlyphVisited = '#'
	GlyphOrigin  = 's'
	GlyphHead    = 'H'
	GlyphTail    = 'T'
	GlyphKnot    = '*' // middle knots past index 9
)

// Visited draws every cell of the visited set as '#' inside the bounding
// box of the set and the origin. The origin is always drawn as 's'.
func Visited(set rope.PositionSet) string {
	cells := append(set.Sorted(), rope.Origin)
	lo, hi, _ := rope.Bounds(cells)

	var b strings.Builder
	for row := lo.Row; row <= hi.Row; row++ {
		if row > lo.Row {
			b.WriteByte('\n')
		}
		for col := lo.Col; col <= hi.Col; col++ {
			p := rope.Position{Row: row, Col: col}
			switch {
			case p == rope.Origin:
				b.WriteByte(GlyphOrigin)
			case set.Contains(p):
				b.WriteByte(GlyphVisited)
			default:
				b.WriteByte(GlyphEmpty)
			}
		}
	}
	return b.String()
}

// Knots draws a rope state: 'H' for the head, '1'..'9' for middle knots,
// 'T' for the tail and 's' for an uncovered origin. When knots overlap the
// one nearer the head is shown.
func Knots(knots []rope.Position) string {
	if len(knots) == 0 {
		return string(GlyphOrigin)
	}

	labels := make(map[rope.Position]byte, len(knots)+1)
	labels[rope.Origin] = GlyphOrigin
	for i := len(knots) - 1; i >= 0; i-- {
		labels[knots[i]] = knotGlyph(i, len(knots))
	}

	lo, hi, _ := rope.Bounds(append(append([]rope.Position(nil), knots...), rope.Origin))

	var b strings.Builder
	for row := lo.Row; row <= hi.Row; row++ {
		if row > lo.Row {
			b.WriteByte('\n')
		}
		for col := lo.Col; col <= hi.Col; col++ {
			if g, ok := labels[rope.Position{Row: row, Col: col}]; ok {
				b.WriteByte(g)
			} else {
				b.WriteByte(GlyphEmpty)
			}
		}
	}
	return b.String()
}

func knotGlyph(i, n int) byte {
	switch {
	case i == 0:
		return GlyphHead
	case i == n-1:
		return GlyphTail
	case i <= 9:
		return byte('0' + i)
	default:
		return GlyphKnot
	}
}
