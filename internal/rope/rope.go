// Package rope simulates a chain of knots dragged across a grid by its head.
//
// Every unit step moves the head one cell, then walks the chain from head to
// tail: a knot that no longer touches its (already moved) predecessor steps
// one cell toward it on each axis where they differ. The cells ever occupied
// by the tail are recorded in a visited set.
package rope

import (
	"errors"
	"fmt"

	"ropewalk/internal/motion"
)

// MinKnots is the shortest rope that has both a head and a tail.
const MinKnots = 2

// ErrTooShort is returned by New for ropes with fewer than MinKnots knots.
var ErrTooShort = errors.New("rope needs at least 2 knots")

// Observer is called after every unit step. knots is only valid for the
// duration of the call.
type Observer func(step int, knots []Position)

// Option configures a Rope.
type Option func(*Rope)

// WithObserver registers a per-step callback.
func WithObserver(fn Observer) Option {
	return func(r *Rope) {
		r.observer = fn
	}
}

// Rope is an ordered chain of knots. Index 0 is the head, the last index is
// the tail. A Rope is not safe for concurrent use.
type Rope struct {
	knots    []Position
	visited  PositionSet
	steps    int
	observer Observer
}

// New creates a rope of n knots collapsed on the origin. The origin counts as
// visited by the tail.
func New(n int, opts ...Option) (*Rope, error) {
	if n < MinKnots {
		return nil, fmt.Errorf("%w: got %d", ErrTooShort, n)
	}
	r := &Rope{
		knots:   make([]Position, n),
		visited: NewPositionSet(Origin),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Apply unrolls m into m.Distance unit steps.
func (r *Rope) Apply(m motion.Motion) {
	for i := 0; i < m.Distance; i++ {
		r.Step(m.Direction)
	}
}

// Step moves the head one cell in dir and lets the rest of the chain follow.
func (r *Rope) Step(dir motion.Direction) {
	dRow, dCol := dir.Delta()
	r.knots[0] = r.knots[0].Translate(dRow, dCol)

	for i := 1; i < len(r.knots); i++ {
		next, moved := follow(r.knots[i], r.knots[i-1])
		if !moved {
			// Nothing further down the chain can move either.
			break
		}
		r.knots[i] = next
	}

	r.visited.Insert(r.knots[len(r.knots)-1])
	r.steps++

	if r.observer != nil {
		r.observer(r.steps, r.knots)
	}
}

// follow returns where knot ends up after its predecessor lead has moved.
func follow(knot, lead Position) (Position, bool) {
	if knot.Touches(lead) {
		return knot, false
	}
	return knot.Translate(sign(lead.Row-knot.Row), sign(lead.Col-knot.Col)), true
}

// TailVisitCount returns how many distinct cells the tail has occupied.
func (r *Rope) TailVisitCount() int {
	return r.visited.Len()
}

// Len returns the number of knots.
func (r *Rope) Len() int {
	return len(r.knots)
}

// Steps returns how many unit steps have been applied.
func (r *Rope) Steps() int {
	return r.steps
}

func (r *Rope) Head() Position {
	return r.knots[0]
}

func (r *Rope) Tail() Position {
	return r.knots[len(r.knots)-1]
}

// Knots returns a copy of the knot positions, head first.
func (r *Rope) Knots() []Position {
	out := make([]Position, len(r.knots))
	copy(out, r.knots)
	return out
}

// Visited returns a copy of the tail's visited set.
func (r *Rope) Visited() PositionSet {
	return r.visited.Clone()
}
