// Package spaces describes the domains of observations and actions.
//
// Two kinds of spaces exist: Discrete spaces, which enumerate the
// integers {0, 1, ..., n-1}, and Box spaces, which bound each dimension
// of a real vector by an interval [low_i, high_i]. Spaces are immutable
// once constructed.
package spaces

import "gonum.org/v1/gonum/mat"

// Space describes the valid values of an observation or action
type Space interface {
	// Shape returns the shape of values in the space
	Shape() []int

	// Size returns the number of scalars in a single value of the
	// space. This is the product of the dimensions of Shape().
	Size() int

	// Contains returns whether x is a valid value of the space
	Contains(x mat.Vector) bool
}

// size returns the number of elements described by shape
func size(shape []int) int {
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	return n
}
