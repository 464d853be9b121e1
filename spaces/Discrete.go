package spaces

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Discrete is a space of the integers {0, 1, ..., n-1}. Values of the
// space are stored as vectors of length 1.
type Discrete struct {
	n int
}

// NewDiscrete returns a new Discrete space with n elements
func NewDiscrete(n int) (*Discrete, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newDiscrete: number of elements must be "+
			"positive, got %v", n)
	}
	return &Discrete{n}, nil
}

// N returns the number of elements in the space
func (d *Discrete) N() int {
	return d.n
}

// Shape returns the shape of values in the space
func (d *Discrete) Shape() []int {
	return []int{1}
}

// Size returns the number of scalars in a value of the space
func (d *Discrete) Size() int {
	return 1
}

// Contains returns whether x is a length 1 vector holding an integer
// in [0, n)
func (d *Discrete) Contains(x mat.Vector) bool {
	if x == nil || x.Len() != 1 {
		return false
	}
	v := x.AtVec(0)
	if v != math.Trunc(v) {
		return false
	}
	return d.ContainsInt(int(v))
}

// ContainsInt returns whether i is in [0, n)
func (d *Discrete) ContainsInt(i int) bool {
	return i >= 0 && i < d.n
}

func (d *Discrete) String() string {
	return fmt.Sprintf("Discrete(%v)", d.n)
}
