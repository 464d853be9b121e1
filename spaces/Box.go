package spaces

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Box is a space of real vectors, where each dimension i is bounded by
// the interval [low_i, high_i]. Values are stored flattened in row
// major order; shape describes how the flattened values are laid out.
type Box struct {
	low   []float64
	high  []float64
	shape []int
}

// NewBox returns a new Box space. The low and high bounds are given in
// flattened row major order and must both have exactly as many
// elements as described by shape.
func NewBox(low, high []float64, shape []int) (*Box, error) {
	if len(shape) == 0 {
		shape = []int{len(low)}
	}
	for _, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("newBox: invalid shape %v", shape)
		}
	}
	n := size(shape)
	if len(low) != n {
		return nil, fmt.Errorf("newBox: shape %v must match lower bounds "+
			"length %v", shape, len(low))
	}
	if len(high) != n {
		return nil, fmt.Errorf("newBox: shape %v must match upper bounds "+
			"length %v", shape, len(high))
	}
	for i := range low {
		if low[i] > high[i] {
			return nil, fmt.Errorf("newBox: lower bound %v exceeds upper "+
				"bound %v at index %v", low[i], high[i], i)
		}
	}

	b := &Box{
		low:   make([]float64, n),
		high:  make([]float64, n),
		shape: make([]int, len(shape)),
	}
	copy(b.low, low)
	copy(b.high, high)
	copy(b.shape, shape)
	return b, nil
}

// NewUniformBox returns a new Box where every dimension shares the
// same bounds [low, high]
func NewUniformBox(low, high float64, shape ...int) (*Box, error) {
	n := size(shape)
	if len(shape) == 0 || n <= 0 {
		return nil, fmt.Errorf("newUniformBox: invalid shape %v", shape)
	}
	lows := make([]float64, n)
	highs := make([]float64, n)
	floats.AddConst(low, lows)
	floats.AddConst(high, highs)
	return NewBox(lows, highs, shape)
}

// Low returns a copy of the lower bounds of the space
func (b *Box) Low() *mat.VecDense {
	low := make([]float64, len(b.low))
	copy(low, b.low)
	return mat.NewVecDense(len(low), low)
}

// High returns a copy of the upper bounds of the space
func (b *Box) High() *mat.VecDense {
	high := make([]float64, len(b.high))
	copy(high, b.high)
	return mat.NewVecDense(len(high), high)
}

// Shape returns the shape of values in the space
func (b *Box) Shape() []int {
	shape := make([]int, len(b.shape))
	copy(shape, b.shape)
	return shape
}

// Size returns the number of scalars in a value of the space
func (b *Box) Size() int {
	return len(b.low)
}

// Contains returns whether x has the same number of elements as the
// space and each element lies within its bounds
func (b *Box) Contains(x mat.Vector) bool {
	if x == nil || x.Len() != len(b.low) {
		return false
	}
	for i := range b.low {
		v := x.AtVec(i)
		if math.IsNaN(v) || v < b.low[i] || v > b.high[i] {
			return false
		}
	}
	return true
}

func (b *Box) String() string {
	return fmt.Sprintf("Box(shape=%v)", b.shape)
}
