package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a box
type UniformStarter struct {
	features int
	seed     uint64
	rand     *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter sampling dimension i
// uniformly from bounds[i]
func NewUniformStarter(bounds []r1.Interval, seed uint64) UniformStarter {
	source := rand.NewSource(seed)
	rand := distmv.NewUniform(bounds, source)

	return UniformStarter{len(bounds), seed, rand}
}

// NewUniformStarterFromBox returns a new UniformStarter sampling
// uniformly from the box with the given bounds
func NewUniformStarterFromBox(low, high mat.Vector,
	seed uint64) (UniformStarter, error) {
	if low.Len() != high.Len() {
		return UniformStarter{}, fmt.Errorf("newUniformStarterFromBox: "+
			"bounds have different lengths %v and %v", low.Len(), high.Len())
	}

	bounds := make([]r1.Interval, low.Len())
	for i := range bounds {
		bounds[i] = r1.Interval{Min: low.AtVec(i), Max: high.AtVec(i)}
	}
	return NewUniformStarter(bounds, seed), nil
}

// Start returns a starting state vector
func (u UniformStarter) Start() mat.Vector {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}

// Starts returns n starting states
func Starts(s Starter, n int) []mat.Vector {
	starts := make([]mat.Vector, n)
	for i := range starts {
		starts[i] = s.Start()
	}
	return starts
}
