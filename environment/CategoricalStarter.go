package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter samples starting states whose dimensions are
// each drawn from a uniform categorical distribution over
// (0, 1, 2, ... N-1). It serves discrete state spaces, such as
// gridworlds or the Discrete observation spaces of toy text games.
type CategoricalStarter struct {
	dists []distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// dimension i from (0, 1, 2, ... bounds[i]-1)
func NewCategoricalStarter(bounds []int,
	seed uint64) (CategoricalStarter, error) {
	source := rand.NewSource(seed)

	dists := make([]distuv.Categorical, len(bounds))
	for i, n := range bounds {
		if n <= 0 {
			return CategoricalStarter{}, fmt.Errorf("newCategoricalStarter: "+
				"dimension %v must have at least one category", i)
		}

		// Uniform weights
		weights := make([]float64, n)
		for j := range weights {
			weights[j] = 1.0 / float64(n)
		}
		dists[i] = distuv.NewCategorical(weights, source)
	}

	return CategoricalStarter{dists}, nil
}

// Start returns a starting state vector
func (c CategoricalStarter) Start() mat.Vector {
	start := make([]float64, len(c.dists))
	for i := range start {
		start[i] = c.dists[i].Rand()
	}

	return mat.NewVecDense(len(start), start)
}
