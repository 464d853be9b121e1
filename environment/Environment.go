// Package environment outlines the uniform stepping contract that
// environment adapters implement, as well as the MDP information
// describing each environment
package environment

import (
	"image"

	"github.com/samuelfneumann/rlcore/simulator"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Result is the outcome of a single environment step
type Result struct {
	Observation mat.Vector
	Reward      float64
	Absorbing   bool
	Info        simulator.Info

	// Raw is the unprocessed simulator observation. Only adapters
	// which expose auxiliary state set it; it is nil otherwise.
	Raw *simulator.Observation
}

// Environment adapts an external simulator to the uniform stepping
// contract used by the episode orchestration engine
type Environment interface {
	// Reset starts a new episode. If state is non-nil, the environment
	// is started in that state if the environment supports it.
	Reset(state mat.Vector) (mat.Vector, error)

	// Step takes one step in the environment
	Step(action *mat.VecDense) (Result, error)

	// Render renders the environment, returning the rendered frame
	// if the mode produces one
	Render(mode string) (image.Image, error)

	// Stop releases the environment. Stop is idempotent and the
	// environment cannot be used afterwards.
	Stop()

	// Info returns the MDP information of the environment
	Info() MDPInfo
}
