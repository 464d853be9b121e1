// Package random implements an agent which takes uniformly random
// actions and never learns
package random

import (
	"fmt"

	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/dataset"
	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/spaces"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// Type is the agent.Type of random agents
const Type agent.Type = "Random"

func init() {
	agent.Register(Type, Config{})
}

// Config configures a random agent. Random agents have no
// hyperparameters.
type Config struct{}

// CreateAgent implements the agent.Config interface
func (c Config) CreateAgent(info environment.MDPInfo,
	seed uint64) (agent.Agent, error) {
	return New(info.ActionSpace(), seed)
}

// Validate implements the agent.Config interface
func (c Config) Validate() error {
	return nil
}

// Random is an agent which selects actions uniformly at random from
// its action space
type Random struct {
	discrete *spaces.Discrete
	box      *distmv.Uniform
	rng      *rand.Rand
	size     int

	// Fits counts the calls to Fit
	Fits int
}

// New returns a new Random agent acting in the action space
func New(actions spaces.Space, seed uint64) (*Random, error) {
	source := rand.NewSource(seed)

	switch s := actions.(type) {
	case *spaces.Discrete:
		return &Random{discrete: s, rng: rand.New(source), size: 1}, nil

	case *spaces.Box:
		low, high := s.Low(), s.High()
		bounds := make([]r1.Interval, low.Len())
		for i := range bounds {
			bounds[i] = r1.Interval{Min: low.AtVec(i), Max: high.AtVec(i)}
		}
		return &Random{
			box:  distmv.NewUniform(bounds, source),
			size: len(bounds),
		}, nil

	default:
		return nil, fmt.Errorf("new: unsupported action space %T", actions)
	}
}

// DrawAction implements the agent.Agent interface
func (r *Random) DrawAction(mat.Vector) (*mat.VecDense, error) {
	if r.discrete != nil {
		a := float64(r.rng.Intn(r.discrete.N()))
		return mat.NewVecDense(1, []float64{a}), nil
	}
	return mat.NewVecDense(r.size, r.box.Rand(nil)), nil
}

// Fit implements the agent.Agent interface
func (r *Random) Fit(dataset.Dataset) error {
	r.Fits++
	return nil
}

// EpisodeStart implements the agent.Agent interface
func (r *Random) EpisodeStart() {}

// Stop implements the agent.Agent interface
func (r *Random) Stop() {}
