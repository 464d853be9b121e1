package environment

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/rlcore/spaces"
)

// Unbounded denotes an episode horizon with no limit
const Unbounded = math.MaxInt

// MDPInfo bundles the observation space, action space, discount
// factor, and horizon of an environment. MDPInfo is immutable.
type MDPInfo struct {
	observation spaces.Space
	action      spaces.Space
	gamma       float64
	horizon     int
}

// NewMDPInfo returns a new MDPInfo. The discount factor must be in
// (0, 1] and the horizon must be positive or Unbounded.
func NewMDPInfo(observation, action spaces.Space, gamma float64,
	horizon int) (MDPInfo, error) {
	if observation == nil || action == nil {
		return MDPInfo{}, fmt.Errorf("newMDPInfo: spaces must be non-nil")
	}
	if !(gamma > 0 && gamma <= 1) {
		return MDPInfo{}, fmt.Errorf("newMDPInfo: discount must be in "+
			"(0, 1] but got %v", gamma)
	}
	if horizon <= 0 {
		return MDPInfo{}, fmt.Errorf("newMDPInfo: horizon must be "+
			"positive but got %v", horizon)
	}

	return MDPInfo{
		observation: observation,
		action:      action,
		gamma:       gamma,
		horizon:     horizon,
	}, nil
}

// ObservationSpace returns the observation space
func (m MDPInfo) ObservationSpace() spaces.Space {
	return m.observation
}

// ActionSpace returns the action space
func (m MDPInfo) ActionSpace() spaces.Space {
	return m.action
}

// Gamma returns the discount factor
func (m MDPInfo) Gamma() float64 {
	return m.gamma
}

// Horizon returns the maximum number of steps in an episode
func (m MDPInfo) Horizon() int {
	return m.horizon
}

// Bounded returns whether episodes are truncated at the horizon
func (m MDPInfo) Bounded() bool {
	return m.horizon != Unbounded
}

func (m MDPInfo) String() string {
	horizon := "unbounded"
	if m.Bounded() {
		horizon = fmt.Sprint(m.horizon)
	}
	return fmt.Sprintf("MDPInfo | Observations: %v  |  Actions: %v  |  "+
		"Gamma: %v  |  Horizon: %v", m.observation, m.action, m.gamma,
		horizon)
}
