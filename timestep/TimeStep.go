// Package timestep implements transitions of the agent-environment
// interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a Transition can be, either
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// Transition packages together a single step of interaction: the
// state an action was taken in, the action, the reward received, and
// the next state. Absorbing reports whether the next state is terminal,
// and Last reports whether the transition ended its episode, either
// because an absorbing state was reached or because the episode
// horizon was hit.
//
// Number is the 1-based index of the transition within its episode.
type Transition struct {
	State     mat.Vector
	Action    *mat.VecDense
	Reward    float64
	NextState mat.Vector
	Absorbing bool
	Last      bool
	Number    int
}

// New returns a new Transition
func New(state mat.Vector, action *mat.VecDense, reward float64,
	nextState mat.Vector, absorbing, last bool, number int) Transition {
	return Transition{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: nextState,
		Absorbing: absorbing,
		Last:      last,
		Number:    number,
	}
}

// Type returns the StepType of the transition. A transition that both
// starts and ends an episode is a Last step.
func (t Transition) Type() StepType {
	switch {
	case t.Last:
		return Last
	case t.Number == 1:
		return First
	default:
		return Mid
	}
}

func (t Transition) String() string {
	str := "Transition | Type: %v  |  Reward:  %.2f  |  Absorbing: %v  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.Type(), t.Reward, t.Absorbing, t.Number)
}
