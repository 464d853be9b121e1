// Package simtest provides scriptable simulators for testing
// environment adapters and the episode orchestration engine without an
// external simulator.
package simtest

import (
	"github.com/samuelfneumann/rlcore/simulator"
)

// StepFunc computes the outcome of the n-th call to Step (starting at
// 1) given the action taken
type StepFunc func(n int, action interface{}) (simulator.Observation,
	float64, bool, simulator.Info, error)

// Fake is a scriptable simulator.Simulator which records every call
// made to it
type Fake struct {
	Actions      simulator.Space
	Observations simulator.Space

	// ResetObservation is returned by each call to Reset
	ResetObservation simulator.Observation

	// OnStep computes each step. If nil, Step returns ResetObservation,
	// zero reward, and never ends the episode.
	OnStep StepFunc

	// Errors returned by the corresponding calls
	ResetErr  error
	RenderErr error
	CloseErr  error

	// Recorded calls
	Resets       int
	Steps        int
	Renders      []string
	Closes       int
	ActionsTaken []interface{}

	// State is the last state set through SetState
	State []float64

	// TimeLimitDisabled records calls to DisableTimeLimit
	TimeLimitDisabled bool
}

// Reset implements simulator.Simulator
func (f *Fake) Reset() (simulator.Observation, error) {
	f.Resets++
	if f.ResetErr != nil {
		return simulator.Observation{}, f.ResetErr
	}
	return f.ResetObservation, nil
}

// Step implements simulator.Simulator
func (f *Fake) Step(action interface{}) (simulator.Observation, float64,
	bool, simulator.Info, error) {
	f.Steps++
	f.ActionsTaken = append(f.ActionsTaken, action)
	if f.OnStep == nil {
		return f.ResetObservation, 0, false, simulator.Info{}, nil
	}
	return f.OnStep(f.Steps, action)
}

// Render implements simulator.Simulator. It returns ResetObservation.
func (f *Fake) Render(mode string) (simulator.Observation, error) {
	f.Renders = append(f.Renders, mode)
	return f.ResetObservation, f.RenderErr
}

// Close implements simulator.Simulator
func (f *Fake) Close() error {
	f.Closes++
	return f.CloseErr
}

// ActionSpace implements simulator.Simulator
func (f *Fake) ActionSpace() simulator.Space {
	return f.Actions
}

// ObservationSpace implements simulator.Simulator
func (f *Fake) ObservationSpace() simulator.Space {
	return f.Observations
}

// SetState implements simulator.StateSetter
func (f *Fake) SetState(state []float64) error {
	f.State = append([]float64(nil), state...)
	return nil
}

// DisableTimeLimit implements simulator.TimeLimiter
func (f *Fake) DisableTimeLimit() error {
	f.TimeLimitDisabled = true
	return nil
}

// Vector returns a 1-dimensional observation holding data
func Vector(data ...float64) simulator.Observation {
	return simulator.Observation{Data: data, Shape: []int{len(data)}}
}

// Discrete returns a simulator.Space describing n discrete values
func Discrete(n int) simulator.Space {
	return simulator.Space{Kind: simulator.DiscreteKind, N: n}
}

// Box returns a simulator.Space describing a 1-dimensional box
func Box(low, high []float64) simulator.Space {
	return simulator.Space{
		Kind:  simulator.BoxKind,
		Shape: []int{len(low)},
		Low:   low,
		High:  high,
	}
}
