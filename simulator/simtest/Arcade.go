package simtest

import "github.com/samuelfneumann/rlcore/simulator"

// MinimalActions are the action meanings of a game which requires the
// FIRE action to start
var MinimalActions = []string{"NOOP", "FIRE", "RIGHT", "LEFT"}

// NoFireActions are the action meanings of a game without a FIRE action
var NoFireActions = []string{"NOOP", "UP", "RIGHT", "LEFT", "DOWN"}

// FakeArcade is a Fake which also implements simulator.Arcade. Every
// step reports the current number of lives under the "ale.lives" info
// key unless OnStep already set it.
type FakeArcade struct {
	*Fake

	// LivesLeft is the current number of lives. Tests may change it
	// from within OnStep to simulate losing a life.
	LivesLeft int
	Meanings  []string
}

// NewFakeArcade returns a FakeArcade producing height x width RGB
// frames with the given number of lives and action meanings
func NewFakeArcade(height, width, lives int, meanings []string) *FakeArcade {
	f := &Fake{
		Actions: Discrete(len(meanings)),
		Observations: simulator.Space{
			Kind:  simulator.BoxKind,
			Shape: []int{height, width, 3},
		},
		ResetObservation: Frame(height, width, 0),
	}
	return &FakeArcade{Fake: f, LivesLeft: lives, Meanings: meanings}
}

// Step implements simulator.Simulator
func (a *FakeArcade) Step(action interface{}) (simulator.Observation,
	float64, bool, simulator.Info, error) {
	obs, reward, done, info, err := a.Fake.Step(action)
	if info == nil {
		info = simulator.Info{}
	}
	if _, ok := info["ale.lives"]; !ok {
		info["ale.lives"] = a.LivesLeft
	}
	return obs, reward, done, info, err
}

// Lives implements simulator.Arcade
func (a *FakeArcade) Lives() int {
	return a.LivesLeft
}

// ActionMeanings implements simulator.Arcade
func (a *FakeArcade) ActionMeanings() []string {
	return a.Meanings
}

// Frame returns a height x width RGB frame with every channel of every
// pixel set to value
func Frame(height, width int, value float64) simulator.Observation {
	data := make([]float64, height*width*3)
	for i := range data {
		data[i] = value
	}
	return simulator.Observation{Data: data, Shape: []int{height, width, 3}}
}
