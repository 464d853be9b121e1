package gymhttp

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/rlcore/simulator"
)

// livesKey is the step information key holding the remaining lives
const livesKey = "ale.lives"

// Arcade is an Atari game running on a Gym HTTP API server. It
// implements simulator.Arcade.
type Arcade struct {
	*Sim

	meanings []string
	maxLives int
	lives    int
}

// MakeArcade creates a new instance of the Atari game name on the
// server. The number of lives of the game is found by resetting the
// game and taking a single NOOP step.
func MakeArcade(ctx context.Context, client *Client, name string) (*Arcade,
	error) {
	sim, err := Make(ctx, client, name)
	if err != nil {
		return nil, err
	}

	if sim.actionSpace.Kind != simulator.DiscreteKind {
		sim.Close()
		return nil, fmt.Errorf("makeArcade: %v must have discrete actions",
			name)
	}
	meanings, ok := ActionMeanings(name, sim.actionSpace.N)
	if !ok {
		sim.Close()
		return nil, fmt.Errorf("makeArcade: unknown action meanings for %v "+
			"with %v actions", name, sim.actionSpace.N)
	}

	a := &Arcade{Sim: sim, meanings: meanings}
	if _, err := a.Sim.Reset(); err != nil {
		sim.Close()
		return nil, fmt.Errorf("makeArcade: could not reset %v: %w", name,
			err)
	}
	_, _, _, info, err := a.Sim.Step(0)
	if err != nil {
		sim.Close()
		return nil, fmt.Errorf("makeArcade: could not step %v: %w", name,
			err)
	}
	a.maxLives, _ = Lives(info)
	a.lives = a.maxLives

	return a, nil
}

// Reset implements simulator.Simulator
func (a *Arcade) Reset() (simulator.Observation, error) {
	obs, err := a.Sim.Reset()
	if err == nil {
		a.lives = a.maxLives
	}
	return obs, err
}

// Step implements simulator.Simulator
func (a *Arcade) Step(action interface{}) (simulator.Observation, float64,
	bool, simulator.Info, error) {
	obs, reward, done, info, err := a.Sim.Step(action)
	if err != nil {
		return obs, reward, done, info, err
	}
	if lives, ok := Lives(info); ok {
		a.lives = lives
	}
	return obs, reward, done, info, nil
}

// Lives implements simulator.Arcade
func (a *Arcade) Lives() int {
	return a.lives
}

// ActionMeanings implements simulator.Arcade
func (a *Arcade) ActionMeanings() []string {
	out := make([]string, len(a.meanings))
	copy(out, a.meanings)
	return out
}

// Lives returns the number of lives reported in step information
func Lives(info simulator.Info) (int, bool) {
	switch lives := info[livesKey].(type) {
	case int:
		return lives, true
	case float64:
		return int(lives), true
	default:
		return 0, false
	}
}
