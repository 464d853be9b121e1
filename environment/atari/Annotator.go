package atari

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samuelfneumann/rlcore/simulator"
)

var (
	// ErrMissingAnnotator reports that an augmented game was requested
	// without an Annotator
	ErrMissingAnnotator = errors.New("augmented games require an annotator")

	// ErrNoNoop reports a game whose first action is not NOOP
	ErrNoNoop = errors.New("action 0 must be NOOP")

	// ErrNotArcade reports a simulator which is not an arcade game
	ErrNotArcade = errors.New("simulator is not an arcade game")
)

// augmentedSuffix marks game names which should be run in augmented
// mode
const augmentedSuffix = "-Augmented"

// Annotator adds auxiliary structured state, such as the positions of
// game objects, to the step information of Atari games. Games run in
// augmented mode also return their raw frames on every step.
type Annotator interface {
	// Supports returns whether the Annotator can annotate the game
	Supports(game string) bool

	// Wrap wraps the simulator of a supported game in a stage which
	// annotates its step information
	Wrap(game string, sim simulator.Simulator) (simulator.Simulator, error)
}

// RAMAnnotator annotates steps with values read from named locations of
// the Atari 2600 RAM. The simulator must expose its RAM through the
// "ram" step information key.
type RAMAnnotator struct {
	// Labels maps game names to named RAM addresses
	Labels map[string]map[string]int
}

// Supports implements the Annotator interface
func (r RAMAnnotator) Supports(game string) bool {
	_, ok := r.Labels[gameName(game)]
	return ok
}

// Wrap implements the Annotator interface
func (r RAMAnnotator) Wrap(game string,
	sim simulator.Simulator) (simulator.Simulator, error) {
	labels, ok := r.Labels[gameName(game)]
	if !ok {
		return nil, fmt.Errorf("wrap: no labels for game %v", game)
	}
	return &ramLabeller{
		Wrapped: simulator.Wrapped{Simulator: sim},
		labels:  labels,
	}, nil
}

// ramLabeller adds a "labels" entry to each step's information, if the
// step reports the RAM
type ramLabeller struct {
	simulator.Wrapped

	labels map[string]int
}

// Step implements simulator.Simulator
func (r *ramLabeller) Step(action interface{}) (simulator.Observation,
	float64, bool, simulator.Info, error) {
	obs, reward, done, info, err := r.Simulator.Step(action)
	if err != nil || info == nil {
		return obs, reward, done, info, err
	}

	ram, ok := info["ram"].([]interface{})
	if !ok {
		return obs, reward, done, info, nil
	}

	labels := make(map[string]float64, len(r.labels))
	for label, addr := range r.labels {
		if addr < 0 || addr >= len(ram) {
			continue
		}
		if v, ok := ram[addr].(float64); ok {
			labels[label] = v
		}
	}
	info["labels"] = labels
	return obs, reward, done, info, nil
}

// gameName returns the name of the game of an Atari environment name,
// for example "Pong" for "PongNoFrameskip-v4"
func gameName(name string) string {
	if i := strings.Index(name, "-v"); i >= 0 {
		name = name[:i]
	}
	for _, suffix := range []string{"NoFrameskip", "Deterministic", "-ram"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
