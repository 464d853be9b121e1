// Package simulator defines the boundary between environment adapters
// and the external simulators they drive.
//
// A Simulator is an exclusively owned handle to some external
// simulation (a Gym environment running in Python, a remote Gym HTTP
// server, an Atari emulator). Adapters in package environment wrap a
// Simulator and translate its loosely typed values into the uniform
// stepping contract used by the rest of the framework.
//
// Simulators are constructed by name through a Registry. Behaviour
// that only some simulators support is expressed through optional
// capability interfaces (StateSetter, TimeLimiter, Arcade) which
// adapters discover with Find.
package simulator

// Observation is a flattened observation returned by a Simulator
// together with its shape. Data is in row major order. An empty Shape
// denotes a scalar.
type Observation struct {
	Data  []float64
	Shape []int
}

// Len returns the number of scalars in the observation
func (o Observation) Len() int {
	return len(o.Data)
}

// Info is the auxiliary information returned by a simulator step
type Info map[string]interface{}

// Simulator is a handle to an external simulator
type Simulator interface {
	// Reset starts a new episode and returns the first observation
	Reset() (Observation, error)

	// Step takes one step in the simulator. The action is an int for
	// discrete action spaces and a []float64 for continuous action
	// spaces.
	Step(action interface{}) (Observation, float64, bool, Info, error)

	// Render renders the simulator. For the "rgb_array" mode the
	// rendered frame is returned; for other modes the returned
	// Observation may be empty.
	Render(mode string) (Observation, error)

	// Close releases the simulator
	Close() error

	// ActionSpace describes the simulator's actions
	ActionSpace() Space

	// ObservationSpace describes the simulator's observations
	ObservationSpace() Space
}

// StateSetter is a Simulator whose internal state can be overwritten
type StateSetter interface {
	SetState(state []float64) error
}

// TimeLimiter is a Simulator which enforces its own episode step
// limit, and which can have that limit removed
type TimeLimiter interface {
	DisableTimeLimit() error
}

// Arcade is a Simulator that emulates an arcade game with lives
type Arcade interface {
	Simulator

	// Lives returns the number of lives currently remaining
	Lives() int

	// ActionMeanings returns the name of each action, indexed by
	// action number
	ActionMeanings() []string
}

// Unwrapper is a Simulator stage which wraps another Simulator
type Unwrapper interface {
	Unwrap() Simulator
}

// Find walks the chain of wrapped simulators starting at sim and
// returns the first one that satisfies ok, or nil if none does.
func Find(sim Simulator, ok func(Simulator) bool) Simulator {
	for sim != nil {
		if ok(sim) {
			return sim
		}
		u, isWrapper := sim.(Unwrapper)
		if !isWrapper {
			return nil
		}
		sim = u.Unwrap()
	}
	return nil
}

// Innermost returns the simulator at the bottom of a wrapper chain
func Innermost(sim Simulator) Simulator {
	for {
		u, ok := sim.(Unwrapper)
		if !ok {
			return sim
		}
		sim = u.Unwrap()
	}
}
