// Package gym adapts OpenAI Gym simulators to the uniform stepping
// contract of package environment.
//
// Any simulator registered with a simulator.Registry can be used, as
// long as its observation and action spaces are Box or Discrete
// spaces. Atari games are handled separately by package atari.
//
// Episode horizons are enforced by the caller rather than the
// simulator, so the simulator's own step limit is disabled at
// construction if the simulator supports it.
package gym

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"math"

	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/frames"
	"github.com/samuelfneumann/rlcore/simulator"
	"github.com/samuelfneumann/rlcore/spaces"
	"gonum.org/v1/gonum/mat"
)

// Config configures a Gym environment
type Config struct {
	// Horizon is the maximum number of steps in an episode. A zero
	// Horizon is environment.Unbounded.
	Horizon int
	Gamma   float64

	// Wrappers are applied to the simulator in order, so the last
	// wrapper is the outermost stage
	Wrappers []simulator.Wrapper

	// HeadlessPhysics denotes a simulator whose physics backend renders
	// only once and is never closed by the environment, such as a
	// PyBullet simulator connected in DIRECT mode
	HeadlessPhysics bool

	// Options are passed to the simulator factory
	Options map[string]interface{}

	// Logger logs diagnostics of the environment. If nil, nothing is
	// logged.
	Logger *log.Logger
}

// Env is an environment backed by a Gym simulator
type Env struct {
	name string
	sim  simulator.Simulator
	info environment.MDPInfo

	discreteActions bool
	headless        bool
	rendered        bool
	stopped         bool

	logger *log.Logger
}

// New returns a new Env running the simulator registered under name
func New(reg *simulator.Registry, name string, c Config) (*Env, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	horizon := c.Horizon
	if horizon == 0 {
		horizon = environment.Unbounded
	}

	sim, err := reg.Make(name, c.Options)
	if err != nil {
		return nil, fmt.Errorf("new: could not create simulator: %w", err)
	}

	wrapped, err := simulator.Chain(sim, c.Wrappers...)
	if err != nil {
		if closeErr := sim.Close(); closeErr != nil {
			logger.Printf("new: could not close simulator %v: %v", name,
				closeErr)
		}
		return nil, fmt.Errorf("new: %w", err)
	}
	sim = wrapped

	env, err := newEnv(name, sim, horizon, c.Gamma, c.HeadlessPhysics, logger)
	if err != nil {
		if closeErr := sim.Close(); closeErr != nil {
			logger.Printf("new: could not close simulator %v: %v", name,
				closeErr)
		}
		return nil, err
	}
	return env, nil
}

func newEnv(name string, sim simulator.Simulator, horizon int, gamma float64,
	headless bool, logger *log.Logger) (*Env, error) {
	// Horizons are enforced by the episode loop
	limiter := simulator.Find(sim, func(s simulator.Simulator) bool {
		_, ok := s.(simulator.TimeLimiter)
		return ok
	})
	if limiter != nil {
		if err := limiter.(simulator.TimeLimiter).DisableTimeLimit(); err != nil {
			return nil, fmt.Errorf("new: could not disable time limit: %w",
				err)
		}
	} else {
		logger.Printf("new: simulator %v does not expose its time limit, "+
			"episodes may be truncated early", name)
	}

	actionSpace, err := ConvertSpace(sim.ActionSpace())
	if err != nil {
		return nil, &simulator.Error{Op: "new", Name: name,
			Err: fmt.Errorf("action space: %w", err)}
	}
	obsSpace, err := ConvertSpace(sim.ObservationSpace())
	if err != nil {
		return nil, &simulator.Error{Op: "new", Name: name,
			Err: fmt.Errorf("observation space: %w", err)}
	}

	info, err := environment.NewMDPInfo(obsSpace, actionSpace, gamma, horizon)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	_, discrete := actionSpace.(*spaces.Discrete)
	return &Env{
		name:            name,
		sim:             sim,
		info:            info,
		discreteActions: discrete,
		headless:        headless,
		logger:          logger,
	}, nil
}

// ConvertSpace converts a simulator space description into a space.
// Only Discrete and Box spaces can be converted; any other kind of
// space results in an error wrapping simulator.ErrUnsupportedSpace.
func ConvertSpace(s simulator.Space) (spaces.Space, error) {
	switch s.Kind {
	case simulator.DiscreteKind:
		d, err := spaces.NewDiscrete(s.N)
		if err != nil {
			return nil, fmt.Errorf("convertSpace: %v", err)
		}
		return d, nil

	case simulator.BoxKind:
		b, err := spaces.NewBox(s.Low, s.High, s.Shape)
		if err != nil {
			return nil, fmt.Errorf("convertSpace: %v", err)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("convertSpace: %w: %v",
			simulator.ErrUnsupportedSpace, s.Kind)
	}
}

// Info implements the environment.Environment interface
func (e *Env) Info() environment.MDPInfo {
	return e.info
}

// Simulator returns the simulator driven by the environment
func (e *Env) Simulator() simulator.Simulator {
	return e.sim
}

// Reset implements the environment.Environment interface. If state is
// non-nil, the simulator is reset and its state is then overwritten
// with state, which is returned.
func (e *Env) Reset(state mat.Vector) (mat.Vector, error) {
	if e.stopped {
		return nil, fmt.Errorf("reset: %w", simulator.ErrClosed)
	}

	obs, err := e.sim.Reset()
	if err != nil {
		return nil, fmt.Errorf("reset: could not reset simulator: %w", err)
	}
	if state == nil {
		return toVector(obs)
	}

	setter := simulator.Find(e.sim, func(s simulator.Simulator) bool {
		_, ok := s.(simulator.StateSetter)
		return ok
	})
	if setter == nil {
		return nil, &simulator.Error{Op: "reset", Name: e.name,
			Err: simulator.ErrStateUnsupported}
	}

	start := mat.VecDenseCopyOf(state)
	data := make([]float64, start.Len())
	copy(data, start.RawVector().Data)
	if err := setter.(simulator.StateSetter).SetState(data); err != nil {
		return nil, fmt.Errorf("reset: could not set state: %w", err)
	}
	return start, nil
}

// Step implements the environment.Environment interface
func (e *Env) Step(action *mat.VecDense) (environment.Result, error) {
	if e.stopped {
		return environment.Result{}, fmt.Errorf("step: %w",
			simulator.ErrClosed)
	}

	a, err := e.convertAction(action)
	if err != nil {
		return environment.Result{}, fmt.Errorf("step: %v", err)
	}

	obs, reward, done, info, err := e.sim.Step(a)
	if err != nil {
		return environment.Result{}, fmt.Errorf("step: could not step "+
			"simulator: %w", err)
	}

	vec, err := toVector(obs)
	if err != nil {
		return environment.Result{}, fmt.Errorf("step: %v", err)
	}

	return environment.Result{
		Observation: vec,
		Reward:      reward,
		Absorbing:   done,
		Info:        info,
	}, nil
}

// convertAction converts an action vector into the representation
// expected by the simulator. Discrete actions are unwrapped from a
// length-1 vector into an int.
func (e *Env) convertAction(action *mat.VecDense) (interface{}, error) {
	if e.discreteActions {
		if action.Len() != 1 {
			return nil, fmt.Errorf("convertAction: discrete actions must "+
				"have length 1 but got %v", action.Len())
		}
		return int(math.Round(action.AtVec(0))), nil
	}

	a := make([]float64, action.Len())
	for i := range a {
		a[i] = action.AtVec(i)
	}
	return a, nil
}

// Render implements the environment.Environment interface. Only the
// "rgb_array" mode returns an image. Simulators with a headless physics
// backend are rendered only on the first call.
func (e *Env) Render(mode string) (image.Image, error) {
	if e.headless && e.rendered {
		return nil, nil
	}
	if e.stopped {
		return nil, fmt.Errorf("render: %w", simulator.ErrClosed)
	}
	e.rendered = true

	obs, err := e.sim.Render(mode)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if mode != "rgb_array" || obs.Len() == 0 {
		return nil, nil
	}

	frame, err := frames.FromObservation(obs)
	if err != nil {
		return nil, fmt.Errorf("render: %v", err)
	}
	return frame.Image(), nil
}

// Stop implements the environment.Environment interface. Errors while
// closing the simulator are logged and otherwise ignored. Simulators
// with a headless physics backend are never closed.
func (e *Env) Stop() {
	if e.stopped {
		return
	}
	e.stopped = true

	if e.headless {
		return
	}
	if err := e.sim.Close(); err != nil && !errors.Is(err, simulator.ErrClosed) {
		e.logger.Printf("stop: could not close simulator %v: %v", e.name, err)
	}
}

func (e *Env) String() string {
	return fmt.Sprintf("Gym | %v", e.name)
}

// toVector converts an observation into a vector with at least one
// element
func toVector(obs simulator.Observation) (*mat.VecDense, error) {
	if obs.Len() == 0 {
		return nil, fmt.Errorf("toVector: empty observation")
	}
	data := make([]float64, obs.Len())
	copy(data, obs.Data)
	return mat.NewVecDense(len(data), data), nil
}

var _ environment.Environment = (*Env)(nil)
