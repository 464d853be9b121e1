// Package atari adapts Atari games to the uniform stepping contract of
// package environment, following the evaluation conventions of
// "Human-level control through deep reinforcement learning" by Mnih
// et al. (2015): random no-op starts, firing to start games which
// require it, optional life-loss episode ends, frame skipping with
// pooling, and stacked preprocessed frames as observations.
package atari

import (
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"strings"

	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/frames"
	"github.com/samuelfneumann/rlcore/simulator"
	"github.com/samuelfneumann/rlcore/spaces"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Raw frame shape used when a simulator does not describe its frames
var defaultFrameShape = []int{210, 160, 3}

// Config configures an Atari environment
type Config struct {
	// Width and Height of preprocessed frames. If both are zero,
	// frames are not preprocessed and observations are full colour
	// frames.
	Width  int
	Height int

	// EndsAtLife ends episodes whenever a life is lost
	EndsAtLife bool

	// MaxPooling pools the last two raw frames of a frame skip by the
	// element-wise maximum instead of the element-wise mean
	MaxPooling bool

	// HistoryLength is the number of stacked frames in an observation
	HistoryLength int

	// MaxNoOpActions is the maximum number of NOOP actions taken at
	// the start of each episode
	MaxNoOpActions int

	// FrameSkip is the number of raw steps taken per step for
	// NoFrameskip games. If zero, HistoryLength is used.
	FrameSkip int

	Gamma float64

	// Annotator is required by augmented games
	Annotator Annotator

	Seed   uint64
	Logger *log.Logger
}

// DefaultConfig returns the standard configuration of Atari
// environments
func DefaultConfig() Config {
	return Config{
		Width:          84,
		Height:         84,
		MaxPooling:     true,
		HistoryLength:  4,
		MaxNoOpActions: 30,
		Gamma:          0.99,
	}
}

// Atari is an environment running an Atari game. Observations are
// *frames.LazyFrames of the last HistoryLength preprocessed frames.
//
// An Atari environment is either awaiting a real reset, after the game
// has ended, or playing. Resets while playing (after a life is lost in
// games configured to end episodes at each life) continue the current
// game rather than restarting it.
type Atari struct {
	name   string
	sim    simulator.Simulator
	raw    simulator.Simulator
	arcade simulator.Arcade
	info   environment.MDPInfo

	meanings   []string
	pre        frames.Preprocessor
	history    *frames.History
	augmented  bool
	endsAtLife bool

	maxLives       int
	lives          int
	forceFire      bool
	realReset      bool
	maxNoOpActions int
	noOps          int
	stopped        bool

	rng    *rand.Rand
	logger *log.Logger
}

// New returns a new Atari environment running the game name. The
// simulator used depends on the name:
//
//	- names containing "NoFrameskip" are wrapped in a MaxAndSkip stage
//	- names containing "-Augmented" are run in augmented mode, where
//	  the Annotator wraps supported games and raw frames are returned
//	  in each step Result
//	- all other names are used as is
func New(reg *simulator.Registry, name string, c Config) (*Atari, error) {
	if c.HistoryLength <= 0 {
		return nil, fmt.Errorf("new: history length must be positive but "+
			"got %v", c.HistoryLength)
	}
	if c.MaxNoOpActions < 0 {
		return nil, fmt.Errorf("new: maximum no-op actions must be "+
			"non-negative but got %v", c.MaxNoOpActions)
	}
	if c.Width < 0 || c.Height < 0 {
		return nil, fmt.Errorf("new: invalid frame size %vx%v", c.Width,
			c.Height)
	}
	skip := c.FrameSkip
	if skip == 0 {
		skip = c.HistoryLength
	}
	logger := c.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	var (
		sim       simulator.Simulator
		err       error
		augmented bool
	)
	switch {
	case strings.Contains(name, "NoFrameskip"):
		sim, err = reg.Make(name, nil)
		if err == nil {
			sim, err = closeOnError(sim, NewMaxAndSkip(skip, c.MaxPooling))
		}

	case strings.Contains(name, augmentedSuffix):
		if c.Annotator == nil {
			return nil, &simulator.Error{Op: "new", Name: name,
				Err: ErrMissingAnnotator}
		}
		name = strings.Replace(name, augmentedSuffix, "", 1)
		augmented = true

		sim, err = reg.Make(name, nil)
		if err == nil && c.Annotator.Supports(name) {
			sim, err = closeOnError(sim, func(
				s simulator.Simulator) (simulator.Simulator, error) {
				return c.Annotator.Wrap(name, s)
			})
		}

	default:
		sim, err = reg.Make(name, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("new: could not create simulator: %w", err)
	}

	a, err := newAtari(name, sim, c, augmented, logger)
	if err != nil {
		if closeErr := sim.Close(); closeErr != nil {
			logger.Printf("new: could not close simulator %v: %v", name,
				closeErr)
		}
		return nil, err
	}
	return a, nil
}

func newAtari(name string, sim simulator.Simulator, c Config,
	augmented bool, logger *log.Logger) (*Atari, error) {
	found := simulator.Find(sim, func(s simulator.Simulator) bool {
		_, ok := s.(simulator.Arcade)
		return ok
	})
	if found == nil {
		return nil, &simulator.Error{Op: "new", Name: name, Err: ErrNotArcade}
	}
	arcade := found.(simulator.Arcade)

	meanings := arcade.ActionMeanings()
	if len(meanings) == 0 || meanings[0] != "NOOP" {
		return nil, &simulator.Error{Op: "new", Name: name, Err: ErrNoNoop}
	}

	actions := sim.ActionSpace()
	if actions.Kind != simulator.DiscreteKind {
		return nil, &simulator.Error{Op: "new", Name: name,
			Err: fmt.Errorf("action space: %w: %v",
				simulator.ErrUnsupportedSpace, actions.Kind)}
	}
	actionSpace, err := spaces.NewDiscrete(actions.N)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	pre := frames.Preprocessor{Width: c.Width, Height: c.Height}
	rawShape := sim.ObservationSpace().Shape
	if len(rawShape) != 3 {
		rawShape = defaultFrameShape
	}
	shape := append([]int{c.HistoryLength}, pre.Shape(rawShape)...)
	obsSpace, err := spaces.NewUniformBox(0, 255, shape...)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	// Episodes end through the game or its time limit
	info, err := environment.NewMDPInfo(obsSpace, actionSpace, c.Gamma,
		environment.Unbounded)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	history, err := frames.NewHistory(c.HistoryLength)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	// Priming actions bypass the outermost stage, like frame skipping
	raw := sim
	if u, ok := sim.(simulator.Unwrapper); ok {
		raw = u.Unwrap()
	}

	return &Atari{
		name:           name,
		sim:            sim,
		raw:            raw,
		arcade:         arcade,
		info:           info,
		meanings:       meanings,
		pre:            pre,
		history:        history,
		augmented:      augmented,
		endsAtLife:     c.EndsAtLife,
		maxLives:       arcade.Lives(),
		lives:          arcade.Lives(),
		realReset:      true,
		maxNoOpActions: c.MaxNoOpActions,
		rng:            rand.New(rand.NewSource(c.Seed)),
		logger:         logger,
	}, nil
}

// closeOnError applies wrap to sim, closing sim if wrapping fails
func closeOnError(sim simulator.Simulator,
	wrap simulator.Wrapper) (simulator.Simulator, error) {
	wrapped, err := wrap(sim)
	if err != nil {
		sim.Close()
		return nil, err
	}
	return wrapped, nil
}

// Info implements the environment.Environment interface
func (a *Atari) Info() environment.MDPInfo {
	return a.info
}

// Augmented returns whether the environment runs in augmented mode
func (a *Atari) Augmented() bool {
	return a.augmented
}

// SetEpisodeEnd sets whether episodes end whenever a life is lost
func (a *Atari) SetEpisodeEnd(endsAtLife bool) {
	a.endsAtLife = endsAtLife
}

// Reset implements the environment.Environment interface. Atari games
// cannot be started in arbitrary states, so state is ignored.
//
// If the previous game ended, the game is restarted and every frame of
// the history is set to the first frame. Otherwise the current game
// continues with its current history. In either case, a new number of
// no-op actions to take before the next action is drawn uniformly from
// [0, MaxNoOpActions].
func (a *Atari) Reset(state mat.Vector) (mat.Vector, error) {
	if a.stopped {
		return nil, fmt.Errorf("reset: %w", simulator.ErrClosed)
	}
	if state != nil {
		a.logger.Printf("reset: %v cannot be started in a given state, "+
			"ignoring state", a.name)
	}

	if a.realReset {
		obs, err := a.sim.Reset()
		if err != nil {
			return nil, fmt.Errorf("reset: could not reset simulator: %w",
				err)
		}
		frame, err := a.preprocess(obs)
		if err != nil {
			return nil, fmt.Errorf("reset: %v", err)
		}
		a.history.Fill(frame)
		a.lives = a.maxLives
	}

	a.forceFire = a.firesToStart()
	a.noOps = a.rng.Intn(a.maxNoOpActions + 1)

	return a.history.View(), nil
}

// Step implements the environment.Environment interface. The
// observation of the returned Result is a *frames.LazyFrames. In
// augmented mode, the Result also holds the raw frame.
func (a *Atari) Step(action *mat.VecDense) (environment.Result, error) {
	if a.stopped {
		return environment.Result{}, fmt.Errorf("step: %w",
			simulator.ErrClosed)
	}
	if a.history.Len() == 0 {
		return environment.Result{}, fmt.Errorf("step: environment must " +
			"be reset before stepping")
	}
	if action.Len() != 1 {
		return environment.Result{}, fmt.Errorf("step: actions must have "+
			"length 1 but got %v", action.Len())
	}
	act := int(math.Round(action.AtVec(0)))

	if err := a.prime(); err != nil {
		return environment.Result{}, fmt.Errorf("step: %w", err)
	}

	obs, reward, absorbing, info, err := a.sim.Step(act)
	if err != nil {
		return environment.Result{}, fmt.Errorf("step: could not step "+
			"simulator: %w", err)
	}
	a.realReset = absorbing

	lives, ok := livesOf(info)
	if !ok {
		lives = a.arcade.Lives()
	}
	if lives != a.lives {
		if a.endsAtLife {
			absorbing = true
		}
		a.lives = lives
		a.forceFire = a.firesToStart()
	}

	frame, err := a.preprocess(obs)
	if err != nil {
		return environment.Result{}, fmt.Errorf("step: %v", err)
	}
	a.history.Push(frame)

	result := environment.Result{
		Observation: a.history.View(),
		Reward:      reward,
		Absorbing:   absorbing,
		Info:        info,
	}
	if a.augmented {
		result.Raw = &obs
	}
	return result, nil
}

// prime takes the FIRE action if armed and any pending no-op actions,
// discarding their outcomes
func (a *Atari) prime() error {
	if a.forceFire {
		if _, _, _, _, err := a.raw.Step(1); err != nil {
			return fmt.Errorf("prime: could not fire: %w", err)
		}
		a.forceFire = false
	}
	for a.noOps > 0 {
		if _, _, _, _, err := a.raw.Step(0); err != nil {
			return fmt.Errorf("prime: could not take no-op: %w", err)
		}
		a.noOps--
	}
	return nil
}

// firesToStart returns whether the game needs the FIRE action to start
// play
func (a *Atari) firesToStart() bool {
	return len(a.meanings) > 1 && a.meanings[1] == "FIRE"
}

func (a *Atari) preprocess(obs simulator.Observation) (*frames.Frame,
	error) {
	frame, err := frames.FromObservation(obs)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %v", err)
	}
	return a.pre.Process(frame), nil
}

// livesOf returns the lives reported in step information
func livesOf(info simulator.Info) (int, bool) {
	switch lives := info["ale.lives"].(type) {
	case int:
		return lives, true
	case float64:
		return int(lives), true
	default:
		return 0, false
	}
}

// Render implements the environment.Environment interface
func (a *Atari) Render(mode string) (image.Image, error) {
	if a.stopped {
		return nil, fmt.Errorf("render: %w", simulator.ErrClosed)
	}
	obs, err := a.sim.Render(mode)
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

// Stop implements the environment.Environment interface
func (a *Atari) Stop() {
	if a.stopped {
		return
	}
	a.stopped = true
	a.realReset = true

	if err := a.sim.Close(); err != nil {
		a.logger.Printf("stop: could not close simulator %v: %v", a.name, err)
	}
}

func (a *Atari) String() string {
	return fmt.Sprintf("Atari | %v", a.name)
}

var _ environment.Environment = (*Atari)(nil)
