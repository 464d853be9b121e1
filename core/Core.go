// Package core implements the episode orchestration engine, which
// drives the interaction between an agent and an environment
package core

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/dataset"
	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/timestep"
	"github.com/samuelfneumann/rlcore/utils/progressbar"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidBudget is returned when a run is requested with an
// ambiguous or missing budget
var ErrInvalidBudget = errors.New("invalid run budget")

const progressWidth = 40

// LearnConfig configures a learning run. Exactly one of Steps and
// Episodes must be positive, as must exactly one of StepsPerFit and
// EpisodesPerFit.
type LearnConfig struct {
	Steps    int
	Episodes int

	StepsPerFit    int
	EpisodesPerFit int

	Render     bool
	RenderMode string

	// FinishEpisode keeps stepping past the budget until the current
	// episode ends
	FinishEpisode bool
}

// EvaluateConfig configures an evaluation run. Exactly one of Steps,
// Episodes, and InitialStates must be set. When InitialStates is set,
// one episode is run from each initial state.
type EvaluateConfig struct {
	Steps         int
	Episodes      int
	InitialStates []mat.Vector

	Render     bool
	RenderMode string

	FinishEpisode bool
}

// run describes a single learning or evaluation run
type run struct {
	name           string
	steps          int
	episodes       int
	stepsPerFit    int
	episodesPerFit int
	initialStates  []mat.Vector
	render         bool
	renderMode     string
	finishEpisode  bool
}

// Core runs an agent on an environment, collecting transitions and
// fitting the agent on batches of them
type Core struct {
	agent agent.Agent
	env   environment.Environment

	fitCallbacks  []FitCallback
	stepCallbacks []StepCallback
	preprocessors []Preprocessor
	logger        *log.Logger
	progress      io.Writer
	sink          FrameSink

	status Status
	state  mat.Vector

	totalSteps      int
	totalEpisodes   int
	currentSteps    int
	currentEpisodes int
	episodeSteps    int
}

// New returns a new Core which runs agent on env
func New(a agent.Agent, env environment.Environment, opts ...Option) *Core {
	c := &Core{
		agent:  a,
		env:    env,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns the current status of the Core
func (c *Core) Status() Status {
	return c.status
}

// Learn runs the agent on the environment, fitting the agent each time
// the configured number of steps or episodes has been collected.
// Transitions collected after the last fit are discarded.
func (c *Core) Learn(config LearnConfig) error {
	if countSet(config.Steps, config.Episodes) != 1 {
		return fmt.Errorf("learn: exactly one of steps and episodes "+
			"must be positive: %w", ErrInvalidBudget)
	}
	if countSet(config.StepsPerFit, config.EpisodesPerFit) != 1 {
		return fmt.Errorf("learn: exactly one of steps per fit and "+
			"episodes per fit must be positive: %w", ErrInvalidBudget)
	}

	_, err := c.run(run{
		name:           "learn",
		steps:          config.Steps,
		episodes:       config.Episodes,
		stepsPerFit:    config.StepsPerFit,
		episodesPerFit: config.EpisodesPerFit,
		render:         config.Render,
		renderMode:     config.RenderMode,
		finishEpisode:  config.FinishEpisode,
	})
	return err
}

// Evaluate runs the agent on the environment without fitting it and
// returns the collected transitions
func (c *Core) Evaluate(config EvaluateConfig) (dataset.Dataset, error) {
	if countSet(config.Steps, config.Episodes,
		len(config.InitialStates)) != 1 {
		return nil, fmt.Errorf("evaluate: exactly one of steps, "+
			"episodes, and initial states must be set: %w",
			ErrInvalidBudget)
	}

	return c.run(run{
		name:          "evaluate",
		steps:         config.Steps,
		episodes:      config.Episodes,
		initialStates: config.InitialStates,
		render:        config.Render,
		renderMode:    config.RenderMode,
		finishEpisode: config.FinishEpisode,
	})
}

// Close stops the environment
func (c *Core) Close() {
	c.env.Stop()
}

// run runs the agent until the budget of r is exhausted
func (c *Core) run(r run) (dataset.Dataset, error) {
	if r.renderMode == "" {
		r.renderMode = "human"
		if c.sink != nil {
			r.renderMode = "rgb_array"
		}
	}
	if len(r.initialStates) > 0 {
		r.episodes = len(r.initialStates)
	}

	c.totalSteps, c.totalEpisodes = 0, 0
	c.currentSteps, c.currentEpisodes = 0, 0

	var bar *progressbar.ManualProgressBar
	if c.progress != nil {
		if r.steps > 0 {
			bar = progressbar.NewManualProgressBar(c.progress, r.name+" steps",
				progressWidth, r.steps)
		} else {
			bar = progressbar.NewManualProgressBar(c.progress,
				r.name+" episodes", progressWidth, r.episodes)
		}
		defer bar.Close()
	}

	c.status = RunningEpisode
	defer func() { c.status = Idle }()
	defer c.agent.Stop()

	horizon := c.env.Info().Horizon()
	var batch dataset.Dataset
	last := true
	for c.moveCondition(r) || (r.finishEpisode && !last) {
		if last {
			if err := c.reset(r.initialStates); err != nil {
				return batch, fmt.Errorf("%v: %w", r.name, err)
			}
		}

		t, err := c.step(horizon, r)
		if err != nil {
			return batch, fmt.Errorf("%v: %w", r.name, err)
		}
		for _, callback := range c.stepCallbacks {
			callback(t)
		}

		c.totalSteps++
		c.currentSteps++
		if t.Last {
			c.totalEpisodes++
			c.currentEpisodes++
		}
		if bar != nil && (r.steps > 0 || t.Last) {
			bar.Increment()
			bar.Display()
		}

		batch = append(batch, t)
		if c.fitCondition(r) {
			if err := c.fit(batch); err != nil {
				return nil, fmt.Errorf("%v: %w", r.name, err)
			}
			c.currentSteps, c.currentEpisodes = 0, 0
			batch = nil
		}
		last = t.Last
	}

	c.logger.Printf("%v: %v steps, %v episodes", r.name, c.totalSteps,
		c.totalEpisodes)

	return batch, nil
}

// moveCondition returns whether the budget of r remains
func (c *Core) moveCondition(r run) bool {
	if r.steps > 0 {
		return c.totalSteps < r.steps
	}
	return c.totalEpisodes < r.episodes
}

// fitCondition returns whether the agent should be fit on the current
// batch
func (c *Core) fitCondition(r run) bool {
	switch {
	case r.stepsPerFit > 0:
		return c.currentSteps >= r.stepsPerFit
	case r.episodesPerFit > 0:
		return c.currentEpisodes >= r.episodesPerFit
	default:
		return false
	}
}

// fit fits the agent on batch and calls the fit callbacks
func (c *Core) fit(batch dataset.Dataset) error {
	c.status = FittingBatch
	defer func() { c.status = RunningEpisode }()

	if err := c.agent.Fit(batch); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	for _, callback := range c.fitCallbacks {
		if err := callback(batch); err != nil {
			return fmt.Errorf("fit callback: %w", err)
		}
	}
	return nil
}

// reset starts a new episode, from the next initial state if one
// remains
func (c *Core) reset(initialStates []mat.Vector) error {
	var initial mat.Vector
	if c.totalEpisodes < len(initialStates) {
		initial = initialStates[c.totalEpisodes]
	}

	c.agent.EpisodeStart()
	obs, err := c.env.Reset(initial)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	c.state = c.preprocess(obs)
	c.episodeSteps = 0
	return nil
}

// step takes a single step in the environment
func (c *Core) step(horizon int, r run) (timestep.Transition, error) {
	action, err := c.agent.DrawAction(c.state)
	if err != nil {
		return timestep.Transition{}, fmt.Errorf("draw action: %w", err)
	}

	result, err := c.env.Step(action)
	if err != nil {
		return timestep.Transition{}, fmt.Errorf("step: %w", err)
	}
	c.episodeSteps++

	if r.render {
		img, err := c.env.Render(r.renderMode)
		if err != nil {
			return timestep.Transition{}, fmt.Errorf("render: %w", err)
		}
		if c.sink != nil && img != nil {
			if err := c.sink.Frame(img); err != nil {
				return timestep.Transition{}, fmt.Errorf("render: %w", err)
			}
		}
	}

	last := c.episodeSteps >= horizon || result.Absorbing
	next := c.preprocess(result.Observation)

	t := timestep.New(c.state, action, result.Reward, next,
		result.Absorbing, last, c.episodeSteps)
	c.state = next
	return t, nil
}

// preprocess applies each preprocessor to obs
func (c *Core) preprocess(obs mat.Vector) mat.Vector {
	for _, p := range c.preprocessors {
		obs = p(obs)
	}
	return obs
}

// countSet returns the number of positive values
func countSet(values ...int) int {
	n := 0
	for _, v := range values {
		if v > 0 {
			n++
		}
	}
	return n
}
