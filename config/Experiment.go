// Package config provides JSON serializable configurations of
// experiments, which describe the environment, agent, and run budgets
// of an experiment
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/core"
	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/spaces"
	"gonum.org/v1/gonum/mat"
)

// BackendKind stores the kinds of simulator backends
type BackendKind string

// Simulator backends available for configuration
const (
	GymHTTP BackendKind = "gymhttp"
	GoGym   BackendKind = "gogym"
)

// Backend configures where simulators are run
type Backend struct {
	Kind BackendKind

	// URL of a gym-http-api server for the gymhttp backend
	URL string `json:",omitempty"`
}

// Evaluate configures the evaluation run after each epoch. Exactly one
// of Steps, Episodes, InitialStates, and Starts must be set.
type Evaluate struct {
	Steps         int
	Episodes      int
	InitialStates [][]float64 `json:",omitempty"`

	// Starts runs this many episodes, each from an initial state
	// sampled uniformly from the observation space
	Starts int `json:",omitempty"`

	Render        bool
	RenderMode    string `json:",omitempty"`
	FinishEpisode bool
}

// Core returns the evaluation configuration of the episode
// orchestration engine for the environment described by info. Initial
// states for Starts are sampled with seed, so every evaluation of an
// experiment starts from the same states.
func (e Evaluate) Core(info environment.MDPInfo,
	seed uint64) (core.EvaluateConfig, error) {
	var initial []mat.Vector
	for _, s := range e.InitialStates {
		initial = append(initial, mat.NewVecDense(len(s), s))
	}

	if e.Starts > 0 {
		starter, err := newStarter(info.ObservationSpace(), seed)
		if err != nil {
			return core.EvaluateConfig{}, fmt.Errorf("core: %v", err)
		}
		initial = environment.Starts(starter, e.Starts)
	}

	return core.EvaluateConfig{
		Steps:         e.Steps,
		Episodes:      e.Episodes,
		InitialStates: initial,
		Render:        e.Render,
		RenderMode:    e.RenderMode,
		FinishEpisode: e.FinishEpisode,
	}, nil
}

// newStarter returns a Starter sampling uniformly from an observation
// space. Box spaces must be bounded.
func newStarter(obs spaces.Space, seed uint64) (environment.Starter,
	error) {
	switch s := obs.(type) {
	case *spaces.Discrete:
		return environment.NewCategoricalStarter([]int{s.N()}, seed)

	case *spaces.Box:
		low, high := s.Low(), s.High()
		for i := 0; i < low.Len(); i++ {
			if math.IsInf(low.AtVec(i), 0) || math.IsInf(high.AtVec(i), 0) {
				return nil, fmt.Errorf("newStarter: cannot sample from "+
					"unbounded dimension %v of the observation space", i)
			}
		}
		return environment.NewUniformStarterFromBox(low, high, seed)
	}

	return nil, fmt.Errorf("newStarter: cannot sample from observation "+
		"space %v", obs)
}

// Experiment configures an experiment. An experiment first evaluates
// the agent, and then alternates between learning and evaluation for
// each epoch.
type Experiment struct {
	Name       string
	Seed       uint64
	ResultsDir string
	Backend    Backend
	Env        Env
	Epochs     int
	Learn      core.LearnConfig
	Evaluate   Evaluate
	Agent      agent.TypedConfig
}

// Load loads and validates the experiment configuration at path
func Load(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("load: could not read config: %v", err)
	}

	var e Experiment
	if err := json.Unmarshal(data, &e); err != nil {
		return Experiment{}, fmt.Errorf("load: could not decode config: %v",
			err)
	}
	if err := e.Validate(); err != nil {
		return Experiment{}, fmt.Errorf("load: %v", err)
	}
	return e, nil
}

// Validate returns an error if the Experiment is invalid
func (e Experiment) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("validate: experiment name must be set")
	}
	if e.Epochs <= 0 {
		return fmt.Errorf("validate: epochs must be positive, got %v",
			e.Epochs)
	}

	switch e.Backend.Kind {
	case GymHTTP, GoGym:
	default:
		return fmt.Errorf("validate: no such backend %q", e.Backend.Kind)
	}

	if err := e.Env.Validate(); err != nil {
		return err
	}

	if count(e.Learn.Steps, e.Learn.Episodes) != 1 ||
		count(e.Learn.StepsPerFit, e.Learn.EpisodesPerFit) != 1 {
		return fmt.Errorf("validate: learn: %w", core.ErrInvalidBudget)
	}
	if count(e.Evaluate.Steps, e.Evaluate.Episodes,
		len(e.Evaluate.InitialStates), e.Evaluate.Starts) != 1 {
		return fmt.Errorf("validate: evaluate: %w", core.ErrInvalidBudget)
	}

	if e.Agent.Config == nil {
		return fmt.Errorf("validate: agent must be configured")
	}
	if err := e.Agent.Validate(); err != nil {
		return fmt.Errorf("validate: agent: %v", err)
	}
	return nil
}

// count returns the number of positive values
func count(values ...int) int {
	n := 0
	for _, v := range values {
		if v > 0 {
			n++
		}
	}
	return n
}
