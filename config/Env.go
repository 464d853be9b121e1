package config

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/environment/atari"
	"github.com/samuelfneumann/rlcore/environment/gym"
	"github.com/samuelfneumann/rlcore/simulator"
)

// EnvKind stores the kinds of environments that can be configured
type EnvKind string

// Environment kinds available for configuration
const (
	Gym   EnvKind = "Gym"
	Atari EnvKind = "Atari"
)

// Env configures an environment. A zero Gamma is replaced by 0.99.
// Horizon is only used by Gym environments, since Atari episodes are
// only ended by the game.
type Env struct {
	Kind            EnvKind
	Name            string
	Horizon         int
	Gamma           float64
	HeadlessPhysics bool
	Options         map[string]interface{}

	// Atari configures Atari environments and is ignored otherwise. If
	// nil, atari.DefaultConfig is used.
	Atari *AtariEnv `json:",omitempty"`
}

// AtariEnv configures the frame pipeline of an Atari environment. If
// Width and Height are zero, observations are full colour frames. A
// zero HistoryLength is replaced by the default history length.
type AtariEnv struct {
	Width         int
	Height        int
	EndsAtLife    bool
	HistoryLength int
	FrameSkip     int

	// MaxPooling and MaxNoOpActions keep the defaults of
	// atari.DefaultConfig when omitted
	MaxPooling     *bool `json:",omitempty"`
	MaxNoOpActions *int  `json:",omitempty"`

	// RAMLabels annotates augmented games with labels read from the
	// console RAM, keyed by game and then label
	RAMLabels map[string]map[string]int `json:",omitempty"`
}

// Validate returns an error if the Env is invalid
func (e Env) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("validate: environment name must be set")
	}
	if e.Gamma < 0 || e.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in (0, 1], got %v", e.Gamma)
	}
	if e.Horizon < 0 {
		return fmt.Errorf("validate: horizon must be non-negative, got %v",
			e.Horizon)
	}

	switch e.Kind {
	case Gym:
		return nil
	case Atari:
		if e.Atari == nil {
			return nil
		}
		a := e.Atari
		if (a.Width == 0) != (a.Height == 0) {
			return fmt.Errorf("validate: atari width and height must both " +
				"be set or both be zero")
		}
		if a.HistoryLength < 0 || a.FrameSkip < 0 ||
			(a.MaxNoOpActions != nil && *a.MaxNoOpActions < 0) {
			return fmt.Errorf("validate: atari history length, no-op " +
				"actions, and frame skip must be non-negative")
		}
		return nil
	default:
		return fmt.Errorf("validate: no such environment kind %q", e.Kind)
	}
}

// Create returns the environment described by the Env, constructed
// from the simulators of reg
func (e Env) Create(reg *simulator.Registry, logger *log.Logger,
	seed uint64) (environment.Environment, error) {
	gamma := e.Gamma
	if gamma == 0 {
		gamma = 0.99
	}

	switch e.Kind {
	case Gym:
		env, err := gym.New(reg, e.Name, gym.Config{
			Horizon:         e.Horizon,
			Gamma:           gamma,
			HeadlessPhysics: e.HeadlessPhysics,
			Options:         e.Options,
			Logger:          logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		return env, nil

	case Atari:
		env, err := atari.New(reg, e.Name, e.atariConfig(gamma, logger, seed))
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		return env, nil
	}

	return nil, fmt.Errorf("create: cannot create environment %v, no such "+
		"environment kind %q", e.Name, e.Kind)
}

// atariConfig returns the configuration of an Atari environment
func (e Env) atariConfig(gamma float64, logger *log.Logger,
	seed uint64) atari.Config {
	c := atari.DefaultConfig()
	c.Gamma = gamma
	c.Seed = seed
	c.Logger = logger
	if e.Atari == nil {
		return c
	}

	a := e.Atari
	c.Width, c.Height = a.Width, a.Height
	c.EndsAtLife = a.EndsAtLife
	if a.MaxPooling != nil {
		c.MaxPooling = *a.MaxPooling
	}
	if a.HistoryLength > 0 {
		c.HistoryLength = a.HistoryLength
	}
	if a.MaxNoOpActions != nil {
		c.MaxNoOpActions = *a.MaxNoOpActions
	}
	c.FrameSkip = a.FrameSkip
	if len(a.RAMLabels) > 0 {
		c.Annotator = atari.RAMAnnotator{Labels: a.RAMLabels}
	}
	return c
}
