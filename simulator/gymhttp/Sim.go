package gymhttp

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/rlcore/simulator"
)

// Sim is a simulator.Simulator running on a Gym HTTP API server
type Sim struct {
	client *Client
	ctx    context.Context
	id     InstanceID
	name   string

	actionSpace      simulator.Space
	observationSpace simulator.Space

	renderNext bool
	closed     bool
}

// Make creates a new instance of the environment name on the server
func Make(ctx context.Context, client *Client, name string) (*Sim, error) {
	id, err := client.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("make: could not create %v: %w", name, err)
	}

	sim := &Sim{client: client, ctx: ctx, id: id, name: name}
	sim.actionSpace, err = client.ActionSpace(ctx, id)
	if err == nil {
		sim.observationSpace, err = client.ObservationSpace(ctx, id)
	}
	if err != nil {
		client.Close(ctx, id)
		return nil, fmt.Errorf("make: could not describe %v: %w", name, err)
	}
	return sim, nil
}

// Factory returns a simulator.Factory creating simulators on the server
// of client. Atari games with known action meanings are created as
// Arcade simulators.
func Factory(ctx context.Context, client *Client) simulator.Factory {
	return func(name string, _ map[string]interface{}) (simulator.Simulator,
		error) {
		if IsAtari(name) {
			return MakeArcade(ctx, client, name)
		}
		return Make(ctx, client, name)
	}
}

// ID returns the id of the instance on the server
func (s *Sim) ID() InstanceID {
	return s.id
}

// Reset implements simulator.Simulator
func (s *Sim) Reset() (simulator.Observation, error) {
	if s.closed {
		return simulator.Observation{}, simulator.ErrClosed
	}
	return s.client.Reset(s.ctx, s.id)
}

// Step implements simulator.Simulator. If Render was called with the
// "human" mode since the last step, the server renders this step.
func (s *Sim) Step(action interface{}) (simulator.Observation, float64,
	bool, simulator.Info, error) {
	if s.closed {
		return simulator.Observation{}, 0, false, nil, simulator.ErrClosed
	}

	render := s.renderNext
	s.renderNext = false
	r, err := s.client.Step(s.ctx, s.id, action, render)
	if err != nil {
		return simulator.Observation{}, 0, false, nil, err
	}
	return r.Observation, r.Reward, r.Done, r.Info, nil
}

// Render implements simulator.Simulator. The server only renders on
// steps, so Render schedules the next step to be rendered and returns
// an empty observation.
func (s *Sim) Render(mode string) (simulator.Observation, error) {
	if mode == "human" {
		s.renderNext = true
	}
	return simulator.Observation{}, nil
}

// Close implements simulator.Simulator
func (s *Sim) Close() error {
	if s.closed {
		return simulator.ErrClosed
	}
	s.closed = true
	return s.client.Close(s.ctx, s.id)
}

// ActionSpace implements simulator.Simulator
func (s *Sim) ActionSpace() simulator.Space {
	return s.actionSpace
}

// ObservationSpace implements simulator.Simulator
func (s *Sim) ObservationSpace() simulator.Space {
	return s.observationSpace
}

func (s *Sim) String() string {
	return fmt.Sprintf("%v (instance %v)", s.name, s.id)
}
