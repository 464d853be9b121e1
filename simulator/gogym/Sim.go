//go:build gogym

package gogym

import (
	"fmt"
	"math"

	python "github.com/DataDog/go-python3"
	"github.com/samuelfneumann/gogym"
	"github.com/samuelfneumann/rlcore/simulator"
	"gonum.org/v1/gonum/mat"
)

// Sim is a simulator.Simulator running a Gym environment in the
// embedded Python interpreter. Sim implements simulator.StateSetter and
// simulator.TimeLimiter.
type Sim struct {
	env    gogym.Environment
	name   string
	closed bool

	actionSpace      simulator.Space
	observationSpace simulator.Space
}

// Make returns a new Sim running the Gym environment name, seeded with
// seed
func Make(name string, seed int) (*Sim, error) {
	env, err := gogym.Make(name)
	if err != nil {
		return nil, fmt.Errorf("make: could not create environment: %v", err)
	}
	if _, err := env.Seed(seed); err != nil {
		env.Close()
		return nil, fmt.Errorf("make: could not seed environment: %v", err)
	}

	return &Sim{
		env:              env,
		name:             name,
		actionSpace:      convertSpace(env.ActionSpace()),
		observationSpace: convertSpace(env.ObservationSpace()),
	}, nil
}

// Factory returns a simulator.Factory creating Sims. The "seed" option
// sets the seed of each simulator.
func Factory(seed int) simulator.Factory {
	return func(name string, opts map[string]interface{}) (
		simulator.Simulator, error) {
		s := seed
		switch v := opts["seed"].(type) {
		case int:
			s = v
		case float64:
			s = int(v)
		}
		return Make(name, s)
	}
}

// Shutdown closes all open simulators and finalises the Python
// interpreter. No simulator can be created afterwards.
func Shutdown() {
	gogym.Close()
}

// convertSpace describes a GoGym space. Spaces other than Box and
// Discrete are described only by their kind.
func convertSpace(space gogym.Space) simulator.Space {
	switch space.(type) {
	case *gogym.DiscreteSpace:
		return simulator.Space{
			Kind: simulator.DiscreteKind,
			N:    int(space.High()[0].AtVec(0)) + 1,
		}

	case *gogym.BoxSpace:
		low, high := space.Low()[0], space.High()[0]
		return simulator.Space{
			Kind:  simulator.BoxKind,
			Shape: []int{low.Len()},
			Low:   append([]float64(nil), low.RawVector().Data...),
			High:  append([]float64(nil), high.RawVector().Data...),
		}

	case nil:
		return simulator.Space{Kind: "Unsupported"}

	default:
		return simulator.Space{Kind: fmt.Sprintf("%T", space)}
	}
}

// Reset implements simulator.Simulator
func (s *Sim) Reset() (simulator.Observation, error) {
	if s.closed {
		return simulator.Observation{}, simulator.ErrClosed
	}
	obs, err := s.env.Reset()
	if err != nil {
		return simulator.Observation{}, fmt.Errorf("reset: %v", err)
	}
	return observation(obs), nil
}

// Step implements simulator.Simulator. GoGym does not return step
// information, so the returned Info is always empty.
func (s *Sim) Step(action interface{}) (simulator.Observation, float64,
	bool, simulator.Info, error) {
	if s.closed {
		return simulator.Observation{}, 0, false, nil, simulator.ErrClosed
	}

	var a *mat.VecDense
	switch action := action.(type) {
	case int:
		a = mat.NewVecDense(1, []float64{float64(action)})
	case []float64:
		a = mat.NewVecDense(len(action), append([]float64(nil), action...))
	default:
		return simulator.Observation{}, 0, false, nil, fmt.Errorf("step: "+
			"unsupported action type %T", action)
	}

	obs, reward, done, err := s.env.Step(a)
	if err != nil {
		return simulator.Observation{}, 0, false, nil, fmt.Errorf("step: %v",
			err)
	}
	return observation(obs), reward, done, simulator.Info{}, nil
}

// Render implements simulator.Simulator. The "rgb_array" mode returns
// the rendered frame.
func (s *Sim) Render(mode string) (simulator.Observation, error) {
	if s.closed {
		return simulator.Observation{}, simulator.ErrClosed
	}

	arg := python.PyUnicode_FromString(mode)
	defer arg.DecRef()
	frame := s.env.Env().CallMethodArgs("render", arg)
	if frame == nil {
		if python.PyErr_Occurred() != nil {
			python.PyErr_Print()
		}
		return simulator.Observation{}, fmt.Errorf("render: could not "+
			"render in mode %v", mode)
	}
	defer frame.DecRef()
	if mode != "rgb_array" {
		return simulator.Observation{}, nil
	}

	shape := frame.GetAttrString("shape")
	defer shape.DecRef()
	dims, err := gogym.IntSliceFromIter(shape)
	if err != nil {
		return simulator.Observation{}, fmt.Errorf("render: %v", err)
	}

	flat := frame.CallMethodArgs("flatten")
	if flat == nil {
		return simulator.Observation{}, fmt.Errorf("render: could not " +
			"flatten frame")
	}
	defer flat.DecRef()
	data, err := gogym.F64SliceFromIter(flat)
	if err != nil {
		return simulator.Observation{}, fmt.Errorf("render: %v", err)
	}
	return simulator.Observation{Data: data, Shape: dims}, nil
}

// Close implements simulator.Simulator
func (s *Sim) Close() error {
	if s.closed {
		return simulator.ErrClosed
	}
	s.closed = true
	s.env.Close()
	return nil
}

// ActionSpace implements simulator.Simulator
func (s *Sim) ActionSpace() simulator.Space {
	return s.actionSpace
}

// ObservationSpace implements simulator.Simulator
func (s *Sim) ObservationSpace() simulator.Space {
	return s.observationSpace
}

// SetState implements simulator.StateSetter by overwriting the state
// attribute of the unwrapped Gym environment
func (s *Sim) SetState(state []float64) error {
	unwrapped := s.env.Env().GetAttrString("unwrapped")
	if unwrapped == nil {
		return fmt.Errorf("setState: %w", simulator.ErrStateUnsupported)
	}
	defer unwrapped.DecRef()

	list := python.PyList_New(len(state))
	for i, v := range state {
		if python.PyList_SetItem(list, i, python.PyFloat_FromDouble(v)) != 0 {
			list.DecRef()
			return fmt.Errorf("setState: could not build state list")
		}
	}
	defer list.DecRef()

	if unwrapped.SetAttrString("state", list) != 0 {
		return fmt.Errorf("setState: %w", simulator.ErrStateUnsupported)
	}
	return nil
}

// DisableTimeLimit implements simulator.TimeLimiter by setting the
// maximum episode steps of the Gym environment to infinity
func (s *Sim) DisableTimeLimit() error {
	inf := python.PyFloat_FromDouble(math.Inf(1))
	defer inf.DecRef()

	if s.env.Env().SetAttrString("_max_episode_steps", inf) != 0 {
		return fmt.Errorf("disableTimeLimit: could not set maximum episode " +
			"steps")
	}
	return nil
}

func observation(obs *mat.VecDense) simulator.Observation {
	data := make([]float64, obs.Len())
	for i := range data {
		data[i] = obs.AtVec(i)
	}
	return simulator.Observation{Data: data, Shape: []int{len(data)}}
}
