package atari

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/rlcore/simulator"
	"gonum.org/v1/gonum/floats"
)

// MaxAndSkip is a simulator stage which repeats each action for a
// number of raw steps. It returns the summed reward of the raw steps
// and a frame pooled from the last two raw frames, either by the
// element-wise maximum or by the element-wise mean.
//
// The pooled frames persist between steps, so if an episode ends
// before the last two raw steps of a skip, stale frames from earlier
// steps are pooled.
type MaxAndSkip struct {
	simulator.Wrapped

	skip       int
	maxPooling bool
	buffer     [2][]float64
}

// NewMaxAndSkip returns a simulator.Wrapper which wraps a simulator in
// a MaxAndSkip stage
func NewMaxAndSkip(skip int, maxPooling bool) simulator.Wrapper {
	return func(sim simulator.Simulator) (simulator.Simulator, error) {
		if skip <= 0 {
			return nil, fmt.Errorf("newMaxAndSkip: skip must be positive "+
				"but got %v", skip)
		}
		return &MaxAndSkip{
			Wrapped:    simulator.Wrapped{Simulator: sim},
			skip:       skip,
			maxPooling: maxPooling,
		}, nil
	}
}

// Step implements simulator.Simulator
func (m *MaxAndSkip) Step(action interface{}) (simulator.Observation,
	float64, bool, simulator.Info, error) {
	var (
		obs   simulator.Observation
		done  bool
		info  simulator.Info
		total float64
	)

	for i := 0; i < m.skip; i++ {
		var reward float64
		var err error
		obs, reward, done, info, err = m.Simulator.Step(action)
		if err != nil {
			return simulator.Observation{}, 0, false, nil, err
		}

		if i == m.skip-2 {
			m.capture(0, obs.Data)
		}
		if i == m.skip-1 {
			m.capture(1, obs.Data)
		}
		total += reward

		if done {
			break
		}
	}

	m.ensure(obs.Len())
	pooled := make([]float64, obs.Len())
	if m.maxPooling {
		for i := range pooled {
			pooled[i] = math.Max(m.buffer[0][i], m.buffer[1][i])
		}
	} else {
		floats.AddTo(pooled, m.buffer[0], m.buffer[1])
		floats.Scale(0.5, pooled)
	}

	shape := make([]int, len(obs.Shape))
	copy(shape, obs.Shape)
	return simulator.Observation{Data: pooled, Shape: shape}, total, done,
		info, nil
}

// capture copies a raw frame into slot i of the frame buffer
func (m *MaxAndSkip) capture(i int, data []float64) {
	m.ensure(len(data))
	copy(m.buffer[i], data)
}

// ensure allocates zeroed frame buffers of length n if needed
func (m *MaxAndSkip) ensure(n int) {
	for i := range m.buffer {
		if len(m.buffer[i]) != n {
			m.buffer[i] = make([]float64, n)
		}
	}
}
