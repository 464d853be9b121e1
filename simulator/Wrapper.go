package simulator

import "fmt"

// Wrapper creates a new Simulator stage around an existing Simulator.
// Each stage forwards or transforms the Reset and Step calls of the
// Simulator it wraps.
type Wrapper func(Simulator) (Simulator, error)

// Chain applies wrappers to sim in order, so that the last wrapper
// becomes the outermost stage
func Chain(sim Simulator, wrappers ...Wrapper) (Simulator, error) {
	for i, wrap := range wrappers {
		wrapped, err := wrap(sim)
		if err != nil {
			return nil, fmt.Errorf("chain: could not apply wrapper %v: %w",
				i, err)
		}
		sim = wrapped
	}
	return sim, nil
}

// Wrapped is embedded by Simulator stages. It forwards every call to
// the wrapped Simulator so that a stage need only override the calls
// it transforms.
type Wrapped struct {
	Simulator
}

// Unwrap returns the wrapped Simulator
func (w Wrapped) Unwrap() Simulator {
	return w.Simulator
}
