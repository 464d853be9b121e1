package gym_test

import (
	"errors"
	"testing"

	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/environment/gym"
	"github.com/samuelfneumann/rlcore/simulator"
	"github.com/samuelfneumann/rlcore/simulator/simtest"
	"github.com/samuelfneumann/rlcore/spaces"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// registry returns a registry which constructs sim under the name
// "Fake-v0"
func registry(sim simulator.Simulator) *simulator.Registry {
	reg := simulator.NewRegistry()
	reg.Register("Fake-v0", func(string, map[string]interface{}) (
		simulator.Simulator, error) {
		return sim, nil
	})
	return reg
}

func boxFake() *simtest.Fake {
	return &simtest.Fake{
		Actions:          simtest.Box([]float64{-1, -2}, []float64{1, 2}),
		Observations:     simtest.Box([]float64{0, 0, 0}, []float64{1, 1, 1}),
		ResetObservation: simtest.Vector(0.1, 0.2, 0.3),
	}
}

func discreteFake(n int) *simtest.Fake {
	f := boxFake()
	f.Actions = simtest.Discrete(n)
	return f
}

// plain hides every optional capability of the wrapped simulator
type plain struct {
	simulator.Simulator
}

func TestConvertSpace(t *testing.T) {
	d, err := gym.ConvertSpace(simtest.Discrete(4))
	if err != nil {
		t.Fatalf("convert discrete: %v", err)
	}
	discrete, ok := d.(*spaces.Discrete)
	if !ok || discrete.N() != 4 {
		t.Errorf("converted discrete space = %v, want Discrete(4)", d)
	}
	for i := -1; i <= 4; i++ {
		want := i >= 0 && i < 4
		if got := d.Contains(mat.NewVecDense(1, []float64{float64(i)})); got != want {
			t.Errorf("Contains(%v) = %v, want %v", i, got, want)
		}
	}

	low := []float64{-1, -2, -3, -4, -5, -6}
	high := []float64{1, 2, 3, 4, 5, 6}
	b, err := gym.ConvertSpace(simulator.Space{
		Kind:  simulator.BoxKind,
		Shape: []int{2, 3},
		Low:   low,
		High:  high,
	})
	if err != nil {
		t.Fatalf("convert box: %v", err)
	}
	box := b.(*spaces.Box)
	if !floats.Equal(box.Low().RawVector().Data, low) {
		t.Errorf("Low() = %v, want %v", box.Low().RawVector().Data, low)
	}
	if !floats.Equal(box.High().RawVector().Data, high) {
		t.Errorf("High() = %v, want %v", box.High().RawVector().Data, high)
	}
	if s := box.Shape(); len(s) != 2 || s[0] != 2 || s[1] != 3 {
		t.Errorf("Shape() = %v, want [2 3]", s)
	}

	unsupported := []string{
		simulator.MultiDiscreteKind,
		simulator.MultiBinaryKind,
		simulator.TupleKind,
		simulator.DictKind,
	}
	for _, kind := range unsupported {
		_, err := gym.ConvertSpace(simulator.Space{Kind: kind})
		if !errors.Is(err, simulator.ErrUnsupportedSpace) {
			t.Errorf("convert %v: err = %v, want ErrUnsupportedSpace", kind,
				err)
		}
	}
}

func TestNewRejectsComposite(t *testing.T) {
	sim := boxFake()
	sim.Observations = simulator.Space{Kind: simulator.TupleKind}

	_, err := gym.New(registry(sim), "Fake-v0", gym.Config{Gamma: 0.99})
	if !errors.Is(err, simulator.ErrUnsupportedSpace) {
		t.Errorf("New() err = %v, want ErrUnsupportedSpace", err)
	}
	if sim.Closes != 1 {
		t.Errorf("simulator should be closed after a failed construction")
	}
}

func TestNewUnknown(t *testing.T) {
	_, err := gym.New(simulator.NewRegistry(), "Missing-v0",
		gym.Config{Gamma: 0.99})
	if !errors.Is(err, simulator.ErrUnknownSimulator) {
		t.Errorf("New() err = %v, want ErrUnknownSimulator", err)
	}
}

func TestNewInfo(t *testing.T) {
	sim := boxFake()
	env, err := gym.New(registry(sim), "Fake-v0", gym.Config{
		Horizon: 200,
		Gamma:   0.9,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !sim.TimeLimitDisabled {
		t.Errorf("simulator time limit should be disabled")
	}
	info := env.Info()
	if info.Horizon() != 200 || info.Gamma() != 0.9 {
		t.Errorf("Info() = %v", info)
	}

	unbounded, err := gym.New(registry(boxFake()), "Fake-v0",
		gym.Config{Gamma: 0.9})
	if err != nil {
		t.Fatal(err)
	}
	if unbounded.Info().Horizon() != environment.Unbounded {
		t.Errorf("zero horizon should be unbounded")
	}

	if _, err := gym.New(registry(boxFake()), "Fake-v0",
		gym.Config{Gamma: 0}); err == nil {
		t.Errorf("New() with zero discount: expected error")
	}
}

func TestNewWithoutTimeLimit(t *testing.T) {
	sim := boxFake()
	if _, err := gym.New(registry(plain{sim}), "Fake-v0",
		gym.Config{Gamma: 0.9}); err != nil {
		t.Errorf("New() should succeed without a time limit: %v", err)
	}
}

func TestReset(t *testing.T) {
	sim := boxFake()
	env, _ := gym.New(registry(sim), "Fake-v0", gym.Config{Gamma: 0.9})

	obs, err := env.Reset(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(obs, mat.NewVecDense(3, []float64{0.1, 0.2, 0.3})) {
		t.Errorf("Reset(nil) = %v", mat.Formatted(obs))
	}

	state := mat.NewVecDense(3, []float64{0.5, 0.6, 0.7})
	obs, err = env.Reset(state)
	if err != nil {
		t.Fatal(err)
	}
	if sim.Resets != 2 {
		t.Errorf("Resets = %v, want 2", sim.Resets)
	}
	if !floats.Equal(sim.State, []float64{0.5, 0.6, 0.7}) {
		t.Errorf("simulator state = %v, want %v", sim.State,
			state.RawVector().Data)
	}
	if !mat.Equal(obs, state) {
		t.Errorf("Reset(state) = %v, want %v", mat.Formatted(obs),
			mat.Formatted(state))
	}

	// The returned state must not alias the caller's vector
	state.SetVec(0, 100)
	if obs.AtVec(0) == 100 {
		t.Errorf("Reset(state) should return a copy of state")
	}
}

func TestResetStateUnsupported(t *testing.T) {
	env, _ := gym.New(registry(plain{boxFake()}), "Fake-v0",
		gym.Config{Gamma: 0.9})

	_, err := env.Reset(mat.NewVecDense(3, nil))
	if !errors.Is(err, simulator.ErrStateUnsupported) {
		t.Errorf("Reset(state) err = %v, want ErrStateUnsupported", err)
	}
}

func TestStepDiscrete(t *testing.T) {
	sim := discreteFake(3)
	sim.OnStep = func(n int, action interface{}) (simulator.Observation,
		float64, bool, simulator.Info, error) {
		return simtest.Vector(1, 2, 3), 1.5, n == 2, simulator.Info{"n": n}, nil
	}
	env, _ := gym.New(registry(sim), "Fake-v0", gym.Config{Gamma: 0.9})

	r, err := env.Step(mat.NewVecDense(1, []float64{2}))
	if err != nil {
		t.Fatal(err)
	}
	if a, ok := sim.ActionsTaken[0].(int); !ok || a != 2 {
		t.Errorf("action taken = %v (%T), want int 2", sim.ActionsTaken[0],
			sim.ActionsTaken[0])
	}
	if r.Reward != 1.5 || r.Absorbing || r.Info["n"] != 1 {
		t.Errorf("Step() = %+v", r)
	}
	if r.Raw != nil {
		t.Errorf("Raw should be nil for Gym environments")
	}

	r, _ = env.Step(mat.NewVecDense(1, []float64{0}))
	if !r.Absorbing {
		t.Errorf("second step should be absorbing")
	}

	if _, err := env.Step(mat.NewVecDense(2, nil)); err == nil {
		t.Errorf("Step() with a length 2 discrete action: expected error")
	}
}

func TestStepContinuous(t *testing.T) {
	sim := boxFake()
	env, _ := gym.New(registry(sim), "Fake-v0", gym.Config{Gamma: 0.9})

	if _, err := env.Step(mat.NewVecDense(2, []float64{0.5, -1.5})); err != nil {
		t.Fatal(err)
	}
	a, ok := sim.ActionsTaken[0].([]float64)
	if !ok || !floats.Equal(a, []float64{0.5, -1.5}) {
		t.Errorf("action taken = %v, want [0.5 -1.5]", sim.ActionsTaken[0])
	}
}

// doubler is a simulator stage which doubles rewards
type doubler struct {
	simulator.Wrapped
}

func (d doubler) Step(action interface{}) (simulator.Observation, float64,
	bool, simulator.Info, error) {
	obs, r, done, info, err := d.Simulator.Step(action)
	return obs, 2 * r, done, info, err
}

func TestWrappers(t *testing.T) {
	sim := boxFake()
	sim.OnStep = func(int, interface{}) (simulator.Observation, float64,
		bool, simulator.Info, error) {
		return simtest.Vector(0, 0, 0), 1, false, nil, nil
	}
	double := func(s simulator.Simulator) (simulator.Simulator, error) {
		return doubler{simulator.Wrapped{Simulator: s}}, nil
	}

	env, err := gym.New(registry(sim), "Fake-v0", gym.Config{
		Gamma:    0.9,
		Wrappers: []simulator.Wrapper{double, double},
	})
	if err != nil {
		t.Fatal(err)
	}

	r, _ := env.Step(mat.NewVecDense(2, nil))
	if r.Reward != 4 {
		t.Errorf("reward = %v, want 4", r.Reward)
	}

	// Capabilities of the innermost simulator are still found through
	// the wrappers
	if !sim.TimeLimitDisabled {
		t.Errorf("time limit should be disabled through wrappers")
	}
	if _, err := env.Reset(mat.NewVecDense(3, nil)); err != nil {
		t.Errorf("Reset(state) through wrappers: %v", err)
	}
}

func TestWrapperErrorClosesSimulator(t *testing.T) {
	sim := boxFake()
	wrapErr := errors.New("wrapper failed")
	failing := func(simulator.Simulator) (simulator.Simulator, error) {
		return nil, wrapErr
	}

	_, err := gym.New(registry(sim), "Fake-v0", gym.Config{
		Gamma:    0.9,
		Wrappers: []simulator.Wrapper{failing},
	})
	if !errors.Is(err, wrapErr) {
		t.Errorf("New() error = %v, want %v", err, wrapErr)
	}
	if sim.Closes != 1 {
		t.Errorf("simulator closed %v times, want 1", sim.Closes)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		headless bool
		want     int
	}{
		{false, 3},
		{true, 1},
	}

	for _, test := range tests {
		sim := boxFake()
		env, _ := gym.New(registry(sim), "Fake-v0", gym.Config{
			Gamma:           0.9,
			HeadlessPhysics: test.headless,
		})
		for i := 0; i < 3; i++ {
			if _, err := env.Render("human"); err != nil {
				t.Errorf("Render(): %v", err)
			}
		}
		if len(sim.Renders) != test.want {
			t.Errorf("headless %v: renders = %v, want %v", test.headless,
				len(sim.Renders), test.want)
		}
	}
}

func TestRenderImage(t *testing.T) {
	sim := boxFake()
	env, _ := gym.New(registry(sim), "Fake-v0", gym.Config{Gamma: 0.9})

	sim.ResetObservation = simtest.Frame(4, 5, 10)
	img, err := env.Render("rgb_array")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
		t.Errorf("image bounds = %v, want 5x4", b)
	}

	img, _ = env.Render("human")
	if img != nil {
		t.Errorf("human mode should not return an image")
	}
}

func TestStop(t *testing.T) {
	sim := boxFake()
	sim.CloseErr = errors.New("already closed")
	env, _ := gym.New(registry(sim), "Fake-v0", gym.Config{Gamma: 0.9})

	env.Stop()
	env.Stop()
	if sim.Closes != 1 {
		t.Errorf("Closes = %v, want 1", sim.Closes)
	}

	if _, err := env.Step(mat.NewVecDense(2, nil)); !errors.Is(err,
		simulator.ErrClosed) {
		t.Errorf("Step() after Stop() err = %v, want ErrClosed", err)
	}

	headless := boxFake()
	env, _ = gym.New(registry(headless), "Fake-v0", gym.Config{
		Gamma:           0.9,
		HeadlessPhysics: true,
	})
	env.Stop()
	if headless.Closes != 0 {
		t.Errorf("headless simulators should not be closed")
	}
}
