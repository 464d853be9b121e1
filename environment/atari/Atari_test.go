package atari

import (
	"errors"
	"testing"

	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/frames"
	"github.com/samuelfneumann/rlcore/simulator"
	"github.com/samuelfneumann/rlcore/simulator/simtest"
	"gonum.org/v1/gonum/mat"
)

const (
	height = 4
	width  = 6
)

// registry returns a registry which constructs sim for every name and
// records the requested names
func registry(sim simulator.Simulator, names *[]string) *simulator.Registry {
	reg := simulator.NewRegistry()
	reg.SetFallback(func(name string, _ map[string]interface{}) (
		simulator.Simulator, error) {
		if names != nil {
			*names = append(*names, name)
		}
		return sim, nil
	})
	return reg
}

// counting returns a FakeArcade which, on its n-th step, returns a
// frame with value n
func counting(lives int, meanings []string) *simtest.FakeArcade {
	arc := simtest.NewFakeArcade(height, width, lives, meanings)
	arc.OnStep = func(n int, _ interface{}) (simulator.Observation, float64,
		bool, simulator.Info, error) {
		return simtest.Frame(height, width, float64(n)), 1, false,
			simulator.Info{}, nil
	}
	return arc
}

// config returns a configuration without preprocessing or priming
func config() Config {
	c := DefaultConfig()
	c.Width, c.Height = 0, 0
	c.MaxNoOpActions = 0
	return c
}

var action = mat.NewVecDense(1, []float64{2})

func TestResetColdStart(t *testing.T) {
	arc := counting(3, simtest.NoFireActions)
	arc.ResetObservation = simtest.Frame(height, width, 90)

	c := config()
	c.Width, c.Height = 3, 2
	a, err := New(registry(arc, nil), "Pong-v0", c)
	if err != nil {
		t.Fatal(err)
	}

	obs, err := a.Reset(nil)
	if err != nil {
		t.Fatal(err)
	}
	view, ok := obs.(*frames.LazyFrames)
	if !ok {
		t.Fatalf("observation type = %T, want *frames.LazyFrames", obs)
	}
	if view.Count() != c.HistoryLength {
		t.Fatalf("history length = %v, want %v", view.Count(),
			c.HistoryLength)
	}

	first := view.Frame(0)
	if first.Height != 2 || first.Width != 3 || first.Channels != 1 {
		t.Errorf("frame shape = %v, want [2 3]", first.Shape())
	}
	for i := 1; i < view.Count(); i++ {
		if view.Frame(i) != first {
			t.Errorf("slot %d does not hold the reset frame", i)
		}
	}
	for _, p := range first.Pix {
		if p < 89 || p > 90 {
			t.Errorf("preprocessed pixel = %v, want 90", p)
			break
		}
	}
}

func TestStepFIFO(t *testing.T) {
	arc := counting(3, simtest.NoFireActions)
	c := config()
	a, _ := New(registry(arc, nil), "Pong-v0", c)
	a.Reset(nil)

	const k = 3
	var r environment.Result
	for i := 0; i < c.HistoryLength+k; i++ {
		var err error
		if r, err = a.Step(action); err != nil {
			t.Fatal(err)
		}
	}

	view := r.Observation.(*frames.LazyFrames)
	for i := 0; i < view.Count(); i++ {
		want := uint8(k + i + 1)
		if got := view.Frame(i).Pix[0]; got != want {
			t.Errorf("slot %d = %v, want %v", i, got, want)
		}
	}
	if s := view.Shape(); len(s) != 4 || s[3] != 3 {
		t.Errorf("full colour view shape = %v, want [4 %v %v 3]", s, height,
			width)
	}
	if r.Raw != nil {
		t.Errorf("Raw should only be set in augmented mode")
	}
}

func TestObservationSpace(t *testing.T) {
	arc := counting(3, simtest.NoFireActions)

	def, _ := New(registry(arc, nil), "Pong-v0", DefaultConfig())
	got := def.Info().ObservationSpace().Shape()
	if len(got) != 3 || got[0] != 4 || got[1] != 84 || got[2] != 84 {
		t.Errorf("preprocessed shape = %v, want [4 84 84]", got)
	}

	full, _ := New(registry(arc, nil), "Pong-v0", config())
	got = full.Info().ObservationSpace().Shape()
	want := []int{4, height, width, 3}
	for i := range want {
		if len(got) != len(want) || got[i] != want[i] {
			t.Errorf("full colour shape = %v, want %v", got, want)
			break
		}
	}

	if def.Info().Horizon() != environment.Unbounded {
		t.Errorf("horizon should be unbounded")
	}
	if def.Info().Gamma() != 0.99 {
		t.Errorf("gamma = %v, want 0.99", def.Info().Gamma())
	}
}

func TestNoOps(t *testing.T) {
	arc := counting(3, simtest.NoFireActions)
	c := config()
	c.MaxNoOpActions = 5
	a, _ := New(registry(arc, nil), "Pong-v0", c)

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		a.Reset(nil)
		before := len(arc.ActionsTaken)
		a.Step(action)
		taken := arc.ActionsTaken[before:]

		noOps := len(taken) - 1
		if noOps < 0 || noOps > c.MaxNoOpActions {
			t.Fatalf("no-op count = %v, want in [0, %v]", noOps,
				c.MaxNoOpActions)
		}
		seen[noOps] = true
		for j, act := range taken[:noOps] {
			if act != 0 {
				t.Errorf("priming action %d = %v, want 0", j, act)
			}
		}
		if taken[noOps] != 2 {
			t.Errorf("caller's action = %v, want 2", taken[noOps])
		}
	}
	if len(seen) != c.MaxNoOpActions+1 {
		t.Errorf("no-op counts drawn = %v, want every count in [0, %v]",
			seen, c.MaxNoOpActions)
	}
}

func TestZeroNoOps(t *testing.T) {
	arc := counting(3, simtest.NoFireActions)
	a, _ := New(registry(arc, nil), "Pong-v0", config())

	for i := 0; i < 10; i++ {
		a.Reset(nil)
		before := arc.Steps
		a.Step(action)
		if arc.Steps-before != 1 {
			t.Errorf("raw steps per step = %v, want 1", arc.Steps-before)
		}
	}
}

func TestForceFire(t *testing.T) {
	arc := counting(3, simtest.MinimalActions)
	a, _ := New(registry(arc, nil), "Breakout-v0", config())

	a.Reset(nil)
	a.Step(action)
	a.Step(action)

	want := []interface{}{1, 2, 2}
	if len(arc.ActionsTaken) != len(want) {
		t.Fatalf("actions = %v, want %v", arc.ActionsTaken, want)
	}
	for i := range want {
		if arc.ActionsTaken[i] != want[i] {
			t.Errorf("actions = %v, want %v", arc.ActionsTaken, want)
			break
		}
	}
}

// losing returns a FakeArcade which loses a life on step lose
func losing(lose int, meanings []string) *simtest.FakeArcade {
	arc := simtest.NewFakeArcade(height, width, 3, meanings)
	arc.OnStep = func(n int, _ interface{}) (simulator.Observation, float64,
		bool, simulator.Info, error) {
		if n == lose {
			arc.LivesLeft--
		}
		return simtest.Frame(height, width, float64(n)), 0, false,
			simulator.Info{}, nil
	}
	return arc
}

func TestLifeLossEndsEpisode(t *testing.T) {
	arc := losing(2, simtest.NoFireActions)
	c := config()
	c.EndsAtLife = true
	a, _ := New(registry(arc, nil), "Pong-v0", c)

	a.Reset(nil)
	r, _ := a.Step(action)
	if r.Absorbing {
		t.Errorf("step 1 should not be absorbing")
	}
	r, _ = a.Step(action)
	if !r.Absorbing {
		t.Errorf("losing a life should end the episode")
	}

	// The game did not end, so resetting continues the current game
	before := r.Observation.(*frames.LazyFrames)
	obs, _ := a.Reset(nil)
	if arc.Resets != 1 {
		t.Errorf("simulator resets = %v, want 1", arc.Resets)
	}
	after := obs.(*frames.LazyFrames)
	for i := 0; i < after.Count(); i++ {
		if after.Frame(i) != before.Frame(i) {
			t.Errorf("soft reset should keep the frame history")
		}
	}

	r, _ = a.Step(action)
	if r.Absorbing {
		t.Errorf("step after soft reset should not be absorbing")
	}
}

func TestLifeLossRearmsFire(t *testing.T) {
	// Raw steps: FIRE, action, action (life lost), FIRE, action
	arc := losing(3, simtest.MinimalActions)
	a, _ := New(registry(arc, nil), "Breakout-v0", config())

	a.Reset(nil)
	a.Step(action)
	r, _ := a.Step(action)
	if r.Absorbing {
		t.Errorf("losing a life should not end the episode")
	}
	a.Step(action)

	want := []interface{}{1, 2, 2, 1, 2}
	if len(arc.ActionsTaken) != len(want) {
		t.Fatalf("actions = %v, want %v", arc.ActionsTaken, want)
	}
	for i := range want {
		if arc.ActionsTaken[i] != want[i] {
			t.Errorf("actions = %v, want %v", arc.ActionsTaken, want)
			break
		}
	}
}

func TestSetEpisodeEnd(t *testing.T) {
	arc := losing(1, simtest.NoFireActions)
	a, _ := New(registry(arc, nil), "Pong-v0", config())
	a.SetEpisodeEnd(true)

	a.Reset(nil)
	if r, _ := a.Step(action); !r.Absorbing {
		t.Errorf("SetEpisodeEnd(true): life loss should end the episode")
	}
}

func TestRealReset(t *testing.T) {
	arc := simtest.NewFakeArcade(height, width, 3, simtest.NoFireActions)
	arc.OnStep = func(n int, _ interface{}) (simulator.Observation, float64,
		bool, simulator.Info, error) {
		return simtest.Frame(height, width, 1), 0, n == 2, nil, nil
	}
	a, _ := New(registry(arc, nil), "Pong-v0", config())

	a.Reset(nil)
	a.Step(action)
	r, _ := a.Step(action)
	if !r.Absorbing {
		t.Fatalf("step 2 should be absorbing")
	}

	obs, _ := a.Reset(nil)
	if arc.Resets != 2 {
		t.Errorf("simulator resets = %v, want 2", arc.Resets)
	}
	view := obs.(*frames.LazyFrames)
	for i := 0; i < view.Count(); i++ {
		if view.Frame(i).Pix[0] != 0 {
			t.Errorf("history should be refilled with the reset frame")
		}
	}
}

func TestNoFrameskip(t *testing.T) {
	arc := counting(3, simtest.NoFireActions)
	var names []string
	a, err := New(registry(arc, &names), "PongNoFrameskip-v4", config())
	if err != nil {
		t.Fatal(err)
	}
	if names[0] != "PongNoFrameskip-v4" {
		t.Errorf("requested simulator %v, want PongNoFrameskip-v4", names[0])
	}

	a.Reset(nil)
	r, _ := a.Step(action)
	if arc.Steps != 4 {
		t.Errorf("raw steps = %v, want 4", arc.Steps)
	}
	if r.Reward != 4 {
		t.Errorf("reward = %v, want 4", r.Reward)
	}

	c := config()
	c.FrameSkip = 2
	arc = counting(3, simtest.NoFireActions)
	a, _ = New(registry(arc, nil), "PongNoFrameskip-v4", c)
	a.Reset(nil)
	a.Step(action)
	if arc.Steps != 2 {
		t.Errorf("raw steps with frame skip 2 = %v, want 2", arc.Steps)
	}
}

func TestNoFrameskipPrimingBypassesSkip(t *testing.T) {
	arc := counting(3, simtest.MinimalActions)
	a, _ := New(registry(arc, nil), "BreakoutNoFrameskip-v4", config())

	a.Reset(nil)
	a.Step(action)

	// One FIRE, then four skipped steps of the action
	if arc.Steps != 5 {
		t.Errorf("raw steps = %v, want 5", arc.Steps)
	}
}

// annotator wraps supported games in a stage adding a "labels" entry
type annotator struct {
	supported bool
	wrapped   []string
}

type labeller struct {
	simulator.Wrapped
}

func (l labeller) Step(action interface{}) (simulator.Observation, float64,
	bool, simulator.Info, error) {
	obs, r, done, info, err := l.Simulator.Step(action)
	info["labels"] = true
	return obs, r, done, info, err
}

func (a *annotator) Supports(string) bool {
	return a.supported
}

func (a *annotator) Wrap(game string,
	sim simulator.Simulator) (simulator.Simulator, error) {
	a.wrapped = append(a.wrapped, game)
	return labeller{simulator.Wrapped{Simulator: sim}}, nil
}

func TestAugmented(t *testing.T) {
	arc := counting(3, simtest.NoFireActions)
	if _, err := New(registry(arc, nil), "Pong-Augmented-v0",
		config()); !errors.Is(err, ErrMissingAnnotator) {
		t.Errorf("New() err = %v, want ErrMissingAnnotator", err)
	}

	var names []string
	ann := &annotator{supported: true}
	c := config()
	c.Annotator = ann
	a, err := New(registry(arc, &names), "Pong-Augmented-v0", c)
	if err != nil {
		t.Fatal(err)
	}
	if names[0] != "Pong-v0" {
		t.Errorf("requested simulator %v, want Pong-v0", names[0])
	}
	if len(ann.wrapped) != 1 || !a.Augmented() {
		t.Errorf("supported games should be wrapped by the annotator")
	}

	a.Reset(nil)
	r, _ := a.Step(action)
	if r.Raw == nil {
		t.Fatalf("augmented steps should return the raw frame")
	}
	if r.Raw.Len() != height*width*3 || r.Raw.Data[0] != 1 {
		t.Errorf("raw frame = %v", r.Raw.Shape)
	}
	if r.Info["labels"] != true {
		t.Errorf("step information should be annotated")
	}

	unsupported := &annotator{}
	c.Annotator = unsupported
	a, err = New(registry(counting(3, simtest.NoFireActions), nil),
		"Pong-Augmented-v0", c)
	if err != nil {
		t.Fatal(err)
	}
	if len(unsupported.wrapped) != 0 || !a.Augmented() {
		t.Errorf("unsupported games should run unwrapped in augmented mode")
	}
}

func TestNewInvalid(t *testing.T) {
	noNoop := simtest.NewFakeArcade(height, width, 3,
		[]string{"FIRE", "NOOP"})
	if _, err := New(registry(noNoop, nil), "Pong-v0",
		config()); !errors.Is(err, ErrNoNoop) {
		t.Errorf("New() err = %v, want ErrNoNoop", err)
	}
	if noNoop.Closes != 1 {
		t.Errorf("simulator should be closed after a failed construction")
	}

	notArcade := &simtest.Fake{Actions: simtest.Discrete(2)}
	if _, err := New(registry(notArcade, nil), "Pong-v0",
		config()); !errors.Is(err, ErrNotArcade) {
		t.Errorf("New() err = %v, want ErrNotArcade", err)
	}

	c := config()
	c.HistoryLength = 0
	if _, err := New(registry(counting(3, simtest.NoFireActions), nil),
		"Pong-v0", c); err == nil {
		t.Errorf("New() with zero history: expected error")
	}
}

func TestStop(t *testing.T) {
	arc := counting(3, simtest.NoFireActions)
	a, _ := New(registry(arc, nil), "Pong-v0", config())

	if _, err := a.Step(action); err == nil {
		t.Errorf("Step() before Reset(): expected error")
	}

	a.Reset(nil)
	a.Stop()
	a.Stop()
	if arc.Closes != 1 {
		t.Errorf("Closes = %v, want 1", arc.Closes)
	}
	if _, err := a.Step(action); !errors.Is(err, simulator.ErrClosed) {
		t.Errorf("Step() after Stop() err = %v, want ErrClosed", err)
	}
}

func TestRAMAnnotator(t *testing.T) {
	ann := RAMAnnotator{Labels: map[string]map[string]int{
		"Pong": {"player_y": 1, "missing": 300},
	}}
	if !ann.Supports("PongNoFrameskip-v4") || ann.Supports("Breakout-v0") {
		t.Errorf("Supports() should match on the game name")
	}

	f := &simtest.Fake{}
	f.OnStep = func(int, interface{}) (simulator.Observation, float64, bool,
		simulator.Info, error) {
		ram := []interface{}{0.0, 42.0, 7.0}
		return simulator.Observation{}, 0, false,
			simulator.Info{"ram": ram}, nil
	}
	sim, err := ann.Wrap("Pong-v0", f)
	if err != nil {
		t.Fatal(err)
	}
	_, _, _, info, _ := sim.Step(0)
	labels, ok := info["labels"].(map[string]float64)
	if !ok || labels["player_y"] != 42 || len(labels) != 1 {
		t.Errorf("labels = %v, want map[player_y:42]", info["labels"])
	}

	if _, err := ann.Wrap("Breakout-v0", f); err == nil {
		t.Errorf("Wrap() of an unsupported game: expected error")
	}
}
