package trackers

import (
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/rlcore/timestep"
)

// episode returns the transitions of an episode with the given rewards
func episode(last bool, rewards ...float64) []timestep.Transition {
	ts := make([]timestep.Transition, len(rewards))
	for i, r := range rewards {
		ts[i] = timestep.Transition{
			Reward: r,
			Number: i + 1,
			Last:   last && i == len(rewards)-1,
		}
	}
	return ts
}

func track(tr Tracker, episodes ...[]timestep.Transition) {
	for _, ep := range episodes {
		for _, t := range ep {
			tr.Track(t)
		}
	}
}

func TestReturn(t *testing.T) {
	r := NewReturn()
	track(r, episode(true, 1, 2, 3), episode(false, 5, 5),
		episode(true, -1, 0))

	got := r.Data()
	want := []float64{6, -1}
	if len(got) != len(want) {
		t.Fatalf("Data() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Data()[%v] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReturnNonSequential(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Track() should panic on non-sequential transitions")
		}
	}()

	r := NewReturn()
	r.Track(timestep.Transition{Number: 1})
	r.Track(timestep.Transition{Number: 3})
}

func TestEpisodeLength(t *testing.T) {
	e := NewEpisodeLength()
	track(e, episode(true, 0, 0, 0), episode(true, 0), episode(false, 0, 0))

	got := e.Data()
	if len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Errorf("Data() = %v, want [3 1]", got)
	}
}

func TestCollectDataset(t *testing.T) {
	c := NewCollectDataset()
	for _, tr := range episode(true, 1, 2) {
		c.Track(tr)
	}

	if len(c.Get()) != 2 {
		t.Errorf("len(Get()) = %v, want 2", len(c.Get()))
	}
	if j := c.Get().ComputeJ(1); j[0] != 3 {
		t.Errorf("ComputeJ() = %v, want [3]", j)
	}

	c.Clean()
	if len(c.Get()) != 0 {
		t.Errorf("Clean() should discard the dataset")
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()

	r := NewReturn()
	track(r, episode(true, 1, 1), episode(true, 2))
	returnsFile := filepath.Join(dir, "returns.bin")
	if err := r.Save(returnsFile); err != nil {
		t.Fatalf("save returns: %v", err)
	}
	var returns []float64
	if err := LoadData(returnsFile, &returns); err != nil {
		t.Fatalf("load returns: %v", err)
	}
	if len(returns) != 2 || returns[0] != 2 || returns[1] != 2 {
		t.Errorf("loaded returns = %v, want [2 2]", returns)
	}

	e := NewEpisodeLength()
	track(e, episode(true, 1, 1))
	lengthsFile := filepath.Join(dir, "lengths.bin")
	if err := e.Save(lengthsFile); err != nil {
		t.Fatalf("save lengths: %v", err)
	}
	var lengths []int
	if err := LoadData(lengthsFile, &lengths); err != nil {
		t.Fatalf("load lengths: %v", err)
	}
	if len(lengths) != 1 || lengths[0] != 2 {
		t.Errorf("loaded lengths = %v, want [2]", lengths)
	}

	if err := LoadData(filepath.Join(dir, "missing.bin"), &lengths); err == nil {
		t.Errorf("LoadData() should fail on a missing file")
	}
}
