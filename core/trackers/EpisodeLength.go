package trackers

import "github.com/samuelfneumann/rlcore/timestep"

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment.
// Note that an episode must finish for this Tracker to save its data.
type EpisodeLength struct {
	episodeLengths []int
}

// NewEpisodeLength returns a new EpisodeLength Tracker
func NewEpisodeLength() *EpisodeLength {
	return &EpisodeLength{}
}

// Track caches the episode length if the transition is the last in
// its episode
func (e *EpisodeLength) Track(t timestep.Transition) {
	if t.Last {
		e.episodeLengths = append(e.episodeLengths, t.Number)
	}
}

// Data returns the lengths of each finished episode
func (e *EpisodeLength) Data() []int {
	out := make([]int, len(e.episodeLengths))
	copy(out, e.episodeLengths)
	return out
}

// Save saves the episode lengths tracked to filename
func (e *EpisodeLength) Save(filename string) error {
	return save(filename, e.episodeLengths)
}
