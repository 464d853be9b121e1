package trackers

import (
	"fmt"

	"github.com/samuelfneumann/rlcore/timestep"
)

// Return tracks and saves the episodic return in an experiment. The
// rewards of each transition are accumulated, and the return is
// cached when the last transition of an episode is tracked.
//
// Note: An episode must finish for this Tracker to save its data.
// If a run ends before its last episode does, the return of that
// episode is dropped when the next episode starts.
type Return struct {
	lastNumber     int
	currentReturn  float64
	episodeReturns []float64
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn() *Return {
	return &Return{}
}

// Track tracks the reward of a transition.
//
// Track panics if it is called for non-sequential transitions of
// the same episode.
func (r *Return) Track(t timestep.Transition) {
	if t.Number == 1 {
		r.currentReturn = 0
	} else if r.lastNumber+1 != t.Number {
		panic(fmt.Sprintf("track: last two transitions tracked are not "+
			"sequential: transition %v --> transition %v were tracked",
			r.lastNumber, t.Number))
	}

	r.currentReturn += t.Reward
	r.lastNumber = t.Number
	if t.Last {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0
		r.lastNumber = 0
	}
}

// Data returns the returns of each finished episode
func (r *Return) Data() []float64 {
	out := make([]float64, len(r.episodeReturns))
	copy(out, r.episodeReturns)
	return out
}

// Save saves the returns tracked to filename
func (r *Return) Save(filename string) error {
	return save(filename, r.episodeReturns)
}
