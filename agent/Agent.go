// Package agent defines the contract between agents and the episode
// orchestration engine, along with JSON serialisable agent
// configurations
package agent

import (
	"github.com/samuelfneumann/rlcore/dataset"
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent chooses actions in each state with DrawAction and learns
// from batches of collected transitions with Fit. The episode
// orchestration engine calls EpisodeStart before the first action of
// each episode and Stop at the end of each learning or evaluation run.
type Agent interface {
	// DrawAction returns the action to take in state
	DrawAction(state mat.Vector) (*mat.VecDense, error)

	// Fit learns from a batch of transitions. The batch must not be
	// modified, since it is also passed to any fit callbacks.
	Fit(batch dataset.Dataset) error

	// EpisodeStart is called at the start of each episode
	EpisodeStart()

	// Stop is called at the end of each learning or evaluation run
	Stop()
}
