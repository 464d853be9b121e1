package core

// Status is the state of the episode orchestration engine
type Status int

const (
	// Idle means no run is in progress
	Idle Status = iota

	// RunningEpisode means the engine is collecting transitions
	RunningEpisode

	// FittingBatch means the agent or a fit callback is consuming a
	// batch
	FittingBatch
)

func (s Status) String() string {
	switch s {
	case RunningEpisode:
		return "RunningEpisode"
	case FittingBatch:
		return "FittingBatch"
	default:
		return "Idle"
	}
}
