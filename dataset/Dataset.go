// Package dataset implements datasets of transitions collected during
// agent-environment interaction, as well as statistics over them.
package dataset

import (
	"math"

	"github.com/samuelfneumann/rlcore/timestep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Dataset is an ordered sequence of transitions
type Dataset []timestep.Transition

// Metrics summarises the returns of the episodes in a Dataset
type Metrics struct {
	MinJ     float64
	MaxJ     float64
	MeanJ    float64
	Episodes int
}

// ComputeJ returns the discounted return of each episode in the
// dataset. A trailing incomplete episode is counted as an episode.
// If the dataset is empty, a single zero return is returned.
func (d Dataset) ComputeJ(gamma float64) []float64 {
	var js []float64
	j := 0.0
	episodeSteps := 0
	for i, t := range d {
		j += math.Pow(gamma, float64(episodeSteps)) * t.Reward
		episodeSteps++
		if t.Last || i == len(d)-1 {
			js = append(js, j)
			j = 0.0
			episodeSteps = 0
		}
	}

	if len(js) == 0 {
		return []float64{0}
	}
	return js
}

// EpisodesLength returns the length of each episode in the dataset,
// including a trailing incomplete episode
func (d Dataset) EpisodesLength() []int {
	var lengths []int
	l := 0
	for i, t := range d {
		l++
		if t.Last || i == len(d)-1 {
			lengths = append(lengths, l)
			l = 0
		}
	}
	return lengths
}

// ComputeMetrics returns the minimum, maximum, and mean discounted
// return of the episodes in the dataset as well as the number of
// episodes
func (d Dataset) ComputeMetrics(gamma float64) Metrics {
	js := d.ComputeJ(gamma)
	return Metrics{
		MinJ:     floats.Min(js),
		MaxJ:     floats.Max(js),
		MeanJ:    stat.Mean(js, nil),
		Episodes: len(js),
	}
}

// Episodes splits the dataset into its episodes. Each episode shares
// transitions with the dataset.
func (d Dataset) Episodes() []Dataset {
	var episodes []Dataset
	start := 0
	for i, t := range d {
		if t.Last || i == len(d)-1 {
			episodes = append(episodes, d[start:i+1])
			start = i + 1
		}
	}
	return episodes
}

// SelectFirstEpisodes returns the first n complete episodes of the
// dataset. If the dataset has fewer than n complete episodes, all
// complete episodes are returned.
func (d Dataset) SelectFirstEpisodes(n int) Dataset {
	if n <= 0 {
		return Dataset{}
	}
	episodes := 0
	for i, t := range d {
		if t.Last {
			episodes++
			if episodes == n {
				return d[:i+1]
			}
		}
	}

	// Drop a trailing incomplete episode
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].Last {
			return d[:i+1]
		}
	}
	return Dataset{}
}

// Parsed holds the components of a dataset as matrices, one row per
// transition
type Parsed struct {
	States     *mat.Dense
	Actions    *mat.Dense
	Rewards    *mat.VecDense
	NextStates *mat.Dense
	Absorbing  []bool
	Last       []bool
}

// Parse splits the dataset into its components. States and actions
// must have the same length across all transitions. Parse returns
// an empty Parsed for an empty dataset.
func (d Dataset) Parse() Parsed {
	if len(d) == 0 {
		return Parsed{}
	}

	stateSize := d[0].State.Len()
	actionSize := d[0].Action.Len()

	states := mat.NewDense(len(d), stateSize, nil)
	nextStates := mat.NewDense(len(d), stateSize, nil)
	actions := mat.NewDense(len(d), actionSize, nil)
	rewards := mat.NewVecDense(len(d), nil)
	absorbing := make([]bool, len(d))
	last := make([]bool, len(d))

	for i, t := range d {
		for j := 0; j < stateSize; j++ {
			states.Set(i, j, t.State.AtVec(j))
			nextStates.Set(i, j, t.NextState.AtVec(j))
		}
		actions.SetRow(i, t.Action.RawVector().Data)
		rewards.SetVec(i, t.Reward)
		absorbing[i] = t.Absorbing
		last[i] = t.Last
	}

	return Parsed{
		States:     states,
		Actions:    actions,
		Rewards:    rewards,
		NextStates: nextStates,
		Absorbing:  absorbing,
		Last:       last,
	}
}
