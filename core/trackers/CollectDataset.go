package trackers

import (
	"github.com/samuelfneumann/rlcore/dataset"
	"github.com/samuelfneumann/rlcore/timestep"
)

// CollectDataset collects every transition it tracks into a dataset
type CollectDataset struct {
	data dataset.Dataset
}

// NewCollectDataset returns a new CollectDataset
func NewCollectDataset() *CollectDataset {
	return &CollectDataset{}
}

// Track adds t to the dataset
func (c *CollectDataset) Track(t timestep.Transition) {
	c.data = append(c.data, t)
}

// Get returns the collected dataset
func (c *CollectDataset) Get() dataset.Dataset {
	return c.data
}

// Clean discards the collected dataset
func (c *CollectDataset) Clean() {
	c.data = nil
}
