// Package checkpointer implements fit callbacks which periodically
// save objects to disk during learning
package checkpointer

import "github.com/samuelfneumann/rlcore/dataset"

// Saver is an object that can save itself to a file
type Saver interface {
	Save(filename string) error
}

// Checkpointer checkpoints objects based on the batches fit by an
// agent. Checkpoint is used as a core.FitCallback.
type Checkpointer interface {
	Checkpoint(batch dataset.Dataset) error
}
