package core

import (
	"image"
	"io"
	"log"

	"github.com/samuelfneumann/rlcore/dataset"
	"github.com/samuelfneumann/rlcore/timestep"
	"gonum.org/v1/gonum/mat"
)

// FitCallback is called after every fit with the batch just consumed
// by the agent. Callbacks must not modify the batch.
type FitCallback func(batch dataset.Dataset) error

// StepCallback is called with every collected transition
type StepCallback func(t timestep.Transition)

// Preprocessor transforms each observation before it is seen by the
// agent
type Preprocessor func(obs mat.Vector) mat.Vector

// FrameSink receives the frames rendered during a run
type FrameSink interface {
	Frame(img image.Image) error
}

// Option configures a Core
type Option func(*Core)

// WithFitCallbacks adds callbacks which are called, in order, after
// each fit
func WithFitCallbacks(callbacks ...FitCallback) Option {
	return func(c *Core) {
		c.fitCallbacks = append(c.fitCallbacks, callbacks...)
	}
}

// WithStepCallback adds a callback which is called with each collected
// transition, during both learning and evaluation
func WithStepCallback(callback StepCallback) Option {
	return func(c *Core) {
		c.stepCallbacks = append(c.stepCallbacks, callback)
	}
}

// WithPreprocessors adds observation preprocessors, applied in order
func WithPreprocessors(preprocessors ...Preprocessor) Option {
	return func(c *Core) {
		c.preprocessors = append(c.preprocessors, preprocessors...)
	}
}

// WithLogger sets the logger of the Core
func WithLogger(logger *log.Logger) Option {
	return func(c *Core) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProgress displays a progress bar of each run on out
func WithProgress(out io.Writer) Option {
	return func(c *Core) {
		c.progress = out
	}
}

// WithFrameSink sends each frame rendered during a run to sink
func WithFrameSink(sink FrameSink) Option {
	return func(c *Core) {
		c.sink = sink
	}
}
