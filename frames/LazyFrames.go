package frames

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LazyFrames is a stacked observation of several frames which defers
// stacking until it is read. Views which overlap in time share their
// frames rather than duplicating them.
//
// LazyFrames implements mat.Vector. The vector is the concatenation of
// the frames, oldest first, each flattened in row major order. Readers
// must not modify the frames of a view.
type LazyFrames struct {
	frames   []*Frame
	frameLen int
}

// NewLazyFrames returns a new view over frames. All frames must have
// the same shape.
func NewLazyFrames(frames []*Frame) *LazyFrames {
	if len(frames) == 0 {
		panic("newLazyFrames: no frames to stack")
	}
	frameLen := frames[0].Len()
	for _, f := range frames[1:] {
		if f.Len() != frameLen {
			panic(fmt.Sprintf("newLazyFrames: frame length %v does not "+
				"match %v", f.Len(), frameLen))
		}
	}
	return &LazyFrames{frames: frames, frameLen: frameLen}
}

// Count returns the number of stacked frames
func (l *LazyFrames) Count() int {
	return len(l.frames)
}

// Frame returns the i-th stacked frame, where frame 0 is the oldest
func (l *LazyFrames) Frame(i int) *Frame {
	return l.frames[i]
}

// Shape returns the shape of the stacked observation, which is the
// number of frames followed by the shape of a single frame
func (l *LazyFrames) Shape() []int {
	return append([]int{len(l.frames)}, l.frames[0].Shape()...)
}

// Len implements mat.Vector
func (l *LazyFrames) Len() int {
	return len(l.frames) * l.frameLen
}

// AtVec implements mat.Vector
func (l *LazyFrames) AtVec(i int) float64 {
	if i < 0 || i >= l.Len() {
		panic(mat.ErrVectorAccess)
	}
	return float64(l.frames[i/l.frameLen].Pix[i%l.frameLen])
}

// Dims implements mat.Matrix
func (l *LazyFrames) Dims() (r, c int) {
	return l.Len(), 1
}

// At implements mat.Matrix
func (l *LazyFrames) At(i, j int) float64 {
	if j != 0 {
		panic(mat.ErrColAccess)
	}
	return l.AtVec(i)
}

// T implements mat.Matrix
func (l *LazyFrames) T() mat.Matrix {
	return mat.TransposeVec{Vector: l}
}

// Materialize returns the stacked observation as a newly allocated
// slice
func (l *LazyFrames) Materialize() []float64 {
	out := make([]float64, l.Len())
	for i, f := range l.frames {
		row := out[i*l.frameLen : (i+1)*l.frameLen]
		for j, p := range f.Pix {
			row[j] = float64(p)
		}
	}
	return out
}

// Stack returns the stacked observation as a matrix with one row per
// frame
func (l *LazyFrames) Stack() *mat.Dense {
	return mat.NewDense(len(l.frames), l.frameLen, l.Materialize())
}

// Vector returns the stacked observation as a newly allocated vector
func (l *LazyFrames) Vector() *mat.VecDense {
	return mat.NewVecDense(l.Len(), l.Materialize())
}
