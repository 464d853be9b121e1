// Package frames implements the frame pipeline of arcade environments:
// frame preprocessing and a fixed-capacity history of frames which is
// exposed to agents as a lazily stacked observation.
package frames

import (
	"fmt"
	"image"
	"image/color"

	"github.com/samuelfneumann/rlcore/simulator"
	"github.com/samuelfneumann/rlcore/utils/floatutils"
)

// Frame is a single image frame stored as 8-bit pixels in row major
// order, with the channels of each pixel stored contiguously. Frames
// are never modified after construction, so they may be shared freely
// between histories and views.
type Frame struct {
	Pix      []uint8
	Height   int
	Width    int
	Channels int
}

// NewFrame returns a new zeroed frame
func NewFrame(height, width, channels int) *Frame {
	return &Frame{
		Pix:      make([]uint8, height*width*channels),
		Height:   height,
		Width:    width,
		Channels: channels,
	}
}

// FromObservation converts a simulator observation of shape
// (height, width) or (height, width, channels) into a Frame. Values are
// clamped to [0, 255].
func FromObservation(obs simulator.Observation) (*Frame, error) {
	var height, width, channels int
	switch len(obs.Shape) {
	case 2:
		height, width, channels = obs.Shape[0], obs.Shape[1], 1
	case 3:
		height, width, channels = obs.Shape[0], obs.Shape[1], obs.Shape[2]
	default:
		return nil, fmt.Errorf("fromObservation: observation of shape %v "+
			"is not an image", obs.Shape)
	}

	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("fromObservation: frames must have 1 or 3 "+
			"channels but got %v", channels)
	}
	if height*width*channels != len(obs.Data) {
		return nil, fmt.Errorf("fromObservation: shape %v does not match "+
			"data length %v", obs.Shape, len(obs.Data))
	}

	f := NewFrame(height, width, channels)
	for i, v := range obs.Data {
		f.Pix[i] = floatutils.ClipByte(v)
	}
	return f, nil
}

// Len returns the number of values in the frame
func (f *Frame) Len() int {
	return len(f.Pix)
}

// Shape returns the shape of the frame. Greyscale frames have shape
// (height, width) and colour frames (height, width, channels).
func (f *Frame) Shape() []int {
	if f.Channels == 1 {
		return []int{f.Height, f.Width}
	}
	return []int{f.Height, f.Width, f.Channels}
}

// At returns the value of channel ch of the pixel at (row, col)
func (f *Frame) At(row, col, ch int) uint8 {
	return f.Pix[(row*f.Width+col)*f.Channels+ch]
}

// Observation converts the frame back into a simulator observation
func (f *Frame) Observation() simulator.Observation {
	data := make([]float64, len(f.Pix))
	for i, p := range f.Pix {
		data[i] = float64(p)
	}
	return simulator.Observation{Data: data, Shape: f.Shape()}
}

// Image returns the frame as an image. Greyscale frames become
// *image.Gray and colour frames *image.RGBA.
func (f *Frame) Image() image.Image {
	bounds := image.Rect(0, 0, f.Width, f.Height)
	if f.Channels == 1 {
		img := image.NewGray(bounds)
		copy(img.Pix, f.Pix)
		return img
	}

	img := image.NewRGBA(bounds)
	for r := 0; r < f.Height; r++ {
		for c := 0; c < f.Width; c++ {
			img.SetRGBA(c, r, color.RGBA{
				R: f.At(r, c, 0),
				G: f.At(r, c, 1),
				B: f.At(r, c, 2),
				A: 255,
			})
		}
	}
	return img
}
