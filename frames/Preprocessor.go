package frames

import (
	"image"

	"github.com/samuelfneumann/rlcore/utils/floatutils"
	"golang.org/x/image/draw"
)

// ITU-R 601 luma weights
const (
	redWeight   = 0.299
	greenWeight = 0.587
	blueWeight  = 0.114
)

// Preprocessor converts raw frames to greyscale and resizes them to
// Width x Height using bilinear interpolation. A zero Preprocessor
// leaves frames untouched at full colour resolution. If only one of
// Width or Height is set, the other dimension of the raw frame is kept.
type Preprocessor struct {
	Width  int
	Height int
}

// Enabled returns whether the Preprocessor changes frames
func (p Preprocessor) Enabled() bool {
	return p.Width > 0 || p.Height > 0
}

// Shape returns the shape of a preprocessed frame given the shape of
// the raw frames, which is (height, width, channels)
func (p Preprocessor) Shape(raw []int) []int {
	if !p.Enabled() {
		out := make([]int, len(raw))
		copy(out, raw)
		return out
	}
	height, width := p.size(raw[0], raw[1])
	return []int{height, width}
}

// Process preprocesses a frame. If the Preprocessor is not enabled, the
// frame itself is returned.
func (p Preprocessor) Process(f *Frame) *Frame {
	if !p.Enabled() {
		return f
	}

	grey := Greyscale(f)
	height, width := p.size(f.Height, f.Width)
	if height == grey.Height && width == grey.Width {
		return grey
	}
	return Resize(grey, height, width)
}

func (p Preprocessor) size(rawHeight, rawWidth int) (int, int) {
	height, width := p.Height, p.Width
	if height <= 0 {
		height = rawHeight
	}
	if width <= 0 {
		width = rawWidth
	}
	return height, width
}

// Greyscale converts a frame to a single channel frame. Greyscale
// frames are returned unchanged.
func Greyscale(f *Frame) *Frame {
	if f.Channels == 1 {
		return f
	}

	out := NewFrame(f.Height, f.Width, 1)
	for i := range out.Pix {
		px := f.Pix[i*f.Channels : i*f.Channels+3]
		luma := redWeight*float64(px[0]) + greenWeight*float64(px[1]) +
			blueWeight*float64(px[2])
		out.Pix[i] = floatutils.ClipByte(luma)
	}
	return out
}

// Resize scales a greyscale frame to height x width with bilinear
// interpolation
func Resize(f *Frame, height, width int) *Frame {
	src := f.Image()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return &Frame{
		Pix:      dst.Pix,
		Height:   height,
		Width:    width,
		Channels: 1,
	}
}
