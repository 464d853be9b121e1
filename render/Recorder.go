// Package render implements sinks for the frames rendered by
// environments during a run
package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// Recorder saves each frame it receives as a numbered PNG file. It
// implements core.FrameSink.
type Recorder struct {
	dir    string
	prefix string
	scale  int
	frames int

	// Caption, if true, draws the frame number in the top left corner
	// of each frame
	Caption bool
}

// NewRecorder returns a new Recorder which saves frames to dir, named
// <prefix>-<frame>.png. Frames are scaled up by scale, which must be
// positive.
func NewRecorder(dir, prefix string, scale int) (*Recorder, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("newRecorder: scale must be positive, got %v",
			scale)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("newRecorder: could not create directory: %v",
			err)
	}
	return &Recorder{dir: dir, prefix: prefix, scale: scale}, nil
}

// Frames returns the number of frames saved
func (r *Recorder) Frames() int {
	return r.frames
}

// Frame saves img to the next numbered PNG file
func (r *Recorder) Frame(img image.Image) error {
	bounds := img.Bounds()
	dc := gg.NewContext(bounds.Dx()*r.scale, bounds.Dy()*r.scale)
	dc.Scale(float64(r.scale), float64(r.scale))
	dc.DrawImage(img, -bounds.Min.X, -bounds.Min.Y)
	dc.Identity()

	if r.Caption {
		dc.SetColor(color.White)
		dc.DrawStringAnchored(fmt.Sprint(r.frames), 2, 2, 0, 1)
	}

	filename := filepath.Join(r.dir, fmt.Sprintf("%v-%06d.png", r.prefix,
		r.frames))
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("frame: could not save frame: %v", err)
	}
	r.frames++
	return nil
}
