package frames

import "fmt"

// History is a fixed-capacity ring of the most recent frames. Pushing a
// frame onto a full History evicts the oldest frame. The History holds
// references to frames and never copies pixel data.
type History struct {
	frames []*Frame
	start  int // Index of the oldest frame
	count  int
}

// NewHistory returns a new, empty History holding up to length frames
func NewHistory(length int) (*History, error) {
	if length <= 0 {
		return nil, fmt.Errorf("newHistory: length must be positive but "+
			"got %v", length)
	}
	return &History{frames: make([]*Frame, length)}, nil
}

// Cap returns the number of frames the History holds when full
func (h *History) Cap() int {
	return len(h.frames)
}

// Len returns the number of frames currently in the History
func (h *History) Len() int {
	return h.count
}

// Fill replaces every slot in the History with f
func (h *History) Fill(f *Frame) {
	for i := range h.frames {
		h.frames[i] = f
	}
	h.start = 0
	h.count = len(h.frames)
}

// Push appends f as the newest frame, evicting the oldest frame if the
// History is full
func (h *History) Push(f *Frame) {
	if h.count < len(h.frames) {
		h.frames[(h.start+h.count)%len(h.frames)] = f
		h.count++
		return
	}
	h.frames[h.start] = f
	h.start = (h.start + 1) % len(h.frames)
}

// Frames returns the frames in the History, oldest first
func (h *History) Frames() []*Frame {
	out := make([]*Frame, h.count)
	for i := range out {
		out[i] = h.frames[(h.start+i)%len(h.frames)]
	}
	return out
}

// View returns a lazy stacked view of the frames currently in the
// History, oldest first. The view shares frames with the History and
// is unaffected by later calls to Push or Fill.
func (h *History) View() *LazyFrames {
	return NewLazyFrames(h.Frames())
}
