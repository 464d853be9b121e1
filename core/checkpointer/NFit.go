package checkpointer

import (
	"fmt"

	"github.com/samuelfneumann/rlcore/dataset"
)

// nFit implements checkpointing every N fits
type nFit struct {
	interval int
	fits     int
	object   Saver

	// filename returns the filename of the file to save the object
	// in.
	//
	// If each checkpoint should be saved in a separate file with an
	// incremented number as a suffix (e.g. file1.bin, file2.bin, ...,
	// fileK.bin), use FilenameEnumerator. If the filename does not
	// matter, use FileTimer:
	//
	// n := NewNFit(10, object, FileTimer("filename", ".bin"))
	filename func() string
}

// NewNFit returns a checkpointer that saves object every n fits
func NewNFit(n int, object Saver, filename func() string) (Checkpointer,
	error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNFit: interval must be positive, got %v", n)
	}
	return &nFit{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the tracked object if the number of fits is a
// multiple of the interval
func (n *nFit) Checkpoint(dataset.Dataset) error {
	n.fits++
	if n.fits%n.interval == 0 {
		if err := n.object.Save(n.filename()); err != nil {
			return fmt.Errorf("checkpoint: %v", err)
		}
	}
	return nil
}
