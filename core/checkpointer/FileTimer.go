package checkpointer

import (
	"fmt"
	"time"
)

// timestampLayout formats times so that filenames sort in the order
// they were written
const timestampLayout = "20060102T150405.000000000"

// FileTimer returns a function which names each checkpoint file after
// the UTC time at which the name was requested. Names requested within
// the same nanosecond are numbered so that no checkpoint is overwritten.
func FileTimer(filename, extension string) func() string {
	return fileTimer(filename, extension, time.Now)
}

func fileTimer(filename, extension string, now func() time.Time) func() string {
	var last string
	repeats := 0
	return func() string {
		stamp := now().UTC().Format(timestampLayout)
		if stamp != last {
			last, repeats = stamp, 0
			return fmt.Sprintf("%v-%v%v", filename, stamp, extension)
		}

		repeats++
		return fmt.Sprintf("%v-%v-%v%v", filename, stamp, repeats, extension)
	}
}
