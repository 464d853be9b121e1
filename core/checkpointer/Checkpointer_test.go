package checkpointer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// recorder records the filenames it is saved to
type recorder struct {
	saved []string
	err   error
}

func (r *recorder) Save(filename string) error {
	r.saved = append(r.saved, filename)
	return r.err
}

func TestNFit(t *testing.T) {
	r := &recorder{}
	c, err := NewNFit(3, r, FilenameEnumerator(0, "ckpt", ".bin"))
	if err != nil {
		t.Fatalf("could not create checkpointer: %v", err)
	}

	for i := 0; i < 7; i++ {
		if err := c.Checkpoint(nil); err != nil {
			t.Fatalf("checkpoint: %v", err)
		}
	}

	want := []string{"ckpt1.bin", "ckpt2.bin"}
	if len(r.saved) != len(want) {
		t.Fatalf("saved = %v, want %v", r.saved, want)
	}
	for i := range want {
		if r.saved[i] != want[i] {
			t.Errorf("saved[%v] = %v, want %v", i, r.saved[i], want[i])
		}
	}
}

func TestNFitInvalid(t *testing.T) {
	if _, err := NewNFit(0, &recorder{}, FileTimer("ckpt", ".bin")); err == nil {
		t.Errorf("NewNFit() should reject a zero interval")
	}
}

func TestNFitSaveError(t *testing.T) {
	saveErr := errors.New("disk full")
	c, _ := NewNFit(1, &recorder{err: saveErr}, FileTimer("ckpt", ".bin"))

	if err := c.Checkpoint(nil); err == nil ||
		!strings.Contains(err.Error(), saveErr.Error()) {
		t.Errorf("Checkpoint() error = %v, want %v", err, saveErr)
	}
}

func TestFileTimer(t *testing.T) {
	name := FileTimer("dir/ckpt", ".bin")()
	if !strings.HasPrefix(name, "dir/ckpt-") || !strings.HasSuffix(name,
		".bin") {
		t.Errorf("FileTimer() filename = %v", name)
	}
}

func TestFileTimerNames(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	times := []time.Time{
		time.Date(2021, 3, 4, 5, 6, 7, 8, zone),
		time.Date(2021, 3, 4, 5, 6, 7, 8, zone),
		time.Date(2021, 3, 4, 5, 6, 7, 8, zone),
		time.Date(2021, 3, 4, 5, 6, 7, 9, zone),
	}
	i := 0
	now := func() time.Time {
		next := times[i]
		i++
		return next
	}

	name := fileTimer("ckpt", ".bin", now)
	want := []string{
		"ckpt-20210304T030607.000000008.bin",
		"ckpt-20210304T030607.000000008-1.bin",
		"ckpt-20210304T030607.000000008-2.bin",
		"ckpt-20210304T030607.000000009.bin",
	}
	for j := range want {
		if got := name(); got != want[j] {
			t.Errorf("filename %v = %v, want %v", j, got, want[j])
		}
	}
}
