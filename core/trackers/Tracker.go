// Package trackers implements step callbacks which track data generated
// while an agent interacts with an environment, to be saved to disk
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/rlcore/timestep"
)

// Tracker tracks data from the transitions collected by the episode
// orchestration engine. Track is used as a core.StepCallback.
type Tracker interface {
	Track(t timestep.Transition)
	Save(filename string) error
}

// save gob encodes data to filename
func save(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %v", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %v", err)
	}
	return nil
}

// LoadData decodes data saved by a Tracker into data, which should be
// a pointer to the type of data the Tracker saves
func LoadData(filename string, data interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("loadData: could not open file: %v", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(data); err != nil {
		return fmt.Errorf("loadData: could not decode data: %v", err)
	}
	return nil
}
