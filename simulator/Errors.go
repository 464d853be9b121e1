package simulator

import "errors"

var (
	// ErrUnknownSimulator reports that no simulator is registered
	// under a requested name
	ErrUnknownSimulator = errors.New("unknown simulator")

	// ErrUnsupportedSpace reports a space kind which cannot be
	// represented faithfully
	ErrUnsupportedSpace = errors.New("unsupported space")

	// ErrStateUnsupported reports that a simulator's state cannot be
	// overwritten
	ErrStateUnsupported = errors.New("simulator state cannot be set")

	// ErrClosed reports use of a closed simulator
	ErrClosed = errors.New("simulator closed")
)

// Error is an error raised at the simulator boundary
type Error struct {
	Op   string
	Name string
	Err  error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	if e.Name == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}
