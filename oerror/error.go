package oerror

import "fmt"

// GraspError is returned by grasp packages for invalid configuration and startup failures.
type GraspError struct {
	Err string
}

// New returns a GraspError with a message formatted from the format and arguments passed.
func New(format string, args ...any) *GraspError {
	return &GraspError{Err: fmt.Sprintf(format, args...)}
}

func (e *GraspError) Error() string {
	return e.Err
}
