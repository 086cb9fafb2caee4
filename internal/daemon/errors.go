package daemon

import "fmt"

// ReadError means the power subsystem could not be read. It ends the loop.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read power state: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ApplyError means one brightness change failed. The loop logs it and
// carries on.
type ApplyError struct {
	Display string
	Value   uint32
	Err     error
}

func (e *ApplyError) Error() string {
	if e.Display == "" {
		return fmt.Sprintf("apply brightness %d: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("apply brightness %d to %s: %v", e.Value, e.Display, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }
