package process

import (
	"fmt"
	"time"
)

// TimeoutError is returned when a command outlives its timeout.
// The command and its descendants are killed before it is returned.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s", e.Timeout)
}

// ProcessError is returned when a command exits on its own with a non-zero
// exit code, or is killed by a signal not sent by the runner.
type ProcessError struct {
	ExitCode int
	Signal   string
}

func (e *ProcessError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("command terminated by signal %s", e.Signal)
	}
	return fmt.Sprintf("command failed with exit code %d", e.ExitCode)
}
