package battle

import "fmt"

// SimulationError reports an internal invariant violation that aborted a
// battle: acting on a dead unit, moving outside grid bounds, dispatching an
// unknown effect kind. It marks a programming error, so the battle is not
// retried; the caller decides what to do with the failed simulation.
type SimulationError struct {
	Reason string
}

// Error implements the error interface.
func (e *SimulationError) Error() string {
	return "battle simulation failed: " + e.Reason
}

// simErrorf builds a SimulationError from a format string.
func simErrorf(format string, args ...any) *SimulationError {
	return &SimulationError{Reason: fmt.Sprintf(format, args...)}
}
