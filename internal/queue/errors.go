package queue

import "errors"

// ErrNotFound is returned when a job id does not exist.
var ErrNotFound = errors.New("render job not found")

// ErrTerminal is returned when mutating a job already in a final state.
var ErrTerminal = errors.New("render job already in a terminal state")
