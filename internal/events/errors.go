package events

import "errors"

// Sentinel errors for the events module.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrUpdateNotFound    = errors.New("event update not found")
	ErrInvalidType       = errors.New("invalid event type")
	ErrInvalidStatus     = errors.New("status not valid for event type")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrStartRequired     = errors.New("event start is required")
	ErrEndRequired       = errors.New("finished event requires an end")
	ErrEndNotAllowed     = errors.New("unfinished event cannot carry an end")
	ErrEndBeforeStart    = errors.New("event end precedes its start")
	ErrUnknownService    = errors.New("unknown service")
)
