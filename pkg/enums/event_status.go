package enums

import "fmt"

// EventStatus tracks the lifecycle of an attendance event.
// Active events accept check-ins; ended is terminal.
type EventStatus string

const (
	EventStatusActive EventStatus = "active"
	EventStatusEnded  EventStatus = "ended"
)

var validEventStatuses = []EventStatus{
	EventStatusActive,
	EventStatusEnded,
}

// String implements fmt.Stringer.
func (s EventStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EventStatus.
func (s EventStatus) IsValid() bool {
	for _, candidate := range validEventStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status may move to next.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventStatusActive:
		return next == EventStatusEnded
	case EventStatusEnded:
		// ending twice is allowed and idempotent
		return next == EventStatusEnded
	default:
		return false
	}
}

// ParseEventStatus converts raw input into an EventStatus.
func ParseEventStatus(value string) (EventStatus, error) {
	for _, candidate := range validEventStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event status %q", value)
}
