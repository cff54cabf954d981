package pickup

import "fmt"

// Status represents the current state of a pickup in its lifecycle.
type Status string

const (
	StatusRequested Status = "requested"
	StatusRouted    Status = "routed"
	StatusCollected Status = "collected"
	StatusCancelled Status = "cancelled"
)

// validTransitions defines the state machine for pickup status transitions.
var validTransitions = map[Status][]Status{
	StatusRequested: {StatusRouted, StatusCancelled},
	StatusRouted:    {StatusCollected, StatusCancelled},
	StatusCollected: {},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized pickup status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid pickup status: %s", s)
	}
	return status, nil
}
