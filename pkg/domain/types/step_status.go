package types

import "fmt"

// StepStatus represents the status of a plan step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusWaiting   StepStatus = "waiting"
	StepStatusCompleted StepStatus = "completed"
)

// AllStepStatuses returns all valid step statuses
func AllStepStatuses() []StepStatus {
	return []StepStatus{
		StepStatusPending,
		StepStatusWaiting,
		StepStatusCompleted,
	}
}

// IsValid checks if the step status is valid
func (s StepStatus) IsValid() bool {
	switch s {
	case StepStatusPending,
		StepStatusWaiting,
		StepStatusCompleted:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the step still needs work (pending or waiting)
func (s StepStatus) IsOpen() bool {
	return s == StepStatusPending || s == StepStatusWaiting
}

// String returns the string representation of the step status
func (s StepStatus) String() string {
	return string(s)
}

// ParseStepStatus parses a string into a StepStatus
func ParseStepStatus(s string) (StepStatus, error) {
	status := StepStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid step status: %s", s)
	}
	return status, nil
}
