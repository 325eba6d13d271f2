package models

import "time"

// StepStatus represents the lifecycle state of a pipeline step
type StepStatus string

const (
	StepNotStarted StepStatus = "not_started"
	StepRunning    StepStatus = "running"
	StepSuccess    StepStatus = "success"
	StepFailed     StepStatus = "failed"
	StepSkipped    StepStatus = "skipped"
)

// Valid reports whether s is one of the closed set of step states
func (s StepStatus) Valid() bool {
	switch s {
	case StepNotStarted, StepRunning, StepSuccess, StepFailed, StepSkipped:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s
func (s StepStatus) Terminal() bool {
	switch s {
	case StepSuccess, StepFailed, StepSkipped:
		return true
	}
	return false
}

// StepEntry records the lifecycle of one named pipeline stage
type StepEntry struct {
	Status       StepStatus `json:"status" validate:"required,oneof=not_started running success failed skipped"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	ErrorCode    string     `json:"error_code,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// NewStepEntry creates a StepEntry in the not_started state
func NewStepEntry() *StepEntry {
	return &StepEntry{Status: StepNotStarted}
}
