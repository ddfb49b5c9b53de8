package models

import "time"

// Actuator event types.
const (
	EventCommandSent     = "COMMAND_SENT"
	EventCommandFailed   = "COMMAND_FAILED"
	EventCommandRejected = "COMMAND_REJECTED"
)

// ActuatorEvent is a single audit entry for a command attempt.
type ActuatorEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`    // COMMAND_SENT | COMMAND_FAILED | COMMAND_REJECTED
	Command     string    `json:"command"` // on | off | whatever was rejected
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
