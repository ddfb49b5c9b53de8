package models

import "time"

// Command is the value written to the LED entity on the broker.
type Command string

const (
	CommandUnset Command = ""
	CommandOn    Command = "on"
	CommandOff   Command = "off"
)

// Valid reports whether c can be sent to the broker.
func (c Command) Valid() bool {
	return c == CommandOn || c == CommandOff
}

func (c Command) String() string {
	if c == CommandUnset {
		return "unset"
	}
	return string(c)
}

// ActuatorState holds the last command the broker acknowledged.
// Only the dispatcher mutates it, and only after a 2xx response.
type ActuatorState struct {
	LastCommandSent Command
	AcknowledgedAt  time.Time
}

// ActuatorStatus is the read model exposed to the dashboard.
type ActuatorStatus struct {
	LastCommandSent string     `json:"last_command_sent"` // on | off | unset
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty"`
	LastDecision    *Decision  `json:"last_decision,omitempty"`
	LastTickAt      *time.Time `json:"last_tick_at,omitempty"`
}
