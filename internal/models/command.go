package models

import "time"

// WriteCommand is one operator write. Value is nil when the request omitted it.
type WriteCommand struct {
	PointID   string
	Value     *float64
	Momentary bool
}

// Ack confirms a completed write command.
type Ack struct {
	PointID string  `json:"tag"`
	Value   float64 `json:"value"`
}

// Command event types recorded in the audit log.
const (
	EventWrite       = "WRITE"
	EventPulse       = "PULSE"
	EventRejected    = "REJECTED"
	EventFault       = "FAULT"
	EventClearFailed = "CLEAR_FAILED"
)

// CommandEvent is a single audit log entry for a write command.
type CommandEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // WRITE | PULSE | REJECTED | FAULT | CLEAR_FAILED
	PointID     string    `json:"tag"`
	Value       float64   `json:"value"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
