package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names an audited operation.
type Action string

const (
	ActionSettingUpdated   Action = "setting_updated"
	ActionExhibitorCreated Action = "exhibitor_created"
)

// Event records one privileged change. It is transport-agnostic so sinks
// can fan out.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Action    Action    `json:"action"`
	ActorID   string    `json:"actor_id"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Device    string    `json:"device,omitempty"`
}
