package domain

import (
	"encoding/json"
	"time"
)

// AuditEvent records a mutation of session data. Payload is opaque JSON.
type AuditEvent struct {
	ID        string
	EventType AuditEventType
	Payload   json.RawMessage
	CreatedAt time.Time
}
