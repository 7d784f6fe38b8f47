package nats

import (
	"fmt"
	"time"
)

// Stream ที่เก็บ task lifecycle events
const (
	EventsStreamName = "TODO_EVENTS"
	EventsMaxAge     = 7 * 24 * time.Hour
)

// subjectFor returns <prefix>.task.<type>, e.g. todo.task.created.
func subjectFor(prefix, eventType string) string {
	return fmt.Sprintf("%s.task.%s", prefix, eventType)
}

// subjectWildcard matches every task event under prefix.
func subjectWildcard(prefix string) string {
	return prefix + ".task.>"
}

// TaskEventMessage - API → consumers (via JetStream)
type TaskEventMessage struct {
	Type       string `json:"type"`
	TaskID     int64  `json:"task_id"`
	OwnerID    int64  `json:"owner_id"`
	OccurredAt int64  `json:"occurred_at"` // unix seconds
	RequestID  string `json:"request_id,omitempty"`
}
