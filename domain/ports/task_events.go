package ports

import (
	"context"
	"time"
)

type TaskEventType string

const (
	TaskCreated TaskEventType = "created"
	TaskUpdated TaskEventType = "updated"
	TaskDeleted TaskEventType = "deleted"
)

// TaskEvent - Plain struct (ไม่มี NATS dependency)
type TaskEvent struct {
	Type       TaskEventType `json:"type"`
	TaskID     int64         `json:"taskId"`
	OwnerID    int64         `json:"ownerId"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// TaskEventPublisher ส่ง task lifecycle events ออกไปภายนอก (best-effort)
type TaskEventPublisher interface {
	Publish(ctx context.Context, event TaskEvent) error
}
