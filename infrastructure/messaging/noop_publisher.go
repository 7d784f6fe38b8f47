package messaging

import (
	"context"
	"log/slog"

	"todo-api/domain/ports"
	"todo-api/pkg/logger"
)

// NoopPublisher - ใช้เมื่อไม่ได้ตั้งค่า NATS_URL (dev/test)
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{logger: logger.Component("noop_publisher")}
}

func (p *NoopPublisher) Publish(ctx context.Context, event ports.TaskEvent) error {
	p.logger.DebugContext(ctx, "Task event (noop)",
		"type", event.Type,
		"task_id", event.TaskID,
	)
	return nil
}

// Verify interface implementation
var _ ports.TaskEventPublisher = (*NoopPublisher)(nil)
