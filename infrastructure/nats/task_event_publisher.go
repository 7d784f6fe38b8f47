package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"todo-api/domain/ports"
	"todo-api/pkg/logger"
)

const publishTimeout = 2 * time.Second

// TaskEventPublisher publishes task lifecycle events to JetStream
type TaskEventPublisher struct {
	client *Client
}

func NewTaskEventPublisher(client *Client) *TaskEventPublisher {
	return &TaskEventPublisher{client: client}
}

func (p *TaskEventPublisher) Publish(ctx context.Context, event ports.TaskEvent) error {
	data, err := json.Marshal(toMessage(ctx, event))
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}

	// ไม่ให้ request รอ ack นานเกินไป
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	subject := subjectFor(p.client.subjectPrefix, string(event.Type))
	ack, err := p.client.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	logger.DebugContext(ctx, "Task event published",
		"subject", subject,
		"task_id", event.TaskID,
		"sequence", ack.Sequence,
	)
	return nil
}

func toMessage(ctx context.Context, event ports.TaskEvent) TaskEventMessage {
	return TaskEventMessage{
		Type:       string(event.Type),
		TaskID:     event.TaskID,
		OwnerID:    event.OwnerID,
		OccurredAt: event.OccurredAt.Unix(),
		RequestID:  logger.GetRequestID(ctx),
	}
}

// Verify interface implementation
var _ ports.TaskEventPublisher = (*TaskEventPublisher)(nil)
