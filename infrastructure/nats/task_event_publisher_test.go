package nats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"todo-api/domain/ports"
	"todo-api/pkg/logger"
)

func TestSubjects(t *testing.T) {
	assert.Equal(t, "todo.task.created", subjectFor("todo", string(ports.TaskCreated)))
	assert.Equal(t, "dev.todo.task.deleted", subjectFor("dev.todo", string(ports.TaskDeleted)))
	assert.Equal(t, "todo.task.>", subjectWildcard("todo"))
}

func TestToMessage(t *testing.T) {
	ctx := logger.ContextWithRequestID(context.Background(), "req-1")
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	msg := toMessage(ctx, ports.TaskEvent{Type: ports.TaskUpdated, TaskID: 5, OwnerID: 2, OccurredAt: at})

	assert.Equal(t, TaskEventMessage{
		Type:       "updated",
		TaskID:     5,
		OwnerID:    2,
		OccurredAt: at.Unix(),
		RequestID:  "req-1",
	}, msg)
}
