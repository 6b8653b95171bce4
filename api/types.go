package api

import (
	"context"

	"kanban-api/domain"
)

// Storage abstracts the task store and command queue for handlers.
type Storage interface {
	FetchTasks(ctx context.Context, tenantID, module string) ([]domain.Task, error)
	EnqueueCommands(ctx context.Context, tenantID, module string, cmds []domain.Command) error
}

// Deduper prevents processing of duplicate board commands.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, tenantID, key string) (bool, error)
	// Remove deletes a previously added key, used when downstream processing fails.
	Remove(ctx context.Context, tenantID, key string) error
}
