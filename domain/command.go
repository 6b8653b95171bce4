package domain

import "github.com/bytedance/sonic"

const (
	EntityTypeTask = "task"

	CommandTaskMoved         = "task-moved"
	CommandTaskCreateRequest = "task-create-requested"
)

// Command represents a write request forwarded to the downstream task service.
type Command struct {
	// ID carries the idempotency key when enqueued to the command queue.
	ID             string                 `json:"id,omitempty"`
	IdempotencyKey string                 `json:"idempotencyKey"`
	EntityType     string                 `json:"entityType"`
	Type           string                 `json:"type"`
	Data           sonic.NoCopyRawMessage `json:"data,omitempty"`
	Timestamp      int64                  `json:"timestamp"`
}

// CommandEnvelope wraps a command with the tenant board it belongs to.
type CommandEnvelope struct {
	TenantID string  `json:"tenantId"`
	Module   string  `json:"module"`
	Command  Command `json:"command"`
}

// TaskMovedData is the payload of a task-moved command.
type TaskMovedData struct {
	TaskID       string `json:"taskId"`
	FromColumnID string `json:"fromColumnId,omitempty"`
	ColumnID     string `json:"columnId"`
}

// TaskCreateRequestedData is the payload of a task-create-requested command.
type TaskCreateRequestedData struct {
	ColumnID string `json:"columnId,omitempty"`
	Title    string `json:"title,omitempty"`
}
