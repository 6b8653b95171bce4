package api

import (
	"kanban-api/board"
	"kanban-api/domain"
)

const postBodyMaxSize = 16 * 1024 // 16 KiB

// POST /api/tenants/:tenant/boards/:module/moves request body
type moveRequest struct {
	TaskID         string `json:"taskId"`
	OverID         string `json:"overId"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// POST /api/tenants/:tenant/boards/:module/moves response body
type moveResponse struct {
	Moved          bool   `json:"moved"`
	Duplicate      bool   `json:"duplicate,omitempty"`
	TaskID         string `json:"taskId,omitempty"`
	FromColumnID   string `json:"fromColumnId,omitempty"`
	ColumnID       string `json:"columnId,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// POST /api/tenants/:tenant/boards/:module/tasks request body
type createTaskRequest struct {
	ColumnID       string `json:"columnId,omitempty"`
	Title          string `json:"title"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// POST /api/tenants/:tenant/boards/:module/tasks response body
type createTaskResponse struct {
	Duplicate      bool   `json:"duplicate,omitempty"`
	ColumnID       string `json:"columnId,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// GET /api/tenants/:tenant/boards/:module response body
type boardResponse struct {
	Module   string               `json:"module"`
	Columns  []domain.BoundColumn `json:"columns"`
	Rejected int                  `json:"rejected,omitempty"`
	Filter   board.Filter         `json:"filter"`
}

// GET /api/tenants/:tenant/boards/:module/columns response body
type columnsResponse struct {
	Module  string          `json:"module"`
	Columns []domain.Column `json:"columns"`
}

type errorResponse struct {
	Error string `json:"error"`
}
