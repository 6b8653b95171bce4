package domain

import "time"

// Priority is the urgency tag carried by a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Responsible identifies the team member a task is assigned to.
type Responsible struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task represents a single board item as supplied by the read model. The
// board engine treats it as read-only input. Status is the raw persisted
// workflow state and is never validated against a fixed vocabulary.
type Task struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Status          string       `json:"status"`
	Priority        Priority     `json:"priority,omitempty"`
	Responsible     *Responsible `json:"responsible,omitempty"`
	ClientName      string       `json:"clientName,omitempty"`
	CreatedAt       time.Time    `json:"createdAt,omitempty"`
	UpdatedAt       time.Time    `json:"updatedAt,omitempty"`
	DueDate         *time.Time   `json:"dueDate,omitempty"`
	AttachmentCount int          `json:"attachmentCount"`
	CommentCount    int          `json:"commentCount"`
	ChecklistDone   int          `json:"checklistDone"`
	ChecklistTotal  int          `json:"checklistTotal"`
}

// ResponsibleName returns the display name of the assignee or an empty string.
func (t Task) ResponsibleName() string {
	if t.Responsible == nil {
		return ""
	}
	return t.Responsible.Name
}

// ResponsibleID returns the identifier of the assignee or an empty string.
func (t Task) ResponsibleID() string {
	if t.Responsible == nil {
		return ""
	}
	return t.Responsible.ID
}
