package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kanban-api/domain"
)

// taskRecord is the union of the column names used by the agency tools that
// write to the task table. Older rows were written with Portuguese property
// names; adaptTask folds both vocabularies into domain.Task.
type taskRecord struct {
	PartitionKey string     `json:"PartitionKey"`
	RowKey       string     `json:"RowKey"`
	Timestamp    *time.Time `json:"Timestamp"`

	Title       string `json:"Title"`
	Titulo      string `json:"Titulo"`
	Nome        string `json:"Nome"`
	Description string `json:"Description"`
	Descricao   string `json:"Descricao"`
	Status      string `json:"Status"`
	Etapa       string `json:"Etapa"`
	Priority    string `json:"Priority"`
	Prioridade  string `json:"Prioridade"`

	ResponsibleID   string `json:"ResponsibleId"`
	ResponsavelID   string `json:"ResponsavelId"`
	ResponsibleName string `json:"ResponsibleName"`
	ResponsavelNome string `json:"ResponsavelNome"`
	ClientName      string `json:"ClientName"`
	Cliente         string `json:"Cliente"`

	CreatedAt  *time.Time `json:"CreatedAt"`
	CriadoEm   *time.Time `json:"CriadoEm"`
	DueDate    *time.Time `json:"DueDate"`
	Prazo      *time.Time `json:"Prazo"`
	Deadline   *time.Time `json:"Deadline"`
	Attachment int        `json:"AttachmentCount"`
	Comments   int        `json:"CommentCount"`
	ChecksDone int        `json:"ChecklistDone"`
	Checks     int        `json:"ChecklistTotal"`
}

var priorityAliases = map[string]domain.Priority{
	"low":    domain.PriorityLow,
	"baixa":  domain.PriorityLow,
	"medium": domain.PriorityMedium,
	"media":  domain.PriorityMedium,
	"média":  domain.PriorityMedium,
	"normal": domain.PriorityMedium,
	"high":   domain.PriorityHigh,
	"alta":   domain.PriorityHigh,
	"urgent": domain.PriorityHigh,
}

// adaptTask converts a raw table entity into a domain.Task. The row key is
// the task id; entities without one are rejected.
func adaptTask(data []byte) (domain.Task, error) {
	var rec taskRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Task{}, err
	}
	if rec.RowKey == "" {
		return domain.Task{}, fmt.Errorf("task entity in partition %q has no row key", rec.PartitionKey)
	}

	task := domain.Task{
		ID:              rec.RowKey,
		Title:           firstNonEmpty(rec.Title, rec.Titulo, rec.Nome),
		Description:     firstNonEmpty(rec.Description, rec.Descricao),
		Status:          firstNonEmpty(rec.Status, rec.Etapa),
		Priority:        adaptPriority(firstNonEmpty(rec.Priority, rec.Prioridade)),
		ClientName:      firstNonEmpty(rec.ClientName, rec.Cliente),
		DueDate:         firstTime(rec.DueDate, rec.Prazo, rec.Deadline),
		AttachmentCount: rec.Attachment,
		CommentCount:    rec.Comments,
		ChecklistDone:   rec.ChecksDone,
		ChecklistTotal:  rec.Checks,
	}
	if created := firstTime(rec.CreatedAt, rec.CriadoEm); created != nil {
		task.CreatedAt = *created
	}
	if rec.Timestamp != nil {
		task.UpdatedAt = *rec.Timestamp
	}
	respID := firstNonEmpty(rec.ResponsibleID, rec.ResponsavelID)
	respName := firstNonEmpty(rec.ResponsibleName, rec.ResponsavelNome)
	if respID != "" || respName != "" {
		task.Responsible = &domain.Responsible{ID: respID, Name: respName}
	}
	return task, nil
}

// adaptPriority maps stored priorities onto the three board levels. Missing
// or unrecognised values count as medium.
func adaptPriority(v string) domain.Priority {
	if p, ok := priorityAliases[strings.ToLower(strings.TrimSpace(v))]; ok {
		return p
	}
	return domain.PriorityMedium
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstTime(values ...*time.Time) *time.Time {
	for _, v := range values {
		if v != nil && !v.IsZero() {
			return v
		}
	}
	return nil
}
