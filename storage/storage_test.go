package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"

	"kanban-api/domain"
)

type fakeTable struct {
	pages      [][][]byte
	err        error
	lastFilter string
}

func (f *fakeTable) NewListEntitiesPager(options *aztables.ListEntitiesOptions) *runtime.Pager[aztables.ListEntitiesResponse] {
	if options != nil && options.Filter != nil {
		f.lastFilter = *options.Filter
	}
	page := 0
	return runtime.NewPager(runtime.PagingHandler[aztables.ListEntitiesResponse]{
		More: func(aztables.ListEntitiesResponse) bool {
			return page < len(f.pages)
		},
		Fetcher: func(context.Context, *aztables.ListEntitiesResponse) (aztables.ListEntitiesResponse, error) {
			if f.err != nil {
				return aztables.ListEntitiesResponse{}, f.err
			}
			resp := aztables.ListEntitiesResponse{Entities: f.pages[page]}
			page++
			return resp, nil
		},
	})
}

type fakeQueue struct {
	messages []string
	failAt   int
}

func (f *fakeQueue) EnqueueMessage(_ context.Context, content string, _ *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error) {
	if f.failAt >= 0 && len(f.messages) == f.failAt {
		return azqueue.EnqueueMessagesResponse{}, errors.New("enqueue failure")
	}
	f.messages = append(f.messages, content)
	return azqueue.EnqueueMessagesResponse{}, nil
}

func TestAdaptTaskEnglishColumns(t *testing.T) {
	data := []byte(`{"PartitionKey":"agency","RowKey":"t1","Title":"Logo","Description":"Vector logo",
		"Status":"em_criacao","Priority":"HIGH","ResponsibleId":"u1","ResponsibleName":"Ana",
		"ClientName":"Padaria","DueDate":"2026-05-01T00:00:00Z","AttachmentCount":2,"CommentCount":3,
		"ChecklistDone":1,"ChecklistTotal":4,"Timestamp":"2026-04-01T10:00:00Z"}`)
	task, err := adaptTask(data)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if task.ID != "t1" || task.Title != "Logo" || task.Description != "Vector logo" || task.Status != "em_criacao" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Priority != domain.PriorityHigh {
		t.Fatalf("unexpected priority: %q", task.Priority)
	}
	if task.Responsible == nil || task.Responsible.ID != "u1" || task.Responsible.Name != "Ana" {
		t.Fatalf("unexpected responsible: %+v", task.Responsible)
	}
	if task.DueDate == nil || !task.DueDate.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", task.DueDate)
	}
	if task.UpdatedAt.IsZero() || task.AttachmentCount != 2 || task.CommentCount != 3 || task.ChecklistTotal != 4 {
		t.Fatalf("unexpected aggregates: %+v", task)
	}
}

func TestAdaptTaskLegacyColumns(t *testing.T) {
	data := []byte(`{"PartitionKey":"agency","RowKey":"t2","Titulo":"Roteiro","Descricao":"Vídeo institucional",
		"Etapa":"roteiro","Prioridade":"baixa","ResponsavelNome":"Bruno","Cliente":"Studio Norte",
		"Prazo":"2026-06-10T00:00:00Z"}`)
	task, err := adaptTask(data)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if task.Title != "Roteiro" || task.Description != "Vídeo institucional" || task.Status != "roteiro" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Priority != domain.PriorityLow || task.ClientName != "Studio Norte" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Responsible == nil || task.Responsible.ID != "" || task.Responsible.Name != "Bruno" {
		t.Fatalf("unexpected responsible: %+v", task.Responsible)
	}
	if task.DueDate == nil {
		t.Fatalf("expected Prazo to populate due date")
	}
}

func TestAdaptTaskKeepsRawStatusAndDefaults(t *testing.T) {
	task, err := adaptTask([]byte(`{"RowKey":"t3","Title":"x","Status":" Briefing "}`))
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if task.Status != " Briefing " {
		t.Fatalf("status must be passed through untouched, got %q", task.Status)
	}
	if task.Priority != domain.PriorityMedium || task.Responsible != nil || task.DueDate != nil {
		t.Fatalf("unexpected defaults: %+v", task)
	}
}

func TestAdaptTaskRejectsMissingRowKey(t *testing.T) {
	if _, err := adaptTask([]byte(`{"PartitionKey":"agency","Title":"orphan"}`)); err == nil {
		t.Fatalf("expected error for entity without row key")
	}
	if _, err := adaptTask([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for malformed entity")
	}
}

func TestFetchTasksPagesAndFilters(t *testing.T) {
	table := &fakeTable{pages: [][][]byte{
		{[]byte(`{"RowKey":"1","Title":"a","Status":"briefing"}`)},
		{[]byte(`{"RowKey":"2","Titulo":"b","Etapa":"ajustes"}`), []byte(`{"RowKey":"3","Title":"c"}`)},
	}}
	s := &Storage{taskTable: table}

	tasks, err := s.FetchTasks(context.Background(), "o'neil", "design")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(tasks) != 3 || tasks[1].Title != "b" || tasks[1].Status != "ajustes" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	want := "PartitionKey eq 'o''neil' and Module eq 'design'"
	if table.lastFilter != want {
		t.Fatalf("unexpected filter %q", table.lastFilter)
	}
}

func TestFetchTasksErrors(t *testing.T) {
	boom := errors.New("table down")
	s := &Storage{taskTable: &fakeTable{pages: [][][]byte{{}}, err: boom}}
	if _, err := s.FetchTasks(context.Background(), "a", "design"); !errors.Is(err, boom) {
		t.Fatalf("expected pager error, got %v", err)
	}

	s = &Storage{taskTable: &fakeTable{pages: [][][]byte{{[]byte(`{"Title":"no key"}`)}}}}
	if _, err := s.FetchTasks(context.Background(), "a", "design"); err == nil {
		t.Fatalf("expected adapter error")
	}
}

func TestEnqueueCommandsWrapsEnvelope(t *testing.T) {
	q := &fakeQueue{failAt: -1}
	s := &Storage{commandQueue: q}
	cmds := []domain.Command{
		{ID: "k1", IdempotencyKey: "k1", EntityType: domain.EntityTypeTask, Type: domain.CommandTaskMoved, Data: []byte(`{"taskId":"b","columnId":"revisao_interna"}`)},
		{ID: "k2", IdempotencyKey: "k2", EntityType: domain.EntityTypeTask, Type: domain.CommandTaskCreateRequest},
	}

	if err := s.EnqueueCommands(context.Background(), "agency", "design", cmds); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if len(q.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(q.messages))
	}
	var env domain.CommandEnvelope
	if err := json.Unmarshal([]byte(q.messages[0]), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.TenantID != "agency" || env.Module != "design" || env.Command.Type != domain.CommandTaskMoved {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if !strings.Contains(q.messages[0], `"columnId":"revisao_interna"`) {
		t.Fatalf("payload not embedded: %s", q.messages[0])
	}
}

func TestEnqueueCommandsStopsOnFailure(t *testing.T) {
	q := &fakeQueue{failAt: 1}
	s := &Storage{commandQueue: q}
	err := s.EnqueueCommands(context.Background(), "agency", "design", []domain.Command{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	if err == nil {
		t.Fatalf("expected enqueue error")
	}
	if len(q.messages) != 1 {
		t.Fatalf("expected enqueue to stop after failure, sent %d", len(q.messages))
	}
}
