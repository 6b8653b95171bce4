package domain

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestTaskMarshalIncludesZeroCounters(t *testing.T) {
	task := Task{ID: "t1", Title: "Title", Status: "briefing"}

	payload, err := sonic.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}

	for _, field := range []string{`"attachmentCount":0`, `"commentCount":0`, `"checklistTotal":0`} {
		if !strings.Contains(string(payload), field) {
			t.Fatalf("expected %s to be present, got %s", field, payload)
		}
	}
	if strings.Contains(string(payload), "responsible") {
		t.Fatalf("expected nil responsible to be omitted, got %s", payload)
	}
}

func TestTaskResponsibleAccessors(t *testing.T) {
	var task Task
	if task.ResponsibleID() != "" || task.ResponsibleName() != "" {
		t.Fatalf("expected empty responsible accessors for unassigned task")
	}

	task.Responsible = &Responsible{ID: "u1", Name: "Ana"}
	if task.ResponsibleID() != "u1" || task.ResponsibleName() != "Ana" {
		t.Fatalf("unexpected responsible accessors: %q %q", task.ResponsibleID(), task.ResponsibleName())
	}
}

func TestBoundColumnEmbedsColumnFields(t *testing.T) {
	bc := BoundColumn{Column: Column{ID: "briefing", Title: "Briefing", Order: 0}, Tasks: []Task{}}

	payload, err := sonic.Marshal(bc)
	if err != nil {
		t.Fatalf("marshal column: %v", err)
	}
	if !strings.Contains(string(payload), `"id":"briefing"`) || !strings.Contains(string(payload), `"tasks":[]`) {
		t.Fatalf("unexpected payload: %s", payload)
	}
}
