package board

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"kanban-api/domain"
)

type recordingCallbacks struct {
	mu      sync.Mutex
	moves   [][2]string
	creates []string
	clicks  []string
}

func (r *recordingCallbacks) OnTaskMove(taskID, columnID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = append(r.moves, [2]string{taskID, columnID})
}

func (r *recordingCallbacks) OnTaskCreate(columnID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates = append(r.creates, columnID)
}

func (r *recordingCallbacks) OnTaskClick(task domain.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks = append(r.clicks, task.ID)
}

func TestSessionDragScenario(t *testing.T) {
	cb := &recordingCallbacks{}
	s := NewSession(nil, ModuleDesign, cb)
	s.SetTasks([]domain.Task{
		{ID: "a", Status: "briefing"},
		{ID: "b", Status: "em_criacao"},
	})

	if !s.StartDrag("b") {
		t.Fatalf("expected drag to start")
	}
	if s.DragState() != DragDragging {
		t.Fatalf("expected dragging state")
	}
	s.DragOver("revisao_interna")
	if _, ok := s.Drop(); !ok {
		t.Fatalf("expected drop to resolve")
	}

	if len(cb.moves) != 1 || cb.moves[0] != [2]string{"b", "revisao_interna"} {
		t.Fatalf("unexpected moves: %v", cb.moves)
	}
	if s.DragState() != DragIdle {
		t.Fatalf("expected idle after drop")
	}
}

func TestSessionRefreshDuringDrag(t *testing.T) {
	cb := &recordingCallbacks{}
	s := NewSession(nil, ModuleProjectTracking, cb)
	s.SetTasks([]domain.Task{
		{ID: "1", Status: "todo"},
		{ID: "2", Status: "in_progress"},
	})

	s.StartDrag("1")
	s.DragOver("2")
	s.SetTasks([]domain.Task{
		{ID: "1", Status: "todo"},
		{ID: "2", Status: "review"},
	})
	mv, ok := s.Drop()
	if !ok || mv.ColumnID != "revisao" {
		t.Fatalf("expected drop to resolve against refreshed list, got %+v (ok=%v)", mv, ok)
	}
}

func TestSessionDropOnFilteredOutTaskIsNoop(t *testing.T) {
	cb := &recordingCallbacks{}
	s := NewSession(nil, ModuleGeneric, cb)
	s.SetTasks([]domain.Task{
		{ID: "1", Status: "todo", Priority: domain.PriorityHigh},
		{ID: "2", Status: "done", Priority: domain.PriorityLow},
	})
	s.SetPriority("high")

	s.StartDrag("1")
	s.DragOver("2")
	if _, ok := s.Drop(); ok {
		t.Fatalf("hidden task must not be a drop target")
	}
	if len(cb.moves) != 0 {
		t.Fatalf("unexpected moves: %v", cb.moves)
	}
}

func TestSessionStartDragUnknownTask(t *testing.T) {
	s := NewSession(nil, ModuleGeneric, nil)
	if s.StartDrag("missing") {
		t.Fatalf("expected unknown task drag to fail")
	}
	if _, ok := s.Drop(); ok {
		t.Fatalf("drop without drag must be a no-op")
	}
}

func TestSessionClickSuppressedAfterDrag(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cb := &recordingCallbacks{}
	s := NewSession(nil, ModuleGeneric, cb, WithCoordinatorOptions(WithClock(func() time.Time { return now })))
	s.SetTasks([]domain.Task{{ID: "1", Status: "todo"}})

	if !s.ClickTask("1") {
		t.Fatalf("expected click to open task")
	}
	s.StartDrag("1")
	s.DragOver("done")
	s.Drop()
	if s.ClickTask("1") {
		t.Fatalf("click right after drop must be ignored")
	}
	now = now.Add(time.Second)
	if !s.ClickTask("1") {
		t.Fatalf("expected click after suppression window")
	}
	if s.ClickTask("missing") {
		t.Fatalf("click on unknown task must not emit")
	}
	if len(cb.clicks) != 2 {
		t.Fatalf("expected 2 clicks, got %v", cb.clicks)
	}
}

func TestSessionCreateTask(t *testing.T) {
	cb := &recordingCallbacks{}
	s := NewSession(nil, ModuleLeadFunnel, cb)

	s.CreateTask("novo_lead")
	s.CreateTask("")

	if len(cb.creates) != 2 || cb.creates[0] != "novo_lead" || cb.creates[1] != "" {
		t.Fatalf("unexpected creates: %v", cb.creates)
	}
}

func TestSessionFiltersAndColumns(t *testing.T) {
	s := NewSession(nil, ModuleGeneric, CallbackFuncs{}, WithColumns([]domain.Column{
		{ID: "done", Order: 1},
		{ID: "todo", Order: 0},
	}))
	s.SetTasks([]domain.Task{
		{ID: "1", Title: "Write copy", Status: "todo"},
		{ID: "2", Title: "Ship reel", Status: "completed"},
	})
	s.SetSearch("ship")

	b := s.Board()
	if len(b.Columns) != 2 || b.Columns[0].ID != "todo" {
		t.Fatalf("unexpected columns: %+v", b.Columns)
	}
	if b.TaskCount() != 1 || b.Columns[1].Tasks[0].ID != "2" {
		t.Fatalf("unexpected filtered board: %+v", b.Columns)
	}

	s.ResetFilters()
	if s.Filter().Active() {
		t.Fatalf("expected filters to be cleared")
	}
	if s.Board().TaskCount() != 2 {
		t.Fatalf("expected all tasks after reset")
	}
}

func TestSessionSetTasksCopiesInput(t *testing.T) {
	s := NewSession(nil, ModuleGeneric, nil)
	tasks := []domain.Task{{ID: "1", Status: "todo"}}
	s.SetTasks(tasks)
	tasks[0].Status = "done"

	todo, _ := s.Board().Column("todo")
	if len(todo.Tasks) != 1 {
		t.Fatalf("session state changed through caller slice")
	}
}

func TestSessionConcurrentRefresh(t *testing.T) {
	s := NewSession(nil, ModuleGeneric, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.SetTasks([]domain.Task{{ID: strconv.Itoa(i*100 + j), Status: "todo"}})
				s.StartDrag(strconv.Itoa(i*100 + j))
				s.DragOver("done")
				_ = s.Board()
				s.CancelDrag()
			}
		}(i)
	}
	wg.Wait()
	if s.DragState() != DragIdle {
		t.Fatalf("expected idle after all gestures ended")
	}
}

func TestSessionColumnsCannotShadowOverflow(t *testing.T) {
	var moves []string
	s := NewSession(nil, ModuleGeneric, CallbackFuncs{Move: func(taskID, columnID string) {
		moves = append(moves, taskID+">"+columnID)
	}}, WithColumns([]domain.Column{{ID: OverflowColumnID, Title: "Impostor"}, {ID: "a", Title: "A"}}))
	s.SetTasks([]domain.Task{{ID: "1", Status: "zz"}})

	if !s.StartDrag("1") {
		t.Fatalf("expected drag to start")
	}
	s.DragOver("a")
	if _, ok := s.Drop(); !ok {
		t.Fatalf("expected drop on a real column to resolve")
	}
	if !s.StartDrag("1") {
		t.Fatalf("expected second drag to start")
	}
	s.DragOver(OverflowColumnID)
	if _, ok := s.Drop(); ok {
		t.Fatalf("drop on overflow must stay a no-op")
	}
	if len(moves) != 1 || moves[0] != "1>a" {
		t.Fatalf("unexpected moves %v", moves)
	}
}
