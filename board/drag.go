package board

import (
	"sync"
	"time"

	"kanban-api/domain"
)

// DragState is the state of a Coordinator.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DefaultClickSuppressWindow is how long a task click is ignored after a
// drag gesture ends.
const DefaultClickSuppressWindow = 150 * time.Millisecond

// Move is a resolved drag-and-drop transition.
type Move struct {
	TaskID string `json:"taskId"`
	// FromColumnID is the column holding the task at drop time, empty when
	// the task is no longer on the board.
	FromColumnID string `json:"fromColumnId,omitempty"`
	ColumnID     string `json:"columnId"`
}

// MoveFunc receives resolved moves. It only expresses intent: the
// coordinator never assumes the move was persisted.
type MoveFunc func(Move)

// Coordinator tracks a single pointer drag gesture. It keeps the identity of
// the dragged task only; column membership is resolved against the columns
// passed to Drop so task-list refreshes during a drag are picked up.
type Coordinator struct {
	emit           MoveFunc
	now            func() time.Time
	suppressWindow time.Duration

	mu          sync.Mutex
	state       DragState
	dragged     domain.Task
	over        string
	dragEndedAt time.Time
	dragEnded   bool
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithClock overrides the time source used for click suppression.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithClickSuppressWindow overrides DefaultClickSuppressWindow.
func WithClickSuppressWindow(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d >= 0 {
			c.suppressWindow = d
		}
	}
}

// NewCoordinator returns an idle coordinator reporting moves to emit.
func NewCoordinator(emit MoveFunc, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		emit:           emit,
		now:            time.Now,
		suppressWindow: DefaultClickSuppressWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Coordinator) State() DragState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dragged returns the snapshot of the task being dragged.
func (c *Coordinator) Dragged() (domain.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != DragDragging {
		return domain.Task{}, false
	}
	return c.dragged, true
}

// Start begins a drag of task. Starting while a drag is active replaces the
// previous snapshot. Tasks without an id cannot be dragged.
func (c *Coordinator) Start(task domain.Task) bool {
	if task.ID == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = DragDragging
	c.dragged = task
	c.over = ""
	return true
}

// Over records the id of the column or task currently under the pointer. An
// empty id clears the target. It is ignored when no drag is active.
func (c *Coordinator) Over(targetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != DragDragging {
		return
	}
	c.over = targetID
}

// Drop ends the drag and resolves the destination against columns: the
// target is taken as a column id first, then as the id of a task inside one
// of the columns. A resolved move is emitted once and returned. Unresolved
// targets, and the overflow column, end the drag without emitting.
func (c *Coordinator) Drop(columns []domain.BoundColumn) (Move, bool) {
	c.mu.Lock()
	if c.state != DragDragging {
		c.mu.Unlock()
		return Move{}, false
	}
	taskID := c.dragged.ID
	target := c.over
	c.resetLocked()
	c.mu.Unlock()

	dest := resolveDropTarget(columns, target)
	if dest == "" || dest == OverflowColumnID {
		return Move{}, false
	}
	mv := Move{TaskID: taskID, FromColumnID: columnOf(columns, taskID), ColumnID: dest}
	if c.emit != nil {
		c.emit(mv)
	}
	return mv, true
}

// Cancel aborts an active drag without emitting. Calling it while idle is a
// no-op.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != DragDragging {
		return
	}
	c.resetLocked()
}

// JustDragged reports whether a drag ended within the suppression window.
// Every end counts: emitted drops, unresolved drops and Cancel.
// Hosts use it to ignore the click event fired by the pointer release.
func (c *Coordinator) JustDragged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragEnded {
		return false
	}
	if c.now().Sub(c.dragEndedAt) > c.suppressWindow {
		c.dragEnded = false
		return false
	}
	return true
}

func (c *Coordinator) resetLocked() {
	c.state = DragIdle
	c.dragged = domain.Task{}
	c.over = ""
	c.dragEnded = true
	c.dragEndedAt = c.now()
}

func resolveDropTarget(columns []domain.BoundColumn, target string) string {
	if target == "" {
		return ""
	}
	for _, col := range columns {
		if col.ID == target {
			return col.ID
		}
	}
	return columnOf(columns, target)
}

func columnOf(columns []domain.BoundColumn, taskID string) string {
	for _, col := range columns {
		for _, t := range col.Tasks {
			if t.ID == taskID {
				return col.ID
			}
		}
	}
	return ""
}
