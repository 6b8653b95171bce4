package board

import (
	"sync"

	"kanban-api/domain"
)

// Callbacks receives the events produced by a board session. They are
// implemented by the host application.
type Callbacks interface {
	OnTaskMove(taskID, columnID string)
	OnTaskCreate(columnID string)
	OnTaskClick(task domain.Task)
}

// CallbackFuncs adapts plain functions to Callbacks. Nil fields are skipped.
type CallbackFuncs struct {
	Move   func(taskID, columnID string)
	Create func(columnID string)
	Click  func(task domain.Task)
}

func (f CallbackFuncs) OnTaskMove(taskID, columnID string) {
	if f.Move != nil {
		f.Move(taskID, columnID)
	}
}

func (f CallbackFuncs) OnTaskCreate(columnID string) {
	if f.Create != nil {
		f.Create(columnID)
	}
}

func (f CallbackFuncs) OnTaskClick(task domain.Task) {
	if f.Click != nil {
		f.Click(task)
	}
}

// Session holds the transient state of one open board: the latest task list,
// the active filters and the drag coordinator. Task refreshes may arrive from
// other goroutines while a drag is in progress.
type Session struct {
	catalog   *Catalog
	module    ModuleType
	columns   []domain.Column
	callbacks Callbacks
	coord     *Coordinator

	mu     sync.RWMutex
	tasks  []domain.Task
	filter Filter
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	columns     []domain.Column
	coordinator []CoordinatorOption
}

// WithColumns replaces the catalog columns of the session's module. An empty
// set keeps the catalog columns.
func WithColumns(columns []domain.Column) SessionOption {
	return func(cfg *sessionConfig) {
		if len(columns) == 0 {
			return
		}
		cfg.columns = append([]domain.Column{}, columns...)
	}
}

// WithCoordinatorOptions configures the session's drag coordinator.
func WithCoordinatorOptions(opts ...CoordinatorOption) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.coordinator = append(cfg.coordinator, opts...)
	}
}

// NewSession opens a board of module m. A nil catalog selects the built-in
// one and nil callbacks discard every event.
func NewSession(catalog *Catalog, m ModuleType, callbacks Callbacks, opts ...SessionOption) *Session {
	if catalog == nil {
		catalog = NewCatalog(nil)
	}
	if callbacks == nil {
		callbacks = CallbackFuncs{}
	}
	var cfg sessionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Session{
		catalog:   catalog,
		module:    m,
		columns:   cfg.columns,
		callbacks: callbacks,
	}
	s.coord = NewCoordinator(func(mv Move) {
		s.callbacks.OnTaskMove(mv.TaskID, mv.ColumnID)
	}, cfg.coordinator...)
	return s
}

// Module returns the module type of the board.
func (s *Session) Module() ModuleType { return s.module }

// SetTasks replaces the task list with a fresh snapshot from the data layer.
func (s *Session) SetTasks(tasks []domain.Task) {
	cp := append([]domain.Task(nil), tasks...)
	s.mu.Lock()
	s.tasks = cp
	s.mu.Unlock()
}

// Tasks returns a copy of the latest task list.
func (s *Session) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Task(nil), s.tasks...)
}

func (s *Session) SetSearch(text string) {
	s.mu.Lock()
	s.filter.Search = text
	s.mu.Unlock()
}

func (s *Session) SetResponsible(id string) {
	s.mu.Lock()
	s.filter.ResponsibleID = id
	s.mu.Unlock()
}

func (s *Session) SetPriority(p string) {
	s.mu.Lock()
	s.filter.Priority = p
	s.mu.Unlock()
}

// ResetFilters clears every filter.
func (s *Session) ResetFilters() {
	s.mu.Lock()
	s.filter = Filter{}
	s.mu.Unlock()
}

// Filter returns the active filter set.
func (s *Session) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Board filters and binds the latest tasks. It is recomputed on every call.
func (s *Session) Board() Board {
	s.mu.RLock()
	tasks := s.filter.Apply(s.tasks)
	s.mu.RUnlock()
	return s.catalog.Bind(tasks, s.columns, s.module)
}

// DragState returns the state of the drag coordinator.
func (s *Session) DragState() DragState { return s.coord.State() }

// StartDrag begins dragging the task with the given id. It returns false when
// the task is not on the board.
func (s *Session) StartDrag(taskID string) bool {
	task, ok := s.findTask(taskID)
	if !ok {
		return false
	}
	return s.coord.Start(task)
}

// DragOver records the column or task id under the pointer.
func (s *Session) DragOver(targetID string) { s.coord.Over(targetID) }

// Drop completes the drag against the board as it is now, emitting
// OnTaskMove when the target resolves.
func (s *Session) Drop() (Move, bool) {
	if s.coord.State() != DragDragging {
		return Move{}, false
	}
	return s.coord.Drop(s.Board().Columns)
}

// CancelDrag aborts the drag without emitting.
func (s *Session) CancelDrag() { s.coord.Cancel() }

// CreateTask requests a new task, optionally scoped to a column.
func (s *Session) CreateTask(columnID string) { s.callbacks.OnTaskCreate(columnID) }

// ClickTask opens the task with the given id. Clicks fired right after a
// drag gesture are ignored.
func (s *Session) ClickTask(taskID string) bool {
	if s.coord.JustDragged() {
		return false
	}
	task, ok := s.findTask(taskID)
	if !ok {
		return false
	}
	s.callbacks.OnTaskClick(task)
	return true
}

func (s *Session) findTask(id string) (domain.Task, bool) {
	if id == "" {
		return domain.Task{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}
