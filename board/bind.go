package board

import (
	log "github.com/sirupsen/logrus"

	"kanban-api/domain"
)

// OverflowColumnID identifies the synthetic column holding tasks whose
// status maps to no column. It cannot collide with a catalog column id since
// those are restricted to lowercase letters, digits, '_' and '-' without a
// leading separator.
const OverflowColumnID = "__overflow__"

const overflowTitle = "Sem status"

// Board is the result of binding a task collection to a column set.
type Board struct {
	Columns []domain.BoundColumn `json:"columns"`
	// Rejected lists tasks excluded from binding because they have no id.
	Rejected []domain.Task `json:"rejected,omitempty"`
}

// Column returns the bound column with the given id.
func (b Board) Column(id string) (domain.BoundColumn, bool) {
	for _, col := range b.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return domain.BoundColumn{}, false
}

// TaskCount returns the number of tasks placed in columns, overflow included.
func (b Board) TaskCount() int {
	n := 0
	for _, col := range b.Columns {
		n += len(col.Tasks)
	}
	return n
}

// Bind groups tasks into the given columns for module m. A nil columns slice
// selects the catalog columns of m. Columns are returned sorted by Order and
// every task carrying an id lands in exactly one of them; tasks that match
// nothing go to the overflow column, which is appended last and only present
// when non-empty.
//
// A supplied column using OverflowColumnID is skipped with a warning.
//
// Tasks must carry a stable id. Tasks without one are not bound; they are
// returned in Board.Rejected and logged.
func (c *Catalog) Bind(tasks []domain.Task, columns []domain.Column, m ModuleType) Board {
	m = c.resolve(m)
	if columns == nil {
		columns = c.Columns(m)
	} else {
		columns = sortColumns(columns)
	}

	b := Board{Columns: make([]domain.BoundColumn, 0, len(columns))}
	index := make(map[string]int, len(columns))
	maxOrder := -1
	for _, col := range columns {
		if col.ID == OverflowColumnID {
			c.logger.WithFields(log.Fields{"module": m.String(), "column": col.Title}).
				Warn("column uses the reserved overflow id, skipped")
			continue
		}
		if _, dup := index[col.ID]; !dup {
			index[col.ID] = len(b.Columns)
		}
		b.Columns = append(b.Columns, domain.BoundColumn{Column: col, Tasks: []domain.Task{}})
		if col.Order > maxOrder {
			maxOrder = col.Order
		}
	}

	var overflow []domain.Task
	for _, t := range tasks {
		if t.ID == "" {
			c.logger.WithFields(log.Fields{"module": m.String(), "title": t.Title, "status": t.Status}).
				Warn("task without id excluded from board")
			b.Rejected = append(b.Rejected, t)
			continue
		}
		if id, ok := c.Normalize(t.Status, m); ok {
			if i, found := index[id]; found {
				b.Columns[i].Tasks = append(b.Columns[i].Tasks, t)
				continue
			}
		}
		if i, found := index[t.Status]; found {
			b.Columns[i].Tasks = append(b.Columns[i].Tasks, t)
			continue
		}
		overflow = append(overflow, t)
	}

	if len(overflow) > 0 {
		b.Columns = append(b.Columns, domain.BoundColumn{
			Column: domain.Column{
				ID:          OverflowColumnID,
				Title:       overflowTitle,
				Color:       "gray",
				Icon:        "help-circle",
				Order:       maxOrder + 1,
				Description: "Tarefas com status não mapeado",
			},
			Tasks: overflow,
		})
	}
	return b
}
